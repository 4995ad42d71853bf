package layout

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/ByLCY/paralayout/direction"
	"github.com/ByLCY/paralayout/span"
	"github.com/ByLCY/paralayout/textline"
)

// WrapMode selects the break opportunities used by BuildLines.
type WrapMode int

const (
	// WrapWord 优先在空白处分割，超过限制时在词内拆分。
	WrapWord WrapMode = iota
	// WrapChar 忽略空白机会，纯按宽度切分（仍然尊重显式换行）。
	WrapChar
	// WrapNone 仅按显式换行划分。
	WrapNone
)

// ParseWrap parses a wrap keyword. The empty string is word wrapping.
func ParseWrap(v string) (WrapMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "word", "anywhere":
		return WrapWord, nil
	case "char", "break-word", "word-break:break-word":
		return WrapChar, nil
	case "none", "nowrap", "no-wrap":
		return WrapNone, nil
	}
	return WrapWord, fmt.Errorf("未知的换行方式: %q", v)
}

func (w WrapMode) String() string {
	switch w {
	case WrapChar:
		return "char"
	case WrapNone:
		return "none"
	}
	return "word"
}

// StaticLines is the immutable line table produced by BuildLines.
type StaticLines struct {
	starts   []int
	tops     []float64
	descents []float64
	dirs     []*direction.Table
	paraDirs []direction.Dir
	tabs     []bool
	hyphens  []bool
	ellStart []int
	ellCount []int

	topPad    float64
	bottomPad float64
}

var (
	_ Lines      = (*StaticLines)(nil)
	_ Hyphenated = (*StaticLines)(nil)
)

func (s *StaticLines) LineCount() int { return len(s.descents) }
func (s *StaticLines) LineStart(line int) int { return s.starts[line] }
func (s *StaticLines) LineTop(line int) float64 { return s.tops[line] }
func (s *StaticLines) LineDescent(line int) float64 { return s.descents[line] }
func (s *StaticLines) LineDirections(line int) *direction.Table { return s.dirs[line] }
func (s *StaticLines) ParagraphDirection(line int) direction.Dir { return s.paraDirs[line] }
func (s *StaticLines) LineContainsTab(line int) bool { return s.tabs[line] }
func (s *StaticLines) EllipsisStart(line int) int { return s.ellStart[line] }
func (s *StaticLines) EllipsisCount(line int) int { return s.ellCount[line] }
func (s *StaticLines) Hyphen(line int) bool { return s.hyphens[line] }

// TopPadding is the extra space above the first line when padding is
// included. BottomPadding is its counterpart below the last line.
func (s *StaticLines) TopPadding() float64 { return s.topPad }
func (s *StaticLines) BottomPadding() float64 { return s.bottomPad }

// Build breaks text into lines and binds a Layout to them.
func Build(text *span.Text, face textline.Face, opts Options) (*Layout, error) {
	lines, err := BuildLines(text, face, opts)
	if err != nil {
		return nil, err
	}
	var spans span.Spanned
	if text.HasSpans() {
		spans = text
	}
	return New(lines, text.Runes(), spans, face, opts)
}

// lineRecord is one line before vertical metrics are assigned.
type lineRecord struct {
	start, end int
	dirs       *direction.Table
	dir        direction.Dir
	tab        bool
	tabs       *textline.TabStops
	margin     float64
	hyphen     bool
	ellStart   int
	ellCount   int
}

type lineBreak struct {
	end    int
	hyphen bool
}

type lineBuilder struct {
	text  []rune
	spans span.Spanned
	face  textline.Face
	opts  Options
	log   *zap.Logger

	tl   textline.Line
	recs []lineRecord
}

// BuildLines breaks text at line feeds and, within each paragraph, wherever
// the next word would overflow opts.Width. A width of 0 disables wrapping.
func BuildLines(text *span.Text, face textline.Face, opts Options) (*StaticLines, error) {
	if opts.Width < 0 {
		return nil, fmt.Errorf("%w: %g", ErrNegativeWidth, opts.Width)
	}
	if text == nil || face == nil {
		return nil, errors.New("layout: text 与 face 不能为空")
	}
	b := &lineBuilder{text: text.Runes(), face: face, opts: opts, log: opts.logger()}
	if text.HasSpans() {
		b.spans = text
	}

	runes := b.text
	for start := 0; start < len(runes); {
		end := len(runes)
		if i := slices.Index(runes[start:], '\n'); i >= 0 {
			end = start + i + 1
		}
		if err := b.paragraph(start, end); err != nil {
			return nil, fmt.Errorf("排版段落 [%d,%d) 失败: %w", start, end, err)
		}
		start = end
	}
	if n := len(runes); n == 0 || runes[n-1] == '\n' {
		b.recs = append(b.recs, lineRecord{
			start: n, end: n,
			dirs: direction.AllLeftToRight,
			dir:  opts.Heuristic.Resolve(nil),
		})
	}

	b.truncate()
	lines := b.finish()
	b.log.Debug("[build] done", zap.Int("lines", lines.LineCount()), zap.Float64("height", lines.tops[lines.LineCount()]))
	return lines, nil
}

func (b *lineBuilder) singleLine() bool {
	return b.opts.MaxLines == 1 && b.opts.Ellipsize != TruncateNone
}

func (b *lineBuilder) noWrap() bool {
	return b.opts.Wrap == WrapNone || b.opts.Width <= 0 || b.singleLine()
}

func (b *lineBuilder) paragraph(start, end int) error {
	para := b.text[start:end]
	body := para
	if n := len(body); n > 0 && body[n-1] == '\n' {
		body = body[:n-1]
	}
	dir := b.opts.Heuristic.Resolve(body)

	var levels []uint8
	if dir == direction.RTL || direction.NeedsBidi(para) {
		var err error
		if levels, err = direction.Analyze(para, dir); err != nil {
			return err
		}
	}

	firstMargin, restMargin, firstLines, tabs := b.paragraphStyle(start, end)
	breaks := b.breakParagraph(start, end, b.opts.Width-firstMargin, b.opts.Width-restMargin, firstLines, tabs)

	lineStart := start
	for i, br := range breaks {
		rec := lineRecord{
			start:  lineStart,
			end:    br.end,
			dir:    dir,
			dirs:   direction.AllLeftToRight,
			tab:    slices.Contains(b.text[lineStart:br.end], '\t'),
			tabs:   tabs,
			margin: restMargin,
			hyphen: br.hyphen,
		}
		if i < firstLines {
			rec.margin = firstMargin
		}
		if levels != nil {
			rec.dirs = direction.FromLevels(levels[lineStart-start:br.end-start], b.text[lineStart:br.end], dir)
		}
		b.recs = append(b.recs, rec)
		lineStart = br.end
	}
	return nil
}

// paragraphStyle sums the leading margins of the paragraph and collects its
// tab stops.
func (b *lineBuilder) paragraphStyle(start, end int) (first, rest float64, firstLines int, tabs *textline.TabStops) {
	firstLines = 1
	if b.spans == nil {
		return 0, 0, firstLines, nil
	}
	for _, m := range span.ParagraphSpans(b.spans.LeadingMargins(), start, end) {
		first += m.Value.Margin(true)
		rest += m.Value.Margin(false)
		firstLines = max(firstLines, m.Value.Lines)
	}
	if slices.Contains(b.text[start:end], '\t') {
		q := b.spans.TabStops()
		tabs = newTabStops(span.ParagraphSpans(q, start, q.NextTransition(start, end)))
	}
	return first, rest, firstLines, tabs
}

func (b *lineBuilder) breakParagraph(start, end int, firstWidth, restWidth float64, firstLines int, tabs *textline.TabStops) []lineBreak {
	bodyEnd := end
	if bodyEnd > start && b.text[bodyEnd-1] == '\n' {
		bodyEnd--
	}
	if b.noWrap() || bodyEnd == start {
		return []lineBreak{{end: end}}
	}

	var out []lineBreak
	lineStart := start
	limit := func() float64 {
		if len(out) < firstLines {
			return firstWidth
		}
		return restWidth
	}

	if b.opts.Wrap == WrapChar {
		for i := start; i < bodyEnd; i++ {
			if i > lineStart && !isMark(b.text[i]) && !b.fits(lineStart, i+1, limit(), tabs) {
				out = append(out, lineBreak{end: i})
				lineStart = i
			}
		}
		return append(out, lineBreak{end: end})
	}

	for _, tok := range tokenize(b.text, start, bodyEnd) {
		if tok.space || b.fits(lineStart, tok.end, limit(), tabs) {
			continue
		}
		if b.hasContent(lineStart, tok.start) {
			out = append(out, lineBreak{end: tok.start})
			lineStart = tok.start
		}
		// 单词本身超过限制时在词内拆分
		for !b.fits(lineStart, tok.end, limit(), tabs) {
			cut := b.fitPrefix(max(lineStart, tok.start), lineStart, tok.end, limit(), tabs)
			if cut >= tok.end {
				break
			}
			out = append(out, lineBreak{end: cut, hyphen: b.opts.Hyphenate})
			lineStart = cut
		}
	}
	return append(out, lineBreak{end: end})
}

// width measures [start, end) from a line start, tabs expanded.
func (b *lineBuilder) width(start, end int, tabs *textline.TabStops) float64 {
	var repl []span.Entry[span.Replacement]
	if b.spans != nil {
		repl = b.spans.Replacements().Overlapping(start, end)
	}
	b.tl.Set(textline.Params{
		Face: b.face, Text: b.text, Start: start, End: end,
		Dir: direction.LTR, Dirs: direction.AllLeftToRight,
		HasTabs: slices.Contains(b.text[start:end], '\t'), Tabs: tabs, Replacements: repl,
	})
	w, _ := b.tl.Metrics()
	return w
}

func (b *lineBuilder) fits(start, end int, limit float64, tabs *textline.TabStops) bool {
	return b.width(start, end, tabs) <= limit+1e-9
}

func (b *lineBuilder) hasContent(start, end int) bool {
	for _, r := range b.text[start:end] {
		if !isBreakSpace(r) {
			return true
		}
	}
	return false
}

// fitPrefix returns the largest cut in (from, end) such that [lineStart, cut)
// fits, never leaving a combining mark at the start of the next line. It
// returns at least one cluster past from.
func (b *lineBuilder) fitPrefix(from, lineStart, end int, limit float64, tabs *textline.TabStops) int {
	k := b.nextCluster(from, end)
	for k < end {
		next := b.nextCluster(k, end)
		if next >= end || !b.fits(lineStart, next, limit, tabs) {
			break
		}
		k = next
	}
	return k
}

func (b *lineBuilder) nextCluster(i, end int) int {
	i++
	for i < end && isMark(b.text[i]) {
		i++
	}
	return i
}

// truncate drops lines past MaxLines and computes ellipsis ranges.
func (b *lineBuilder) truncate() {
	dropped := false
	if n := b.opts.MaxLines; n > 0 && len(b.recs) > n {
		b.recs = b.recs[:n]
		dropped = true
	}
	if b.opts.Ellipsize == TruncateNone {
		return
	}
	avail := b.opts.EllipsizedWidth
	if avail <= 0 {
		avail = b.opts.Width
	}
	if avail <= 0 {
		avail = math.Inf(1)
	}
	ellipsisWidth := b.face.Advance([]rune{b.opts.Ellipsize.Char()})
	single := b.singleLine()

	for i := range b.recs {
		r := &b.recs[i]
		force := dropped && i == len(b.recs)-1
		visEnd := r.end
		if visEnd > r.start && b.text[visEnd-1] == '\n' {
			visEnd--
		}
		lineAvail := avail - r.margin
		textWidth := b.width(r.start, visEnd, r.tabs)
		if !force && textWidth <= lineAvail {
			continue
		}
		widths := make([]float64, visEnd-r.start)
		for j := range widths {
			widths[j] = b.face.Advance(b.text[r.start+j : r.start+j+1])
		}
		r.ellStart, r.ellCount = calculateEllipsis(widths, lineAvail, textWidth, ellipsisWidth, b.opts.Ellipsize, single, force)
		if r.ellCount > 0 {
			r.hyphen = false
			b.log.Debug("[build] ellipsis", zap.Int("line", i), zap.Int("start", r.ellStart), zap.Int("count", r.ellCount))
		}
	}
}

// finish assigns tops and descents. Spacing is added below every line but
// the last; padding widens the first and last lines.
func (b *lineBuilder) finish() *StaticLines {
	n := len(b.recs)
	s := &StaticLines{
		starts:   make([]int, n+1),
		tops:     make([]float64, n+1),
		descents: make([]float64, n),
		dirs:     make([]*direction.Table, n),
		paraDirs: make([]direction.Dir, n),
		tabs:     make([]bool, n),
		hyphens:  make([]bool, n),
		ellStart: make([]int, n),
		ellCount: make([]int, n),
	}
	m := b.face.Metrics()
	mult, add := b.opts.spacingMult(), b.opts.SpacingAdd
	if b.opts.IncludePad {
		s.topPad = m.Leading / 2
		s.bottomPad = m.Leading - s.topPad
	}

	y := 0.0
	for i, r := range b.recs {
		above, below := m.Ascent, m.Descent
		last := i == n-1
		if i == 0 {
			above += s.topPad
		}
		if last {
			below += s.bottomPad
		}
		extra := 0.0
		if !last && (mult != 1 || add != 0) {
			extra = (above+below)*(mult-1) + add
		}
		s.starts[i] = r.start
		s.tops[i] = y
		s.descents[i] = below + extra
		s.dirs[i] = r.dirs
		s.paraDirs[i] = r.dir
		s.tabs[i] = r.tab
		s.hyphens[i] = r.hyphen
		s.ellStart[i] = r.ellStart
		s.ellCount[i] = r.ellCount
		y += above + below + extra
	}
	s.starts[n] = b.recs[n-1].end
	s.tops[n] = y
	return s
}

type token struct {
	start, end int
	space      bool
}

// tokenize splits [start, end) into alternating runs of breakable space and
// everything else.
func tokenize(text []rune, start, end int) []token {
	var out []token
	for i := start; i < end; {
		space := isBreakSpace(text[i])
		j := i + 1
		for j < end && isBreakSpace(text[j]) == space {
			j++
		}
		out = append(out, token{start: i, end: j, space: space})
		i = j
	}
	return out
}

// isBreakSpace matches whitespace that offers a break. No-break spaces stay
// inside their word.
func isBreakSpace(r rune) bool {
	switch r {
	case 0xA0, 0x2007, 0x202F, 0xFEFF:
		return false
	}
	return unicode.IsSpace(r)
}

func isMark(r rune) bool {
	return r == 0x200D || unicode.In(r, unicode.Mn, unicode.Me)
}
