package layout

import (
	"image/color"

	"go.uber.org/zap"

	"github.com/ByLCY/paralayout/direction"
	"github.com/ByLCY/paralayout/span"
	"github.com/ByLCY/paralayout/textline"
)

// StripeWidth 是页边距竖线的宽度。
const StripeWidth = 2.0

// Surface is the drawing target. The clip is reported in layout coordinates.
type Surface interface {
	textline.Canvas
	// ClipBounds returns false when nothing can be drawn.
	ClipBounds() (Rect, bool)
	Translate(dx, dy float64)
	FillRect(r Rect, c color.Color)
	FillPath(p *Path, c color.Color)
}

// Draw paints the backgrounds, the optional highlight shifted down by
// cursorOffsetY, and the text of every line inside the clip.
func (l *Layout) Draw(s Surface, highlight *Path, highlightColor color.Color, cursorOffsetY float64) {
	first, last := l.LineRangeForDraw(s)
	if last < 0 {
		return
	}
	l.DrawBackground(s, highlight, highlightColor, cursorOffsetY, first, last)
	l.log.Debug("[draw] start", zap.Int("first", first), zap.Int("last", last))
	l.DrawText(s, first, last)
	l.log.Debug("[draw] end")
}

// LineRangeForDraw returns the lines intersecting the clip of s, or (0, -1)
// when the clip misses the text.
func (l *Layout) LineRangeForDraw(s Surface) (first, last int) {
	clip, ok := s.ClipBounds()
	if !ok {
		return 0, -1
	}
	top := max(clip.Top, 0)
	bottom := min(l.Height(), clip.Bottom)
	if top >= bottom {
		return 0, -1
	}
	return l.LineForVertical(top), l.LineForVertical(bottom)
}

// paragraphCache holds the styles of the paragraph a draw sweep is in.
type paragraphCache struct {
	end       int
	align     span.Alignment
	margins   []span.Entry[span.LeadingMargin]
	tabSpans  []span.Entry[span.TabStop]
	tabs      *textline.TabStops
	tabsReady bool
}

func (c *paragraphCache) load(l *Layout, start int) {
	c.end = l.spans.NextParagraphTransition(start, len(l.text))
	c.align = l.align
	if as := span.ParagraphSpans(l.spans.Alignments(), start, c.end); len(as) > 0 {
		c.align = as[len(as)-1].Value.Alignment
	}
	c.margins = span.ParagraphSpans(l.spans.LeadingMargins(), start, c.end)
	c.tabSpans = span.ParagraphSpans(l.spans.TabStops(), start, c.end)
	c.tabsReady = false
}

func (c *paragraphCache) tabStops() *textline.TabStops {
	if !c.tabsReady {
		c.tabs = newTabStops(c.tabSpans)
		c.tabsReady = true
	}
	return c.tabs
}

// DrawText draws lines first through last.
func (l *Layout) DrawText(s Surface, first, last int) {
	prevBottom := l.LineTop(first)
	prevEnd := l.LineStart(first)
	para := paragraphCache{align: l.align}
	tl := l.pool.Acquire()
	defer l.pool.Release(tl)

	for line := first; line <= last; line++ {
		start := prevEnd
		prevEnd = l.LineStart(line + 1)
		end := l.lineVisibleEnd(line, start, prevEnd)
		ltop := prevBottom
		lbottom := l.LineTop(line + 1)
		prevBottom = lbottom
		lbaseline := lbottom - l.LineDescent(line)
		dir := l.ParagraphDirection(line)

		left, right := 0.0, l.width
		if l.spans != nil {
			firstParaLine := l.isParagraphStart(start)
			if start >= para.end && (line == first || firstParaLine) {
				para.load(l, start)
			}
			useFirst := l.useFirstLineMargin(line, start, para.margins)
			for _, m := range para.margins {
				if dir == direction.RTL {
					l.drawLeadingMargin(s, m.Value, right, dir, ltop, lbottom)
					right -= m.Value.Margin(useFirst)
				} else {
					l.drawLeadingMargin(s, m.Value, left, dir, ltop, lbottom)
					left += m.Value.Margin(useFirst)
				}
			}
		}

		hasTab := l.LineContainsTab(line)
		var tabs *textline.TabStops
		if hasTab {
			tabs = para.tabStops()
		}

		var x float64
		switch align := resolveAlignment(para.align, dir); {
		case align == span.AlignNormal && dir == direction.LTR:
			x = left + l.IndentAdjust(line, span.AlignLeft)
		case align == span.AlignNormal:
			x = right + l.IndentAdjust(line, span.AlignRight)
		default:
			extent := l.lineExtentWith(line, tabs, false)
			switch {
			case align != span.AlignOpposite:
				x = (left+right-extent)/2 + l.IndentAdjust(line, span.AlignCenter)
			case dir == direction.LTR:
				x = right - extent + l.IndentAdjust(line, span.AlignRight)
			default:
				x = left - extent + l.IndentAdjust(line, span.AlignLeft)
			}
		}

		dirs := l.LineDirections(line)
		if dirs == direction.AllLeftToRight && l.spans == nil && !hasTab {
			if start < end {
				s.DrawRun(l.display[start:end], x, lbaseline, false)
			}
		} else {
			var repl []span.Entry[span.Replacement]
			if l.spans != nil {
				repl = l.spans.Replacements().Overlapping(start, end)
			}
			tl.Set(textline.Params{
				Face: l.face, Text: l.display, Start: start, End: end,
				Dir: dir, Dirs: dirs, HasTabs: hasTab, Tabs: tabs, Replacements: repl,
			})
			tl.Draw(s, x, lbaseline)
		}
		if l.Hyphen(line) {
			l.drawHyphen(s, line, start, end, x, lbaseline, hasTab, tabs)
		}
		l.log.Debug("[drawText]", zap.Int("line", line), zap.Float64("x", x), zap.Int("start", start), zap.Int("end", end))
	}
}

// drawHyphen places a hyphen after the trailing edge of the line.
func (l *Layout) drawHyphen(s Surface, line, start, end int, x, baseline float64, hasTab bool, tabs *textline.TabStops) {
	tl := l.textLine(line, start, end, hasTab, tabs)
	defer l.pool.Release(tl)
	w, _ := tl.Metrics()
	hyphen := []rune{'-'}
	edge := x + w
	if l.ParagraphDirection(line) == direction.RTL {
		edge -= l.face.Advance(hyphen)
	}
	s.DrawRun(hyphen, edge, baseline, false)
}

// drawLeadingMargin paints the stripe of a quote-style margin at x, on the
// inner side for the paragraph direction.
func (l *Layout) drawLeadingMargin(s Surface, m span.LeadingMargin, x float64, dir direction.Dir, top, bottom float64) {
	if m.Stripe == nil {
		return
	}
	r := Rect{Left: x, Top: top, Right: x + StripeWidth, Bottom: bottom}
	if dir == direction.RTL {
		r.Left, r.Right = x-StripeWidth, x
	}
	s.FillRect(r, m.Stripe)
}

// DrawBackground paints line background spans for lines first through last,
// then the highlight path.
func (l *Layout) DrawBackground(s Surface, highlight *Path, highlightColor color.Color, cursorOffsetY float64, first, last int) {
	if l.spans != nil {
		l.drawLineBackgrounds(s, first, last)
	}
	if highlight.Empty() {
		return
	}
	if cursorOffsetY != 0 {
		s.Translate(0, cursorOffsetY)
	}
	s.FillPath(highlight, highlightColor)
	if cursorOffsetY != 0 {
		s.Translate(0, -cursorOffsetY)
	}
}

func (l *Layout) drawLineBackgrounds(s Surface, first, last int) {
	q := l.spans.LineBackgrounds()
	if q.Len() == 0 {
		return
	}
	textLen := len(l.text)
	all := q.Overlapping(0, textLen)
	prevBottom := l.LineTop(first)
	prevEnd := l.LineStart(first)
	spanEnd := 0
	var active []span.Entry[span.LineBackground]
	for line := first; line <= last; line++ {
		start := prevEnd
		end := l.LineStart(line + 1)
		prevEnd = end
		ltop := prevBottom
		lbottom := l.LineTop(line + 1)
		prevBottom = lbottom

		if start >= spanEnd {
			spanEnd = q.NextTransition(start, textLen)
			active = active[:0]
			if start != end || start == 0 {
				for _, e := range all {
					if e.Start < end && e.End > start {
						active = append(active, e)
					}
				}
			}
		}
		for _, e := range active {
			if e.Value.Color != nil {
				s.FillRect(Rect{Left: 0, Top: ltop, Right: l.width, Bottom: lbottom}, e.Value.Color)
			}
		}
	}
}
