// Package textline measures, draws and navigates a single laid-out line of
// styled text. Offsets passed to a Line are relative to the line start.
package textline

import (
	"sort"
	"unicode"

	"github.com/ByLCY/paralayout/direction"
	"github.com/ByLCY/paralayout/span"
)

// Params describe the line a Line is bound to.
type Params struct {
	Face Face
	// Text is the whole document; Start and End select the line.
	Text       []rune
	Start, End int
	Dir        direction.Dir
	Dirs       *direction.Table
	// HasTabs enables tab expansion. Tabs may be nil to use the default
	// increment.
	HasTabs bool
	Tabs    *TabStops
	// Replacements overlapping the line, with absolute offsets.
	Replacements []span.Entry[span.Replacement]
}

// Line is a reusable scratch object; see Pool.
type Line struct {
	face    Face
	text    []rune
	start   int
	n       int
	dir     direction.Dir
	dirs    *direction.Table
	hasTabs bool
	tabs    *TabStops
	repl    []span.Entry[span.Replacement]
}

// Set binds l to a line.
func (l *Line) Set(p Params) {
	l.face = p.Face
	l.text = p.Text
	l.start = p.Start
	l.n = p.End - p.Start
	l.dir = p.Dir
	if l.dir != direction.RTL {
		l.dir = direction.LTR
	}
	l.dirs = p.Dirs
	if l.dirs == nil {
		l.dirs = direction.AllLeftToRight
	}
	l.hasTabs = p.HasTabs
	l.tabs = p.Tabs
	l.repl = append(l.repl[:0], p.Replacements...)
	sort.SliceStable(l.repl, func(i, j int) bool { return l.repl[i].Start < l.repl[j].Start })
}

func (l *Line) reset() {
	l.face = nil
	l.text = nil
	l.start, l.n = 0, 0
	l.dirs = nil
	l.tabs = nil
	l.repl = l.repl[:0]
}

// Len returns the number of runes in the line.
func (l *Line) Len() int { return l.n }

func (l *Line) nextTab(h float64) float64 {
	if l.tabs != nil {
		return l.tabs.NextTab(h)
	}
	return NextDefaultStop(h, TabIncrement)
}

// advance measures the absolute range [a, b). A replacement counts once, with
// its own width, when its start falls inside the range.
func (l *Line) advance(a, b int) float64 {
	if a >= b {
		return 0
	}
	w := 0.0
	for _, e := range l.repl {
		if e.End <= a || e.Start >= b {
			continue
		}
		if e.Start > a {
			w += l.face.Advance(l.text[a:e.Start])
		}
		if e.Start >= a {
			w += e.Value.Width
		}
		a = min(e.End, b)
	}
	if a < b {
		w += l.face.Advance(l.text[a:b])
	}
	return w
}

// measureRun returns the signed width of [start, offset): negative for
// right-to-left runs.
func (l *Line) measureRun(start, offset int, rtl bool) float64 {
	w := l.advance(l.start+start, l.start+offset)
	if rtl {
		return -w
	}
	return w
}

// Measure returns the signed distance from the leading edge of the line to
// the edge of the character at offset. With trailing set the distance is to
// the trailing edge of the character before offset.
func (l *Line) Measure(offset int, trailing bool) float64 {
	target := offset
	if trailing {
		target = offset - 1
	}
	if target < 0 {
		return 0
	}

	h := 0.0
	if !l.hasTabs {
		if l.dirs == direction.AllLeftToRight {
			return l.measureRun(0, offset, false)
		}
		if l.dirs == direction.AllRightToLeft {
			return l.measureRun(0, offset, true)
		}
	}

	paraRTL := l.dir == direction.RTL
	for i := 0; i < l.dirs.Len(); i++ {
		run := l.dirs.Run(i)
		runStart, runLimit := run.Start, min(run.Limit(), l.n)
		runRTL := run.RTL()

		segStart := runStart
		j := runLimit
		if l.hasTabs {
			j = runStart
		}
		for ; j <= runLimit; j++ {
			tab := l.hasTabs && j < runLimit && l.text[l.start+j] == '\t'
			if j != runLimit && !tab {
				continue
			}
			inSegment := target >= segStart && target < j
			advance := paraRTL == runRTL
			if inSegment && advance {
				return h + l.measureRun(segStart, offset, runRTL)
			}

			w := l.measureRun(segStart, j, runRTL)
			if !advance {
				w = -w
			}
			h += w
			if inSegment {
				return h + l.measureRun(segStart, offset, runRTL)
			}

			if tab {
				if offset == j {
					return h
				}
				h = float64(l.dir) * l.nextTab(h*float64(l.dir))
				if target == j {
					return h
				}
			}
			segStart = j + 1
		}
	}
	return h
}

// Metrics returns the line's signed width together with the face extents.
func (l *Line) Metrics() (float64, Metrics) {
	return l.Measure(l.n, false), l.face.Metrics()
}

// Draw paints the line with its leading edge at x.
func (l *Line) Draw(c Canvas, x, baseline float64) {
	if !l.hasTabs {
		if l.dirs == direction.AllLeftToRight {
			l.drawRun(c, 0, l.n, false, x, baseline)
			return
		}
		if l.dirs == direction.AllRightToLeft {
			l.drawRun(c, 0, l.n, true, x, baseline)
			return
		}
	}
	h := 0.0
	for i := 0; i < l.dirs.Len(); i++ {
		run := l.dirs.Run(i)
		runStart, runLimit := run.Start, min(run.Limit(), l.n)
		segStart := runStart
		j := runLimit
		if l.hasTabs {
			j = runStart
		}
		for ; j <= runLimit; j++ {
			tab := l.hasTabs && j < runLimit && l.text[l.start+j] == '\t'
			if j != runLimit && !tab {
				continue
			}
			h += l.drawRun(c, segStart, j, run.RTL(), x+h, baseline)
			if tab {
				h = float64(l.dir) * l.nextTab(h*float64(l.dir))
			}
			segStart = j + 1
		}
	}
}

// drawRun draws [start, limit) beginning at the leading edge x and returns
// the signed advance in the paragraph direction.
func (l *Line) drawRun(c Canvas, start, limit int, rtl bool, x, baseline float64) float64 {
	if start >= limit {
		return 0
	}
	a, b := l.start+start, l.start+limit
	w := l.advance(a, b)
	left := x
	if l.dir == direction.RTL {
		left = x - w
	}
	if c != nil {
		l.drawPieces(c, a, b, rtl, left, baseline)
	}
	return float64(l.dir) * w
}

// drawPieces emits the text between replacements. Replacements reserve their
// width but draw nothing.
func (l *Line) drawPieces(c Canvas, a, b int, rtl bool, left, baseline float64) {
	type piece struct {
		start, end int
		text       bool
	}
	var pieces []piece
	for _, e := range l.repl {
		if e.End <= a || e.Start >= b {
			continue
		}
		if e.Start > a {
			pieces = append(pieces, piece{a, e.Start, true})
		}
		pieces = append(pieces, piece{max(a, e.Start), min(e.End, b), false})
		a = min(e.End, b)
	}
	if a < b {
		pieces = append(pieces, piece{a, b, true})
	}
	if rtl {
		for i, j := 0, len(pieces)-1; i < j; i, j = i+1, j-1 {
			pieces[i], pieces[j] = pieces[j], pieces[i]
		}
	}
	x := left
	for _, p := range pieces {
		w := l.advance(p.start, p.end)
		if p.text && w > 0 {
			c.DrawRun(l.text[p.start:p.end], x, baseline, rtl)
		}
		x += w
	}
}

// OffsetToLeftRightOf returns the offset visually adjacent to cursor. The
// result may be -1 or Len()+1 when the move leaves the line.
func (l *Line) OffsetToLeftRightOf(cursor int, toLeft bool) int {
	lineEnd := l.n
	paraRTL := l.dir == direction.RTL
	runs := l.dirs

	runIndex, runLevel := 0, 0
	runStart, runLimit := 0, lineEnd
	newCaret := -1
	trailing := false

	switch cursor {
	case 0:
		runIndex = -1
	case lineEnd:
		runIndex = runs.Len()
	default:
		for runIndex = 0; runIndex < runs.Len(); runIndex++ {
			r := runs.Run(runIndex)
			if cursor < r.Start {
				continue
			}
			runStart = r.Start
			runLimit = min(r.Limit(), lineEnd)
			if cursor >= runLimit {
				continue
			}
			runLevel = int(r.Level)
			if cursor == runStart {
				// On a run boundary the caret may belong to the trailing
				// edge of the previous character.
				pos := cursor - 1
				for pi := 0; pi < runs.Len(); pi++ {
					pr := runs.Run(pi)
					prLimit := min(pr.Limit(), lineEnd)
					if pos >= pr.Start && pos < prLimit {
						if int(pr.Level) < runLevel {
							runIndex = pi
							runLevel = int(pr.Level)
							runStart = pr.Start
							runLimit = prLimit
							trailing = true
						}
						break
					}
				}
			}
			break
		}

		if runIndex != runs.Len() {
			runRTL := runLevel&1 != 0
			advance := toLeft == runRTL
			edge := runStart
			if advance {
				edge = runLimit
			}
			if cursor != edge || advance != trailing {
				newCaret = l.offsetBeforeAfter(runIndex, runStart, runLimit, cursor, advance)
				if newCaret != edge {
					return newCaret
				}
			}
		}
	}

	var advance bool
	for {
		advance = toLeft == paraRTL
		other := runIndex - 1
		if advance {
			other = runIndex + 1
		}
		if other >= 0 && other < runs.Len() {
			or := runs.Run(other)
			otherStart := or.Start
			otherLimit := min(or.Limit(), lineEnd)
			otherLevel := int(or.Level)
			advance = toLeft == (otherLevel&1 != 0)
			if newCaret == -1 {
				from := otherLimit
				if advance {
					from = otherStart
				}
				newCaret = l.offsetBeforeAfter(other, otherStart, otherLimit, from, advance)
				far := otherStart
				if advance {
					far = otherLimit
				}
				if newCaret == far {
					// Crossed a whole run and landed on another boundary.
					runIndex = other
					runLevel = otherLevel
					continue
				}
				break
			}
			if otherLevel < runLevel {
				if advance {
					newCaret = otherStart
				} else {
					newCaret = otherLimit
				}
			}
			break
		}

		if newCaret == -1 {
			if advance {
				newCaret = l.n + 1
			} else {
				newCaret = -1
			}
			break
		}
		if newCaret <= lineEnd {
			if advance {
				newCaret = lineEnd
			} else {
				newCaret = 0
			}
		}
		break
	}
	return newCaret
}

// offsetBeforeAfter steps one cluster within a run. Outside any run, or at the
// line edge, it steps through the whole text instead.
func (l *Line) offsetBeforeAfter(runIndex, runStart, runLimit, offset int, after bool) int {
	lo, hi := runStart, runLimit
	if runIndex < 0 || offset == 0 && !after || offset == l.n && after {
		lo, hi = -l.start, len(l.text)-l.start
	}
	abs := l.start + offset
	if after {
		abs = l.clusterAfter(abs)
	} else {
		abs = l.clusterBefore(abs)
	}
	rel := abs - l.start
	return max(lo, min(hi, rel))
}

// clusterAfter and clusterBefore move over combining marks and whole
// replacements.
func (l *Line) clusterAfter(abs int) int {
	if abs >= len(l.text) {
		return len(l.text)
	}
	abs++
	for abs < len(l.text) && isMark(l.text[abs]) {
		abs++
	}
	for _, e := range l.repl {
		if abs > e.Start && abs < e.End {
			abs = e.End
		}
	}
	return abs
}

func (l *Line) clusterBefore(abs int) int {
	if abs <= 0 {
		return 0
	}
	abs--
	for abs > 0 && isMark(l.text[abs]) {
		abs--
	}
	for _, e := range l.repl {
		if abs > e.Start && abs < e.End {
			abs = e.Start
		}
	}
	return abs
}

func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) || r == 0x200D
}
