package layout

import (
	"math"

	"github.com/ByLCY/paralayout/direction"
	"github.com/ByLCY/paralayout/span"
	"github.com/ByLCY/paralayout/textline"
)

// IsRtlCharAt reports whether the character at offset sits in an RTL run.
func (l *Layout) IsRtlCharAt(offset int) bool {
	line := l.LineForOffset(offset)
	return l.LineDirections(line).RTLAt(offset - l.LineStart(line))
}

// RunRange returns the absolute [start, end) of the run holding offset. A
// uniform line reports [0, LineEnd).
func (l *Layout) RunRange(offset int) (start, end int) {
	line := l.LineForOffset(offset)
	lineStart := l.LineStart(line)
	if s, e, ok := l.LineDirections(line).RunRange(offset - lineStart); ok {
		return lineStart + s, min(lineStart+e, l.LineEnd(line))
	}
	return 0, l.LineEnd(line)
}

// IsLevelBoundary reports whether offset has two caret positions.
func (l *Layout) IsLevelBoundary(offset int) bool {
	line := l.LineForOffset(offset)
	start := l.LineStart(line)
	return l.LineDirections(line).LevelBoundary(offset-start, l.LineEnd(line)-start, l.ParagraphDirection(line))
}

func (l *Layout) primaryIsTrailingPrevious(offset int) bool {
	line := l.LineForOffset(offset)
	start := l.LineStart(line)
	return l.LineDirections(line).PrimaryIsTrailingPrevious(offset-start, l.LineEnd(line)-start, l.ParagraphDirection(line))
}

// PrimaryHorizontal returns the x of the primary caret at offset. With
// clamped the measured part is capped at the layout width.
func (l *Layout) PrimaryHorizontal(offset int, clamped bool) float64 {
	trailing := l.primaryIsTrailingPrevious(offset)
	return l.horizontal(offset, trailing, l.LineForOffset(offset), clamped)
}

// SecondaryHorizontal returns the x of the caret on the other side of a
// level boundary. Elsewhere it equals PrimaryHorizontal.
func (l *Layout) SecondaryHorizontal(offset int, clamped bool) float64 {
	trailing := l.primaryIsTrailingPrevious(offset)
	return l.horizontal(offset, !trailing, l.LineForOffset(offset), clamped)
}

func (l *Layout) horizontal(offset int, trailing bool, line int, clamped bool) float64 {
	start, end := l.LineStart(line), l.LineEnd(line)
	hasTab := l.LineContainsTab(line)
	var tabs *textline.TabStops
	if hasTab {
		tabs = l.tabStops(start, end)
	}
	tl := l.textLine(line, start, end, hasTab, tabs)
	defer l.pool.Release(tl)
	w := tl.Measure(offset-start, trailing)
	if clamped && w > l.width {
		w = l.width
	}
	return l.lineStartPos(line, l.ParagraphLeft(line), l.ParagraphRight(line)) + w
}

func (l *Layout) caretX(offset int, primary bool) float64 {
	if primary {
		return l.PrimaryHorizontal(offset, false)
	}
	return l.SecondaryHorizontal(offset, false)
}

// OffsetForHorizontal returns the offset on line whose caret is closest to
// x. Ties go to the earlier candidate, except the line end which wins ties.
func (l *Layout) OffsetForHorizontal(line int, x float64, primary bool) int {
	lineStart, lineEnd := l.LineStart(line), l.LineEnd(line)
	dirs := l.LineDirections(line)
	tl := l.textLine(line, lineStart, lineEnd, false, nil)
	defer l.pool.Release(tl)

	limit := lineEnd
	if line != l.LineCount()-1 && lineEnd > lineStart {
		limit = tl.OffsetToLeftRightOf(lineEnd-lineStart, !l.IsRtlCharAt(lineEnd-1)) + lineStart
	}

	best := lineStart
	bestDist := math.Abs(l.caretX(best, primary) - x)

	for i := 0; i < dirs.Len(); i++ {
		r := dirs.Run(i)
		here := lineStart + r.Start
		there := min(here+r.Length, limit)
		rtl := r.RTL()
		swap := 1.0
		if rtl {
			swap = -1
		}

		high, low := there, here
		for high-low > 1 {
			guess := (high + low) / 2
			adjusted := l.offsetAtStartOf(guess)
			if l.caretX(adjusted, primary)*swap >= x*swap {
				high = guess
			} else {
				low = guess
			}
		}
		low = max(low, here+1)

		if low < there {
			aft := tl.OffsetToLeftRightOf(low-lineStart, rtl) + lineStart
			low = tl.OffsetToLeftRightOf(aft-lineStart, !rtl) + lineStart
			if low >= here && low < there {
				dist := math.Abs(l.caretX(low, primary) - x)
				if aft < there {
					if other := math.Abs(l.caretX(aft, primary) - x); other < dist {
						dist = other
						low = aft
					}
				}
				if dist < bestDist {
					bestDist = dist
					best = low
				}
			}
		}

		if dist := math.Abs(l.caretX(here, primary) - x); dist < bestDist {
			bestDist = dist
			best = here
		}
	}

	if dist := math.Abs(l.caretX(limit, primary) - x); dist <= bestDist {
		best = limit
	}
	return best
}

// offsetAtStartOf snaps offset back to the start of a replacement covering it.
func (l *Layout) offsetAtStartOf(offset int) int {
	if offset == 0 || l.spans == nil {
		return offset
	}
	for _, e := range l.spans.Replacements().Overlapping(offset, offset) {
		if e.Start < offset && e.End > offset {
			offset = e.Start
		}
	}
	return offset
}

// OffsetToLeftOf returns the caret offset one step to the visual left.
func (l *Layout) OffsetToLeftOf(offset int) int {
	return l.offsetToLeftRightOf(offset, true)
}

// OffsetToRightOf returns the caret offset one step to the visual right.
func (l *Layout) OffsetToRightOf(offset int) int {
	return l.offsetToLeftRightOf(offset, false)
}

func (l *Layout) offsetToLeftRightOf(caret int, toLeft bool) int {
	line := l.LineForOffset(caret)
	lineStart, lineEnd := l.LineStart(line), l.LineEnd(line)
	dir := l.ParagraphDirection(line)

	changed := false
	if toLeft == (dir == direction.RTL) {
		if caret == lineEnd {
			if line >= l.LineCount()-1 {
				return caret
			}
			changed = true
			line++
		}
	} else if caret == lineStart {
		if line == 0 {
			return caret
		}
		changed = true
		line--
	}

	if changed {
		lineStart, lineEnd = l.LineStart(line), l.LineEnd(line)
		// 进入方向相反的段落时，沿反方向移动才能落到该行上。
		if newDir := l.ParagraphDirection(line); newDir != dir {
			toLeft = !toLeft
		}
	}

	tl := l.textLine(line, lineStart, lineEnd, false, nil)
	defer l.pool.Release(tl)
	caret = lineStart + tl.OffsetToLeftRightOf(caret-lineStart, toLeft)
	return min(max(caret, 0), len(l.text))
}

// ShouldClampCursor reports whether carets on line are kept inside the width.
func (l *Layout) ShouldClampCursor(line int) bool {
	switch l.ParagraphAlignment(line) {
	case span.AlignLeft:
		return true
	case span.AlignNormal:
		return l.ParagraphDirection(line) == direction.LTR
	}
	return false
}

// CursorPath returns the caret shape at point: a vertical bar, or two
// half-height bars at a level boundary.
func (l *Layout) CursorPath(point int) *Path {
	p := &Path{}
	line := l.LineForOffset(point)
	top, bottom := l.LineTop(line), l.LineTop(line+1)
	clamped := l.ShouldClampCursor(line)

	h1 := l.PrimaryHorizontal(point, clamped) - 0.5
	h2 := h1
	if l.IsLevelBoundary(point) {
		h2 = l.SecondaryHorizontal(point, clamped) - 0.5
	}
	h1 = max(h1, 0.5)
	h2 = max(h2, 0.5)

	if h1 == h2 {
		p.MoveTo(h1, top)
		p.LineTo(h1, bottom)
		return p
	}
	mid := (top + bottom) / 2
	p.MoveTo(h1, top)
	p.LineTo(h1, mid)
	p.MoveTo(h2, mid)
	p.LineTo(h2, bottom)
	return p
}
