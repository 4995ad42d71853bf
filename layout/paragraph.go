package layout

import (
	"math"

	"github.com/ByLCY/paralayout/direction"
	"github.com/ByLCY/paralayout/span"
	"github.com/ByLCY/paralayout/textline"
)

// ParagraphAlignment returns the base alignment unless an alignment span
// covers the line; the last registered one wins.
func (l *Layout) ParagraphAlignment(line int) span.Alignment {
	if l.spans == nil {
		return l.align
	}
	as := span.ParagraphSpans(l.spans.Alignments(), l.LineStart(line), l.LineEnd(line))
	if n := len(as); n > 0 {
		return as[n-1].Value.Alignment
	}
	return l.align
}

// resolveAlignment turns the absolute Left/Right into Normal/Opposite for
// the paragraph direction.
func resolveAlignment(a span.Alignment, dir direction.Dir) span.Alignment {
	switch a {
	case span.AlignLeft:
		if dir == direction.LTR {
			return span.AlignNormal
		}
		return span.AlignOpposite
	case span.AlignRight:
		if dir == direction.LTR {
			return span.AlignOpposite
		}
		return span.AlignNormal
	}
	return a
}

// ParagraphLeft is the leading margin for LTR paragraphs and 0 otherwise.
func (l *Layout) ParagraphLeft(line int) float64 {
	if l.ParagraphDirection(line) == direction.RTL || l.spans == nil {
		return 0
	}
	return l.paragraphLeadingMargin(line)
}

// ParagraphRight is the width, less the leading margin for RTL paragraphs.
func (l *Layout) ParagraphRight(line int) float64 {
	if l.ParagraphDirection(line) == direction.LTR || l.spans == nil {
		return l.width
	}
	return l.width - l.paragraphLeadingMargin(line)
}

func (l *Layout) paragraphLeadingMargin(line int) float64 {
	if l.spans == nil {
		return 0
	}
	start := l.LineStart(line)
	q := l.spans.LeadingMargins()
	ms := span.ParagraphSpans(q, start, q.NextTransition(start, l.LineEnd(line)))
	if len(ms) == 0 {
		return 0
	}
	first := l.useFirstLineMargin(line, start, ms)
	margin := 0.0
	for _, m := range ms {
		margin += m.Value.Margin(first)
	}
	return margin
}

// useFirstLineMargin is true on the first line of a paragraph and on the
// lines counted by a margin with an explicit line count.
func (l *Layout) useFirstLineMargin(line, start int, ms []span.Entry[span.LeadingMargin]) bool {
	if l.isParagraphStart(start) {
		return true
	}
	for _, m := range ms {
		if m.Value.Lines > 0 && line < l.LineForOffset(m.Start)+m.Value.Lines {
			return true
		}
	}
	return false
}

func (l *Layout) isParagraphStart(start int) bool {
	return start == 0 || l.text[start-1] == '\n'
}

// tabStops collects the tab stop spans over [start, end), or nil.
func (l *Layout) tabStops(start, end int) *textline.TabStops {
	if l.spans == nil {
		return nil
	}
	return newTabStops(span.ParagraphSpans(l.spans.TabStops(), start, end))
}

// lineExtent is the signed width of line, up to its visible end unless full.
func (l *Layout) lineExtent(line int, full bool) float64 {
	start, end := l.LineStart(line), l.lineExtentEnd(line, full)
	var tabs *textline.TabStops
	if l.LineContainsTab(line) {
		tabs = l.tabStops(start, end)
	}
	return l.lineExtentWith(line, tabs, full)
}

func (l *Layout) lineExtentEnd(line int, full bool) int {
	if full {
		return l.LineEnd(line)
	}
	return l.LineVisibleEnd(line)
}

func (l *Layout) lineExtentWith(line int, tabs *textline.TabStops, full bool) float64 {
	start, end := l.LineStart(line), l.lineExtentEnd(line, full)
	tl := l.textLine(line, start, end, l.LineContainsTab(line), tabs)
	defer l.pool.Release(tl)
	w, _ := tl.Metrics()
	return w
}

// LineMax is the leading margin plus the visible extent of line.
func (l *Layout) LineMax(line int) float64 {
	return l.paragraphLeadingMargin(line) + math.Abs(l.lineExtent(line, false))
}

// LineWidth is like LineMax but includes trailing whitespace.
func (l *Layout) LineWidth(line int) float64 {
	return l.paragraphLeadingMargin(line) + math.Abs(l.lineExtent(line, true))
}

// LineLeft returns the leftmost x of line, margin included.
func (l *Layout) LineLeft(line int) float64 {
	dir := l.ParagraphDirection(line)
	switch l.ParagraphAlignment(line) {
	case span.AlignLeft:
		return 0
	case span.AlignNormal:
		if dir == direction.RTL {
			return l.ParagraphRight(line) - l.LineMax(line)
		}
		return 0
	case span.AlignRight:
		return l.width - l.LineMax(line)
	case span.AlignOpposite:
		if dir == direction.RTL {
			return 0
		}
		return l.width - l.LineMax(line)
	}
	left, right := l.ParagraphLeft(line), l.ParagraphRight(line)
	return (right-left-l.LineMax(line))/2 + left
}

// LineRight returns the rightmost x of line, margin included.
func (l *Layout) LineRight(line int) float64 {
	dir := l.ParagraphDirection(line)
	switch l.ParagraphAlignment(line) {
	case span.AlignLeft:
		return l.ParagraphLeft(line) + l.LineMax(line)
	case span.AlignNormal:
		if dir == direction.RTL {
			return l.width
		}
		return l.ParagraphLeft(line) + l.LineMax(line)
	case span.AlignRight:
		return l.width
	case span.AlignOpposite:
		if dir == direction.RTL {
			return l.LineMax(line)
		}
		return l.width
	}
	left, right := l.ParagraphLeft(line), l.ParagraphRight(line)
	return right - (right-left-l.LineMax(line))/2
}

// lineStartPos returns the x of the leading edge of line between left and
// right.
func (l *Layout) lineStartPos(line int, left, right float64) float64 {
	dir := l.ParagraphDirection(line)
	align := resolveAlignment(l.ParagraphAlignment(line), dir)
	if align == span.AlignNormal {
		if dir == direction.LTR {
			return left + l.IndentAdjust(line, span.AlignLeft)
		}
		return right + l.IndentAdjust(line, span.AlignRight)
	}

	var tabs *textline.TabStops
	if l.spans != nil && l.LineContainsTab(line) {
		start := l.LineStart(line)
		tabs = l.tabStops(start, l.spans.TabStops().NextTransition(start, len(l.text)))
	}
	extent := l.lineExtentWith(line, tabs, false)
	if align == span.AlignOpposite {
		if dir == direction.LTR {
			return right - extent + l.IndentAdjust(line, span.AlignRight)
		}
		return left - extent + l.IndentAdjust(line, span.AlignLeft)
	}
	return (left+right-extent)/2 + l.IndentAdjust(line, span.AlignCenter)
}
