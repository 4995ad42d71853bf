package layout

import "github.com/ByLCY/paralayout/direction"

// addSelection adds one rectangle per run of line intersecting [start, end).
// A trailing line feed is never highlighted.
func (l *Layout) addSelection(line, start, end int, top, bottom float64, dest *Path) {
	lineStart, lineEnd := l.LineStart(line), l.LineEnd(line)
	if lineEnd > lineStart && l.text[lineEnd-1] == '\n' {
		lineEnd--
	}
	dirs := l.LineDirections(line)
	for i := 0; i < dirs.Len(); i++ {
		r := dirs.Run(i)
		here := lineStart + r.Start
		there := min(here+r.Length, lineEnd)
		if start > there || end < here {
			continue
		}
		st, en := max(start, here), min(end, there)
		if st == en {
			continue
		}
		h1 := l.horizontal(st, false, line, false)
		h2 := l.horizontal(en, true, line, false)
		dest.AddRect(min(h1, h2), top, max(h1, h2), bottom)
	}
}

// SelectionPath outlines [start, end). Reversed bounds are swapped; an empty
// range yields an empty path. Lines in between are covered edge to edge.
func (l *Layout) SelectionPath(start, end int) *Path {
	p := &Path{}
	if start == end {
		return p
	}
	if end < start {
		start, end = end, start
	}

	startLine := l.LineForOffset(start)
	endLine := l.LineForOffset(end)
	top := l.LineTop(startLine)
	bottom := l.LineBottom(endLine)

	if startLine == endLine {
		l.addSelection(startLine, start, end, top, bottom, p)
		return p
	}

	width := l.width
	l.addSelection(startLine, start, l.LineEnd(startLine), top, l.LineBottom(startLine), p)
	if l.ParagraphDirection(startLine) == direction.RTL {
		p.AddRect(l.LineLeft(startLine), top, 0, l.LineBottom(startLine))
	} else {
		p.AddRect(l.LineRight(startLine), top, width, l.LineBottom(startLine))
	}

	for i := startLine + 1; i < endLine; i++ {
		p.AddRect(0, l.LineTop(i), width, l.LineBottom(i))
	}

	top = l.LineTop(endLine)
	l.addSelection(endLine, l.LineStart(endLine), end, top, bottom, p)
	if l.ParagraphDirection(endLine) == direction.RTL {
		p.AddRect(width, top, l.LineRight(endLine), bottom)
	} else {
		p.AddRect(0, top, l.LineLeft(endLine), bottom)
	}
	return p
}
