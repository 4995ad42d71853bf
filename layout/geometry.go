package layout

// Rect is an axis-aligned box in layout coordinates.
type Rect struct {
	Left, Top, Right, Bottom float64
}

func (r Rect) Width() float64 { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Height returns the top of the line after the last one.
func (l *Layout) Height() float64 {
	return l.lines.LineTop(l.lines.LineCount())
}

// LineForVertical returns the last line whose top is at or above y, or 0.
func (l *Layout) LineForVertical(y float64) int {
	high, low := l.lines.LineCount(), -1
	for high-low > 1 {
		guess := (high + low) / 2
		if l.lines.LineTop(guess) > y {
			high = guess
		} else {
			low = guess
		}
	}
	if low < 0 {
		return 0
	}
	return low
}

// LineForOffset returns the last line starting at or before offset, or 0.
func (l *Layout) LineForOffset(offset int) int {
	high, low := l.lines.LineCount(), -1
	for high-low > 1 {
		guess := (high + low) / 2
		if l.lines.LineStart(guess) > offset {
			high = guess
		} else {
			low = guess
		}
	}
	if low < 0 {
		return 0
	}
	return low
}

func (l *Layout) LineEnd(line int) int { return l.lines.LineStart(line + 1) }

func (l *Layout) LineBottom(line int) float64 { return l.lines.LineTop(line + 1) }

func (l *Layout) LineBaseline(line int) float64 {
	return l.lines.LineTop(line+1) - l.lines.LineDescent(line)
}

// LineAscent is negative: the baseline sits below the top.
func (l *Layout) LineAscent(line int) float64 {
	return l.lines.LineTop(line) - l.LineBaseline(line)
}

// LineBounds returns the full-width box of line and its baseline.
func (l *Layout) LineBounds(line int) (Rect, float64) {
	r := Rect{Left: 0, Top: l.lines.LineTop(line), Right: l.width, Bottom: l.lines.LineTop(line + 1)}
	return r, l.LineBaseline(line)
}

// LineVisibleEnd trims trailing whitespace and one line feed from line. The
// last line is returned whole.
func (l *Layout) LineVisibleEnd(line int) int {
	return l.lineVisibleEnd(line, l.lines.LineStart(line), l.lines.LineStart(line+1))
}

func (l *Layout) lineVisibleEnd(line, start, end int) int {
	if line == l.lines.LineCount()-1 {
		return end
	}
	for end > start {
		ch := l.text[end-1]
		if ch == '\n' {
			return end - 1
		}
		if !isTrailingSpace(ch) {
			break
		}
		end--
	}
	return end
}

// isTrailingSpace matches the space separators that may hang past the line
// end. U+2007 FIGURE SPACE is excluded since it must stay visible.
// 这里只影响行宽测量；方向表里单独成 run 的行尾空白只认空格和制表符
// （见 direction.trailingVisibleLen），两者不能合并。
func isTrailingSpace(ch rune) bool {
	switch {
	case ch == ' ', ch == '\t', ch == 0x1680, ch == 0x205F, ch == 0x3000:
		return true
	case ch >= 0x2000 && ch <= 0x200A:
		return ch != 0x2007
	}
	return false
}
