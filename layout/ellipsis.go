package layout

import (
	"fmt"
	"strings"
)

// TruncateAt selects where text that does not fit is elided.
type TruncateAt int

const (
	TruncateNone TruncateAt = iota
	TruncateStart
	TruncateMiddle
	TruncateEnd
	// TruncateEndSmall is TruncateEnd with the narrower two-dot leader.
	TruncateEndSmall
)

const (
	EllipsisNormal  = '…'
	EllipsisTwoDots = '‥'
	// ellipsisFiller stands in for the elided runes after the first.
	ellipsisFiller = '\uFEFF'
)

func (t TruncateAt) String() string {
	switch t {
	case TruncateNone:
		return "none"
	case TruncateStart:
		return "start"
	case TruncateMiddle:
		return "middle"
	case TruncateEnd:
		return "end"
	case TruncateEndSmall:
		return "end-small"
	}
	return fmt.Sprintf("TruncateAt(%d)", int(t))
}

// ParseTruncateAt 解析省略位置，空串视为 none。
func ParseTruncateAt(s string) (TruncateAt, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TruncateNone, nil
	case "start":
		return TruncateStart, nil
	case "middle":
		return TruncateMiddle, nil
	case "end":
		return TruncateEnd, nil
	case "end-small", "endsmall":
		return TruncateEndSmall, nil
	}
	return TruncateNone, fmt.Errorf("未知的省略位置: %q", s)
}

// Char returns the rune drawn in place of the first elided rune.
func (t TruncateAt) Char() rune {
	if t == TruncateEndSmall {
		return EllipsisTwoDots
	}
	return EllipsisNormal
}

// Ellipsized returns the text as drawn: elided ranges are replaced by the
// ellipsis rune followed by U+FEFF fillers. It shares storage with Text when
// no line is elided.
func (l *Layout) Ellipsized() []rune { return l.display }

func (l *Layout) ellipsizeAll() []rune {
	var out []rune
	for line := 0; line < l.lines.LineCount(); line++ {
		if l.lines.EllipsisCount(line) == 0 {
			continue
		}
		if out == nil {
			out = append([]rune(nil), l.text...)
		}
		l.ellipsize(line, out)
	}
	if out == nil {
		return l.text
	}
	return out
}

func (l *Layout) ellipsize(line int, dest []rune) {
	count := l.lines.EllipsisCount(line)
	first := l.lines.LineStart(line) + l.lines.EllipsisStart(line)
	for i := first; i < first+count; i++ {
		if i < 0 || i >= len(dest) {
			continue
		}
		if i == first {
			dest[i] = l.truncate.Char()
		} else {
			dest[i] = ellipsisFiller
		}
	}
}

// calculateEllipsis picks the elided range of a line, relative to its start,
// from per-rune widths. Start and Middle only apply to single-line layouts.
// With force at least one rune is elided at the end.
func calculateEllipsis(widths []float64, avail, textWidth, ellipsisWidth float64, where TruncateAt, singleLine, force bool) (start, count int) {
	if textWidth <= avail && !force {
		return 0, 0
	}
	n := len(widths)
	switch where {
	case TruncateStart:
		if !singleLine {
			return 0, 0
		}
		sum := 0.0
		i := n
		for ; i > 0; i-- {
			w := widths[i-1]
			if w+sum+ellipsisWidth > avail {
				break
			}
			sum += w
		}
		return 0, i
	case TruncateEnd, TruncateEndSmall:
		sum := 0.0
		i := 0
		for ; i < n; i++ {
			w := widths[i]
			if w+sum+ellipsisWidth > avail {
				break
			}
			sum += w
		}
		if force && i == n && n > 0 {
			return n - 1, 1
		}
		return i, n - i
	case TruncateMiddle:
		if !singleLine {
			return 0, 0
		}
		right := n
		rsum := 0.0
		ravail := (avail - ellipsisWidth) / 2
		for ; right > 0; right-- {
			w := widths[right-1]
			if w+rsum > ravail {
				break
			}
			rsum += w
		}
		left := 0
		lsum := 0.0
		lavail := avail - ellipsisWidth - rsum
		for ; left < right; left++ {
			w := widths[left]
			if w+lsum > lavail {
				break
			}
			lsum += w
		}
		return left, right - left
	}
	return 0, 0
}
