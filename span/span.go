package span

import (
	"fmt"
	"image/color"
	"strings"
)

// 该文件定义富文本段落样式 span 的取值类型。

// Alignment 是段落对齐方式。Normal/Opposite 相对段落方向，Left/Right 是绝对方向。
type Alignment int

const (
	AlignNormal Alignment = iota
	AlignOpposite
	AlignCenter
	AlignLeft
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignNormal:
		return "normal"
	case AlignOpposite:
		return "opposite"
	case AlignCenter:
		return "center"
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	default:
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
}

// ParseAlignment 解析对齐名称，支持 start/end 别名（分别对应 normal/opposite）。
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "start":
		return AlignNormal, nil
	case "opposite", "end":
		return AlignOpposite, nil
	case "center", "centre":
		return AlignCenter, nil
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	}
	return AlignNormal, fmt.Errorf("未知的对齐方式 %q", s)
}

// Align overrides the paragraph alignment over its range.
type Align struct {
	Alignment Alignment
}

// LeadingMargin reserves horizontal space on the leading side of each line.
// Lines > 0 applies First to that many lines counted from the span start and
// Rest afterwards; otherwise First only applies to the first line of a paragraph.
type LeadingMargin struct {
	First float64
	Rest  float64
	Lines int
	// Stripe 非空时在页边距内绘制一条竖线（引用块样式）。
	Stripe color.Color
}

// Margin returns the margin width for a first or continuation line.
func (m LeadingMargin) Margin(first bool) float64 {
	if first {
		return m.First
	}
	return m.Rest
}

// TabStop is an absolute tab position.
type TabStop struct {
	Position float64
}

// LineBackground paints the full line box behind the text.
type LineBackground struct {
	Color color.Color
}

// Replacement draws its range as a single opaque object of fixed width.
type Replacement struct {
	Width float64
}
