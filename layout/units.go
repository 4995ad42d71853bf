package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the unit a length was written in.
type Unit int

const (
	UnitNone Unit = iota // bare numbers, read as points
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72
	MmToPt = 72 / 25.4
)

func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	}
	return ""
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// Points converts l to points, the layout unit.
func (l Length) Points() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	}
	return l.Value
}

// Millimeters converts l to millimeters.
func (l Length) Millimeters() float64 { return l.Points() * PtToMm }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + l.Unit.String()
}

// ParseLength 解析带单位的长度，如 "120mm"、"12pt"；无单位时按 pt 处理。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, nil
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无效的长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineHeightKind distinguishes factor-based and absolute line heights.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeight is either a factor of the natural height (1.2, 1.2x) or an
// absolute length (18pt).
type LineHeight struct {
	Kind   LineHeightKind `json:"kind" yaml:"kind"`
	Factor float64        `json:"factor,omitempty" yaml:"factor,omitempty"`
	Len    Length         `json:"len,omitempty" yaml:"len,omitempty"`
}

// ParseLineHeight 解析行高：纯数字或带 x 后缀为倍数，带单位为绝对值。
func ParseLineHeight(value string) (LineHeight, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return LineHeight{Kind: LineHeightFactor, Factor: 1}, nil
	}
	if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64); err == nil {
		return LineHeight{Kind: LineHeightFactor, Factor: f}, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineHeight{}, fmt.Errorf("无效的行高 %q: %w", value, err)
	}
	return LineHeight{Kind: LineHeightAbsolute, Len: l}, nil
}

// Spacing converts h into the multiplier and addend applied to a line of the
// given natural height.
func (h LineHeight) Spacing(natural float64) (mult, add float64) {
	if h.Kind == LineHeightAbsolute {
		return 1, h.Len.Points() - natural
	}
	if h.Factor == 0 {
		return 1, 0
	}
	return h.Factor, 0
}
