package span

import (
	"errors"
	"fmt"
)

// ErrRange 表示 span 范围越界或首尾颠倒。
var ErrRange = errors.New("span: 范围无效")

// Spanned is the style collaborator consumed by the layout engine. Each span
// kind has its own typed query so callers never inspect runtime types.
type Spanned interface {
	Alignments() Query[Align]
	LeadingMargins() Query[LeadingMargin]
	TabStops() Query[TabStop]
	LineBackgrounds() Query[LineBackground]
	Replacements() Query[Replacement]
	// NextParagraphTransition 返回 (start, limit) 内任意段落样式 span 的下一个边界。
	NextParagraphTransition(start, limit int) int
}

// Text 是带 span 标注的不可变字符序列（以 rune 为偏移单位）。
type Text struct {
	runes []rune

	aligns       Set[Align]
	margins      Set[LeadingMargin]
	tabs         Set[TabStop]
	backgrounds  Set[LineBackground]
	replacements Set[Replacement]
}

var _ Spanned = (*Text)(nil)

// New wraps s without any spans.
func New(s string) *Text {
	return &Text{runes: []rune(s)}
}

// FromRunes wraps rs; the slice is owned by the returned Text afterwards.
func FromRunes(rs []rune) *Text {
	return &Text{runes: rs}
}

func (t *Text) Runes() []rune { return t.runes }
func (t *Text) Len() int { return len(t.runes) }
func (t *Text) String() string { return string(t.runes) }
func (t *Text) HasSpans() bool {
	return t.aligns.Len()+t.margins.Len()+t.tabs.Len()+t.backgrounds.Len()+t.replacements.Len() > 0
}

func (t *Text) check(start, end int) error {
	if start < 0 || end < start || end > len(t.runes) {
		return fmt.Errorf("%w: [%d, %d) 超出文本长度 %d", ErrRange, start, end, len(t.runes))
	}
	return nil
}

// SetAlignment overrides the alignment of the paragraphs in [start, end).
func (t *Text) SetAlignment(start, end int, a Alignment) error {
	if err := t.check(start, end); err != nil {
		return err
	}
	t.aligns.Add(start, end, Paragraph, Align{Alignment: a})
	return nil
}

// AddLeadingMargin adds a margin contribution over [start, end).
func (t *Text) AddLeadingMargin(start, end int, m LeadingMargin) error {
	if err := t.check(start, end); err != nil {
		return err
	}
	t.margins.Add(start, end, Paragraph, m)
	return nil
}

// AddTabStop adds an explicit tab position for the paragraphs in [start, end).
func (t *Text) AddTabStop(start, end int, position float64) error {
	if err := t.check(start, end); err != nil {
		return err
	}
	t.tabs.Add(start, end, Paragraph, TabStop{Position: position})
	return nil
}

// AddLineBackground paints the lines covering [start, end).
func (t *Text) AddLineBackground(start, end int, bg LineBackground) error {
	if err := t.check(start, end); err != nil {
		return err
	}
	t.backgrounds.Add(start, end, Paragraph, bg)
	return nil
}

// AddReplacement makes [start, end) measure and hit-test as one object.
func (t *Text) AddReplacement(start, end int, width float64) error {
	if err := t.check(start, end); err != nil {
		return err
	}
	if start == end {
		return fmt.Errorf("%w: replacement 不能为空范围", ErrRange)
	}
	t.replacements.Add(start, end, ExclusiveExclusive, Replacement{Width: width})
	return nil
}

func (t *Text) Alignments() Query[Align] { return &t.aligns }
func (t *Text) LeadingMargins() Query[LeadingMargin] { return &t.margins }
func (t *Text) TabStops() Query[TabStop] { return &t.tabs }
func (t *Text) LineBackgrounds() Query[LineBackground] { return &t.backgrounds }
func (t *Text) Replacements() Query[Replacement] { return &t.replacements }

func (t *Text) NextParagraphTransition(start, limit int) int {
	limit = t.aligns.NextTransition(start, limit)
	limit = t.margins.NextTransition(start, limit)
	limit = t.tabs.NextTransition(start, limit)
	return t.backgrounds.NextTransition(start, limit)
}
