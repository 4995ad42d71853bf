// Package layout answers drawing, measurement, cursor and selection queries
// over text that has already been broken into lines.
//
// A concrete line breaker supplies the per-line primitives through Lines;
// Layout derives everything else from them. Offsets are rune indices into the
// text and coordinates are in points with y growing downwards.
package layout

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ByLCY/paralayout/direction"
	"github.com/ByLCY/paralayout/span"
	"github.com/ByLCY/paralayout/textline"
)

var (
	// ErrNegativeWidth 表示宽度为负。
	ErrNegativeWidth = errors.New("layout: 宽度不能为负")
	// ErrWidthShrink 表示试图缩小已有布局的宽度。
	ErrWidthShrink = errors.New("layout: 不允许缩小布局宽度")
)

// Lines is what a line breaker must provide. LineStart and LineTop accept
// line indices in [0, LineCount()], the extra entry closing the last line.
// Indices outside that range panic.
type Lines interface {
	LineCount() int
	LineStart(line int) int
	LineTop(line int) float64
	LineDescent(line int) float64
	LineDirections(line int) *direction.Table
	ParagraphDirection(line int) direction.Dir
	LineContainsTab(line int) bool
	EllipsisStart(line int) int
	EllipsisCount(line int) int
	TopPadding() float64
	BottomPadding() float64
}

// Hyphenated is implemented by Lines that end some lines with a hyphen.
type Hyphenated interface {
	Hyphen(line int) bool
}

// Indented is implemented by Lines that shift individual lines
// horizontally on top of alignment.
type Indented interface {
	IndentAdjust(line int, align span.Alignment) float64
}

// Layout is bound to one text, one face and one set of lines. It is not safe
// for concurrent use.
type Layout struct {
	lines   Lines
	text    []rune
	display []rune
	spans   span.Spanned
	face    textline.Face

	width       float64
	ellipsized  float64
	align       span.Alignment
	heuristic   direction.Heuristic
	spacingMult float64
	spacingAdd  float64
	truncate    TruncateAt

	pool  *textline.Pool
	log   *zap.Logger
	debug DebugOptions
}

// New binds lines to text. spans may be nil for plain text.
func New(lines Lines, text []rune, spans span.Spanned, face textline.Face, opts Options) (*Layout, error) {
	l := &Layout{}
	if err := l.ReplaceWith(lines, text, spans, face, opts); err != nil {
		return nil, err
	}
	return l, nil
}

// ReplaceWith re-binds l. Callers use it after the text changed and lines
// were rebuilt; every derived value is recomputed on demand.
func (l *Layout) ReplaceWith(lines Lines, text []rune, spans span.Spanned, face textline.Face, opts Options) error {
	if opts.Width < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeWidth, opts.Width)
	}
	if lines == nil || face == nil {
		return errors.New("layout: lines 与 face 不能为空")
	}
	l.lines = lines
	l.text = text
	l.spans = spans
	l.face = face
	l.width = opts.Width
	l.ellipsized = opts.EllipsizedWidth
	if l.ellipsized <= 0 {
		l.ellipsized = opts.Width
	}
	l.align = opts.Align
	l.heuristic = opts.Heuristic
	l.spacingMult = opts.spacingMult()
	l.spacingAdd = opts.SpacingAdd
	l.truncate = opts.Ellipsize
	switch {
	case opts.Pool != nil:
		l.pool = opts.Pool
	case l.pool == nil:
		l.pool = textline.NewPool(0)
	}
	if opts.Logger != nil || l.log == nil {
		l.log = opts.logger()
	}
	l.debug = opts.Debug
	l.display = l.ellipsizeAll()
	return nil
}

// IncreaseWidthTo widens the layout. The width never shrinks.
func (l *Layout) IncreaseWidthTo(w float64) error {
	if w < l.width {
		return fmt.Errorf("%w: %g < %g", ErrWidthShrink, w, l.width)
	}
	l.width = w
	return nil
}

func (l *Layout) Text() []rune { return l.text }
func (l *Layout) Spans() span.Spanned { return l.spans }
func (l *Layout) Face() textline.Face { return l.face }
func (l *Layout) Width() float64 { return l.width }
func (l *Layout) EllipsizedWidth() float64 { return l.ellipsized }
func (l *Layout) Alignment() span.Alignment { return l.align }
func (l *Layout) Heuristic() direction.Heuristic { return l.heuristic }
func (l *Layout) SpacingMultiplier() float64 { return l.spacingMult }
func (l *Layout) SpacingAdd() float64 { return l.spacingAdd }
func (l *Layout) Lines() Lines { return l.lines }

func (l *Layout) LineCount() int { return l.lines.LineCount() }
func (l *Layout) LineStart(line int) int { return l.lines.LineStart(line) }
func (l *Layout) LineTop(line int) float64 { return l.lines.LineTop(line) }
func (l *Layout) LineDescent(line int) float64 { return l.lines.LineDescent(line) }
func (l *Layout) LineDirections(line int) *direction.Table { return l.lines.LineDirections(line) }
func (l *Layout) ParagraphDirection(line int) direction.Dir {
	return l.lines.ParagraphDirection(line)
}
func (l *Layout) LineContainsTab(line int) bool { return l.lines.LineContainsTab(line) }
func (l *Layout) EllipsisStart(line int) int { return l.lines.EllipsisStart(line) }
func (l *Layout) EllipsisCount(line int) int { return l.lines.EllipsisCount(line) }
func (l *Layout) TopPadding() float64 { return l.lines.TopPadding() }
func (l *Layout) BottomPadding() float64 { return l.lines.BottomPadding() }

// Hyphen reports whether line ends with a hyphen.
func (l *Layout) Hyphen(line int) bool {
	if h, ok := l.lines.(Hyphenated); ok {
		return h.Hyphen(line)
	}
	return false
}

// IndentAdjust returns the extra horizontal shift of line.
func (l *Layout) IndentAdjust(line int, align span.Alignment) float64 {
	if in, ok := l.lines.(Indented); ok {
		return in.IndentAdjust(line, align)
	}
	return 0
}

// IsSingleLineRtoL is false for every layout built here.
func (l *Layout) IsSingleLineRtoL() bool { return false }

// textLine acquires a measurer bound to [start, end) of line. Callers release
// it with l.pool.Release.
func (l *Layout) textLine(line, start, end int, hasTabs bool, tabs *textline.TabStops) *textline.Line {
	tl := l.pool.Acquire()
	var repl []span.Entry[span.Replacement]
	if l.spans != nil {
		repl = l.spans.Replacements().Overlapping(start, end)
	}
	tl.Set(textline.Params{
		Face:         l.face,
		Text:         l.display,
		Start:        start,
		End:          end,
		Dir:          l.lines.ParagraphDirection(line),
		Dirs:         l.lines.LineDirections(line),
		HasTabs:      hasTabs,
		Tabs:         tabs,
		Replacements: repl,
	})
	return tl
}
