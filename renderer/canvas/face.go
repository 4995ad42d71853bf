package canvasrenderer

import (
	"image/color"
	"math"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/paralayout/layout"
	"github.com/ByLCY/paralayout/textline"
)

// Face adapts a canvas font face to textline.Face. Widths are in points.
type Face struct {
	face *canvas.FontFace
}

var _ textline.Face = (*Face)(nil)

func (f *Face) Advance(text []rune) float64 {
	s := visible(text)
	if s == "" {
		return 0
	}
	return toPt(f.face.TextWidth(s))
}

func (f *Face) Metrics() textline.Metrics {
	m := f.face.Metrics()
	asc, desc := math.Abs(m.Ascent), math.Abs(m.Descent)
	return textline.Metrics{
		Ascent:  toPt(asc),
		Descent: toPt(desc),
		Leading: toPt(math.Max(m.LineHeight-asc-desc, 0)),
	}
}

// visible drops runes that layout positions itself: tabs, line breaks and
// the U+FEFF filler of elided text.
func visible(text []rune) string {
	var b strings.Builder
	for _, r := range text {
		switch r {
		case '\t', '\n', '\r', '\uFEFF':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// surface draws onto a canvas context. Layout coordinates are points with
// the origin at the top-left; the context works in millimetres.
type surface struct {
	ctx    *canvas.Context
	face   *canvas.FontFace
	dx, dy float64
	clip   layout.Rect
}

var _ layout.Surface = (*surface)(nil)

// DrawRun 以逻辑顺序传入单一方向的文本，字形重排交给 canvas 的 shaper。
func (s *surface) DrawRun(text []rune, x, baseline float64, _ bool) {
	str := visible(text)
	if str == "" {
		return
	}
	line := canvas.NewTextLine(s.face, str, canvas.Left)
	s.ctx.DrawText(toMm(x+s.dx), toMm(baseline+s.dy), line)
}

func (s *surface) ClipBounds() (layout.Rect, bool) { return s.clip, true }

func (s *surface) Translate(dx, dy float64) {
	s.dx += dx
	s.dy += dy
}

func (s *surface) FillRect(r layout.Rect, c color.Color) {
	s.ctx.SetFillColor(c)
	s.ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	s.ctx.DrawPath(toMm(r.Left+s.dx), toMm(r.Top+s.dy), canvas.Rectangle(toMm(r.Width()), toMm(r.Height())))
}

func (s *surface) FillPath(p *layout.Path, c color.Color) {
	if p.Empty() {
		return
	}
	s.ctx.SetFillColor(c)
	s.ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	s.ctx.DrawPath(toMm(s.dx), toMm(s.dy), convertPath(p))
}

// convertPath replays a layout path in millimetres.
func convertPath(p *layout.Path) *canvas.Path {
	out := &canvas.Path{}
	for _, op := range p.Ops() {
		switch op.Kind {
		case layout.OpMoveTo:
			out.MoveTo(toMm(op.X), toMm(op.Y))
		case layout.OpLineTo:
			out.LineTo(toMm(op.X), toMm(op.Y))
		case layout.OpClose:
			out.Close()
		}
	}
	return out
}
