package layout

import "fmt"

// OpKind identifies a path command.
type OpKind int

const (
	OpMoveTo OpKind = iota
	OpLineTo
	OpClose
)

func (k OpKind) String() string {
	switch k {
	case OpMoveTo:
		return "M"
	case OpLineTo:
		return "L"
	case OpClose:
		return "Z"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// PathOp is one recorded command. Close carries no coordinates.
type PathOp struct {
	Kind OpKind
	X, Y float64
}

// Path records caret and selection outlines. Renderers replay Ops onto their
// own path type.
type Path struct {
	ops   []PathOp
	rects []Rect
}

// Reset clears p for reuse.
func (p *Path) Reset() {
	p.ops = p.ops[:0]
	p.rects = p.rects[:0]
}

func (p *Path) MoveTo(x, y float64) { p.ops = append(p.ops, PathOp{Kind: OpMoveTo, X: x, Y: y}) }
func (p *Path) LineTo(x, y float64) { p.ops = append(p.ops, PathOp{Kind: OpLineTo, X: x, Y: y}) }
func (p *Path) Close() { p.ops = append(p.ops, PathOp{Kind: OpClose}) }

// AddRect appends a closed clockwise rectangle. The corners are taken as
// given, so left may exceed right.
func (p *Path) AddRect(left, top, right, bottom float64) {
	p.MoveTo(left, top)
	p.LineTo(right, top)
	p.LineTo(right, bottom)
	p.LineTo(left, bottom)
	p.Close()
	p.rects = append(p.rects, Rect{Left: left, Top: top, Right: right, Bottom: bottom})
}

// Ops returns the recorded commands.
func (p *Path) Ops() []PathOp { return p.ops }

// Rects returns the rectangles added with AddRect, in order and as given.
func (p *Path) Rects() []Rect { return p.rects }

// Empty reports whether nothing was recorded.
func (p *Path) Empty() bool { return p == nil || len(p.ops) == 0 }

// Bounds returns the bounding box of every recorded point.
func (p *Path) Bounds() Rect {
	var b Rect
	first := true
	for _, op := range p.ops {
		if op.Kind == OpClose {
			continue
		}
		if first {
			b = Rect{Left: op.X, Top: op.Y, Right: op.X, Bottom: op.Y}
			first = false
			continue
		}
		b.Left = min(b.Left, op.X)
		b.Right = max(b.Right, op.X)
		b.Top = min(b.Top, op.Y)
		b.Bottom = max(b.Bottom, op.Y)
	}
	return b
}
