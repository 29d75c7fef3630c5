package iconcontainer

import (
	"fyne.io/fyne/v2"
)

// Rect is an axis aligned rectangle in canvas coordinates. X1 and Y1 are
// exclusive.
type Rect struct {
	X0, Y0, X1, Y1 float32
}

func NewRect(pos fyne.Position, size fyne.Size) Rect {
	return Rect{X0: pos.X, Y0: pos.Y, X1: pos.X + size.Width, Y1: pos.Y + size.Height}
}

// normalRect builds a rectangle from two corners in any order.
func normalRect(a, b fyne.Position) Rect {
	return Rect{
		X0: min32(a.X, b.X),
		Y0: min32(a.Y, b.Y),
		X1: max32(a.X, b.X),
		Y1: max32(a.Y, b.Y),
	}
}

func (r Rect) Width() float32  { return r.X1 - r.X0 }
func (r Rect) Height() float32 { return r.Y1 - r.Y0 }

func (r Rect) Size() fyne.Size {
	return fyne.NewSize(r.Width(), r.Height())
}

func (r Rect) Min() fyne.Position {
	return fyne.NewPos(r.X0, r.Y0)
}

func (r Rect) Center() fyne.Position {
	return fyne.NewPos(r.X0+r.Width()/2, r.Y0+r.Height()/2)
}

func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Intersects reports whether the two rectangles share any area.
func (r Rect) Intersects(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

func (r Rect) Contains(p fyne.Position) bool {
	return p.X >= r.X0 && p.X < r.X1 && p.Y >= r.Y0 && p.Y < r.Y1
}

func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: min32(r.X0, o.X0),
		Y0: min32(r.Y0, o.Y0),
		X1: max32(r.X1, o.X1),
		Y1: max32(r.Y1, o.Y1),
	}
}

// Expand grows the rectangle by dx on the left and right and by dy on the
// top and bottom.
func (r Rect) Expand(dx, dy float32) Rect {
	return Rect{X0: r.X0 - dx, Y0: r.Y0 - dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func abs32(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}
