package iconcontainer

import (
	"math"

	"fyne.io/fyne/v2"
)

// cellRect is an inclusive range of grid cells.
type cellRect struct {
	x0, y0, x1, y1 int
}

// placementGrid is an occupancy bitmap over the snap grid of the canvas. It
// lives for one placement pass.
type placementGrid struct {
	columns, rows int
	tight         bool
	cells         []uint8

	padX, padY   float32
	snapX, snapY float32
}

// newPlacementGrid returns nil when size holds no whole cell.
func newPlacementGrid(size fyne.Size, m Metrics, tight bool) *placementGrid {
	if m.SnapX <= 0 || m.SnapY <= 0 {
		return nil
	}
	columns := int(size.Width / m.SnapX)
	rows := int(size.Height / m.SnapY)
	if columns <= 0 || rows <= 0 {
		return nil
	}
	return &placementGrid{
		columns: columns,
		rows:    rows,
		tight:   tight,
		cells:   make([]uint8, columns*rows),
		padX:    m.DesktopPadHorizontal,
		padY:    m.DesktopPadVertical,
		snapX:   m.SnapX,
		snapY:   m.SnapY,
	}
}

func (g *placementGrid) index(col, row int) int {
	return col*g.rows + row
}

// cellRect converts canvas coordinates to the cells they cover. A tight grid
// rounds inward so neighbours may overlap slightly; otherwise the rectangle
// is rounded outward.
func (g *placementGrid) cellRect(r Rect) cellRect {
	fx0 := float64(r.X0-g.padX) / float64(g.snapX)
	fy0 := float64(r.Y0-g.padY) / float64(g.snapY)
	fx1 := float64(r.X1-g.padX) / float64(g.snapX)
	fy1 := float64(r.Y1-g.padY) / float64(g.snapY)

	var c cellRect
	if g.tight {
		c = cellRect{
			x0: int(math.Ceil(fx0)),
			y0: int(math.Ceil(fy0)),
			x1: int(math.Floor(fx1)),
			y1: int(math.Floor(fy1)),
		}
	} else {
		c = cellRect{
			x0: int(math.Floor(fx0)),
			y0: int(math.Floor(fy0)),
			x1: int(math.Floor(fx1)),
			y1: int(math.Floor(fy1)),
		}
	}

	c.x0 = clampInt(c.x0, 0, g.columns-1)
	c.y0 = clampInt(c.y0, 0, g.rows-1)
	c.x1 = clampInt(c.x1, c.x0, g.columns-1)
	c.y1 = clampInt(c.y1, c.y0, g.rows-1)
	return c
}

func (g *placementGrid) isFree(c cellRect) bool {
	for x := c.x0; x <= c.x1; x++ {
		for y := c.y0; y <= c.y1; y++ {
			if g.cells[g.index(x, y)] != 0 {
				return false
			}
		}
	}
	return true
}

func (g *placementGrid) mark(c cellRect) {
	for x := c.x0; x <= c.x1; x++ {
		for y := c.y0; y <= c.y1; y++ {
			g.cells[g.index(x, y)] = 1
		}
	}
}

func (g *placementGrid) markRect(r Rect) {
	g.mark(g.cellRect(r))
}

func clampInt(v, lo, hi int) int {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}
