package iconcontainer

import (
	"math"
	"sort"
)

func snapTo(round func(float64) float64, v, pad, size float32) float32 {
	return float32(round(float64(v-pad)/float64(size)))*size + pad
}

func (c *Container) snapNearestX(x float32) float32 {
	return snapTo(math.Floor, x+.5, c.metrics.DesktopPadHorizontal, c.metrics.SnapX)
}

func (c *Container) snapNearestY(y float32) float32 {
	return snapTo(math.Floor, y+.5, c.metrics.DesktopPadVertical, c.metrics.SnapY)
}

func (c *Container) snapCeilX(x float32) float32 {
	return snapTo(math.Ceil, x, c.metrics.DesktopPadHorizontal, c.metrics.SnapX)
}

func (c *Container) snapCeilY(y float32) float32 {
	return snapTo(math.Ceil, y, c.metrics.DesktopPadVertical, c.metrics.SnapY)
}

// snapPosition moves a candidate top-left onto the snap grid: the icon image
// is centred on a grid column and its bottom edge sits on a grid row.
func (c *Container) snapPosition(icon *Icon, x, y float32) (float32, float32) {
	m := c.metrics
	ir := c.geometry.IconRect(icon)
	iconW, iconH := ir.Width(), ir.Height()
	ext := c.viewport.Extent()

	rtl := c.layoutMode.IsRTL()
	if rtl {
		x = c.mirrorX(icon, x)
	}

	if x+iconW/2 < m.DesktopPadHorizontal+m.SnapX {
		x = m.DesktopPadHorizontal + m.SnapX - iconW/2
	}
	if x+iconW/2 > ext.Width-(m.DesktopPadHorizontal+m.SnapX) {
		x = ext.Width - (m.DesktopPadHorizontal + m.SnapX + iconW/2)
	}
	if y+iconH < m.DesktopPadVertical+m.SnapY {
		y = m.DesktopPadVertical + m.SnapY - iconH
	}
	if y+iconH > ext.Height-(m.DesktopPadVertical+m.SnapY) {
		y = ext.Height - (m.DesktopPadVertical + m.SnapY + iconH/2)
	}

	x = c.snapNearestX(x+iconW/2) - iconW/2
	if rtl {
		x = c.mirrorX(icon, x)
	}

	baseline := c.snapNearestY(y + iconH)
	return x, baseline - iconH
}

// findEmptyLocation walks the snap grid from the start position, first down
// a column and then into the next one, until the icon's footprint lands on
// free cells. The search gives up at the right edge of the canvas and
// returns the last candidate, which may lie outside it.
func (c *Container) findEmptyLocation(grid *placementGrid, icon *Icon, startX, startY float32) (float32, float32) {
	m := c.metrics
	ext := c.viewport.Extent()

	layout := c.geometry.Bounds(icon, BoundsLayout)
	w, h := layout.Width(), layout.Height()
	checkH := c.geometry.Bounds(icon, BoundsEntireItem).Height()
	iconH := c.geometry.IconRect(icon).Height()

	x, y := c.snapPosition(icon, startX, startY)
	fp := Rect{X0: x, Y0: y, X1: x + w, Y1: y + h}

	for {
		collision := false
		needNewColumn := fp.Y0+checkH+m.DesktopPadVertical > ext.Height

		if needNewColumn || !grid.isFree(grid.cellRect(fp)) {
			fp.Y0 += m.SnapY
			if needNewColumn {
				fp.Y0 = m.DesktopPadVertical + m.SnapY - iconH
				for fp.Y0 < m.DesktopPadVertical {
					fp.Y0 += m.SnapY
				}
				fp.X0 += m.SnapX
			}
			fp.X1 = fp.X0 + w
			fp.Y1 = fp.Y0 + h
			collision = true
		}

		if !collision || fp.X1 >= ext.Width {
			break
		}
	}
	return fp.X0, fp.Y0
}

func (c *Container) markIcon(grid *placementGrid, icon *Icon) {
	grid.markRect(c.geometry.Bounds(icon, BoundsLayout))
}

// AlignIcons snaps every icon to the grid without overlap, claiming space in
// reading order so the leftmost icons move least.
func (c *Container) AlignIcons() {
	icons := c.Icons()
	centers := make(map[*Icon]float32, len(icons))
	for _, icon := range icons {
		centers[icon] = c.geometry.Bounds(icon, BoundsDisplay).Center().X
	}
	sort.SliceStable(icons, func(i, j int) bool {
		a, b := icons[i], icons[j]
		if centers[a] != centers[b] {
			return centers[a] < centers[b]
		}
		return a.y < b.y
	})
	rtl := c.layoutMode.IsRTL()
	if rtl {
		for i, j := 0, len(icons)-1; i < j; i, j = i+1, j-1 {
			icons[i], icons[j] = icons[j], icons[i]
		}
	}

	grid := newPlacementGrid(c.viewport.Extent(), c.metrics, true)
	if grid == nil {
		c.logger.Debug("align skipped, canvas holds no grid cell", "size", c.viewport.Extent())
		return
	}

	var moved []*Icon
	for _, icon := range icons {
		oldX, oldY := icon.savedLTRX, icon.y
		x, y := c.findEmptyLocation(grid, icon, icon.savedLTRX, icon.y)
		c.setIconPosition(icon, x, y)
		icon.savedLTRX = icon.x
		c.markIcon(grid, icon)
		if icon.savedLTRX != oldX || icon.y != oldY {
			moved = append(moved, icon)
		}
	}

	if rtl {
		c.applyRTLPositions()
	}
	for _, icon := range moved {
		c.emitPositionChanged(icon)
	}
	c.observer.LayoutChanged()
}

func (c *Container) scheduleAlign() {
	c.unscheduleAlign()
	c.cancelAlign = c.scheduler.Idle(func() {
		c.cancelAlign = nil
		c.AlignIcons()
	})
}

func (c *Container) unscheduleAlign() {
	if c.cancelAlign != nil {
		c.cancelAlign()
		c.cancelAlign = nil
	}
}

// placeLazyIcons moves icons that carry a stored but possibly stale position
// to the nearest free spot around it.
func (c *Container) placeLazyIcons(lazy []*Icon) {
	grid := newPlacementGrid(c.viewport.Extent(), c.metrics, false)
	if grid == nil {
		c.logger.Debug("lazy placement skipped, canvas holds no grid cell", "icons", len(lazy))
		return
	}
	for _, icon := range c.icons.icons {
		if icon.Positioned() && !icon.HasLazyPosition {
			c.markIcon(grid, icon)
		}
	}

	for _, icon := range lazy {
		x, y := c.findEmptyLocation(grid, icon, icon.x, icon.y)
		c.setIconPosition(icon, x, y)
		icon.savedLTRX = icon.x
		c.markIcon(grid, icon)
		c.observer.IconPositionChanged(icon, icon.Position(), icon.scale)
		c.logger.Debug("lazy placement", "uri", icon.key(), "x", icon.x, "y", icon.y)
		icon.HasLazyPosition = false
	}
}
