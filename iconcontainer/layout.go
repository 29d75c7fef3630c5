package iconcontainer

import (
	"math"

	"fyne.io/fyne/v2"
)

func ceil32(v float32) float32 {
	return float32(math.Ceil(float64(v)))
}

// layoutIcons flows icons in the order given, starting startY below the top
// of the canvas. The order of the registry is left alone.
func (c *Container) layoutIcons(icons []*Icon, startY float32) {
	if len(icons) == 0 {
		return
	}
	switch {
	case c.desktop:
		c.layVerticalDesktop(icons)
	case c.layoutMode.IsVertical():
		c.layVertical(icons, startY)
	default:
		c.layHorizontal(icons, startY)
	}
}

type linePosition struct {
	icon    *Icon
	width   float32
	xOffset float32
	height  float32
}

func (c *Container) layHorizontal(icons []*Icon, startY float32) {
	m := c.metrics
	canvasW := c.viewport.Extent().Width
	beside := c.labelPosition == LabelBeside

	gridW := m.GridWidth
	var maxIconW, maxTextW float32
	if beside {
		for _, icon := range icons {
			maxIconW = max32(maxIconW, ceil32(c.geometry.IconRect(icon).Width()))
			maxTextW = max32(maxTextW, ceil32(c.geometry.TextRect(icon, false).Width()))
		}
		gridW = maxIconW + maxTextW + m.IconPadLeft + m.IconPadRight
	}

	var lineStart float32
	if beside {
		lineStart = m.IconPadLeft
	}

	y := startY + m.ContainerPadTop
	var line []linePosition
	var cells, lastCell, lastW float32
	var maxAbove, maxBelow float32

	flush := func(wholeText bool) {
		if beside {
			y += m.IconPadTop
		} else {
			y += m.IconPadTop + maxAbove
		}

		x := m.IconPadLeft
		for _, p := range line {
			iconY := y - p.height
			if beside {
				iconY = y + (maxAbove-p.height)/2
			}
			c.setIconPosition(p.icon, x+p.xOffset, iconY)
			p.icon.wholeText = wholeText
			p.icon.savedLTRX = p.icon.x
			x += p.width
		}

		if beside {
			y += maxAbove + maxBelow + m.IconPadBottom
		} else {
			y += maxBelow + m.IconPadBottom
		}
	}

	for _, icon := range icons {
		bounds := c.geometry.Bounds(icon, BoundsLayout)
		ir := c.geometry.IconRect(icon)
		w := bounds.Width()

		cellW := ceil32(w/gridW) * gridW
		if c.tighterLayout {
			cellW = w + m.IconPadRight + 8
		}

		var above, below float32
		if beside {
			above = bounds.Height()
		} else {
			above = ir.Y1 - bounds.Y0
			below = bounds.Y1 - ir.Y1
		}

		// The occupied extent of a line ends at the real right edge of
		// its last icon, not at the end of that icon's cell.
		extent := lineStart + cells - lastCell + lastW
		if len(line) > 0 && extent+cellW >= canvasW {
			flush(false)
			line = line[:0]
			cells = 0
			maxAbove, maxBelow = above, below
		} else {
			maxAbove = max32(maxAbove, above)
			maxBelow = max32(maxBelow, below)
		}

		p := linePosition{icon: icon, width: cellW, height: ir.Height()}
		switch {
		case !beside:
			p.xOffset = (cellW - ir.Width()) / 2
		case c.tighterLayout:
			p.xOffset = cellW - (ir.Width() + c.geometry.TextRect(icon, false).Width())
		default:
			p.xOffset = maxIconW + m.IconPadLeft + m.IconPadRight - ir.Width()
		}
		line = append(line, p)

		cells += cellW
		lastCell = cellW
		lastW = w
	}

	if len(line) > 0 {
		flush(true)
	}
}

func (c *Container) layVertical(icons []*Icon, startY float32) {
	m := c.metrics
	canvasH := c.viewport.Extent().Height

	var maxIconW, maxIconH, maxTextW, maxTextH, maxBoundsH float32
	textW := make([]float32, len(icons))
	for i, icon := range icons {
		ir := c.geometry.IconRect(icon)
		tr := c.geometry.TextRect(icon, true)
		maxIconW = max32(maxIconW, ceil32(ir.Width()))
		maxIconH = max32(maxIconH, ceil32(ir.Height()))
		textW[i] = ceil32(tr.Width())
		maxTextW = max32(maxTextW, textW[i])
		maxTextH = max32(maxTextH, ceil32(tr.Height()))
		maxBoundsH = max32(maxBoundsH, ceil32(c.geometry.Bounds(icon, BoundsLayout).Height()))
	}
	maxWidth := maxIconW + maxTextW
	maxHeight := max32(maxIconH, maxTextH)
	step := m.IconPadTop + maxHeight

	colX := m.ContainerPadLeft
	top := startY + m.ContainerPadTop

	layColumn := func(column []int) {
		colX += m.IconPadLeft
		var widthInColumn float32
		for row, i := range column {
			icon := icons[i]
			ir := c.geometry.IconRect(icon)
			tr := c.geometry.TextRect(icon, true)
			x := colX + (maxIconW - ir.Width())
			y := top + float32(row)*step + m.IconPadTop + (maxHeight-max32(ir.Height(), tr.Height()))/2
			c.setIconPosition(icon, x, y)
			icon.wholeText = false
			icon.savedLTRX = icon.x
			widthInColumn = max32(widthInColumn, maxIconW+textW[i])
		}
		if c.allColumnsSameWidth {
			widthInColumn = maxWidth
		}
		colX += widthInColumn + m.IconPadRight
	}

	var column []int
	lineHeight := top
	for i := range icons {
		if len(column) > 0 && lineHeight+(m.IconPadTop+maxBoundsH-1) >= canvasH {
			layColumn(column)
			column = column[:0]
			lineHeight = top
		}
		column = append(column, i)
		lineHeight += step
	}
	if len(column) > 0 {
		layColumn(column)
	}
}

// layVerticalDesktop packs new icons into columns from the top-left of a
// fixed canvas. Icons that already have a place keep it and the rest go
// into the free cells around them. Afterwards every position is frozen.
func (c *Container) layVerticalDesktop(icons []*Icon) {
	m := c.metrics
	height := c.viewport.Extent().Height

	if c.icons.len()-len(icons) > 0 {
		var placed, unplaced []*Icon
		for _, icon := range c.icons.icons {
			if icon.Positioned() {
				c.setIconPosition(icon, icon.savedLTRX, icon.y)
				placed = append(placed, icon)
			} else {
				icon.setPosition(0, 0)
				unplaced = append(unplaced, icon)
			}
		}

		grid := newPlacementGrid(c.viewport.Extent(), m, false)
		if grid != nil {
			for _, icon := range placed {
				c.markIcon(grid, icon)
			}
			for _, icon := range unplaced {
				ir := c.geometry.IconRect(icon)
				x := m.DesktopPadHorizontal + m.SnapX/2 - ir.Width()/2
				y := m.DesktopPadVertical + m.SnapY - ir.Height()
				x, y = c.findEmptyLocation(grid, icon, x, y)
				c.setIconPosition(icon, x, y)
				icon.savedLTRX = x
				c.markIcon(grid, icon)
			}
		} else {
			c.logger.Debug("desktop placement skipped, canvas holds no grid cell", "icons", len(unplaced))
		}
	} else {
		shouldSnap := !(c.tighterLayout && !c.keepAligned)
		x := m.DesktopPadHorizontal

		for len(icons) > 0 {
			y := m.DesktopPadVertical
			var maxW float32

			for _, icon := range icons {
				layout := c.geometry.Bounds(icon, BoundsLayout)
				checkH := c.geometry.Bounds(icon, BoundsEntireItem).Height()
				if shouldSnap {
					ih := c.geometry.IconRect(icon).Height()
					y = c.snapCeilY(y+ih) - ih
				}
				if y != m.DesktopPadVertical && y+checkH > height {
					break
				}
				maxW = max32(maxW, layout.Width())
				y += layout.Height() + m.DesktopPadVertical
			}

			y = m.DesktopPadVertical
			centerX := x + maxW/2
			columnW := maxW
			if shouldSnap {
				centerX = c.snapCeilX(centerX)
				columnW = (centerX - x) + maxW/2
			}

			n := 0
			for i, icon := range icons {
				layout := c.geometry.Bounds(icon, BoundsLayout)
				checkH := c.geometry.Bounds(icon, BoundsEntireItem).Height()
				ir := c.geometry.IconRect(icon)
				if shouldSnap {
					y = c.snapCeilY(y+ir.Height()) - ir.Height()
				}
				if y != m.DesktopPadVertical && y > height-checkH && i != 0 {
					x += columnW + m.DesktopPadHorizontal
					break
				}
				c.setIconPosition(icon, centerX-ir.Width()/2, y)
				icon.savedLTRX = icon.x
				y += layout.Height() + m.DesktopPadVertical
				n++
			}
			icons = icons[n:]
		}
	}

	c.freezePositions()
}

// freezePositions switches to manual layout and reports every position so
// that it can be stored.
func (c *Container) freezePositions() {
	changed := c.autoLayout
	c.autoLayout = false
	for _, icon := range c.icons.icons {
		c.emitPositionChanged(icon)
	}
	if changed {
		c.observer.LayoutChanged()
	}
}

// mirrorX maps an x between left-to-right and right-to-left space. It is
// its own inverse.
func (c *Container) mirrorX(icon *Icon, x float32) float32 {
	return c.viewport.Extent().Width - x - c.geometry.IconRect(icon).Width()
}

func (c *Container) applyRTLPositions() {
	for _, icon := range c.icons.icons {
		if !icon.Positioned() {
			continue
		}
		c.setIconPosition(icon, c.mirrorX(icon, icon.savedLTRX), icon.y)
	}
}

func (c *Container) emitPositionChanged(icon *Icon) {
	c.observer.IconPositionChanged(icon, fyne.NewPos(icon.savedLTRX, icon.y), icon.scale)
}
