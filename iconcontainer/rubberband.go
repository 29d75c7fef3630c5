package iconcontainer

import (
	"fyne.io/fyne/v2"
)

// rubberband is the state of a pointer band selection. start is in canvas
// coordinates, pointer and prevPointer in viewport coordinates.
type rubberband struct {
	active      bool
	start       fyne.Position
	pointer     fyne.Position
	prevPointer fyne.Position
	lastOffset  fyne.Position
	rect        Rect
	hasRect     bool
	cancel      func()
}

// StartRubberband begins a band selection at pointer, given in viewport
// coordinates. The band follows the pointer on a periodic tick and scrolls
// the viewport when the pointer nears an edge.
func (c *Container) StartRubberband(pointer fyne.Position) {
	if c.band.active {
		c.StopRubberband()
	}
	for _, icon := range c.icons.icons {
		icon.selectedBeforeRubberband = icon.selected
	}

	off := c.viewport.ScrollOffset()
	c.band = rubberband{
		active:      true,
		start:       pointer.Add(off),
		pointer:     pointer,
		prevPointer: pointer,
		lastOffset:  off,
	}
	c.armRubberbandTick()
	c.logger.Debug("rubberband started", "x", c.band.start.X, "y", c.band.start.Y)
}

// RubberbandMotion records the latest pointer position. The selection is
// updated on the next tick.
func (c *Container) RubberbandMotion(pointer fyne.Position) {
	if !c.band.active {
		return
	}
	c.band.pointer = pointer
}

// StopRubberband ends a band selection. It is safe to call when no band is
// active.
func (c *Container) StopRubberband() {
	if !c.band.active {
		return
	}
	c.cancelRubberbandTick()
	c.band = rubberband{}

	sel := c.Selected()
	if len(sel) == 1 {
		c.rangeBase = sel[0]
	}
	c.logger.Debug("rubberband stopped", "selected", len(sel))
}

func (c *Container) RubberbandActive() bool {
	return c.band.active
}

// RubberbandRect returns the current band in canvas coordinates.
func (c *Container) RubberbandRect() (Rect, bool) {
	if !c.band.active || !c.band.hasRect {
		return Rect{}, false
	}
	return c.band.rect, true
}

func (c *Container) armRubberbandTick() {
	c.band.cancel = c.scheduler.AfterFunc(rubberbandTickInterval, func() {
		c.band.cancel = nil
		if !c.band.active {
			return
		}
		c.rubberbandTick()
		if c.band.active {
			c.armRubberbandTick()
		}
	})
}

func (c *Container) cancelRubberbandTick() {
	if c.band.cancel != nil {
		c.band.cancel()
		c.band.cancel = nil
	}
}

func (c *Container) rubberbandTick() {
	b := &c.band

	off := c.viewport.ScrollOffset()
	offsetChanged := off != b.lastOffset
	b.lastOffset = off

	ext := c.viewport.Extent()
	x, y := b.pointer.X, b.pointer.Y
	var sx, sy float32

	switch {
	case x < rubberbandScrollZone:
		sx = x - rubberbandScrollZone
		x = 0
	case x >= ext.Width-rubberbandScrollZone:
		sx = x - ext.Width + rubberbandScrollZone + 1
		x = ext.Width - 1
	}
	switch {
	case y < rubberbandScrollZone:
		sy = y - rubberbandScrollZone
		y = 0
	case y >= ext.Height-rubberbandScrollZone:
		sy = y - ext.Height + rubberbandScrollZone + 1
		y = ext.Height - 1
	}

	if sx == 0 && sy == 0 && b.prevPointer.X == x && b.prevPointer.Y == y && !offsetChanged && b.hasRect {
		return
	}

	if sx != 0 || sy != 0 {
		c.viewport.ScrollBy(sx, sy)
		b.lastOffset = c.viewport.ScrollOffset()
	}

	world := fyne.NewPos(x, y).Add(b.lastOffset)
	r := normalRect(b.start, world)
	r.X1 = max32(r.X0+1, r.X1)
	r.Y1 = max32(r.Y0+1, r.Y1)

	b.rect = r
	b.hasRect = true
	b.prevPointer = fyne.NewPos(x, y)

	c.rubberbandSelect(r)
}

// rubberbandSelect sets every icon hit by r to the opposite of its state
// before the band started.
func (c *Container) rubberbandSelect(r Rect) {
	changed := false
	for _, icon := range c.icons.icons {
		in := c.hitTestRect(icon, r)
		if c.setSelected(icon, in != icon.selectedBeforeRubberband) {
			changed = true
		}
	}
	if changed {
		c.observer.SelectionChanged()
	}
}

// hitTestRect reports whether r touches the image or label of icon.
func (c *Container) hitTestRect(icon *Icon, r Rect) bool {
	if !icon.Positioned() {
		return false
	}
	if c.geometry.IconRect(icon).Intersects(r) {
		return true
	}
	tr := c.geometry.TextRect(icon, false)
	return !tr.IsEmpty() && tr.Intersects(r)
}
