package iconcontainer

import (
	"fyne.io/fyne/v2"
)

// stretchState tracks the icon showing stretch handles and an active drag
// of one of them. Positions are in canvas coordinates.
type stretchState struct {
	icon *Icon

	initialPos    fyne.Position
	initialScale  float32
	initialSavedX float32

	dragging     bool
	corner       Corner
	startPointer fyne.Position
	startPos     fyne.Position
	startSize    float32
}

// iconSize is the edge of the icon image at its current scale.
func (c *Container) iconSize(icon *Icon) float32 {
	return max32(c.metrics.IconSize*icon.scale, c.metrics.SmallestIconSize)
}

// setIconSize rescales icon so that its image edge becomes size.
func (c *Container) setIconSize(icon *Icon, size float32, snap, updatePosition bool) {
	if size == c.iconSize(icon) {
		return
	}
	c.moveIcon(icon, icon.Position(), size/c.metrics.IconSize, snap, updatePosition)
}

// computeStretch returns the new origin and edge of a square icon whose
// drag started at startPointer. The corner opposite the dragged handle
// stays put and the edge never drops below smallest.
func computeStretch(startPointer, startPos fyne.Position, startSize float32, cur fyne.Position, smallest float32) (fyne.Position, float32) {
	right := startPointer.X > startPos.X+startSize/2
	bottom := startPointer.Y > startPos.Y+startSize/2

	xs := startPointer.X - cur.X
	ys := startPointer.Y - cur.Y
	if right {
		xs = -xs
	}
	if bottom {
		ys = -ys
	}
	size := max32(startSize+min32(xs, ys), smallest)

	pos := startPos
	if !right {
		pos.X += startSize - size
	}
	if !bottom {
		pos.Y += startSize - size
	}
	return pos, size
}

// StretchIcon returns the icon currently showing stretch handles.
func (c *Container) StretchIcon() *Icon {
	return c.stretch.icon
}

// Stretching reports whether a handle is being dragged.
func (c *Container) Stretching() bool {
	return c.stretch.dragging
}

// ShowStretchHandles puts the stretch handles on the first selected icon.
func (c *Container) ShowStretchHandles() {
	icon := c.firstSelected()
	if icon == nil || icon == c.stretch.icon {
		return
	}
	if old := c.stretch.icon; old != nil {
		c.stretch = stretchState{}
		c.observer.IconStretchEnded(old)
	}
	c.startStretchHandles(icon)
}

func (c *Container) startStretchHandles(icon *Icon) {
	c.stretch = stretchState{
		icon:          icon,
		initialPos:    icon.Position(),
		initialScale:  icon.scale,
		initialSavedX: icon.savedLTRX,
	}
	c.observer.IconStretchStarted(icon)
}

// HasStretchHandles reports whether the first selected icon shows handles.
func (c *Container) HasStretchHandles() bool {
	icon := c.firstSelected()
	return icon != nil && icon == c.stretch.icon
}

// StretchHandleAt hit tests pointer against the four corner handles of the
// icon image.
func (c *Container) StretchHandleAt(icon *Icon, pointer fyne.Position) (Corner, bool) {
	if icon == nil || !icon.Positioned() {
		return 0, false
	}
	r := c.geometry.IconRect(icon)
	h := c.metrics.HandleSize

	corners := []struct {
		corner Corner
		x, y   float32
	}{
		{CornerTopLeft, r.X0, r.Y0},
		{CornerTopRight, r.X1 - h, r.Y0},
		{CornerBottomLeft, r.X0, r.Y1 - h},
		{CornerBottomRight, r.X1 - h, r.Y1 - h},
	}
	for _, k := range corners {
		if (Rect{X0: k.x, Y0: k.y, X1: k.x + h, Y1: k.y + h}).Contains(pointer) {
			return k.corner, true
		}
	}
	return 0, false
}

// BeginStretch starts dragging a handle of icon when pointer hits one.
func (c *Container) BeginStretch(icon *Icon, pointer fyne.Position) bool {
	if !c.icons.contains(icon) {
		return false
	}
	corner, ok := c.StretchHandleAt(icon, pointer)
	if !ok {
		return false
	}
	if c.stretch.icon != icon {
		if old := c.stretch.icon; old != nil {
			c.stretch = stretchState{}
			c.observer.IconStretchEnded(old)
		}
		c.startStretchHandles(icon)
	}

	s := &c.stretch
	s.dragging = true
	s.corner = corner
	s.startPointer = pointer
	s.startPos = icon.Position()
	s.startSize = c.iconSize(icon)
	c.logger.Debug("stretch started", "uri", icon.key(), "corner", corner, "size", s.startSize)
	return true
}

// UpdateStretch resizes the stretch icon to follow pointer.
func (c *Container) UpdateStretch(pointer fyne.Position) {
	s := &c.stretch
	if !s.dragging || s.icon == nil {
		return
	}
	pos, size := computeStretch(s.startPointer, s.startPos, s.startSize, pointer, c.metrics.SmallestIconSize)
	c.setIconPosition(s.icon, pos.X, pos.Y)
	c.setIconSize(s.icon, size, false, false)
}

// EndStretch applies the final pointer position, reports the new position
// and scale and lays out again.
func (c *Container) EndStretch(pointer fyne.Position) {
	s := &c.stretch
	if !s.dragging || s.icon == nil {
		return
	}
	c.UpdateStretch(pointer)
	s.dragging = false
	icon := s.icon

	x := icon.x
	if c.layoutMode.IsRTL() {
		x = c.mirrorX(icon, icon.x)
		icon.savedLTRX = x
	}
	c.observer.IconPositionChanged(icon, fyne.NewPos(x, icon.y), icon.scale)
	c.logger.Debug("stretch ended", "uri", icon.key(), "scale", icon.scale)
	c.Relayout()
}

// CancelStretch hides the handles and puts the stretch icon back where it
// was when they appeared. It reports whether there was anything to cancel.
func (c *Container) CancelStretch() bool {
	s := c.stretch
	if s.icon == nil {
		return false
	}
	c.stretch = stretchState{}
	s.icon.setPosition(s.initialPos.X, s.initialPos.Y)
	s.icon.scale = s.initialScale
	s.icon.savedLTRX = s.initialSavedX
	c.logger.Debug("stretch cancelled", "uri", s.icon.key())
	return true
}

// StretchByKey grows or shrinks the selected stretch icon by delta pixels.
func (c *Container) StretchByKey(delta float32) bool {
	icon := c.stretch.icon
	if icon == nil || !icon.selected {
		return false
	}
	size := max32(c.iconSize(icon)+delta, c.metrics.SmallestIconSize)
	c.setIconSize(icon, size, false, false)
	return true
}

// ResetStretch returns the selected stretch icon to its natural size.
func (c *Container) ResetStretch() bool {
	icon := c.stretch.icon
	if icon == nil || !icon.selected {
		return false
	}
	c.MoveIcon(icon, icon.Position(), 1, true, true)
	return true
}

// IsStretched reports whether any selected icon has a scale other than 1.
func (c *Container) IsStretched() bool {
	for _, icon := range c.icons.icons {
		if icon.selected && icon.scale != 1 {
			return true
		}
	}
	return false
}

// Unstretch returns every selected icon to scale 1.
func (c *Container) Unstretch() {
	for _, icon := range c.Selected() {
		c.MoveIcon(icon, icon.Position(), 1, true, true)
	}
}
