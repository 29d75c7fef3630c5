package iconcontainer

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// clickTracker detects double clicks. The two most recently pressed icons
// must match for a double click to count.
type clickTracker struct {
	last  time.Time
	count int
	icons [2]*Icon
}

// press records a click at time at and reports whether it completes a
// double click.
func (t *clickTracker) press(at time.Time, threshold time.Duration) bool {
	if !t.last.IsZero() && at.Sub(t.last) < threshold {
		t.count++
	} else {
		t.count = 0
	}
	t.last = at
	if t.count == 1 {
		t.count = 0
		return true
	}
	return false
}

func (t *clickTracker) pushIcon(icon *Icon) {
	t.icons[1] = t.icons[0]
	t.icons[0] = icon
}

// pressState remembers the icon under a button press until its release.
type pressState struct {
	active         bool
	icon           *Icon
	button         desktop.MouseButton
	at             time.Time
	selectedOnDown bool
}

func (c *Container) toCanvas(pointer fyne.Position) fyne.Position {
	return pointer.Add(c.viewport.ScrollOffset())
}

// ButtonPress handles a mouse button pressed on icon. pointer is in
// viewport coordinates. It reports whether the press was consumed.
func (c *Container) ButtonPress(icon *Icon, pointer fyne.Position, button desktop.MouseButton, mods fyne.KeyModifier, at time.Time) bool {
	c.clearFocus()
	c.keyboardRubberbandStart = nil

	if !c.icons.contains(icon) {
		return false
	}
	if c.band.active {
		return true
	}

	if button == desktop.MouseButtonPrimary {
		c.clicks.pushIcon(icon)
		if c.clicks.press(at, c.metrics.DoubleClickTime) && c.clicks.icons[0] == c.clicks.icons[1] {
			switch {
			case !modifiesSelection(mods):
				c.press = pressState{}
				c.activateSelected(false)
				return true
			case hasShift(mods) && !hasCtrl(mods):
				c.press = pressState{}
				if c.activator != nil {
					c.activator.ActivateIcons([]*Icon{icon}, true)
				}
				return true
			}
		}
	}

	if button == desktop.MouseButtonPrimary || button == desktop.MouseButtonTertiary {
		c.press = pressState{active: true, icon: icon, button: button, at: at}
		if icon == c.stretch.icon && c.BeginStretch(icon, c.toCanvas(pointer)) {
			return true
		}
	}

	selectedOnDown := icon.selected
	c.press.selectedOnDown = selectedOnDown

	switch {
	case (button == desktop.MouseButtonPrimary || button == desktop.MouseButtonTertiary) && hasShift(mods):
		base := c.rangeBase
		if base == nil || !base.selected {
			base = icon
			c.rangeBase = icon
		}
		if c.selectRange(base, icon, !hasCtrl(mods)) {
			c.observer.SelectionChanged()
		}
	case !selectedOnDown:
		c.rangeBase = icon
		if modifiesSelection(mods) {
			c.toggleSelected(icon)
			c.observer.SelectionChanged()
		} else if c.selectOneUnselectOthers(icon) {
			c.observer.SelectionChanged()
		}
	}

	if button == desktop.MouseButtonSecondary {
		c.press = pressState{}
	}
	return true
}

// ButtonRelease finishes a press that started on an icon. A press held
// longer than the maximum click time leaves the selection alone.
func (c *Container) ButtonRelease(pointer fyne.Position, mods fyne.KeyModifier, at time.Time) bool {
	if c.band.active || c.stretch.dragging {
		c.ButtonReleaseBackground(pointer)
		c.press = pressState{}
		return true
	}

	p := c.press
	c.press = pressState{}
	if !p.active || !c.icons.contains(p.icon) {
		return false
	}
	if at.Sub(p.at) > maxClickTime {
		return true
	}

	if p.selectedOnDown && (hasCtrl(mods) || !hasShift(mods)) {
		if modifiesSelection(mods) {
			c.rangeBase = nil
			c.toggleSelected(p.icon)
			c.observer.SelectionChanged()
		} else {
			c.rangeBase = p.icon
			if c.selectOneUnselectOthers(p.icon) {
				c.observer.SelectionChanged()
			}
		}
	}
	return true
}

// CancelPress forgets the press in progress so that its release changes
// nothing. Hosts call it once a press on an icon turns into a drag.
func (c *Container) CancelPress() {
	c.press = pressState{}
}

// BackgroundPress handles a primary press on empty canvas: it starts a band
// selection, dropping the current selection unless Ctrl or Shift is held.
func (c *Container) BackgroundPress(pointer fyne.Position, mods fyne.KeyModifier) {
	c.clearFocus()
	c.keyboardRubberbandStart = nil
	c.clicks.pushIcon(nil)

	if !modifiesSelection(mods) {
		c.UnselectAll()
	}
	c.StartRubberband(pointer)
}

// PointerMotion feeds pointer movement, in viewport coordinates, to an
// active stretch or band selection.
func (c *Container) PointerMotion(pointer fyne.Position) {
	switch {
	case c.stretch.dragging:
		c.UpdateStretch(c.toCanvas(pointer))
	case c.band.active:
		c.RubberbandMotion(pointer)
	}
}

// ButtonReleaseBackground ends an active stretch or band selection.
func (c *Container) ButtonReleaseBackground(pointer fyne.Position) {
	if c.stretch.dragging {
		c.EndStretch(c.toCanvas(pointer))
	}
	c.StopRubberband()
}
