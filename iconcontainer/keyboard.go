package iconcontainer

import (
	"fyne.io/fyne/v2"
)

func hasCtrl(mods fyne.KeyModifier) bool {
	return mods&fyne.KeyModifierControl != 0 || mods&fyne.KeyModifierShortcutDefault != 0
}

func hasShift(mods fyne.KeyModifier) bool {
	return mods&fyne.KeyModifierShift != 0
}

func modifiesSelection(mods fyne.KeyModifier) bool {
	return hasCtrl(mods) || hasShift(mods)
}

// KeyPressed handles a key typed while the container has focus and reports
// whether it was consumed.
func (c *Container) KeyPressed(key fyne.KeyName, mods fyne.KeyModifier) bool {
	alt := mods&fyne.KeyModifierAlt != 0

	switch key {
	case fyne.KeyHome:
		from, to := c.home()
		c.keyboardMoveTo(to, from, mods)
		return true
	case fyne.KeyEnd:
		from, to := c.end()
		c.keyboardMoveTo(to, from, mods)
		return true
	case fyne.KeyLeft:
		return !alt && c.arrowKey(DirLeft, mods)
	case fyne.KeyRight:
		return !alt && c.arrowKey(DirRight, mods)
	case fyne.KeyUp:
		return !alt && c.arrowKey(DirUp, mods)
	case fyne.KeyDown:
		return !alt && c.arrowKey(DirDown, mods)
	case fyne.KeySpace:
		c.keyboardSpace(mods)
		return true
	case fyne.KeyTab:
		c.selectPreviousOrNext(!hasShift(mods), mods)
		return true
	case fyne.KeyReturn, fyne.KeyEnter:
		c.activateSelected(hasShift(mods))
		return true
	case fyne.KeyEscape:
		if c.CancelStretch() {
			return true
		}
		if c.band.active {
			c.StopRubberband()
			return true
		}
		return false
	case fyne.KeyEqual, fyne.KeyPlus:
		return hasCtrl(mods) && c.StretchByKey(c.metrics.StretchStep)
	case fyne.KeyMinus:
		return hasCtrl(mods) && c.StretchByKey(-c.metrics.StretchStep)
	case fyne.Key0:
		return hasCtrl(mods) && c.ResetStretch()
	case fyne.KeyA:
		if hasCtrl(mods) && !hasShift(mods) {
			c.SelectAll()
			return true
		}
	}
	return false
}

func (c *Container) arrowKey(dir Direction, mods fyne.KeyModifier) bool {
	from, to := c.navigate(dir, hasCtrl(mods) && hasShift(mods))
	c.keyboardMoveTo(to, from, mods)
	return true
}

// keyboardMoveTo applies a keyboard move from one icon to another. Ctrl
// moves only the focus, Shift extends the selection and no modifier
// selects the target alone.
func (c *Container) keyboardMoveTo(to, from *Icon, mods fyne.KeyModifier) {
	if to == nil {
		return
	}
	ctrl, shift := hasCtrl(mods), hasShift(mods)

	switch {
	case ctrl && !shift:
		c.setFocus(to)
		c.keyboardRubberbandStart = nil
	case (ctrl || !c.autoLayout) && shift:
		if from != nil && c.keyboardRubberbandStart == nil {
			c.keyboardRubberbandStart = from
			for _, icon := range c.icons.icons {
				icon.selectedBeforeRubberband = false
			}
		}
		c.setFocus(to)
		if start := c.keyboardRubberbandStart; start != nil {
			rect := c.geometry.Bounds(start, BoundsDisplay).Union(c.geometry.Bounds(to, BoundsDisplay))
			c.rubberbandSelect(rect)
		}
	case shift:
		base := c.rangeBase
		if base == nil || !base.selected {
			base = to
			c.rangeBase = to
		}
		c.setFocus(to)
		if c.selectRange(base, to, true) {
			c.observer.SelectionChanged()
		}
	default:
		c.clearFocus()
		c.keyboardRubberbandStart = nil
		c.rangeBase = to
		if c.selectOneUnselectOthers(to) {
			c.observer.SelectionChanged()
		}
	}
	c.scheduleKeyboardReveal(to)
}

func (c *Container) keyboardSpace(mods fyne.KeyModifier) {
	ctrl, shift := hasCtrl(mods), hasShift(mods)

	switch {
	case c.SelectionCount() == 0 && c.focus != nil:
		c.keyboardMoveTo(c.focus, nil, 0)
	case ctrl && !shift:
		if c.focus != nil {
			c.toggleSelected(c.focus)
			c.observer.SelectionChanged()
			if c.focus.selected {
				c.rangeBase = c.focus
			}
			return
		}
		nav := &navigation{c: c}
		icon := nav.findBestSelected(nil, leftmostInTopRow)
		if icon == nil {
			icon = nav.findBest(nil, leftmostInTopRow)
		}
		if icon != nil {
			c.setFocus(icon)
		}
	case shift:
		c.activateSelected(true)
	default:
		c.activateSelected(false)
	}
}

// selectPreviousOrNext walks the layout order from the focus or the first
// selected icon, wrapping at either end.
func (c *Container) selectPreviousOrNext(next bool, mods fyne.KeyModifier) {
	icons := c.icons.icons
	if len(icons) == 0 {
		return
	}
	start := c.focus
	if start == nil {
		start = c.firstSelected()
	}

	idx := -1
	for i, icon := range icons {
		if icon == start {
			idx = i
			break
		}
	}

	var to *Icon
	switch {
	case idx < 0 && next:
		to = icons[0]
	case idx < 0:
		to = icons[len(icons)-1]
	case next:
		to = icons[(idx+1)%len(icons)]
	default:
		to = icons[(idx-1+len(icons))%len(icons)]
	}
	c.keyboardMoveTo(to, nil, mods&^fyne.KeyModifierShift)
}

func (c *Container) activateSelected(alternate bool) {
	sel := c.Selected()
	if c.activator == nil || len(sel) == 0 {
		return
	}
	c.activator.ActivateIcons(sel, alternate)
}
