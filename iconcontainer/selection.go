package iconcontainer

import (
	"fyne.io/fyne/v2"
)

// setSelected reports whether the selection state of icon changed.
func (c *Container) setSelected(icon *Icon, selected bool) bool {
	if icon.selected == selected {
		return false
	}
	c.toggleSelected(icon)
	return true
}

func (c *Container) toggleSelected(icon *Icon) {
	icon.selected = !icon.selected

	// Any change of the stretch icon's selection removes its handles.
	if icon == c.stretch.icon {
		c.stretch = stretchState{}
		if c.keepAligned {
			c.moveIcon(icon, icon.Position(), icon.scale, true, true)
		}
		c.observer.IconStretchEnded(icon)
	}
}

// selectOneUnselectOthers selects icon alone. A nil icon unselects all.
func (c *Container) selectOneUnselectOthers(icon *Icon) bool {
	changed := false
	for _, other := range c.icons.icons {
		if c.setSelected(other, other == icon) {
			changed = true
		}
	}
	if changed && icon != nil {
		c.RevealIcon(icon)
	}
	return changed
}

// selectRange selects the icons between a and b in layout order, both
// included. With unselectOutside every other icon is unselected.
func (c *Container) selectRange(a, b *Icon, unselectOutside bool) bool {
	changed := false
	var unmatched *Icon
	selecting := false
	for _, icon := range c.icons.icons {
		if unmatched == nil {
			if icon == a {
				unmatched = b
				selecting = true
			} else if icon == b {
				unmatched = a
				selecting = true
			}
		}
		if selecting || unselectOutside {
			if c.setSelected(icon, selecting) {
				changed = true
			}
		}
		if unmatched != nil && icon == unmatched {
			selecting = false
		}
	}
	return changed
}

func (c *Container) SelectAll() {
	changed := false
	for _, icon := range c.icons.icons {
		if c.setSelected(icon, true) {
			changed = true
		}
	}
	if changed {
		c.observer.SelectionChanged()
	}
}

func (c *Container) UnselectAll() {
	if c.selectOneUnselectOthers(nil) {
		c.observer.SelectionChanged()
	}
}

func (c *Container) InvertSelection() {
	if c.icons.len() == 0 {
		return
	}
	for _, icon := range c.icons.icons {
		c.toggleSelected(icon)
	}
	c.observer.SelectionChanged()
}

// SetSelection selects exactly the icons for uris. Unknown URIs are ignored.
func (c *Container) SetSelection(uris []fyne.URI) {
	want := make(map[*Icon]bool, len(uris))
	for _, u := range uris {
		if icon := c.icons.lookup(u); icon != nil {
			want[icon] = true
		}
	}
	changed := false
	for _, icon := range c.icons.icons {
		if c.setSelected(icon, want[icon]) {
			changed = true
		}
	}
	if changed {
		c.observer.SelectionChanged()
	}
}

// Selected returns the selected icons in layout order.
func (c *Container) Selected() []*Icon {
	var sel []*Icon
	for _, icon := range c.icons.icons {
		if icon.selected {
			sel = append(sel, icon)
		}
	}
	return sel
}

func (c *Container) SelectionCount() int {
	n := 0
	for _, icon := range c.icons.icons {
		if icon.selected {
			n++
		}
	}
	return n
}

func (c *Container) ToggleSelected(icon *Icon) {
	if !c.icons.contains(icon) {
		return
	}
	c.toggleSelected(icon)
	c.observer.SelectionChanged()
}

// SelectRange selects the icons from a to b in layout order.
func (c *Container) SelectRange(a, b *Icon, unselectOutside bool) {
	if !c.icons.contains(a) || !c.icons.contains(b) {
		return
	}
	if c.selectRange(a, b, unselectOutside) {
		c.observer.SelectionChanged()
	}
}

func (c *Container) firstSelected() *Icon {
	for _, icon := range c.icons.icons {
		if icon.selected {
			return icon
		}
	}
	return nil
}

func (c *Container) allSelected() bool {
	for _, icon := range c.icons.icons {
		if !icon.selected {
			return false
		}
	}
	return true
}

func (c *Container) setFocus(icon *Icon) {
	c.focus = icon
}

func (c *Container) clearFocus() {
	c.focus = nil
}
