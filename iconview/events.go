package iconview

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// itemDrag is a press on a selected icon that turned into moving the
// selection by hand.
type itemDrag struct {
	moving bool
	delta  fyne.Position
}

// background covers the empty canvas behind the icons. Presses on it start
// band selections.
type background struct {
	widget.BaseWidget
	v *View
}

func newBackground(v *View) *background {
	b := &background{v: v}
	b.ExtendBaseWidget(b)
	return b
}

func (b *background) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

var (
	_ desktop.Mouseable = (*background)(nil)
	_ fyne.Draggable    = (*background)(nil)
)

func (b *background) MouseDown(e *desktop.MouseEvent) {
	b.v.backgroundPressed(e)
}

func (b *background) MouseUp(*desktop.MouseEvent) {
	b.v.pointerReleased()
}

func (b *background) Dragged(e *fyne.DragEvent) {
	b.v.pointerMoved(b.v.toViewport(e.Position))
}

func (b *background) DragEnd() {
	b.v.pointerReleased()
}

// toViewport converts a position on the scrolled canvas to the visible area.
func (v *View) toViewport(p fyne.Position) fyne.Position {
	return p.Subtract(v.scroll.Offset)
}

func (v *View) backgroundPressed(e *desktop.MouseEvent) {
	v.DismissMenu()
	v.requestFocus()
	p := v.toViewport(e.Position)
	v.lastPointer = p

	switch e.Button {
	case desktop.MouseButtonPrimary:
		v.icons.BackgroundPress(p, e.Modifier)
	case desktop.MouseButtonSecondary:
		v.icons.UnselectAll()
		v.showBackgroundMenu(e.AbsolutePosition)
	}
	v.syncOverlays()
}

func (v *View) pointerMoved(p fyne.Position) {
	v.lastPointer = p
	v.icons.PointerMotion(p)
	v.syncOverlays()
}

func (v *View) pointerReleased() {
	v.icons.ButtonReleaseBackground(v.lastPointer)
	v.syncOverlays()
}

func (v *View) itemPressed(i *iconItem, e *desktop.MouseEvent) {
	v.DismissMenu()
	v.requestFocus()
	p := v.toViewport(i.Position().Add(e.Position))
	v.lastPointer = p
	v.drag = itemDrag{}

	if !v.icons.ButtonPress(i.icon, p, e.Button, e.Modifier, time.Now()) {
		return
	}
	if e.Button == desktop.MouseButtonSecondary {
		v.showItemMenu(e.AbsolutePosition)
	}
	v.syncOverlays()
}

func (v *View) itemReleased(i *iconItem, e *desktop.MouseEvent) {
	p := v.toViewport(i.Position().Add(e.Position))
	v.lastPointer = p
	v.icons.ButtonRelease(p, e.Modifier, time.Now())
	v.syncOverlays()
}

// itemDragged feeds a stretch in progress, or moves the selection when
// icons are placed by hand.
func (v *View) itemDragged(i *iconItem, e *fyne.DragEvent) {
	p := v.toViewport(i.Position().Add(e.Position))
	if v.icons.Stretching() || v.icons.RubberbandActive() {
		v.pointerMoved(p)
		return
	}
	v.lastPointer = p
	if v.icons.AutoLayout() || !i.icon.Selected() {
		return
	}
	if !v.drag.moving {
		v.drag.moving = true
		v.icons.CancelPress()
	}
	v.drag.delta = v.drag.delta.Add(e.Dragged)
	for _, item := range v.order {
		if item.icon.Selected() {
			v.layoutItem(item)
		}
	}
}

func (v *View) itemDragEnded(*iconItem) {
	if v.icons.Stretching() {
		v.icons.ButtonRelease(v.lastPointer, 0, time.Now())
		v.syncOverlays()
		return
	}
	d := v.drag
	v.drag = itemDrag{}
	if !d.moving {
		return
	}
	for _, icon := range v.icons.Selected() {
		v.icons.MoveIcon(icon, icon.Position().Add(d.delta), icon.Scale(), true, true)
	}
	v.refreshCanvas()
	v.syncOverlays()
}

func (v *View) requestFocus() {
	if c := v.currentCanvas(); c != nil {
		c.Focus(v)
	}
}

var (
	_ fyne.Focusable    = (*View)(nil)
	_ fyne.Shortcutable = (*View)(nil)
)

func (v *View) FocusGained()   {}
func (v *View) FocusLost()     {}
func (v *View) TypedRune(rune) {}

func (v *View) TypedKey(e *fyne.KeyEvent) {
	v.keyPressed(e.Name, currentModifiers())
}

// TypedShortcut receives keys pressed together with Control or Command.
func (v *View) TypedShortcut(s fyne.Shortcut) {
	switch sc := s.(type) {
	case *desktop.CustomShortcut:
		v.keyPressed(sc.KeyName, sc.Modifier)
	case *fyne.ShortcutSelectAll:
		v.keyPressed(fyne.KeyA, fyne.KeyModifierShortcutDefault)
	case *fyne.ShortcutCopy:
		v.CopyPaths(v.Selected())
	}
}

// keyPressed offers a key to the container first. Keys it leaves alone may
// change the zoom.
func (v *View) keyPressed(key fyne.KeyName, mods fyne.KeyModifier) bool {
	if v.icons.KeyPressed(key, mods) {
		v.refreshCanvas()
		v.syncOverlays()
		return true
	}
	if !isZoomModifier(mods) {
		return false
	}
	switch key {
	case fyne.KeyPlus, fyne.KeyEqual:
		v.adjustZoom(1)
	case fyne.KeyMinus:
		v.adjustZoom(-1)
	case fyne.Key0:
		v.SetZoomLevel(defaultZoomLevel)
	default:
		return false
	}
	return true
}
