package iconview

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/widget"
)

// ShowMenu pops menu up at pos, an absolute canvas position.
func (v *View) ShowMenu(menu *fyne.Menu, pos fyne.Position) {
	v.DismissMenu()
	c := v.currentCanvas()
	if c == nil {
		return
	}

	m := widget.NewMenu(menu)
	m.OnDismiss = v.DismissMenu
	v.activeMenu = widget.NewPopUp(m, c)
	v.activeMenu.ShowAtPosition(pos)
}

func (v *View) DismissMenu() {
	if v.activeMenu != nil {
		v.activeMenu.Hide()
		v.activeMenu = nil
	}
}

// itemMenu acts on the selection, which the press has already updated.
func (v *View) itemMenu() *fyne.Menu {
	icons := v.icons
	act := func(alternate bool) func() {
		return func() {
			v.DismissMenu()
			v.activate(icons.Selected(), alternate)
		}
	}

	resize := fyne.NewMenuItem(lang.L("Resize Icon"), func() {
		v.DismissMenu()
		icons.ShowStretchHandles()
		v.syncOverlays()
	})
	restore := fyne.NewMenuItem(lang.L("Restore Icon Size"), func() {
		v.DismissMenu()
		icons.Unstretch()
		v.refreshCanvas()
	})
	restore.Disabled = !icons.IsStretched()

	return fyne.NewMenu("",
		fyne.NewMenuItem(lang.L("Open"), act(false)),
		fyne.NewMenuItem(lang.L("Open With Other Application"), act(true)),
		fyne.NewMenuItem(lang.L("Copy Path"), func() {
			v.DismissMenu()
			v.CopyPaths(v.Selected())
		}),
		fyne.NewMenuItemSeparator(),
		resize,
		restore,
	)
}

func (v *View) backgroundMenu() *fyne.Menu {
	icons := v.icons
	item := func(label string, fn func()) *fyne.MenuItem {
		return fyne.NewMenuItem(lang.L(label), func() {
			v.DismissMenu()
			fn()
			v.savePreferences()
		})
	}

	auto := item("Arrange Automatically", func() { icons.SetAutoLayout(!icons.AutoLayout()) })
	auto.Checked = icons.AutoLayout()

	keep := item("Keep Aligned", func() { icons.SetKeepAligned(!icons.KeepAligned()) })
	keep.Checked = icons.KeepAligned()
	keep.Disabled = icons.AutoLayout()

	align := item("Align Icons", icons.AlignIcons)
	align.Disabled = icons.AutoLayout()

	hidden := item("Show Hidden Files", func() { v.SetShowHidden(!v.showHidden) })
	hidden.Checked = v.showHidden

	zoomIn := item("Zoom In", func() { v.adjustZoom(1) })
	zoomIn.Disabled = v.zoomLevel >= len(zoomLevels)-1
	zoomOut := item("Zoom Out", func() { v.adjustZoom(-1) })
	zoomOut.Disabled = v.zoomLevel <= 0

	return fyne.NewMenu("",
		item("Select All", icons.SelectAll),
		item("Invert Selection", icons.InvertSelection),
		fyne.NewMenuItemSeparator(),
		auto,
		keep,
		align,
		fyne.NewMenuItemSeparator(),
		hidden,
		zoomIn,
		zoomOut,
	)
}

func (v *View) showItemMenu(pos fyne.Position) {
	v.ShowMenu(v.itemMenu(), pos)
}

func (v *View) showBackgroundMenu(pos fyne.Position) {
	v.ShowMenu(v.backgroundMenu(), pos)
}

// CopyPaths puts the local paths of uris on the clipboard, one per line.
func (v *View) CopyPaths(uris []fyne.URI) {
	paths := make([]string, 0, len(uris))
	for _, u := range uris {
		p := u.Path()
		if p == "" {
			p = u.String()
		}
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return
	}
	if app := fyne.CurrentApp(); app != nil {
		app.Clipboard().SetContent(strings.Join(paths, "\n"))
	}
}
