package iconcontainer

import (
	"fyne.io/fyne/v2"
)

// Icon is one positioned, selectable item of a Container. Icons are created
// by Container.Add and stay valid until removed; their state changes only
// through Container operations.
type Icon struct {
	URI fyne.URI

	// Monitored and HasLazyPosition are bookkeeping for collaborators.
	// HasLazyPosition also asks the next layout pass to move the icon to
	// the closest free spot near its stored position.
	Monitored       bool
	HasLazyPosition bool

	x, y      float32
	savedLTRX float32
	scale     float32

	selected                 bool
	selectedBeforeRubberband bool
	visible                  bool
	wholeText                bool
}

func newIcon(u fyne.URI) *Icon {
	return &Icon{
		URI:       u,
		x:         Unpositioned,
		y:         Unpositioned,
		savedLTRX: Unpositioned,
		scale:     1,
	}
}

func (i *Icon) Position() fyne.Position {
	return fyne.NewPos(i.x, i.y)
}

// Positioned reports whether the icon has been placed at least once.
func (i *Icon) Positioned() bool {
	return i.x != Unpositioned || i.y != Unpositioned
}

func (i *Icon) Scale() float32 { return i.scale }

func (i *Icon) Selected() bool { return i.selected }

// Visible reports whether the icon overlapped the viewport after the last
// visibility update.
func (i *Icon) Visible() bool { return i.visible }

// ShowsWholeText is set for icons on the last line of a horizontal layout,
// whose labels should not be ellipsized.
func (i *Icon) ShowsWholeText() bool { return i.wholeText }

func (i *Icon) key() string {
	return i.URI.String()
}

func (i *Icon) setPosition(x, y float32) {
	i.x = x
	i.y = y
}
