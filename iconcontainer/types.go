// Package iconcontainer places, navigates and selects icons inside a
// scrollable canvas. It knows nothing about drawing: pixel extents come from a
// GeometryProvider and scrolling goes through a Viewport.
package iconcontainer

import (
	"strings"
	"time"

	"fyne.io/fyne/v2"
)

// Unpositioned is the coordinate an icon carries until it is placed.
const Unpositioned float32 = -1

// BoundsUsage selects which extent of an icon a GeometryProvider reports.
type BoundsUsage int

const (
	// BoundsDisplay is the currently rendered extent.
	BoundsDisplay BoundsUsage = iota
	// BoundsLayout excludes transient decorations and is used for flow and collisions.
	BoundsLayout
	// BoundsEntireItem includes label and emblem overflow.
	BoundsEntireItem
)

// LayoutMode is the direction icons flow in when laid out automatically.
type LayoutMode int

const (
	LayoutLeftRightTopBottom LayoutMode = iota
	LayoutRightLeftTopBottom
	LayoutTopBottomLeftRight
	LayoutTopBottomRightLeft
)

// IsVertical reports whether icons flow in columns.
func (m LayoutMode) IsVertical() bool {
	return m == LayoutTopBottomLeftRight || m == LayoutTopBottomRightLeft
}

// IsRTL reports whether positions are mirrored horizontally.
func (m LayoutMode) IsRTL() bool {
	return m == LayoutRightLeftTopBottom || m == LayoutTopBottomRightLeft
}

func (m LayoutMode) String() string {
	switch m {
	case LayoutRightLeftTopBottom:
		return "rl-tb"
	case LayoutTopBottomLeftRight:
		return "tb-lr"
	case LayoutTopBottomRightLeft:
		return "tb-rl"
	default:
		return "lr-tb"
	}
}

// LabelPosition places an icon's label relative to its image.
type LabelPosition int

const (
	LabelBelow LabelPosition = iota
	LabelBeside
)

func (p LabelPosition) String() string {
	if p == LabelBeside {
		return "beside"
	}
	return "below"
}

// Direction of a keyboard navigation gesture.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Corner identifies one of the four stretch handles of an icon.
type Corner int

const (
	CornerTopLeft Corner = iota
	CornerTopRight
	CornerBottomLeft
	CornerBottomRight
)

// GeometryProvider reports the pixel extents of an icon at its current
// position, in canvas coordinates. An icon's position is the top-left corner
// of its IconRect.
type GeometryProvider interface {
	Bounds(icon *Icon, usage BoundsUsage) Rect
	IconRect(icon *Icon) Rect
	TextRect(icon *Icon, wholeText bool) Rect
}

// Viewport is the scrollable window onto the canvas.
type Viewport interface {
	Extent() fyne.Size
	// ScrollBy moves the visible area and reports whether anything moved.
	ScrollBy(dx, dy float32) bool
	ScrollOffset() fyne.Position
}

// Observer receives fire-and-forget notifications from a Container.
type Observer interface {
	SelectionChanged()
	IconPositionChanged(icon *Icon, pos fyne.Position, scale float32)
	IconStretchStarted(icon *Icon)
	IconStretchEnded(icon *Icon)
	LayoutChanged()
}

// BaseObserver ignores every notification. Embed it to implement only the
// notifications you need.
type BaseObserver struct{}

func (BaseObserver) SelectionChanged()                                 {}
func (BaseObserver) IconPositionChanged(*Icon, fyne.Position, float32) {}
func (BaseObserver) IconStretchStarted(*Icon)                          {}
func (BaseObserver) IconStretchEnded(*Icon)                            {}
func (BaseObserver) LayoutChanged()                                    {}

// StoredPosition is a persisted placement for manual layout.
type StoredPosition struct {
	Pos   fyne.Position
	Scale float32
}

// PositionStore seeds manual layout from persisted state.
type PositionStore interface {
	StoredPosition(icon *Icon) (StoredPosition, bool)
}

// Activator opens icons on double click, Return or Space.
type Activator interface {
	ActivateIcons(icons []*Icon, alternate bool)
}

// Comparator orders icons before an automatic layout pass.
type Comparator interface {
	Compare(a, b *Icon) int
}

// CompareFunc adapts a function to the Comparator interface.
type CompareFunc func(a, b *Icon) int

func (f CompareFunc) Compare(a, b *Icon) int {
	return f(a, b)
}

// DefaultComparator sorts by display name, case insensitive, then by URI.
var DefaultComparator Comparator = CompareFunc(func(a, b *Icon) int {
	if c := strings.Compare(strings.ToLower(a.URI.Name()), strings.ToLower(b.URI.Name())); c != 0 {
		return c
	}
	return strings.Compare(a.URI.String(), b.URI.String())
})

// Scheduler integrates the container with the host event loop. Both methods
// return a cancel func that is safe to call more than once.
type Scheduler interface {
	Idle(fn func()) (cancel func())
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

const (
	rubberbandTickInterval = 10 * time.Millisecond
	rubberbandScrollZone   = 5
	keyboardRevealDelay    = 10 * time.Millisecond
	maxClickTime           = 1500 * time.Millisecond
)
