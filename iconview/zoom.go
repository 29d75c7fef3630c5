package iconview

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

var zoomLevels = []float32{
	0.75,
	1.0,
	1.25,
	1.5,
	1.75,
	2.0,
}

const defaultZoomLevel = 1 // 1.0

func clampZoomLevel(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(zoomLevels) {
		return len(zoomLevels) - 1
	}
	return i
}

func currentModifiers() fyne.KeyModifier {
	app := fyne.CurrentApp()
	if app == nil {
		return 0
	}
	d, ok := app.Driver().(desktop.Driver)
	if !ok {
		return 0
	}
	return d.CurrentKeyModifiers()
}

func isZoomModifier(mods fyne.KeyModifier) bool {
	// Command on macOS, Control elsewhere.
	return mods&fyne.KeyModifierControl != 0 || mods&fyne.KeyModifierShortcutDefault != 0
}

// zoomOverlay sits above the scroller and turns modified wheel scrolling
// into zoom steps. It is only visible while the zoom modifier is held, so
// plain scrolling reaches the scroller underneath.
type zoomOverlay struct {
	widget.BaseWidget
	onStep func(steps int)
	accDY  float32

	modifiers func() fyne.KeyModifier
}

func newZoomOverlay(onStep func(steps int)) *zoomOverlay {
	z := &zoomOverlay{onStep: onStep, modifiers: currentModifiers}
	z.ExtendBaseWidget(z)
	return z
}

func (z *zoomOverlay) Visible() bool {
	if !z.BaseWidget.Visible() {
		return false
	}
	return isZoomModifier(z.modifiers())
}

func (z *zoomOverlay) Scrolled(e *fyne.ScrollEvent) {
	if z.onStep == nil {
		return
	}
	dy := e.Scrolled.DY
	if math.IsNaN(float64(dy)) || math.IsInf(float64(dy), 0) {
		return
	}

	// About 40 per wheel notch; touchpads send many small deltas.
	const notch = float32(40)
	z.accDY += dy

	var steps int
	for z.accDY >= notch {
		steps++
		z.accDY -= notch
	}
	for z.accDY <= -notch {
		steps--
		z.accDY += notch
	}
	if steps != 0 {
		z.onStep(steps)
	}
}

func (z *zoomOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &zoomOverlayRenderer{}
}

var _ fyne.Scrollable = (*zoomOverlay)(nil)

type zoomOverlayRenderer struct{}

func (r *zoomOverlayRenderer) Layout(fyne.Size)             {}
func (r *zoomOverlayRenderer) MinSize() fyne.Size           { return fyne.NewSize(0, 0) }
func (r *zoomOverlayRenderer) Refresh()                     {}
func (r *zoomOverlayRenderer) Objects() []fyne.CanvasObject { return nil }
func (r *zoomOverlayRenderer) Destroy()                     {}
