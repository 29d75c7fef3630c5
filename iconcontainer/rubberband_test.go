package iconcontainer

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

func newBandRig(t *testing.T) (*testRig, []*Icon) {
	t.Helper()
	r := newTestRig(300, 100, dims{iconW: 100, iconH: 50})
	icons := r.add(t, "a", "b", "c")
	r.sched.Flush()
	return r, icons
}

func TestRubberband_SelectsHitIcons(t *testing.T) {
	r, _ := newBandRig(t)

	r.c.StartRubberband(fyne.NewPos(20, 10))
	r.c.RubberbandMotion(fyne.NewPos(140, 30))
	r.sched.Advance(rubberbandTickInterval)

	rect, ok := r.c.RubberbandRect()
	if !ok {
		t.Fatalf("Expected a band rectangle")
	}
	if want := (Rect{X0: 20, Y0: 10, X1: 140, Y1: 30}); rect != want {
		t.Errorf("Expected band %v, got %v", want, rect)
	}
	assertSelected(t, r.c, "a")
	if r.obs.selections == 0 {
		t.Errorf("Expected a selection notification")
	}
}

func TestRubberband_CornerOrderDoesNotMatter(t *testing.T) {
	r, _ := newBandRig(t)

	r.c.StartRubberband(fyne.NewPos(140, 30))
	r.c.RubberbandMotion(fyne.NewPos(20, 10))
	r.sched.Advance(rubberbandTickInterval)

	rect, _ := r.c.RubberbandRect()
	if want := (Rect{X0: 20, Y0: 10, X1: 140, Y1: 30}); rect != want {
		t.Errorf("Expected band %v, got %v", want, rect)
	}
	assertSelected(t, r.c, "a")
}

func TestRubberband_FirstTickWithoutMotion(t *testing.T) {
	r, _ := newBandRig(t)

	r.c.StartRubberband(fyne.NewPos(50, 50))
	if _, ok := r.c.RubberbandRect(); ok {
		t.Fatalf("Expected no rectangle before the first tick")
	}
	r.sched.Advance(rubberbandTickInterval)

	rect, ok := r.c.RubberbandRect()
	if !ok {
		t.Fatalf("Expected the first tick to compute a rectangle")
	}
	if want := (Rect{X0: 50, Y0: 50, X1: 51, Y1: 51}); rect != want {
		t.Errorf("Expected band %v, got %v", want, rect)
	}
}

func TestRubberband_TogglesAgainstPriorSelection(t *testing.T) {
	r, icons := newBandRig(t)
	r.c.SetSelection([]fyne.URI{icons[1].URI})

	r.c.BackgroundPress(fyne.NewPos(20, 10), fyne.KeyModifierControl)
	if !r.c.RubberbandActive() {
		t.Fatalf("Expected background press to start a band")
	}
	r.c.PointerMotion(fyne.NewPos(290, 30))
	r.sched.Advance(rubberbandTickInterval)
	assertSelected(t, r.c, "a")

	// Shrinking the band restores the selection it no longer covers.
	r.c.PointerMotion(fyne.NewPos(140, 30))
	r.sched.Advance(rubberbandTickInterval)
	assertSelected(t, r.c, "a", "b")
}

func TestRubberband_PlainPressDropsSelection(t *testing.T) {
	r, icons := newBandRig(t)
	r.c.SetSelection([]fyne.URI{icons[2].URI})

	r.c.BackgroundPress(fyne.NewPos(250, 90), 0)
	assertSelected(t, r.c)
	r.c.ButtonReleaseBackground(fyne.NewPos(250, 90))
	if r.c.RubberbandActive() {
		t.Errorf("Expected release to stop the band")
	}
}

func TestRubberband_EdgeScroll(t *testing.T) {
	r, _ := newBandRig(t)

	r.c.StartRubberband(fyne.NewPos(50, 50))
	r.c.RubberbandMotion(fyne.NewPos(150, 98))
	r.sched.Advance(rubberbandTickInterval)

	if r.vp.offset != fyne.NewPos(0, 4) {
		t.Fatalf("Expected scroll offset (0, 4), got %v", r.vp.offset)
	}
	rect, _ := r.c.RubberbandRect()
	if want := (Rect{X0: 50, Y0: 50, X1: 150, Y1: 103}); rect != want {
		t.Errorf("Expected band %v, got %v", want, rect)
	}

	// The pointer stays in the zone, so every tick keeps scrolling.
	r.sched.Advance(rubberbandTickInterval)
	if r.vp.offset != fyne.NewPos(0, 8) {
		t.Errorf("Expected scroll offset (0, 8), got %v", r.vp.offset)
	}
}

func TestRubberband_FollowsExternalScroll(t *testing.T) {
	r, _ := newBandRig(t)

	r.c.StartRubberband(fyne.NewPos(50, 50))
	r.c.RubberbandMotion(fyne.NewPos(60, 60))
	r.vp.ScrollBy(0, 20)
	r.sched.Advance(rubberbandTickInterval)

	rect, _ := r.c.RubberbandRect()
	if want := (Rect{X0: 50, Y0: 50, X1: 60, Y1: 80}); rect != want {
		t.Errorf("Expected band %v, got %v", want, rect)
	}
}

func TestRubberband_StopSetsRangeBase(t *testing.T) {
	r, icons := newBandRig(t)

	r.c.StartRubberband(fyne.NewPos(20, 10))
	r.c.RubberbandMotion(fyne.NewPos(140, 30))
	r.sched.Advance(rubberbandTickInterval)
	r.c.StopRubberband()

	if r.c.RubberbandActive() {
		t.Fatalf("Expected band to be stopped")
	}
	if r.sched.Pending() != 0 {
		t.Errorf("Expected no pending ticks, got %d", r.sched.Pending())
	}

	// Shift-click extends from the icon the band left selected.
	r.c.ButtonPress(icons[2], fyne.NewPos(80, 80), desktop.MouseButtonPrimary, fyne.KeyModifierShift, time.Unix(100, 0))
	assertSelected(t, r.c, "a", "b", "c")
}

func TestRubberband_IgnoresEmptyLabels(t *testing.T) {
	r := newTestRig(300, 100, dims{iconW: 100, iconH: 50})
	icon := r.add(t, "a")[0]
	r.sched.Flush()

	// Below the image, where a label would be.
	band := Rect{X0: 40, Y0: 60, X1: 120, Y1: 70}
	if r.c.hitTestRect(icon, band) {
		t.Errorf("Expected no hit without a label")
	}

	r.geom.sizes[icon.key()] = dims{iconW: 100, iconH: 50, textW: 80, textH: 14}
	if !r.c.hitTestRect(icon, band) {
		t.Errorf("Expected the label to be hit")
	}
}

func TestRubberband_EscapeStops(t *testing.T) {
	r, _ := newBandRig(t)
	r.c.StartRubberband(fyne.NewPos(20, 10))

	if !r.c.KeyPressed(fyne.KeyEscape, 0) {
		t.Fatalf("Expected Escape to be consumed")
	}
	if r.c.RubberbandActive() {
		t.Errorf("Expected Escape to stop the band")
	}
}
