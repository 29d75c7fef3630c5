package iconcontainer

import (
	"testing"

	"fyne.io/fyne/v2"
)

func TestComputeStretch(t *testing.T) {
	start := fyne.NewPos(100, 100)
	tests := []struct {
		name         string
		pointer, cur fyne.Position
		wantPos      fyne.Position
		wantSize     float32
	}{
		{"bottom right grows", fyne.NewPos(162, 162), fyne.NewPos(172, 182), start, 74},
		{"top left grows up and left", fyne.NewPos(101, 101), fyne.NewPos(91, 95), fyne.NewPos(94, 94), 70},
		{"top right keeps bottom left", fyne.NewPos(162, 101), fyne.NewPos(172, 91), fyne.NewPos(100, 90), 74},
		{"shrinks to the smallest size", fyne.NewPos(162, 162), fyne.NewPos(100, 100), start, 16},
		{"bottom left shrinks", fyne.NewPos(101, 162), fyne.NewPos(111, 152), fyne.NewPos(110, 100), 54},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, size := computeStretch(tt.pointer, start, 64, tt.cur, 16)
			if pos != tt.wantPos || size != tt.wantSize {
				t.Errorf("Expected %v size %v, got %v size %v", tt.wantPos, tt.wantSize, pos, size)
			}
		})
	}
}

func newStretchRig(t *testing.T) (*testRig, *Icon) {
	t.Helper()
	r := newTestRig(800, 600, dims{iconW: 64, iconH: 64})
	r.c.SetPositionStore(fakeStore{
		testURI("a").String(): {Pos: fyne.NewPos(100, 100), Scale: 1},
	})
	r.c.SetAutoLayout(false)
	icon := r.add(t, "a")[0]
	r.sched.Flush()
	r.c.SetSelection([]fyne.URI{icon.URI})
	return r, icon
}

func TestStretch_HandleHitTest(t *testing.T) {
	r, icon := newStretchRig(t)

	tests := []struct {
		pointer fyne.Position
		corner  Corner
		hit     bool
	}{
		{fyne.NewPos(101, 101), CornerTopLeft, true},
		{fyne.NewPos(160, 102), CornerTopRight, true},
		{fyne.NewPos(103, 163), CornerBottomLeft, true},
		{fyne.NewPos(160, 160), CornerBottomRight, true},
		{fyne.NewPos(132, 132), 0, false},
		{fyne.NewPos(99, 99), 0, false},
	}
	for _, tt := range tests {
		corner, ok := r.c.StretchHandleAt(icon, tt.pointer)
		if ok != tt.hit || (ok && corner != tt.corner) {
			t.Errorf("Expected %v hit=%v corner=%v, got hit=%v corner=%v", tt.pointer, tt.hit, tt.corner, ok, corner)
		}
	}
}

func TestStretch_DragAndEnd(t *testing.T) {
	r, icon := newStretchRig(t)

	r.c.ShowStretchHandles()
	if !r.c.HasStretchHandles() || r.c.StretchIcon() != icon {
		t.Fatalf("Expected handles on the selected icon")
	}
	if len(r.obs.started) != 1 {
		t.Fatalf("Expected one stretch started notification, got %d", len(r.obs.started))
	}

	if !r.c.BeginStretch(icon, fyne.NewPos(160, 160)) {
		t.Fatalf("Expected drag on the bottom right handle to start")
	}
	r.obs.positions = nil
	r.c.UpdateStretch(fyne.NewPos(170, 180))
	if len(r.obs.positions) != 0 {
		t.Errorf("Expected no position notification while dragging")
	}
	ir := r.geom.IconRect(icon)
	if ir.Width() != 74 || ir.Height() != 74 {
		t.Errorf("Expected a 74x74 image, got %vx%v", ir.Width(), ir.Height())
	}

	r.c.EndStretch(fyne.NewPos(170, 180))
	if r.c.Stretching() {
		t.Errorf("Expected drag to be finished")
	}
	ev, ok := r.obs.lastPosition(icon)
	if !ok {
		t.Fatalf("Expected the stretch to be reported")
	}
	if ev.pos != fyne.NewPos(100, 100) || ev.scale != 74.0/64 {
		t.Errorf("Expected (100, 100) scale %v, got %v scale %v", 74.0/64, ev.pos, ev.scale)
	}
}

func TestStretch_KeepsAspectFromTopLeft(t *testing.T) {
	r, icon := newStretchRig(t)
	r.c.ShowStretchHandles()

	r.c.BeginStretch(icon, fyne.NewPos(101, 101))
	r.c.UpdateStretch(fyne.NewPos(91, 95))
	assertPos(t, icon, 94, 94)
	ir := r.geom.IconRect(icon)
	if ir.Width() != ir.Height() || ir.X1 != 164 || ir.Y1 != 164 {
		t.Errorf("Expected a square anchored at (164, 164), got %v", ir)
	}
}

func TestStretch_CancelRestores(t *testing.T) {
	r, icon := newStretchRig(t)
	r.c.ShowStretchHandles()
	r.c.BeginStretch(icon, fyne.NewPos(101, 101))
	r.c.UpdateStretch(fyne.NewPos(60, 60))
	r.obs.positions = nil
	layouts := r.obs.layouts

	if !r.c.KeyPressed(fyne.KeyEscape, 0) {
		t.Fatalf("Expected Escape to cancel the stretch")
	}
	assertPos(t, icon, 100, 100)
	if icon.Scale() != 1 {
		t.Errorf("Expected scale 1, got %v", icon.Scale())
	}
	if r.c.StretchIcon() != nil || r.c.Stretching() {
		t.Errorf("Expected stretch state to be cleared")
	}
	if len(r.obs.positions) != 0 || len(r.obs.ended) != 0 {
		t.Errorf("Expected cancel to be silent")
	}
	if r.sched.Pending() != 0 || r.obs.layouts != layouts {
		t.Errorf("Expected cancel not to lay out again")
	}
	if r.c.CancelStretch() {
		t.Errorf("Expected nothing left to cancel")
	}
}

func TestStretch_Keys(t *testing.T) {
	r, icon := newStretchRig(t)

	if r.c.KeyPressed(fyne.KeyEqual, fyne.KeyModifierControl) {
		t.Fatalf("Expected Ctrl+= to be ignored without handles")
	}

	r.c.ShowStretchHandles()
	r.c.KeyPressed(fyne.KeyEqual, fyne.KeyModifierControl)
	r.c.KeyPressed(fyne.KeyPlus, fyne.KeyModifierControl)
	if got := r.c.iconSize(icon); got != 74 {
		t.Errorf("Expected size 74, got %v", got)
	}

	for i := 0; i < 20; i++ {
		r.c.KeyPressed(fyne.KeyMinus, fyne.KeyModifierControl)
	}
	if got := r.c.iconSize(icon); got != 16 {
		t.Errorf("Expected size to stop at 16, got %v", got)
	}
	if !r.c.IsStretched() {
		t.Errorf("Expected the icon to count as stretched")
	}

	r.c.KeyPressed(fyne.Key0, fyne.KeyModifierControl)
	if icon.Scale() != 1 {
		t.Errorf("Expected Ctrl+0 to restore scale 1, got %v", icon.Scale())
	}
	ev, ok := r.obs.lastPosition(icon)
	if !ok || ev.scale != 1 {
		t.Errorf("Expected the reset to be reported")
	}
}

func TestStretch_SelectionChangeEndsStretch(t *testing.T) {
	r, icon := newStretchRig(t)
	r.c.ShowStretchHandles()

	r.c.UnselectAll()
	if r.c.StretchIcon() != nil {
		t.Errorf("Expected handles to go away with the selection")
	}
	if len(r.obs.ended) != 1 || r.obs.ended[0] != icon {
		t.Errorf("Expected one stretch ended notification, got %d", len(r.obs.ended))
	}
}

func TestStretch_MovingHandlesEndsPrevious(t *testing.T) {
	r, a := newStretchRig(t)
	r.c.ShowStretchHandles()

	b := r.add(t, "b")[0]
	r.sched.Flush()
	// b has no stored position; put it somewhere known.
	r.c.MoveIcon(b, fyne.NewPos(300, 300), 1, false, false)

	if !r.c.BeginStretch(b, fyne.NewPos(301, 301)) {
		t.Fatalf("Expected drag on b's handle to start")
	}
	if len(r.obs.ended) != 1 || r.obs.ended[0] != a {
		t.Errorf("Expected handles on a to end")
	}
	if r.c.StretchIcon() != b {
		t.Errorf("Expected handles on b")
	}
}

func TestStretch_Unstretch(t *testing.T) {
	r, icon := newStretchRig(t)
	r.c.MoveIcon(icon, icon.Position(), 2, false, true)
	if !r.c.IsStretched() {
		t.Fatalf("Expected a stretched icon")
	}
	r.c.Unstretch()
	if r.c.IsStretched() || icon.Scale() != 1 {
		t.Errorf("Expected scale 1 after unstretch, got %v", icon.Scale())
	}
}
