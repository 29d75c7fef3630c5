package iconcontainer

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
)

func TestKeyboard_CtrlMovesFocusOnly(t *testing.T) {
	r, icons := newGridRig(t)
	r.c.SetSelection([]fyne.URI{icons["a"].URI})

	r.c.KeyPressed(fyne.KeyRight, fyne.KeyModifierControl)
	assertSelected(t, r.c, "a")
	if r.c.Focus() != icons["b"] {
		t.Fatalf("Expected focus on b, got %v", r.c.Focus())
	}

	r.c.KeyPressed(fyne.KeySpace, fyne.KeyModifierControl)
	assertSelected(t, r.c, "a", "b")

	r.c.KeyPressed(fyne.KeySpace, fyne.KeyModifierControl)
	assertSelected(t, r.c, "a")
}

func TestKeyboard_ShortcutDefaultCountsAsCtrl(t *testing.T) {
	r, icons := newGridRig(t)
	r.c.SetSelection([]fyne.URI{icons["a"].URI})

	r.c.KeyPressed(fyne.KeyRight, fyne.KeyModifierShortcutDefault)
	if r.c.Focus() != icons["b"] {
		t.Errorf("Expected focus on b")
	}
	assertSelected(t, r.c, "a")
}

func TestKeyboard_ShiftExtendsRange(t *testing.T) {
	r, _ := newGridRig(t)
	r.c.KeyPressed(fyne.KeyHome, 0)
	assertSelected(t, r.c, "a")

	r.c.KeyPressed(fyne.KeyRight, fyne.KeyModifierShift)
	assertSelected(t, r.c, "a", "b")
	r.c.KeyPressed(fyne.KeyRight, fyne.KeyModifierShift)
	assertSelected(t, r.c, "a", "b", "c")
	r.c.KeyPressed(fyne.KeyLeft, fyne.KeyModifierShift)
	assertSelected(t, r.c, "a", "b")
}

func TestKeyboard_CtrlShiftSelectsRectangle(t *testing.T) {
	r, _ := newGridRig(t)
	r.c.KeyPressed(fyne.KeyHome, 0)

	mods := fyne.KeyModifierControl | fyne.KeyModifierShift
	r.c.KeyPressed(fyne.KeyRight, mods)
	assertSelected(t, r.c, "a", "b")

	r.c.KeyPressed(fyne.KeyDown, mods)
	assertSelected(t, r.c, "a", "b", "d", "e")

	r.c.KeyPressed(fyne.KeyUp, mods)
	assertSelected(t, r.c, "a", "b")
}

func TestKeyboard_ManualShiftSelectsRectangle(t *testing.T) {
	r, icons := newGridRig(t)
	r.c.SetAutoLayout(false)
	r.c.SetSelection([]fyne.URI{icons["a"].URI})

	r.c.KeyPressed(fyne.KeyDown, fyne.KeyModifierShift)
	assertSelected(t, r.c, "a", "d")
}

func TestKeyboard_SelectAll(t *testing.T) {
	r, _ := newGridRig(t)
	if !r.c.KeyPressed(fyne.KeyA, fyne.KeyModifierControl) {
		t.Fatalf("Expected Ctrl+A to be consumed")
	}
	assertSelected(t, r.c, "a", "b", "c", "d", "e")

	if r.c.KeyPressed(fyne.KeyA, fyne.KeyModifierControl|fyne.KeyModifierShift) {
		t.Errorf("Expected Ctrl+Shift+A to be ignored")
	}
	if r.c.KeyPressed(fyne.KeyA, 0) {
		t.Errorf("Expected a plain A to be ignored")
	}
}

func TestKeyboard_TabCycles(t *testing.T) {
	r, _ := newGridRig(t)

	r.c.KeyPressed(fyne.KeyTab, 0)
	assertSelected(t, r.c, "a")
	r.c.KeyPressed(fyne.KeyTab, 0)
	assertSelected(t, r.c, "b")
	r.c.KeyPressed(fyne.KeyTab, fyne.KeyModifierShift)
	assertSelected(t, r.c, "a")
	r.c.KeyPressed(fyne.KeyTab, fyne.KeyModifierShift)
	assertSelected(t, r.c, "e")
	r.c.KeyPressed(fyne.KeyTab, 0)
	assertSelected(t, r.c, "a")
}

func TestKeyboard_ActivateSelection(t *testing.T) {
	r, icons := newGridRig(t)
	act := &fakeActivator{}
	r.c.SetActivator(act)

	r.c.KeyPressed(fyne.KeyReturn, 0)
	if len(act.calls) != 0 {
		t.Fatalf("Expected nothing to activate without a selection")
	}

	r.c.SetSelection([]fyne.URI{icons["b"].URI, icons["d"].URI})
	r.c.KeyPressed(fyne.KeyReturn, 0)
	r.c.KeyPressed(fyne.KeyEnter, fyne.KeyModifierShift)
	r.c.KeyPressed(fyne.KeySpace, 0)

	if len(act.calls) != 3 {
		t.Fatalf("Expected 3 activations, got %d", len(act.calls))
	}
	if len(act.calls[0]) != 2 || act.calls[0][0] != icons["b"] || act.calls[0][1] != icons["d"] {
		t.Errorf("Expected b and d to be activated, got %v", act.calls[0])
	}
	want := []bool{false, true, false}
	for i := range want {
		if act.alternate[i] != want[i] {
			t.Errorf("Expected activation %d alternate=%v, got %v", i, want[i], act.alternate[i])
		}
	}
}

func TestKeyboard_SpaceSelectsFocus(t *testing.T) {
	r, icons := newGridRig(t)
	r.c.SetSelection([]fyne.URI{icons["a"].URI})
	r.c.KeyPressed(fyne.KeyRight, fyne.KeyModifierControl)
	r.c.UnselectAll()

	r.c.KeyPressed(fyne.KeySpace, 0)
	assertSelected(t, r.c, "b")
}

func TestKeyboard_IgnoredKeys(t *testing.T) {
	r, icons := newGridRig(t)
	r.c.SetSelection([]fyne.URI{icons["a"].URI})

	if r.c.KeyPressed(fyne.KeyRight, fyne.KeyModifierAlt) {
		t.Errorf("Expected Alt+Right to be ignored")
	}
	assertSelected(t, r.c, "a")
	if r.c.KeyPressed(fyne.KeyEscape, 0) {
		t.Errorf("Expected Escape to be ignored with nothing to cancel")
	}
	if r.c.KeyPressed(fyne.KeyEqual, 0) {
		t.Errorf("Expected = without Ctrl to be ignored")
	}
}

func TestKeyboard_RevealScrollsToTarget(t *testing.T) {
	r := newTestRig(300, 100, dims{iconW: 100, iconH: 50})
	r.add(t, "a", "b", "c", "d", "e", "f", "g", "h", "i", "j")
	r.sched.Flush()

	r.c.KeyPressed(fyne.KeyEnd, 0)
	assertSelected(t, r.c, "j")
	r.sched.Advance(keyboardRevealDelay)

	if r.vp.offset != fyne.NewPos(0, 198) {
		t.Fatalf("Expected scroll offset (0, 198), got %v", r.vp.offset)
	}

	r.c.UpdateVisibleIcons()
	var visible []string
	for _, icon := range r.c.Icons() {
		if icon.Visible() {
			visible = append(visible, icon.URI.Name())
		}
	}
	want := []string{"g", "h", "i", "j"}
	if len(visible) != len(want) {
		t.Fatalf("Expected visible %v, got %v", want, visible)
	}
	for i := range want {
		if visible[i] != want[i] {
			t.Errorf("Expected visible %v, got %v", want, visible)
		}
	}
}

func TestKeyboard_RevealFollowsLatestMove(t *testing.T) {
	r := newTestRig(300, 100, dims{iconW: 100, iconH: 50})
	r.add(t, "a", "b", "c", "d", "e", "f", "g", "h", "i", "j")
	r.sched.Flush()

	r.c.KeyPressed(fyne.KeyEnd, fyne.KeyModifierControl)
	r.sched.Advance(5 * time.Millisecond)
	r.c.KeyPressed(fyne.KeyHome, fyne.KeyModifierControl)
	r.sched.Advance(time.Second)

	if r.vp.offset.Y != 0 {
		t.Errorf("Expected only the last move to be revealed, got offset %v", r.vp.offset)
	}
	if r.c.Focus() == nil || r.c.Focus().URI.Name() != "a" {
		t.Errorf("Expected focus on a")
	}
}
