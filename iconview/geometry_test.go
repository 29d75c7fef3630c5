package iconview

import (
	"strings"
	"testing"
	"unicode/utf8"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/alexballas/xiconview/iconcontainer"
)

// runeMeasure makes every rune 7 wide and every line 10 high.
func runeMeasure(text string) fyne.Size {
	return fyne.NewSize(7*float32(utf8.RuneCountInString(text)), 10)
}

func near(a, b float32) bool {
	d := a - b
	return d > -0.01 && d < 0.01
}

func TestEllipsizeName(t *testing.T) {
	measure := func(s string) float32 { return float32(utf8.RuneCountInString(s)) }

	if got := ellipsizeName("short.txt", 20, measure); got != "short.txt" {
		t.Errorf("Expected a fitting name unchanged, got %q", got)
	}
	if got := ellipsizeName("abcdefghijklmnop.txt", 10, measure); got != "abcd...txt" {
		t.Errorf("Expected abcd...txt, got %q", got)
	}
	if got := ellipsizeName("abcdefghijklmnop.txt", 5, measure); got != "...txt" {
		t.Errorf("Expected only the extension to survive, got %q", got)
	}
	if got := ellipsizeName("abcdefghijklmnop", 6, measure); got != "abcd.." {
		t.Errorf("Expected abcd.., got %q", got)
	}
}

func TestGeometry_LabelBelow(t *testing.T) {
	v, _ := newTestView(t, "notes.txt")
	v.geometry.measure = runeMeasure
	icon := v.Icons().Icons()[0]

	ir := v.geometry.IconRect(icon)
	if ir.Width() != 64 || ir.Height() != 64 {
		t.Errorf("Expected a 64 square image, got %v", ir.Size())
	}
	tr := v.geometry.TextRect(icon, false)
	if tr.Y0 != ir.Y1+labelGap {
		t.Errorf("Expected the label just below the image, got %v under %v", tr, ir)
	}
	if !near(tr.Center().X, ir.Center().X) {
		t.Errorf("Expected the label centered under the image, got %v and %v", tr.Center(), ir.Center())
	}
	pad := theme.InnerPadding()
	if tr.Height() != 10+2*pad {
		t.Errorf("Expected one line of label, got height %v", tr.Height())
	}

	b := v.geometry.Bounds(icon, iconcontainer.BoundsDisplay)
	if b != ir.Union(tr) {
		t.Errorf("Expected bounds %v, got %v", ir.Union(tr), b)
	}
}

func TestGeometry_LabelBeside(t *testing.T) {
	v, sched := newTestView(t, "notes.txt")
	cfg := iconcontainer.DefaultConfig()
	cfg.LayoutMode = "tb-lr"
	if err := v.ApplyConfig(cfg); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	sched.Flush()
	v.geometry.measure = runeMeasure
	icon := v.Icons().Icons()[0]

	ir := v.geometry.IconRect(icon)
	tr := v.geometry.TextRect(icon, false)
	if tr.X0 != ir.X1+labelGap {
		t.Errorf("Expected the label right of the image, got %v beside %v", tr, ir)
	}
	if !near(tr.Center().Y, ir.Center().Y) {
		t.Errorf("Expected the label centered beside the image, got %v and %v", tr.Center(), ir.Center())
	}
}

func TestGeometry_WholeTextAddsLines(t *testing.T) {
	v, _ := newTestView(t, strings.Repeat("long name ", 20)+".txt")
	v.geometry.measure = runeMeasure
	icon := v.Icons().Icons()[0]
	pad := theme.InnerPadding()

	short := v.geometry.TextRect(icon, false)
	if short.Height() != labelLines*10+2*pad {
		t.Errorf("Expected %d lines, got height %v", labelLines, short.Height())
	}
	whole := v.geometry.TextRect(icon, true)
	if whole.Height() != wholeLabelLines*10+2*pad {
		t.Errorf("Expected %d lines, got height %v", wholeLabelLines, whole.Height())
	}
	if got := v.geometry.Bounds(icon, iconcontainer.BoundsEntireItem); got.Y1 != whole.Y1 {
		t.Errorf("Expected entire bounds to cover the whole label, got %v", got)
	}
}

func TestGeometry_ScaleHasFloor(t *testing.T) {
	v, sched := newTestView(t, "a.png")
	icon := v.Icons().Icons()[0]

	v.Icons().MoveIcon(icon, icon.Position(), 0.01, false, false)
	sched.Flush()
	if got := v.geometry.IconRect(icon).Width(); got != v.Icons().Metrics().SmallestIconSize {
		t.Errorf("Expected the smallest icon size, got %v", got)
	}
}
