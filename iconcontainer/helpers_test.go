package iconcontainer

import (
	"io"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"github.com/charmbracelet/log"
)

type dims struct {
	iconW, iconH float32
	textW, textH float32
}

// fakeGeometry sizes icons from a table. The image sits at the icon
// position, scaled by the icon scale, with the label below or beside it.
type fakeGeometry struct {
	c     *Container
	def   dims
	sizes map[string]dims
}

func (g *fakeGeometry) dims(icon *Icon) dims {
	if d, ok := g.sizes[icon.key()]; ok {
		return d
	}
	return g.def
}

func (g *fakeGeometry) IconRect(icon *Icon) Rect {
	d := g.dims(icon)
	return Rect{X0: icon.x, Y0: icon.y, X1: icon.x + d.iconW*icon.scale, Y1: icon.y + d.iconH*icon.scale}
}

func (g *fakeGeometry) TextRect(icon *Icon, _ bool) Rect {
	d := g.dims(icon)
	if d.textW == 0 || d.textH == 0 {
		return Rect{}
	}
	ir := g.IconRect(icon)
	if g.c != nil && g.c.labelPosition == LabelBeside {
		return Rect{X0: ir.X1, Y0: ir.Y0, X1: ir.X1 + d.textW, Y1: ir.Y0 + d.textH}
	}
	x := ir.X0 + ir.Width()/2 - d.textW/2
	return Rect{X0: x, Y0: ir.Y1, X1: x + d.textW, Y1: ir.Y1 + d.textH}
}

func (g *fakeGeometry) Bounds(icon *Icon, _ BoundsUsage) Rect {
	r := g.IconRect(icon)
	if tr := g.TextRect(icon, false); !tr.IsEmpty() {
		r = r.Union(tr)
	}
	return r
}

type fakeViewport struct {
	size   fyne.Size
	offset fyne.Position
}

func (v *fakeViewport) Extent() fyne.Size           { return v.size }
func (v *fakeViewport) ScrollOffset() fyne.Position { return v.offset }

func (v *fakeViewport) ScrollBy(dx, dy float32) bool {
	next := fyne.NewPos(max32(0, v.offset.X+dx), max32(0, v.offset.Y+dy))
	if next == v.offset {
		return false
	}
	v.offset = next
	return true
}

type positionEvent struct {
	icon  *Icon
	pos   fyne.Position
	scale float32
}

type recordingObserver struct {
	selections int
	positions  []positionEvent
	started    []*Icon
	ended      []*Icon
	layouts    int
}

func (o *recordingObserver) SelectionChanged() { o.selections++ }

func (o *recordingObserver) IconPositionChanged(icon *Icon, pos fyne.Position, scale float32) {
	o.positions = append(o.positions, positionEvent{icon: icon, pos: pos, scale: scale})
}

func (o *recordingObserver) IconStretchStarted(icon *Icon) { o.started = append(o.started, icon) }
func (o *recordingObserver) IconStretchEnded(icon *Icon)   { o.ended = append(o.ended, icon) }
func (o *recordingObserver) LayoutChanged()                { o.layouts++ }

func (o *recordingObserver) lastPosition(icon *Icon) (positionEvent, bool) {
	for i := len(o.positions) - 1; i >= 0; i-- {
		if o.positions[i].icon == icon {
			return o.positions[i], true
		}
	}
	return positionEvent{}, false
}

type fakeActivator struct {
	calls     [][]*Icon
	alternate []bool
}

func (a *fakeActivator) ActivateIcons(icons []*Icon, alternate bool) {
	a.calls = append(a.calls, icons)
	a.alternate = append(a.alternate, alternate)
}

type fakeStore map[string]StoredPosition

func (s fakeStore) StoredPosition(icon *Icon) (StoredPosition, bool) {
	p, ok := s[icon.key()]
	return p, ok
}

type testRig struct {
	c     *Container
	geom  *fakeGeometry
	vp    *fakeViewport
	obs   *recordingObserver
	sched *ManualScheduler
}

func newTestRig(w, h float32, def dims) *testRig {
	geom := &fakeGeometry{def: def, sizes: map[string]dims{}}
	vp := &fakeViewport{size: fyne.NewSize(w, h)}
	c := NewContainer(geom, vp)
	geom.c = c
	obs := &recordingObserver{}
	sched := NewManualScheduler()
	c.SetObserver(obs)
	c.SetScheduler(sched)
	c.SetLogger(log.New(io.Discard))
	c.SetAllocated(true)
	return &testRig{c: c, geom: geom, vp: vp, obs: obs, sched: sched}
}

func testURI(name string) fyne.URI {
	return storage.NewFileURI("/tmp/icons/" + name)
}

func (r *testRig) add(t *testing.T, names ...string) []*Icon {
	t.Helper()
	icons := make([]*Icon, 0, len(names))
	for _, name := range names {
		icon, ok := r.c.Add(testURI(name))
		if !ok {
			t.Fatalf("Add(%s) failed", name)
		}
		icons = append(icons, icon)
	}
	return icons
}

func selectedNames(c *Container) []string {
	var names []string
	for _, icon := range c.Selected() {
		names = append(names, icon.URI.Name())
	}
	return names
}

func assertPos(t *testing.T, icon *Icon, x, y float32) {
	t.Helper()
	if icon.x != x || icon.y != y {
		t.Errorf("Expected %s at (%v, %v), got (%v, %v)", icon.URI.Name(), x, y, icon.x, icon.y)
	}
}

func assertSelected(t *testing.T, c *Container, want ...string) {
	t.Helper()
	got := selectedNames(c)
	if len(got) != len(want) {
		t.Fatalf("Expected selection %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected selection %v, got %v", want, got)
		}
	}
}
