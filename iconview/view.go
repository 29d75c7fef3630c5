// Package iconview shows a folder, or any set of URIs, as freely placed
// icons. Placement, navigation and selection are delegated to an
// iconcontainer.Container; this package draws the icons and feeds it fyne
// events.
package iconview

import (
	"fmt"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/alexballas/xiconview/iconcontainer"
)

const saveDelay = 500 * time.Millisecond

// View is a scrollable icon view widget.
type View struct {
	widget.BaseWidget

	// OnActivated replaces the default activation when set. By default a
	// single folder opens in place and anything else goes to the desktop's
	// handler.
	OnActivated        func(uris []fyne.URI, alternate bool)
	OnSelectionChanged func(uris []fyne.URI)
	OnLocationChanged  func(dir fyne.ListableURI)

	icons     *iconcontainer.Container
	geometry  *geometry
	scheduler *refreshScheduler
	store     *PositionStore
	thumbs    *ThumbnailManager
	watcher   *dirWatcher

	scroll  *container.Scroll
	layer   *fyne.Container
	bg      *background
	marquee *marquee
	zoom    *zoomOverlay

	items map[*iconcontainer.Icon]*iconItem
	order []*iconItem

	cfg          iconcontainer.Config
	baseIconSize float32
	zoomLevel    int
	dir          fyne.ListableURI
	showHidden   bool
	size         fyne.Size

	cancelSave  func()
	drag        itemDrag
	lastPointer fyne.Position
	activeMenu  *widget.PopUp
}

// NewView returns an empty view using the default configuration.
func NewView() *View {
	v := &View{
		items:     map[*iconcontainer.Icon]*iconItem{},
		cfg:       iconcontainer.DefaultConfig(),
		zoomLevel: defaultZoomLevel,
	}
	v.baseIconSize = v.cfg.Metrics.IconSize
	v.geometry = newGeometry(v)
	v.bg = newBackground(v)
	v.marquee = newMarquee()
	v.layer = container.New(&canvasLayout{v: v}, v.bg)
	v.scroll = container.NewScroll(v.layer)
	v.scroll.OnScrolled = func(fyne.Position) { v.scrolled() }
	v.zoom = newZoomOverlay(v.adjustZoom)

	v.icons = iconcontainer.NewContainer(v.geometry, &scrollViewport{scroll: v.scroll, onScroll: v.scrolled})
	v.scheduler = &refreshScheduler{inner: iconcontainer.FyneScheduler{}, after: v.syncOverlays}
	v.icons.SetScheduler(v.scheduler)
	obs := &viewObserver{v: v}
	v.icons.SetObserver(obs)
	v.icons.SetActivator(obs)
	v.rebuildLayer()

	v.ExtendBaseWidget(v)
	return v
}

// Icons gives access to the container for selection and layout control.
func (v *View) Icons() *iconcontainer.Container {
	return v.icons
}

// SetScheduler runs the container's deferred work on s instead of the fyne
// goroutine.
func (v *View) SetScheduler(s iconcontainer.Scheduler) {
	if s == nil {
		s = iconcontainer.FyneScheduler{}
	}
	v.scheduler.inner = s
	v.icons.SetScheduler(v.scheduler)
}

// SetPositionStore persists manual placements in s. A nil store disables
// persistence.
func (v *View) SetPositionStore(s *PositionStore) {
	v.store = s
	if s == nil {
		v.icons.SetPositionStore(nil)
		return
	}
	v.icons.SetPositionStore(s)
}

// SetThumbnailManager enables image thumbnails.
func (v *View) SetThumbnailManager(m *ThumbnailManager) {
	v.thumbs = m
	v.requestThumbnails()
}

// ApplyConfig configures the view and its container from cfg.
func (v *View) ApplyConfig(cfg iconcontainer.Config) error {
	if err := v.icons.ApplyConfig(cfg); err != nil {
		return err
	}
	v.cfg = cfg
	v.baseIconSize = cfg.Metrics.IconSize
	v.zoomLevel = clampZoomLevel(cfg.ZoomLevel)
	v.applyZoom()
	return nil
}

// Config returns the current settings in the form ApplyConfig takes.
func (v *View) Config() iconcontainer.Config {
	cfg := v.cfg
	cfg.LayoutMode = v.icons.LayoutMode().String()
	cfg.LabelPosition = v.icons.LabelPosition().String()
	cfg.AutoLayout = v.icons.AutoLayout()
	cfg.KeepAligned = v.icons.KeepAligned()
	cfg.TighterLayout = v.icons.TighterLayout()
	cfg.Desktop = v.icons.Desktop()
	cfg.ZoomLevel = v.zoomLevel
	cfg.Metrics = v.icons.Metrics()
	cfg.Metrics.IconSize = v.baseIconSize
	return cfg
}

func (v *View) savePreferences() {
	if app := fyne.CurrentApp(); app != nil {
		iconcontainer.SavePreferences(app.Preferences(), v.Config())
	}
}

func (v *View) ZoomLevel() int {
	return v.zoomLevel
}

// SetZoomLevel picks one of the zoom steps, clamping out of range levels.
func (v *View) SetZoomLevel(level int) {
	level = clampZoomLevel(level)
	if level == v.zoomLevel {
		return
	}
	v.zoomLevel = level
	v.applyZoom()
	v.savePreferences()
}

func (v *View) adjustZoom(steps int) {
	if steps != 0 {
		v.SetZoomLevel(v.zoomLevel + steps)
	}
}

func (v *View) applyZoom() {
	m := v.icons.Metrics()
	m.IconSize = v.baseIconSize * zoomLevels[v.zoomLevel]
	v.icons.SetMetrics(m)
	for _, item := range v.order {
		item.updateLabel()
	}
}

// Location is the folder shown, or nil when the view shows a plain URI set.
func (v *View) Location() fyne.ListableURI {
	return v.dir
}

// SetLocation shows the contents of dir and starts watching it for
// changes when it is local.
func (v *View) SetLocation(dir fyne.ListableURI) error {
	files, err := dir.List()
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}
	v.stopWatching()
	v.dir = dir

	shown := make([]fyne.URI, 0, len(files))
	for _, f := range files {
		if v.showHidden || !isHidden(f) {
			shown = append(shown, f)
		}
	}
	v.SetURIs(shown)

	if dir.Scheme() == "file" {
		w, err := watchDir(dir, v.addWatched, v.removeWatched)
		if err != nil {
			fyne.LogError("could not watch "+dir.String(), err)
		} else {
			v.watcher = w
		}
	}
	if v.OnLocationChanged != nil {
		v.OnLocationChanged(dir)
	}
	return nil
}

func (v *View) ShowHidden() bool {
	return v.showHidden
}

// SetShowHidden toggles dot files and reloads the current folder.
func (v *View) SetShowHidden(show bool) {
	if v.showHidden == show {
		return
	}
	v.showHidden = show
	if v.dir != nil {
		if err := v.SetLocation(v.dir); err != nil {
			fyne.LogError("could not reload folder", err)
		}
	}
}

// SetURIs replaces the icons with one per URI.
func (v *View) SetURIs(uris []fyne.URI) {
	v.icons.Clear()
	v.items = map[*iconcontainer.Icon]*iconItem{}
	for _, u := range uris {
		v.icons.Add(u)
	}
	v.syncItems()
}

// Add shows one more icon. It reports false when u is already shown.
func (v *View) Add(u fyne.URI) bool {
	if _, ok := v.icons.Add(u); !ok {
		return false
	}
	v.syncItems()
	return true
}

func (v *View) Remove(u fyne.URI) bool {
	if !v.icons.Remove(u) {
		return false
	}
	v.syncItems()
	return true
}

func (v *View) addWatched(u fyne.URI) {
	if v.showHidden || !isHidden(u) {
		v.Add(u)
	}
}

// removeWatched drops an icon whose file went away, along with its stored
// placement.
func (v *View) removeWatched(u fyne.URI) {
	v.Remove(u)
	if v.store == nil {
		return
	}
	v.store.Forget(u)
	v.scheduleSave()
}

func (v *View) stopWatching() {
	if v.watcher == nil {
		return
	}
	if err := v.watcher.Close(); err != nil {
		fyne.LogError("could not stop watching", err)
	}
	v.watcher = nil
}

// Selected returns the URIs of the selected icons in container order.
func (v *View) Selected() []fyne.URI {
	sel := v.icons.Selected()
	uris := make([]fyne.URI, len(sel))
	for i, icon := range sel {
		uris[i] = icon.URI
	}
	return uris
}

func (v *View) labelText(icon *iconcontainer.Icon) string {
	return icon.URI.Name()
}

// syncItems creates widgets for new icons and drops those of removed ones.
func (v *View) syncItems() {
	icons := v.icons.Icons()
	live := make(map[*iconcontainer.Icon]*iconItem, len(icons))
	for _, icon := range icons {
		item, ok := v.items[icon]
		if !ok {
			item = newIconItem(v, icon)
			item.setSelected(icon.Selected())
		}
		live[icon] = item
	}
	v.items = live
	v.rebuildLayer()
}

func (v *View) rebuildLayer() {
	icons := v.icons.Icons()
	v.order = v.order[:0]
	objs := make([]fyne.CanvasObject, 0, len(icons)+6)
	objs = append(objs, v.bg)
	for _, icon := range icons {
		item := v.items[icon]
		v.order = append(v.order, item)
		objs = append(objs, item)
	}
	objs = append(objs, v.marquee.objects()...)
	v.layer.Objects = objs
	v.refreshCanvas()
}

// refreshCanvas resizes the scrolled canvas to the icons and moves every
// item widget to its icon.
func (v *View) refreshCanvas() {
	size := v.layer.MinSize().Max(v.scroll.Size())
	v.layer.Resize(size)
	v.layer.Refresh()
	v.scroll.Refresh()
}

func (v *View) layoutItem(item *iconItem) {
	if !item.icon.Positioned() {
		item.Hide()
		return
	}
	b := v.geometry.Bounds(item.icon, iconcontainer.BoundsDisplay)
	pos := b.Min()
	if v.drag.moving && item.icon.Selected() {
		pos = pos.Add(v.drag.delta)
	}
	item.Move(pos)
	item.Resize(b.Size())
	item.Show()
}

// syncOverlays follows the band rectangle and the stretch handles. It runs
// after every scheduled callback of the container.
func (v *View) syncOverlays() {
	v.marquee.setBand(v.icons.RubberbandRect())

	icon := v.icons.StretchIcon()
	if icon == nil || !icon.Positioned() {
		v.marquee.setHandles(iconcontainer.Rect{}, 0, false)
		return
	}
	if item, ok := v.items[icon]; ok {
		v.layoutItem(item)
		item.Refresh()
	}
	v.marquee.setHandles(v.geometry.IconRect(icon), v.icons.Metrics().HandleSize, true)
}

func (v *View) scrolled() {
	v.icons.UpdateVisibleIcons()
	v.requestThumbnails()
}

func (v *View) requestThumbnails() {
	if v.thumbs == nil {
		return
	}
	for _, item := range v.order {
		item.requestThumbnail(v.thumbs)
	}
}

func (v *View) selectionChanged() {
	for icon, item := range v.items {
		item.setSelected(icon.Selected())
	}
	if v.OnSelectionChanged != nil {
		v.OnSelectionChanged(v.Selected())
	}
}

func (v *View) layoutChanged() {
	for _, item := range v.order {
		if item.wholeText != item.icon.ShowsWholeText() {
			item.updateLabel()
		}
	}
	v.refreshCanvas()
	v.scrolled()
}

func (v *View) positionChanged(icon *iconcontainer.Icon, pos fyne.Position, scale float32) {
	if v.store == nil {
		return
	}
	v.store.Set(icon.URI, pos, scale)
	v.scheduleSave()
}

func (v *View) scheduleSave() {
	if v.cancelSave != nil {
		v.cancelSave()
	}
	v.cancelSave = v.scheduler.inner.AfterFunc(saveDelay, func() {
		v.cancelSave = nil
		v.savePositions()
	})
}

func (v *View) savePositions() {
	if v.store == nil {
		return
	}
	if err := v.store.Save(); err != nil {
		fyne.LogError("could not save icon positions", err)
	}
}

func (v *View) activate(icons []*iconcontainer.Icon, alternate bool) {
	uris := make([]fyne.URI, len(icons))
	for i, icon := range icons {
		uris[i] = icon.URI
	}
	if v.OnActivated != nil {
		v.OnActivated(uris, alternate)
		return
	}

	if len(uris) == 1 && !alternate {
		if dir, err := storage.ListerForURI(uris[0]); err == nil {
			// Replacing the icons is left until the container is done with
			// the event that activated them.
			v.scheduler.inner.Idle(func() {
				if err := v.SetLocation(dir); err != nil {
					fyne.LogError("could not open folder", err)
				}
			})
			return
		}
	}
	win := v.window()
	for _, u := range uris {
		if err := openURI(win, u, alternate); err != nil {
			fyne.LogError("could not open "+u.Name(), err)
		}
	}
}

func (v *View) currentCanvas() fyne.Canvas {
	app := fyne.CurrentApp()
	if app == nil {
		return nil
	}
	return app.Driver().CanvasForObject(v)
}

func (v *View) window() fyne.Window {
	c := v.currentCanvas()
	if c == nil {
		return nil
	}
	for _, w := range fyne.CurrentApp().Driver().AllWindows() {
		if w.Canvas() == c {
			return w
		}
	}
	return nil
}

func (v *View) CreateRenderer() fyne.WidgetRenderer {
	return &viewRenderer{v: v}
}

type viewRenderer struct {
	v *View
}

func (r *viewRenderer) Layout(size fyne.Size) {
	v := r.v
	v.scroll.Resize(size)
	v.zoom.Resize(size)
	if size == v.size {
		return
	}
	v.size = size
	v.icons.SetAllocated(size.Width > 0 && size.Height > 0)
	v.icons.ScheduleLayout()
	v.refreshCanvas()
}

func (r *viewRenderer) MinSize() fyne.Size {
	return r.v.scroll.MinSize()
}

func (r *viewRenderer) Refresh() {
	r.v.refreshCanvas()
	r.v.syncOverlays()
}

func (r *viewRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.v.scroll, r.v.zoom}
}

func (r *viewRenderer) Destroy() {
	v := r.v
	v.stopWatching()
	if v.cancelSave != nil {
		v.cancelSave()
		v.cancelSave = nil
		v.savePositions()
	}
}

// canvasLayout places each item widget over its icon and sizes the canvas
// to the icons plus the container padding.
type canvasLayout struct {
	v *View
}

func (l *canvasLayout) Layout(_ []fyne.CanvasObject, size fyne.Size) {
	l.v.bg.Move(fyne.NewPos(0, 0))
	l.v.bg.Resize(size)
	for _, item := range l.v.order {
		l.v.layoutItem(item)
	}
}

func (l *canvasLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	b := l.v.icons.ContentBounds()
	if b.IsEmpty() {
		return fyne.NewSize(0, 0)
	}
	m := l.v.icons.Metrics()
	return fyne.NewSize(b.X1+m.ContainerPadRight, b.Y1+m.ContainerPadBottom)
}

// scrollViewport lets the container read and move the scroll position.
type scrollViewport struct {
	scroll   *container.Scroll
	onScroll func()
}

func (p *scrollViewport) Extent() fyne.Size {
	return p.scroll.Size()
}

func (p *scrollViewport) ScrollOffset() fyne.Position {
	return p.scroll.Offset
}

func (p *scrollViewport) ScrollBy(dx, dy float32) bool {
	ext := p.scroll.Size()
	content := p.scroll.Content.Size().Max(p.scroll.Content.MinSize())
	maxX := fyne.Max(0, content.Width-ext.Width)
	maxY := fyne.Max(0, content.Height-ext.Height)

	off := p.scroll.Offset
	next := fyne.NewPos(clampOffset(off.X+dx, maxX), clampOffset(off.Y+dy, maxY))
	if next == off {
		return false
	}
	p.scroll.Offset = next
	p.scroll.Refresh()
	if p.onScroll != nil {
		p.onScroll()
	}
	return true
}

func clampOffset(v, hi float32) float32 {
	if v > hi {
		v = hi
	}
	if v < 0 {
		return 0
	}
	return v
}

// refreshScheduler runs after once each callback of inner has run, so that
// the drawn overlays follow state changed on a timer.
type refreshScheduler struct {
	inner iconcontainer.Scheduler
	after func()
}

func (s *refreshScheduler) Idle(fn func()) func() {
	return s.inner.Idle(s.wrap(fn))
}

func (s *refreshScheduler) AfterFunc(d time.Duration, fn func()) func() {
	return s.inner.AfterFunc(d, s.wrap(fn))
}

func (s *refreshScheduler) wrap(fn func()) func() {
	return func() {
		fn()
		if s.after != nil {
			s.after()
		}
	}
}

// viewObserver connects container notifications to the view.
type viewObserver struct {
	v *View
}

func (o *viewObserver) SelectionChanged() { o.v.selectionChanged() }

func (o *viewObserver) IconPositionChanged(icon *iconcontainer.Icon, pos fyne.Position, scale float32) {
	o.v.positionChanged(icon, pos, scale)
}

func (o *viewObserver) IconStretchStarted(*iconcontainer.Icon) { o.v.syncOverlays() }
func (o *viewObserver) IconStretchEnded(*iconcontainer.Icon)   { o.v.syncOverlays() }
func (o *viewObserver) LayoutChanged()                         { o.v.layoutChanged() }

func (o *viewObserver) ActivateIcons(icons []*iconcontainer.Icon, alternate bool) {
	o.v.activate(icons, alternate)
}

var (
	_ iconcontainer.Observer  = (*viewObserver)(nil)
	_ iconcontainer.Activator = (*viewObserver)(nil)
	_ iconcontainer.Viewport  = (*scrollViewport)(nil)
	_ iconcontainer.Scheduler = (*refreshScheduler)(nil)
)

func isHidden(u fyne.URI) bool {
	if u.Scheme() != "file" {
		return false
	}
	name := filepath.Base(u.Path())
	return name == "" || name[0] == '.'
}
