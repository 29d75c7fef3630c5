package iconcontainer

import (
	"time"

	"fyne.io/fyne/v2"
	"github.com/charmbracelet/log"
)

// Container owns a set of icons and decides where they sit. All methods must
// be called from the goroutine that runs the Scheduler's callbacks.
type Container struct {
	geometry   GeometryProvider
	viewport   Viewport
	observer   Observer
	store      PositionStore
	comparator Comparator
	activator  Activator
	scheduler  Scheduler
	logger     *log.Logger
	metrics    Metrics

	icons *registry

	autoLayout          bool
	layoutMode          LayoutMode
	labelPosition       LabelPosition
	keepAligned         bool
	tighterLayout       bool
	allColumnsSameWidth bool
	desktop             bool
	needsResort         bool

	allocated    bool
	cancelLayout func()
	cancelAlign  func()
	inLayout     bool
	layoutAgain  bool
	deferred     []func()

	focus                   *Icon
	rangeBase               *Icon
	keyboardRubberbandStart *Icon
	pendingReveal           *Icon
	keyboardReveal          *Icon
	cancelReveal            func()

	band    rubberband
	stretch stretchState
	clicks  clickTracker
	press   pressState
}

func NewContainer(g GeometryProvider, v Viewport) *Container {
	return &Container{
		geometry:   g,
		viewport:   v,
		observer:   BaseObserver{},
		comparator: DefaultComparator,
		scheduler:  FyneScheduler{},
		logger:     log.Default(),
		metrics:    DefaultMetrics(),
		icons:      newRegistry(),
		autoLayout: true,
	}
}

func (c *Container) SetObserver(o Observer) {
	if o == nil {
		o = BaseObserver{}
	}
	c.observer = o
}

func (c *Container) SetPositionStore(s PositionStore) {
	c.store = s
}

func (c *Container) SetComparator(cmp Comparator) {
	if cmp == nil {
		cmp = DefaultComparator
	}
	c.comparator = cmp
	c.RequestResort()
}

func (c *Container) SetActivator(a Activator) {
	c.activator = a
}

// SetScheduler replaces the scheduler. Work queued on the old one is
// cancelled.
func (c *Container) SetScheduler(s Scheduler) {
	if s == nil {
		s = FyneScheduler{}
	}
	c.cancelTimers()
	c.scheduler = s
}

func (c *Container) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	c.logger = l
}

func (c *Container) Metrics() Metrics {
	return c.metrics
}

// SetMetrics replaces the metrics. Metrics with a non-positive snap, grid or
// icon size are ignored.
func (c *Container) SetMetrics(m Metrics) {
	if err := m.validate(); err != nil {
		c.logger.Debug("metrics ignored", "err", err)
		return
	}
	c.metrics = m
	c.ScheduleLayout()
}

// ApplyConfig sets the layout state, metrics and log level from cfg.
func (c *Container) ApplyConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	mode, _ := ParseLayoutMode(cfg.LayoutMode)
	label, _ := ParseLabelPosition(cfg.LabelPosition)
	if cfg.LogLevel != "" {
		lvl, _ := log.ParseLevel(cfg.LogLevel)
		c.logger.SetLevel(lvl)
	}

	c.metrics = cfg.Metrics
	c.desktop = cfg.Desktop
	c.tighterLayout = cfg.TighterLayout
	c.allColumnsSameWidth = cfg.AllColumnsSameWidth
	c.SetLabelPosition(label)
	c.SetLayoutMode(mode)
	c.SetAutoLayout(cfg.AutoLayout)
	c.SetKeepAligned(cfg.KeepAligned)
	c.ScheduleLayout()
	return nil
}

// Add registers a new icon for u. It reports false when u is nil or already
// present.
func (c *Container) Add(u fyne.URI) (*Icon, bool) {
	icon, ok := c.icons.add(u)
	if !ok {
		return nil, false
	}
	if c.autoLayout {
		c.needsResort = true
	}
	c.ScheduleLayout()
	return icon, true
}

func (c *Container) Remove(u fyne.URI) bool {
	icon := c.icons.lookup(u)
	if icon == nil {
		return false
	}
	wasSelected := icon.selected
	c.forget(icon)
	c.icons.remove(u)
	if wasSelected {
		c.observer.SelectionChanged()
	}
	c.ScheduleLayout()
	return true
}

// forget drops every reference the container holds to icon.
func (c *Container) forget(icon *Icon) {
	if c.focus == icon {
		c.focus = nil
	}
	if c.rangeBase == icon {
		c.rangeBase = nil
	}
	if c.keyboardRubberbandStart == icon {
		c.keyboardRubberbandStart = nil
	}
	if c.pendingReveal == icon {
		c.pendingReveal = nil
	}
	if c.keyboardReveal == icon {
		c.unscheduleKeyboardReveal()
	}
	if c.stretch.icon == icon {
		c.stretch = stretchState{}
	}
	if c.press.icon == icon {
		c.press = pressState{}
	}
	for i := range c.clicks.icons {
		if c.clicks.icons[i] == icon {
			c.clicks.icons[i] = nil
		}
	}
}

// Clear removes every icon and cancels all pending work, including an
// active rubberband or stretch.
func (c *Container) Clear() {
	c.cancelTimers()
	c.band = rubberband{}
	c.stretch = stretchState{}
	c.press = pressState{}
	c.clicks = clickTracker{}

	hadSelection := c.SelectionCount() > 0
	c.icons.clear()
	c.focus = nil
	c.rangeBase = nil
	c.keyboardRubberbandStart = nil
	c.pendingReveal = nil
	c.deferred = nil
	if hadSelection {
		c.observer.SelectionChanged()
	}
}

func (c *Container) cancelTimers() {
	c.unscheduleLayout()
	c.unscheduleAlign()
	c.unscheduleKeyboardReveal()
	c.cancelRubberbandTick()
}

// Icons returns a copy of the registry in layout order.
func (c *Container) Icons() []*Icon {
	return append([]*Icon(nil), c.icons.icons...)
}

func (c *Container) Lookup(u fyne.URI) *Icon {
	return c.icons.lookup(u)
}

func (c *Container) Len() int {
	return c.icons.len()
}

// Focus returns the icon holding the keyboard focus, if any.
func (c *Container) Focus() *Icon {
	return c.focus
}

// SetAllocated tells the container that the viewport has a real size.
// Layout passes are held back until then.
func (c *Container) SetAllocated(allocated bool) {
	if c.allocated == allocated {
		return
	}
	c.allocated = allocated
	if allocated {
		c.ScheduleLayout()
	} else {
		c.unscheduleLayout()
	}
}

// ScheduleLayout requests a layout pass on the next idle callback. Requests
// made before the pass runs are coalesced.
func (c *Container) ScheduleLayout() {
	if c.cancelLayout != nil || !c.allocated {
		return
	}
	c.cancelLayout = c.scheduler.Idle(func() {
		c.cancelLayout = nil
		c.redoLayout()
	})
}

func (c *Container) unscheduleLayout() {
	if c.cancelLayout != nil {
		c.cancelLayout()
		c.cancelLayout = nil
	}
}

// Relayout runs a layout pass now, dropping any scheduled one.
func (c *Container) Relayout() {
	c.unscheduleLayout()
	c.redoLayout()
}

// RequestResort makes the next automatic layout sort the icons first.
func (c *Container) RequestResort() {
	c.needsResort = true
	c.ScheduleLayout()
}

func (c *Container) resort() {
	sortIcons(c.icons.icons, c.comparator)
}

func (c *Container) redoLayout() {
	if c.inLayout {
		c.layoutAgain = true
		return
	}
	c.inLayout = true
	start := time.Now()

	c.finishAddingNewIcons()

	if c.autoLayout && !c.stretch.dragging {
		if c.needsResort {
			c.resort()
			c.needsResort = false
		}
		c.layoutIcons(c.icons.icons, 0)
	}

	if c.layoutMode.IsRTL() {
		c.applyRTLPositions()
	}

	if c.pendingReveal != nil {
		c.RevealIcon(c.pendingReveal)
	}
	c.UpdateVisibleIcons()

	c.inLayout = false
	c.logger.Debug("layout pass", "icons", c.icons.len(), "auto", c.autoLayout, "elapsed", time.Since(start))

	deferred := c.deferred
	c.deferred = nil
	for _, fn := range deferred {
		fn()
	}

	c.observer.LayoutChanged()

	if c.layoutAgain {
		c.layoutAgain = false
		c.ScheduleLayout()
	}
}

func (c *Container) finishAddingNewIcons() {
	var noPosition, lazy []*Icon
	for _, icon := range c.icons.takePending() {
		if icon.HasLazyPosition {
			c.assignIconPosition(icon)
			lazy = append(lazy, icon)
		} else if !c.assignIconPosition(icon) {
			noPosition = append(noPosition, icon)
		}
	}

	if len(lazy) > 0 && !c.autoLayout {
		c.placeLazyIcons(lazy)
	}

	if len(noPosition) > 0 {
		sortIcons(noPosition, c.comparator)
		if c.desktop {
			c.layoutIcons(noPosition, c.metrics.ContainerPadTop)
		} else {
			c.layoutIcons(noPosition, c.bottom()+c.metrics.IconPadBottom)
		}
	}
}

// assignIconPosition seeds a new icon from the position store. It reports
// false for a manual layout icon that has nowhere to go.
func (c *Container) assignIconPosition(icon *Icon) bool {
	stored := StoredPosition{Scale: 1}
	ok := false
	if c.store != nil {
		stored, ok = c.store.StoredPosition(icon)
	}
	icon.scale = 1
	if ok && stored.Scale > 0 {
		icon.scale = stored.Scale
	}

	if c.autoLayout {
		return true
	}
	if !ok {
		return false
	}
	c.setIconPosition(icon, stored.Pos.X, stored.Pos.Y)
	icon.savedLTRX = icon.x
	return true
}

// bottom is the lowest edge of any placed icon.
func (c *Container) bottom() float32 {
	var bottom float32
	for _, icon := range c.icons.icons {
		if icon.Positioned() {
			bottom = max32(bottom, c.geometry.Bounds(icon, BoundsLayout).Y1)
		}
	}
	return bottom
}

// ReloadPositions moves icons back to their stored positions and flows the
// others below them.
func (c *Container) ReloadPositions() error {
	if c.autoLayout {
		return ErrAutoLayout
	}
	c.reloadPositions()
	return nil
}

func (c *Container) reloadPositions() {
	c.resort()

	var noPosition []*Icon
	var bottom float32
	for _, icon := range c.icons.icons {
		var stored StoredPosition
		ok := false
		if c.store != nil {
			stored, ok = c.store.StoredPosition(icon)
		}
		if !ok {
			noPosition = append(noPosition, icon)
			continue
		}
		c.setIconPosition(icon, stored.Pos.X, stored.Pos.Y)
		icon.savedLTRX = icon.x
		bottom = max32(bottom, c.geometry.Bounds(icon, BoundsLayout).Y1)
	}
	c.layoutIcons(noPosition, bottom+c.metrics.IconPadBottom)
}

// setIconPosition moves an icon, keeping it inside the canvas in desktop
// mode.
func (c *Container) setIconPosition(icon *Icon, x, y float32) {
	if c.desktop {
		m := c.metrics
		ext := c.viewport.Extent()
		entire := c.geometry.Bounds(icon, BoundsEntireItem)
		ir := c.geometry.IconRect(icon)
		heightAbove := ir.Y0 - entire.Y0
		widthLeft := ir.X0 - entire.X0

		minX := m.DesktopPadHorizontal + widthLeft
		maxX := ext.Width - m.DesktopPadHorizontal - entire.Width() + widthLeft
		minY := m.DesktopPadVertical + heightAbove
		maxY := ext.Height - m.DesktopPadVertical - entire.Height() + heightAbove
		x = clampHigh(x, minX, maxX)
		y = clampHigh(y, minY, maxY)
	}
	icon.setPosition(x, y)
}

// clampHigh limits v to [lo, hi]. hi wins when the range is empty.
func clampHigh(v, lo, hi float32) float32 {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}

// MoveIcon places an icon by hand and optionally rescales it. Positions only
// change in manual layout; snap aligns to the grid when keep-aligned is on.
// A call made while a layout pass runs is applied after the pass.
func (c *Container) MoveIcon(icon *Icon, pos fyne.Position, scale float32, snap, updatePosition bool) {
	if !c.icons.contains(icon) || scale <= 0 {
		return
	}
	if c.inLayout {
		c.deferred = append(c.deferred, func() {
			if c.icons.contains(icon) {
				c.moveIcon(icon, pos, scale, snap, updatePosition)
			}
		})
		return
	}
	c.moveIcon(icon, pos, scale, snap, updatePosition)
}

func (c *Container) moveIcon(icon *Icon, pos fyne.Position, scale float32, snap, updatePosition bool) {
	emit := false

	if scale != icon.scale {
		icon.scale = scale
		if updatePosition {
			c.Relayout()
			emit = true
		}
	}

	if !c.autoLayout {
		x, y := pos.X, pos.Y
		if c.keepAligned && snap {
			x, y = c.snapPosition(icon, x, y)
		}
		if x != icon.x || y != icon.y {
			c.setIconPosition(icon, x, y)
			emit = updatePosition
		}
		icon.savedLTRX = icon.x
		if c.layoutMode.IsRTL() {
			icon.savedLTRX = c.mirrorX(icon, icon.x)
		}
	}

	if emit {
		c.observer.IconPositionChanged(icon, fyne.NewPos(icon.savedLTRX, icon.y), scale)
	}
}

func (c *Container) AutoLayout() bool { return c.autoLayout }

// SetAutoLayout switches between flowing icons and placing them by hand.
// Leaving auto layout restores stored positions and reports every position.
func (c *Container) SetAutoLayout(auto bool) {
	if c.autoLayout == auto {
		return
	}
	c.autoLayout = auto
	if !auto {
		c.reloadPositions()
		c.freezePositions()
	}
	c.needsResort = true
	c.Relayout()
}

func (c *Container) LayoutMode() LayoutMode { return c.layoutMode }

func (c *Container) SetLayoutMode(mode LayoutMode) {
	if mode.IsVertical() && !c.desktop && c.labelPosition != LabelBeside {
		c.logger.Warn("vertical layout needs labels beside icons", "mode", mode)
		c.labelPosition = LabelBeside
	}
	if c.layoutMode == mode {
		return
	}
	c.layoutMode = mode
	c.needsResort = true
	c.ScheduleLayout()
}

func (c *Container) LabelPosition() LabelPosition { return c.labelPosition }

func (c *Container) SetLabelPosition(p LabelPosition) {
	if c.layoutMode.IsVertical() && !c.desktop && p != LabelBeside {
		c.logger.Warn("vertical layout needs labels beside icons", "label", p)
		p = LabelBeside
	}
	if c.labelPosition == p {
		return
	}
	c.labelPosition = p
	c.ScheduleLayout()
}

func (c *Container) KeepAligned() bool { return c.keepAligned }

func (c *Container) SetKeepAligned(keep bool) {
	if c.keepAligned == keep {
		return
	}
	c.keepAligned = keep
	if keep && !c.autoLayout {
		c.scheduleAlign()
	} else {
		c.unscheduleAlign()
	}
	c.ScheduleLayout()
}

func (c *Container) TighterLayout() bool { return c.tighterLayout }

func (c *Container) SetTighterLayout(tighter bool) {
	if c.tighterLayout == tighter {
		return
	}
	c.tighterLayout = tighter
	c.ScheduleLayout()
}

func (c *Container) SetAllColumnsSameWidth(same bool) {
	if c.allColumnsSameWidth == same {
		return
	}
	c.allColumnsSameWidth = same
	c.ScheduleLayout()
}

func (c *Container) Desktop() bool { return c.desktop }

// SetDesktop turns on the fixed canvas mode used for a desktop background:
// icons are packed in columns, kept inside the canvas and then frozen.
func (c *Container) SetDesktop(desktop bool) {
	if c.desktop == desktop {
		return
	}
	c.desktop = desktop
	c.ScheduleLayout()
}

// RevealIcon scrolls the least distance that shows the icon. An icon that
// has not been placed yet is revealed after the next layout pass.
func (c *Container) RevealIcon(icon *Icon) {
	if !c.icons.contains(icon) {
		return
	}
	if !icon.Positioned() {
		c.pendingReveal = icon
		return
	}
	c.pendingReveal = nil

	var b Rect
	if c.autoLayout {
		b = c.rowAndColumnBounds(icon)
	} else {
		b = c.paddedBounds(icon)
	}

	off := c.viewport.ScrollOffset()
	ext := c.viewport.Extent()
	var dx, dy float32
	if b.Y0 < off.Y {
		dy = b.Y0 - off.Y
	} else if b.Y1 > off.Y+ext.Height {
		dy = b.Y1 - ext.Height - off.Y
	}
	if b.X0 < off.X {
		dx = b.X0 - off.X
	} else if b.X1 > off.X+ext.Width {
		dx = b.X1 - ext.Width - off.X
	}
	if dx != 0 || dy != 0 {
		c.viewport.ScrollBy(dx, dy)
	}
}

func (c *Container) paddedBounds(icon *Icon) Rect {
	m := c.metrics
	return c.geometry.Bounds(icon, BoundsDisplay).Expand(m.IconPadLeft+m.IconPadRight, m.IconPadTop+m.IconPadBottom)
}

// rowAndColumnBounds widens the padded bounds of icon to every icon that
// shares its row or column.
func (c *Container) rowAndColumnBounds(icon *Icon) Rect {
	nav := &navigation{c: c}
	b := c.paddedBounds(icon)
	for _, other := range c.icons.icons {
		if other == icon || !other.Positioned() {
			continue
		}
		if nav.compareHorizontal(icon, other) == 0 {
			ob := c.paddedBounds(other)
			b.X0 = min32(b.X0, ob.X0)
			b.X1 = max32(b.X1, ob.X1)
		}
		if nav.compareVertical(icon, other) == 0 {
			ob := c.paddedBounds(other)
			b.Y0 = min32(b.Y0, ob.Y0)
			b.Y1 = max32(b.Y1, ob.Y1)
		}
	}
	return b
}

func (c *Container) scheduleKeyboardReveal(icon *Icon) {
	c.unscheduleKeyboardReveal()
	c.keyboardReveal = icon
	c.cancelReveal = c.scheduler.AfterFunc(keyboardRevealDelay, func() {
		c.cancelReveal = nil
		icon := c.keyboardReveal
		c.keyboardReveal = nil
		if icon == nil || !c.icons.contains(icon) {
			return
		}
		if icon == c.focus || icon.selected {
			c.RevealIcon(icon)
		}
	})
}

func (c *Container) unscheduleKeyboardReveal() {
	if c.cancelReveal != nil {
		c.cancelReveal()
		c.cancelReveal = nil
	}
	c.keyboardReveal = nil
}

// UpdateVisibleIcons recomputes which icons overlap the viewport along the
// scrolling axis.
func (c *Container) UpdateVisibleIcons() {
	off := c.viewport.ScrollOffset()
	ext := c.viewport.Extent()
	vertical := c.layoutMode.IsVertical()

	for i := len(c.icons.icons) - 1; i >= 0; i-- {
		icon := c.icons.icons[i]
		if !icon.Positioned() {
			continue
		}
		b := c.geometry.Bounds(icon, BoundsDisplay)
		if vertical {
			icon.visible = b.X1 >= off.X && b.X0 <= off.X+ext.Width
		} else {
			icon.visible = b.Y1 >= off.Y && b.Y0 <= off.Y+ext.Height
		}
	}
}

// ContentBounds is the union of the layout bounds of all placed icons.
func (c *Container) ContentBounds() Rect {
	var r Rect
	first := true
	for _, icon := range c.icons.icons {
		if !icon.Positioned() {
			continue
		}
		b := c.geometry.Bounds(icon, BoundsLayout)
		if first {
			r = b
			first = false
			continue
		}
		r = r.Union(b)
	}
	return r
}
