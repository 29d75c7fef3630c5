package iconcontainer

import (
	"strings"
)

// Predicate reports whether candidate beats best for the navigation in
// progress. best is nil for the first qualifying candidate.
type Predicate func(nav *navigation, start, best, candidate *Icon) bool

// navigation is the state of one arrow key search.
type navigation struct {
	c *Container

	startX, startY float32
	dir            Direction
	bestDist       float32
}

// comparePoint is the bottom centre of the icon image.
func (n *navigation) comparePoint(icon *Icon) (float32, float32) {
	r := n.c.geometry.IconRect(icon)
	return (r.X0 + r.X1) / 2, r.Y1
}

func (n *navigation) findBest(start *Icon, pred Predicate) *Icon {
	var best *Icon
	for _, candidate := range n.c.icons.icons {
		if candidate == start || !candidate.Positioned() {
			continue
		}
		if pred(n, start, best, candidate) {
			best = candidate
		}
	}
	return best
}

func (n *navigation) findBestSelected(start *Icon, pred Predicate) *Icon {
	var best *Icon
	for _, candidate := range n.c.icons.icons {
		if candidate == start || !candidate.selected || !candidate.Positioned() {
			continue
		}
		if pred(n, start, best, candidate) {
			best = candidate
		}
	}
	return best
}

func (n *navigation) recordStart(icon *Icon, dir Direction) {
	n.startX, n.startY = n.comparePoint(icon)
	n.dir = dir
}

func cmp32(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (n *navigation) compareHorizontal(a, b *Icon) int {
	ax, _ := n.comparePoint(a)
	bx, _ := n.comparePoint(b)
	return cmp32(ax, bx)
}

func (n *navigation) compareVertical(a, b *Icon) int {
	_, ay := n.comparePoint(a)
	_, by := n.comparePoint(b)
	return cmp32(ay, by)
}

func (n *navigation) compareHorizontalFirst(a, b *Icon) int {
	ax, ay := n.comparePoint(a)
	bx, by := n.comparePoint(b)
	if c := cmp32(ax, bx); c != 0 {
		return c
	}
	if c := cmp32(ay, by); c != 0 {
		return c
	}
	return strings.Compare(a.key(), b.key())
}

func (n *navigation) compareVerticalFirst(a, b *Icon) int {
	ax, ay := n.comparePoint(a)
	bx, by := n.comparePoint(b)
	if c := cmp32(ay, by); c != 0 {
		return c
	}
	if c := cmp32(ax, bx); c != 0 {
		return c
	}
	return strings.Compare(a.key(), b.key())
}

// compareWithStartRow is -1 when icon lies below the start point, 1 when
// above it and 0 when its display bounds span it.
func (n *navigation) compareWithStartRow(icon *Icon) int {
	b := n.c.geometry.Bounds(icon, BoundsDisplay)
	if n.startY < b.Y0 {
		return -1
	}
	if n.startY > b.Y1 {
		return 1
	}
	return 0
}

func (n *navigation) compareWithStartColumn(icon *Icon) int {
	b := n.c.geometry.Bounds(icon, BoundsDisplay)
	if n.startX < b.X0 {
		return -1
	}
	if n.startX > b.X1 {
		return 1
	}
	return 0
}

func leftmostInTopRow(n *navigation, _, best, candidate *Icon) bool {
	if best == nil {
		return true
	}
	return n.compareVerticalFirst(best, candidate) > 0
}

func rightmostInTopRow(n *navigation, _, best, candidate *Icon) bool {
	if best == nil {
		return true
	}
	return n.compareVertical(best, candidate) > 0
}

func rightmostInBottomRow(n *navigation, _, best, candidate *Icon) bool {
	if best == nil {
		return true
	}
	return n.compareVerticalFirst(best, candidate) < 0
}

func sameRowRightSideLeftmost(n *navigation, start, best, candidate *Icon) bool {
	if n.compareWithStartRow(candidate) != 0 {
		return false
	}
	if best != nil && n.compareHorizontalFirst(best, candidate) < 0 {
		return false
	}
	return n.compareHorizontalFirst(candidate, start) > 0
}

func sameRowLeftSideRightmost(n *navigation, start, best, candidate *Icon) bool {
	if n.compareWithStartRow(candidate) != 0 {
		return false
	}
	if best != nil && n.compareHorizontalFirst(best, candidate) > 0 {
		return false
	}
	return n.compareHorizontalFirst(candidate, start) < 0
}

func nextRowLeftmost(n *navigation, _, best, candidate *Icon) bool {
	if n.compareWithStartRow(candidate) >= 0 {
		return false
	}
	if best == nil {
		return true
	}
	return n.compareVerticalFirst(best, candidate) > 0 || n.compareHorizontalFirst(best, candidate) > 0
}

func nextRowRightmost(n *navigation, _, best, candidate *Icon) bool {
	if n.compareWithStartRow(candidate) >= 0 {
		return false
	}
	if best == nil {
		return true
	}
	return n.compareVerticalFirst(best, candidate) > 0 || n.compareHorizontalFirst(best, candidate) < 0
}

func nextColumnBottommost(n *navigation, _, best, candidate *Icon) bool {
	if n.compareWithStartColumn(candidate) >= 0 {
		return false
	}
	if best == nil {
		return true
	}
	return n.compareHorizontalFirst(best, candidate) > 0 || n.compareVerticalFirst(best, candidate) < 0
}

func previousRowRightmost(n *navigation, _, best, candidate *Icon) bool {
	if n.compareWithStartRow(candidate) <= 0 {
		return false
	}
	if best == nil {
		return true
	}
	return n.compareVerticalFirst(best, candidate) < 0 || n.compareHorizontalFirst(best, candidate) < 0
}

func sameColumnAboveLowest(n *navigation, start, best, candidate *Icon) bool {
	if n.compareWithStartColumn(candidate) != 0 {
		return false
	}
	if best != nil && n.compareVerticalFirst(best, candidate) > 0 {
		return false
	}
	return n.compareVerticalFirst(candidate, start) < 0
}

func sameColumnBelowHighest(n *navigation, start, best, candidate *Icon) bool {
	if n.compareWithStartColumn(candidate) != 0 {
		return false
	}
	if best != nil && n.compareVerticalFirst(best, candidate) < 0 {
		return false
	}
	return n.compareVerticalFirst(candidate, start) > 0
}

func previousColumnHighest(n *navigation, _, best, candidate *Icon) bool {
	if n.compareWithStartColumn(candidate) <= 0 {
		return false
	}
	if best == nil {
		return true
	}
	return n.compareHorizontal(best, candidate) < 0 || n.compareVertical(best, candidate) > 0
}

func nextColumnHighest(n *navigation, _, best, candidate *Icon) bool {
	if n.compareWithStartColumn(candidate) >= 0 {
		return false
	}
	if best == nil {
		return true
	}
	return n.compareHorizontalFirst(best, candidate) > 0 || n.compareVerticalFirst(best, candidate) > 0
}

func previousColumnLowest(n *navigation, _, best, candidate *Icon) bool {
	if n.compareWithStartColumn(candidate) <= 0 {
		return false
	}
	if best == nil {
		return true
	}
	return n.compareHorizontalFirst(best, candidate) < 0 || n.compareVerticalFirst(best, candidate) < 0
}

func lastColumnLowest(n *navigation, _, best, candidate *Icon) bool {
	if best == nil {
		return true
	}
	return n.compareHorizontalFirst(best, candidate) < 0
}

// closestIn90Degrees picks the nearest icon inside the quarter plane that
// opens from the start point in the direction of travel.
func closestIn90Degrees(n *navigation, _, best, candidate *Icon) bool {
	x, y := n.comparePoint(candidate)
	dx := x - n.startX
	dy := y - n.startY

	switch n.dir {
	case DirUp:
		if dy > 0 || abs32(dx) > abs32(dy) {
			return false
		}
	case DirDown:
		if dy < 0 || abs32(dx) > abs32(dy) {
			return false
		}
	case DirLeft:
		if dx > 0 || abs32(dy) > abs32(dx) {
			return false
		}
	case DirRight:
		if dx < 0 || abs32(dy) > abs32(dx) {
			return false
		}
	}

	dist := dx*dx + dy*dy
	if best == nil || dist < n.bestDist {
		n.bestDist = dist
		return true
	}
	return false
}

// arrowPlan is the list of searches one arrow key runs.
type arrowPlan struct {
	betterStart      Predicate
	emptyStart       Predicate
	destination      Predicate
	fallback         Predicate
	fallbackFallback Predicate
	manual           Predicate
}

// planArrow builds the searches for dir. rect is set for a rectangle
// selection, which never wraps to another row or column.
func (c *Container) planArrow(dir Direction, rect bool) arrowPlan {
	vertical := c.layoutMode.IsVertical()
	rtl := c.layoutMode.IsRTL()

	p := arrowPlan{
		betterStart: rightmostInBottomRow,
		emptyStart:  leftmostInTopRow,
		manual:      closestIn90Degrees,
	}
	if rtl {
		p.emptyStart = rightmostInTopRow
	}

	switch dir {
	case DirRight:
		p.destination = sameRowRightSideLeftmost
		if c.autoLayout && !vertical && !rect {
			p.fallback = nextRowLeftmost
		}
		if vertical && !rtl {
			p.fallbackFallback = nextColumnBottommost
		}
	case DirLeft:
		p.destination = sameRowLeftSideRightmost
		if c.autoLayout && !vertical && !rect {
			p.fallback = previousRowRightmost
		}
		if vertical && rtl {
			p.fallbackFallback = previousColumnLowest
		}
	case DirDown:
		p.destination = sameColumnBelowHighest
		if c.autoLayout && vertical && !rect {
			if rtl {
				p.fallback = previousColumnHighest
			} else {
				p.fallback = nextColumnHighest
			}
		}
		if !vertical {
			if rtl {
				p.fallbackFallback = nextRowLeftmost
			} else {
				p.fallbackFallback = nextRowRightmost
			}
		}
	case DirUp:
		p.destination = sameColumnAboveLowest
		if c.autoLayout && vertical && !rect {
			if rtl {
				p.fallback = nextColumnBottommost
			} else {
				p.fallback = previousColumnLowest
			}
		}
	}
	return p
}

// navigate returns the icon an arrow key moves from and the one it moves
// to. Both are nil only when the container holds no placed icon.
func (c *Container) navigate(dir Direction, rect bool) (from, to *Icon) {
	p := c.planArrow(dir, rect)
	nav := &navigation{c: c}

	from = c.focus
	if from == nil {
		if c.SelectionCount() > 1 {
			if c.allSelected() {
				from = nav.findBestSelected(nil, p.emptyStart)
			} else {
				from = nav.findBestSelected(nil, p.betterStart)
			}
		} else {
			from = c.firstSelected()
		}
	}

	if from == nil {
		to = nav.findBest(nil, p.emptyStart)
		return to, to
	}

	nav.recordStart(from, dir)
	dest := p.destination
	if !c.autoLayout {
		dest = p.manual
	}
	to = nav.findBest(from, dest)
	if to == nil && p.fallback != nil {
		to = nav.findBest(from, p.fallback)
	}
	if to == nil && c.autoLayout && p.fallbackFallback != nil {
		to = nav.findBest(from, p.fallbackFallback)
	}
	if to == nil {
		to = from
	}
	return from, to
}

// home returns the icon Home moves to and the selected icon it moves from.
func (c *Container) home() (from, to *Icon) {
	nav := &navigation{c: c}
	from = nav.findBestSelected(nil, rightmostInBottomRow)
	to = nav.findBest(nil, leftmostInTopRow)
	return from, to
}

func (c *Container) end() (from, to *Icon) {
	nav := &navigation{c: c}
	from = nav.findBestSelected(nil, leftmostInTopRow)
	if c.layoutMode.IsVertical() {
		to = nav.findBest(nil, lastColumnLowest)
	} else {
		to = nav.findBest(nil, rightmostInBottomRow)
	}
	return from, to
}
