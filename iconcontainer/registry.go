package iconcontainer

import (
	"slices"
	"sort"

	"fyne.io/fyne/v2"
)

// registry keeps icons in layout order with a lookup by URI.
type registry struct {
	icons   []*Icon
	byKey   map[string]*Icon
	pending []*Icon // added since the last layout pass, oldest first
}

func newRegistry() *registry {
	return &registry{byKey: make(map[string]*Icon)}
}

func (r *registry) add(u fyne.URI) (*Icon, bool) {
	if u == nil {
		return nil, false
	}
	if _, ok := r.byKey[u.String()]; ok {
		return nil, false
	}
	icon := newIcon(u)
	r.icons = append(r.icons, icon)
	r.byKey[icon.key()] = icon
	r.pending = append(r.pending, icon)
	return icon, true
}

func (r *registry) remove(u fyne.URI) *Icon {
	if u == nil {
		return nil
	}
	icon, ok := r.byKey[u.String()]
	if !ok {
		return nil
	}
	delete(r.byKey, icon.key())
	r.icons = slices.DeleteFunc(r.icons, func(i *Icon) bool { return i == icon })
	r.pending = slices.DeleteFunc(r.pending, func(i *Icon) bool { return i == icon })
	return icon
}

func (r *registry) lookup(u fyne.URI) *Icon {
	if u == nil {
		return nil
	}
	return r.byKey[u.String()]
}

func (r *registry) contains(icon *Icon) bool {
	return icon != nil && r.byKey[icon.key()] == icon
}

func (r *registry) len() int {
	return len(r.icons)
}

func (r *registry) clear() {
	r.icons = nil
	r.pending = nil
	r.byKey = make(map[string]*Icon)
}

func (r *registry) takePending() []*Icon {
	p := r.pending
	r.pending = nil
	return p
}

// sortIcons orders a slice in place with the comparator. The sort is stable
// so equal icons keep their insertion order.
func sortIcons(icons []*Icon, cmp Comparator) {
	sort.SliceStable(icons, func(i, j int) bool {
		return cmp.Compare(icons[i], icons[j]) < 0
	})
}
