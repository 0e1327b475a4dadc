// Package appmap caches, per top-level window, a map from generated
// identifier to the structural address of every reachable descendant.
package appmap

import (
	"slices"

	"github.com/mj1618/ldtpd/internal/naming"
)

// Descriptor is the structural record of one node in a window's map.
// ChildIndex is the node's position among its parent's children and,
// with Parent, is all that is needed to find the live node again.
type Descriptor struct {
	Key         string   `yaml:"key" json:"key"`
	Parent      string   `yaml:"parent" json:"parent"`
	Class       string   `yaml:"class" json:"class"`
	ChildIndex  int      `yaml:"child_index" json:"child_index"`
	Children    []string `yaml:"children" json:"children"`
	ObjIndex    string   `yaml:"obj_index" json:"obj_index"`
	Label       string   `yaml:"label" json:"label"`
	LabelBy     string   `yaml:"label_by" json:"label_by"`
	Description string   `yaml:"description" json:"description"`
}

// Matches reports whether name refers to this descriptor by key, per-role
// index, label source or label.
func (d *Descriptor) Matches(name string) bool {
	return naming.MatchObject(name, d.Key, d.ObjIndex, d.LabelBy, d.Label)
}

// Map is one generation of a window's AppMap. It is never modified after
// the cache publishes it.
type Map struct {
	Window      string
	Generation  uint64
	Fingerprint uint64

	order   []string
	entries map[string]*Descriptor
}

// Len returns the number of descriptors, the window's own included.
func (m *Map) Len() int { return len(m.order) }

// Keys returns the identifiers in walk order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Get returns a copy of the descriptor stored under key.
func (m *Map) Get(key string) (Descriptor, bool) {
	d, ok := m.entries[key]
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}

// Descriptors returns copies of every descriptor in walk order.
func (m *Map) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.entries[k].clone())
	}
	return out
}

// Find returns the first descriptor, in walk order, that name refers to.
func (m *Map) Find(name string) (Descriptor, bool) {
	for _, k := range m.order {
		if d := m.entries[k]; d.Matches(name) {
			return d.clone(), true
		}
	}
	return Descriptor{}, false
}

// Path returns the descriptors from the window down to key, inclusive.
// The window is the first descriptor whose parent is not in the map.
func (m *Map) Path(key string) []Descriptor {
	var chain []Descriptor
	seen := make(map[string]bool)
	for cur, ok := m.entries[key]; ok; cur, ok = m.entries[cur.Parent] {
		if seen[cur.Key] {
			return nil
		}
		seen[cur.Key] = true
		chain = append(chain, cur.clone())
	}
	slices.Reverse(chain)
	return chain
}

// Descendants returns the keys below key in walk order.
func (m *Map) Descendants(key string) []string {
	var out []string
	var visit func(k string)
	visit = func(k string) {
		d, ok := m.entries[k]
		if !ok {
			return
		}
		for _, c := range d.Children {
			out = append(out, c)
			visit(c)
		}
	}
	visit(key)
	return out
}

func (d *Descriptor) clone() Descriptor {
	c := *d
	if d.Children != nil {
		c.Children = slices.Clone(d.Children)
	}
	return c
}

// PropertyNames lists the descriptor properties in their canonical order.
var PropertyNames = []string{
	"key", "parent", "class", "child_index", "children",
	"obj_index", "label", "label_by", "description",
}

// Property returns the value of a named property.
func (d Descriptor) Property(name string) (any, bool) {
	switch name {
	case "key":
		return d.Key, true
	case "parent":
		return d.Parent, true
	case "class":
		return d.Class, true
	case "child_index":
		return d.ChildIndex, true
	case "children":
		return slices.Clone(d.Children), true
	case "obj_index":
		return d.ObjIndex, true
	case "label":
		return d.Label, true
	case "label_by":
		return d.LabelBy, true
	case "description":
		return d.Description, true
	}
	return nil, false
}

// Properties returns every property keyed by name.
func (d Descriptor) Properties() map[string]any {
	props := make(map[string]any, len(PropertyNames))
	for _, name := range PropertyNames {
		props[name], _ = d.Property(name)
	}
	return props
}
