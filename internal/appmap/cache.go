package appmap

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/naming"
)

// Cache holds the current AppMap generation of every window seen so far.
// Entries are created on first use, replaced wholesale on a forced remap
// and never expire on their own.
type Cache struct {
	mu         sync.RWMutex
	maps       map[string]*Map
	order      []string
	generation uint64
	logger     *slog.Logger
}

// NewCache returns an empty cache.
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{maps: make(map[string]*Map), logger: logger}
}

// Build returns the AppMap of window. Without force, the first cached map
// whose window key refers to window is returned without walking the tree.
// Otherwise the window is walked again and the result replaces any
// previous map stored under the same key.
func (c *Cache) Build(window model.Node, force bool) *Map {
	if !force {
		if m := c.cached(window); m != nil {
			return m
		}
	}
	m := walk(window)
	m.Window = naming.Identifier(window)
	return c.store(m)
}

// BuildAs is Build with the cache key given by the caller. Without force
// only the map stored under exactly key is reused.
func (c *Cache) BuildAs(key string, window model.Node, force bool) *Map {
	if !force {
		if m, ok := c.Lookup(key); ok {
			return m
		}
	}
	m := walk(window)
	m.Window = key
	return c.store(m)
}

func (c *Cache) store(m *Map) *Map {
	fp, err := hashstructure.Hash(m.Descriptors(), hashstructure.FormatV2, nil)
	if err != nil {
		c.logger.Warn("appmap fingerprint failed", "window", m.Window, "error", err)
	}
	m.Fingerprint = fp

	c.mu.Lock()
	c.generation++
	m.Generation = c.generation
	prev, existed := c.maps[m.Window]
	if !existed {
		c.order = append(c.order, m.Window)
	}
	c.maps[m.Window] = m
	c.mu.Unlock()

	attrs := []any{
		"window", m.Window,
		"generation", m.Generation,
		"objects", m.Len(),
		"fingerprint", fmt.Sprintf("%016x", m.Fingerprint),
	}
	if existed {
		d := Compare(prev, m)
		attrs = append(attrs, "added", len(d.Added), "removed", len(d.Removed), "moved", len(d.Moved),
			"changed", prev.Fingerprint != m.Fingerprint)
	}
	c.logger.Debug("appmap built", attrs...)
	return m
}

func (c *Cache) cached(window model.Node) *Map {
	c.mu.RLock()
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	c.mu.RUnlock()

	for _, key := range keys {
		if naming.MatchNode(key, window) {
			c.mu.RLock()
			m := c.maps[key]
			c.mu.RUnlock()
			return m
		}
	}
	return nil
}

// Lookup returns the map stored under a window key.
func (c *Cache) Lookup(windowKey string) (*Map, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.maps[windowKey]
	return m, ok
}

// Keys returns the cached window keys in the order they were first built.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Generation returns the number of maps built so far.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// walker accumulates one generation. Per-role counters start at 0 and
// advance for every node of that role, named or not.
type walker struct {
	entries   map[string]*Descriptor
	order     []string
	roleCount map[string]int
}

func walk(window model.Node) *Map {
	w := &walker{
		entries:   make(map[string]*Descriptor),
		roleCount: make(map[string]int),
	}
	parent := ""
	if app := window.Parent(); app != nil {
		_, parent = naming.Ldtpize(app)
	}
	key := w.add(window, parent, window.IndexInParent())
	w.descend(window, key)
	return &Map{
		order:   w.order,
		entries: w.entries,
	}
}

// descend records the children of n. Iteration over a parent's children
// stops at the first table cell so cell grids are never expanded.
func (w *walker) descend(n model.Node, key string) {
	for i := 0; i < n.ChildCount(); i++ {
		child := n.ChildAt(i)
		if child == nil {
			continue
		}
		if child.Role() == model.RoleTableCell {
			break
		}
		childKey := w.add(child, key, i)
		w.descend(child, childKey)
	}
}

func (w *walker) add(n model.Node, parent string, childIndex int) string {
	tag, label := naming.Ldtpize(n)
	count, seen := w.roleCount[tag]
	if seen {
		count++
	}
	w.roleCount[tag] = count

	base, key := tag+label, tag+label
	if label == "" {
		base = tag
		key = fmt.Sprintf("%s%d", tag, count)
	}
	for i := 1; w.entries[key] != nil; i++ {
		key = fmt.Sprintf("%s%d", base, i)
	}

	labelBy := ""
	if src := model.LabelSource(n); src != nil {
		labelBy = src.Name()
	}
	if p, ok := w.entries[parent]; ok {
		p.Children = append(p.Children, key)
	}
	w.entries[key] = &Descriptor{
		Key:         key,
		Parent:      parent,
		Class:       model.RoleClass(n.Role()),
		ChildIndex:  childIndex,
		Children:    []string{},
		ObjIndex:    fmt.Sprintf("%s#%d", tag, count),
		Label:       n.Name(),
		LabelBy:     labelBy,
		Description: n.Description(),
	}
	w.order = append(w.order, key)
	return key
}
