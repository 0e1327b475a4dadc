// Package resolve turns caller-supplied window and object names into live
// accessibility nodes.
package resolve

import (
	"fmt"
	"log/slog"

	"github.com/mj1618/ldtpd/internal/appmap"
	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/naming"
)

// WindowSource enumerates the current top-level windows.
type WindowSource interface {
	Windows() []model.Node
}

// Resolver resolves names against a window source through an AppMap
// cache it shares with nobody else.
type Resolver struct {
	windows WindowSource
	cache   *appmap.Cache
	logger  *slog.Logger
}

// New returns a resolver. A nil cache gets a fresh one.
func New(windows WindowSource, cache *appmap.Cache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = appmap.NewCache(logger)
	}
	return &Resolver{windows: windows, cache: cache, logger: logger}
}

// Cache returns the resolver's AppMap cache.
func (r *Resolver) Cache() *appmap.Cache { return r.cache }

// Match is a descriptor found in a window's map.
type Match struct {
	Window     model.Node
	Map        *appmap.Map
	Descriptor appmap.Descriptor
}

// windowIDs returns the disambiguated identifier of every window, in
// enumeration order. Unnamed windows get a per-tag counter starting at 0;
// a repeated identifier gets a suffix counting from 1.
func windowIDs(windows []model.Node) []string {
	ids := make([]string, 0, len(windows))
	seen := make(map[string]bool, len(windows))
	unnamed := make(map[string]int)
	for _, w := range windows {
		tag, label := naming.Ldtpize(w)
		base := tag + label
		if label == "" {
			n, ok := unnamed[tag]
			if ok {
				n++
			}
			unnamed[tag] = n
			base = fmt.Sprintf("%s%d", tag, n)
		}
		id := base
		for i := 1; seen[id]; i++ {
			id = fmt.Sprintf("%s%d", base, i)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// WindowNames returns the disambiguated identifiers of all windows.
func (r *Resolver) WindowNames() []string {
	return windowIDs(r.windows.Windows())
}

// Windows returns the windows and their identifiers from a single
// enumeration, so the two slices line up.
func (r *Resolver) Windows() ([]model.Node, []string) {
	windows := r.windows.Windows()
	return windows, windowIDs(windows)
}

// Window returns the first window whose raw name or identifier matches
// name, falling back to the disambiguated identifiers so that duplicate
// titles can be addressed as base, base1, base2, ...
func (r *Resolver) Window(name string) (model.Node, error) {
	win, _, err := r.window(name)
	return win, err
}

// window also returns the matched window's disambiguated identifier.
func (r *Resolver) window(name string) (model.Node, string, error) {
	windows := r.windows.Windows()
	ids := windowIDs(windows)
	for i, w := range windows {
		if naming.MatchNode(name, w) {
			return w, ids[i], nil
		}
	}
	for i, id := range ids {
		if naming.MatchWindowName(name, id) {
			return windows[i], id, nil
		}
	}
	candidates := ids
	for _, w := range windows {
		if n := w.Name(); n != "" {
			candidates = append(candidates, n)
		}
	}
	return nil, "", &NotFoundError{Kind: KindWindow, Name: name, Suggestions: suggest(name, candidates)}
}

// Map resolves a window and returns its AppMap, rebuilding it when force
// is set. Maps are cached per disambiguated identifier, so windows sharing
// a title never share a map.
func (r *Resolver) Map(windowName string, force bool) (model.Node, *appmap.Map, error) {
	win, id, err := r.window(windowName)
	if err != nil {
		return nil, nil, err
	}
	return win, r.cache.BuildAs(id, win, force), nil
}

// Find resolves a window and looks objectName up in its AppMap. A miss
// rebuilds the map and retries exactly once.
func (r *Resolver) Find(windowName, objectName string) (Match, error) {
	win, m, err := r.Map(windowName, false)
	if err != nil {
		return Match{}, err
	}
	if d, ok := m.Find(objectName); ok {
		return Match{Window: win, Map: m, Descriptor: d}, nil
	}
	r.logger.Debug("object not in appmap, remapping", "window", windowName, "object", objectName, "generation", m.Generation)
	m = r.cache.BuildAs(m.Window, win, true)
	if d, ok := m.Find(objectName); ok {
		return Match{Window: win, Map: m, Descriptor: d}, nil
	}
	return Match{}, &NotFoundError{
		Kind:        KindObject,
		Name:        objectName,
		Window:      windowName,
		Suggestions: suggest(objectName, m.Keys()),
	}
}

// Object resolves a window/object pair to a live node.
func (r *Resolver) Object(windowName, objectName string) (model.Node, error) {
	match, err := r.Find(windowName, objectName)
	if err != nil {
		return nil, err
	}
	return r.Node(match)
}

// Node re-walks the live tree from the matched window down to the
// descriptor, one recorded child index at a time. If the tree changed
// shape since the map was built the node now at that address is
// returned; a vanished address is reported as not found.
func (r *Resolver) Node(match Match) (model.Node, error) {
	path := match.Map.Path(match.Descriptor.Key)
	if len(path) == 0 {
		return nil, &NotFoundError{Kind: KindObject, Name: match.Descriptor.Key}
	}
	node := match.Window
	for _, step := range path[1:] {
		node = node.ChildAt(step.ChildIndex)
		if node == nil {
			return nil, &NotFoundError{Kind: KindObject, Name: match.Descriptor.Key}
		}
	}
	return node, nil
}
