// Package sim provides an in-process accessibility desktop built from a
// fixture document. It backs tests, demos and offline AppMap dumps.
package sim

import (
	"log/slog"
	"sync"

	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/platform"
)

const eventBuffer = 64

// Invocation records one action performed on a node.
type Invocation struct {
	Path   string
	Action string
}

// Desktop is a mutable, concurrency-safe simulated desktop.
type Desktop struct {
	mu      sync.RWMutex
	apps    []*Node
	byID    map[string]*Node
	focused *Node
	log     []Invocation
	events  chan platform.Event
	logger  *slog.Logger
}

// New builds a desktop from a fixture document. Nil windows and children
// become gaps.
func New(doc *model.Desktop) *Desktop {
	d := &Desktop{
		byID:   make(map[string]*Node),
		events: make(chan platform.Event, eventBuffer),
		logger: slog.Default(),
	}
	d.apps = d.build(doc)
	return d
}

// Provider wraps the desktop for platform consumers.
func (d *Desktop) Provider() *platform.Provider {
	return &platform.Provider{Name: "sim", Desktop: d}
}

func (d *Desktop) build(doc *model.Desktop) []*Node {
	if doc == nil {
		return nil
	}
	apps := make([]*Node, 0, len(doc.Applications))
	for i, app := range doc.Applications {
		if app == nil {
			continue
		}
		n := &Node{d: d, role: model.RoleApplication, name: app.Name, index: i}
		for j, w := range app.Windows {
			n.children = append(n.children, d.newNode(w, n, j))
		}
		apps = append(apps, n)
	}
	return apps
}

// Applications returns the current application nodes.
func (d *Desktop) Applications() ([]model.Node, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Node, 0, len(d.apps))
	for _, a := range d.apps {
		out = append(out, a)
	}
	return out, nil
}

// Events returns the window event stream.
func (d *Desktop) Events() <-chan platform.Event {
	return d.events
}

// SetLogger replaces the logger that reports dropped events.
func (d *Desktop) SetLogger(l *slog.Logger) {
	d.mu.Lock()
	d.logger = l
	d.mu.Unlock()
}

// emit never blocks. An event that does not fit the buffer is dropped
// and logged, since the application it names may then stay unknown to
// the registry.
func (d *Desktop) emit(ev platform.Event) {
	select {
	case d.events <- ev:
	default:
		d.mu.RLock()
		logger := d.logger
		d.mu.RUnlock()
		logger.Warn("sim event dropped", "kind", ev.Kind, "window", ev.Window, "buffer", eventBuffer)
	}
}

// Replace swaps the whole tree. Nodes of the previous tree report the
// defunct state from then on, and a window-created event is emitted for
// every window of the new tree.
func (d *Desktop) Replace(doc *model.Desktop) {
	d.mu.Lock()
	for _, a := range d.apps {
		a.markDefunct()
	}
	d.byID = make(map[string]*Node)
	d.focused = nil
	d.apps = d.build(doc)
	var evs []platform.Event
	for _, a := range d.apps {
		for _, w := range a.children {
			if w != nil {
				evs = append(evs, platform.Event{Kind: platform.WindowCreated, Application: a, Window: w.name})
			}
		}
	}
	d.mu.Unlock()
	for _, ev := range evs {
		d.emit(ev)
	}
}

// AddWindow appends a window to the named application, creating the
// application if needed.
func (d *Desktop) AddWindow(appName string, el *model.Element) *Node {
	d.mu.Lock()
	var app *Node
	for _, a := range d.apps {
		if a.name == appName {
			app = a
			break
		}
	}
	if app == nil {
		app = &Node{d: d, role: model.RoleApplication, name: appName, index: len(d.apps)}
		d.apps = append(d.apps, app)
	}
	w := d.newNode(el, app, len(app.children))
	app.children = append(app.children, w)
	d.mu.Unlock()

	d.emit(platform.Event{Kind: platform.WindowCreated, Application: app, Window: w.name})
	return w
}

// RemoveWindow removes the first window with the given name from the
// named application.
func (d *Desktop) RemoveWindow(appName, windowName string) bool {
	d.mu.Lock()
	for _, a := range d.apps {
		if a.name != appName {
			continue
		}
		for i, w := range a.children {
			if w == nil || w.name != windowName {
				continue
			}
			w.markDefunct()
			a.removeChild(i)
			d.mu.Unlock()
			d.emit(platform.Event{Kind: platform.WindowDestroyed, Application: a, Window: windowName})
			return true
		}
	}
	d.mu.Unlock()
	return false
}

// Find walks names: the first selects an application, each following
// name selects the first descendant (depth-first) with that name.
func (d *Desktop) Find(names ...string) *Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(names) == 0 {
		return nil
	}
	var cur *Node
	for _, a := range d.apps {
		if a.name == names[0] {
			cur = a
			break
		}
	}
	for _, name := range names[1:] {
		if cur == nil {
			return nil
		}
		cur = cur.findDescendant(name)
	}
	return cur
}

// Log returns every action performed so far.
func (d *Desktop) Log() []Invocation {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Invocation, len(d.log))
	copy(out, d.log)
	return out
}
