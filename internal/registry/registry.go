// Package registry owns the set of live accessibility applications the
// resolvers enumerate windows from.
package registry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/platform"
)

// unknownAppName is what the accessibility layer reports for
// applications it cannot name.
const unknownAppName = "<unknown>"

// Registry is the insertion-ordered set of known applications. It is
// seeded once from the desktop and afterwards only grows through Update;
// applications that report the defunct state are pruned on enumeration.
type Registry struct {
	mu     sync.RWMutex
	apps   []model.Node
	logger *slog.Logger
}

// New seeds a registry from the desktop's current applications.
func New(desktop platform.Desktop, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{logger: logger}
	apps, err := desktop.Applications()
	if err != nil {
		return nil, err
	}
	for _, app := range apps {
		r.add(app)
	}
	return r, nil
}

func (r *Registry) add(app model.Node) bool {
	if app == nil {
		return false
	}
	for _, known := range r.apps {
		if known == app {
			return false
		}
	}
	r.apps = append(r.apps, app)
	return true
}

// Update records the host application of a window event.
func (r *Registry) Update(ev platform.Event) {
	r.mu.Lock()
	added := r.add(ev.Application)
	r.mu.Unlock()
	if added {
		r.logger.Debug("application registered", "event", ev.Kind, "window", ev.Window)
	}
}

// Watch feeds events into Update until the channel closes or ctx is
// cancelled.
func (r *Registry) Watch(ctx context.Context, events <-chan platform.Event) {
	if events == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			r.Update(ev)
		}
	}
}

// Applications returns the live applications, pruning defunct ones.
func (r *Registry) Applications() []model.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	live := r.apps[:0:0]
	for _, app := range r.apps {
		if model.HasState(app, model.StateDefunct) {
			continue
		}
		live = append(live, app)
	}
	r.apps = live
	out := make([]model.Node, len(live))
	copy(out, live)
	return out
}

// ApplicationNames returns the names of the live applications, leaving
// out those the accessibility layer could not name.
func (r *Registry) ApplicationNames() []string {
	var names []string
	for _, app := range r.Applications() {
		if name := app.Name(); name != unknownAppName {
			names = append(names, name)
		}
	}
	return names
}

// Windows returns every top-level window of every live application, in
// application order then child order. Gaps are skipped.
func (r *Registry) Windows() []model.Node {
	var windows []model.Node
	for _, app := range r.Applications() {
		for i := 0; i < app.ChildCount(); i++ {
			if w := app.ChildAt(i); w != nil {
				windows = append(windows, w)
			}
		}
	}
	return windows
}
