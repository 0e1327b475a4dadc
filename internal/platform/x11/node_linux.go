//go:build linux

package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/mj1618/ldtpd/internal/model"
)

type appNode struct {
	d       *Desktop
	name    string
	index   int
	windows []*windowNode
	defunct bool
}

// remove must be called with d.mu held.
func (a *appNode) remove(w *windowNode) {
	for i, c := range a.windows {
		if c == w {
			a.windows = append(a.windows[:i], a.windows[i+1:]...)
			return
		}
	}
}

func (a *appNode) Role() string        { return model.RoleApplication }
func (a *appNode) Name() string        { return a.name }
func (a *appNode) Description() string { return "" }
func (a *appNode) Parent() model.Node  { return nil }

func (a *appNode) ChildCount() int {
	a.d.mu.Lock()
	defer a.d.mu.Unlock()
	return len(a.windows)
}

func (a *appNode) ChildAt(i int) model.Node {
	a.d.mu.Lock()
	defer a.d.mu.Unlock()
	if i < 0 || i >= len(a.windows) {
		return nil
	}
	return a.windows[i]
}

func (a *appNode) IndexInParent() int {
	a.d.mu.Lock()
	defer a.d.mu.Unlock()
	return a.index
}

func (a *appNode) Relations() []model.Relation { return nil }

func (a *appNode) States() []string {
	a.d.mu.Lock()
	defer a.d.mu.Unlock()
	if a.defunct {
		return []string{model.StateDefunct}
	}
	return nil
}

func (a *appNode) Capability(model.CapabilityKind) (any, bool) { return nil, false }

type windowNode struct {
	d       *Desktop
	id      xproto.Window
	app     *appNode
	title   string
	dialog  bool
	defunct bool
}

func (w *windowNode) Role() string {
	if w.dialog {
		return model.RoleDialog
	}
	return model.RoleFrame
}

// Name re-reads the title so renamed windows resolve by their new name.
func (w *windowNode) Name() string {
	if w.isDefunct() {
		return w.title
	}
	return w.d.title(w.id)
}

func (w *windowNode) Description() string { return "" }
func (w *windowNode) Parent() model.Node  { return w.app }
func (w *windowNode) ChildCount() int     { return 0 }
func (w *windowNode) ChildAt(int) model.Node {
	return nil
}

func (w *windowNode) IndexInParent() int {
	w.d.mu.Lock()
	defer w.d.mu.Unlock()
	for i, c := range w.app.windows {
		if c == w {
			return i
		}
	}
	return -1
}

func (w *windowNode) Relations() []model.Relation { return nil }

func (w *windowNode) States() []string {
	if w.isDefunct() {
		return []string{model.StateDefunct}
	}
	return w.d.states(w.id)
}

func (w *windowNode) Capability(kind model.CapabilityKind) (any, bool) {
	if kind == model.CapComponent {
		return component{w}, true
	}
	return nil, false
}

func (w *windowNode) isDefunct() bool {
	w.d.mu.Lock()
	defer w.d.mu.Unlock()
	return w.defunct
}

type component struct{ w *windowNode }

func (c component) Extents() model.Rect {
	return c.w.d.extents(c.w.id)
}

func (c component) GrabFocus() error {
	if c.w.isDefunct() {
		return fmt.Errorf("window %q is gone", c.w.title)
	}
	return c.w.d.activate(c.w.id)
}
