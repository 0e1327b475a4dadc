//go:build linux

package x11

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/platform"
)

const eventBuffer = 64

// Desktop tracks the window manager's client list.
type Desktop struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger

	mu      sync.Mutex
	apps    []*appNode
	windows map[xproto.Window]*windowNode
	clients []xproto.Window

	events chan platform.Event
}

// Open connects to the X server named by $DISPLAY and starts listening
// for client-list changes.
func Open(logger *slog.Logger) (*Desktop, error) {
	if logger == nil {
		logger = slog.Default()
	}
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	d := &Desktop{
		xu:      xu,
		root:    xu.RootWin(),
		logger:  logger,
		windows: make(map[xproto.Window]*windowNode),
		events:  make(chan platform.Event, eventBuffer),
	}
	if err := d.refresh(); err != nil {
		xu.Conn().Close()
		return nil, err
	}
	if err := xwindow.New(xu, d.root).Listen(xproto.EventMaskPropertyChange); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("listen on root window: %w", err)
	}
	xevent.PropertyNotifyFun(d.onProperty).Connect(xu, d.root)
	go xevent.Main(xu)
	return d, nil
}

// Provider wraps the desktop for platform consumers.
func (d *Desktop) Provider() *platform.Provider {
	return &platform.Provider{Name: "x11", Desktop: d, Close: d.Close}
}

// Close stops the event loop and disconnects.
func (d *Desktop) Close() error {
	xevent.Quit(d.xu)
	d.xu.Conn().Close()
	return nil
}

// Applications returns one node per WM_CLASS with at least one client.
func (d *Desktop) Applications() ([]model.Node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
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

func (d *Desktop) emit(ev platform.Event) {
	select {
	case d.events <- ev:
	default:
		d.logger.Warn("x11 event dropped", "kind", ev.Kind, "window", ev.Window)
	}
}

func (d *Desktop) onProperty(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(xu, ev.Atom)
	if err != nil || name != "_NET_CLIENT_LIST" {
		return
	}
	if err := d.refresh(); err != nil {
		d.logger.Warn("x11 client list refresh failed", "error", err)
	}
}

// refresh re-reads _NET_CLIENT_LIST, keeping the nodes of surviving
// clients and applications so handles stay valid across refreshes.
func (d *Desktop) refresh() error {
	clients, err := ewmh.ClientListGet(d.xu)
	if err != nil {
		return fmt.Errorf("failed to get client list: %w", err)
	}
	normal := clients[:0:0]
	for _, c := range clients {
		if d.isNormal(c) {
			normal = append(normal, c)
		}
	}

	d.mu.Lock()
	added, removed := diffClients(d.clients, normal)
	d.clients = normal
	var evs []platform.Event

	for _, id := range removed {
		w := d.windows[id]
		delete(d.windows, id)
		if w == nil {
			continue
		}
		w.defunct = true
		app := w.app
		app.remove(w)
		if len(app.windows) == 0 {
			app.defunct = true
			d.removeApp(app)
		}
		evs = append(evs, platform.Event{Kind: platform.WindowDestroyed, Application: app, Window: w.title})
	}
	for _, id := range added {
		app := d.appFor(d.className(id))
		w := &windowNode{d: d, id: id, app: app, title: d.title(id), dialog: d.isDialog(id)}
		app.windows = append(app.windows, w)
		d.windows[id] = w
		evs = append(evs, platform.Event{Kind: platform.WindowCreated, Application: app, Window: w.title})
	}
	d.mu.Unlock()

	for _, ev := range evs {
		d.emit(ev)
	}
	return nil
}

// appFor must be called with d.mu held.
func (d *Desktop) appFor(name string) *appNode {
	for _, a := range d.apps {
		if a.name == name {
			return a
		}
	}
	a := &appNode{d: d, name: name, index: len(d.apps)}
	d.apps = append(d.apps, a)
	return a
}

// removeApp must be called with d.mu held.
func (d *Desktop) removeApp(app *appNode) {
	for i, a := range d.apps {
		if a == app {
			d.apps = append(d.apps[:i], d.apps[i+1:]...)
			break
		}
	}
	for i, a := range d.apps {
		a.index = i
	}
}

func (d *Desktop) className(id xproto.Window) string {
	wmClass, err := icccm.WmClassGet(d.xu, id)
	if err != nil {
		return appName("", "")
	}
	return appName(strings.TrimSpace(wmClass.Instance), strings.TrimSpace(wmClass.Class))
}

func (d *Desktop) title(id xproto.Window) string {
	if title, err := ewmh.WmNameGet(d.xu, id); err == nil && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if title, err := icccm.WmNameGet(d.xu, id); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

func (d *Desktop) windowTypes(id xproto.Window) []string {
	types, err := ewmh.WmWindowTypeGet(d.xu, id)
	if err != nil {
		return nil
	}
	return types
}

// isNormal rejects docks, desktops, splash screens and notifications.
func (d *Desktop) isNormal(id xproto.Window) bool {
	for _, t := range d.windowTypes(id) {
		switch t {
		case "_NET_WM_WINDOW_TYPE_DESKTOP", "_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH", "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	return true
}

func (d *Desktop) isDialog(id xproto.Window) bool {
	for _, t := range d.windowTypes(id) {
		if t == "_NET_WM_WINDOW_TYPE_DIALOG" {
			return true
		}
	}
	return false
}

func (d *Desktop) extents(id xproto.Window) model.Rect {
	geom, err := xproto.GetGeometry(d.xu.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return model.Rect{}
	}
	translate, err := xproto.TranslateCoordinates(d.xu.Conn(), id, d.root, 0, 0).Reply()
	if err != nil {
		return model.Rect{}
	}
	return model.Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}
}

// activate sends _NET_ACTIVE_WINDOW to the root window. The message is
// built by hand: the ewmh request helper panics on this library version.
func (d *Desktop) activate(id xproto.Window) error {
	atom, err := xprop.Atm(d.xu, "_NET_ACTIVE_WINDOW")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}
	const sourceIndication = 2
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: id,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(
		d.xu.Conn(),
		false,
		d.root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

func (d *Desktop) states(id xproto.Window) []string {
	states := []string{model.StateEnabled, "focusable", "resizable"}
	hidden := false
	if wmStates, err := ewmh.WmStateGet(d.xu, id); err == nil {
		for _, s := range wmStates {
			switch s {
			case "_NET_WM_STATE_HIDDEN":
				hidden = true
			case "_NET_WM_STATE_MODAL":
				states = append(states, "modal")
			}
		}
	}
	if !hidden {
		states = append(states, model.StateShowing, model.StateVisible)
	}
	if active, err := ewmh.ActiveWindowGet(d.xu); err == nil && active == id {
		states = append(states, "active", model.StateFocused)
	}
	return states
}
