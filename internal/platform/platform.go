package platform

import "github.com/mj1618/ldtpd/internal/model"

// Desktop enumerates the live accessibility applications. Each
// application node's children are its top-level windows.
type Desktop interface {
	Applications() ([]model.Node, error)
}

// EventSource streams window lifecycle events from the desktop.
type EventSource interface {
	Events() <-chan Event
}

// EventKind classifies a window event.
type EventKind string

const (
	WindowCreated   EventKind = "window:create"
	WindowDestroyed EventKind = "window:destroy"
	WindowRenamed   EventKind = "window:rename"
)

// Event reports a change to a top-level window.
type Event struct {
	Kind        EventKind
	Application model.Node
	Window      string
}
