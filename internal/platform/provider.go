package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles the desktop backend for the current OS.
type Provider struct {
	Name    string
	Desktop Desktop
	// Close releases backend resources. May be nil.
	Close func() error
}

// Events returns the provider's event stream, or nil when the backend
// does not report window events.
func (p *Provider) Events() <-chan Event {
	if src, ok := p.Desktop.(EventSource); ok {
		return src.Events()
	}
	return nil
}

// ErrUnsupported is returned when no live backend is registered.
var ErrUnsupported = fmt.Errorf("no live accessibility backend for %s/%s; supported: linux (X11), or run with --fixture", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/x11/init_linux.go for the X11 registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
