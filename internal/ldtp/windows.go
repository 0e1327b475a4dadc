package ldtp

import (
	"context"
	"fmt"

	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/waiter"
)

// GetAppList returns the names of the running applications.
func (s *Service) GetAppList() []string {
	names := s.desktop.ApplicationNames()
	if names == nil {
		names = []string{}
	}
	return names
}

// GetWindowList returns the disambiguated identifiers of every window.
func (s *Service) GetWindowList() []string {
	return s.resolver.WindowNames()
}

// GuiExist checks once whether a window, or an object in it, exists.
func (s *Service) GuiExist(ctx context.Context, window, object string) bool {
	return s.wait(ctx, waiter.Exists(s.resolver, window, object), 0)
}

// WaitTillGuiExist waits up to timeout seconds for a window or object to
// appear.
func (s *Service) WaitTillGuiExist(ctx context.Context, window, object string, timeout float64) bool {
	return s.wait(ctx, waiter.Exists(s.resolver, window, object), waiter.Seconds(timeout))
}

// WaitTillGuiNotExist waits up to timeout seconds for a window or object
// to go away.
func (s *Service) WaitTillGuiNotExist(ctx context.Context, window, object string, timeout float64) bool {
	return s.wait(ctx, waiter.Not(waiter.Exists(s.resolver, window, object)), waiter.Seconds(timeout))
}

// Wait sleeps for timeout seconds on the poll cadence.
func (s *Service) Wait(ctx context.Context, timeout float64) {
	s.wait(ctx, waiter.Never, waiter.Seconds(timeout))
}

// Remap rebuilds the AppMap of a window.
func (s *Service) Remap(window string) error {
	_, _, err := s.resolver.Map(window, true)
	return err
}

// GetWindowSize returns [x, y, width, height] of a window.
func (s *Service) GetWindowSize(window string) ([]int, error) {
	w, err := s.resolver.Window(window)
	if err != nil {
		return nil, err
	}
	return extents(w)
}

func extents(n model.Node) ([]int, error) {
	c, err := model.ComponentOf(n)
	if err != nil {
		return nil, fmt.Errorf("unable to get size: %w", err)
	}
	r := c.Extents()
	return []int{r.X, r.Y, r.Width, r.Height}, nil
}
