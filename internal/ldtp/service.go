// Package ldtp implements the remote operation surface: every procedure
// resolves its window and object names through the resolver and then
// touches exactly one capability of the resolved node.
package ldtp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mj1618/ldtpd/internal/appmap"
	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/resolve"
	"github.com/mj1618/ldtpd/internal/waiter"
)

// Desktop is the live application and window set operations run against.
type Desktop interface {
	ApplicationNames() []string
	Windows() []model.Node
}

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	Clock        waiter.Clock
	PollInterval time.Duration
	Cache        *appmap.Cache
	Logger       *slog.Logger
}

// Service owns the resolver and its AppMap cache for one server process.
type Service struct {
	desktop  Desktop
	resolver *resolve.Resolver
	clock    waiter.Clock
	interval time.Duration
	logger   *slog.Logger
}

// NewService builds the operation surface over desktop.
func NewService(desktop Desktop, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = waiter.RealClock
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = waiter.DefaultInterval
	}
	return &Service{
		desktop:  desktop,
		resolver: resolve.New(desktop, opts.Cache, logger),
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

// Resolver returns the service's resolver.
func (s *Service) Resolver() *resolve.Resolver { return s.resolver }

func (s *Service) wait(ctx context.Context, p waiter.Predicate, timeout time.Duration) bool {
	w := waiter.New(p, timeout, waiter.WithClock(s.clock), waiter.WithInterval(s.interval))
	ok := w.Run(ctx)
	s.logger.Debug("wait finished", "state", w.State(), "polls", w.Polls(), "elapsed", w.Elapsed())
	return ok
}

// grabFocus focuses n when it has a component; nodes without one are
// left alone.
func grabFocus(n model.Node) error {
	c, err := model.ComponentOf(n)
	if errors.Is(err, model.ErrUnsupported) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.GrabFocus()
}

// focused resolves an object and grabs its focus.
func (s *Service) focused(window, object string) (model.Node, error) {
	n, err := s.resolver.Object(window, object)
	if err != nil {
		return nil, err
	}
	if err := grabFocus(n); err != nil {
		return nil, err
	}
	return n, nil
}

// doAction runs the first action of n whose name is one of names.
func doAction(n model.Node, names ...string) error {
	act, err := model.ActionOf(n)
	if err != nil {
		return err
	}
	for i := 0; i < act.NActions(); i++ {
		name := act.ActionName(i)
		for _, want := range names {
			if name == want {
				return act.DoAction(i)
			}
		}
	}
	return fmt.Errorf("object does not have a %q action", names[0])
}

// flag converts a boolean into the 1/0 result convention.
func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
