// Package waiter implements bounded polling waits as a small state
// machine: a waiter starts Pending and ends Satisfied or TimedOut.
package waiter

import (
	"context"
	"time"
)

// State is the phase of a wait.
type State int

const (
	Pending State = iota
	Satisfied
	TimedOut
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Satisfied:
		return "satisfied"
	case TimedOut:
		return "timed-out"
	}
	return "unknown"
}

// DefaultInterval is the poll cadence.
const DefaultInterval = time.Second

// Predicate reports whether the awaited condition holds. It must not
// fail: a condition that cannot be evaluated is simply not yet true.
type Predicate func() bool

// Option configures a Waiter.
type Option func(*Waiter)

// WithClock drives the waiter from c instead of the wall clock.
func WithClock(c Clock) Option {
	return func(w *Waiter) { w.clock = c }
}

// WithInterval changes the poll cadence.
func WithInterval(d time.Duration) Option {
	return func(w *Waiter) {
		if d > 0 {
			w.interval = d
		}
	}
}

// Waiter polls a predicate until it holds or the timeout elapses.
type Waiter struct {
	predicate Predicate
	interval  time.Duration
	timeout   time.Duration
	clock     Clock
	start     time.Time
	state     State
	polls     int
}

// New starts a waiter. The timeout is measured from now.
func New(predicate Predicate, timeout time.Duration, opts ...Option) *Waiter {
	w := &Waiter{
		predicate: predicate,
		interval:  DefaultInterval,
		timeout:   timeout,
		clock:     RealClock,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.start = w.clock.Now()
	return w
}

// State returns the current phase.
func (w *Waiter) State() State { return w.state }

// Polls returns how many times the predicate has been evaluated.
func (w *Waiter) Polls() int { return w.polls }

// Elapsed returns the time since the waiter started.
func (w *Waiter) Elapsed() time.Duration { return w.clock.Now().Sub(w.start) }

// Step evaluates the predicate once. A true predicate satisfies the wait;
// otherwise the wait times out once the timeout has elapsed. Steps after
// a terminal state change nothing.
func (w *Waiter) Step() State {
	if w.state != Pending {
		return w.state
	}
	w.polls++
	if w.predicate() {
		w.state = Satisfied
	} else if w.Elapsed() >= w.timeout {
		w.state = TimedOut
	}
	return w.state
}

// Run steps the waiter, one poll interval apart, until it leaves Pending,
// and reports whether it was satisfied. Cancelling ctx times the wait
// out.
func (w *Waiter) Run(ctx context.Context) bool {
	for {
		switch w.Step() {
		case Satisfied:
			return true
		case TimedOut:
			return false
		}
		select {
		case <-ctx.Done():
			w.state = TimedOut
			return false
		case <-w.clock.After(w.interval):
		}
	}
}

// Seconds converts a timeout given in seconds; negative values are zero.
func Seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
