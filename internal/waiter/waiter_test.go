package waiter

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/mj1618/ldtpd/internal/model"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func trueAfter(n int) (Predicate, *int) {
	calls := 0
	return func() bool {
		calls++
		return calls >= n
	}, &calls
}

func TestRun_ZeroTimeoutFailsWithoutSleeping(t *testing.T) {
	clock := NewManualClock(epoch)
	w := New(Never, 0, WithClock(clock))
	if w.Run(context.Background()) {
		t.Fatal("Run() = true, want false")
	}
	if w.State() != TimedOut {
		t.Errorf("State() = %v, want %v", w.State(), TimedOut)
	}
	if waits := clock.Waits(); len(waits) != 0 {
		t.Errorf("slept %v, want no sleep", waits)
	}
	if w.Polls() != 1 {
		t.Errorf("Polls() = %d, want 1", w.Polls())
	}
}

func TestRun_SatisfiedOnSecondPoll(t *testing.T) {
	clock := NewManualClock(epoch)
	pred, calls := trueAfter(2)
	w := New(pred, 30*time.Second, WithClock(clock))
	if !w.Run(context.Background()) {
		t.Fatal("Run() = false, want true")
	}
	if *calls != 2 {
		t.Errorf("predicate calls = %d, want 2", *calls)
	}
	if got := w.Elapsed(); got != DefaultInterval {
		t.Errorf("Elapsed() = %v, want %v", got, DefaultInterval)
	}
	if waits := clock.Waits(); !slices.Equal(waits, []time.Duration{time.Second}) {
		t.Errorf("waits = %v, want [1s]", waits)
	}
}

func TestRun_SatisfiedImmediately(t *testing.T) {
	clock := NewManualClock(epoch)
	w := New(func() bool { return true }, 0, WithClock(clock))
	if !w.Run(context.Background()) {
		t.Fatal("Run() = false, want true")
	}
	if len(clock.Waits()) != 0 {
		t.Error("a satisfied wait must not sleep")
	}
}

func TestRun_TimesOut(t *testing.T) {
	tests := []struct {
		timeout   time.Duration
		interval  time.Duration
		wantPolls int
	}{
		{3 * time.Second, time.Second, 4},
		{2500 * time.Millisecond, time.Second, 4},
		{time.Second, 250 * time.Millisecond, 5},
	}
	for _, tt := range tests {
		clock := NewManualClock(epoch)
		w := New(Never, tt.timeout, WithClock(clock), WithInterval(tt.interval))
		if w.Run(context.Background()) {
			t.Errorf("timeout %v: Run() = true, want false", tt.timeout)
		}
		if w.Polls() != tt.wantPolls {
			t.Errorf("timeout %v interval %v: Polls() = %d, want %d", tt.timeout, tt.interval, w.Polls(), tt.wantPolls)
		}
		if w.Elapsed() < tt.timeout {
			t.Errorf("timeout %v: Elapsed() = %v, want at least the timeout", tt.timeout, w.Elapsed())
		}
	}
}

func TestStep_StateMachine(t *testing.T) {
	clock := NewManualClock(epoch)
	pred, _ := trueAfter(3)
	w := New(pred, 10*time.Second, WithClock(clock))
	if got := w.State(); got != Pending {
		t.Fatalf("initial State() = %v, want pending", got)
	}
	if got := w.Step(); got != Pending {
		t.Errorf("first Step() = %v, want pending", got)
	}
	clock.Advance(time.Second)
	if got := w.Step(); got != Pending {
		t.Errorf("second Step() = %v, want pending", got)
	}
	if got := w.Step(); got != Satisfied {
		t.Errorf("third Step() = %v, want satisfied", got)
	}
	if got := w.Step(); got != Satisfied || w.Polls() != 3 {
		t.Errorf("Step() after terminal = %v with %d polls, want satisfied with 3", got, w.Polls())
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := New(Never, time.Hour, WithInterval(time.Hour))
	if w.Run(ctx) {
		t.Fatal("Run() = true, want false")
	}
	if w.State() != TimedOut {
		t.Errorf("State() = %v, want timed-out", w.State())
	}
}

func TestRun_RealClock(t *testing.T) {
	start := time.Now()
	w := New(Never, 30*time.Millisecond, WithInterval(10*time.Millisecond))
	if w.Run(context.Background()) {
		t.Fatal("Run() = true, want false")
	}
	if time.Since(start) < 30*time.Millisecond {
		t.Errorf("returned after %v, before the timeout", time.Since(start))
	}
}

type fakeResolver struct {
	windows map[string]bool
	objects map[string]bool
}

var errMissing = errors.New("missing")

func (f *fakeResolver) Window(name string) (model.Node, error) {
	if f.windows[name] {
		return nil, nil
	}
	return nil, errMissing
}

func (f *fakeResolver) Object(window, object string) (model.Node, error) {
	if f.windows[window] && f.objects[object] {
		return nil, nil
	}
	return nil, errMissing
}

func TestPredicates(t *testing.T) {
	r := &fakeResolver{windows: map[string]bool{"Calculator": true}, objects: map[string]bool{"Clear": true}}
	tests := []struct {
		name string
		p    Predicate
		want bool
	}{
		{"window exists", Exists(r, "Calculator", ""), true},
		{"window missing", Exists(r, "Notepad", ""), false},
		{"object exists", Exists(r, "Calculator", "Clear"), true},
		{"object missing", Exists(r, "Calculator", "Equals"), false},
		{"object in missing window", ObjectExists(r, "Notepad", "Clear"), false},
		{"not exists", Not(GuiExists(r, "Notepad")), true},
		{"never", Never, false},
	}
	for _, tt := range tests {
		if got := tt.p(); got != tt.want {
			t.Errorf("%s: predicate = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want time.Duration
	}{
		{0, 0},
		{-3, 0},
		{1, time.Second},
		{0.5, 500 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := Seconds(tt.in); got != tt.want {
			t.Errorf("Seconds(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
