package registry

import (
	"context"
	"testing"
	"time"

	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/platform"
	"github.com/mj1618/ldtpd/internal/platform/sim"
)

func newDesktop() *sim.Desktop {
	return sim.New(&model.Desktop{Applications: []*model.Application{
		{Name: "gnome-calculator", Windows: []*model.Element{{Role: model.RoleFrame, Name: "Calculator"}}},
		{Name: "<unknown>", Windows: []*model.Element{nil, {Role: model.RoleWindow}}},
	}})
}

func TestNew_SeedsFromDesktop(t *testing.T) {
	r, err := New(newDesktop(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := len(r.Applications()); got != 2 {
		t.Errorf("Applications() len = %d, want 2", got)
	}
	names := r.ApplicationNames()
	if len(names) != 1 || names[0] != "gnome-calculator" {
		t.Errorf("ApplicationNames() = %v, want [gnome-calculator]", names)
	}
	windows := r.Windows()
	if len(windows) != 2 {
		t.Fatalf("Windows() len = %d, want 2 (gap skipped)", len(windows))
	}
	if windows[0].Name() != "Calculator" {
		t.Errorf("first window = %q, want Calculator", windows[0].Name())
	}
}

func TestUpdate_AddsNewApplicationOnce(t *testing.T) {
	d := newDesktop()
	r, err := New(d, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.AddWindow("gedit", &model.Element{Role: model.RoleFrame, Name: "Untitled"})
	ev := <-d.Events()
	r.Update(ev)
	r.Update(ev)
	apps := r.Applications()
	if len(apps) != 3 {
		t.Fatalf("Applications() len = %d, want 3", len(apps))
	}
	if apps[2].Name() != "gedit" {
		t.Errorf("new application = %q, want gedit (appended last)", apps[2].Name())
	}
}

func TestUpdate_IgnoresNilApplication(t *testing.T) {
	r, _ := New(newDesktop(), nil)
	r.Update(platform.Event{Kind: platform.WindowCreated})
	if got := len(r.Applications()); got != 2 {
		t.Errorf("Applications() len = %d, want 2", got)
	}
}

func TestApplications_PrunesDefunct(t *testing.T) {
	d := newDesktop()
	r, _ := New(d, nil)
	d.Replace(&model.Desktop{Applications: []*model.Application{
		{Name: "xterm", Windows: []*model.Element{{Role: model.RoleFrame, Name: "Terminal"}}},
	}})
	if got := len(r.Applications()); got != 0 {
		t.Fatalf("after Replace, Applications() len = %d, want 0 (all defunct)", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Watch(ctx, d.Events())
		close(done)
	}()
	deadline := time.Now().Add(2 * time.Second)
	for len(r.Applications()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
	windows := r.Windows()
	if len(windows) != 1 || windows[0].Name() != "Terminal" {
		t.Errorf("Windows() after watch = %v, want [Terminal]", windows)
	}
}
