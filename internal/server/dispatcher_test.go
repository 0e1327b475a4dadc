package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/mj1618/ldtpd/internal/ldtp"
	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/platform/sim"
	"github.com/mj1618/ldtpd/internal/registry"
	"github.com/mj1618/ldtpd/internal/waiter"
)

func calculator() *model.Desktop {
	return &model.Desktop{Applications: []*model.Application{{
		Name: "gnome-calculator",
		Windows: []*model.Element{{
			Role: model.RoleFrame, Name: "Calculator",
			Children: []*model.Element{
				{Role: model.RolePushButton, Name: "Clear", Actions: []string{"click"}},
				{Role: model.RoleLabel, Name: "Result"},
			},
		}},
	}}}
}

type sleeps struct{ got []time.Duration }

func (s *sleeps) sleep(d time.Duration) { s.got = append(s.got, d) }

func newDispatcher(t *testing.T, logs *bytes.Buffer, opts ...Option) (*Dispatcher, *sim.Desktop) {
	t.Helper()
	d := sim.New(calculator())
	reg, err := registry.New(d, nil)
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	svc := ldtp.NewService(reg, ldtp.Options{Clock: waiter.NewManualClock(time.Unix(0, 0))})
	if logs == nil {
		logs = &bytes.Buffer{}
	}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewDispatcher(svc, append([]Option{WithLogger(logger)}, opts...)...), d
}

func TestExempt(t *testing.T) {
	tests := []struct {
		method string
		want   bool
	}{
		{"waittillguiexist", true},
		{"guiexist", true},
		{"hasstate", true},
		{"getobjectlist", true},
		{"verifycheck", true},
		{"stateenabled", true},
		{"launchapp", true},
		{"imagecapture", true},
		{"click", false},
		{"settextvalue", false},
		{"selectmenuitem", false},
		{"remap", false},
		{"grabfocus", false},
	}
	for _, tt := range tests {
		if got := Exempt(tt.method); got != tt.want {
			t.Errorf("Exempt(%q) = %v, want %v", tt.method, got, tt.want)
		}
	}
}

func TestDispatch_Pacing(t *testing.T) {
	s := &sleeps{}
	d, desk := newDispatcher(t, nil, WithCommandDelay(2*time.Second), WithSleeper(s.sleep))
	ctx := context.Background()

	for _, call := range []struct {
		method string
		params []any
	}{
		{"click", []any{"Calculator", "Clear"}},
		{"guiexist", []any{"Calculator"}},
		{"getobjectlist", []any{"Calculator"}},
		{"system.listMethods", nil},
		{"click", []any{"Calculator", "btnClear"}},
	} {
		if _, err := d.Dispatch(ctx, call.method, call.params); err != nil {
			t.Fatalf("Dispatch(%s): %v", call.method, err)
		}
	}
	if want := []time.Duration{2 * time.Second, 2 * time.Second}; !slices.Equal(s.got, want) {
		t.Errorf("slept %v, want %v", s.got, want)
	}
	if got := desk.Find("gnome-calculator", "Calculator", "Clear").Invocations("click"); got != 2 {
		t.Errorf("Clear clicked %d times, want 2", got)
	}
}

func TestDispatch_NoDelayByDefault(t *testing.T) {
	s := &sleeps{}
	d, _ := newDispatcher(t, nil, WithSleeper(s.sleep))
	if _, err := d.Dispatch(context.Background(), "click", []any{"Calculator", "Clear"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(s.got) != 0 {
		t.Errorf("slept %v without a command delay", s.got)
	}
}

func TestDispatch_LogsEveryCall(t *testing.T) {
	var logs bytes.Buffer
	d, _ := newDispatcher(t, &logs)
	ctx := context.Background()
	d.Dispatch(ctx, "click", []any{"Calculator", "Clear"})
	d.Dispatch(ctx, "guiexist", []any{"Calculator", map[string]any{"object_name": "Nope"}})
	d.Dispatch(ctx, "click", []any{"Notepad", "Clear"})

	out := logs.String()
	for _, want := range []string{
		`msg="click(\"Calculator\", \"Clear\")"`,
		`msg="guiexist(\"Calculator\", object_name=\"Nope\")"`,
		`msg="click(\"Notepad\", \"Clear\")"`,
		`fault="unable to find window \"Notepad\"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s\n%s", want, out)
		}
	}
	if n := strings.Count(out, "level=INFO"); n != 3 {
		t.Errorf("logged %d INFO lines, want 3", n)
	}
}

func TestDispatch_Kwargs(t *testing.T) {
	d, _ := newDispatcher(t, nil)
	out, err := d.Dispatch(context.Background(), "guiexist", []any{map[string]any{"window_name": "Calculator", "object_name": "Result"}})
	if err != nil || out != 1 {
		t.Errorf("guiexist(kwargs) = %v, %v, want 1", out, err)
	}
}

func TestFaultFor(t *testing.T) {
	d, _ := newDispatcher(t, nil)
	ctx := context.Background()
	call := func(method string, params ...any) error {
		_, err := d.Dispatch(ctx, method, params)
		return err
	}

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"unknown method", call("launchapp", "gedit"), FaultMethodNotFound, `"launchapp"`},
		{"window", call("click", "Notepad", "Clear"), FaultGeneric, `unable to find window "Notepad"`},
		{"object", call("click", "Calculator", "Equals"), FaultGeneric, `unable to find object name "Equals"`},
		{"unsupported", call("settextvalue", "Calculator", "Clear", "x"), FaultGeneric, "does not have a editable text interface"},
		{"arguments", call("click", "Calculator"), FaultGeneric, `missing required argument "object_name"`},
		{"malformed", fmt.Errorf("%w: %v", ErrMalformedRequest, errors.New("EOF")), FaultGeneric, "Can't deserialize input: EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatal("call succeeded, want error")
			}
			f := FaultFor(tt.err)
			if f.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", f.Code, tt.wantCode)
			}
			if !strings.Contains(f.Message, tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", f.Message, tt.wantMsg)
			}
		})
	}
}

func TestIntrospection(t *testing.T) {
	names := ListMethods()
	for _, want := range []string{"click", "waittillguiexist", "system.listMethods", "system.methodHelp"} {
		if !slices.Contains(names, want) {
			t.Errorf("ListMethods() missing %s", want)
		}
	}
	if !slices.IsSorted(names) {
		t.Error("ListMethods() not sorted")
	}

	d, _ := newDispatcher(t, nil)
	out, err := d.Dispatch(context.Background(), "system.methodHelp", []any{"click"})
	if err != nil {
		t.Fatalf("methodHelp: %v", err)
	}
	if got, want := out, "click(window_name, object_name)\n\nClick an object."; got != want {
		t.Errorf("methodHelp(click) = %q, want %q", got, want)
	}
	if _, err := MethodHelp("launchapp"); !errors.Is(err, ErrMethodNotFound) {
		t.Errorf("MethodHelp(launchapp) err = %v, want ErrMethodNotFound", err)
	}
}
