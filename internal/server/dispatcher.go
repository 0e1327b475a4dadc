// Package server exposes the operation surface over XML-RPC. Calls are
// served one at a time, in arrival order.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mj1618/ldtpd/internal/ldtp"
)

// Fault codes.
const (
	FaultGeneric        = 1
	FaultMethodNotFound = 8001
)

var (
	// ErrMalformedRequest is wrapped by request decoding failures.
	ErrMalformedRequest = errors.New("malformed request")
	// ErrMethodNotFound is wrapped when no operation has the called name.
	ErrMethodNotFound = errors.New("method not found")
)

// exemptPattern selects the calls that skip the command delay: queries
// and waits, which do not change application state.
var exemptPattern = regexp.MustCompile(`wait|exist|has|get|verify|enabled|launch|image`)

// Exempt reports whether a call runs without the command delay.
func Exempt(method string) bool {
	return exemptPattern.MatchString(method)
}

// Dispatcher serializes calls onto a Service.
type Dispatcher struct {
	mu      sync.Mutex
	service *ldtp.Service
	delay   time.Duration
	sleep   func(time.Duration)
	logger  *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithCommandDelay sets the pause taken before every non-exempt call.
func WithCommandDelay(d time.Duration) Option {
	return func(ds *Dispatcher) { ds.delay = d }
}

// WithSleeper replaces time.Sleep for the command delay.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(ds *Dispatcher) { ds.sleep = sleep }
}

// WithLogger sets the call logger.
func WithLogger(l *slog.Logger) Option {
	return func(ds *Dispatcher) { ds.logger = l }
}

// NewDispatcher returns a dispatcher over service.
func NewDispatcher(service *ldtp.Service, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		service: service,
		sleep:   time.Sleep,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs one call. A trailing struct parameter holds keyword
// arguments.
func (d *Dispatcher) Dispatch(ctx context.Context, method string, params []any) (any, error) {
	args, kwargs := splitKwargs(params)
	id := uuid.NewString()
	d.logger.Info(formatCall(method, args, kwargs), "id", id)

	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	out, err := d.run(ctx, method, args, kwargs)
	attrs := []any{"id", id, "method", method, "duration", time.Since(start)}
	if err != nil {
		attrs = append(attrs, "fault", err.Error())
	}
	d.logger.Debug("call finished", attrs...)
	return out, err
}

func (d *Dispatcher) run(ctx context.Context, method string, args []any, kwargs map[string]any) (any, error) {
	switch method {
	case "system.listMethods":
		return ListMethods(), nil
	case "system.methodHelp":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: system.methodHelp takes 1 argument", ldtp.ErrInvalidArguments)
		}
		name, _ := args[0].(string)
		return MethodHelp(name)
	}

	if _, ok := ldtp.Lookup(method); !ok {
		return nil, fmt.Errorf("%w: %q", ErrMethodNotFound, method)
	}
	if d.delay > 0 && !Exempt(method) {
		d.sleep(d.delay)
	}
	return d.service.Call(ctx, method, args, kwargs)
}

// ListMethods returns every callable method name, sorted.
func ListMethods() []string {
	ops := ldtp.Operations()
	names := make([]string, 0, len(ops)+2)
	for _, op := range ops {
		names = append(names, op.Name)
	}
	names = append(names, "system.listMethods", "system.methodHelp")
	sort.Strings(names)
	return names
}

// MethodHelp returns the signature and help text of a method.
func MethodHelp(name string) (string, error) {
	switch name {
	case "system.listMethods":
		return "system.listMethods()\n\nList the names of every method.", nil
	case "system.methodHelp":
		return "system.methodHelp(method_name)\n\nDescribe a method.", nil
	}
	op, ok := ldtp.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMethodNotFound, name)
	}
	return op.Signature() + "\n\n" + op.Help, nil
}

func splitKwargs(params []any) ([]any, map[string]any) {
	if n := len(params); n > 0 {
		if kw, ok := params[n-1].(map[string]any); ok {
			return params[:n-1], kw
		}
	}
	return params, nil
}

// formatCall renders a call as name(arg, arg, key=value).
func formatCall(method string, args []any, kwargs map[string]any) string {
	parts := make([]string, 0, len(args)+len(kwargs))
	for _, a := range args {
		parts = append(parts, formatArg(a))
	}
	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+formatArg(kwargs[k]))
	}
	return method + "(" + strings.Join(parts, ", ") + ")"
}

func formatArg(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

// FaultFor converts a call error into the fault returned to the client.
func FaultFor(err error) *Fault {
	var f *Fault
	switch {
	case errors.As(err, &f):
		return f
	case errors.Is(err, ErrMethodNotFound):
		return &Fault{Code: FaultMethodNotFound, Message: err.Error()}
	case errors.Is(err, ErrMalformedRequest):
		return &Fault{Code: FaultGeneric, Message: "Can't deserialize input: " + strings.TrimPrefix(err.Error(), ErrMalformedRequest.Error()+": ")}
	}
	return &Fault{Code: FaultGeneric, Message: err.Error()}
}
