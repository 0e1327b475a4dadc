package ldtp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidArguments is wrapped by every argument binding failure.
var ErrInvalidArguments = errors.New("invalid arguments")

// Kind is the type a parameter is coerced to.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
)

// Param describes one parameter. A nil Default makes it required.
type Param struct {
	Name    string
	Kind    Kind
	Default any
}

func required(name string) Param { return Param{Name: name, Kind: KindString} }

func optional(name string, kind Kind, def any) Param {
	return Param{Name: name, Kind: kind, Default: def}
}

var (
	windowName = required("window_name")
	objectName = required("object_name")
)

// Params holds bound, coerced arguments keyed by parameter name.
type Params map[string]any

func (p Params) String(key string) string {
	s, _ := p[key].(string)
	return s
}

func (p Params) Int(key string) int {
	n, _ := p[key].(int)
	return n
}

func (p Params) Float(key string) float64 {
	f, _ := p[key].(float64)
	return f
}

func (p Params) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Operation is one remote procedure.
type Operation struct {
	Name   string
	Help   string
	Params []Param
	Run    func(ctx context.Context, s *Service, p Params) (any, error)
}

// Signature renders the operation as name(param, param=default).
func (op Operation) Signature() string {
	parts := make([]string, len(op.Params))
	for i, p := range op.Params {
		switch d := p.Default.(type) {
		case nil:
			parts[i] = p.Name
		case string:
			parts[i] = fmt.Sprintf("%s=%q", p.Name, d)
		default:
			parts[i] = fmt.Sprintf("%s=%v", p.Name, d)
		}
	}
	return op.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Bind matches positional and keyword arguments against the parameter
// list, fills defaults and coerces every value to its parameter's kind.
func (op Operation) Bind(args []any, kwargs map[string]any) (Params, error) {
	if len(args) > len(op.Params) {
		return nil, fmt.Errorf("%w: %s() takes %d arguments, %d given", ErrInvalidArguments, op.Name, len(op.Params), len(args))
	}
	raw := make(map[string]any, len(op.Params))
	for i, a := range args {
		raw[op.Params[i].Name] = a
	}
	for k, v := range kwargs {
		if !op.hasParam(k) {
			return nil, fmt.Errorf("%w: %s() got an unexpected keyword argument %q", ErrInvalidArguments, op.Name, k)
		}
		if _, dup := raw[k]; dup {
			return nil, fmt.Errorf("%w: %s() got multiple values for argument %q", ErrInvalidArguments, op.Name, k)
		}
		raw[k] = v
	}
	params := make(Params, len(op.Params))
	for _, p := range op.Params {
		v, ok := raw[p.Name]
		if !ok {
			if p.Default == nil {
				return nil, fmt.Errorf("%w: %s() missing required argument %q", ErrInvalidArguments, op.Name, p.Name)
			}
			v = p.Default
		}
		c, err := coerce(v, p.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %s() argument %q: %v", ErrInvalidArguments, op.Name, p.Name, err)
		}
		params[p.Name] = c
	}
	return params, nil
}

func (op Operation) hasParam(name string) bool {
	for _, p := range op.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func coerce(v any, kind Kind) (any, error) {
	switch kind {
	case KindString:
		switch x := v.(type) {
		case string:
			return x, nil
		case int, int64, float64, bool:
			return fmt.Sprintf("%v", x), nil
		}
	case KindInt:
		switch x := v.(type) {
		case int:
			return x, nil
		case int64:
			return int(x), nil
		case float64:
			if x == math.Trunc(x) {
				return int(x), nil
			}
		case bool:
			return flag(x), nil
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
				return n, nil
			}
		}
	case KindFloat:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
				return f, nil
			}
		}
	case KindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case int:
			return x != 0, nil
		case int64:
			return x != 0, nil
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(x)); err == nil {
				return b, nil
			}
		}
	}
	return nil, fmt.Errorf("cannot use %T %v as %s", v, v, kind)
}

var byName = func() map[string]Operation {
	m := make(map[string]Operation, len(operations))
	for _, op := range operations {
		m[op.Name] = op
	}
	return m
}()

// Lookup returns the named operation.
func Lookup(name string) (Operation, bool) {
	op, ok := byName[name]
	return op, ok
}

// Operations returns every operation sorted by name.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call binds the arguments and runs the named operation.
func (s *Service) Call(ctx context.Context, name string, args []any, kwargs map[string]any) (any, error) {
	op, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidArguments, name)
	}
	p, err := op.Bind(args, kwargs)
	if err != nil {
		return nil, err
	}
	return op.Run(ctx, s, p)
}
