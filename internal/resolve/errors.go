package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrNotFound is wrapped by every resolution failure.
var ErrNotFound = errors.New("not found")

// Kind names what failed to resolve.
type Kind string

const (
	KindWindow Kind = "window"
	KindObject Kind = "object"
)

const maxSuggestions = 3

// NotFoundError reports a window or object name that matched nothing,
// with the closest known names when there are any.
type NotFoundError struct {
	Kind        Kind
	Name        string
	Window      string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	var msg string
	if e.Kind == KindWindow {
		msg = fmt.Sprintf("unable to find window %q", e.Name)
	} else {
		msg = fmt.Sprintf("unable to find object name %q in application map", e.Name)
	}
	if len(e.Suggestions) > 0 {
		quoted := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		msg += " (did you mean " + strings.Join(quoted, ", ") + "?)"
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// IsNotFound reports whether err is a resolution failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// suggest ranks candidates by fuzzy similarity to name.
func suggest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}
	matches := fuzzy.Find(name, candidates)
	var out []string
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
