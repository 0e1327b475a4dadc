package ldtp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/mj1618/ldtpd/internal/appmap"
)

// ErrNoChild is returned by GetChild when nothing matches.
var ErrNoChild = errors.New("could not find a child")

// GetObjectList returns the identifiers of a window's AppMap in walk
// order.
func (s *Service) GetObjectList(window string) ([]string, error) {
	_, m, err := s.resolver.Map(window, false)
	if err != nil {
		return nil, err
	}
	return m.Keys(), nil
}

// GetObjectInfo returns the names of the object's non-empty properties.
func (s *Service) GetObjectInfo(window, object string) ([]string, error) {
	match, err := s.resolver.Find(window, object)
	if err != nil {
		return nil, err
	}
	props := []string{}
	for _, name := range appmap.PropertyNames {
		v, _ := match.Descriptor.Property(name)
		if !isEmpty(v) {
			props = append(props, name)
		}
	}
	return props, nil
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case string:
		return x == ""
	case int:
		return x == 0
	case []string:
		return len(x) == 0
	}
	return v == nil
}

// GetObjectProperty returns one property of the object's descriptor.
func (s *Service) GetObjectProperty(window, object, prop string) (any, error) {
	match, err := s.resolver.Find(window, object)
	if err != nil {
		return nil, err
	}
	v, ok := match.Descriptor.Property(prop)
	if !ok {
		return nil, fmt.Errorf("unknown property %q in %s", prop, object)
	}
	return v, nil
}

// GetChild lists objects by name, by role, or by both. With only a name,
// the descendants of the first matching object are returned; with a
// role, every object of that role (and matching the name, if given).
func (s *Service) GetChild(window, childName, role string, first bool) ([]string, error) {
	_, m, err := s.resolver.Map(window, false)
	if err != nil {
		return nil, err
	}
	class := strings.ReplaceAll(role, " ", "_")
	var matches []string
	found := false
	for _, d := range m.Descriptors() {
		switch {
		case class != "" && childName == "":
			if d.Class == class {
				matches = append(matches, d.Key)
			}
		case class == "" && childName != "":
			if d.Matches(childName) {
				matches = m.Descendants(d.Key)
				found = true
			}
		case class != "" && childName != "":
			if d.Class == class && d.Matches(childName) {
				matches = append(matches, d.Key)
			}
		}
		if found {
			break
		}
	}
	if len(matches) == 0 {
		return nil, ErrNoChild
	}
	if first {
		matches = matches[:1]
	}
	return matches, nil
}

// FilterObjects returns the identifiers of every object for which the
// boolean expression holds. The expression sees the descriptor
// properties (key, class, label, children, ...) as variables.
func (s *Service) FilterObjects(window, expression string) ([]string, error) {
	_, m, err := s.resolver.Map(window, false)
	if err != nil {
		return nil, err
	}
	program, err := expr.Compile(expression, expr.Env(appmap.Descriptor{}.Properties()), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	keys := []string{}
	for _, d := range m.Descriptors() {
		out, err := expr.Run(program, d.Properties())
		if err != nil {
			return nil, fmt.Errorf("eval filter %q on %s: %w", expression, d.Key, err)
		}
		if ok, _ := out.(bool); ok {
			keys = append(keys, d.Key)
		}
	}
	return keys, nil
}
