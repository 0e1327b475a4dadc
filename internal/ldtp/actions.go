package ldtp

import (
	"fmt"
	"strings"

	"github.com/mj1618/ldtpd/internal/model"
	"github.com/mj1618/ldtpd/internal/naming"
)

// GrabFocus focuses an object.
func (s *Service) GrabFocus(window, object string) error {
	n, err := s.resolver.Object(window, object)
	if err != nil {
		return err
	}
	c, err := model.ComponentOf(n)
	if err != nil {
		return err
	}
	return c.GrabFocus()
}

// Click runs the object's click action. Toggle buttons also accept
// activate and combo boxes press.
func (s *Service) Click(window, object string) error {
	n, err := s.focused(window, object)
	if err != nil {
		return err
	}
	switch n.Role() {
	case model.RoleToggleButton:
		return doAction(n, "click", "activate")
	case model.RoleComboBox:
		return doAction(n, "click", "press")
	}
	return doAction(n, "click")
}

// Press runs the object's press action.
func (s *Service) Press(window, object string) error {
	n, err := s.focused(window, object)
	if err != nil {
		return err
	}
	return doAction(n, "press")
}

// Check clicks the object unless it is already checked.
func (s *Service) Check(window, object string) error {
	return s.setChecked(window, object, true)
}

// Uncheck clicks the object if it is checked.
func (s *Service) Uncheck(window, object string) error {
	return s.setChecked(window, object, false)
}

func (s *Service) setChecked(window, object string, on bool) error {
	n, err := s.focused(window, object)
	if err != nil {
		return err
	}
	if model.HasState(n, model.StateChecked) == on {
		return nil
	}
	return doAction(n, "click")
}

// SelectMenuItem clicks a menu item addressed by a ';'-separated path
// such as "mnuFile;mnuOpen". The first element gets the "mnu" prefix when
// it lacks one; each following element is matched among the descendants
// of the previous one.
func (s *Service) SelectMenuItem(window, path string) error {
	n, err := s.menuItem(window, path)
	if err != nil {
		return err
	}
	if err := grabFocus(n); err != nil {
		return err
	}
	return doAction(n, "click")
}

func (s *Service) menuItem(window, path string) (model.Node, error) {
	parts := strings.Split(path, ";")
	if !strings.HasPrefix(parts[0], "mnu") {
		parts[0] = "mnu" + parts[0]
	}
	n, err := s.resolver.Object(window, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		next := findDescendant(n, part)
		if next == nil {
			return nil, fmt.Errorf("menu item %q doesn't exist in hierarchy", part)
		}
		n = next
	}
	return n, nil
}

// findDescendant returns the first node below n, depth-first, that name
// refers to.
func findDescendant(n model.Node, name string) model.Node {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.ChildAt(i)
		if c == nil {
			continue
		}
		if naming.MatchNode(name, c) {
			return c
		}
		if found := findDescendant(c, name); found != nil {
			return found
		}
	}
	return nil
}
