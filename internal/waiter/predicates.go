package waiter

import "github.com/mj1618/ldtpd/internal/model"

// Resolver is what the existence predicates look names up with.
type Resolver interface {
	Window(name string) (model.Node, error)
	Object(windowName, objectName string) (model.Node, error)
}

// GuiExists holds while a window matching name resolves.
func GuiExists(r Resolver, window string) Predicate {
	return func() bool {
		_, err := r.Window(window)
		return err == nil
	}
}

// ObjectExists holds while the object resolves inside the window.
func ObjectExists(r Resolver, window, object string) Predicate {
	return func() bool {
		_, err := r.Object(window, object)
		return err == nil
	}
}

// Exists picks GuiExists or ObjectExists depending on whether an object
// name is given.
func Exists(r Resolver, window, object string) Predicate {
	if object == "" {
		return GuiExists(r, window)
	}
	return ObjectExists(r, window, object)
}

// Not inverts p.
func Not(p Predicate) Predicate {
	return func() bool { return !p() }
}

// Never is the predicate of a pure delay.
func Never() bool { return false }
