package ldtp

import (
	"sort"

	"github.com/mj1618/ldtpd/internal/model"
)

// GetAllStates returns the numeric codes of the object's states.
func (s *Service) GetAllStates(window, object string) ([]int, error) {
	n, err := s.resolver.Object(window, object)
	if err != nil {
		return nil, err
	}
	codes := []int{}
	for _, st := range n.States() {
		if code, ok := model.StateCode(st); ok {
			codes = append(codes, code)
		}
	}
	sort.Ints(codes)
	return codes, nil
}

// HasState reports whether the object carries state. Resolution failures
// read as false.
func (s *Service) HasState(window, object, state string) bool {
	n, err := s.resolver.Object(window, object)
	if err != nil {
		return false
	}
	return model.HasState(n, state)
}

// StateEnabled reports whether the object is enabled.
func (s *Service) StateEnabled(window, object string) bool {
	return s.HasState(window, object, model.StateEnabled)
}

// VerifyCheck reports whether the object is checked.
func (s *Service) VerifyCheck(window, object string) bool {
	return s.HasState(window, object, model.StateChecked)
}

// VerifyUncheck reports whether the object resolves and is not checked.
func (s *Service) VerifyUncheck(window, object string) bool {
	n, err := s.resolver.Object(window, object)
	if err != nil {
		return false
	}
	return !model.HasState(n, model.StateChecked)
}

// GetObjectSize returns [x, y, width, height] of an object.
func (s *Service) GetObjectSize(window, object string) ([]int, error) {
	n, err := s.resolver.Object(window, object)
	if err != nil {
		return nil, err
	}
	return extents(n)
}
