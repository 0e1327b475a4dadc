package ldtp

import (
	"fmt"

	"github.com/mj1618/ldtpd/internal/model"
)

// GetTextValue returns the object's text.
func (s *Service) GetTextValue(window, object string) (string, error) {
	n, err := s.resolver.Object(window, object)
	if err != nil {
		return "", err
	}
	return model.TextContents(n)
}

// SetTextValue replaces the object's text.
func (s *Service) SetTextValue(window, object, text string) error {
	n, err := s.focused(window, object)
	if err != nil {
		return err
	}
	ed, err := model.EditableTextOf(n)
	if err != nil {
		return err
	}
	return ed.SetTextContents(text)
}

// GetCharCount returns the length of the object's text.
func (s *Service) GetCharCount(window, object string) (int, error) {
	n, err := s.resolver.Object(window, object)
	if err != nil {
		return 0, err
	}
	t, err := model.TextOf(n)
	if err != nil {
		return 0, err
	}
	return t.CharacterCount(), nil
}

func (s *Service) value(window, object string) (model.Value, error) {
	n, err := s.resolver.Object(window, object)
	if err != nil {
		return nil, err
	}
	return model.ValueOf(n)
}

// GetValue returns the object's current numeric value.
func (s *Service) GetValue(window, object string) (float64, error) {
	v, err := s.value(window, object)
	if err != nil {
		return 0, err
	}
	return v.CurrentValue(), nil
}

// SetValue sets the object's numeric value.
func (s *Service) SetValue(window, object string, value float64) error {
	v, err := s.value(window, object)
	if err != nil {
		return err
	}
	return v.SetCurrentValue(value)
}

// GetMinValue returns the object's minimum value.
func (s *Service) GetMinValue(window, object string) (float64, error) {
	v, err := s.value(window, object)
	if err != nil {
		return 0, err
	}
	return v.MinimumValue(), nil
}

// GetMaxValue returns the object's maximum value.
func (s *Service) GetMaxValue(window, object string) (float64, error) {
	v, err := s.value(window, object)
	if err != nil {
		return 0, err
	}
	return v.MaximumValue(), nil
}

// GetMinIncrement returns the object's minimum increment.
func (s *Service) GetMinIncrement(window, object string) (float64, error) {
	v, err := s.value(window, object)
	if err != nil {
		return 0, err
	}
	return v.MinimumIncrement(), nil
}

func (s *Service) table(window, object string) (model.Table, error) {
	n, err := s.resolver.Object(window, object)
	if err != nil {
		return nil, err
	}
	return model.TableOf(n)
}

// GetRowCount returns the number of rows of a table.
func (s *Service) GetRowCount(window, object string) (int, error) {
	t, err := s.table(window, object)
	if err != nil {
		return 0, err
	}
	return t.RowCount(), nil
}

// GetCellValue returns the text of a table cell, or its name when the
// cell has no text.
func (s *Service) GetCellValue(window, object string, row, column int) (string, error) {
	t, err := s.table(window, object)
	if err != nil {
		return "", err
	}
	if row < 0 || row >= t.RowCount() || column < 0 || column >= t.ColumnCount() {
		return "", fmt.Errorf("cell (%d, %d) is out of range", row, column)
	}
	cell := t.CellAt(row, column)
	if cell == nil {
		return "", fmt.Errorf("unable to get cell (%d, %d)", row, column)
	}
	if text, err := model.TextContents(cell); err == nil {
		return text, nil
	}
	return cell.Name(), nil
}

// SelectIndex selects the child at index.
func (s *Service) SelectIndex(window, object string, index int) error {
	n, err := s.focused(window, object)
	if err != nil {
		return err
	}
	sel, err := model.SelectionOf(n)
	if err != nil {
		return err
	}
	return sel.SelectChild(index)
}
