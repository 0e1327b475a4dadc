package sim

import (
	"fmt"

	"github.com/mj1618/ldtpd/internal/model"
)

type actionCap struct{ n *Node }

func (a actionCap) NActions() int {
	a.n.d.mu.RLock()
	defer a.n.d.mu.RUnlock()
	return len(a.n.actions)
}

func (a actionCap) ActionName(i int) string {
	a.n.d.mu.RLock()
	defer a.n.d.mu.RUnlock()
	if i < 0 || i >= len(a.n.actions) {
		return ""
	}
	return a.n.actions[i]
}

func (a actionCap) DoAction(i int) error {
	n := a.n
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	if n.defunct {
		return fmt.Errorf("object %q is defunct", n.name)
	}
	if i < 0 || i >= len(n.actions) {
		return fmt.Errorf("action index %d out of range", i)
	}
	name := n.actions[i]
	n.invocations[name]++
	n.d.log = append(n.d.log, Invocation{Path: n.path(), Action: name})

	switch name {
	case "click", "toggle", "activate", "press":
		if model.IsCheckable(n.role) {
			on := !n.hasState(model.StateChecked)
			n.setState(model.StateChecked, on)
			if n.role == model.RoleToggleButton {
				n.setState(model.StatePressed, on)
			}
		}
	}
	return nil
}

type textCap struct{ n *Node }

func (t textCap) CharacterCount() int {
	t.n.d.mu.RLock()
	defer t.n.d.mu.RUnlock()
	if t.n.text == nil {
		return 0
	}
	return len([]rune(*t.n.text))
}

func (t textCap) TextRange(start, end int) string {
	t.n.d.mu.RLock()
	defer t.n.d.mu.RUnlock()
	if t.n.text == nil {
		return ""
	}
	r := []rune(*t.n.text)
	if end < 0 || end > len(r) {
		end = len(r)
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		return ""
	}
	return string(r[start:end])
}

func (t textCap) SetTextContents(text string) error {
	t.n.d.mu.Lock()
	defer t.n.d.mu.Unlock()
	if !t.n.editable {
		return fmt.Errorf("object %q is not editable", t.n.name)
	}
	t.n.text = &text
	return nil
}

type valueCap struct{ n *Node }

func (v valueCap) get() model.ValueRange {
	v.n.d.mu.RLock()
	defer v.n.d.mu.RUnlock()
	return *v.n.value
}

func (v valueCap) CurrentValue() float64     { return v.get().Current }
func (v valueCap) MinimumValue() float64     { return v.get().Min }
func (v valueCap) MaximumValue() float64     { return v.get().Max }
func (v valueCap) MinimumIncrement() float64 { return v.get().Increment }

func (v valueCap) SetCurrentValue(val float64) error {
	v.n.d.mu.Lock()
	defer v.n.d.mu.Unlock()
	r := v.n.value
	if val < r.Min || val > r.Max {
		return fmt.Errorf("value %g outside range [%g, %g]", val, r.Min, r.Max)
	}
	r.Current = val
	return nil
}

type tableCap struct{ n *Node }

func (t tableCap) RowCount() int {
	t.n.d.mu.RLock()
	defer t.n.d.mu.RUnlock()
	return t.n.table.Rows
}

func (t tableCap) ColumnCount() int {
	t.n.d.mu.RLock()
	defer t.n.d.mu.RUnlock()
	return t.n.table.Columns
}

func (t tableCap) CellAt(row, column int) model.Node {
	t.n.d.mu.RLock()
	defer t.n.d.mu.RUnlock()
	shape := t.n.table
	if row < 0 || row >= shape.Rows || column < 0 || column >= shape.Columns {
		return nil
	}
	i := row*shape.Columns + column
	if i >= len(t.n.children) || t.n.children[i] == nil {
		return nil
	}
	return t.n.children[i]
}

type selectionCap struct{ n *Node }

func (s selectionCap) SelectChild(i int) error {
	s.n.d.mu.Lock()
	defer s.n.d.mu.Unlock()
	if i < 0 || i >= len(s.n.children) || s.n.children[i] == nil {
		return fmt.Errorf("child index %d out of range", i)
	}
	for j, c := range s.n.children {
		if c != nil {
			c.setState("selected", j == i)
		}
	}
	return nil
}

func (s selectionCap) IsChildSelected(i int) bool {
	s.n.d.mu.RLock()
	defer s.n.d.mu.RUnlock()
	if i < 0 || i >= len(s.n.children) || s.n.children[i] == nil {
		return false
	}
	return s.n.children[i].hasState("selected")
}

type componentCap struct{ n *Node }

func (c componentCap) Extents() model.Rect {
	c.n.d.mu.RLock()
	defer c.n.d.mu.RUnlock()
	return c.n.bounds
}

func (c componentCap) GrabFocus() error {
	d := c.n.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if c.n.defunct {
		return fmt.Errorf("object %q is defunct", c.n.name)
	}
	if d.focused != nil {
		d.focused.setState(model.StateFocused, false)
	}
	c.n.setState(model.StateFocused, true)
	d.focused = c.n
	return nil
}
