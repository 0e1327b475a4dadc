package sim

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mj1618/ldtpd/internal/model"
)

// Node is a simulated accessibility node.
type Node struct {
	d *Desktop

	role         string
	name         string
	description  string
	labelledBy   string
	controlledBy string
	states       []string
	actions      []string
	text         *string
	editable     bool
	value        *model.ValueRange
	table        *model.TableShape
	selectable   bool
	bounds       model.Rect
	defunct      bool

	parent   *Node
	index    int
	children []*Node

	invocations map[string]int
}

func (d *Desktop) newNode(el *model.Element, parent *Node, index int) *Node {
	if el == nil {
		return nil
	}
	n := &Node{
		d:            d,
		role:         el.Role,
		name:         el.Name,
		description:  el.Description,
		labelledBy:   el.LabelledBy,
		controlledBy: el.ControlledBy,
		states:       slices.Clone(el.States),
		actions:      slices.Clone(el.Actions),
		editable:     el.Editable,
		selectable:   el.Selectable,
		parent:       parent,
		index:        index,
		invocations:  make(map[string]int),
	}
	if el.Text != nil {
		t := *el.Text
		n.text = &t
	}
	if el.Value != nil {
		v := *el.Value
		n.value = &v
	}
	if el.Table != nil {
		t := *el.Table
		n.table = &t
	}
	if el.Bounds != nil {
		n.bounds = *el.Bounds
	}
	if el.ID != "" {
		d.byID[el.ID] = n
	}
	for i, c := range el.Children {
		n.children = append(n.children, d.newNode(c, n, i))
	}
	return n
}

func (n *Node) Role() string {
	n.d.mu.RLock()
	defer n.d.mu.RUnlock()
	return n.role
}

func (n *Node) Name() string {
	n.d.mu.RLock()
	defer n.d.mu.RUnlock()
	return n.name
}

func (n *Node) Description() string {
	n.d.mu.RLock()
	defer n.d.mu.RUnlock()
	return n.description
}

func (n *Node) Parent() model.Node {
	n.d.mu.RLock()
	defer n.d.mu.RUnlock()
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) ChildCount() int {
	n.d.mu.RLock()
	defer n.d.mu.RUnlock()
	return len(n.children)
}

func (n *Node) ChildAt(i int) model.Node {
	n.d.mu.RLock()
	defer n.d.mu.RUnlock()
	if i < 0 || i >= len(n.children) || n.children[i] == nil {
		return nil
	}
	return n.children[i]
}

func (n *Node) IndexInParent() int {
	n.d.mu.RLock()
	defer n.d.mu.RUnlock()
	if n.parent == nil && n.role != model.RoleApplication {
		return -1
	}
	return n.index
}

func (n *Node) Relations() []model.Relation {
	n.d.mu.RLock()
	defer n.d.mu.RUnlock()
	var rels []model.Relation
	if t, ok := n.d.byID[n.labelledBy]; ok && n.labelledBy != "" {
		rels = append(rels, model.Relation{Type: model.RelationLabelledBy, Target: t})
	}
	if t, ok := n.d.byID[n.controlledBy]; ok && n.controlledBy != "" {
		rels = append(rels, model.Relation{Type: model.RelationControlledBy, Target: t})
	}
	return rels
}

func (n *Node) States() []string {
	n.d.mu.RLock()
	defer n.d.mu.RUnlock()
	out := slices.Clone(n.states)
	if n.defunct {
		out = append(out, model.StateDefunct)
	}
	return out
}

func (n *Node) Capability(kind model.CapabilityKind) (any, bool) {
	n.d.mu.RLock()
	defer n.d.mu.RUnlock()
	switch kind {
	case model.CapAction:
		return actionCap{n}, len(n.actions) > 0
	case model.CapText:
		return textCap{n}, n.text != nil
	case model.CapEditableText:
		return textCap{n}, n.text != nil && n.editable
	case model.CapValue:
		return valueCap{n}, n.value != nil
	case model.CapTable:
		return tableCap{n}, n.table != nil
	case model.CapSelection:
		return selectionCap{n}, n.selectable
	case model.CapComponent:
		return componentCap{n}, n.role != model.RoleApplication
	}
	return nil, false
}

func (n *Node) String() string {
	return fmt.Sprintf("[%s | %s]", n.Role(), n.Name())
}

// Invocations returns how many times the named action ran on this node.
func (n *Node) Invocations(action string) int {
	n.d.mu.RLock()
	defer n.d.mu.RUnlock()
	return n.invocations[action]
}

// Append adds a child built from el and returns it.
func (n *Node) Append(el *model.Element) *Node {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	c := n.d.newNode(el, n, len(n.children))
	n.children = append(n.children, c)
	return c
}

// RemoveChild removes the child at index i; later siblings shift down.
func (n *Node) RemoveChild(i int) {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	n.removeChild(i)
}

// SetName renames the node.
func (n *Node) SetName(name string) {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	n.name = name
}

// SetState adds or removes a state.
func (n *Node) SetState(state string, on bool) {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	n.setState(state, on)
}

func (n *Node) removeChild(i int) {
	if i < 0 || i >= len(n.children) {
		return
	}
	n.children = slices.Delete(n.children, i, i+1)
	for j := i; j < len(n.children); j++ {
		if n.children[j] != nil {
			n.children[j].index = j
		}
	}
}

func (n *Node) hasState(state string) bool {
	return slices.Contains(n.states, state)
}

func (n *Node) setState(state string, on bool) {
	has := n.hasState(state)
	switch {
	case on && !has:
		n.states = append(n.states, state)
	case !on && has:
		n.states = slices.DeleteFunc(n.states, func(s string) bool { return s == state })
	}
}

func (n *Node) markDefunct() {
	n.defunct = true
	for _, c := range n.children {
		if c != nil {
			c.markDefunct()
		}
	}
}

func (n *Node) path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

// findDescendant must be called with the read lock held.
func (n *Node) findDescendant(name string) *Node {
	for _, c := range n.children {
		if c == nil {
			continue
		}
		if c.name == name {
			return c
		}
		if found := c.findDescendant(name); found != nil {
			return found
		}
	}
	return nil
}
