package model

import (
	"errors"
	"fmt"
)

// RelationType identifies a typed link between two nodes.
type RelationType string

const (
	RelationLabelledBy   RelationType = "labelled-by"
	RelationControlledBy RelationType = "controlled-by"
	RelationLabelFor     RelationType = "label-for"
	RelationControllerOf RelationType = "controller-for"
	RelationMemberOf     RelationType = "member-of"
)

// Relation links a node to another node in the same tree.
type Relation struct {
	Type   RelationType
	Target Node
}

// Node is a handle into an externally owned accessibility tree. Handles
// may go stale at any time; callers only keep them for the duration of a
// single operation.
type Node interface {
	Role() string
	Name() string
	Description() string
	Parent() Node
	ChildCount() int
	// ChildAt returns nil for out-of-range indices and for gaps.
	ChildAt(i int) Node
	IndexInParent() int
	Relations() []Relation
	States() []string
	// Capability returns the optional interface of the given kind.
	Capability(kind CapabilityKind) (any, bool)
}

// CapabilityKind names an optional node interface.
type CapabilityKind string

const (
	CapAction       CapabilityKind = "action"
	CapText         CapabilityKind = "text"
	CapEditableText CapabilityKind = "editable text"
	CapValue        CapabilityKind = "value"
	CapTable        CapabilityKind = "table"
	CapSelection    CapabilityKind = "selection"
	CapComponent    CapabilityKind = "component"
)

// ErrUnsupported is wrapped by every UnsupportedError.
var ErrUnsupported = errors.New("capability not supported")

// UnsupportedError reports a node lacking a capability.
type UnsupportedError struct {
	Kind CapabilityKind
	Role string
	Name string
}

func (e *UnsupportedError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("object %q (%s) does not have a %s interface", e.Name, e.Role, e.Kind)
	}
	return fmt.Sprintf("object (%s) does not have a %s interface", e.Role, e.Kind)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// Action invokes named, indexed actions.
type Action interface {
	NActions() int
	ActionName(i int) string
	DoAction(i int) error
}

// Text reads text contents.
type Text interface {
	CharacterCount() int
	TextRange(start, end int) string
}

// EditableText replaces text contents.
type EditableText interface {
	SetTextContents(text string) error
}

// Value exposes a numeric value with bounds.
type Value interface {
	CurrentValue() float64
	MinimumValue() float64
	MaximumValue() float64
	MinimumIncrement() float64
	SetCurrentValue(v float64) error
}

// Table looks up cells by row and column.
type Table interface {
	RowCount() int
	ColumnCount() int
	CellAt(row, column int) Node
}

// Selection selects children by index.
type Selection interface {
	SelectChild(i int) error
	IsChildSelected(i int) bool
}

// Rect is a screen rectangle in desktop coordinates.
type Rect struct {
	X      int `yaml:"x"      json:"x"`
	Y      int `yaml:"y"      json:"y"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Component exposes screen geometry and focus.
type Component interface {
	Extents() Rect
	GrabFocus() error
}

func capability[T any](n Node, kind CapabilityKind) (T, error) {
	var zero T
	if c, ok := n.Capability(kind); ok {
		if typed, ok := c.(T); ok {
			return typed, nil
		}
	}
	return zero, &UnsupportedError{Kind: kind, Role: n.Role(), Name: n.Name()}
}

// ActionOf returns the node's Action capability.
func ActionOf(n Node) (Action, error) { return capability[Action](n, CapAction) }

// TextOf returns the node's Text capability.
func TextOf(n Node) (Text, error) { return capability[Text](n, CapText) }

// EditableTextOf returns the node's EditableText capability.
func EditableTextOf(n Node) (EditableText, error) {
	return capability[EditableText](n, CapEditableText)
}

// ValueOf returns the node's Value capability.
func ValueOf(n Node) (Value, error) { return capability[Value](n, CapValue) }

// TableOf returns the node's Table capability.
func TableOf(n Node) (Table, error) { return capability[Table](n, CapTable) }

// SelectionOf returns the node's Selection capability.
func SelectionOf(n Node) (Selection, error) { return capability[Selection](n, CapSelection) }

// ComponentOf returns the node's Component capability.
func ComponentOf(n Node) (Component, error) { return capability[Component](n, CapComponent) }

// TextContents reads the full text of a node.
func TextContents(n Node) (string, error) {
	t, err := TextOf(n)
	if err != nil {
		return "", err
	}
	return t.TextRange(0, t.CharacterCount()), nil
}

// LabelSource returns the target of the first labelled-by or controlled-by
// relation, or nil.
func LabelSource(n Node) Node {
	for _, rel := range n.Relations() {
		if rel.Type == RelationLabelledBy || rel.Type == RelationControlledBy {
			return rel.Target
		}
	}
	return nil
}
