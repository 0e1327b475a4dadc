package model

import "strings"

// State names, in accessibility enum order. The index of a name is its
// numeric state code.
var StateNames = []string{
	"invalid",
	"active",
	"armed",
	"busy",
	"checked",
	"collapsed",
	"defunct",
	"editable",
	"enabled",
	"expandable",
	"expanded",
	"focusable",
	"focused",
	"has tooltip",
	"horizontal",
	"iconified",
	"modal",
	"multi line",
	"multiselectable",
	"opaque",
	"pressed",
	"resizable",
	"selectable",
	"selected",
	"sensitive",
	"showing",
	"single line",
	"stale",
	"transient",
	"vertical",
	"visible",
	"manages descendants",
	"indeterminate",
	"required",
	"truncated",
	"animated",
	"invalid entry",
	"supports autocompletion",
	"selectable text",
	"is default",
	"visited",
}

const (
	StateChecked = "checked"
	StateDefunct = "defunct"
	StateEnabled = "enabled"
	StateFocused = "focused"
	StatePressed = "pressed"
	StateShowing = "showing"
	StateVisible = "visible"
)

var stateCodes = func() map[string]int {
	m := make(map[string]int, len(StateNames))
	for i, name := range StateNames {
		m[name] = i
	}
	return m
}()

// NormalizeState accepts "CHECKED", "state_checked", "multi_line" or
// "multi line" and returns the canonical state name.
func NormalizeState(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "state_")
	return strings.ReplaceAll(s, "_", " ")
}

// StateCode returns the numeric code of a state name.
func StateCode(name string) (int, bool) {
	code, ok := stateCodes[NormalizeState(name)]
	return code, ok
}

// HasState reports whether the node's state set contains state.
func HasState(n Node, state string) bool {
	want := NormalizeState(state)
	for _, s := range n.States() {
		if NormalizeState(s) == want {
			return true
		}
	}
	return false
}
