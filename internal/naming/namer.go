// Package naming derives identifiers for accessibility nodes and matches
// caller-supplied names against them.
package naming

import (
	"strings"

	"github.com/mj1618/ldtpd/internal/model"
)

// Ldtpize returns the role tag and the disambiguated label of a node.
// The label comes from the first labelled-by/controlled-by relation
// target when one exists, otherwise from the node's own name. Spaces are
// removed and trailing ':' and '.' characters trimmed. The label is empty
// when no name is available.
func Ldtpize(n model.Node) (tag, label string) {
	src := n
	if target := model.LabelSource(n); target != nil {
		src = target
	}
	return model.MapRole(n.Role()), CleanLabel(src.Name())
}

// Identifier returns the tag and label of a node joined together.
func Identifier(n model.Node) string {
	tag, label := Ldtpize(n)
	return tag + label
}

// CleanLabel strips spaces and trailing ':' and '.' from a label.
func CleanLabel(s string) string {
	return strings.TrimRight(strings.ReplaceAll(s, " ", ""), ":.")
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
