package naming

import "github.com/mj1618/ldtpd/internal/model"

// Stage identifies which matching attempt succeeded.
type Stage int

const (
	NoMatch Stage = iota
	StageExactName
	StageExactIdentifier
	StageGlobName
	StageGlobIdentifier
	StageGlobStripped
)

func (s Stage) String() string {
	switch s {
	case StageExactName:
		return "exact-name"
	case StageExactIdentifier:
		return "exact-identifier"
	case StageGlobName:
		return "glob-name"
	case StageGlobIdentifier:
		return "glob-identifier"
	case StageGlobStripped:
		return "glob-stripped"
	}
	return "none"
}

// MatchStage runs the five matching attempts of name against a raw
// accessible name and a generated identifier, in order, and returns the
// first that succeeds.
func MatchStage(name, raw, identifier string) Stage {
	switch {
	case raw == name:
		return StageExactName
	case identifier == name:
		return StageExactIdentifier
	case Glob(name, raw):
		return StageGlobName
	case Glob(name, identifier):
		return StageGlobIdentifier
	case Glob(stripSpaces(name), stripSpaces(identifier)):
		return StageGlobStripped
	}
	return NoMatch
}

// MatchNode reports whether name refers to the node, by raw name or by
// generated identifier.
func MatchNode(name string, n model.Node) bool {
	return MatchStage(name, n.Name(), Identifier(n)) != NoMatch
}

// MatchWindowName reports whether name refers to a window listed under
// the disambiguated identifier id.
func MatchWindowName(name, id string) bool {
	return name == id || Glob(name, id) || Glob(stripSpaces(name), stripSpaces(id))
}

// MatchObject reports whether name refers to an AppMap entry with the
// given identifier key, per-role index tag ("btn#2"), label source text
// and raw label.
func MatchObject(name, key, objIndex, labelBy, label string) bool {
	if Glob(name, key) || Glob(name, objIndex) || Glob(name, labelBy) || Glob(name, label) {
		return true
	}
	stripped := stripSpaces(name)
	if labelBy != "" && Glob(stripped, stripSpaces(labelBy)) {
		return true
	}
	if label != "" && Glob(stripped, stripSpaces(label)) {
		return true
	}
	return Glob(stripped, key)
}
