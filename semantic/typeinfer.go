package semantic

import (
	"strings"

	"github.com/refcross/refcross/fields"
)

// TypeMatch is one entry in a dialect-provided type-inference list: if the
// reftype name matches Name (case-insensitive), canonicalTag=Type is
// stamped at Level.
type TypeMatch struct {
	Name  string
	Type  string
	Level fields.Level
}

// InferType runs the shared first-hit-wins algorithm: the first match
// whose Name equals refTypeName (case-insensitive) wins, and
// canonicalTag=Type is added to store at that match's Level. Used for
// each of the three passes (genre, resource, issuance) spec.md §4.5
// describes; dialects supply one ordered match list per pass.
func InferType(store *fields.Store, matches []TypeMatch, refTypeName, canonicalTag string) bool {
	for _, m := range matches {
		if strings.EqualFold(m.Name, refTypeName) {
			store.Add(canonicalTag, m.Type, m.Level, fields.NoDups)
			return true
		}
	}
	return false
}
