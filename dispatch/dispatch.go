// Package dispatch implements the per-reference-type tag-to-canonical-field
// lookup: a dialect ships one variants array naming its reference types,
// each carrying a linear entry list of (input tag, canonical tag,
// processing kind, level).
package dispatch

import (
	"strings"

	"github.com/refcross/refcross/fields"
)

// Kind is the closed set of processing kinds a dispatch entry can name.
type Kind int

const (
	Always Kind = iota
	Default
	Skip
	Simple
	Type
	Person
	Date
	Pages
	SerialNo
	Title
	Notes
	DOI
	HowPublished
	LinkedFile
	Keyword
	URL
	Genre
	BTSente
	BTEprint
	BTOrg
	BLTThesisType
	BLTSchool
	BLTEditor
	BLTSubtype
	BLTSkip
	Eprint
)

// Entry is one (input_tag, canonical_tag, processing_kind, level) row.
// For Always/Default entries, CanonicalTag carries the "new_tag|value"
// encoding described in spec.md §4.3: the two halves are split by
// AugmentValue.
type Entry struct {
	InputTag     string
	CanonicalTag string
	Kind         Kind
	Level        fields.Level
}

// Variant is one reference-type's dispatch table: its dialect-specific
// type name and its entry list.
type Variant struct {
	TypeName string
	Entries  []Entry
}

// Table is a dialect's full variants array, indexed by reftype.
type Table []Variant

// GetRefType finds the first variant whose TypeName is a case-insensitive
// prefix of typeValue. If none matches, it returns index 0 and isDefault
// true, per the original implementation's get_reftype.
func (t Table) GetRefType(typeValue string) (reftype int, isDefault bool) {
	for i, v := range t {
		if len(typeValue) >= len(v.TypeName) && strings.EqualFold(typeValue[:len(v.TypeName)], v.TypeName) {
			return i, false
		}
	}
	return 0, true
}

// TranslateOldTag performs a linear, case-insensitive scan of
// variants[reftype].Entries for a tag match, returning the processing
// kind, level, and canonical tag. ok is false if no entry matches.
func (t Table) TranslateOldTag(tag string, reftype int) (kind Kind, level fields.Level, canonicalTag string, ok bool) {
	if reftype < 0 || reftype >= len(t) {
		return 0, 0, "", false
	}
	for _, e := range t[reftype].Entries {
		if strings.EqualFold(e.InputTag, tag) {
			return e.Kind, e.Level, e.CanonicalTag, true
		}
	}
	return 0, 0, "", false
}

// AugmentValue splits an Always/Default entry's CanonicalTag encoding
// "new_tag|value" into its two halves.
func AugmentValue(encoded string) (newTag, value string) {
	if i := strings.IndexByte(encoded, '|'); i != -1 {
		return encoded[:i], encoded[i+1:]
	}
	return encoded, ""
}

// ApplyAugmentations runs every Always/Default entry for reftype against
// out, per spec.md §4.3: Always inserts unconditionally, Default inserts
// only if no field with new_tag at level already exists.
func (t Table) ApplyAugmentations(out *fields.Store, reftype int) {
	if reftype < 0 || reftype >= len(t) {
		return
	}
	for _, e := range t[reftype].Entries {
		if e.Kind != Always && e.Kind != Default {
			continue
		}
		newTag, value := AugmentValue(e.CanonicalTag)
		if e.Kind == Default && out.Find(newTag, e.Level) != -1 {
			continue
		}
		out.Add(newTag, value, e.Level, fields.NoDups)
	}
}
