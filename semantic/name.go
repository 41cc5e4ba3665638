package semantic

import (
	"regexp"
	"strings"
)

// suffixes recognized at the end of a personal name.
var suffixes = []string{"Jr.", "Jr", "Sr.", "Sr", "III", "II", "IV", "V", "PhD", "Ph.D."}

// prefixes are nobiliary particles kept attached to the family name.
var prefixes = []string{"van", "von", "de", "del", "della", "di", "da", "le", "la", "du", "des", "den", "der", "het", "ter", "ten", "op", "mc", "mac", "al-", "el-", "ibn"}

var invertedNameRegex = regexp.MustCompile(`^([^,]+),\s*(.+)$`)

var etAlRegex = regexp.MustCompile(`(?i)^et\.?\s*al\.?$`)

// NameParseResult is a parsed personal name, or a verbatim/corporate
// override.
type NameParseResult struct {
	// Kind is "asis", "corp", "etal", or "person".
	Kind string
	// Canonical is the "Last|First|First|...|Suffix" pipe form for Kind
	// "person", or the verbatim string for "asis"/"corp"/"etal".
	Canonical string
}

// ParseName takes a raw author/editor string plus the run's asis/corps
// override lists and produces the field that should be stored: AUTHOR:ASIS
// if raw matches an asis entry, AUTHOR:CORP if it matches a corps entry,
// otherwise a tokenized canonical "Last|First|..." form. An "et al." token
// (any capitalization/punctuation spacing) is recognized and reported as
// Kind "etal" so the caller can insert a separate "et al." family-name
// field, per spec.md §4.5.
func ParseName(raw string, asis, corps []string) NameParseResult {
	raw = strings.TrimSpace(raw)

	if etAlRegex.MatchString(raw) {
		return NameParseResult{Kind: "etal", Canonical: "et al."}
	}
	for _, a := range asis {
		if strings.EqualFold(a, raw) {
			return NameParseResult{Kind: "asis", Canonical: raw}
		}
	}
	for _, c := range corps {
		if strings.EqualFold(c, raw) {
			return NameParseResult{Kind: "corp", Canonical: raw}
		}
	}
	if strings.Contains(raw, "|") {
		// Already canonical pipe form; re-parsing must be a no-op.
		return NameParseResult{Kind: "person", Canonical: raw}
	}
	return NameParseResult{Kind: "person", Canonical: tokenizeName(raw)}
}

// tokenizeName reassembles a raw name into "Last|First|Middle|Suffix" pipe
// form, handling both "First Last" and "Last, First Middle" input shapes.
func tokenizeName(name string) string {
	var family, given, middle, suffix string

	if m := invertedNameRegex.FindStringSubmatch(name); m != nil {
		family = strings.TrimSpace(m[1])
		rest := strings.TrimSpace(m[2])
		rest, suffix = extractSuffix(rest)
		parts := strings.Fields(rest)
		if len(parts) > 0 {
			given = parts[0]
		}
		if len(parts) > 1 {
			middle = strings.Join(parts[1:], " ")
		}
	} else {
		rest, sfx := extractSuffix(name)
		suffix = sfx
		parts := strings.Fields(rest)
		switch len(parts) {
		case 0:
			return ""
		case 1:
			family = parts[0]
		default:
			familyStart := len(parts) - 1
			prefix := ""
			if familyStart > 0 && isNamePrefix(parts[familyStart-1]) {
				prefix = parts[familyStart-1]
				familyStart--
			}
			if prefix != "" {
				family = prefix + " " + parts[len(parts)-1]
			} else {
				family = strings.Join(parts[familyStart:], " ")
			}
			given = parts[0]
			if familyStart > 1 {
				middle = strings.Join(parts[1:familyStart], " ")
			}
		}
	}

	fields := []string{family}
	if given != "" {
		fields = append(fields, given)
	}
	if middle != "" {
		fields = append(fields, strings.Fields(middle)...)
	}
	if suffix != "" {
		fields = append(fields, suffix)
	}
	return strings.Join(fields, "|")
}

func extractSuffix(name string) (string, string) {
	for _, s := range suffixes {
		trimmed := strings.TrimSuffix(name, s)
		if trimmed != name {
			trimmed = strings.TrimRight(trimmed, ", \t")
			return trimmed, strings.TrimSuffix(s, ".")
		}
	}
	return name, ""
}

func isNamePrefix(tok string) bool {
	lower := strings.ToLower(tok)
	for _, p := range prefixes {
		if lower == p {
			return true
		}
	}
	return false
}

// IsCanonicalPersonForm reports whether s is already in "Last|First|..."
// pipe form (i.e. parsing it again would be a no-op), used to satisfy the
// name-parse stability property: re-parsing a canonical name yields the
// same canonical form.
func IsCanonicalPersonForm(s string) bool {
	return strings.Contains(s, "|") && !strings.ContainsAny(s, ",")
}
