package semantic

import (
	"strings"
)

// urlPrefix is one canonical (or extra, recognize-only) URL prefix entry.
type urlPrefix struct {
	Tag    string
	Prefix string
	Offset int
}

// prefixes is the canonical table: used both to recognize an embedded
// link on input and to re-add the prefix on output. Ported verbatim from
// the original implementation's url.c.
var prefixes = []urlPrefix{
	{"ARXIV", "http://arxiv.org/abs/", 21},
	{"DOI", "https://doi.org/", 16},
	{"JSTOR", "http://www.jstor.org/stable/", 28},
	{"MRNUMBER", "http://www.ams.org/mathscinet-getitem?mr=", 41},
	{"PMID", "http://www.ncbi.nlm.nih.gov/pubmed/", 35},
	{"PMC", "http://www.ncbi.nlm.nih.gov/pmc/articles/", 41},
	{"ISIREFNUM", "isi:", 4},
}

// extraPrefixes are recognized on input but never re-added on output.
var extraPrefixes = []urlPrefix{
	{"ARXIV", "arXiv:", 6},
	{"DOI", "http://dx.doi.org/", 18},
	{"JSTOR", "jstor:", 6},
	{"PMID", "pmid:", 5},
	{"PMID", "pubmed:", 7},
	{"PMC", "pmc:", 4},
	{"URL", "\\urllink", 8},
	{"URL", "\\url", 4},
}

func findPrefix(s string, table []urlPrefix) (urlPrefix, bool) {
	for _, p := range table {
		if len(s) >= p.Offset && strings.EqualFold(s[:p.Offset], p.Prefix) {
			return p, true
		}
	}
	return urlPrefix{}, false
}

// ClassifyURL recognizes an embedded link prefix in value and returns the
// canonical tag to store it under and the value with the prefix stripped.
// If no prefix matches, it returns ("URL", value, false) so callers can
// choose not to strip anything the dialect didn't ask for.
func ClassifyURL(value string) (tag string, stripped string, matched bool) {
	if p, ok := findPrefix(value, prefixes); ok {
		return p.Tag, value[p.Offset:], true
	}
	if p, ok := findPrefix(value, extraPrefixes); ok {
		return p.Tag, value[p.Offset:], true
	}
	return "URL", value, false
}

// ExpandURLPrefix prepends the canonical prefix for tag to id, for output.
// If id already looks like an http: URL it is passed through unchanged.
// Tags with no canonical prefix (e.g. "URL") are returned unchanged.
func ExpandURLPrefix(tag, id string) string {
	if strings.HasPrefix(strings.ToLower(id), "http:") {
		return id
	}
	for _, p := range prefixes {
		if strings.EqualFold(p.Tag, tag) {
			return p.Prefix + id
		}
	}
	return id
}

// IsURIRemoteScheme reports whether s begins with a recognized remote URI
// scheme (http:, https:, ftp:, git:, gopher:) and returns the length of
// the matched scheme prefix, or -1 if none matched.
func IsURIRemoteScheme(s string) int {
	schemes := []string{"http:", "https:", "ftp:", "git:", "gopher:"}
	for _, sc := range schemes {
		if len(s) >= len(sc) && strings.EqualFold(s[:len(sc)], sc) {
			return len(sc)
		}
	}
	return -1
}

// IsReferenceDatabase reports whether s begins with a recognized
// reference-database scheme (arXiv:, pubmed:, medline:, isi:).
func IsReferenceDatabase(s string) int {
	schemes := []string{"arXiv:", "pubmed:", "medline:", "isi:"}
	for _, sc := range schemes {
		if len(s) >= len(sc) && strings.EqualFold(s[:len(sc)], sc) {
			return len(sc)
		}
	}
	return -1
}

// IsDOI performs the original implementation's staged pattern match for a
// DOI embedded in another field, returning the byte offset to the DOI
// itself, or -1 if the string isn't recognized as a DOI. The bare
// "##.####/" pattern is checked first but (matching the source) is not
// treated as a recognized embedded form.
func IsDOI(s string) int {
	if matchPattern(s, "##.####/") {
		return -1
	}
	if matchPattern(s, "doi:##.####/") {
		return 4
	}
	if matchPattern(s, "doi: ##.####/") {
		return 5
	}
	if matchPattern(s, "doi: DOI: ##.####/") {
		return 10
	}
	if matchPattern(s, "https://doi.org/##.####/") {
		return 16
	}
	return -1
}

// matchPattern checks s against pattern where '#' matches any digit and
// every other rune must match case-insensitively.
func matchPattern(s, pattern string) bool {
	if len(s) < len(pattern) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		pc := pattern[i]
		sc := s[i]
		switch {
		case pc == '#':
			if sc < '0' || sc > '9' {
				return false
			}
		case isAlpha(pc):
			if toLowerByte(pc) != toLowerByte(sc) {
				return false
			}
		default:
			if pc != sc {
				return false
			}
		}
	}
	return true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func toLowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// IsEmbeddedLink reports whether s begins with a recognizable embedded
// link: a remote URI scheme, a reference-database scheme, or a DOI pattern.
func IsEmbeddedLink(s string) bool {
	return IsURIRemoteScheme(s) != -1 || IsReferenceDatabase(s) != -1 || IsDOI(s) != -1
}

// StripDOIPrefix removes a recognized "doi:"/"doi: "/"doi: DOI: " or
// "https://doi.org/" prefix from s, returning the bare DOI. If s doesn't
// match any recognized prefix it is returned unchanged.
func StripDOIPrefix(s string) string {
	if off := IsDOI(s); off > 0 {
		return s[off:]
	}
	return s
}
