package charset

import "strings"

// latexAccent maps a LaTeX accent/diacritic macro letter to the accented
// Latin letters it produces, keyed by the unaccented base letter. Covers
// the common '\'' (acute), '`' (grave), '^' (circumflex), '"' (diaeresis),
// '~' (tilde), '.' (dot above), 'c' (cedilla), 'v' (caron), 'u' (breve),
// '=' (macron), 'H' (double acute), 'k' (ogonek), 'r' (ring) macros.
var latexAccent = map[byte]map[rune]rune{
	'\'': {'a': 'á', 'e': 'é', 'i': 'í', 'o': 'ó', 'u': 'ú', 'y': 'ý', 'n': 'ń', 's': 'ś', 'c': 'ć', 'z': 'ź',
		'A': 'Á', 'E': 'É', 'I': 'Í', 'O': 'Ó', 'U': 'Ú', 'Y': 'Ý'},
	'`': {'a': 'à', 'e': 'è', 'i': 'ì', 'o': 'ò', 'u': 'ù',
		'A': 'À', 'E': 'È', 'I': 'Ì', 'O': 'Ò', 'U': 'Ù'},
	'^': {'a': 'â', 'e': 'ê', 'i': 'î', 'o': 'ô', 'u': 'û',
		'A': 'Â', 'E': 'Ê', 'I': 'Î', 'O': 'Ô', 'U': 'Û'},
	'"': {'a': 'ä', 'e': 'ë', 'i': 'ï', 'o': 'ö', 'u': 'ü', 'y': 'ÿ',
		'A': 'Ä', 'E': 'Ë', 'I': 'Ï', 'O': 'Ö', 'U': 'Ü'},
	'~': {'a': 'ã', 'n': 'ñ', 'o': 'õ',
		'A': 'Ã', 'N': 'Ñ', 'O': 'Õ'},
	'c': {'c': 'ç', 'C': 'Ç', 's': 'ş', 'S': 'Ş'},
	'v': {'c': 'č', 'C': 'Č', 's': 'š', 'S': 'Š', 'z': 'ž', 'Z': 'Ž', 'e': 'ě', 'r': 'ř'},
	'u': {'a': 'ă', 'A': 'Ă', 'g': 'ğ', 'G': 'Ğ'},
	'=': {'a': 'ā', 'e': 'ē', 'i': 'ī', 'o': 'ō', 'u': 'ū'},
	'k': {'a': 'ą', 'e': 'ę'},
	'r': {'a': 'å', 'A': 'Å', 'u': 'ů'},
}

// latexSymbol maps a bare (no-argument) macro to the code point it
// produces: {\O}, {\ss}, {\i} and their companions.
var latexSymbol = map[string]rune{
	"O": 'Ø', "o": 'ø', "ss": 'ß', "i": 'ı', "j": 'ȷ',
	"AE": 'Æ', "ae": 'æ', "L": 'Ł', "l": 'ł', "aa": 'å', "AA": 'Å',
	"dh": 'ð', "DH": 'Ð', "th": 'þ', "TH": 'Þ',
}

// latexGreek maps a Greek-letter macro name to its code point. Output
// classification wraps these in $...$ (math mode) rather than braces.
var latexGreek = map[string]rune{
	"alpha": 'α', "beta": 'β', "gamma": 'γ', "delta": 'δ', "epsilon": 'ε',
	"zeta": 'ζ', "eta": 'η', "theta": 'θ', "iota": 'ι', "kappa": 'κ',
	"lambda": 'λ', "mu": 'μ', "nu": 'ν', "xi": 'ξ', "omicron": 'ο',
	"pi": 'π', "rho": 'ρ', "sigma": 'σ', "tau": 'τ', "upsilon": 'υ',
	"phi": 'φ', "chi": 'χ', "psi": 'ψ', "omega": 'ω',
	"Gamma": 'Γ', "Delta": 'Δ', "Theta": 'Θ', "Lambda": 'Λ', "Xi": 'Ξ',
	"Pi": 'Π', "Sigma": 'Σ', "Upsilon": 'Υ', "Phi": 'Φ', "Psi": 'Ψ', "Omega": 'Ω',
}

// latexLigature maps a no-backslash-argument ligature/punctuation macro
// to its output text; these are emitted bare, with no wrapping braces.
var latexLigature = map[string]string{
	"`":   "‘",
	"'":   "’",
	"``":  "“",
	"''":  "”",
	"---": "—",
	"--":  "–",
}

// ligatureRune is latexLigature's reverse map, for EncodeLatex.
var ligatureRune = map[rune]string{
	'‘': "`", '’': "'", '“': "``", '”': "''", '—': "---", '–': "--",
}

// bypassTags lists the canonical tags whose values skip LaTeX conversion
// entirely, both on input and output.
var bypassTags = map[string]bool{
	"DOI": true, "URL": true, "REFNUM": true, "FILEATTACH": true,
}

// LatexBypass reports whether values tagged canonicalTag skip LaTeX
// conversion.
func LatexBypass(canonicalTag string) bool {
	return bypassTags[strings.ToUpper(canonicalTag)]
}

// DecodeLatex expands LaTeX escapes in s into their Unicode equivalents.
// Accented letters round-trip through the {\'e}, \'{e}, and \'e spellings;
// \~ is a literal tilde and a bare unescaped ~ becomes a non-breaking
// space; {\O}, {\ss}, {\i} and their relatives are recognized as bare
// symbol macros; `, ', ``, '', --, --- fold to their smart-quote/dash
// equivalents.
func DecodeLatex(s string) string {
	var sb strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && s[i+1] == '~':
			sb.WriteRune('~')
			i += 2
		case c == '~':
			sb.WriteRune(' ')
			i++
		case c == '\\':
			r, n, ok := decodeLatexMacro(s[i:])
			if ok {
				sb.WriteRune(r)
				i += n
			} else {
				sb.WriteByte(c)
				i++
			}
		case c == '{':
			if r, n, ok := decodeBracedMacro(s[i:]); ok {
				sb.WriteRune(r)
				i += n
			} else {
				i++ // drop grouping brace not forming a recognized macro
			}
		case c == '}':
			i++ // drop matching close brace
		case c == '-' && strings.HasPrefix(s[i:], "---"):
			sb.WriteString(latexLigature["---"])
			i += 3
		case c == '-' && strings.HasPrefix(s[i:], "--"):
			sb.WriteString(latexLigature["--"])
			i += 2
		case c == '`' && strings.HasPrefix(s[i:], "``"):
			sb.WriteString(latexLigature["``"])
			i += 2
		case c == '`':
			sb.WriteString(latexLigature["`"])
			i++
		case c == '\'' && strings.HasPrefix(s[i:], "''"):
			sb.WriteString(latexLigature["''"])
			i += 2
		case c == '\'':
			sb.WriteString(latexLigature["'"])
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// decodeLatexMacro handles the \'e and \'{e} spellings (s[0] == '\\').
func decodeLatexMacro(s string) (rune, int, bool) {
	if len(s) < 2 {
		return 0, 0, false
	}
	accent := s[1]
	tbl, ok := latexAccent[accent]
	if !ok {
		return 0, 0, false
	}
	rest := s[2:]
	if strings.HasPrefix(rest, "{") {
		if len(rest) >= 3 && rest[2] == '}' {
			if r, ok := tbl[rune(rest[1])]; ok {
				return r, 2 + 3, true
			}
		}
		return 0, 0, false
	}
	if len(rest) >= 1 {
		if r, ok := tbl[rune(rest[0])]; ok {
			return r, 2 + 1, true
		}
	}
	return 0, 0, false
}

// decodeBracedMacro handles {\'e}, {\O}, {\ss}, {\i} style group-wrapped
// macros (s[0] == '{').
func decodeBracedMacro(s string) (rune, int, bool) {
	end := strings.IndexByte(s, '}')
	if end == -1 {
		return 0, 0, false
	}
	inner := s[1:end]
	if !strings.HasPrefix(inner, "\\") {
		return 0, 0, false
	}
	inner = inner[1:]
	if len(inner) == 2 {
		if tbl, ok := latexAccent[inner[0]]; ok {
			if r, ok := tbl[rune(inner[1])]; ok {
				return r, end + 1, true
			}
		}
	}
	if r, ok := latexSymbol[inner]; ok {
		return r, end + 1, true
	}
	if r, ok := latexGreek[inner]; ok {
		return r, end + 1, true
	}
	return 0, 0, false
}

// EncodeLatex converts Unicode code points in s to LaTeX escapes, for
// canonicalTag values that do not bypass LaTeX output. Greek letters are
// wrapped in $...$; most accented letters and bare symbol macros are
// wrapped in braces; ligature punctuation is emitted bare.
func EncodeLatex(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if wrote := encodeLatexRune(&sb, r); wrote {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func encodeLatexRune(sb *strings.Builder, r rune) bool {
	if lig, ok := ligatureRune[r]; ok {
		sb.WriteString(lig)
		return true
	}
	for accent, tbl := range latexAccent {
		for base, accented := range tbl {
			if accented == r {
				sb.WriteString("{\\")
				sb.WriteByte(accent)
				sb.WriteRune(base)
				sb.WriteByte('}')
				return true
			}
		}
	}
	for name, sym := range latexSymbol {
		if sym == r {
			sb.WriteString("{\\")
			sb.WriteString(name)
			sb.WriteByte('}')
			return true
		}
	}
	for name, g := range latexGreek {
		if g == r {
			sb.WriteString("$\\")
			sb.WriteString(name)
			sb.WriteByte('$')
			return true
		}
	}
	return false
}
