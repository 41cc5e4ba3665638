package charset

import (
	"strconv"
	"strings"
)

// htmlEntities is the HTML 4.0 named-entity table, ported from the
// original implementation's entities.c.
var htmlEntities = map[string]rune{
	"quot": 34, "amp": 38, "apos": 39, "lpar": 40, "rpar": 41, "hyphen": 45,
	"lt": 60, "gt": 62, "quest": 63, "oelig": 339, "scaron": 353, "yuml": 376,
	"circ": 710, "tilde": 732, "ensp": 8194, "emsp": 8195, "thinsp": 8201,
	"zwnj": 8204, "zwj": 8205, "lrm": 8206, "rlm": 8207, "ndash": 8211,
	"mdash": 8212, "lsquo": 8216, "rsquo": 8217, "sbquo": 8218, "ldquo": 8220,
	"rdquo": 8221, "bdquo": 8222, "dagger": 8224, "permil": 8240,
	"lsaquo": 8249, "rsaquo": 8250, "euro": 8364, "fnof": 402,
	"alpha": 945, "beta": 946, "gamma": 947, "delta": 948, "epsilon": 949,
	"zeta": 950, "eta": 951, "theta": 952, "iota": 953, "kappa": 954,
	"lambda": 955, "mu": 956, "nu": 957, "xi": 958, "omicron": 959, "pi": 960,
	"rho": 961, "sigmaf": 962, "sigma": 963, "tau": 964, "upsilon": 965,
	"phi": 966, "chi": 967, "psi": 968, "omega": 969,
	"nbsp": 32, "iexcl": 161, "cent": 162, "pound": 163, "curren": 164,
	"yen": 165, "brvbar": 166, "sect": 167, "uml": 168, "copy": 169,
	"ordf": 170, "laquo": 171, "not": 172, "shy": 173, "reg": 174,
	"macr": 175, "deg": 176, "plusmn": 177, "sup2": 178, "sup3": 179,
	"acute": 180, "micro": 181, "para": 182, "middot": 183, "cedil": 184,
	"sup1": 185, "ordm": 186, "raquo": 187, "frac14": 188, "frac12": 189,
	"frac34": 190, "iquest": 191, "agrave": 224, "aacute": 225, "acirc": 226,
	"atilde": 227, "auml": 228, "aring": 229, "aelig": 230, "ccedil": 231,
	"egrave": 232, "eacute": 233, "ecirc": 234, "euml": 235, "igrave": 236,
	"iacute": 237, "icirc": 238, "iuml": 239, "eth": 240, "ntilde": 241,
	"ograve": 242, "oacute": 243, "ocirc": 244, "otilde": 245, "ouml": 246,
	"divide": 247, "oslash": 248, "ugrave": 249, "uacute": 250, "ucirc": 251,
	"uuml": 252, "yacute": 253, "thorn": 254, "szlig": 223,
	"Agrave": 192, "Aacute": 193, "Acirc": 194, "Atilde": 195, "Auml": 196,
	"Aring": 197, "AElig": 198, "Ccedil": 199, "Egrave": 200, "Eacute": 201,
	"Ecirc": 202, "Euml": 203, "Igrave": 204, "Iacute": 205, "Icirc": 206,
	"Iuml": 207, "ETH": 208, "Ntilde": 209, "Ograve": 210, "Oacute": 211,
	"Ocirc": 212, "Otilde": 213, "Ouml": 214, "times": 215, "Oslash": 216,
	"Ugrave": 217, "Uacute": 218, "Ucirc": 219, "Uuml": 220, "Yacute": 221,
	"THORN": 222,
}

// DecodeEntities expands &name;, &#ddd; and &#xhhhh; references in s to
// their code points. A missing trailing ';' is tolerated: the whole run of
// letters (or digits) after '&' is looked up as the entity, so a name run
// that continues past a known entity name is not recognized.
func DecodeEntities(s string) string {
	var sb strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '&' {
			sb.WriteByte(s[i])
			i++
			continue
		}
		if r, n, ok := decodeOneEntity(s[i:]); ok {
			sb.WriteRune(r)
			i += n
			continue
		}
		sb.WriteByte('&')
		i++
	}
	return sb.String()
}

func decodeOneEntity(s string) (rune, int, bool) {
	// s[0] == '&'
	if len(s) < 2 {
		return 0, 0, false
	}
	if s[1] == '#' {
		return decodeNumericEntity(s)
	}
	return decodeNamedEntity(s)
}

func decodeNumericEntity(s string) (rune, int, bool) {
	hex := len(s) > 2 && (s[2] == 'x' || s[2] == 'X')
	start := 2
	if hex {
		start = 3
	}
	j := start
	for j < len(s) && isHexOrDec(s[j], hex) {
		j++
	}
	if j == start {
		return 0, 0, false
	}
	digits := s[start:j]
	end := j
	if j < len(s) && s[j] == ';' {
		end = j + 1
	}
	base := 10
	if hex {
		base = 16
	}
	v, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		return 0, 0, false
	}
	return rune(v), end, true
}

func isHexOrDec(c byte, hex bool) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if !hex {
		return false
	}
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func decodeNamedEntity(s string) (rune, int, bool) {
	j := 1
	for j < len(s) && isEntityNameByte(s[j]) {
		j++
	}
	if j == 1 {
		return 0, 0, false
	}
	name := s[1:j]
	r, ok := htmlEntities[name]
	if !ok {
		// Case-insensitive fallback for names not distinguished by case
		// in the source table (most are).
		for k, v := range htmlEntities {
			if strings.EqualFold(k, name) {
				r, ok = v, true
				break
			}
		}
	}
	if !ok {
		return 0, 0, false
	}
	end := j
	if j < len(s) && s[j] == ';' {
		end = j + 1
	}
	return r, end, true
}

func isEntityNameByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// minimalXMLEscapes is the five-entity table for XMLOutMinimal.
var minimalXMLEscapes = map[rune]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&apos;",
}

// EncodeXMLMinimal escapes only the five XML-reserved characters.
func EncodeXMLMinimal(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if esc, ok := minimalXMLEscapes[r]; ok {
			sb.WriteString(esc)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// EncodeXMLEntities escapes the five XML-reserved characters plus every
// non-ASCII code point as a numeric character reference.
func EncodeXMLEntities(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if esc, ok := minimalXMLEscapes[r]; ok {
			sb.WriteString(esc)
		} else if r > 127 {
			sb.WriteString("&#x")
			sb.WriteString(strings.ToUpper(strconv.FormatInt(int64(r), 16)))
			sb.WriteByte(';')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// StripXMLProlog detects a leading "<?xml ... encoding="..." ?>" prolog,
// returns the declared charset name (empty if none/undeclared) and the
// buffer with the prolog removed.
func StripXMLProlog(s string) (declaredCharset string, rest string) {
	trimmed := strings.TrimLeft(s, " \t\r\n")
	if !strings.HasPrefix(trimmed, "<?xml") {
		return "", s
	}
	end := strings.Index(trimmed, "?>")
	if end == -1 {
		return "", s
	}
	prolog := trimmed[:end]
	rest = trimmed[end+2:]

	const key = "encoding="
	if idx := strings.Index(prolog, key); idx != -1 {
		after := prolog[idx+len(key):]
		after = strings.TrimLeft(after, " \t")
		if len(after) > 0 && (after[0] == '"' || after[0] == '\'') {
			quote := after[0]
			if end := strings.IndexByte(after[1:], quote); end != -1 {
				declaredCharset = after[1 : 1+end]
			}
		}
	}
	return declaredCharset, rest
}
