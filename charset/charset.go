// Package charset implements the character-set and escape-syntax
// conversion engine: UTF-8/GB18030 codecs, named single-byte charsets,
// XML/HTML entity handling, and LaTeX escape encode/decode.
package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// Sentinel names bypass the named-charset table entirely.
const (
	NameUnicode  = "unicode"
	NameGB18030  = "gb18030"
)

// named maps a case-insensitive charset name to its golang.org/x/text
// charmap. Delegating to charmap replaces a hand-authored byte↔codepoint
// catalog with the ecosystem's maintained tables.
var named = map[string]*charmap.Charmap{
	"iso-8859-1":  charmap.ISO8859_1,
	"iso-8859-2":  charmap.ISO8859_2,
	"iso-8859-3":  charmap.ISO8859_3,
	"iso-8859-4":  charmap.ISO8859_4,
	"iso-8859-5":  charmap.ISO8859_5,
	"iso-8859-6":  charmap.ISO8859_6,
	"iso-8859-7":  charmap.ISO8859_7,
	"iso-8859-9":  charmap.ISO8859_9,
	"iso-8859-10": charmap.ISO8859_10,
	"iso-8859-13": charmap.ISO8859_13,
	"iso-8859-14": charmap.ISO8859_14,
	"iso-8859-15": charmap.ISO8859_15,
	"iso-8859-16": charmap.ISO8859_16,
	"windows-1250": charmap.Windows1250,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"windows-1253": charmap.Windows1253,
	"windows-1254": charmap.Windows1254,
	"windows-1257": charmap.Windows1257,
	"macintosh":    charmap.Macintosh,
	"macroman":     charmap.Macintosh,
	"koi8-r":       charmap.KOI8R,
	"koi8-u":       charmap.KOI8U,
}

// Lookup resolves a case-insensitive charset name to its canonical form
// and reports whether it is recognized. "unicode" and "gb18030" resolve to
// themselves; anything else is checked against the named-charmap table.
func Lookup(name string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch lower {
	case NameUnicode, NameGB18030:
		return lower, true
	}
	if _, ok := named[lower]; ok {
		return lower, true
	}
	return "", false
}

// Decode converts bytes in the named charset to a UTF-8 string.
func Decode(b []byte, name string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch lower {
	case "", NameUnicode:
		return decodeUTF8(b), nil
	case NameGB18030:
		out, err := simplifiedchinese.GB18030.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("charset: gb18030 decode: %w", err)
		}
		return string(out), nil
	}
	cm, ok := named[lower]
	if !ok {
		return "", fmt.Errorf("charset: unknown charset %q", name)
	}
	out, err := cm.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("charset: %s decode: %w", name, err)
	}
	return string(out), nil
}

// Encode converts a UTF-8 string to bytes in the named charset.
// Unmappable code points are replaced with '?', matching the documented
// fallback for unrepresentable characters.
func Encode(s string, name string) ([]byte, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch lower {
	case "", NameUnicode:
		return []byte(s), nil
	case NameGB18030:
		out, err := simplifiedchinese.GB18030.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return replaceUnmappable(s), nil
		}
		return out, nil
	}
	cm, ok := named[lower]
	if !ok {
		return nil, fmt.Errorf("charset: unknown charset %q", name)
	}
	out, err := cm.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return replaceUnmappableCharmap(s, cm), nil
	}
	return out, nil
}

func replaceUnmappable(s string) []byte {
	var b []byte
	for _, r := range s {
		if r > 0x7F {
			b = append(b, '?')
		} else {
			b = append(b, byte(r))
		}
	}
	return b
}

func replaceUnmappableCharmap(s string, cm *charmap.Charmap) []byte {
	var b []byte
	for _, r := range s {
		if enc, ok := cm.EncodeRune(r); ok {
			b = append(b, enc)
		} else {
			b = append(b, '?')
		}
	}
	return b
}

// decodeUTF8 walks s byte-by-byte, replacing any invalid leading byte with
// '?' rather than failing the whole decode.
func decodeUTF8(b []byte) string {
	var sb strings.Builder
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			sb.WriteByte('?')
			b = b[1:]
			continue
		}
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}

// WithBOM prepends the UTF-8 byte-order mark to b.
func WithBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	return append(bom, b...)
}

// ValidGB18030FourByte reports whether the four bytes of a GB18030
// four-byte sequence fall within the ranges the format requires:
// second byte in [0x30,0x39], third in [0x81,0xFE], fourth in [0x30,0x39].
// Exposed for callers that need to pre-validate before handing bytes to
// the codec, per spec.md §4.4's decoding edge cases.
func ValidGB18030FourByte(b2, b3, b4 byte) bool {
	return b2 >= 0x30 && b2 <= 0x39 &&
		b3 >= 0x81 && b3 <= 0xFE &&
		b4 >= 0x30 && b4 <= 0x39
}
