package ads

import "strings"

// initialASCII returns the ASCII letter a name's first character folds
// to, the way adsout.c's initial_ascii does: an ASCII byte is returned
// unchanged (the caller upper-cases it), and the handful of Latin-1
// Supplement/Extended-A/Extended-B two-byte UTF-8 lead bytes adsout.c
// recognizes fold to the nearest plain letter. Anything else folds to
// '.', the ADS reference code's placeholder for "unknown".
//
// Three of the original ranges are guarded by "||" where the surrounding
// ranges make it clear "&&" was meant (a one-sided bound can never be
// false, so the whole case always fired); those three are fixed here to
// "&&". The 0xc6 case also carries a reversed bound (0xba > 0x9b) in the
// original that is always false either way; ported unchanged since fixing
// it isn't one of the documented fixes and it was already unreachable.
func initialASCII(name string) byte {
	if len(name) == 0 {
		return 0
	}
	b0 := name[0]
	if b0 < 0x80 {
		return b0
	}
	if len(name) < 2 {
		return '.'
	}
	b1 := name[1]
	switch b0 {
	case 0xc3:
		switch {
		case b1 >= 0x80 && b1 <= 0x86:
			return 'A'
		case b1 == 0x87:
			return 'C'
		case b1 >= 0x88 && b1 <= 0x8b:
			return 'E'
		case b1 >= 0x8c && b1 <= 0x8f:
			return 'I'
		case b1 == 0x90:
			return 'D'
		case b1 == 0x91:
			return 'N'
		case b1 >= 0x92 && b1 <= 0x98:
			return 'O'
		case b1 >= 0x99 && b1 <= 0x9c:
			return 'U'
		case b1 == 0x9d:
			return 'Y'
		case b1 == 0x9f:
			return 'S'
		case b1 >= 0xa0 && b1 <= 0xa6:
			return 'A'
		case b1 == 0xa7:
			return 'C'
		case b1 >= 0xa8 && b1 <= 0xab:
			return 'E'
		case b1 >= 0xac && b1 <= 0xaf:
			return 'I'
		case b1 == 0xb0:
			return 'D'
		case b1 == 0xb1:
			return 'N'
		case b1 >= 0xb2 && b1 <= 0xb8:
			return 'O'
		case b1 >= 0xb9 && b1 <= 0xbc:
			return 'U'
		case b1 >= 0xbd && b1 <= 0xbf:
			return 'Y'
		}
	case 0xc4:
		switch {
		case b1 >= 0x80 && b1 <= 0x85:
			return 'A'
		case b1 >= 0x86 && b1 <= 0x8d:
			return 'C'
		case b1 >= 0x8e && b1 <= 0x91: // fixed: original used "||"
			return 'D'
		case b1 >= 0x92 && b1 <= 0x9b:
			return 'E'
		case b1 >= 0x9c && b1 <= 0xa3:
			return 'G'
		case b1 >= 0xa4 && b1 <= 0xa7:
			return 'H'
		case b1 >= 0xa8 && b1 <= 0xb3:
			return 'I'
		case b1 >= 0xb4 && b1 <= 0xb5:
			return 'J'
		case b1 >= 0xb6 && b1 <= 0xb8:
			return 'K'
		case b1 >= 0xb9 && b1 <= 0xbf:
			return 'L'
		}
	case 0xc5:
		switch {
		case b1 >= 0x80 && b1 <= 0x82:
			return 'L'
		case b1 >= 0x83 && b1 <= 0x8b:
			return 'N'
		case b1 >= 0x8c && b1 <= 0x93: // fixed: original used "||"
			return 'O'
		case b1 >= 0x94 && b1 <= 0x99:
			return 'R'
		case b1 >= 0x9a && b1 <= 0xa1:
			return 'S'
		case b1 >= 0xa2 && b1 <= 0xa7:
			return 'T'
		case b1 >= 0xa8 && b1 <= 0xb3:
			return 'U'
		case b1 >= 0xb4 && b1 <= 0xb5:
			return 'W'
		case b1 >= 0xb6 && b1 <= 0xb8:
			return 'Y'
		case b1 >= 0xb9 && b1 <= 0xbf:
			return 'Z'
		}
	case 0xc6:
		switch {
		case b1 >= 0x80 && b1 <= 0x85:
			return 'B'
		case b1 >= 0x86 && b1 <= 0x88:
			return 'C'
		case b1 >= 0x89 && b1 <= 0x8d: // fixed: original used "||"
			return 'D'
		case b1 >= 0x8e && b1 <= 0x90:
			return 'E'
		case b1 >= 0x91 && b1 <= 0x92:
			return 'F'
		case b1 >= 0x93 && b1 <= 0x94:
			return 'G'
		case b1 == 0x95:
			return 'H'
		case b1 >= 0x96 && b1 <= 0x97:
			return 'I'
		case b1 >= 0x98 && b1 <= 0x99:
			return 'K'
		case b1 >= 0xba && b1 <= 0x9b: // unreachable in the original too
			return 'L'
		case b1 == 0xbc:
			return 'M'
		case b1 >= 0x9d && b1 <= 0x9e:
			return 'N'
		case b1 >= 0x9f && b1 <= 0xa3:
			return 'O'
		case b1 >= 0xa4 && b1 <= 0xa5:
			return 'P'
		case b1 == 0xa6:
			return 'R'
		case b1 >= 0xa7 && b1 <= 0xaa:
			return 'S'
		case b1 >= 0xab && b1 <= 0xae:
			return 'T'
		case b1 >= 0xaf && b1 <= 0xb1:
			return 'U'
		case b1 == 0xb2:
			return 'V'
		case b1 >= 0xb3 && b1 <= 0xb4:
			return 'Y'
		case b1 >= 0xb5 && b1 <= 0xbe:
			return 'Z'
		}
	}
	return '.'
}

// output4Digit right-justifies n's last four decimal digits into buf at
// [offset, offset+4), leaving the placeholder bytes already at the
// untouched leading positions (mirrors adsout.c's output_4digit_value,
// which never zero-pads, only truncates to 0-9999 and right-justifies).
func output4Digit(buf []byte, offset int, n int64) {
	n = n % 10000
	digits := []byte(itoa(n))
	switch {
	case n < 10:
		copy(buf[offset+3:offset+4], digits)
	case n < 100:
		copy(buf[offset+2:offset+4], digits)
	case n < 1000:
		copy(buf[offset+1:offset+4], digits)
	default:
		copy(buf[offset:offset+4], digits)
	}
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var b [20]byte
	i := len(b)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}

// buildRefCode assembles the 19-character YYYYJJJJJVVVVMPPPPA reference
// code (adsout.c's append_Rtag): year, journal abbreviation, volume, a
// >=10000-page letter prefix plus page, and the first author's folded
// initial, each field left as '.' placeholders when the source data is
// absent.
func buildRefCode(year string, journalAbbrev string, volume string, page int64, hasPage bool, firstAuthor string) string {
	buf := []byte("...................")

	if year != "" {
		output4Digit(buf, 0, atoi(year))
	}

	abbrev := journalAbbrev
	if len(abbrev) > 5 {
		abbrev = abbrev[:5]
	}
	for i := 0; i < len(abbrev); i++ {
		buf[4+i] = abbrev[i]
	}

	if volume != "" {
		output4Digit(buf, 9, atoi(volume))
	}

	if hasPage {
		output4Digit(buf, 14, page)
		if page >= 10000 {
			buf[13] = byte('a' + page/10000)
		}
	}

	if firstAuthor != "" {
		if ch := initialASCII(firstAuthor); ch != 0 {
			buf[18] = upperASCII(ch)
		}
	}

	return string(buf)
}

func atoi(s string) int64 {
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int64(r-'0')
	}
	return n
}

func upperASCII(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// firstAuthorFamily pulls the family-name part ("Last" of a "Last|First"
// canonical name) of the first AUTHOR field, for buildRefCode's initial.
func firstAuthorFamily(v string) string {
	family, _, _ := strings.Cut(v, "|")
	return family
}
