// Package semantic implements the domain subroutines shared by every
// dialect: name parsing, title splitting, page-range assembly, URL/DOI
// classification, serial-number classification, type inference, a notes
// router, and month normalization.
package semantic

import (
	"strconv"
	"strings"

	"github.com/refcross/refcross/fields"
)

// SplitTitle splits value on the first ": " or "? " (retaining the "?" on
// the main title) and adds TITLE/SUBTITLE at level, unless nosplit is set.
// A tag with a case-insensitive "SHORT" prefix gets only SHORTTITLE, never
// a subtitle, matching the original implementation's title_process.
func SplitTitle(store *fields.Store, tag, value string, level fields.Level, nosplit bool) {
	var title, subtitle string

	if nosplit {
		title = value
	} else if idx := firstSplitPoint(value); idx >= 0 {
		title = value[:idx]
		if value[idx] == '?' {
			title += "?"
		}
		rest := value[idx+1:]
		rest = strings.TrimLeft(rest, " \t")
		subtitle = rest
	} else {
		title = value
	}

	isShort := len(tag) >= 5 && strings.EqualFold(tag[:5], "SHORT")
	if !isShort {
		if title != "" {
			store.Add(fields.Title, title, level, fields.NoDups)
		}
		if subtitle != "" {
			store.Add(fields.Subtitle, subtitle, level, fields.NoDups)
		}
	} else if title != "" {
		store.Add(fields.ShortTitle, title, level, fields.NoDups)
	}
}

// firstSplitPoint returns the index of the delimiter character (':' or
// '?') of the first ": " or "? " found in value, whichever occurs first,
// or -1 if neither is present.
func firstSplitPoint(value string) int {
	iColon := strings.Index(value, ": ")
	iQuest := strings.Index(value, "? ")
	switch {
	case iColon == -1 && iQuest == -1:
		return -1
	case iColon == -1:
		return iQuest
	case iQuest == -1:
		return iColon
	case iColon < iQuest:
		return iColon
	default:
		return iQuest
	}
}

// CombineTitle reassembles a TITLE+SUBTITLE pair for dialects that only
// emit a single title field, mirroring title_combine: "Main: Sub" unless
// the main title already ends in '?' or ':', in which case just a space
// separates them.
func CombineTitle(title, subtitle string) string {
	if subtitle == "" {
		return title
	}
	if title == "" {
		return subtitle
	}
	last := title[len(title)-1]
	if last == '?' || last == ':' {
		return title + " " + subtitle
	}
	return title + ": " + subtitle
}

// NormalizeMonth accepts "1".."12" or an English month name/abbreviation
// (case-insensitive) and returns "01".."12". Returns "" if unrecognized.
func NormalizeMonth(s string) string {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return monthNum(n)
	}
	lower := strings.ToLower(s)
	for i, name := range monthNames {
		if lower == name || lower == monthAbbrevs[i] {
			return monthNum(i + 1)
		}
	}
	return ""
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var monthAbbrevs = []string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

func monthNum(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
