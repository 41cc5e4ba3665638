package ads

import "strings"

// journalAbbrevs maps a handful of well-known host-journal titles to
// their ADS bibcode abbreviation, the same role adsout_journals.c's
// multi-thousand-entry journals[] table plays in the original. That
// table isn't available to port in full here, so this is a small,
// explicitly partial subset; a title with no entry simply leaves the
// reference code's JJJJJ slot as dots, which is what the original does
// for any journal not in its table too.
var journalAbbrevs = map[string]string{
	"astrophysical journal":         "ApJ",
	"astrophysical journal letters": "ApJL",
	"astronomy and astrophysics":    "A&A",
	"monthly notices of the royal astronomical society": "MNRAS",
	"nature":                 "Natur",
	"science":                "Sci",
	"astronomical journal":   "AJ",
	"physical review d":      "PhRvD",
	"physical review letters": "PhRvL",
	"publications of the astronomical society of the pacific": "PASP",
}

// journalAbbrev looks up title case-insensitively.
func journalAbbrev(title string) (abbrev string, ok bool) {
	abbrev, ok = journalAbbrevs[strings.ToLower(strings.TrimSpace(title))]
	return abbrev, ok
}
