package mods

import "strings"

// iso6392bCodes maps the common English language names a dialect is
// likely to carry in its LANGUAGE field to their ISO 639-2b code, for
// the <languageTerm type="code" authority="iso639-2b"> MODS emits
// alongside the text form. Not exhaustive: languages with no entry here
// only get the text-form languageTerm.
var iso6392bCodes = map[string]string{
	"english":    "eng",
	"french":     "fre",
	"german":     "ger",
	"spanish":    "spa",
	"italian":    "ita",
	"portuguese": "por",
	"dutch":      "dut",
	"russian":    "rus",
	"chinese":    "chi",
	"japanese":   "jpn",
	"korean":     "kor",
	"arabic":     "ara",
	"latin":      "lat",
	"greek":      "gre",
	"polish":     "pol",
	"swedish":    "swe",
	"norwegian":  "nor",
	"danish":     "dan",
	"finnish":    "fin",
	"hungarian":  "hun",
	"czech":      "cze",
	"turkish":    "tur",
	"hebrew":     "heb",
	"hindi":      "hin",
}

// iso6392bCode looks up name case-insensitively.
func iso6392bCode(name string) (code string, ok bool) {
	code, ok = iso6392bCodes[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}
