// Package citekey builds and uniquifies human-readable citation keys
// across a batch of references.
package citekey

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/refcross/refcross/fields"
)

// Synthesize returns a REFNUM for the reference at 1-based index nref if
// store has none already: the first AUTHOR family name concatenated with
// DATE:YEAR (whitespace stripped from both), or "ref<N>" if either piece
// is missing, per spec.md §4.6 pass one.
func Synthesize(store *fields.Store, nref int) string {
	if n := store.Find(fields.RefNum, fields.LevelAny); n != -1 {
		return store.ValueNoUse(n)
	}

	family := firstAuthorFamily(store)
	year := ""
	if n := store.Find(fields.DateYear, fields.LevelAny); n != -1 {
		year = strings.Join(strings.Fields(store.ValueNoUse(n)), "")
	}
	family = strings.Join(strings.Fields(family), "")

	if family == "" || year == "" {
		return "ref" + strconv.Itoa(nref)
	}
	return family + year
}

func firstAuthorFamily(store *fields.Store) string {
	n := store.Find(fields.Author, fields.LevelMain)
	if n == -1 {
		n = store.Find(fields.Author, fields.LevelAny)
	}
	if n == -1 {
		return ""
	}
	value := store.ValueNoUse(n)
	if i := strings.IndexByte(value, '|'); i != -1 {
		return value[:i]
	}
	return value
}

// Uniquify assigns a REFNUM to every store in batch, then disambiguates
// exact (case-sensitive) duplicates by appending a, b, c, ... in
// reference order; after z it continues with repeated-letter padding
// (aa, ab, ..., matching the original implementation's scheme rather than
// pure base-26) so collisions cannot reappear under renaming. If
// addSequenceSuffix is set, "_<1-based index>" is appended to every
// REFNUM regardless of duplication.
func Uniquify(batch []*fields.Store, addSequenceSuffix bool) {
	keys := make([]string, len(batch))
	for i, store := range batch {
		keys[i] = Synthesize(store, i+1)
	}

	counts := map[string]int{}
	for _, k := range keys {
		counts[k]++
	}

	seen := map[string]int{}
	final := make([]string, len(keys))
	for i, k := range keys {
		if counts[k] < 2 {
			final[i] = k
			continue
		}
		idx := seen[k]
		seen[k]++
		final[i] = k + suffixFor(idx)
	}

	if addSequenceSuffix {
		for i := range final {
			final[i] = fmt.Sprintf("%s_%d", final[i], i+1)
		}
	}

	for i, store := range batch {
		store.ReplaceOrAdd(fields.RefNum, final[i], fields.LevelMain)
	}
}

// suffixFor returns the idx'th disambiguation suffix: "a".."z", then,
// once 26 is exceeded, "aa".."az", then "aaa".."aaz", and so on —
// padding with a fixed extra "a" per overflow level rather than
// incrementing a positional base-26 digit, matching the original
// implementation's repeated-a scheme (spec.md §9 Open Question (a)).
func suffixFor(idx int) string {
	pad := strings.Repeat("a", idx/26)
	return pad + string(rune('a'+idx%26))
}
