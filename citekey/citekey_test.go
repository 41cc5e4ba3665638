package citekey

import (
	"testing"

	"github.com/refcross/refcross/fields"
)

func newRef(family, year string) *fields.Store {
	s := fields.New()
	if family != "" {
		s.Add(fields.Author, family+"|John", fields.LevelMain, fields.NoDups)
	}
	if year != "" {
		s.Add(fields.DateYear, year, fields.LevelMain, fields.NoDups)
	}
	return s
}

func TestSynthesizeFromAuthorAndYear(t *testing.T) {
	s := newRef("Smith", "2001")
	if got := Synthesize(s, 1); got != "Smith2001" {
		t.Fatalf("Synthesize() = %q, want Smith2001", got)
	}
}

func TestSynthesizeFallsBackToRefN(t *testing.T) {
	s := fields.New()
	if got := Synthesize(s, 7); got != "ref7" {
		t.Fatalf("Synthesize() = %q, want ref7", got)
	}
}

func TestSynthesizePreservesExistingRefNum(t *testing.T) {
	s := fields.New()
	s.Add(fields.RefNum, "MyKey", fields.LevelMain, fields.NoDups)
	if got := Synthesize(s, 1); got != "MyKey" {
		t.Fatalf("Synthesize() = %q, want MyKey", got)
	}
}

func TestUniquifyCollision(t *testing.T) {
	batch := []*fields.Store{
		newRef("Doe", "2020"),
		newRef("Doe", "2020"),
	}
	Uniquify(batch, false)

	got := []string{refnum(batch[0]), refnum(batch[1])}
	want := []string{"Doe2020a", "Doe2020b"}
	if got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Uniquify() = %v, want %v", got, want)
	}
}

func TestUniquifyNoCollisionLeavesKeyUnchanged(t *testing.T) {
	batch := []*fields.Store{newRef("Smith", "2001")}
	Uniquify(batch, false)
	if got := refnum(batch[0]); got != "Smith2001" {
		t.Fatalf("refnum = %q, want Smith2001 (unchanged)", got)
	}
}

func TestUniquifyAddSequenceSuffix(t *testing.T) {
	batch := []*fields.Store{newRef("Smith", "2001")}
	Uniquify(batch, true)
	if got := refnum(batch[0]); got != "Smith2001_1" {
		t.Fatalf("refnum = %q, want Smith2001_1", got)
	}
}

func TestUniquifyBeyond26Collisions(t *testing.T) {
	batch := make([]*fields.Store, 28)
	for i := range batch {
		batch[i] = newRef("Many", "1999")
	}
	Uniquify(batch, false)
	if got := refnum(batch[25]); got != "Many1999z" {
		t.Fatalf("26th entry = %q, want Many1999z", got)
	}
	if got := refnum(batch[26]); got != "Many1999aa" {
		t.Fatalf("27th entry = %q, want Many1999aa", got)
	}
	if got := refnum(batch[27]); got != "Many1999ab" {
		t.Fatalf("28th entry = %q, want Many1999ab", got)
	}
}

func refnum(s *fields.Store) string {
	n := s.Find(fields.RefNum, fields.LevelAny)
	if n == -1 {
		return ""
	}
	return s.ValueNoUse(n)
}
