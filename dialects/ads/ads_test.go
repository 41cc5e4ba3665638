package ads

import (
	"bufio"
	"strings"
	"testing"

	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
)

func TestInitialASCIIFixedRanges(t *testing.T) {
	cases := []struct {
		name string
		want byte
	}{
		{"\xc3\x84bel", 'A'},       // Ä -> A, sanity check on the unmodified 0xc3 case
		{"\xc4\x90urin", 'D'},      // 0xc4, b1=0x90: inside the fixed 0x8e-0x91 && range
		{"\xc5\x8cno", 'O'},        // 0xc5, b1=0x8c: inside the fixed 0x8c-0x93 && range
		{"\xc6\x8aylak", 'D'},      // 0xc6, b1=0x8a: inside the fixed 0x89-0x8d && range
		{"Smith", 'S'},             // plain ASCII passes through unchanged
		{"\xe2\x82\xacuro", '.'},   // unrecognized lead byte folds to placeholder
	}
	for _, c := range cases {
		if got := initialASCII(c.name); got != c.want {
			t.Errorf("initialASCII(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestOutput4DigitRightJustifies(t *testing.T) {
	buf := []byte("....")
	output4Digit(buf, 0, 7)
	if string(buf) != "...7" {
		t.Fatalf("got %q, want \"...7\"", buf)
	}

	buf = []byte("....")
	output4Digit(buf, 0, 42)
	if string(buf) != "..42" {
		t.Fatalf("got %q, want \"..42\"", buf)
	}

	buf = []byte("....")
	output4Digit(buf, 0, 12345)
	if string(buf) != "2345" {
		t.Fatalf("got %q, want \"2345\" (truncated mod 10000)", buf)
	}
}

func TestBuildRefCodeLayout(t *testing.T) {
	code := buildRefCode("2024", "ApJ", "900", 123, true, "Smith")
	if len(code) != 19 {
		t.Fatalf("len(code) = %d, want 19", len(code))
	}
	if code[0:4] != "2024" {
		t.Fatalf("year slot = %q, want 2024", code[0:4])
	}
	if code[4:7] != "ApJ" {
		t.Fatalf("journal slot = %q, want ApJ", code[4:7])
	}
	if code[18] != 'S' {
		t.Fatalf("initial slot = %q, want S", code[18])
	}
}

func TestProcessSplitsDateIntoMonthAndYear(t *testing.T) {
	d := New()
	store, hasMore, err := d.Process("%D 04/2024\n", "", 0, nil)
	if err != nil || !hasMore {
		t.Fatalf("Process() error = %v hasMore=%v", err, hasMore)
	}
	if n := store.Find("D_YEAR", fields.LevelMain); n == -1 || store.ValueNoUse(n) != "2024" {
		t.Fatalf("D_YEAR not split out correctly: %+v", store.All())
	}
	if n := store.Find("D_MONTH", fields.LevelMain); n == -1 || store.ValueNoUse(n) != "04" {
		t.Fatalf("D_MONTH not split out correctly: %+v", store.All())
	}
}

func TestAssembleAndWriteRoundTrip(t *testing.T) {
	d := New()
	p := params.New("ads_test")

	raw, _, err := d.Read(bufio.NewReader(strings.NewReader(
		"%A Smith, John\n%T A Title About Stars\n%J Astrophysical Journal\n%D 06/2020\n%V 900\n%P 123\n\n")))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	store, _, err := d.Process(raw, "in.ads", 0, p)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	reftype := d.Typify(store, "in.ads", 0, p)
	canon, err := d.Convert(store, reftype, p)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	assembled, err := d.Assemble(canon, p, "1")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	var sb strings.Builder
	if err := d.Write(assembled, &sb, p, "1"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, "%A Smith, John") {
		t.Errorf("missing author line in output:\n%s", out)
	}
	if !strings.Contains(out, "%T A Title About Stars") {
		t.Errorf("missing title line in output:\n%s", out)
	}
	if !strings.Contains(out, "%W PHY") || !strings.Contains(out, "%G AUTHOR") {
		t.Errorf("missing trailer constants in output:\n%s", out)
	}
	if !strings.HasPrefix(out, "%R 2020ApJ ") && !strings.Contains(out, "%R 2020ApJ") {
		t.Errorf("unexpected reference code line in output:\n%s", out)
	}
}
