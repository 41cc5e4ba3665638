package charset

import "testing"

func TestDecodeEntitiesNamedAndNumeric(t *testing.T) {
	got := DecodeEntities("&#x03B1; and &alpha;")
	want := "α and α"
	if got != want {
		t.Fatalf("DecodeEntities() = %q, want %q", got, want)
	}
}

func TestDecodeEntitiesToleratesMissingSemicolon(t *testing.T) {
	got := DecodeEntities("&amp and &#97 done")
	want := "& and a done"
	if got != want {
		t.Fatalf("DecodeEntities() = %q, want %q", got, want)
	}
}

func TestDecodeEntitiesUnrecognizedPassesThrough(t *testing.T) {
	got := DecodeEntities("A & B")
	if got != "A & B" {
		t.Fatalf("DecodeEntities() = %q, want unchanged", got)
	}
}

func TestEncodeXMLMinimalOnlyFiveEscapes(t *testing.T) {
	got := EncodeXMLMinimal(`<a href="x">α & β</a>`)
	want := `&lt;a href=&quot;x&quot;&gt;α &amp; β&lt;/a&gt;`
	if got != want {
		t.Fatalf("EncodeXMLMinimal() = %q, want %q", got, want)
	}
}

func TestEncodeXMLEntitiesEscapesNonASCII(t *testing.T) {
	got := EncodeXMLEntities("α")
	if got != "&#x3B1;" {
		t.Fatalf("EncodeXMLEntities() = %q, want &#x3B1;", got)
	}
}

func TestStripXMLProlog(t *testing.T) {
	cs, rest := StripXMLProlog(`<?xml version="1.0" encoding="ISO-8859-1"?><root/>`)
	if cs != "ISO-8859-1" {
		t.Fatalf("StripXMLProlog() charset = %q, want ISO-8859-1", cs)
	}
	if rest != "<root/>" {
		t.Fatalf("StripXMLProlog() rest = %q, want <root/>", rest)
	}
}

func TestStripXMLPrologNoProlog(t *testing.T) {
	cs, rest := StripXMLProlog("<root/>")
	if cs != "" || rest != "<root/>" {
		t.Fatalf("StripXMLProlog() = (%q, %q), want (\"\", <root/>)", cs, rest)
	}
}

func TestDecodeLatexAccentSpellings(t *testing.T) {
	cases := []struct{ in, want string }{
		{`Jos{\'e} Garc{\'i}a`, "José García"},
		{`caf\'e`, "café"},
		{`Fran\c{c}ois`, "François"},
	}
	for _, c := range cases {
		got := DecodeLatex(c.in)
		if got != c.want {
			t.Errorf("DecodeLatex(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDecodeLatexTildeAndEscapedTilde(t *testing.T) {
	if got := DecodeLatex(`a\~b`); got != "a~b" {
		t.Errorf(`DecodeLatex(a\~b) = %q, want "a~b"`, got)
	}
	if got := DecodeLatex("a~b"); got != "a b" {
		t.Errorf(`DecodeLatex("a~b") = %q, want "a b" (non-breaking space)`, got)
	}
}

func TestDecodeLatexBracedSymbols(t *testing.T) {
	cases := map[string]string{
		`{\O}stersund`: "Østersund",
		`{\ss}`:        "ß",
	}
	for in, want := range cases {
		if got := DecodeLatex(in); got != want {
			t.Errorf("DecodeLatex(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLatexLigaturesRoundTrip(t *testing.T) {
	cases := map[string]string{
		"``Quoted''":     "“Quoted”",
		"don`t stop--go": "don‘t stop–go",
		"pages 1--20":    "pages 1–20",
		"em---dash":      "em—dash",
	}
	for in, want := range cases {
		if got := DecodeLatex(in); got != want {
			t.Errorf("DecodeLatex(%q) = %q, want %q", in, got, want)
		}
		if got := EncodeLatex(want); got != in {
			t.Errorf("EncodeLatex(%q) = %q, want %q", want, got, in)
		}
	}
}

func TestLatexBypassTags(t *testing.T) {
	for _, tag := range []string{"DOI", "url", "RefNum", "FILEATTACH"} {
		if !LatexBypass(tag) {
			t.Errorf("LatexBypass(%q) = false, want true", tag)
		}
	}
	if LatexBypass("TITLE") {
		t.Errorf("LatexBypass(TITLE) = true, want false")
	}
}

func TestDecodeUTF8InvalidLeadingByteBecomesQuestionMark(t *testing.T) {
	got := decodeUTF8([]byte{'a', 0xFF, 'b'})
	if got != "a?b" {
		t.Fatalf("decodeUTF8() = %q, want a?b", got)
	}
}

func TestValidGB18030FourByte(t *testing.T) {
	if !ValidGB18030FourByte(0x35, 0x90, 0x35) {
		t.Error("expected valid range to pass")
	}
	if ValidGB18030FourByte(0x40, 0x90, 0x35) {
		t.Error("expected out-of-range second byte to fail")
	}
}

func TestNamedCharsetRoundTrip(t *testing.T) {
	b, err := Encode("café", "iso-8859-1")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(b, "iso-8859-1")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != "café" {
		t.Fatalf("round trip = %q, want café", got)
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("Windows-1252"); !ok {
		t.Error("Lookup(Windows-1252) should be recognized")
	}
	if _, ok := Lookup("bogus-charset"); ok {
		t.Error("Lookup(bogus-charset) should not be recognized")
	}
}
