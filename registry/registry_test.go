package registry

import "testing"

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	for _, name := range []string{"bibtex", "ris", "nbib", "isi", "copac", "endnote", "mods", "internal", "ads"} {
		if _, ok := Get(name); !ok {
			t.Fatalf("Get(%q) not found in default registry", name)
		}
	}
}

func TestDetectFormatByExtension(t *testing.T) {
	d, err := DetectFormat("refs.bib", nil)
	if err != nil {
		t.Fatalf("DetectFormat() error = %v", err)
	}
	if d.Name() != "bibtex" {
		t.Fatalf("DetectFormat() = %q, want bibtex", d.Name())
	}
}

func TestDetectFormatUnknownExtension(t *testing.T) {
	if _, err := DetectFormat("refs.xyz", nil); err == nil {
		t.Fatal("DetectFormat() should fail for an unrecognized extension with no content to sniff")
	}
}
