// Package params implements the Parameter Block that is built once per run
// and carried through every pipeline stage: format/charset selection, the
// boolean option set, dialect callbacks, and user-supplied name overrides.
package params

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// Format identifies a dialect by name. Dialects register themselves under
// one of these in the registry package; Params only ever stores the id.
type Format int

const (
	FormatUnknown Format = iota
	FormatBibTeX
	FormatBibLaTeX
	FormatRIS
	FormatEndNoteRefer
	FormatEndNoteXML
	FormatNBIB
	FormatISI
	FormatCOPAC
	FormatMODS
	FormatADS
	FormatWordXML
	FormatInternal
)

func (f Format) String() string {
	switch f {
	case FormatBibTeX:
		return "bibtex"
	case FormatBibLaTeX:
		return "biblatex"
	case FormatRIS:
		return "ris"
	case FormatEndNoteRefer:
		return "endnote"
	case FormatEndNoteXML:
		return "endnotexml"
	case FormatNBIB:
		return "nbib"
	case FormatISI:
		return "isi"
	case FormatCOPAC:
		return "copac"
	case FormatMODS:
		return "mods"
	case FormatADS:
		return "ads"
	case FormatWordXML:
		return "wordxml"
	case FormatInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Charset identifies an input/output encoding. The two sentinel values
// bypass the named single-byte charset tables entirely.
type Charset int

const (
	CharsetUnknown Charset = iota
	// CharsetUnicode is the UTF-8 sentinel.
	CharsetUnicode
	// CharsetGB18030 is the GB18030 sentinel.
	CharsetGB18030
	// CharsetNamed indicates charset.Name carries a golang.org/x/text
	// charmap name (e.g. "ISO-8859-1", "windows-1252").
	CharsetNamed
)

// Source records where a setting came from, per spec.md's source-priority
// rule: user-specified > file-declared > default.
type Source int

const (
	SourceDefault Source = iota
	SourceFile
	SourceUser
)

// outranks reports whether s should overwrite the value currently recorded
// with cur.
func (s Source) outranks(cur Source) bool {
	return s >= cur
}

// XMLOutMode is the tri-state for XML output escaping.
type XMLOutMode int

const (
	XMLOutOff XMLOutMode = iota
	XMLOutEntities
	XMLOutMinimal
)

// BibTeXMode carries BibTeX/BibLaTeX output styling bits (spec.md §3).
type BibTeXMode struct {
	UppercaseTags bool
	BraceDelim    bool // false = quote-delimited
	DropKey       bool
	StrictKey     bool
	EnDash        bool // true = single "-" between pages; false = "--"
	TrailingComma bool
	Indent        string
}

// MODSMode carries MODS output styling bits.
type MODSMode struct {
	DropKey bool
}

// Params is the configuration block threaded through a batch run. One is
// built per run by New, then duplicated into read/write directional copies
// by ForRead/ForWrite as the pipeline crosses the canonical form.
type Params struct {
	ProgramName string

	InputFormat  Format
	OutputFormat Format

	CharsetIn     Charset
	CharsetInName string
	charsetInSrc  Source

	CharsetOut     Charset
	CharsetOutName string
	charsetOutSrc  Source

	LatexIn  bool
	LatexOut bool
	UTF8In   bool
	UTF8Out  bool
	UTF8BOM  bool

	XMLIn  bool
	XMLOut XMLOutMode

	SplitTitleOnColon       bool
	SingleRefPerOutputFile  bool
	AddSequenceSuffixToRef  bool

	BibTeX BibTeXMode
	MODS   MODSMode

	// Asis/Corps hold user-supplied author-name overrides: strings that
	// bypass name tokenization and are emitted verbatim (Asis) or tagged
	// AUTHOR:CORP (Corps).
	Asis  []string
	Corps []string

	// Extra carries dialect-specific passthrough data that has no
	// canonical tag of its own (e.g. BibLaTeX's entrysubtype), the same
	// role the teacher gives Extra on its canonical record type.
	Extra *structpb.Struct
}

// New builds a default Params for programName. Format ids and charsets
// default to CharsetUnicode/FormatUnknown until Set* calls them with a
// higher-priority Source.
func New(programName string) *Params {
	return &Params{
		ProgramName: programName,
		CharsetIn:   CharsetUnicode,
		CharsetOut:  CharsetUnicode,
		UTF8In:      true,
		UTF8Out:     true,
		// Title splitting on ":" is on by default; the CLI's -nt flag
		// ("no-split-title") is what turns it off.
		SplitTitleOnColon: true,
	}
}

// InitInput returns a Params configured for reading format id.
func InitInput(formatID Format, programName string) (*Params, error) {
	if formatID == FormatUnknown {
		return nil, fmt.Errorf("params: illegal input format id")
	}
	p := New(programName)
	p.InputFormat = formatID
	return p, nil
}

// InitOutput returns a Params configured for writing format id.
func InitOutput(formatID Format, programName string) (*Params, error) {
	if formatID == FormatUnknown {
		return nil, fmt.Errorf("params: illegal output format id")
	}
	p := New(programName)
	p.OutputFormat = formatID
	return p, nil
}

// SetCharsetIn records an input charset, honoring source priority: a lower-
// priority source (e.g. a file-declared charset arriving after a user flag
// was already set) is silently ignored.
func (p *Params) SetCharsetIn(cs Charset, name string, src Source) {
	if !src.outranks(p.charsetInSrc) {
		return
	}
	p.CharsetIn = cs
	p.CharsetInName = name
	p.charsetInSrc = src
}

// SetCharsetOut records an output charset with the same priority rule.
func (p *Params) SetCharsetOut(cs Charset, name string, src Source) {
	if !src.outranks(p.charsetOutSrc) {
		return
	}
	p.CharsetOut = cs
	p.CharsetOutName = name
	p.charsetOutSrc = src
}

// AddAsis appends name to the asis override list.
func (p *Params) AddAsis(name string) {
	if name != "" {
		p.Asis = append(p.Asis, name)
	}
}

// AddCorps appends name to the corps override list.
func (p *Params) AddCorps(name string) {
	if name != "" {
		p.Corps = append(p.Corps, name)
	}
}

// ReadAsisFile appends every non-blank line of path to the asis list.
func (p *Params) ReadAsisFile(path string) error {
	lines, err := readLines(path)
	if err != nil {
		return fmt.Errorf("params: read asis file: %w", err)
	}
	p.Asis = append(p.Asis, lines...)
	return nil
}

// ReadCorpsFile appends every non-blank line of path to the corps list.
func (p *Params) ReadCorpsFile(path string) error {
	lines, err := readLines(path)
	if err != nil {
		return fmt.Errorf("params: read corps file: %w", err)
	}
	p.Corps = append(p.Corps, lines...)
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}

// ForRead returns a copy of p suitable for the read direction: the
// intermediate encoding is forced to Unicode regardless of what CharsetOut
// carries, matching spec.md §4.2 step 1.
func (p *Params) ForRead() *Params {
	cp := *p
	cp.CharsetOut = CharsetUnicode
	cp.CharsetOutName = ""
	cp.charsetOutSrc = SourceDefault
	cp.UTF8Out = true
	return &cp
}

// ForWrite returns a copy of p suitable for the write direction: the
// intermediate encoding is forced to Unicode, and xml-in/latex-in are
// turned off since the source is already canonical, per spec.md §4.2.
func (p *Params) ForWrite() *Params {
	cp := *p
	cp.CharsetIn = CharsetUnicode
	cp.CharsetInName = ""
	cp.charsetInSrc = SourceDefault
	cp.UTF8In = true
	cp.XMLIn = false
	cp.LatexIn = false
	return &cp
}

// SetExtra stores key=value in the Extra passthrough struct, creating it on
// first use. Grounded on the teacher's hub.Record.SetExtra.
func (p *Params) SetExtra(key string, value any) error {
	if p.Extra == nil {
		p.Extra = &structpb.Struct{Fields: map[string]*structpb.Value{}}
	}
	v, err := structpb.NewValue(value)
	if err != nil {
		return fmt.Errorf("params: set extra %q: %w", key, err)
	}
	p.Extra.Fields[key] = v
	return nil
}

// GetExtra retrieves a previously stored Extra value. Grounded on the
// teacher's hub.Record.GetExtra.
func (p *Params) GetExtra(key string) (*structpb.Value, bool) {
	if p.Extra == nil {
		return nil, false
	}
	v, ok := p.Extra.Fields[key]
	return v, ok
}
