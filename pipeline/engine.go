// Package pipeline wires a Driver's callbacks together into the batch
// read/convert/write state machine shared by every dialect (spec.md §4.2).
package pipeline

import (
	"bufio"
	"fmt"
	"io"

	"github.com/refcross/refcross/charset"
	"github.com/refcross/refcross/citekey"
	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
)

// maxRefnumAttempts bounds the single-ref-per-output-file collision loop
// (spec.md §4.2 step, write direction): once a candidate filename is this
// far into the sequence without success, the run aborts rather than spin
// forever against an unwritable directory.
const maxRefnumAttempts = 60000

// Engine runs one Driver's Read/Process/Clean/Typify/Convert stages across
// an input stream to build a batch of canonical FieldStores, and the
// Assemble/Write stages back out to an output stream.
type Engine struct {
	Driver Driver
	Params *params.Params
}

// New builds an Engine bound to driver and p.
func New(driver Driver, p *params.Params) *Engine {
	return &Engine{Driver: driver, Params: p}
}

// ReadAll consumes every reference from r, returning the canonical
// (Unicode, dialect-independent) FieldStore batch. filename is used only
// for diagnostics passed through to Process/Typify.
func (e *Engine) ReadAll(r io.Reader, filename string) ([]*fields.Store, error) {
	readParams := e.Params.ForRead()
	br := bufio.NewReader(r)

	var rawBatch []*fields.Store
	nref := 0
	for {
		text, fileCharset, hasMore, err := e.Driver.Read(br)
		if err != nil {
			return nil, fmt.Errorf("pipeline: read: %w", err)
		}
		if !hasMore {
			break
		}
		nref++

		if fileCharset != "" {
			readParams.SetCharsetIn(params.CharsetNamed, fileCharset, params.SourceFile)
		}

		raw, keep, err := e.Driver.Process(text, filename, nref, readParams)
		if err != nil {
			return nil, fmt.Errorf("pipeline: process ref %d: %w", nref, err)
		}
		if !keep || raw == nil {
			continue
		}

		fixupCharset(raw, readParams)
		rawBatch = append(rawBatch, raw)
	}

	if err := e.Driver.Clean(rawBatch, readParams); err != nil {
		return nil, fmt.Errorf("pipeline: clean: %w", err)
	}

	canonical := make([]*fields.Store, 0, len(rawBatch))
	for i, raw := range rawBatch {
		n := i + 1
		reftype := e.Driver.Typify(raw, filename, n, readParams)
		out, err := e.Driver.Convert(raw, reftype, readParams)
		if err != nil {
			return nil, fmt.Errorf("pipeline: convert ref %d: %w", n, err)
		}
		canonical = append(canonical, out)
	}

	citekey.Uniquify(canonical, readParams.AddSequenceSuffixToRef)
	return canonical, nil
}

// fixupCharset decodes every field value in raw from the declared input
// charset/LaTeX/XML escaping into plain Unicode, per spec.md §4.2's
// "CharSetDB round-trip" step. A dialect whose Read/Process already hands
// back Unicode text (UTF8In) is left untouched.
func fixupCharset(raw *fields.Store, p *params.Params) {
	if p.UTF8In && !p.LatexIn && !p.XMLIn {
		return
	}
	for _, f := range raw.All() {
		v := f.Value
		if p.XMLIn {
			v = charset.DecodeEntities(v)
		}
		if p.LatexIn {
			v = charset.DecodeLatex(v)
		}
		if !p.UTF8In && p.CharsetInName != "" {
			if decoded, err := charset.Decode([]byte(v), p.CharsetInName); err == nil {
				v = decoded
			}
		}
		if v != f.Value {
			raw.ReplaceOrAdd(f.Tag, v, f.Level)
		}
	}
}

// WriteAll assembles and writes every canonical reference in batch to w
// using the write-direction Params. When p.SingleRefPerOutputFile is set,
// open must be supplied and is called once per reference to obtain a
// fresh writer (e.g. backed by a uniquely named file); w is used
// otherwise and for the shared header/footer.
func (e *Engine) WriteAll(w io.Writer, batch []*fields.Store, open func(refnum string) (io.WriteCloser, error)) error {
	writeParams := e.Params.ForWrite()

	if !writeParams.SingleRefPerOutputFile {
		if err := e.Driver.Header(w, writeParams); err != nil {
			return fmt.Errorf("pipeline: header: %w", err)
		}
	}

	for i, store := range batch {
		refnum := refnumOf(store, i+1)
		assembled, err := e.Driver.Assemble(store, writeParams, refnum)
		if err != nil {
			return fmt.Errorf("pipeline: assemble ref %d: %w", i+1, err)
		}
		fixupOutputCharset(assembled, writeParams)

		target := w
		var closer io.WriteCloser
		if writeParams.SingleRefPerOutputFile {
			closer, err = openUnique(open, refnum)
			if err != nil {
				return fmt.Errorf("pipeline: open output for ref %d: %w", i+1, err)
			}
			target = closer
			if err := e.Driver.Header(target, writeParams); err != nil {
				return fmt.Errorf("pipeline: header ref %d: %w", i+1, err)
			}
		}

		if err := e.Driver.Write(assembled, target, writeParams, refnum); err != nil {
			return fmt.Errorf("pipeline: write ref %d: %w", i+1, err)
		}

		if writeParams.SingleRefPerOutputFile {
			if err := e.Driver.Footer(target); err != nil {
				return fmt.Errorf("pipeline: footer ref %d: %w", i+1, err)
			}
			if err := closer.Close(); err != nil {
				return fmt.Errorf("pipeline: close output for ref %d: %w", i+1, err)
			}
		}
	}

	if !writeParams.SingleRefPerOutputFile {
		if err := e.Driver.Footer(w); err != nil {
			return fmt.Errorf("pipeline: footer: %w", err)
		}
	}
	return nil
}

// openUnique tries refnum, then refnum+"_2", refnum+"_3", ... until open
// succeeds or maxRefnumAttempts is exhausted, so that two references
// sharing a synthesized key (citekey.Uniquify already disambiguates
// REFNUM itself, but a dialect may derive filenames from a shorter prefix)
// never clobber each other's output file.
func openUnique(open func(refnum string) (io.WriteCloser, error), refnum string) (io.WriteCloser, error) {
	candidate := refnum
	var lastErr error
	for attempt := 1; attempt <= maxRefnumAttempts; attempt++ {
		w, err := open(candidate)
		if err == nil {
			return w, nil
		}
		lastErr = err
		candidate = fmt.Sprintf("%s_%d", refnum, attempt+1)
	}
	return nil, fmt.Errorf("pipeline: could not allocate a unique filename for %q after %d attempts: %w", refnum, maxRefnumAttempts, lastErr)
}

func refnumOf(store *fields.Store, fallback int) string {
	if n := store.Find(fields.RefNum, fields.LevelAny); n != -1 {
		return store.ValueNoUse(n)
	}
	return fmt.Sprintf("ref%d", fallback)
}

// fixupOutputCharset re-encodes every field value in store from Unicode
// into the output charset/LaTeX/XML escaping, the mirror of fixupCharset
// for the write direction.
func fixupOutputCharset(store *fields.Store, p *params.Params) {
	if p.UTF8Out && !p.LatexOut && p.XMLOut == params.XMLOutOff {
		return
	}
	for _, f := range store.All() {
		v := f.Value
		if p.LatexOut && !charset.LatexBypass(f.Tag) {
			v = charset.EncodeLatex(v)
		}
		switch p.XMLOut {
		case params.XMLOutMinimal:
			v = charset.EncodeXMLMinimal(v)
		case params.XMLOutEntities:
			v = charset.EncodeXMLEntities(v)
		}
		if !p.UTF8Out && p.CharsetOutName != "" {
			if encoded, err := charset.Encode(v, p.CharsetOutName); err == nil {
				v = string(encoded)
			}
		}
		if v != f.Value {
			store.ReplaceOrAdd(f.Tag, v, f.Level)
		}
	}
}
