package pipeline

import (
	"bufio"
	"io"

	"github.com/refcross/refcross/dispatch"
	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
)

// Driver is the contract every dialect implements, wiring its
// readers/writers and lookup tables into the Engine. Each of the nine
// callbacks corresponds directly to a function-pointer slot in the
// source's Parameter Block (spec.md §3, §6).
type Driver interface {
	// Name identifies the dialect (e.g. "bibtex", "ris", "mods").
	Name() string

	// Table returns the dialect's DispatchTable variants.
	Table() dispatch.Table

	// Read pulls the next reference's raw text block from r, returning
	// false once the stream is exhausted. It may report a file-declared
	// charset via fileCharset (empty if none was declared).
	Read(r *bufio.Reader) (text string, fileCharset string, hasMore bool, err error)

	// Process parses text into a raw FieldStore. keep is false when the
	// block should be silently discarded (e.g. a BibTeX @comment).
	Process(text string, filename string, nref int, p *params.Params) (store *fields.Store, keep bool, err error)

	// Clean performs optional dialect-specific fixups across the whole
	// batch (cross-reference inheritance, Wiley-author splitting, ...).
	Clean(batch []*fields.Store, p *params.Params) error

	// Typify maps a raw FieldStore to a reftype index into Table().
	Typify(store *fields.Store, filename string, nref int, p *params.Params) int

	// Convert routes every field of in through Table() and writes the
	// canonical result into a fresh FieldStore.
	Convert(in *fields.Store, reftype int, p *params.Params) (*fields.Store, error)

	// Header writes the output file's header, if any.
	Header(w io.Writer, p *params.Params) error

	// Footer writes the output file's footer, if any.
	Footer(w io.Writer) error

	// Assemble optionally reorders/reshapes store for output.
	Assemble(store *fields.Store, p *params.Params, refnum string) (*fields.Store, error)

	// Write emits one reference.
	Write(store *fields.Store, w io.Writer, p *params.Params, refnum string) error
}

// BaseDriver supplies no-op defaults for the optional Driver methods
// (Clean, Header, Footer, Assemble), so a dialect only needs to embed it
// and override what it actually uses.
type BaseDriver struct{}

func (BaseDriver) Clean([]*fields.Store, *params.Params) error { return nil }
func (BaseDriver) Header(io.Writer, *params.Params) error      { return nil }
func (BaseDriver) Footer(io.Writer) error                      { return nil }
func (BaseDriver) Assemble(store *fields.Store, _ *params.Params, _ string) (*fields.Store, error) {
	return store, nil
}
