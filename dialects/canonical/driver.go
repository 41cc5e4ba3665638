// Package canonical implements the dialect named "internal": a direct
// tab-delimited dump of the canonical FieldStore itself, used to satisfy
// the pipeline's idempotence guarantee (running a canonical reference
// back through the pipeline with input format "internal" must leave
// every value byte-identical) and as a debugging/interchange format of
// last resort.
package canonical

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/refcross/refcross/dispatch"
	"github.com/refcross/refcross/fields"
	"github.com/refcross/refcross/params"
	"github.com/refcross/refcross/pipeline"
)

// Driver implements pipeline.Driver for the internal dump format.
type Driver struct {
	pipeline.BaseDriver
	table dispatch.Table
}

// New returns an internal-format Driver.
func New() *Driver { return &Driver{table: Table()} }

func (d *Driver) Name() string          { return "internal" }
func (d *Driver) Table() dispatch.Table { return d.table }

// Read accumulates lines up to the blank line that separates references.
// Each line is "level\ttag\tvalue".
func (d *Driver) Read(r *bufio.Reader) (text string, fileCharset string, hasMore bool, err error) {
	var sb strings.Builder
	started := false
	for {
		line, rerr := r.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")

		if strings.TrimSpace(trimmed) == "" {
			if started {
				return sb.String(), "", true, nil
			}
		} else {
			started = true
			sb.WriteString(trimmed)
			sb.WriteByte('\n')
		}

		if rerr == io.EOF {
			if started {
				return sb.String(), "", true, nil
			}
			return "", "", false, nil
		}
		if rerr != nil {
			return "", "", false, rerr
		}
	}
}

// Process parses each "level\ttag\tvalue" line directly into the raw
// store, preserving insertion order and multiplicity exactly.
func (d *Driver) Process(text string, filename string, nref int, _ *params.Params) (*fields.Store, bool, error) {
	store := fields.New()
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			return nil, false, fmt.Errorf("internal: %s ref %d: malformed line %q", filename, nref, line)
		}
		level, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, false, fmt.Errorf("internal: %s ref %d: bad level %q: %w", filename, nref, parts[0], err)
		}
		store.Add(parts[1], parts[2], fields.Level(level), fields.CanDup)
	}
	return store, true, nil
}

// Typify always selects the sole RECORD variant: a canonical store
// already carries its own INTERNAL_TYPE field, there's no dialect type
// name left to classify.
func (d *Driver) Typify(*fields.Store, string, int, *params.Params) int { return 0 }

// Convert is the identity map: the input is already canonical, so every
// field is copied through unchanged, in order, with no augmentation.
func (d *Driver) Convert(in *fields.Store, _ int, _ *params.Params) (*fields.Store, error) {
	out := fields.New()
	for _, f := range in.All() {
		out.Add(f.Tag, f.Value, f.Level, fields.CanDup)
	}
	return out, nil
}

// Write emits one "level\ttag\tvalue" line per field, in store order.
func (d *Driver) Write(store *fields.Store, w io.Writer, _ *params.Params, _ string) error {
	for _, f := range store.All() {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", int(f.Level), f.Tag, f.Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "\n")
	return err
}
