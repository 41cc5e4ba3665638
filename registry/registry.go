// Package registry maps a format name to its pipeline.Driver, and detects
// a format from a filename extension or a peek at its content.
package registry

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/refcross/refcross/dialects/ads"
	"github.com/refcross/refcross/dialects/bibtex"
	"github.com/refcross/refcross/dialects/canonical"
	"github.com/refcross/refcross/dialects/copac"
	"github.com/refcross/refcross/dialects/endnote"
	"github.com/refcross/refcross/dialects/isi"
	"github.com/refcross/refcross/dialects/mods"
	"github.com/refcross/refcross/dialects/nbib"
	"github.com/refcross/refcross/dialects/ris"
	"github.com/refcross/refcross/pipeline"
)

// sniffer optionally recognizes a dialect's content without relying on the
// file extension.
type sniffer interface {
	CanParse(peek []byte) bool
}

// extensions maps a driver name to the file extensions it claims.
var extensions = map[string][]string{
	"bibtex":   {"bib"},
	"ris":      {"ris"},
	"nbib":     {"nbib"},
	"isi":      {"isi", "wos"},
	"copac":    {"copac"},
	"endnote":  {"enw", "ref"},
	"mods":     {"mods"},
	"internal": {"internal"},
	"ads":      {"ads"},
}

// Registry holds registered dialect drivers.
type Registry struct {
	drivers map[string]pipeline.Driver
}

// DefaultRegistry is the global registry, pre-populated with every
// built-in dialect.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(bibtex.New())
	DefaultRegistry.Register(ris.New())
	DefaultRegistry.Register(nbib.New())
	DefaultRegistry.Register(isi.New())
	DefaultRegistry.Register(copac.New())
	DefaultRegistry.Register(endnote.New())
	DefaultRegistry.Register(mods.New())
	DefaultRegistry.Register(canonical.New())
	DefaultRegistry.Register(ads.New())
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]pipeline.Driver)}
}

// Register adds driver under its own Name().
func (r *Registry) Register(driver pipeline.Driver) {
	r.drivers[driver.Name()] = driver
}

// Get retrieves a driver by name, case-insensitively.
func (r *Registry) Get(name string) (pipeline.Driver, bool) {
	d, ok := r.drivers[strings.ToLower(name)]
	return d, ok
}

// List returns every registered driver name.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	return names
}

// DetectFormat picks a driver by filename extension, falling back to
// content sniffing (for drivers that implement sniffer) against peek.
func (r *Registry) DetectFormat(filename string, peek []byte) (pipeline.Driver, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for name, exts := range extensions {
		for _, e := range exts {
			if e == ext {
				if d, ok := r.drivers[name]; ok {
					return d, nil
				}
			}
		}
	}
	if len(peek) > 0 {
		for _, d := range r.drivers {
			if s, ok := d.(sniffer); ok && s.CanParse(peek) {
				return d, nil
			}
		}
	}
	return nil, fmt.Errorf("registry: could not detect format for %q", filename)
}

// Register adds driver to the default registry.
func Register(driver pipeline.Driver) { DefaultRegistry.Register(driver) }

// Get retrieves a driver from the default registry.
func Get(name string) (pipeline.Driver, bool) { return DefaultRegistry.Get(name) }

// DetectFormat detects a format using the default registry.
func DetectFormat(filename string, peek []byte) (pipeline.Driver, error) {
	return DefaultRegistry.DetectFormat(filename, peek)
}
