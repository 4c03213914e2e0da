package yang

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

type schemaSetEntry struct {
	fsys fs.FS
	// locations are explicit sources; patterns are discovered at compile
	// time.
	locations []string
	patterns  []string
	library   bool
}

type readerSource struct {
	name string
	data []byte
}

// SchemaSet owns YANG sources and compiles them into an effective model.
// Main sources always appear in the result; library sources only when a
// main source requires them.
type SchemaSet struct {
	entries  []schemaSetEntry
	readers  []readerSource
	loadOpts LoadOptions
}

// NewSchemaSet creates an empty schema set.
func NewSchemaSet(opts ...LoadOptions) *SchemaSet {
	loadOpts := NewLoadOptions()
	if len(opts) > 0 {
		loadOpts = opts[0]
	}
	return &SchemaSet{loadOpts: loadOpts}
}

// WithLoadOptions replaces schema-set load options.
func (s *SchemaSet) WithLoadOptions(opts LoadOptions) *SchemaSet {
	if s == nil {
		return nil
	}
	s.loadOpts = opts
	return s
}

// AddFS adds main source locations from fsys. Imports and includes the set
// does not provide are looked up next to the requesting source.
func (s *SchemaSet) AddFS(fsys fs.FS, locations ...string) error {
	if s == nil {
		return fmt.Errorf("schema set: nil set")
	}
	if fsys == nil {
		return invalidArgument("schema set: nil fs")
	}
	if len(locations) == 0 {
		return invalidArgument("schema set: no locations")
	}
	cleaned := make([]string, 0, len(locations))
	for _, loc := range locations {
		loc = strings.TrimSpace(loc)
		if loc == "" {
			return invalidArgument("schema set: empty location")
		}
		cleaned = append(cleaned, loc)
	}
	s.entries = append(s.entries, schemaSetEntry{fsys: fsys, locations: cleaned})
	return nil
}

// AddLibraryFS adds every file of fsys matching the doublestar patterns as
// a library source. No pattern means every .yang file.
func (s *SchemaSet) AddLibraryFS(fsys fs.FS, patterns ...string) error {
	if s == nil {
		return fmt.Errorf("schema set: nil set")
	}
	if fsys == nil {
		return invalidArgument("schema set: nil library fs")
	}
	s.entries = append(s.entries, schemaSetEntry{fsys: fsys, patterns: patterns, library: true})
	return nil
}

// AddSource reads one main source. The name is its system ID; a
// name@revision.yang name must agree with the latest revision.
func (s *SchemaSet) AddSource(name string, r io.Reader) error {
	if s == nil {
		return fmt.Errorf("schema set: nil set")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return invalidArgument("schema set: empty source name")
	}
	if r == nil {
		return invalidArgument("schema set: nil reader for %s", name)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return fmt.Errorf("schema set: read %s: %w", name, err)
	}
	s.readers = append(s.readers, readerSource{name: name, data: buf.Bytes()})
	return nil
}
