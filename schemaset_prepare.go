package yang

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/jacoelho/yang/internal/source"
)

// prepareInputs lists the loader inputs of every added source. Library
// patterns are expanded here so a set can be compiled again after its file
// systems change.
func (s *SchemaSet) prepareInputs(load resolvedLoadOptions) ([]source.Input, *originResolver, error) {
	roots := make([]fs.FS, len(s.entries))
	for i, entry := range s.entries {
		roots[i] = entry.fsys
	}
	resolver := newOriginResolver(roots, load.resolver)

	var inputs []source.Input
	for _, rs := range s.readers {
		data := rs.data
		inputs = append(inputs, source.Input{
			SystemID: resolver.systemID(-1, rs.name),
			Open:     func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
		})
	}
	for i, entry := range s.entries {
		locations := entry.locations
		if entry.library {
			found, err := source.Discover(entry.fsys, entry.patterns...)
			if err != nil {
				return nil, nil, fmt.Errorf("library %s: %w", schemaSetRootKey(i), err)
			}
			locations = found
		}
		for _, loc := range locations {
			id := resolver.systemID(i, loc)
			inputs = append(inputs, source.Input{
				SystemID: id,
				Library:  entry.library,
				Open: func() (io.ReadCloser, error) {
					rc, err := resolver.open(i, loc)
					if errors.Is(err, fs.ErrNotExist) {
						return nil, sourceNotFound(id, err)
					}
					return rc, err
				},
			})
		}
	}
	return inputs, resolver, nil
}
