package yang

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/jacoelho/yang/internal/source"
	"github.com/jacoelho/yang/schema"
)

// Load compiles the sources at locations of fsys with default options.
func Load(fsys fs.FS, locations ...string) (*schema.Context, error) {
	return LoadWithOptions(context.Background(), fsys, NewLoadOptions(), locations...)
}

// LoadWithOptions compiles the sources at locations of fsys with explicit
// configuration.
func LoadWithOptions(ctx context.Context, fsys fs.FS, opts LoadOptions, locations ...string) (*schema.Context, error) {
	set := NewSchemaSet(opts)
	if err := set.AddFS(fsys, locations...); err != nil {
		return nil, fmt.Errorf("load sources %v: %w", locations, err)
	}
	result, err := set.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sources %v: %w", locations, err)
	}
	return result, nil
}

// LoadDir compiles every .yang file directly inside dir as a main source.
func LoadDir(dir string) (*schema.Context, error) {
	fsys := os.DirFS(dir)
	locations, err := source.Discover(fsys, "*.yang")
	if err != nil {
		return nil, fmt.Errorf("load dir %s: %w", dir, err)
	}
	if len(locations) == 0 {
		return nil, invalidArgument("load dir %s: no .yang files", dir)
	}
	return LoadWithOptions(context.Background(), fsys, NewLoadOptions(), locations...)
}
