package source

import (
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every YANG file below the root.
const DefaultPattern = "**/*.yang"

// Discover lists the files of fsys matching the doublestar patterns, sorted
// and without duplicates. No pattern means DefaultPattern.
func Discover(fsys fs.FS, patterns ...string) ([]string, error) {
	if fsys == nil {
		return nil, fmt.Errorf("discover: nil fs")
	}
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	var out []string
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("discover: invalid pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", pattern, err)
		}
		out = append(out, matches...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// FSInputs turns file locations of fsys into loader inputs.
func FSInputs(fsys fs.FS, library bool, locations ...string) []Input {
	resolver := NewFSResolver(fsys)
	out := make([]Input, 0, len(locations))
	for _, loc := range locations {
		out = append(out, Input{
			SystemID: loc,
			Library:  library,
			Open: func() (io.ReadCloser, error) {
				rc, _, err := resolver.Resolve(ResolveRequest{Kind: ResolveLocation, Location: loc})
				return rc, err
			},
		})
	}
	return out
}
