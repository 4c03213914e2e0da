package yang

import (
	"fmt"
	"io"

	"github.com/jacoelho/yang/internal/source"
)

// DependencyInfo is the linkage header of one source: its name, revision,
// namespace and the modules and submodules it imports or includes.
type DependencyInfo = source.Info

// SourceImport is one import of a DependencyInfo.
type SourceImport = source.Import

// SourceInclude is one include of a DependencyInfo.
type SourceInclude = source.Include

// ReadDependencyInfo parses the source read from r and returns its header
// without compiling it. name is the system ID used in errors; a revision in
// a name@revision.yang file name must match the latest revision of the
// source.
func ReadDependencyInfo(name string, r io.Reader) (DependencyInfo, error) {
	if r == nil {
		return DependencyInfo{}, invalidArgument("dependency info %s: nil reader", name)
	}
	data, err := io.ReadAll(io.LimitReader(r, source.DefaultMaxSize+1))
	if err != nil {
		return DependencyInfo{}, fmt.Errorf("dependency info %s: %w", name, err)
	}
	if len(data) > source.DefaultMaxSize {
		return DependencyInfo{}, invalidArgument("dependency info %s: source exceeds %d bytes", name, source.DefaultMaxSize)
	}
	src, err := source.Parse(name, string(data), false, 0)
	if err != nil {
		return DependencyInfo{}, fmt.Errorf("dependency info %s: %w", name, err)
	}
	return src.Info, nil
}
