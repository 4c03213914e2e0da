package yang

import (
	"io/fs"

	"github.com/jacoelho/yang/internal/source"
)

// ResolveKind identifies the kind of source resolution request.
type ResolveKind = source.ResolveKind

const (
	ResolveLocation ResolveKind = source.ResolveLocation
	ResolveImport   ResolveKind = source.ResolveImport
	ResolveInclude  ResolveKind = source.ResolveInclude
)

// ResolveRequest describes a source resolution request.
type ResolveRequest = source.ResolveRequest

// Resolver resolves YANG sources into readers and canonical system IDs.
// A resolver reports a missing source with an error wrapping fs.ErrNotExist.
type Resolver = source.Resolver

// NewFSResolver returns a resolver looking sources up as name.yang or
// name@revision.yang next to the requesting source.
func NewFSResolver(fsys fs.FS) Resolver {
	return source.NewFSResolver(fsys)
}
