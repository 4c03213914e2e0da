package yang

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/jacoelho/yang/internal/source"
)

func schemaSetRootKey(index int) string {
	return "root:" + strconv.Itoa(index)
}

// originRef locates a source inside the file system it was added from. A
// negative root marks a source added from a reader.
type originRef struct {
	location string
	root     int
}

// originResolver keeps system IDs unique across the added file systems and
// resolves dependencies in the file system of the requesting source first.
type originResolver struct {
	fallback Resolver
	ids      map[string]originRef
	byRef    map[originRef]string
	roots    []*source.FSResolver
}

func newOriginResolver(roots []fs.FS, fallback Resolver) *originResolver {
	r := &originResolver{
		fallback: fallback,
		ids:      make(map[string]originRef),
		byRef:    make(map[originRef]string),
	}
	for _, fsys := range roots {
		r.roots = append(r.roots, source.NewFSResolver(fsys))
	}
	return r
}

// systemID returns the public system ID of location in root. The first
// claim keeps the plain location; later roots are qualified by root key.
func (r *originResolver) systemID(root int, location string) string {
	ref := originRef{root: root, location: location}
	if id, ok := r.byRef[ref]; ok {
		return id
	}
	id := location
	if _, taken := r.ids[id]; taken {
		id = schemaSetRootKey(root) + "/" + location
	}
	r.ids[id] = ref
	r.byRef[ref] = id
	return id
}

func (r *originResolver) open(root int, location string) (io.ReadCloser, error) {
	rc, _, err := r.roots[root].Resolve(source.ResolveRequest{Kind: source.ResolveLocation, Location: location})
	return rc, err
}

// Resolve implements Resolver.
func (r *originResolver) Resolve(req ResolveRequest) (io.ReadCloser, string, error) {
	if ref, ok := r.ids[req.BaseSystemID]; ok && ref.root >= 0 {
		inner := req
		inner.BaseSystemID = ref.location
		rc, location, err := r.roots[ref.root].Resolve(inner)
		switch {
		case err == nil:
			return rc, r.systemID(ref.root, location), nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, "", fmt.Errorf("resolve %s from %s: %w", req.Name, req.BaseSystemID, err)
		}
	}
	if r.fallback != nil {
		return r.fallback.Resolve(req)
	}
	return nil, "", fs.ErrNotExist
}
