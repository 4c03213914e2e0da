package source

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveKind identifies the kind of source resolution request.
type ResolveKind uint8

const (
	// ResolveLocation opens an explicit file location.
	ResolveLocation ResolveKind = iota
	// ResolveImport looks up a module by name and optional revision.
	ResolveImport
	// ResolveInclude looks up a submodule by name and optional revision.
	ResolveInclude
)

// ResolveRequest describes a source resolution request.
type ResolveRequest struct {
	BaseSystemID string
	Location     string
	Name         string
	Revision     string
	Kind         ResolveKind
}

// Resolver resolves YANG sources into readers and canonical system IDs.
type Resolver interface {
	Resolve(req ResolveRequest) (doc io.ReadCloser, systemID string, err error)
}

// FSResolver resolves sources from an fs.FS with strict path validation.
// Name lookups search the directory of the requesting source for
// name.yang and name@revision.yang.
type FSResolver struct {
	fsys fs.FS
}

// NewFSResolver creates a resolver backed by the provided filesystem.
func NewFSResolver(fsys fs.FS) *FSResolver {
	return &FSResolver{fsys: fsys}
}

// Resolve implements Resolver.
func (r *FSResolver) Resolve(req ResolveRequest) (io.ReadCloser, string, error) {
	if r == nil || r.fsys == nil {
		return nil, "", fmt.Errorf("no filesystem configured")
	}
	location := req.Location
	if req.Kind != ResolveLocation {
		found, err := r.lookup(req)
		if err != nil {
			return nil, "", err
		}
		location = found
	}
	if location == "" {
		return nil, "", fs.ErrNotExist
	}
	systemID, err := resolveSystemID(req.BaseSystemID, location)
	if err != nil {
		return nil, "", err
	}
	f, err := r.fsys.Open(systemID)
	if err != nil {
		return nil, "", err
	}
	return f, systemID, nil
}

// lookup returns a location relative to the base directory.
func (r *FSResolver) lookup(req ResolveRequest) (string, error) {
	if req.Name == "" || strings.ContainsAny(req.Name, `/\*?[{`) {
		return "", fmt.Errorf("invalid source name: %q", req.Name)
	}
	baseDir := baseDirSystemID(req.BaseSystemID)
	join := func(name string) string {
		if baseDir == "" {
			return name
		}
		return baseDir + "/" + name
	}
	if req.Revision != "" {
		exact := req.Name + "@" + req.Revision + ".yang"
		if _, err := fs.Stat(r.fsys, join(exact)); err == nil {
			return exact, nil
		}
		return "", fs.ErrNotExist
	}

	matches, err := doublestar.Glob(r.fsys, join(req.Name+"@*.yang"))
	if err != nil {
		return "", err
	}
	best := ""
	for _, m := range matches {
		base := path.Base(m)
		if _, rev := SplitFileName(base); rev != "" && base > best {
			best = base
		}
	}
	if best != "" {
		return best, nil
	}
	plain := req.Name + ".yang"
	if _, err := fs.Stat(r.fsys, join(plain)); err == nil {
		return plain, nil
	}
	return "", fs.ErrNotExist
}

// SplitFileName splits "name@revision.yang" into name and revision.
func SplitFileName(file string) (name, revision string) {
	file = strings.TrimSuffix(path.Base(file), ".yang")
	if i := strings.IndexByte(file, '@'); i >= 0 {
		return file[:i], file[i+1:]
	}
	return file, ""
}

func resolveSystemID(baseSystemID, location string) (string, error) {
	if strings.Contains(location, "\\") {
		return "", fmt.Errorf("source location contains backslash: %q", location)
	}
	if strings.HasPrefix(location, "/") {
		return "", fmt.Errorf("source location must be relative: %q", location)
	}
	if location == "" {
		return "", fmt.Errorf("source location is empty")
	}
	if baseSystemID != "" && strings.Contains(baseSystemID, "\\") {
		return "", fmt.Errorf("base system ID contains backslash: %q", baseSystemID)
	}
	if slices.Contains(strings.Split(location, "/"), "") {
		return "", fmt.Errorf("invalid source location segment: %q", location)
	}
	joined := path.Clean(location)
	if baseDir := baseDirSystemID(baseSystemID); baseDir != "" {
		joined = path.Clean(baseDir + "/" + location)
	}
	if joined == "." {
		return "", fmt.Errorf("source location is empty")
	}
	if strings.HasPrefix(joined, "../") || joined == ".." {
		return "", fmt.Errorf("source location escapes root: %q", location)
	}
	return joined, nil
}

func baseDirSystemID(systemID string) string {
	if systemID == "" || strings.Contains(systemID, "\\") {
		return ""
	}
	idx := strings.LastIndex(systemID, "/")
	if idx == -1 {
		return ""
	}
	return systemID[:idx]
}
