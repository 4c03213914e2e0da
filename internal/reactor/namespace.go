package reactor

import (
	"slices"
	"strings"

	"github.com/agext/levenshtein"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/linkage"
	"github.com/jacoelho/yang/internal/stmt"
	"github.com/jacoelho/yang/internal/types"
	"github.com/jacoelho/yang/schema"
)

// moduleState holds the module-global namespaces of one module and its
// submodules.
type moduleState struct {
	unit *linkage.Unit
	root *stmtCtx
	// subRoots are the submodule roots; their bodies are moved under root.
	subRoots []*stmtCtx

	identities map[string]*stmtCtx
	features   map[string]*stmtCtx
	extensions map[string]*stmtCtx

	// identityBases holds the resolved bases of each identity.
	identityBases map[*stmtCtx][]*stmtCtx
	// featureSupport caches the evaluated support of features.
	featureSupport map[*stmtCtx]bool
}

func newModuleState(unit *linkage.Unit) *moduleState {
	return &moduleState{
		unit:           unit,
		identities:     make(map[string]*stmtCtx),
		features:       make(map[string]*stmtCtx),
		extensions:     make(map[string]*stmtCtx),
		identityBases:  make(map[*stmtCtx][]*stmtCtx),
		featureSupport: make(map[*stmtCtx]bool),
	}
}

func (m *moduleState) name() string {
	return m.unit.Info().Name
}

func (m *moduleState) qnameModule() schema.QNameModule {
	info := m.unit.Info()
	return schema.QNameModule{Namespace: info.Namespace, Revision: schema.Revision(info.Revision)}
}

func (m *moduleState) String() string {
	return m.unit.String()
}

// moduleFor resolves prefix as seen from statement c. An empty prefix names
// the module of the declaring source.
func (r *reactor) moduleFor(c *stmtCtx, prefix string) (*moduleState, error) {
	unit := c.unit
	if prefix == "" {
		return r.modules[unit.Module()], nil
	}
	target, ok := unit.Prefixes[prefix]
	if !ok {
		known := make([]string, 0, len(unit.Prefixes))
		for p := range unit.Prefixes {
			known = append(known, p)
		}
		return nil, yangerrors.New(yangerrors.ErrSource, c.ref, "Prefix %s not bound", prefix).
			WithSuggestion(suggest(prefix, known))
	}
	return r.modules[target], nil
}

// resolveRef splits a prefixed reference and resolves its module.
func (r *reactor) resolveRef(c *stmtCtx, ref string) (*moduleState, string, error) {
	prefix, name := stmt.SplitQName(ref)
	mod, err := r.moduleFor(c, prefix)
	if err != nil {
		return nil, "", err
	}
	return mod, name, nil
}

// registerScoped records typedef or grouping definitions declared directly
// under c. A nested definition may not reuse the name of an outer one.
func registerScoped(c *stmtCtx) error {
	for _, ch := range c.children {
		var scope *map[string]*stmtCtx
		kind := ""
		switch {
		case ch.is("typedef"):
			scope, kind = &c.typedefs, "typedef"
			if types.IsBuiltin(ch.arg) {
				return yangerrors.New(yangerrors.ErrSource, ch.ref, "Typedef name %s is a builtin type name", ch.arg)
			}
		case ch.is("grouping"):
			scope, kind = &c.groupings, "grouping"
		default:
			continue
		}
		if *scope == nil {
			*scope = make(map[string]*stmtCtx)
		}
		if _, dup := (*scope)[ch.arg]; dup || lookupScoped(c.parent, kind, ch.arg) != nil {
			return yangerrors.New(yangerrors.ErrSource, ch.ref, "Duplicate name %s for %s", ch.arg, kind)
		}
		(*scope)[ch.arg] = ch
	}
	return nil
}

// lookupScoped finds a typedef or grouping visible from c, walking the
// lexical parents.
func lookupScoped(c *stmtCtx, kind, name string) *stmtCtx {
	for cur := c; cur != nil; cur = cur.parent {
		scope := cur.typedefs
		if kind == "grouping" {
			scope = cur.groupings
		}
		if d, ok := scope[name]; ok {
			return d
		}
	}
	return nil
}

func scopedNames(c *stmtCtx, kind string) []string {
	var out []string
	for cur := c; cur != nil; cur = cur.parent {
		scope := cur.typedefs
		if kind == "grouping" {
			scope = cur.groupings
		}
		for n := range scope {
			out = append(out, n)
		}
	}
	return out
}

// findDefinition resolves a typedef or grouping reference from c. Copies
// resolve in the scope of their declaration; other modules expose their
// top-level definitions.
func (r *reactor) findDefinition(c *stmtCtx, kind, ref string) (*stmtCtx, error) {
	decl := c.root()
	mod, name, err := r.resolveRef(decl, ref)
	if err != nil {
		return nil, err
	}
	var found *stmtCtx
	var candidates []string
	if mod == r.modules[decl.unit.Module()] {
		found = lookupScoped(decl, kind, name)
		candidates = scopedNames(decl, kind)
	} else {
		found = lookupScoped(mod.root, kind, name)
		candidates = scopedNames(mod.root, kind)
	}
	if found == nil {
		label := "Grouping"
		if kind == "typedef" {
			label = "Type"
		}
		return nil, yangerrors.New(yangerrors.ErrInference, c.ref, "%s '%s' was not resolved.", label, ref).
			WithSuggestion(suggest(name, candidates))
	}
	return found, nil
}

// registerGlobal records identities, features and extensions of c, which is
// a module or submodule root.
func (r *reactor) registerGlobal(mod *moduleState, c *stmtCtx) []error {
	var errs []error
	for _, ch := range c.children {
		var ns map[string]*stmtCtx
		switch {
		case ch.is("identity"):
			ns = mod.identities
		case ch.is("feature"):
			ns = mod.features
		case ch.is("extension"):
			ns = mod.extensions
		default:
			continue
		}
		if prev, dup := ns[ch.arg]; dup {
			errs = append(errs, yangerrors.New(yangerrors.ErrSource, ch.ref,
				"Duplicate name %s for %s, previously declared at %s", ch.arg, ch.keyword.Name, prev.ref))
			continue
		}
		ns[ch.arg] = ch
	}
	return errs
}

// lookupGlobal resolves an identity, feature or extension reference.
func (r *reactor) lookupGlobal(c *stmtCtx, kind, ref string) (*stmtCtx, error) {
	mod, name, err := r.resolveRef(c, ref)
	if err != nil {
		return nil, err
	}
	ns := mod.identities
	switch kind {
	case "feature":
		ns = mod.features
	case "extension":
		ns = mod.extensions
	}
	if d, ok := ns[name]; ok {
		return d, nil
	}
	names := make([]string, 0, len(ns))
	for n := range ns {
		names = append(names, n)
	}
	label := strings.ToUpper(kind[:1]) + kind[1:]
	return nil, yangerrors.New(yangerrors.ErrInference, c.ref, "%s '%s' was not resolved.", label, ref).
		WithSuggestion(suggest(name, names))
}

// suggest returns the closest candidate within a small edit distance.
func suggest(name string, candidates []string) string {
	slices.Sort(candidates)
	best, bestDist := "", 3
	for _, cand := range candidates {
		if cand == name {
			continue
		}
		if d := levenshtein.Distance(name, cand, nil); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}
