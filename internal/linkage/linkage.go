package linkage

import (
	"errors"
	"slices"
	"strings"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/graphcycle"
	"github.com/jacoelho/yang/internal/source"
)

// Unit is one linked module or submodule.
type Unit struct {
	Source *source.Source
	// Prefixes binds every prefix usable in this unit to a module unit. The
	// unit's own prefix (or belongs-to prefix) binds to its module.
	Prefixes map[string]*Unit
	// Parent is the module a submodule belongs to; nil for modules.
	Parent *Unit
	// Includes are the directly included submodules.
	Includes []*Unit
	// Submodules lists every submodule of a module, transitively, in
	// include order.
	Submodules []*Unit
	Library    bool
}

// String renders the source identifier.
func (u *Unit) String() string {
	return u.Source.Info.Identifier()
}

// Info returns the header of the unit's source.
func (u *Unit) Info() source.Info {
	return u.Source.Info
}

// Module returns the module a unit contributes to.
func (u *Unit) Module() *Unit {
	if u.Parent != nil {
		return u.Parent
	}
	return u
}

// IsSubmodule reports whether the unit is a submodule.
func (u *Unit) IsSubmodule() bool {
	return u.Source.Info.Kind == source.KindSubmodule
}

// Result is the outcome of linking.
type Result struct {
	// Modules lists the required modules, imported modules before importers.
	Modules []*Unit
	// Pruned lists library sources that were not required.
	Pruned []*source.Source
}

type linker struct {
	modules    map[string][]*Unit
	submodules map[string][]*Unit
	units      map[*source.Source]*Unit
	required   map[*Unit]bool
	queue      []*Unit
}

// Link binds imports, includes and belongs-to across sources. Library sources
// are kept only when a main source requires them.
func Link(sources []*source.Source) (*Result, error) {
	l := &linker{
		modules:    make(map[string][]*Unit),
		submodules: make(map[string][]*Unit),
		units:      make(map[*source.Source]*Unit),
		required:   make(map[*Unit]bool),
	}
	if err := l.register(sources); err != nil {
		return nil, err
	}
	for _, src := range sources {
		if u, ok := l.units[src]; ok && !src.Library {
			l.require(u)
		}
	}
	for len(l.queue) > 0 {
		u := l.queue[0]
		l.queue = l.queue[1:]
		if err := l.bind(u); err != nil {
			return nil, err
		}
	}
	if err := l.checkIncludeCycles(); err != nil {
		return nil, err
	}
	l.collectSubmodules()
	ordered, err := l.order()
	if err != nil {
		return nil, err
	}

	res := &Result{Modules: ordered}
	for _, src := range sources {
		u, ok := l.units[src]
		if !ok || !l.required[u] {
			res.Pruned = append(res.Pruned, src)
		}
	}
	return res, nil
}

func (l *linker) register(sources []*source.Source) error {
	namespaces := make(map[string]*Unit)
	for _, src := range sources {
		info := src.Info
		u := &Unit{Source: src, Library: src.Library, Prefixes: make(map[string]*Unit)}
		index := l.modules
		if info.Kind == source.KindSubmodule {
			index = l.submodules
		}
		if prev := findExact(index[info.Name], info.Revision); prev != nil {
			if src.Library {
				continue
			}
			if prev.Library {
				l.replace(index, prev, u)
				l.units[src] = u
				continue
			}
			return yangerrors.New(yangerrors.ErrLinkage, info.Ref,
				"Adding %s causes conflict on name %s with %s", src.SystemID, info.Identifier(), prev.Source.SystemID)
		}
		if info.Kind == source.KindModule {
			key := info.Namespace + "@" + info.Revision
			if prev, ok := namespaces[key]; ok {
				return yangerrors.New(yangerrors.ErrLinkage, info.Ref,
					"Adding %s causes conflict on namespace %s with %s", src.SystemID, info.Namespace, prev.Source.SystemID)
			}
			namespaces[key] = u
		}
		index[info.Name] = append(index[info.Name], u)
		l.units[src] = u
	}
	return nil
}

func (l *linker) replace(index map[string][]*Unit, prev, next *Unit) {
	list := index[prev.Source.Info.Name]
	for i, u := range list {
		if u == prev {
			list[i] = next
		}
	}
	delete(l.units, prev.Source)
}

func findExact(units []*Unit, revision string) *Unit {
	for _, u := range units {
		if u.Source.Info.Revision == revision {
			return u
		}
	}
	return nil
}

// find returns the unit with the exact revision, or the latest one when
// revision is empty. Main sources win over library sources on ties.
func find(units []*Unit, revision string) *Unit {
	if revision != "" {
		return findExact(units, revision)
	}
	var best *Unit
	for _, u := range units {
		switch {
		case best == nil:
			best = u
		case u.Source.Info.Revision > best.Source.Info.Revision:
			best = u
		case u.Source.Info.Revision == best.Source.Info.Revision && best.Library && !u.Library:
			best = u
		}
	}
	return best
}

func (l *linker) require(u *Unit) {
	if l.required[u] {
		return
	}
	l.required[u] = true
	l.queue = append(l.queue, u)
}

func (l *linker) bind(u *Unit) error {
	info := u.Source.Info
	if info.Kind == source.KindSubmodule {
		parent := l.parentOf(u)
		if parent == nil {
			return yangerrors.New(yangerrors.ErrLinkage, info.Ref, "Module %s from belongs-to was not found", info.BelongsTo)
		}
		u.Parent = parent
		u.Prefixes[info.BelongsToPrefix] = parent
		l.require(parent)
	} else {
		u.Prefixes[info.Prefix] = u
	}

	for _, imp := range info.Imports {
		if _, dup := u.Prefixes[imp.Prefix]; dup {
			return yangerrors.New(yangerrors.ErrLinkage, imp.Ref, "Duplicate import prefix %s in %s", imp.Prefix, info.Identifier())
		}
		target := find(l.modules[imp.Module], imp.RevisionDate)
		if target == nil {
			name := imp.Module
			if imp.RevisionDate != "" {
				name += "@" + imp.RevisionDate
			}
			return yangerrors.New(yangerrors.ErrLinkage, imp.Ref, "Imported module %s was not found", name)
		}
		u.Prefixes[imp.Prefix] = target
		l.require(target)
	}

	for _, inc := range info.Includes {
		sub := find(l.submodules[inc.Submodule], inc.RevisionDate)
		if sub == nil {
			name := inc.Submodule
			if inc.RevisionDate != "" {
				name += "@" + inc.RevisionDate
			}
			return yangerrors.New(yangerrors.ErrLinkage, inc.Ref, "Included submodule %s was not found", name)
		}
		owner := info.Name
		if info.Kind == source.KindSubmodule {
			owner = info.BelongsTo
		}
		if sub.Source.Info.BelongsTo != owner {
			return yangerrors.New(yangerrors.ErrLinkage, inc.Ref,
				"Included submodule %s belongs to %s, not to %s", inc.Submodule, sub.Source.Info.BelongsTo, owner)
		}
		u.Includes = append(u.Includes, sub)
		l.require(sub)
	}
	return nil
}

// parentOf prefers a module that includes u directly or through other
// submodules, falling back to the latest module with the belongs-to name.
func (l *linker) parentOf(u *Unit) *Unit {
	candidates := l.modules[u.Source.Info.BelongsTo]
	for _, m := range candidates {
		if l.reachesByInclude(m.Source.Info, u, map[string]bool{}) {
			return m
		}
	}
	return find(candidates, "")
}

func (l *linker) reachesByInclude(info source.Info, target *Unit, seen map[string]bool) bool {
	for _, inc := range info.Includes {
		sub := find(l.submodules[inc.Submodule], inc.RevisionDate)
		if sub == nil || seen[sub.String()] {
			continue
		}
		if sub == target {
			return true
		}
		seen[sub.String()] = true
		if l.reachesByInclude(sub.Source.Info, target, seen) {
			return true
		}
	}
	return false
}

func (l *linker) checkIncludeCycles() error {
	var starts []*Unit
	for u := range l.required {
		starts = append(starts, u)
	}
	sortUnits(starts)
	err := graphcycle.Detect(graphcycle.Config[*Unit]{
		Starts: starts,
		Next:   func(u *Unit) ([]*Unit, error) { return u.Includes, nil },
	})
	var cycle graphcycle.CycleError[*Unit]
	if errors.As(err, &cycle) {
		return yangerrors.New(yangerrors.ErrLinkage, cycle.Key.Source.Info.Ref,
			"Found circular include dependency: %s", joinPath(cycle.Path))
	}
	return err
}

func (l *linker) collectSubmodules() {
	for u := range l.required {
		if u.IsSubmodule() {
			continue
		}
		seen := make(map[*Unit]bool)
		var walk func(*Unit)
		walk = func(cur *Unit) {
			for _, sub := range cur.Includes {
				if seen[sub] {
					continue
				}
				seen[sub] = true
				sub.Parent = u
				u.Submodules = append(u.Submodules, sub)
				walk(sub)
			}
		}
		walk(u)
	}
}

// order returns required modules with imported modules first. Imports made
// by submodules count as imports of their module.
func (l *linker) order() ([]*Unit, error) {
	var mods []*Unit
	for u := range l.required {
		if !u.IsSubmodule() {
			mods = append(mods, u)
		}
	}
	sortUnits(mods)

	deps := func(m *Unit) []*Unit {
		var out []*Unit
		for _, u := range append([]*Unit{m}, m.Submodules...) {
			for _, imp := range u.Source.Info.Imports {
				if target := u.Prefixes[imp.Prefix]; target != nil && target != m {
					out = append(out, target)
				}
			}
		}
		return out
	}
	err := graphcycle.Detect(graphcycle.Config[*Unit]{
		Starts: mods,
		Next:   func(u *Unit) ([]*Unit, error) { return deps(u), nil },
	})
	var cycle graphcycle.CycleError[*Unit]
	if errors.As(err, &cycle) {
		return nil, yangerrors.New(yangerrors.ErrLinkage, cycle.Key.Source.Info.Ref,
			"Found circular import dependency: %s", joinPath(cycle.Path))
	}
	if err != nil {
		return nil, err
	}

	var out []*Unit
	done := make(map[*Unit]bool, len(mods))
	var visit func(*Unit)
	visit = func(m *Unit) {
		if done[m] {
			return
		}
		done[m] = true
		for _, d := range deps(m) {
			visit(d)
		}
		out = append(out, m)
	}
	for _, m := range mods {
		visit(m)
	}
	return out, nil
}

func sortUnits(units []*Unit) {
	slices.SortFunc(units, func(a, b *Unit) int {
		return strings.Compare(a.String(), b.String())
	})
}

func joinPath(path []*Unit) string {
	parts := make([]string, len(path))
	for i, u := range path {
		parts[i] = u.String()
	}
	return strings.Join(parts, " -> ")
}
