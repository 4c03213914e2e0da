package reactor

import (
	"errors"
	"slices"
	"strings"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/graphcycle"
	"github.com/jacoelho/yang/internal/stmt"
	"github.com/jacoelho/yang/internal/stmtdef"
	"github.com/jacoelho/yang/internal/types"
	"github.com/jacoelho/yang/pkg/xpath"
)

// fullDeclaration resolves every reference between statements and expands
// uses and augment statements.
func (r *reactor) fullDeclaration() []error {
	steps := []func() []error{
		r.resolveFeatures,
		r.applyIfFeatures,
		r.resolveIdentities,
		r.checkReferences,
		r.checkGroupingCycles,
		r.resolveTypedefs,
	}
	for _, step := range steps {
		if errs := step(); len(errs) > 0 {
			return errs
		}
	}
	r.each(func(c *stmtCtx) bool {
		addImplicitNodes(c)
		return true
	})

	var actions []action
	r.each(func(c *stmtCtx) bool {
		switch {
		case c.is("uses"):
			actions = append(actions, r.usesAction(c))
		case c.is("augment") && c.parent != nil && c.parent.parent == nil:
			actions = append(actions, r.augmentAction(c))
		}
		return true
	})
	return r.progress(actions)
}

// cycleNames renders a cycle path by statement argument.
func cycleNames(path []*stmtCtx) string {
	names := make([]string, len(path))
	for i, c := range path {
		names[i] = c.arg
	}
	return strings.Join(names, " -> ")
}

// resolveIdentities binds identity bases and rejects circular derivation.
func (r *reactor) resolveIdentities() []error {
	var errs []error
	var all []*stmtCtx
	for _, mod := range r.order {
		for _, id := range sortedValues(mod.identities) {
			all = append(all, id)
			for _, b := range id.all("base") {
				base, err := r.lookupGlobal(b, "identity", b.arg)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				mod.identityBases[id] = append(mod.identityBases[id], base)
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	err := graphcycle.Detect(graphcycle.Config[*stmtCtx]{
		Starts: all,
		Next:   func(id *stmtCtx) ([]*stmtCtx, error) { return id.module.identityBases[id], nil },
	})
	var cycle graphcycle.CycleError[*stmtCtx]
	if errors.As(err, &cycle) {
		return []error{yangerrors.New(yangerrors.ErrInference, cycle.Key.ref,
			"Identity %s has circular base: %s", cycle.Key.arg, cycleNames(cycle.Path))}
	}
	return nil
}

func sortedValues(m map[string]*stmtCtx) []*stmtCtx {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]*stmtCtx, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

// checkReferences verifies type and grouping references, XPath arguments
// and schema node identifiers of every declared statement.
func (r *reactor) checkReferences() []error {
	var errs []error
	r.each(func(c *stmtCtx) bool {
		if c.isExtension() || c.unsupported {
			return false
		}
		if err := r.checkReference(c); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errs
}

func (r *reactor) checkReference(c *stmtCtx) error {
	switch c.keyword.Name {
	case "type":
		if types.IsBuiltin(c.arg) {
			return nil
		}
		_, err := r.findDefinition(c, "typedef", c.arg)
		return err
	case "base":
		if c.parent.is("type") {
			_, err := r.lookupGlobal(c, "identity", c.arg)
			return err
		}
	case "uses":
		g, err := r.findDefinition(c, "grouping", c.arg)
		if err != nil {
			return err
		}
		c.grouping = g
	case "when", "must":
		return r.checkXPath(c)
	case "path":
		if _, err := xpath.ParseLeafrefPath(c.arg, c.version()); err != nil {
			return yangerrors.Wrap(yangerrors.ErrSource, c.ref, err, "Invalid path argument '%s': %v", c.arg, err)
		}
	case "augment", "deviation", "refine":
		id, err := xpath.ParseSchemaNodeID(c.arg)
		if err != nil {
			return yangerrors.Wrap(yangerrors.ErrSource, c.ref, err, "Invalid %s target '%s': %v", c.keyword.Name, c.arg, err)
		}
		wantAbsolute := c.is("deviation") || (c.is("augment") && !c.parent.is("uses"))
		if id.Absolute != wantAbsolute {
			kind := "a descendant"
			if wantAbsolute {
				kind = "an absolute"
			}
			return yangerrors.New(yangerrors.ErrSource, c.ref, "%s target '%s' must be %s schema node identifier", stmt.DiagName(c.keyword.Name), c.arg, kind)
		}
		for _, step := range id.Path {
			if _, err := r.moduleFor(c, step.Prefix); err != nil {
				return err
			}
		}
	case "deviate":
		return checkDeviate(c)
	}
	return nil
}

// checkXPath parses a when or must argument and checks that its prefixes
// are bound.
func (r *reactor) checkXPath(c *stmtCtx) error {
	expr, err := xpath.Parse(c.arg)
	if err != nil {
		return yangerrors.Wrap(yangerrors.ErrSource, c.ref, err, "Argument '%s' is not valid XPath: %v", c.arg, err)
	}
	for _, p := range expr.Prefixes() {
		if _, err := r.moduleFor(c, p); err != nil {
			return err
		}
	}
	return nil
}

// checkDeviate validates the substatements of a deviate for its kind.
func checkDeviate(c *stmtCtx) error {
	kind, ok := stmtdef.ParseDeviateKind(c.arg)
	if !ok {
		return yangerrors.New(yangerrors.ErrSource, c.ref, "Invalid deviate argument '%s'", c.arg)
	}
	counts := make(map[string]int)
	for _, ch := range c.children {
		if ch.isExtension() {
			continue
		}
		name := ch.keyword.Name
		if !stmtdef.DeviateAllows(kind, name) {
			return yangerrors.New(yangerrors.ErrInvalidSubstatement, ch.ref, "%s is not valid for DEVIATE.", stmt.DiagName(name))
		}
		counts[name]++
	}
	if n := counts["default"]; n > 1 && c.version() != "1.1" {
		return yangerrors.New(yangerrors.ErrInvalidSubstatement, c.ref, "Maximal count of DEFAULT for DEVIATE is 1, detected %d.", n)
	}
	return nil
}

// groupingDeps lists the groupings instantiated by uses statements inside
// g, not counting nested grouping definitions.
func groupingDeps(g *stmtCtx) []*stmtCtx {
	var out []*stmtCtx
	for _, ch := range g.children {
		walk(ch, func(c *stmtCtx) bool {
			if c.is("grouping") {
				return false
			}
			if c.is("uses") && c.grouping != nil {
				out = append(out, c.grouping)
			}
			return true
		})
	}
	return out
}

func (r *reactor) checkGroupingCycles() []error {
	var all []*stmtCtx
	r.each(func(c *stmtCtx) bool {
		if c.is("grouping") {
			all = append(all, c)
		}
		return true
	})
	err := graphcycle.Detect(graphcycle.Config[*stmtCtx]{
		Starts: all,
		Next:   func(g *stmtCtx) ([]*stmtCtx, error) { return groupingDeps(g), nil },
	})
	var cycle graphcycle.CycleError[*stmtCtx]
	if errors.As(err, &cycle) {
		return []error{yangerrors.New(yangerrors.ErrInference, cycle.Key.ref,
			"Grouping %s is circular: %s", cycle.Key.arg, cycleNames(cycle.Path))}
	}
	return nil
}

// resolveTypedefs derives every typedef so chains and circularity are
// checked before any node uses them.
func (r *reactor) resolveTypedefs() []error {
	var errs []error
	r.each(func(c *stmtCtx) bool {
		if c.is("typedef") && c.supported() {
			if _, err := r.types.typedef(c); err != nil {
				errs = append(errs, err)
			}
		}
		return !c.isExtension() && !c.unsupported
	})
	return errs
}

// newImplicit creates a statement the source left implicit.
func newImplicit(keyword, arg string, parent *stmtCtx) *stmtCtx {
	raw := &stmt.Statement{Keyword: stmt.Core(keyword), Arg: arg, HasArg: arg != "", Ref: parent.ref}
	c := &stmtCtx{
		raw:      raw,
		parent:   parent,
		unit:     parent.unit,
		module:   parent.module,
		keyword:  raw.Keyword,
		arg:      arg,
		ref:      parent.ref,
		copy:     parent.copy,
		implicit: true,
	}
	c.def, _ = stmtdef.Lookup(keyword, parent.version())
	return c
}

// addImplicitNodes adds the input and output of operations and wraps
// shorthand choice members in a case.
func addImplicitNodes(c *stmtCtx) {
	switch {
	case c.is("rpc") || c.is("action"):
		for _, kw := range []string{"input", "output"} {
			if c.first(kw) == nil {
				c.addChild(newImplicit(kw, "", c))
			}
		}
	case c.is("choice"):
		for i, ch := range c.children {
			if ch.isSchemaNode() && !ch.is("case") {
				c.children[i] = wrapInCase(ch, c)
			}
		}
	}
}

// wrapInCase places a shorthand member under an implicit case named after
// it.
func wrapInCase(member, choice *stmtCtx) *stmtCtx {
	cs := newImplicit("case", member.arg, choice)
	cs.module = member.module
	cs.copy = member.copy
	cs.unsupported = member.unsupported
	cs.children = []*stmtCtx{member}
	member.parent = cs
	return cs
}
