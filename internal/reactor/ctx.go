package reactor

import (
	"slices"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/linkage"
	"github.com/jacoelho/yang/internal/stmt"
	"github.com/jacoelho/yang/internal/stmtdef"
	"github.com/jacoelho/yang/schema"
)

// CopyHistory records how a statement context came to be.
type CopyHistory uint8

const (
	// Original marks statements declared where they appear.
	Original CopyHistory = 0
	// AddedByUses marks copies made by uses.
	AddedByUses CopyHistory = 1 << iota
	// AddedByAugmentation marks copies made by a top-level augment.
	AddedByAugmentation
	// AddedByUsesAugmentation marks copies made by an augment inside uses.
	AddedByUsesAugmentation
)

// Has reports whether h carries every bit of flag. Original has no bit, so
// Has(Original) is false; compare with h == Original instead.
func (h CopyHistory) Has(flag CopyHistory) bool {
	return flag != 0 && h&flag == flag
}

// stmtCtx is the mutable context of one statement while the reactor runs.
type stmtCtx struct {
	def      *stmtdef.Definition
	raw      *stmt.Statement
	parent   *stmtCtx
	original *stmtCtx
	// unit resolves the prefixes used in the statement; copies keep the
	// unit of the statement they were copied from.
	unit *linkage.Unit
	// module is the module a schema node is instantiated in.
	module *moduleState

	children []*stmtCtx

	// typedefs and groupings are the lexical scope of definitions declared
	// directly under this statement.
	typedefs  map[string]*stmtCtx
	groupings map[string]*stmtCtx

	// augmentations lists the augments applied to this node.
	augmentations []*stmtCtx
	// added lists the nodes an augment added to its target.
	added []*stmtCtx
	// usesCopies lists the nodes a uses instantiated.
	usesCopies []*stmtCtx
	// refines records refine targets of a uses.
	refines []refined
	// grouping is the grouping a uses resolved to.
	grouping *stmtCtx
	// extension is the definition of an extension instance.
	extension *stmtCtx

	keyword stmt.Keyword
	arg     string
	ref     yangerrors.Reference

	copy CopyHistory
	// unsupported is set by a false if-feature or deviate not-supported.
	unsupported bool
	// expanded marks a uses whose grouping has been instantiated.
	expanded bool
	// implicit marks statements created by the reactor, such as shorthand
	// cases and rpc input.
	implicit bool
}

type refined struct {
	path   string
	target *stmtCtx
}

func newCtx(raw *stmt.Statement, parent *stmtCtx, unit *linkage.Unit, mod *moduleState) *stmtCtx {
	c := &stmtCtx{
		raw:     raw,
		parent:  parent,
		unit:    unit,
		module:  mod,
		keyword: raw.Keyword,
		arg:     raw.Arg,
		ref:     raw.Ref,
	}
	if !raw.Keyword.IsExtension() {
		c.def, _ = stmtdef.Lookup(raw.Keyword.Name, unit.Info().YangVersion)
		for _, child := range raw.Children {
			c.children = append(c.children, newCtx(child, c, unit, mod))
		}
	}
	return c
}

// version returns the YANG version of the source that declared c.
func (c *stmtCtx) version() string {
	return c.unit.Info().YangVersion
}

func (c *stmtCtx) is(name string) bool {
	return !c.keyword.IsExtension() && c.keyword.Name == name
}

func (c *stmtCtx) isExtension() bool {
	return c.keyword.IsExtension()
}

// isSchemaNode reports whether c creates a schema tree node.
func (c *stmtCtx) isSchemaNode() bool {
	return c.def != nil && c.def.SchemaNode
}

func (c *stmtCtx) first(name string) *stmtCtx {
	for _, ch := range c.children {
		if ch.is(name) {
			return ch
		}
	}
	return nil
}

func (c *stmtCtx) all(name string) []*stmtCtx {
	var out []*stmtCtx
	for _, ch := range c.children {
		if ch.is(name) {
			out = append(out, ch)
		}
	}
	return out
}

func (c *stmtCtx) argOf(name string) (string, bool) {
	if ch := c.first(name); ch != nil {
		return ch.arg, true
	}
	return "", false
}

func (c *stmtCtx) args(name string) []string {
	var out []string
	for _, ch := range c.all(name) {
		out = append(out, ch.arg)
	}
	return out
}

// supported reports whether c and all its ancestors are supported.
func (c *stmtCtx) supported() bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.unsupported {
			return false
		}
	}
	return true
}

// schemaChildren returns the supported schema tree children of c.
func (c *stmtCtx) schemaChildren() []*stmtCtx {
	var out []*stmtCtx
	for _, ch := range c.children {
		if ch.isSchemaNode() && !ch.unsupported {
			out = append(out, ch)
		}
	}
	return out
}

// schemaChild finds a schema tree child by name. A nil module matches any
// namespace.
func (c *stmtCtx) schemaChild(mod *moduleState, name string) *stmtCtx {
	for _, ch := range c.children {
		if !ch.isSchemaNode() || ch.nodeName() != name {
			continue
		}
		if mod == nil || ch.module == mod {
			return ch
		}
	}
	return nil
}

// nodeName is the local name of a schema node; input and output carry none.
func (c *stmtCtx) nodeName() string {
	if c.is("input") || c.is("output") {
		return c.keyword.Name
	}
	return c.arg
}

func (c *stmtCtx) qname() schema.QName {
	return schema.QName{Module: c.module.qnameModule(), Name: c.nodeName()}
}

// root returns the statement a copy was made from, following the copy
// chain to the declaration.
func (c *stmtCtx) root() *stmtCtx {
	cur := c
	for cur.original != nil {
		cur = cur.original
	}
	return cur
}

// inGrouping reports whether c is declared inside a grouping.
func (c *stmtCtx) inGrouping() bool {
	for cur := c.parent; cur != nil; cur = cur.parent {
		if cur.is("grouping") {
			return true
		}
	}
	return false
}

func (c *stmtCtx) removeChild(target *stmtCtx) {
	c.children = slices.DeleteFunc(c.children, func(ch *stmtCtx) bool { return ch == target })
}

func (c *stmtCtx) replaceChild(old, next *stmtCtx) {
	for i, ch := range c.children {
		if ch == old {
			c.children[i] = next
			next.parent = c
			return
		}
	}
}

func (c *stmtCtx) addChild(child *stmtCtx) {
	child.parent = c
	c.children = append(c.children, child)
}

// copyTo deep copies c under parent, instantiating schema nodes in mod.
// Records pointing inside the copied subtree are rebased on the copies.
func (c *stmtCtx) copyTo(parent *stmtCtx, mod *moduleState, history CopyHistory) *stmtCtx {
	mapping := make(map[*stmtCtx]*stmtCtx)
	out := c.copyTree(parent, mod, history, mapping)
	rebase := func(list []*stmtCtx) []*stmtCtx {
		res := make([]*stmtCtx, 0, len(list))
		for _, x := range list {
			if m, ok := mapping[x]; ok {
				x = m
			}
			res = append(res, x)
		}
		return res
	}
	for src, dst := range mapping {
		dst.usesCopies = rebase(src.usesCopies)
		dst.added = rebase(src.added)
		dst.augmentations = rebase(src.augmentations)
		for _, r := range src.refines {
			t := r.target
			if m, ok := mapping[t]; ok {
				t = m
			}
			dst.refines = append(dst.refines, refined{path: r.path, target: t})
		}
	}
	return out
}

func (c *stmtCtx) copyTree(parent *stmtCtx, mod *moduleState, history CopyHistory, mapping map[*stmtCtx]*stmtCtx) *stmtCtx {
	out := &stmtCtx{
		def:         c.def,
		raw:         c.raw,
		parent:      parent,
		original:    c,
		unit:        c.unit,
		module:      mod,
		keyword:     c.keyword,
		arg:         c.arg,
		ref:         c.ref,
		copy:        c.copy | history,
		unsupported: c.unsupported,
		expanded:    c.expanded,
		implicit:    c.implicit,
		grouping:    c.grouping,
		extension:   c.extension,
		typedefs:    c.typedefs,
		groupings:   c.groupings,
	}
	mapping[c] = out
	out.children = make([]*stmtCtx, 0, len(c.children))
	for _, ch := range c.children {
		out.children = append(out.children, ch.copyTree(out, mod, history, mapping))
	}
	return out
}

// path renders the schema path of c for diagnostics.
func (c *stmtCtx) path() string {
	var parts []string
	for cur := c; cur != nil && cur.parent != nil; cur = cur.parent {
		if cur.isSchemaNode() {
			parts = append(parts, cur.nodeName())
		}
	}
	slices.Reverse(parts)
	out := ""
	for _, p := range parts {
		out += "/" + p
	}
	return out
}
