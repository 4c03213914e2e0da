package reactor

import (
	"strconv"
	"strings"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/linkage"
	"github.com/jacoelho/yang/internal/stmt"
	"github.com/jacoelho/yang/internal/stmtdef"
	"github.com/jacoelho/yang/pkg/xpath"
	"github.com/jacoelho/yang/schema"
)

// effectiveModel applies deviations and builds the immutable model of every
// module.
func (r *reactor) effectiveModel() []error {
	if errs := r.applyDeviations(); len(errs) > 0 {
		return errs
	}
	r.nodes = make(map[*stmtCtx]*schema.Node)
	r.augs = make(map[*stmtCtx]*schema.Augmentation)
	var errs []error
	for _, mod := range r.order {
		b := &builder{r: r, mod: mod}
		m := b.module()
		errs = append(errs, b.errs...)
		r.built = append(r.built, m)
	}
	// augment records exist once every target module is built
	for i, mod := range r.order {
		for _, aug := range mod.root.all("augment") {
			if a, ok := r.augs[aug]; ok {
				r.built[i].Augmentations = append(r.built[i].Augmentations, a)
			}
		}
	}
	return errs
}

func (r *reactor) assemble() (*schema.Context, error) {
	return schema.NewContext(r.built), nil
}

// builder converts the statement contexts of one module.
type builder struct {
	r    *reactor
	mod  *moduleState
	errs []error
}

func (b *builder) fail(err error) {
	b.errs = append(b.errs, err)
}

func header(c *stmtCtx) schema.Header {
	info := c.unit.Info()
	h := schema.Header{
		Name:        info.Name,
		YangVersion: info.YangVersion,
		Revision:    schema.Revision(info.Revision),
	}
	h.Organization, _ = c.argOf("organization")
	h.Contact, _ = c.argOf("contact")
	h.Description, _ = c.argOf("description")
	h.Reference, _ = c.argOf("reference")
	for _, rev := range c.all("revision") {
		ri := schema.RevisionInfo{Date: schema.Revision(rev.arg)}
		ri.Description, _ = rev.argOf("description")
		ri.Reference, _ = rev.argOf("reference")
		h.Revisions = append(h.Revisions, ri)
	}
	for _, imp := range c.all("import") {
		i := schema.Import{Module: imp.arg}
		i.Prefix, _ = imp.argOf("prefix")
		rd, _ := imp.argOf("revision-date")
		i.Revision = schema.Revision(rd)
		i.Description, _ = imp.argOf("description")
		i.Reference, _ = imp.argOf("reference")
		h.Imports = append(h.Imports, i)
	}
	return h
}

func (b *builder) module() *schema.Module {
	root := b.mod.root
	info := b.mod.unit.Info()
	m := &schema.Module{
		Header:    header(root),
		Namespace: info.Namespace,
		Prefix:    info.Prefix,
	}
	for _, sub := range b.mod.subRoots {
		si := sub.unit.Info()
		m.Submodules = append(m.Submodules, &schema.Submodule{Header: header(sub), BelongsTo: si.BelongsTo, Prefix: si.BelongsToPrefix})
	}

	for _, c := range root.children {
		if c.unsupported {
			continue
		}
		switch {
		case c.isExtension():
			m.Unknown = append(m.Unknown, b.r.unknown(c.unit, c.raw))
		case c.is("typedef"):
			if td, err := b.r.types.typedef(c); err != nil {
				b.fail(err)
			} else {
				m.Typedefs = append(m.Typedefs, td)
			}
		case c.is("grouping"):
			m.Groupings = append(m.Groupings, b.grouping(c))
		case c.is("identity"):
			m.Identities = append(m.Identities, b.identity(c))
		case c.is("feature"):
			f := &schema.Feature{
				IfFeatures: c.args("if-feature"),
				Documented: documented(c),
				QName:      c.qname(),
				Supported:  b.mod.featureSupport[c],
			}
			m.Features = append(m.Features, f)
		case c.is("extension"):
			e := &schema.Extension{Documented: documented(c), QName: c.qname()}
			if arg := c.first("argument"); arg != nil {
				e.Argument = arg.arg
				y, _ := arg.argOf("yin-element")
				e.YinElement = y == "true"
			}
			m.Extensions = append(m.Extensions, e)
		case c.is("rpc"):
			m.RPCs = append(m.RPCs, b.node(c, nil, nodeCtx{config: false, operation: true}))
		case c.is("notification"):
			m.Notifications = append(m.Notifications, b.node(c, nil, nodeCtx{config: false, operation: true}))
		case c.isSchemaNode():
			m.Children = append(m.Children, b.node(c, nil, nodeCtx{config: true}))
		}
	}
	b.checkCollisions(m.Children, root)
	b.checkCollisions(append(append([]*schema.Node{}, m.RPCs...), m.Notifications...), root)

	for _, u := range root.all("uses") {
		if !u.unsupported && u.expanded {
			m.Uses = append(m.Uses, b.uses(u))
		}
	}

	for _, dev := range root.all("deviation") {
		if dev.unsupported || len(dev.added) == 0 {
			continue
		}
		m.Deviations = append(m.Deviations, b.deviation(dev))
	}
	return m
}

func (b *builder) identity(c *stmtCtx) *schema.Identity {
	id := &schema.Identity{IfFeatures: c.args("if-feature"), Documented: documented(c), QName: c.qname()}
	for _, base := range b.mod.identityBases[c] {
		id.Bases = append(id.Bases, identityQName(base))
	}
	return id
}

func (b *builder) grouping(c *stmtCtx) *schema.Grouping {
	g := &schema.Grouping{Documented: documented(c), QName: c.qname()}
	for _, ch := range c.children {
		if ch.unsupported {
			continue
		}
		switch {
		case ch.is("typedef"):
			if td, err := b.r.types.typedef(ch); err != nil {
				b.fail(err)
			} else {
				g.Typedefs = append(g.Typedefs, td)
			}
		case ch.is("grouping"):
			g.Groupings = append(g.Groupings, b.grouping(ch))
		case ch.isSchemaNode():
			g.Children = append(g.Children, b.node(ch, nil, nodeCtx{config: true, grouping: true}))
		}
	}
	return g
}

// nodeCtx carries the inherited state of the enclosing node.
type nodeCtx struct {
	config    bool
	operation bool
	grouping  bool
}

func (b *builder) node(c *stmtCtx, parent *schema.Node, nc nodeCtx) *schema.Node {
	kind, _ := schema.KindOf(c.keyword.Name)
	n := &schema.Node{
		Kind:        kind,
		QName:       c.qname(),
		Documented:  documented(c),
		IfFeatures:  c.args("if-feature"),
		AddedByUses: c.copy.Has(AddedByUses) || c.copy.Has(AddedByUsesAugmentation),
		Augmenting:  c.copy.Has(AddedByAugmentation) || c.copy.Has(AddedByUsesAugmentation),
	}
	n.SetParent(parent)
	if parent != nil {
		n.Path = append(append(n.Path, parent.Path...), n.QName)
	} else {
		n.Path = []schema.QName{n.QName}
	}
	b.r.nodes[c] = n

	n.When, _ = c.argOf("when")
	n.Units, _ = c.argOf("units")
	n.Presence, _ = c.argOf("presence")
	n.OrderedBy, _ = c.argOf("ordered-by")
	n.Mandatory = c.first("mandatory") != nil && c.first("mandatory").arg == "true"
	if v, ok := c.argOf("min-elements"); ok {
		minElems, _ := strconv.ParseUint(v, 10, 32)
		n.MinElements = uint32(minElems)
	}
	if v, ok := c.argOf("max-elements"); ok {
		n.MaxElements = stmtdef.ParseMaxElements(v)
	}
	for _, must := range c.all("must") {
		n.Must = append(n.Must, mustOf(must))
	}

	b.config(c, n, &nc)
	if c.is("leaf") || c.is("leaf-list") {
		b.leafType(c, n, nc)
	}

	for _, ch := range c.children {
		switch {
		case ch.unsupported:
		case ch.isExtension():
			n.Unknown = append(n.Unknown, b.r.unknown(ch.unit, ch.raw))
		case ch.isSchemaNode():
			child := nc
			if ch.is("input") || ch.is("output") || ch.is("action") || ch.is("notification") {
				child.config, child.operation = false, true
			}
			n.Children = append(n.Children, b.node(ch, n, child))
		}
	}
	b.checkCollisions(n.Children, c)

	switch {
	case c.is("list"):
		b.listKeys(c, n, nc)
	case c.is("choice"):
		b.choiceDefault(c, n)
	}

	for _, u := range c.all("uses") {
		if !u.unsupported && u.expanded {
			n.Uses = append(n.Uses, b.uses(u))
		}
	}
	for _, aug := range c.augmentations {
		n.Augmentations = append(n.Augmentations, b.augmentation(aug))
	}
	return n
}

// config computes the effective config of n. Operations and notifications
// carry no configuration.
func (b *builder) config(c *stmtCtx, n *schema.Node, nc *nodeCtx) {
	if nc.operation {
		n.Config = false
		return
	}
	n.Config = nc.config
	if v, ok := c.argOf("config"); ok {
		explicit := v == "true"
		if explicit && !nc.config && !nc.grouping {
			b.fail(yangerrors.New(yangerrors.ErrInference, c.first("config").ref,
				"Parent node has config=false, this node must not be specifed as config=true"))
		}
		n.Config = explicit
	}
	nc.config = n.Config
}

func mustOf(c *stmtCtx) schema.Must {
	m := schema.Must{Expression: c.arg}
	m.ErrorMessage, _ = c.argOf("error-message")
	m.ErrorAppTag, _ = c.argOf("error-app-tag")
	m.Description, _ = c.argOf("description")
	m.Reference, _ = c.argOf("reference")
	return m
}

func (b *builder) leafType(c *stmtCtx, n *schema.Node, nc nodeCtx) {
	ts := c.first("type")
	if ts == nil {
		b.fail(yangerrors.New(yangerrors.ErrSource, c.ref, "Missing TYPE statement in %s.", stmt.DiagName(c.keyword.Name)))
		return
	}
	typ, err := b.r.types.resolve(ts, n.QName, false)
	if err != nil {
		b.fail(err)
		return
	}
	n.Type = typ
	if n.Units == "" {
		n.Units = typ.Units
	}
	defaults := c.all("default")
	for _, d := range defaults {
		n.Defaults = append(n.Defaults, d.arg)
		if err := b.r.types.checkDefault(d, typ, d.arg); err != nil {
			b.fail(err)
		}
	}
	if len(defaults) == 0 && typ.Default != "" && !n.Mandatory && (c.is("leaf") || n.MinElements == 0) {
		n.Defaults = []string{typ.Default}
	}
	if c.is("leaf") && n.Mandatory && len(defaults) > 0 && !nc.grouping {
		b.fail(yangerrors.New(yangerrors.ErrSource, defaults[0].ref, "Leaf %s has both default and mandatory", c.arg))
	}
}

func (b *builder) listKeys(c *stmtCtx, n *schema.Node, nc nodeCtx) {
	keyArg, hasKey := c.argOf("key")
	if !hasKey && n.Config && !nc.grouping && !nc.operation {
		b.fail(yangerrors.New(yangerrors.ErrSource, c.ref, "List %s in a configuration tree must have a key", c.arg))
	}
	for _, name := range strings.Fields(keyArg) {
		_, local := stmt.SplitQName(name)
		leaf := c.schemaChild(nil, local)
		if leaf == nil || !leaf.is("leaf") || leaf.unsupported {
			b.fail(yangerrors.New(yangerrors.ErrInference, c.first("key").ref, "Key '%s' of list %s is not a leaf child", name, c.arg))
			continue
		}
		if c.version() == "1.1" {
			for _, cond := range [...]string{"when", "if-feature"} {
				if leaf.first(cond) != nil {
					b.fail(yangerrors.New(yangerrors.ErrSource, leaf.ref,
						"leaf statement %s is a key in list statement %s: it cannot be conditional on %s statement", local, c.arg, cond))
				}
			}
		}
		n.Keys = append(n.Keys, leaf.qname())
	}
	for _, u := range c.all("unique") {
		var paths []string
		for _, p := range strings.Fields(u.arg) {
			target := findDescendant(c, p)
			if target == nil || !target.is("leaf") {
				b.fail(yangerrors.New(yangerrors.ErrInference, u.ref, "Unique '%s' of list %s does not refer to a leaf", p, c.arg))
				continue
			}
			paths = append(paths, p)
		}
		n.Unique = append(n.Unique, paths)
	}
}

func (b *builder) choiceDefault(c *stmtCtx, n *schema.Node) {
	d := c.first("default")
	if d == nil {
		return
	}
	if n.Mandatory {
		b.fail(yangerrors.New(yangerrors.ErrSource, d.ref, "Choice %s cannot have both default and mandatory", c.arg))
	}
	cs := c.schemaChild(nil, d.arg)
	if cs == nil || cs.unsupported {
		b.fail(yangerrors.New(yangerrors.ErrInference, d.ref, "Default case '%s' of choice %s not found", d.arg, c.arg))
		return
	}
	qn := cs.qname()
	n.DefaultCase = &qn
}

// checkCollisions rejects siblings with equal names. Data node names must
// also be unique through choice and case nodes.
func (b *builder) checkCollisions(children []*schema.Node, at *stmtCtx) {
	seen := make(map[schema.QName]bool)
	var visit func(nodes []*schema.Node, transparent bool)
	visit = func(nodes []*schema.Node, transparent bool) {
		local := make(map[schema.QName]bool)
		for _, n := range nodes {
			if local[n.QName] {
				b.collision(n, at)
			}
			local[n.QName] = true
			if n.Kind == schema.KindChoice || n.Kind == schema.KindCase {
				visit(n.Children, true)
				continue
			}
			if seen[n.QName] && transparent {
				b.collision(n, at)
			}
			seen[n.QName] = true
		}
	}
	visit(children, false)
}

func (b *builder) collision(n *schema.Node, at *stmtCtx) {
	b.fail(yangerrors.New(yangerrors.ErrSource, at.ref,
		"Error in module '%s': cannot add '%s'. Node name collision: '%s' already declared",
		b.mod.name(), n.QName, n.QName))
}

func (b *builder) uses(u *stmtCtx) *schema.Uses {
	g := u.grouping
	out := &schema.Uses{
		Grouping:   schema.QName{Module: g.module.qnameModule(), Name: g.arg},
		IfFeatures: u.args("if-feature"),
		Documented: documented(u),
	}
	out.When, _ = u.argOf("when")
	for _, ref := range u.refines {
		if n, ok := b.r.nodes[ref.target]; ok {
			out.Refines = append(out.Refines, schema.Refine{Target: ref.path, Node: n})
		}
	}
	for _, aug := range u.all("augment") {
		if a, ok := b.r.augs[aug]; ok {
			out.Augmentations = append(out.Augmentations, a)
		}
	}
	return out
}

// augmentation returns the effective record of aug, built once.
func (b *builder) augmentation(aug *stmtCtx) *schema.Augmentation {
	if a, ok := b.r.augs[aug]; ok {
		return a
	}
	a := &schema.Augmentation{
		Target:     aug.arg,
		IfFeatures: aug.args("if-feature"),
		Documented: documented(aug),
	}
	a.When, _ = aug.argOf("when")
	def := aug.module
	if aug.parent.is("uses") {
		def = aug.parent.parent.module
	}
	a.TargetPath = b.r.targetPath(aug, def)
	for _, c := range aug.added {
		if n, ok := b.r.nodes[c]; ok {
			a.Children = append(a.Children, n)
		}
	}
	for _, c := range aug.children {
		if c.isExtension() {
			a.Unknown = append(a.Unknown, b.r.unknown(c.unit, c.raw))
		}
	}
	b.r.augs[aug] = a
	return a
}

// targetPath resolves the QNames of a schema node identifier argument;
// unprefixed steps belong to def.
func (r *reactor) targetPath(c *stmtCtx, def *moduleState) []schema.QName {
	id, err := xpath.ParseSchemaNodeID(c.arg)
	if err != nil {
		return nil
	}
	out := make([]schema.QName, 0, len(id.Path))
	for _, step := range id.Path {
		mod := def
		if step.Prefix != "" {
			if m, err := r.moduleFor(c, step.Prefix); err == nil {
				mod = m
			}
		}
		out = append(out, schema.QName{Module: mod.qnameModule(), Name: step.Name})
	}
	return out
}

func (b *builder) deviation(dev *stmtCtx) *schema.Deviation {
	target := dev.added[0]
	d := &schema.Deviation{Target: dev.arg, TargetPath: b.r.targetPath(dev, dev.module)}
	d.Description, _ = dev.argOf("description")
	d.Reference, _ = dev.argOf("reference")
	for _, dv := range dev.all("deviate") {
		out := schema.Deviate{Kind: dv.arg}
		for _, c := range dv.children {
			switch {
			case c.isExtension():
				out.Unknown = append(out.Unknown, b.r.unknown(c.unit, c.raw))
			case c.is("config"):
				v := c.arg == "true"
				out.Config = &v
			case c.is("mandatory"):
				v := c.arg == "true"
				out.Mandatory = &v
			case c.is("min-elements"):
				v, _ := strconv.ParseUint(c.arg, 10, 32)
				minElems := uint32(v)
				out.MinElements = &minElems
			case c.is("max-elements"):
				v := stmtdef.ParseMaxElements(c.arg)
				out.MaxElements = &v
			case c.is("type"):
				typ, err := b.r.types.resolve(c, target.qname(), false)
				if err != nil {
					b.fail(err)
					continue
				}
				out.Type = typ
			case c.is("units"):
				out.Units = c.arg
			case c.is("default"):
				out.Defaults = append(out.Defaults, c.arg)
			case c.is("must"):
				out.Must = append(out.Must, mustOf(c))
			case c.is("unique"):
				out.Unique = append(out.Unique, strings.Fields(c.arg))
			}
		}
		d.Deviates = append(d.Deviates, out)
	}
	return d
}

// unknown converts an extension instance. Nested statements are taken from
// the source as written.
func (r *reactor) unknown(unit *linkage.Unit, raw *stmt.Statement) *schema.UnknownNode {
	n := &schema.UnknownNode{Keyword: raw.Keyword.String(), Argument: raw.Arg}
	if raw.Keyword.IsExtension() {
		if target, ok := unit.Prefixes[raw.Keyword.Prefix]; ok {
			n.Extension = schema.QName{Module: r.modules[target].qnameModule(), Name: raw.Keyword.Name}
		}
	}
	for _, ch := range raw.Children {
		n.Children = append(n.Children, r.unknown(unit, ch))
	}
	return n
}
