package reactor

import (
	"fmt"
	"slices"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/types"
	"github.com/jacoelho/yang/schema"
)

// typeResolver derives effective types. Typedefs are cached by their
// declaration; types of nodes are derived per node.
type typeResolver struct {
	r         *reactor
	typedefs  map[*stmtCtx]*schema.Typedef
	resolving map[*stmtCtx]bool
}

func newTypeResolver(r *reactor) *typeResolver {
	return &typeResolver{
		r:         r,
		typedefs:  make(map[*stmtCtx]*schema.Typedef),
		resolving: make(map[*stmtCtx]bool),
	}
}

func documented(c *stmtCtx) schema.Documented {
	d := schema.Documented{}
	d.Description, _ = c.argOf("description")
	d.Reference, _ = c.argOf("reference")
	if s, ok := c.argOf("status"); ok {
		d.Status = schema.ParseStatus(s)
	}
	return d
}

func constraintOf(c *stmtCtx) schema.Constraint {
	out := schema.Constraint{}
	out.ErrorMessage, _ = c.argOf("error-message")
	out.ErrorAppTag, _ = c.argOf("error-app-tag")
	out.Description, _ = c.argOf("description")
	out.Reference, _ = c.argOf("reference")
	return out
}

// typedef derives the type declared by a typedef statement.
func (t *typeResolver) typedef(c *stmtCtx) (*schema.Typedef, error) {
	c = c.root()
	if td, ok := t.typedefs[c]; ok {
		return td, nil
	}
	if t.resolving[c] {
		return nil, yangerrors.New(yangerrors.ErrInference, c.ref, "Type %s is circular", c.arg)
	}
	t.resolving[c] = true
	defer delete(t.resolving, c)

	qn := schema.QName{Module: c.module.qnameModule(), Name: c.arg}
	typ, err := t.resolve(c.first("type"), qn, true)
	if err != nil {
		return nil, err
	}
	td := &schema.Typedef{Type: typ, Documented: documented(c), QName: qn}
	td.Units, _ = c.argOf("units")
	td.Default, _ = c.argOf("default")

	// Units and default are inherited along the chain.
	out := *typ
	if td.Units == "" && typ.Base != nil {
		td.Units = typ.Base.Units
	}
	if td.Default == "" && typ.Base != nil {
		td.Default = typ.Base.Default
	}
	out.Units, out.Default = td.Units, td.Default
	out.Description, out.Reference, out.Status = td.Description, td.Reference, td.Status
	td.Type = &out

	if d := c.first("default"); d != nil {
		if err := t.checkDefault(d, td.Type, d.arg); err != nil {
			return nil, err
		}
	}
	t.typedefs[c] = td
	return td, nil
}

// resolve derives the type of a type statement. name is the QName the
// derived type is known by. Without restrictions a typedef reference is
// returned as is unless named is set.
func (t *typeResolver) resolve(ts *stmtCtx, name schema.QName, named bool) (*schema.Type, error) {
	var base *schema.Type
	if types.IsBuiltin(ts.arg) {
		base = types.NewBuiltin(ts.arg)
	} else {
		def, err := t.r.findDefinition(ts, "typedef", ts.arg)
		if err != nil {
			return nil, err
		}
		td, err := t.typedef(def)
		if err != nil {
			return nil, err
		}
		base = td.Type
		if !named && !hasRestrictions(ts) {
			return base, nil
		}
	}

	restr, err := t.restrictions(ts, name)
	if err != nil {
		return nil, err
	}
	typ, warnings, err := types.Derive(base, name, restr, ts.version())
	if err != nil {
		return nil, yangerrors.Wrap(yangerrors.ErrSource, ts.ref, err, "%s", err.Error())
	}
	for _, w := range warnings {
		t.r.log.Warn().Err(w).Str("at", ts.ref.String()).Msg("pattern kept unenforced")
	}
	if !types.IsBuiltin(ts.arg) {
		typ.Units, typ.Default = base.Units, base.Default
	}
	return typ, nil
}

func hasRestrictions(ts *stmtCtx) bool {
	return slices.ContainsFunc(ts.children, func(c *stmtCtx) bool { return !c.isExtension() })
}

func (t *typeResolver) restrictions(ts *stmtCtx, name schema.QName) (types.Restrictions, error) {
	var out types.Restrictions
	if c := ts.first("range"); c != nil {
		out.Range = &types.Restriction{Arg: c.arg, Constraint: constraintOf(c)}
	}
	if c := ts.first("length"); c != nil {
		out.Length = &types.Restriction{Arg: c.arg, Constraint: constraintOf(c)}
	}
	for _, c := range ts.all("pattern") {
		m, _ := c.argOf("modifier")
		out.Patterns = append(out.Patterns, types.PatternSpec{Arg: c.arg, Constraint: constraintOf(c), Inverted: m == "invert-match"})
	}
	for _, c := range ts.all("enum") {
		if c.unsupported {
			continue
		}
		v, _ := c.argOf("value")
		out.Enums = append(out.Enums, types.EnumSpec{Name: c.arg, Value: v, IfFeatures: c.args("if-feature"), Documented: documented(c)})
	}
	for _, c := range ts.all("bit") {
		if c.unsupported {
			continue
		}
		p, _ := c.argOf("position")
		out.Bits = append(out.Bits, types.BitSpec{Name: c.arg, Position: p, IfFeatures: c.args("if-feature"), Documented: documented(c)})
	}
	for _, c := range ts.all("base") {
		id, err := t.r.lookupGlobal(c, "identity", c.arg)
		if err != nil {
			return out, err
		}
		out.Bases = append(out.Bases, identityQName(id))
	}
	for _, c := range ts.all("type") {
		member, err := t.resolve(c, name, false)
		if err != nil {
			return out, err
		}
		out.Union = append(out.Union, member)
	}
	out.FractionDigits, _ = ts.argOf("fraction-digits")
	out.Path, _ = ts.argOf("path")
	out.RequireInstance, _ = ts.argOf("require-instance")
	return out, nil
}

func identityQName(id *stmtCtx) schema.QName {
	return schema.QName{Module: id.module.qnameModule(), Name: id.arg}
}

// checkDefault validates a default value declared by statement c.
func (t *typeResolver) checkDefault(c *stmtCtx, typ *schema.Type, value string) error {
	if err := types.CheckValue(typ, value, t.identityCheck(c)); err != nil {
		return yangerrors.Wrap(yangerrors.ErrInference, c.ref, err, "Invalid default value '%s': %v", value, err)
	}
	return nil
}

// identityCheck resolves identityref values in the source of c.
func (t *typeResolver) identityCheck(c *stmtCtx) types.IdentityCheck {
	return func(value string, bases []schema.QName) error {
		id, err := t.r.lookupGlobal(c, "identity", value)
		if err != nil {
			return err
		}
		if !id.supported() {
			return fmt.Errorf("identity %s is not supported", value)
		}
		if t.derivesFrom(id, bases, make(map[*stmtCtx]bool)) {
			return nil
		}
		return fmt.Errorf("identity %s is not derived from %v", value, bases)
	}
}

func (t *typeResolver) derivesFrom(id *stmtCtx, bases []schema.QName, seen map[*stmtCtx]bool) bool {
	if seen[id] {
		return false
	}
	seen[id] = true
	for _, b := range id.module.identityBases[id] {
		if slices.Contains(bases, identityQName(b)) || t.derivesFrom(b, bases, seen) {
			return true
		}
	}
	return false
}
