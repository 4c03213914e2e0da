package xpath

import (
	"strconv"
	"strings"
)

// Axis describes the XPath axis used in a step.
type Axis int

const (
	AxisChild Axis = iota
	AxisDescendant
	AxisDescendantOrSelf
	AxisSelf
	AxisParent
	AxisAncestor
	AxisAncestorOrSelf
	AxisAttribute
	AxisFollowing
	AxisFollowingSibling
	AxisPreceding
	AxisPrecedingSibling
	AxisNamespace
)

var axisNames = map[string]Axis{
	"child":              AxisChild,
	"descendant":         AxisDescendant,
	"descendant-or-self": AxisDescendantOrSelf,
	"self":               AxisSelf,
	"parent":             AxisParent,
	"ancestor":           AxisAncestor,
	"ancestor-or-self":   AxisAncestorOrSelf,
	"attribute":          AxisAttribute,
	"following":          AxisFollowing,
	"following-sibling":  AxisFollowingSibling,
	"preceding":          AxisPreceding,
	"preceding-sibling":  AxisPrecedingSibling,
	"namespace":          AxisNamespace,
}

func (a Axis) String() string {
	for name, v := range axisNames {
		if v == a {
			return name
		}
	}
	return "axis(" + strconv.Itoa(int(a)) + ")"
}

// NodeTestKind distinguishes name tests from node type tests.
type NodeTestKind uint8

const (
	TestName NodeTestKind = iota
	TestNode
	TestText
	TestComment
	TestProcessingInstruction
)

// NodeTest matches nodes of a step. Local is "*" for wildcards.
type NodeTest struct {
	Prefix string
	Local  string
	Kind   NodeTestKind
}

func (t NodeTest) String() string {
	switch t.Kind {
	case TestNode:
		return "node()"
	case TestText:
		return "text()"
	case TestComment:
		return "comment()"
	case TestProcessingInstruction:
		return "processing-instruction()"
	}
	if t.Prefix == "" {
		return t.Local
	}
	return t.Prefix + ":" + t.Local
}

// Expr is an XPath syntax tree node.
type Expr interface {
	String() string
	walk(fn func(Expr))
}

// Step is one location step.
type Step struct {
	Test       NodeTest
	Predicates []Expr
	Axis       Axis
}

func (s Step) String() string {
	var b strings.Builder
	switch {
	case s.Axis == AxisSelf && s.Test.Kind == TestNode:
		b.WriteString(".")
	case s.Axis == AxisParent && s.Test.Kind == TestNode:
		b.WriteString("..")
	case s.Axis == AxisAttribute:
		b.WriteString("@" + s.Test.String())
	case s.Axis == AxisChild:
		b.WriteString(s.Test.String())
	default:
		b.WriteString(s.Axis.String() + "::" + s.Test.String())
	}
	for _, p := range s.Predicates {
		b.WriteString("[" + p.String() + "]")
	}
	return b.String()
}

// PathExpr is a location path, optionally applied to a filter expression.
type PathExpr struct {
	// Filter is the primary expression the path starts from, if any.
	Filter   Expr
	Steps    []Step
	Absolute bool
}

func (p *PathExpr) String() string {
	var b strings.Builder
	if p.Filter != nil {
		b.WriteString(p.Filter.String())
	}
	for i, s := range p.Steps {
		if i > 0 || p.Absolute || p.Filter != nil {
			b.WriteByte('/')
		}
		b.WriteString(s.String())
	}
	if p.Absolute && len(p.Steps) == 0 {
		b.WriteByte('/')
	}
	return b.String()
}

func (p *PathExpr) walk(fn func(Expr)) {
	fn(p)
	if p.Filter != nil {
		p.Filter.walk(fn)
	}
	for _, s := range p.Steps {
		for _, pred := range s.Predicates {
			pred.walk(fn)
		}
	}
}

// FilterExpr is a primary expression with predicates.
type FilterExpr struct {
	Primary    Expr
	Predicates []Expr
}

func (f *FilterExpr) String() string {
	var b strings.Builder
	b.WriteString(f.Primary.String())
	for _, p := range f.Predicates {
		b.WriteString("[" + p.String() + "]")
	}
	return b.String()
}

func (f *FilterExpr) walk(fn func(Expr)) {
	fn(f)
	f.Primary.walk(fn)
	for _, p := range f.Predicates {
		p.walk(fn)
	}
}

// BinaryExpr applies Op to two operands.
type BinaryExpr struct {
	Left  Expr
	Right Expr
	Op    string
}

func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op + " " + e.Right.String() + ")"
}

func (e *BinaryExpr) walk(fn func(Expr)) {
	fn(e)
	e.Left.walk(fn)
	e.Right.walk(fn)
}

// NegExpr is unary minus.
type NegExpr struct {
	X Expr
}

func (e *NegExpr) String() string { return "-" + e.X.String() }

func (e *NegExpr) walk(fn func(Expr)) {
	fn(e)
	e.X.walk(fn)
}

// FuncCall is a function call; Prefix is set for extension functions.
type FuncCall struct {
	Prefix string
	Name   string
	Args   []Expr
}

func (f *FuncCall) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	name := f.Name
	if f.Prefix != "" {
		name = f.Prefix + ":" + name
	}
	return name + "(" + strings.Join(args, ", ") + ")"
}

func (f *FuncCall) walk(fn func(Expr)) {
	fn(f)
	for _, a := range f.Args {
		a.walk(fn)
	}
}

// Literal is a string literal.
type Literal struct {
	Value string
}

func (l *Literal) String() string {
	if strings.Contains(l.Value, "'") {
		return `"` + l.Value + `"`
	}
	return "'" + l.Value + "'"
}

func (l *Literal) walk(fn func(Expr)) { fn(l) }

// Number is a numeric literal.
type Number struct {
	Value float64
}

func (n *Number) String() string { return strconv.FormatFloat(n.Value, 'f', -1, 64) }

func (n *Number) walk(fn func(Expr)) { fn(n) }

// VarRef is a variable reference.
type VarRef struct {
	Prefix string
	Name   string
}

func (v *VarRef) String() string {
	if v.Prefix == "" {
		return "$" + v.Name
	}
	return "$" + v.Prefix + ":" + v.Name
}

func (v *VarRef) walk(fn func(Expr)) { fn(v) }

// Walk calls fn for every node of e in depth-first order.
func Walk(e Expr, fn func(Expr)) {
	if e != nil {
		e.walk(fn)
	}
}
