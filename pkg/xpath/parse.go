package xpath

import (
	"slices"
	"strconv"
	"strings"
)

// Expression is a parsed XPath expression together with its source text.
type Expression struct {
	Root Expr
	Text string
}

// String returns the expression as written.
func (e Expression) String() string { return e.Text }

// Prefixes lists the distinct prefixes used by name tests, function names
// and variables, in order of first use.
func (e Expression) Prefixes() []string {
	var out []string
	add := func(p string) {
		if p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	Walk(e.Root, func(x Expr) {
		switch v := x.(type) {
		case *PathExpr:
			for _, s := range v.Steps {
				add(s.Test.Prefix)
			}
		case *FuncCall:
			add(v.Prefix)
		case *VarRef:
			add(v.Prefix)
		}
	})
	return out
}

// Functions lists the names of every called function.
func (e Expression) Functions() []string {
	var out []string
	Walk(e.Root, func(x Expr) {
		if f, ok := x.(*FuncCall); ok && !slices.Contains(out, f.Name) {
			out = append(out, f.Name)
		}
	})
	return out
}

// Parse parses an XPath 1.0 expression.
func Parse(expr string) (Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return Expression{}, xpathErrorf("xpath cannot be empty")
	}
	toks, err := tokenize(expr)
	if err != nil {
		return Expression{}, err
	}
	p := &parser{toks: toks, expr: expr}
	root, err := p.orExpr()
	if err != nil {
		return Expression{}, err
	}
	if p.peek().kind != tkEOF {
		return Expression{}, p.unexpected()
	}
	return Expression{Root: root, Text: expr}, nil
}

type parser struct {
	expr string
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tkEOF {
		p.pos++
	}
	return t
}

func (p *parser) unexpected() error {
	t := p.peek()
	if t.kind == tkEOF {
		return xpathErrorf("unexpected end of expression %q", p.expr)
	}
	return xpathErrorf("unexpected %q at position %d in %q", t.text, t.pos, p.expr)
}

func (p *parser) expect(kind tokenKind) error {
	if p.peek().kind != kind {
		return p.unexpected()
	}
	p.next()
	return nil
}

func (p *parser) isOperator(names ...string) (string, bool) {
	t := p.peek()
	if t.kind == tkOperator && slices.Contains(names, t.text) {
		return t.text, true
	}
	return "", false
}

// binary parses a left associative chain of operators.
func (p *parser) binary(operand func() (Expr, error), match func() (string, bool)) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := match()
		if !ok {
			return left, nil
		}
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *parser) symbol(kinds ...tokenKind) func() (string, bool) {
	return func() (string, bool) {
		t := p.peek()
		if slices.Contains(kinds, t.kind) {
			return t.text, true
		}
		return "", false
	}
}

func (p *parser) orExpr() (Expr, error) {
	return p.binary(p.andExpr, func() (string, bool) { return p.isOperator("or") })
}

func (p *parser) andExpr() (Expr, error) {
	return p.binary(p.equalityExpr, func() (string, bool) { return p.isOperator("and") })
}

func (p *parser) equalityExpr() (Expr, error) {
	return p.binary(p.relationalExpr, p.symbol(tkEq, tkNeq))
}

func (p *parser) relationalExpr() (Expr, error) {
	return p.binary(p.additiveExpr, p.symbol(tkLt, tkLe, tkGt, tkGe))
}

func (p *parser) additiveExpr() (Expr, error) {
	return p.binary(p.multiplicativeExpr, p.symbol(tkPlus, tkMinus))
}

func (p *parser) multiplicativeExpr() (Expr, error) {
	return p.binary(p.unaryExpr, func() (string, bool) { return p.isOperator("*", "div", "mod") })
}

func (p *parser) unaryExpr() (Expr, error) {
	if p.peek().kind == tkMinus {
		p.next()
		x, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return &NegExpr{X: x}, nil
	}
	return p.binary(p.pathExpr, p.symbol(tkPipe))
}

func (p *parser) pathExpr() (Expr, error) {
	switch t := p.peek(); t.kind {
	case tkLiteral, tkNumber, tkVariable, tkLParen:
		return p.filterPath()
	case tkFunc:
		if nodeTypeTest(t.text) == TestName {
			return p.filterPath()
		}
	}
	return p.locationPath()
}

func (p *parser) filterPath() (Expr, error) {
	primary, err := p.primaryExpr()
	if err != nil {
		return nil, err
	}
	preds, err := p.predicates()
	if err != nil {
		return nil, err
	}
	var filter Expr = primary
	if len(preds) > 0 {
		filter = &FilterExpr{Primary: primary, Predicates: preds}
	}
	switch p.peek().kind {
	case tkSlash, tkDoubleSlash:
	default:
		return filter, nil
	}
	path := &PathExpr{Filter: filter}
	if err := p.relativeSteps(path, true); err != nil {
		return nil, err
	}
	return path, nil
}

func (p *parser) primaryExpr() (Expr, error) {
	start := p.pos
	t := p.next()
	switch t.kind {
	case tkLiteral:
		return &Literal{Value: t.text[1 : len(t.text)-1]}, nil
	case tkNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, xpathErrorf("invalid number %q in %q", t.text, p.expr)
		}
		return &Number{Value: v}, nil
	case tkVariable:
		prefix, name := splitQName(t.text[1:])
		return &VarRef{Prefix: prefix, Name: name}, nil
	case tkLParen:
		x, err := p.orExpr()
		if err != nil {
			return nil, err
		}
		return x, p.expect(tkRParen)
	case tkFunc:
		prefix, name := splitQName(t.text)
		call := &FuncCall{Prefix: prefix, Name: name}
		if err := p.expect(tkLParen); err != nil {
			return nil, err
		}
		if p.peek().kind == tkRParen {
			p.next()
			return call, nil
		}
		for {
			arg, err := p.orExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.peek().kind == tkComma {
				p.next()
				continue
			}
			return call, p.expect(tkRParen)
		}
	}
	p.pos = start
	return nil, p.unexpected()
}

func (p *parser) predicates() ([]Expr, error) {
	var out []Expr
	for p.peek().kind == tkLBracket {
		p.next()
		x, err := p.orExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tkRBracket); err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func (p *parser) locationPath() (Expr, error) {
	path := &PathExpr{}
	switch p.peek().kind {
	case tkSlash:
		p.next()
		path.Absolute = true
		if !p.stepStarts() {
			return path, nil
		}
	case tkDoubleSlash:
		p.next()
		path.Absolute = true
		path.Steps = append(path.Steps, Step{Axis: AxisDescendantOrSelf, Test: NodeTest{Kind: TestNode}})
	}
	step, err := p.step()
	if err != nil {
		return nil, err
	}
	path.Steps = append(path.Steps, step)
	if err := p.relativeSteps(path, false); err != nil {
		return nil, err
	}
	return path, nil
}

// relativeSteps reads "/" step and "//" step continuations; required forces
// at least one.
func (p *parser) relativeSteps(path *PathExpr, required bool) error {
	for {
		switch p.peek().kind {
		case tkSlash:
			p.next()
		case tkDoubleSlash:
			p.next()
			path.Steps = append(path.Steps, Step{Axis: AxisDescendantOrSelf, Test: NodeTest{Kind: TestNode}})
		default:
			if required {
				return p.unexpected()
			}
			return nil
		}
		required = false
		step, err := p.step()
		if err != nil {
			return err
		}
		path.Steps = append(path.Steps, step)
	}
}

func (p *parser) stepStarts() bool {
	switch t := p.peek(); t.kind {
	case tkName, tkStar, tkAxis, tkAt, tkDot, tkDoubleDot:
		return true
	case tkFunc:
		return nodeTypeTest(t.text) != TestName
	}
	return false
}

func (p *parser) step() (Step, error) {
	switch p.peek().kind {
	case tkDot:
		p.next()
		return Step{Axis: AxisSelf, Test: NodeTest{Kind: TestNode}}, nil
	case tkDoubleDot:
		p.next()
		return Step{Axis: AxisParent, Test: NodeTest{Kind: TestNode}}, nil
	}
	step := Step{Axis: AxisChild}
	switch t := p.peek(); t.kind {
	case tkAt:
		p.next()
		step.Axis = AxisAttribute
	case tkAxis:
		p.next()
		axis, ok := axisNames[t.text]
		if !ok {
			return Step{}, xpathErrorf("unknown axis %q in %q", t.text, p.expr)
		}
		step.Axis = axis
	}
	test, err := p.nodeTest()
	if err != nil {
		return Step{}, err
	}
	step.Test = test
	if step.Predicates, err = p.predicates(); err != nil {
		return Step{}, err
	}
	return step, nil
}

func (p *parser) nodeTest() (NodeTest, error) {
	start := p.pos
	t := p.next()
	switch t.kind {
	case tkStar:
		return NodeTest{Local: "*"}, nil
	case tkName:
		prefix, local := splitQName(t.text)
		return NodeTest{Prefix: prefix, Local: local}, nil
	case tkFunc:
		kind := nodeTypeTest(t.text)
		if kind == TestName {
			break
		}
		if err := p.expect(tkLParen); err != nil {
			return NodeTest{}, err
		}
		if kind == TestProcessingInstruction && p.peek().kind == tkLiteral {
			p.next()
		}
		return NodeTest{Kind: kind}, p.expect(tkRParen)
	}
	p.pos = start
	return NodeTest{}, p.unexpected()
}

func nodeTypeTest(name string) NodeTestKind {
	switch name {
	case "node":
		return TestNode
	case "text":
		return TestText
	case "comment":
		return TestComment
	case "processing-instruction":
		return TestProcessingInstruction
	}
	return TestName
}

func splitQName(s string) (string, string) {
	if before, after, ok := strings.Cut(s, ":"); ok {
		return before, after
	}
	return "", s
}
