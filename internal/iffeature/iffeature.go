// Package iffeature parses and evaluates if-feature expressions.
package iffeature

import (
	"fmt"
	"strings"

	"github.com/jacoelho/yang/internal/stmt"
)

// Ref is a feature reference, optionally prefixed.
type Ref struct {
	Prefix string
	Name   string
}

func (r Ref) String() string {
	if r.Prefix == "" {
		return r.Name
	}
	return r.Prefix + ":" + r.Name
}

// Expr is a parsed if-feature expression.
type Expr interface {
	// Eval evaluates the expression with supported reporting each reference.
	Eval(supported func(Ref) bool) bool
	String() string
	refs(out []Ref) []Ref
}

type refExpr struct{ ref Ref }

type notExpr struct{ x Expr }

type binExpr struct {
	op   string
	l, r Expr
}

func (e refExpr) Eval(f func(Ref) bool) bool { return f(e.ref) }
func (e refExpr) String() string            { return e.ref.String() }
func (e refExpr) refs(out []Ref) []Ref      { return append(out, e.ref) }

func (e notExpr) Eval(f func(Ref) bool) bool { return !e.x.Eval(f) }
func (e notExpr) String() string            { return "not " + e.x.String() }
func (e notExpr) refs(out []Ref) []Ref      { return e.x.refs(out) }

func (e binExpr) Eval(f func(Ref) bool) bool {
	if e.op == "and" {
		return e.l.Eval(f) && e.r.Eval(f)
	}
	return e.l.Eval(f) || e.r.Eval(f)
}

func (e binExpr) String() string {
	return "(" + e.l.String() + " " + e.op + " " + e.r.String() + ")"
}

func (e binExpr) refs(out []Ref) []Ref { return e.r.refs(e.l.refs(out)) }

// Refs lists every feature referenced by e, in order of appearance.
func Refs(e Expr) []Ref {
	return e.refs(nil)
}

// Parse parses an if-feature argument. YANG 1.0 only allows a single
// feature reference.
func Parse(arg, version string) (Expr, error) {
	toks := tokenize(arg)
	if version != "1.1" {
		if len(toks) != 1 {
			return nil, fmt.Errorf("if-feature expression %q requires YANG version 1.1", arg)
		}
		return parseRef(toks[0], arg)
	}
	p := &parser{toks: toks, arg: arg}
	e, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, fmt.Errorf("unexpected %q in if-feature expression %q", p.toks[p.pos], arg)
	}
	return e, nil
}

func tokenize(s string) []string {
	var out []string
	start := -1
	flush := func(i int) {
		if start >= 0 {
			out = append(out, s[start:i])
			start = -1
		}
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case ' ', '\t', '\n', '\r':
			flush(i)
		case '(', ')':
			flush(i)
			out = append(out, string(c))
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(s))
	return out
}

func parseRef(tok, arg string) (Expr, error) {
	prefix, name := stmt.SplitQName(tok)
	if !validIdent(name) || (strings.Contains(tok, ":") && !validIdent(prefix)) {
		return nil, fmt.Errorf("invalid feature reference %q in if-feature expression %q", tok, arg)
	}
	return refExpr{ref: Ref{Prefix: prefix, Name: name}}, nil
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case i > 0 && (c == '-' || c == '.' || (c >= '0' && c <= '9')):
		default:
			return false
		}
	}
	return true
}

type parser struct {
	arg  string
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *parser) or() (Expr, error) {
	l, err := p.and()
	if err != nil {
		return nil, err
	}
	if p.peek() == "or" {
		p.pos++
		r, err := p.or()
		if err != nil {
			return nil, err
		}
		return binExpr{op: "or", l: l, r: r}, nil
	}
	return l, nil
}

func (p *parser) and() (Expr, error) {
	l, err := p.factor()
	if err != nil {
		return nil, err
	}
	if p.peek() == "and" {
		p.pos++
		r, err := p.and()
		if err != nil {
			return nil, err
		}
		return binExpr{op: "and", l: l, r: r}, nil
	}
	return l, nil
}

func (p *parser) factor() (Expr, error) {
	tok := p.peek()
	switch tok {
	case "":
		return nil, fmt.Errorf("unexpected end of if-feature expression %q", p.arg)
	case "not":
		p.pos++
		x, err := p.factor()
		if err != nil {
			return nil, err
		}
		return notExpr{x: x}, nil
	case "(":
		p.pos++
		x, err := p.or()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("missing ')' in if-feature expression %q", p.arg)
		}
		p.pos++
		return x, nil
	case ")", "and", "or":
		return nil, fmt.Errorf("unexpected %q in if-feature expression %q", tok, p.arg)
	}
	p.pos++
	return parseRef(tok, p.arg)
}
