package parser

import (
	"strings"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/lexer"
	"github.com/jacoelho/yang/internal/stmt"
)

// DefaultMaxDepth bounds statement nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 256

// Options configures parsing.
type Options struct {
	MaxDepth int
}

// Result is one parsed source.
type Result struct {
	Root    *stmt.Statement
	Escapes []lexer.Escape
}

type parser struct {
	lex      *lexer.Lexer
	name     string
	tok      lexer.Token
	maxDepth int
}

// Parse parses a YANG source into its raw statement tree. The source must
// hold exactly one module or submodule statement.
func Parse(name, src string, opts Options) (*Result, error) {
	p := &parser{lex: lexer.New(name, src), name: name, maxDepth: opts.MaxDepth}
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.tok.Kind == lexer.EOF {
		return nil, p.errorf(p.tok, "Source %s contains no statements", name)
	}
	root, err := p.statement(1)
	if err != nil {
		return nil, err
	}
	if root.Keyword.IsExtension() || (root.Keyword.Name != "module" && root.Keyword.Name != "submodule") {
		return nil, yangerrors.New(yangerrors.ErrSource, root.Ref, "Root of source %s must be module or submodule, found %s", name, root.Keyword)
	}
	if p.tok.Kind != lexer.EOF {
		return nil, p.errorf(p.tok, "Unexpected %s after root statement", p.tok.Kind)
	}
	return &Result{Root: root, Escapes: p.lex.Escapes()}, nil
}

func (p *parser) next() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) ref(tok lexer.Token) yangerrors.Reference {
	return yangerrors.Reference{Source: p.name, Line: tok.Line, Column: tok.Column}
}

func (p *parser) errorf(tok lexer.Token, format string, args ...any) error {
	return yangerrors.New(yangerrors.ErrSource, p.ref(tok), format, args...)
}

func (p *parser) statement(depth int) (*stmt.Statement, error) {
	if depth > p.maxDepth {
		return nil, p.errorf(p.tok, "Statement nesting exceeds maximum depth %d", p.maxDepth)
	}
	kwTok := p.tok
	if kwTok.Kind != lexer.Ident {
		return nil, p.errorf(kwTok, "Expected statement keyword, found %s", kwTok.Kind)
	}
	kw, ok := parseKeyword(kwTok.Text)
	if !ok {
		return nil, p.errorf(kwTok, "Invalid statement keyword '%s'", kwTok.Text)
	}
	s := &stmt.Statement{Keyword: kw, Ref: p.ref(kwTok)}
	if err := p.next(); err != nil {
		return nil, err
	}

	switch p.tok.Kind {
	case lexer.Ident, lexer.Quoted:
		arg, err := p.argument()
		if err != nil {
			return nil, err
		}
		s.Arg, s.HasArg = arg, true
	}

	switch p.tok.Kind {
	case lexer.Semicolon:
		return s, p.next()
	case lexer.LBrace:
		if err := p.next(); err != nil {
			return nil, err
		}
		for p.tok.Kind != lexer.RBrace {
			if p.tok.Kind == lexer.EOF {
				return nil, p.errorf(p.tok, "Missing '}' closing statement %s", s.Keyword)
			}
			child, err := p.statement(depth + 1)
			if err != nil {
				return nil, err
			}
			s.Children = append(s.Children, child)
		}
		return s, p.next()
	default:
		return nil, p.errorf(p.tok, "Expected ';' or '{' after statement %s, found %s", s.Keyword, p.tok.Kind)
	}
}

func (p *parser) argument() (string, error) {
	if p.tok.Kind == lexer.Ident {
		arg := p.tok.Text
		return arg, p.next()
	}
	var b strings.Builder
	b.WriteString(p.tok.Text)
	if err := p.next(); err != nil {
		return "", err
	}
	for p.tok.Kind == lexer.Plus {
		if err := p.next(); err != nil {
			return "", err
		}
		if p.tok.Kind != lexer.Quoted {
			return "", p.errorf(p.tok, "Expected quoted string after '+', found %s", p.tok.Kind)
		}
		b.WriteString(p.tok.Text)
		if err := p.next(); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func parseKeyword(text string) (stmt.Keyword, bool) {
	prefix, name := stmt.SplitQName(text)
	if strings.Contains(name, ":") {
		return stmt.Keyword{}, false
	}
	if prefix == "" && strings.Contains(text, ":") {
		return stmt.Keyword{}, false
	}
	if !IsIdentifier(name) || (prefix != "" && !IsIdentifier(prefix)) {
		return stmt.Keyword{}, false
	}
	return stmt.Keyword{Prefix: prefix, Name: name}, true
}

// IsIdentifier reports whether s matches the YANG identifier production.
func IsIdentifier(s string) bool {
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
