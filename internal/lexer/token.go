package lexer

import "fmt"

// Kind identifies a token class.
type Kind uint8

const (
	EOF Kind = iota
	// Ident is an unquoted string: keywords, identifiers and bare arguments.
	Ident
	// Quoted is a single- or double-quoted string with quoting removed.
	Quoted
	Plus
	Semicolon
	LBrace
	RBrace
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "string"
	case Quoted:
		return "quoted string"
	case Plus:
		return "'+'"
	case Semicolon:
		return "';'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	default:
		return fmt.Sprintf("token(%d)", uint8(k))
	}
}

// Token is one lexical token with its 1-based position.
type Token struct {
	Text   string
	Kind   Kind
	Line   int
	Column int
}
