package lexer

import (
	"strings"

	yangerrors "github.com/jacoelho/yang/errors"
)

const bom = "\uFEFF"

// Escape records a backslash sequence outside the RFC 7950 set. YANG 1.0
// keeps such sequences verbatim, YANG 1.1 rejects them; the caller decides
// once the language version is known.
type Escape struct {
	Sequence string
	Line     int
	Column   int
}

// Lexer splits YANG source text into tokens.
type Lexer struct {
	src     string
	name    string
	escapes []Escape
	pos     int
	line    int
	col     int
	// visual column with tabs expanded to 8, used for multi-line string trimming
	vcol int
	prev Kind
}

// New returns a lexer over src. name is used in error references.
func New(name, src string) *Lexer {
	src = strings.TrimPrefix(src, bom)
	return &Lexer{src: src, name: name, line: 1, col: 1, vcol: 1, prev: EOF}
}

// Escapes returns the non-standard escape sequences seen so far.
func (l *Lexer) Escapes() []Escape {
	return l.escapes
}

// All tokenizes the whole input, excluding the trailing EOF token.
func (l *Lexer) All() ([]Token, error) {
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == EOF {
			return out, nil
		}
		out = append(out, tok)
	}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Line: l.line, Column: l.col}, nil
	}
	line, col := l.line, l.col
	tok := Token{Line: line, Column: col}
	c := l.src[l.pos]
	switch {
	case c == ';':
		l.advance()
		tok.Kind = Semicolon
	case c == '{':
		l.advance()
		tok.Kind = LBrace
	case c == '}':
		l.advance()
		tok.Kind = RBrace
	case c == '+' && l.prev == Quoted && l.plusIsOperator():
		l.advance()
		tok.Kind = Plus
	case c == '"':
		text, err := l.doubleQuoted()
		if err != nil {
			return Token{}, err
		}
		tok.Kind, tok.Text = Quoted, text
	case c == '\'':
		text, err := l.singleQuoted()
		if err != nil {
			return Token{}, err
		}
		tok.Kind, tok.Text = Quoted, text
	default:
		tok.Kind, tok.Text = Ident, l.unquoted()
	}
	l.prev = tok.Kind
	return tok, nil
}

func (l *Lexer) errorf(line, col int, format string, args ...any) error {
	return yangerrors.New(yangerrors.ErrLexical, yangerrors.Reference{Source: l.name, Line: line, Column: col}, format, args...)
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	switch {
	case c == '\n':
		l.line++
		l.col = 1
		l.vcol = 1
	case c == '\t':
		l.col++
		l.vcol += 8
	case c&0xC0 == 0x80:
		// UTF-8 continuation byte, same column
	default:
		l.col++
		l.vcol++
	}
	return c
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) skipSpaceAndComments() error {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.advance()
		case c == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
		case c == '/' && l.peekAt(1) == '*':
			line, col := l.line, l.col
			l.advance()
			l.advance()
			closed := false
			for l.pos < len(l.src) {
				if l.src[l.pos] == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				return l.errorf(line, col, "Unterminated block comment")
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) plusIsOperator() bool {
	next := l.peekAt(1)
	return next == 0 || next == ' ' || next == '\t' || next == '\n' || next == '\r' || next == '"' || next == '\''
}

func isUnquotedEnd(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', ';', '{', '}', '"', '\'':
		return true
	}
	return false
}

func (l *Lexer) unquoted() string {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isUnquotedEnd(c) {
			break
		}
		if c == '/' && (l.peekAt(1) == '/' || l.peekAt(1) == '*') {
			break
		}
		l.advance()
	}
	return l.src[start:l.pos]
}

func (l *Lexer) singleQuoted() (string, error) {
	line, col := l.line, l.col
	l.advance()
	start := l.pos
	for l.pos < len(l.src) {
		if l.src[l.pos] == '\'' {
			text := l.src[start:l.pos]
			l.advance()
			return text, nil
		}
		l.advance()
	}
	return "", l.errorf(line, col, "Unterminated single-quoted string")
}

func (l *Lexer) doubleQuoted() (string, error) {
	line, col, quoteCol := l.line, l.col, l.vcol
	l.advance()
	start := l.pos
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.advance()
			if l.pos < len(l.src) {
				l.advance()
			}
		case '"':
			raw := l.src[start:l.pos]
			l.advance()
			return l.unescape(trimLines(raw, quoteCol), line, col), nil
		default:
			l.advance()
		}
	}
	return "", l.errorf(line, col, "Unterminated double-quoted string")
}

// trimLines applies the RFC 7950 section 6.1.3 layout rules: whitespace
// before a line break is dropped, and continuation lines lose leading
// whitespace up to and including the column of the opening quote.
func trimLines(raw string, quoteCol int) string {
	if !strings.Contains(raw, "\n") {
		return raw
	}
	lines := strings.Split(raw, "\n")
	var b strings.Builder
	b.Grow(len(raw))
	for i, line := range lines {
		if i < len(lines)-1 {
			line = strings.TrimRight(line, " \t\r")
		}
		if i > 0 {
			b.WriteByte('\n')
			line = stripIndent(line, quoteCol)
		}
		b.WriteString(line)
	}
	return b.String()
}

func stripIndent(line string, quoteCol int) string {
	width := 0
	i := 0
	for i < len(line) && width < quoteCol {
		switch line[i] {
		case ' ':
			width++
		case '\t':
			width += 8
			if width > quoteCol {
				// a tab straddling the limit leaves the remainder as spaces
				return strings.Repeat(" ", width-quoteCol) + line[i+1:]
			}
		default:
			return line[i:]
		}
		i++
	}
	return line[i:]
}

func (l *Lexer) unescape(s string, line, col int) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			l.escapes = append(l.escapes, Escape{Sequence: s[i-1 : i+1], Line: line, Column: col})
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
