package xpath

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidXPath reports that an expression is not valid XPath 1.0.
var ErrInvalidXPath = errors.New("invalid xpath")

func xpathErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidXPath}, args...)...)
}

type tokenKind uint8

const (
	tkEOF tokenKind = iota
	tkName          // NCName, prefix:name or prefix:*
	tkStar          // * as name test
	tkAxis          // axis name, "::" consumed
	tkFunc          // function name or node type, "(" not consumed
	tkOperator      // and, or, mod, div, * as multiply
	tkSlash
	tkDoubleSlash
	tkDot
	tkDoubleDot
	tkAt
	tkComma
	tkLParen
	tkRParen
	tkLBracket
	tkRBracket
	tkPipe
	tkPlus
	tkMinus
	tkEq
	tkNeq
	tkLt
	tkLe
	tkGt
	tkGe
	tkLiteral
	tkNumber
	tkVariable
)

type token struct {
	text string
	kind tokenKind
	pos  int
}

// operatorContext reports whether a following name or * must be read as an
// operator (XPath 1.0 section 3.7).
func operatorContext(prev tokenKind, first bool) bool {
	if first {
		return false
	}
	switch prev {
	case tkAt, tkAxis, tkLParen, tkLBracket, tkComma, tkOperator, tkSlash, tkDoubleSlash,
		tkPipe, tkPlus, tkMinus, tkEq, tkNeq, tkLt, tkLe, tkGt, tkGe:
		return false
	}
	return true
}

func tokenize(expr string) ([]token, error) {
	var out []token
	i := 0
	emit := func(kind tokenKind, start, end int) {
		out = append(out, token{kind: kind, text: expr[start:end], pos: start})
	}
	for i < len(expr) {
		c := expr[i]
		if isSpace(c) {
			i++
			continue
		}
		prev := tkEOF
		if len(out) > 0 {
			prev = out[len(out)-1].kind
		}
		opCtx := operatorContext(prev, len(out) == 0)
		start := i
		switch {
		case c == '/':
			if strings.HasPrefix(expr[i:], "//") {
				i += 2
				emit(tkDoubleSlash, start, i)
			} else {
				i++
				emit(tkSlash, start, i)
			}
		case c == '.' && i+1 < len(expr) && isDigit(expr[i+1]):
			i = scanNumber(expr, i)
			emit(tkNumber, start, i)
		case c == '.':
			if strings.HasPrefix(expr[i:], "..") {
				i += 2
				emit(tkDoubleDot, start, i)
			} else {
				i++
				emit(tkDot, start, i)
			}
		case isDigit(c):
			i = scanNumber(expr, i)
			emit(tkNumber, start, i)
		case c == '"' || c == '\'':
			end := strings.IndexByte(expr[i+1:], c)
			if end < 0 {
				return nil, xpathErrorf("unterminated literal at position %d in %q", i, expr)
			}
			i += end + 2
			emit(tkLiteral, start, i)
		case c == '$':
			i++
			n := scanQName(expr, i)
			if n == i {
				return nil, xpathErrorf("missing variable name at position %d in %q", start, expr)
			}
			i = n
			emit(tkVariable, start, i)
		case c == '*':
			i++
			if opCtx {
				emit(tkOperator, start, i)
			} else {
				emit(tkStar, start, i)
			}
		case c == '!':
			if !strings.HasPrefix(expr[i:], "!=") {
				return nil, xpathErrorf("unexpected '!' at position %d in %q", i, expr)
			}
			i += 2
			emit(tkNeq, start, i)
		case c == '<' || c == '>':
			kind := map[byte]tokenKind{'<': tkLt, '>': tkGt}[c]
			i++
			if i < len(expr) && expr[i] == '=' {
				i++
				kind++
			}
			emit(kind, start, i)
		case strings.IndexByte("@,()[]|+-=", c) >= 0:
			i++
			emit(map[byte]tokenKind{
				'@': tkAt, ',': tkComma, '(': tkLParen, ')': tkRParen, '[': tkLBracket,
				']': tkRBracket, '|': tkPipe, '+': tkPlus, '-': tkMinus, '=': tkEq,
			}[c], start, i)
		case isNameStart(c):
			i = scanQName(expr, i)
			name := expr[start:i]
			if opCtx {
				switch name {
				case "and", "or", "mod", "div":
					emit(tkOperator, start, i)
					continue
				}
				return nil, xpathErrorf("unexpected name %q at position %d in %q", name, start, expr)
			}
			j := skipSpace(expr, i)
			switch {
			case strings.HasPrefix(expr[j:], "::"):
				emit(tkAxis, start, i)
				i = j + 2
			case j < len(expr) && expr[j] == '(' && !strings.HasSuffix(name, ":*"):
				emit(tkFunc, start, i)
			default:
				emit(tkName, start, i)
			}
		default:
			return nil, xpathErrorf("unexpected character %q at position %d in %q", c, i, expr)
		}
	}
	out = append(out, token{kind: tkEOF, pos: len(expr)})
	return out, nil
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c) || c == '-' || c == '.'
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func scanNumber(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' && !strings.HasPrefix(s[i:], "..") {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return i
}

// scanQName reads NCName, NCName:NCName or NCName:* starting at i.
func scanQName(s string, i int) int {
	if i >= len(s) || !isNameStart(s[i]) {
		return i
	}
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	if i+1 < len(s) && s[i] == ':' && s[i+1] != ':' {
		switch {
		case s[i+1] == '*':
			return i + 2
		case isNameStart(s[i+1]):
			i++
			for i < len(s) && isNameChar(s[i]) {
				i++
			}
		}
	}
	return i
}
