package pattern

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// re2MaxRepeat is the maximum repeat count supported by RE2
	re2MaxRepeat = 1000

	digitContent    = `\p{Nd}`
	notDigitContent = `\P{Nd}`
	// \w is every character outside the punctuation, separator and other categories.
	wordContent    = `\p{L}\p{M}\p{N}\p{S}`
	notWordContent = `\p{P}\p{Z}\p{C}`
	spaceContent   = `\x20\t\n\r`
	notSpaceContent = `\x00-\x08\x0B\x0C\x0E-\x1F\x21-\x{10FFFF}`
	// XML 1.0 NameStartChar and NameChar ranges (\i and \c).
	nameStartContent = `:A-Z_a-z` +
		`\x{C0}-\x{D6}\x{D8}-\x{F6}\x{F8}-\x{2FF}\x{370}-\x{37D}\x{37F}-\x{1FFF}` +
		`\x{200C}-\x{200D}\x{2070}-\x{218F}\x{2C00}-\x{2FEF}\x{3001}-\x{D7FF}` +
		`\x{F900}-\x{FDCF}\x{FDF0}-\x{FFFD}\x{10000}-\x{EFFFF}`
	nameContent = nameStartContent + `\-.0-9\x{B7}\x{0300}-\x{036F}\x{203F}-\x{2040}`
)

// blocks maps the Unicode block escapes \p{IsX} common in YANG modules to
// code point ranges; RE2 has no block support.
var blocks = map[string]string{
	"IsBasicLatin":         `\x00-\x7F`,
	"IsLatin-1Supplement":  `\x{80}-\x{FF}`,
	"IsLatinExtended-A":    `\x{100}-\x{17F}`,
	"IsLatinExtended-B":    `\x{180}-\x{24F}`,
	"IsGreek":              `\x{370}-\x{3FF}`,
	"IsGreekandCoptic":     `\x{370}-\x{3FF}`,
	"IsCyrillic":           `\x{400}-\x{4FF}`,
	"IsGeneralPunctuation": `\x{2000}-\x{206F}`,
}

// ErrorKind classifies translation failures.
type ErrorKind uint8

const (
	// Syntax marks patterns that are not valid XSD regular expressions.
	Syntax ErrorKind = iota
	// Unsupported marks valid patterns RE2 cannot express.
	Unsupported
)

// Error is a pattern translation failure.
type Error struct {
	Pattern string
	Msg     string
	Kind    ErrorKind
}

func (e *Error) Error() string {
	label := "pattern-syntax-error"
	if e.Kind == Unsupported {
		label = "pattern-unsupported"
	}
	return fmt.Sprintf("%s: %s in %q", label, e.Msg, e.Pattern)
}

type translator struct {
	pattern    string
	out        strings.Builder
	i          int
	groupDepth int
	// quantified is set right after a quantifier, where another one is illegal.
	quantified bool
}

// Translate converts an XSD regular expression, as used by the YANG pattern
// statement, into an anchored RE2 expression.
func Translate(xsd string) (string, error) {
	if xsd == "" {
		return `^(?:)$`, nil
	}
	t := &translator{pattern: xsd}
	t.out.Grow(len(xsd) * 2)
	if err := t.run(); err != nil {
		return "", err
	}
	return `^(?:` + t.out.String() + `)$`, nil
}

func (t *translator) fail(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Pattern: t.pattern, Msg: fmt.Sprintf(format, args...)}
}

func (t *translator) run() error {
	for t.i < len(t.pattern) {
		c := t.pattern[t.i]
		switch c {
		case '\\':
			text, err := t.escape(false)
			if err != nil {
				return err
			}
			t.out.WriteString(text)
			t.quantified = false
		case '[':
			class, err := t.class()
			if err != nil {
				return err
			}
			t.out.WriteString(class)
			t.quantified = false
		case '.':
			t.out.WriteString(`[^\n\r]`)
			t.i++
			t.quantified = false
		case '^', '$', '}':
			t.out.WriteByte('\\')
			t.out.WriteByte(c)
			t.i++
			t.quantified = false
		case ']':
			return t.fail(Syntax, "']' is not valid outside a character class")
		case '*', '+', '?':
			if t.quantified {
				return t.fail(Unsupported, "non-greedy or repeated quantifier at position %d", t.i)
			}
			t.out.WriteByte(c)
			t.i++
			t.quantified = true
		case '{':
			if t.quantified {
				return t.fail(Unsupported, "repeated quantifier at position %d", t.i)
			}
			rep, err := t.repeat()
			if err != nil {
				return err
			}
			t.out.WriteString(rep)
			t.quantified = true
		case '(':
			if t.i+1 < len(t.pattern) && t.pattern[t.i+1] == '?' {
				return t.fail(Syntax, "group prefix '(?' is not valid")
			}
			t.groupDepth++
			t.out.WriteByte(c)
			t.i++
			t.quantified = false
		case ')':
			if t.groupDepth == 0 {
				return t.fail(Syntax, "unbalanced ')'")
			}
			t.groupDepth--
			t.out.WriteByte(c)
			t.i++
			t.quantified = false
		default:
			_, size := utf8.DecodeRuneInString(t.pattern[t.i:])
			t.out.WriteString(t.pattern[t.i : t.i+size])
			t.i += size
			t.quantified = false
		}
	}
	if t.groupDepth > 0 {
		return t.fail(Syntax, "unclosed '('")
	}
	return nil
}

// escape translates the escape at t.i. Inside a class it returns class
// content, outside a complete atom.
func (t *translator) escape(inClass bool) (string, error) {
	if t.i+1 >= len(t.pattern) {
		return "", t.fail(Syntax, "escape sequence at end of pattern")
	}
	next := t.pattern[t.i+1]
	atom := func(content string, negated bool) string {
		if inClass {
			return content
		}
		if negated {
			return "[^" + content + "]"
		}
		return "[" + content + "]"
	}
	t.i += 2
	switch next {
	case 'n', 'r', 't':
		return `\` + string(next), nil
	case '\\', '|', '.', '-', '^', '?', '*', '+', '{', '}', '(', ')', '[', ']':
		return `\` + string(next), nil
	case 'd':
		return atom(digitContent, false), nil
	case 'D':
		return atom(notDigitContent, false), nil
	case 's':
		return atom(spaceContent, false), nil
	case 'S':
		return atom(notSpaceContent, false), nil
	case 'w':
		return atom(wordContent, false), nil
	case 'W':
		return atom(notWordContent, false), nil
	case 'i':
		return atom(nameStartContent, false), nil
	case 'c':
		return atom(nameContent, false), nil
	case 'I', 'C':
		if inClass {
			return "", t.fail(Unsupported, "\\%c inside a character class", next)
		}
		if next == 'I' {
			return atom(nameStartContent, true), nil
		}
		return atom(nameContent, true), nil
	case 'p', 'P':
		return t.property(next == 'P', inClass)
	}
	if next >= '0' && next <= '9' {
		return "", t.fail(Syntax, "\\%c backreference is not valid", next)
	}
	return "", t.fail(Syntax, "\\%c is not a valid escape sequence", next)
}

func (t *translator) property(negated, inClass bool) (string, error) {
	if t.i >= len(t.pattern) || t.pattern[t.i] != '{' {
		return "", t.fail(Syntax, "invalid Unicode property escape")
	}
	end := strings.IndexByte(t.pattern[t.i:], '}')
	if end < 0 {
		return "", t.fail(Syntax, "incomplete Unicode property escape")
	}
	name := t.pattern[t.i+1 : t.i+end]
	t.i += end + 1

	if strings.HasPrefix(name, "Is") {
		r, ok := blocks[name]
		switch {
		case !ok:
			return "", t.fail(Unsupported, "Unicode block %q", name)
		case inClass && negated:
			return "", t.fail(Unsupported, "negated Unicode block %q inside a character class", name)
		case inClass:
			return r, nil
		case negated:
			return "[^" + r + "]", nil
		default:
			return "[" + r + "]", nil
		}
	}
	if _, err := regexp.Compile(`\p{` + name + `}`); err != nil {
		return "", t.fail(Unsupported, "Unicode property %q", name)
	}
	if negated {
		return `\P{` + name + `}`, nil
	}
	return `\p{` + name + `}`, nil
}

// class translates a bracket expression starting at t.i.
func (t *translator) class() (string, error) {
	start := t.i
	t.i++
	var b strings.Builder
	b.WriteByte('[')
	if t.i < len(t.pattern) && t.pattern[t.i] == '^' {
		b.WriteByte('^')
		t.i++
	}
	empty := true
	var last rune = -1
	for {
		if t.i >= len(t.pattern) {
			return "", t.fail(Syntax, "unclosed character class starting at position %d", start)
		}
		c := t.pattern[t.i]
		switch {
		case c == ']' && !empty:
			t.i++
			b.WriteByte(']')
			return b.String(), nil
		case c == '-' && t.i+1 < len(t.pattern) && t.pattern[t.i+1] == '[':
			return "", t.fail(Unsupported, "character class subtraction")
		case c == '-' && last >= 0 && t.i+1 < len(t.pattern) && t.pattern[t.i+1] != ']':
			t.i++
			hi, text, err := t.classChar()
			if err != nil {
				return "", err
			}
			if hi < 0 {
				return "", t.fail(Syntax, "invalid range end in character class starting at position %d", start)
			}
			if last > hi {
				return "", t.fail(Syntax, "invalid range '%c-%c' (start > end)", last, hi)
			}
			b.WriteByte('-')
			b.WriteString(text)
			last = -1
		case c == '\\':
			save := t.i
			r, text, err := t.classChar()
			if err != nil {
				t.i = save
				text, err = t.escape(true)
				if err != nil {
					return "", err
				}
				r = -1
			}
			b.WriteString(text)
			last = r
		default:
			r, text, err := t.classChar()
			if err != nil {
				return "", err
			}
			b.WriteString(text)
			last = r
		}
		empty = false
	}
}

// classChar reads one literal character of a class, returning -1 when the
// item at t.i is a multi-character escape.
func (t *translator) classChar() (rune, string, error) {
	c := t.pattern[t.i]
	if c == '\\' {
		if t.i+1 >= len(t.pattern) {
			return -1, "", t.fail(Syntax, "escape sequence at end of pattern")
		}
		next := t.pattern[t.i+1]
		var r rune
		switch next {
		case 'n':
			r = '\n'
		case 'r':
			r = '\r'
		case 't':
			r = '\t'
		case '\\', '|', '.', '-', '^', '?', '*', '+', '{', '}', '(', ')', '[', ']':
			r = rune(next)
		default:
			return -1, "", t.fail(Syntax, "not a single character escape")
		}
		t.i += 2
		return r, `\` + string(next), nil
	}
	if c == '[' {
		return -1, "", t.fail(Syntax, "unescaped '[' inside a character class")
	}
	r, size := utf8.DecodeRuneInString(t.pattern[t.i:])
	t.i += size
	switch r {
	case '^', '-', ']':
		return r, `\` + string(r), nil
	}
	return r, string(r), nil
}

// repeat validates a {m}, {m,} or {m,n} quantifier starting at t.i.
func (t *translator) repeat() (string, error) {
	end := strings.IndexByte(t.pattern[t.i:], '}')
	if end < 0 {
		return "", t.fail(Syntax, "unclosed repeat quantifier")
	}
	content := t.pattern[t.i+1 : t.i+end]
	text := t.pattern[t.i : t.i+end+1]
	t.i += end + 1

	lo, hi, hasComma := content, "", false
	if i := strings.IndexByte(content, ','); i >= 0 {
		lo, hi, hasComma = content[:i], content[i+1:], true
	}
	minCount, err := strconv.Atoi(lo)
	if err != nil || minCount < 0 {
		return "", t.fail(Syntax, "invalid repeat quantifier %q", text)
	}
	maxCount := minCount
	if hasComma {
		maxCount = -1
		if hi != "" {
			if maxCount, err = strconv.Atoi(hi); err != nil || maxCount < minCount {
				return "", t.fail(Syntax, "invalid repeat quantifier %q", text)
			}
		}
	}
	if minCount > re2MaxRepeat || maxCount > re2MaxRepeat {
		return "", t.fail(Unsupported, "repeat %s exceeds RE2 limit of %d", text, re2MaxRepeat)
	}
	return text, nil
}
