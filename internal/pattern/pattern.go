// Package pattern compiles the XSD regular expressions carried by YANG
// pattern statements.
package pattern

import (
	"errors"
	"regexp"
)

// Pattern is a compiled pattern restriction.
type Pattern struct {
	re *regexp.Regexp
	// Source is the XSD expression as written in the module.
	Source string
	// Expr is the anchored RE2 translation; empty when unsupported.
	Expr     string
	Inverted bool
}

// Compile translates and compiles source. Patterns RE2 cannot express are
// returned together with an *Error of kind Unsupported; such a pattern
// matches every value.
func Compile(source string, invert bool) (*Pattern, error) {
	p := &Pattern{Source: source, Inverted: invert}
	expr, err := Translate(source)
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) && perr.Kind == Unsupported {
			return p, err
		}
		return nil, err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &Error{Kind: Syntax, Pattern: source, Msg: err.Error()}
	}
	p.Expr = expr
	p.re = re
	return p, nil
}

// Supported reports whether the pattern was compiled to RE2.
func (p *Pattern) Supported() bool {
	return p.re != nil
}

// Matches reports whether s satisfies the restriction, honoring
// invert-match.
func (p *Pattern) Matches(s string) bool {
	if p.re == nil {
		return true
	}
	return p.re.MatchString(s) != p.Inverted
}

// IsUnsupported reports whether err marks a pattern RE2 cannot express.
func IsUnsupported(err error) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Kind == Unsupported
}
