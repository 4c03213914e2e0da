package stmt

import (
	"strings"

	yangerrors "github.com/jacoelho/yang/errors"
)

// Keyword is a statement keyword. Core statements have an empty Prefix;
// extension statements carry the prefix bound to the defining module.
type Keyword struct {
	Prefix string
	Name   string
}

// Core returns the keyword of a core YANG statement.
func Core(name string) Keyword {
	return Keyword{Name: name}
}

// IsExtension reports whether the keyword is an extension instance.
func (k Keyword) IsExtension() bool {
	return k.Prefix != ""
}

// String renders the keyword as it appears in source text.
func (k Keyword) String() string {
	if k.Prefix == "" {
		return k.Name
	}
	return k.Prefix + ":" + k.Name
}

// Statement is one raw statement as parsed from source text.
type Statement struct {
	Keyword  Keyword
	Arg      string
	HasArg   bool
	Ref      yangerrors.Reference
	Children []*Statement
}

// First returns the first child with the given core keyword.
func (s *Statement) First(name string) *Statement {
	if s == nil {
		return nil
	}
	for _, c := range s.Children {
		if !c.Keyword.IsExtension() && c.Keyword.Name == name {
			return c
		}
	}
	return nil
}

// All returns every child with the given core keyword, in order.
func (s *Statement) All(name string) []*Statement {
	if s == nil {
		return nil
	}
	var out []*Statement
	for _, c := range s.Children {
		if !c.Keyword.IsExtension() && c.Keyword.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// FirstArg returns the argument of the first child with the given keyword.
func (s *Statement) FirstArg(name string) (string, bool) {
	c := s.First(name)
	if c == nil {
		return "", false
	}
	return c.Arg, true
}

// Clone returns a deep copy of the statement.
func (s *Statement) Clone() *Statement {
	if s == nil {
		return nil
	}
	out := *s
	if len(s.Children) > 0 {
		out.Children = make([]*Statement, len(s.Children))
		for i, c := range s.Children {
			out.Children[i] = c.Clone()
		}
	}
	return &out
}

// SplitQName splits "prefix:name" into its parts. An unprefixed name returns
// an empty prefix.
func SplitQName(s string) (prefix, name string) {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}

// DiagName renders a core keyword the way diagnostics name statement
// definitions: "revision-date" becomes "REVISION_DATE".
func DiagName(keyword string) string {
	return strings.ToUpper(strings.ReplaceAll(keyword, "-", "_"))
}
