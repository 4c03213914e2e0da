package schema

import "github.com/jacoelho/yang/internal/pattern"

// Interval is one part of a range or length restriction. Bounds are in
// canonical lexical form.
type Interval struct {
	Min string
	Max string
}

// Constraint carries the error substatements of a restriction.
type Constraint struct {
	ErrorMessage string
	ErrorAppTag  string
	Description  string
	Reference    string
}

// Pattern is a pattern restriction.
type Pattern struct {
	compiled *pattern.Pattern
	// Expression is the XSD regular expression as written.
	Expression string
	Constraint
	Inverted bool
}

// NewPattern builds a pattern restriction around a compiled expression.
func NewPattern(compiled *pattern.Pattern, c Constraint) Pattern {
	return Pattern{compiled: compiled, Expression: compiled.Source, Inverted: compiled.Inverted, Constraint: c}
}

// Matches reports whether value satisfies the pattern. Expressions the
// regular expression engine cannot represent match every value.
func (p Pattern) Matches(value string) bool {
	if p.compiled == nil {
		return true
	}
	return p.compiled.Matches(value)
}

// Enum is an enumeration member.
type Enum struct {
	Name       string
	IfFeatures []string
	Documented
	Value int32
}

// Bit is a bits member.
type Bit struct {
	Name       string
	IfFeatures []string
	Documented
	Position uint32
}

// Type is an effective type. Restrictions are the effective ones, merged
// along the typedef chain.
type Type struct {
	// Base is the type this one derives from; nil for builtin types.
	Base *Type
	// QName names the typedef, or the builtin type with an empty module.
	QName QName
	// Builtin is the builtin type at the root of the chain.
	Builtin string

	Ranges      []Interval
	RangeInfo   Constraint
	Lengths     []Interval
	LengthInfo  Constraint
	Patterns    []Pattern
	Enums       []Enum
	Bits        []Bit
	Bases       []QName
	Union       []*Type
	Path        string
	Units       string
	Default     string
	Description string
	Reference   string

	FractionDigits  uint8
	RequireInstance bool
	Status          Status
}

// Typedef is a named derived type.
type Typedef struct {
	Type *Type
	Documented
	QName   QName
	Units   string
	Default string
}

// Grouping is a reusable set of schema nodes. Children are expanded but
// not instantiated in any module namespace beyond the grouping's own.
type Grouping struct {
	Children  []*Node
	Typedefs  []*Typedef
	Groupings []*Grouping
	Documented
	QName QName
}

// Identity is an identity definition.
type Identity struct {
	Bases      []QName
	IfFeatures []string
	Documented
	QName QName
}

// Feature is a feature definition. Supported reflects the compile
// configuration.
type Feature struct {
	IfFeatures []string
	Documented
	QName     QName
	Supported bool
}

// Extension is an extension definition.
type Extension struct {
	Documented
	QName      QName
	Argument   string
	YinElement bool
}
