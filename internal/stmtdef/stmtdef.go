package stmtdef

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/stmt"
)

// Lookup returns the definition of a core statement valid in version.
func Lookup(name, version string) (*Definition, bool) {
	d, ok := registry[name]
	if !ok || (d.Since11 && version != "1.1") {
		return nil, false
	}
	return d, true
}

// Names returns every core statement keyword, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Sub returns the cardinality of substatement name under d in version.
func (d *Definition) Sub(name, version string) (Sub, bool) {
	for _, s := range d.Subs {
		if s.Name != name {
			continue
		}
		if s.Since11 && version != "1.1" {
			return Sub{}, false
		}
		if s.Max10 != 0 && version != "1.1" {
			s.Max = s.Max10
		}
		return s, true
	}
	return Sub{}, false
}

// Validate checks the keyword, argument and substatement cardinality of s
// and its core descendants. Extension instances are skipped with their
// subtrees; their content belongs to the extension.
func Validate(s *stmt.Statement, version string) error {
	if s.Keyword.IsExtension() {
		return nil
	}
	d, ok := Lookup(s.Keyword.Name, version)
	if !ok {
		return yangerrors.New(yangerrors.ErrSource, s.Ref, "%s is not a YANG statement or use of extension.", s.Keyword.Name)
	}
	if err := ValidateArg(d, s); err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, c := range s.Children {
		if c.Keyword.IsExtension() {
			continue
		}
		if _, known := Lookup(c.Keyword.Name, version); !known {
			return yangerrors.New(yangerrors.ErrSource, c.Ref, "%s is not a YANG statement or use of extension.", c.Keyword.Name)
		}
		if _, ok := d.Sub(c.Keyword.Name, version); !ok {
			return invalidSub(c, s)
		}
		counts[c.Keyword.Name]++
	}
	for _, sub := range d.Subs {
		card, ok := d.Sub(sub.Name, version)
		if !ok {
			continue
		}
		n := counts[sub.Name]
		if card.Max != Unbounded && n > card.Max {
			return yangerrors.New(yangerrors.ErrInvalidSubstatement, s.Ref,
				"Maximal count of %s for %s is %d, detected %d.", stmt.DiagName(sub.Name), stmt.DiagName(d.Name), card.Max, n)
		}
		if n < card.Min {
			return yangerrors.New(yangerrors.ErrInvalidSubstatement, s.Ref,
				"Missing %s statement in %s.", stmt.DiagName(sub.Name), stmt.DiagName(d.Name))
		}
	}
	for _, c := range s.Children {
		if err := Validate(c, version); err != nil {
			return err
		}
	}
	return nil
}

func invalidSub(child, parent *stmt.Statement) error {
	return yangerrors.New(yangerrors.ErrInvalidSubstatement, child.Ref,
		"%s is not valid for %s.", stmt.DiagName(child.Keyword.Name), stmt.DiagName(parent.Keyword.Name))
}

// InvalidSubstatement builds the error reported for a misplaced substatement.
func InvalidSubstatement(child, parent *stmt.Statement) error {
	return invalidSub(child, parent)
}

// ValidateArg checks the argument of s against its definition.
func ValidateArg(d *Definition, s *stmt.Statement) error {
	if d.Arg == ArgNone {
		if s.HasArg {
			return yangerrors.New(yangerrors.ErrSource, s.Ref, "Statement %s does not take argument", d.Name)
		}
		return nil
	}
	if !s.HasArg {
		return yangerrors.New(yangerrors.ErrSource, s.Ref, "Statement %s requires an argument", d.Name)
	}
	if msg := argProblem(d.Arg, s.Arg); msg != "" {
		return yangerrors.New(yangerrors.ErrSource, s.Ref, "Invalid argument '%s' of %s: %s", s.Arg, d.Name, msg)
	}
	return nil
}

func argProblem(kind ArgKind, arg string) string {
	switch kind {
	case ArgIdentifier:
		if !isIdentifier(arg) {
			return "not a valid identifier"
		}
	case ArgIdentifierRef:
		prefix, name := stmt.SplitQName(arg)
		if !isIdentifier(name) || (strings.Contains(arg, ":") && !isIdentifier(prefix)) {
			return "not a valid identifier reference"
		}
	case ArgBool:
		if arg != "true" && arg != "false" {
			return "expected true or false"
		}
	case ArgDate:
		if _, err := time.Parse("2006-01-02", arg); err != nil {
			return "not in required format YYYY-MM-DD"
		}
	case ArgUint:
		if _, err := strconv.ParseUint(arg, 10, 32); err != nil || strings.HasPrefix(arg, "+") {
			return "expected a non-negative integer"
		}
	case ArgInt:
		if _, err := strconv.ParseInt(arg, 10, 32); err != nil {
			return "expected a 32-bit integer"
		}
	case ArgMaxElements:
		if arg == "unbounded" {
			return ""
		}
		if v, err := strconv.ParseUint(arg, 10, 32); err != nil || v == 0 {
			return "expected unbounded or a positive integer"
		}
	case ArgFractionDigits:
		if v, err := strconv.Atoi(arg); err != nil || v < 1 || v > 18 {
			return "expected an integer between 1 and 18"
		}
	case ArgStatus:
		if arg != "current" && arg != "deprecated" && arg != "obsolete" {
			return "expected current, deprecated or obsolete"
		}
	case ArgOrderedBy:
		if arg != "system" && arg != "user" {
			return "expected system or user"
		}
	case ArgVersion:
		if arg != "1" && arg != "1.1" {
			return "unsupported YANG version"
		}
	case ArgModifier:
		if arg != "invert-match" {
			return "expected invert-match"
		}
	case ArgDeviate:
		if _, ok := ParseDeviateKind(arg); !ok {
			return "expected not-supported, add, replace or delete"
		}
	case ArgSchemaNodeID:
		if arg == "" {
			return "empty schema node identifier"
		}
	}
	return ""
}

func isIdentifier(s string) bool {
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

// ParseMaxElements returns the max-elements value, 0 for unbounded.
func ParseMaxElements(arg string) uint32 {
	if arg == "unbounded" {
		return 0
	}
	v, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || v > math.MaxUint32 {
		return 0
	}
	return uint32(v)
}

// DeviateKind is the argument of a deviate statement.
type DeviateKind uint8

const (
	DeviateNotSupported DeviateKind = iota
	DeviateAdd
	DeviateReplace
	DeviateDelete
)

func (k DeviateKind) String() string {
	switch k {
	case DeviateAdd:
		return "add"
	case DeviateReplace:
		return "replace"
	case DeviateDelete:
		return "delete"
	default:
		return "not-supported"
	}
}

// ParseDeviateKind parses a deviate argument.
func ParseDeviateKind(arg string) (DeviateKind, bool) {
	switch arg {
	case "not-supported":
		return DeviateNotSupported, true
	case "add":
		return DeviateAdd, true
	case "replace":
		return DeviateReplace, true
	case "delete":
		return DeviateDelete, true
	}
	return 0, false
}

var deviateSubs = map[DeviateKind][]string{
	DeviateNotSupported: nil,
	DeviateAdd:          {"config", "default", "mandatory", "max-elements", "min-elements", "must", "unique", "units"},
	DeviateReplace:      {"config", "default", "mandatory", "max-elements", "min-elements", "type", "units"},
	DeviateDelete:       {"default", "must", "unique", "units"},
}

// DeviateAllows reports whether a deviate of kind may carry substatement name.
func DeviateAllows(kind DeviateKind, name string) bool {
	return slices.Contains(deviateSubs[kind], name)
}

var deviationTargets = map[string][]string{
	"config":       {"container", "leaf", "leaf-list", "list", "choice", "anydata", "anyxml"},
	"default":      {"leaf", "leaf-list", "choice"},
	"mandatory":    {"leaf", "choice", "anydata", "anyxml"},
	"max-elements": {"leaf-list", "list"},
	"min-elements": {"leaf-list", "list"},
	"must":         {"container", "leaf", "leaf-list", "list", "anydata", "anyxml"},
	"type":         {"leaf", "leaf-list"},
	"unique":       {"list"},
	"units":        {"leaf", "leaf-list"},
}

// DeviationTargetAllowed reports whether substatement name may be deviated
// on a node of the given keyword.
func DeviationTargetAllowed(name, target string) bool {
	allowed, ok := deviationTargets[name]
	return !ok || slices.Contains(allowed, target)
}

var refineTargets = map[string][]string{
	"config":       {"container", "leaf", "leaf-list", "list", "choice", "anydata", "anyxml"},
	"default":      {"leaf", "leaf-list", "choice"},
	"mandatory":    {"leaf", "choice", "anydata", "anyxml"},
	"presence":     {"container"},
	"must":         {"container", "leaf", "leaf-list", "list", "anydata", "anyxml"},
	"min-elements": {"leaf-list", "list"},
	"max-elements": {"leaf-list", "list"},
}

// RefineTargetAllowed reports whether substatement name may be refined on a
// node of the given keyword.
func RefineTargetAllowed(name, target string) bool {
	allowed, ok := refineTargets[name]
	return !ok || slices.Contains(allowed, target)
}

var augmentTargets = []string{"container", "list", "choice", "case", "input", "output", "notification"}

// AugmentTargetAllowed reports whether a node of the given keyword may be
// augmented.
func AugmentTargetAllowed(target string) bool {
	return slices.Contains(augmentTargets, target)
}

// ImplicitOnReplace lists substatements a deviate replace may add when the
// target only carries them implicitly.
var ImplicitOnReplace = []string{"config", "mandatory", "max-elements", "min-elements"}

// SingletonOnAdd reports whether deviate add of name fails when the target
// already carries it.
func SingletonOnAdd(name, target string) bool {
	switch name {
	case "units", "config", "mandatory", "max-elements", "min-elements":
		return true
	case "default":
		return target == "leaf" || target == "choice"
	}
	return false
}
