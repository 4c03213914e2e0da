package types

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/jacoelho/yang/internal/pattern"
	"github.com/jacoelho/yang/schema"
)

// Restriction is a range or length statement.
type Restriction struct {
	Arg string
	schema.Constraint
}

// PatternSpec is a pattern statement.
type PatternSpec struct {
	Arg string
	schema.Constraint
	Inverted bool
}

// EnumSpec is an enum statement.
type EnumSpec struct {
	Name       string
	Value      string
	IfFeatures []string
	schema.Documented
}

// BitSpec is a bit statement.
type BitSpec struct {
	Name       string
	Position   string
	IfFeatures []string
	schema.Documented
}

// Restrictions collects the substatements of a type statement.
type Restrictions struct {
	Range           *Restriction
	Length          *Restriction
	Patterns        []PatternSpec
	Enums           []EnumSpec
	Bits            []BitSpec
	Bases           []schema.QName
	Union           []*schema.Type
	FractionDigits  string
	Path            string
	RequireInstance string
}

// Derive builds the type named name from base and the restrictions of a
// type statement. version is the YANG version of the declaring module.
// Unsupported patterns are kept unenforced and returned as warnings.
func Derive(base *schema.Type, name schema.QName, r Restrictions, version string) (*schema.Type, []error, error) {
	builtin := base.Builtin
	isBuiltin := base.Base == nil && base.QName.Module.Namespace == ""
	t := &schema.Type{
		Base:            base,
		QName:           name,
		Builtin:         builtin,
		Ranges:          base.Ranges,
		RangeInfo:       base.RangeInfo,
		Lengths:         base.Lengths,
		LengthInfo:      base.LengthInfo,
		Patterns:        slices.Clone(base.Patterns),
		Enums:           base.Enums,
		Bits:            base.Bits,
		Bases:           base.Bases,
		Union:           base.Union,
		Path:            base.Path,
		FractionDigits:  base.FractionDigits,
		RequireInstance: base.RequireInstance,
	}

	if err := checkApplicable(builtin, isBuiltin, r, version); err != nil {
		return nil, nil, err
	}

	if builtin == Decimal64 {
		switch {
		case isBuiltin && r.FractionDigits == "":
			return nil, nil, fmt.Errorf("Missing FRACTION_DIGITS statement in TYPE decimal64.")
		case !isBuiltin && r.FractionDigits != "":
			return nil, nil, fmt.Errorf("fraction-digits is not allowed on a type derived from %s", base.QName.Name)
		case isBuiltin:
			fd, err := strconv.Atoi(r.FractionDigits)
			if err != nil || fd < 1 || fd > 18 {
				return nil, nil, fmt.Errorf("fraction-digits %s is not between 1 and 18", r.FractionDigits)
			}
			t.FractionDigits = uint8(fd)
			t.Ranges = decimalRange(t.FractionDigits)
		}
	}

	if r.Range != nil {
		kind := kindInteger
		if builtin == Decimal64 {
			kind = kindDecimal
		}
		ranges, err := narrowIntervals("range", r.Range.Arg, t.Ranges, kind, t.FractionDigits)
		if err != nil {
			return nil, nil, err
		}
		t.Ranges, t.RangeInfo = ranges, r.Range.Constraint
	}
	if r.Length != nil {
		lengths, err := narrowIntervals("length", r.Length.Arg, t.Lengths, kindLength, 0)
		if err != nil {
			return nil, nil, err
		}
		t.Lengths, t.LengthInfo = lengths, r.Length.Constraint
	}

	var warnings []error
	for _, p := range r.Patterns {
		compiled, err := pattern.Compile(p.Arg, p.Inverted)
		switch {
		case err != nil && pattern.IsUnsupported(err):
			warnings = append(warnings, err)
		case err != nil:
			return nil, nil, err
		}
		t.Patterns = append(t.Patterns, schema.NewPattern(compiled, p.Constraint))
	}

	if builtin == Enumeration && (len(r.Enums) > 0 || isBuiltin) {
		enums, err := assignEnums(r.Enums, base, isBuiltin)
		if err != nil {
			return nil, nil, err
		}
		t.Enums = enums
	}
	if builtin == Bits && (len(r.Bits) > 0 || isBuiltin) {
		bits, err := assignBits(r.Bits, base, isBuiltin)
		if err != nil {
			return nil, nil, err
		}
		t.Bits = bits
	}

	switch builtin {
	case LeafRef:
		switch {
		case isBuiltin && r.Path == "":
			return nil, nil, fmt.Errorf("Missing PATH statement in TYPE leafref.")
		case !isBuiltin && r.Path != "":
			return nil, nil, fmt.Errorf("path is not allowed on a type derived from %s", base.QName.Name)
		case r.Path != "":
			t.Path = r.Path
		}
	case IdentityRef:
		switch {
		case isBuiltin && len(r.Bases) == 0:
			return nil, nil, fmt.Errorf("Missing BASE statement in TYPE identityref.")
		case !isBuiltin && len(r.Bases) > 0:
			return nil, nil, fmt.Errorf("base is not allowed on a type derived from %s", base.QName.Name)
		case len(r.Bases) > 0:
			t.Bases = r.Bases
		}
	case Union:
		switch {
		case isBuiltin && len(r.Union) == 0:
			return nil, nil, fmt.Errorf("Missing TYPE statement in TYPE union.")
		case !isBuiltin && len(r.Union) > 0:
			return nil, nil, fmt.Errorf("member types are not allowed on a type derived from %s", base.QName.Name)
		case len(r.Union) > 0:
			if version != "1.1" {
				for _, m := range r.Union {
					if m.Builtin == Empty || m.Builtin == LeafRef {
						return nil, nil, fmt.Errorf("union member type %s requires YANG version 1.1", m.Builtin)
					}
				}
			}
			t.Union = r.Union
		}
	}
	if r.RequireInstance != "" {
		t.RequireInstance = r.RequireInstance == "true"
	}
	return t, warnings, nil
}

func checkApplicable(builtin string, isBuiltin bool, r Restrictions, version string) error {
	bad := func(stmt string) error {
		return fmt.Errorf("%s is not valid for type %s", stmt, builtin)
	}
	if !isBuiltin && version != "1.1" && (len(r.Enums) > 0 || len(r.Bits) > 0) {
		return fmt.Errorf("restricting %s of a derived type requires YANG version 1.1", builtin)
	}
	if r.Range != nil && !IsInteger(builtin) && builtin != Decimal64 {
		return bad("range")
	}
	if r.Length != nil && builtin != String && builtin != Binary {
		return bad("length")
	}
	if len(r.Patterns) > 0 && builtin != String {
		return bad("pattern")
	}
	if r.FractionDigits != "" && builtin != Decimal64 {
		return bad("fraction-digits")
	}
	if len(r.Enums) > 0 && builtin != Enumeration {
		return bad("enum")
	}
	if len(r.Bits) > 0 && builtin != Bits {
		return bad("bit")
	}
	if r.Path != "" && builtin != LeafRef {
		return bad("path")
	}
	if len(r.Bases) > 0 && builtin != IdentityRef {
		return bad("base")
	}
	if len(r.Bases) > 1 && version != "1.1" {
		return fmt.Errorf("Maximal count of BASE for TYPE is 1, detected %d.", len(r.Bases))
	}
	if len(r.Union) > 0 && builtin != Union {
		return bad("type")
	}
	if r.RequireInstance != "" {
		if builtin != InstanceIdentifier && (builtin != LeafRef || version != "1.1") {
			return bad("require-instance")
		}
	}
	return nil
}

func assignEnums(specs []EnumSpec, base *schema.Type, isBuiltin bool) ([]schema.Enum, error) {
	if isBuiltin && len(specs) == 0 {
		return nil, fmt.Errorf("Missing ENUM statement in TYPE enumeration.")
	}
	out := make([]schema.Enum, 0, len(specs))
	names := make(map[string]bool, len(specs))
	values := make(map[int32]bool, len(specs))
	var highest int64 = -1
	for _, s := range specs {
		if s.Name == "" || strings.TrimSpace(s.Name) != s.Name {
			return nil, fmt.Errorf("enum name '%s' must not be empty or have leading or trailing whitespace", s.Name)
		}
		if names[s.Name] {
			return nil, fmt.Errorf("Enum '%s' is already defined", s.Name)
		}
		names[s.Name] = true

		baseIdx := -1
		if !isBuiltin {
			baseIdx = slices.IndexFunc(base.Enums, func(e schema.Enum) bool { return e.Name == s.Name })
			if baseIdx < 0 {
				return nil, fmt.Errorf("Enum '%s' is not a subset of its base type %s", s.Name, base.QName.Name)
			}
		}
		var value int64
		switch {
		case s.Value != "":
			v, err := strconv.ParseInt(s.Value, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("enum '%s' value %s is not a 32-bit integer", s.Name, s.Value)
			}
			value = v
		case baseIdx >= 0:
			value = int64(base.Enums[baseIdx].Value)
		default:
			value = highest + 1
			if value > math.MaxInt32 {
				return nil, fmt.Errorf("Enum '%s' has an implicit value greater than %d", s.Name, math.MaxInt32)
			}
		}
		if baseIdx >= 0 && int64(base.Enums[baseIdx].Value) != value {
			return nil, fmt.Errorf("Value of enum '%s' must be the same as the value of the corresponding enum in base type %s", s.Name, base.QName.Name)
		}
		if values[int32(value)] {
			return nil, fmt.Errorf("Enum '%s' uses value %d which is already assigned", s.Name, value)
		}
		values[int32(value)] = true
		highest = max(highest, value)
		out = append(out, schema.Enum{Name: s.Name, Value: int32(value), IfFeatures: s.IfFeatures, Documented: s.Documented})
	}
	return out, nil
}

func assignBits(specs []BitSpec, base *schema.Type, isBuiltin bool) ([]schema.Bit, error) {
	if isBuiltin && len(specs) == 0 {
		return nil, fmt.Errorf("Missing BIT statement in TYPE bits.")
	}
	out := make([]schema.Bit, 0, len(specs))
	names := make(map[string]bool, len(specs))
	positions := make(map[uint32]bool, len(specs))
	var highest int64 = -1
	for _, s := range specs {
		if names[s.Name] {
			return nil, fmt.Errorf("Bit '%s' is already defined", s.Name)
		}
		names[s.Name] = true

		baseIdx := -1
		if !isBuiltin {
			baseIdx = slices.IndexFunc(base.Bits, func(b schema.Bit) bool { return b.Name == s.Name })
			if baseIdx < 0 {
				return nil, fmt.Errorf("Bit '%s' is not a subset of its base type %s", s.Name, base.QName.Name)
			}
		}
		var pos int64
		switch {
		case s.Position != "":
			v, err := strconv.ParseUint(s.Position, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("bit '%s' position %s is not between 0 and %d", s.Name, s.Position, uint32(math.MaxUint32))
			}
			pos = int64(v)
		case baseIdx >= 0:
			pos = int64(base.Bits[baseIdx].Position)
		default:
			pos = highest + 1
			if pos > math.MaxUint32 {
				return nil, fmt.Errorf("Bit '%s' has an implicit position greater than %d", s.Name, uint32(math.MaxUint32))
			}
		}
		if baseIdx >= 0 && int64(base.Bits[baseIdx].Position) != pos {
			return nil, fmt.Errorf("Position of bit '%s' must be the same as the position of the corresponding bit in base type %s", s.Name, base.QName.Name)
		}
		if positions[uint32(pos)] {
			return nil, fmt.Errorf("Bit '%s' uses position %d which is already assigned", s.Name, pos)
		}
		positions[uint32(pos)] = true
		highest = max(highest, pos)
		out = append(out, schema.Bit{Name: s.Name, Position: uint32(pos), IfFeatures: s.IfFeatures, Documented: s.Documented})
	}
	return out, nil
}
