package types

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jacoelho/yang/internal/num"
	"github.com/jacoelho/yang/pkg/xpath"
	"github.com/jacoelho/yang/schema"
)

// IdentityCheck resolves an identityref value and reports whether it names
// an identity derived from one of bases.
type IdentityCheck func(value string, bases []schema.QName) error

// CheckValue validates value against t. Leafref values are accepted
// without looking at the target; identityref values need check.
func CheckValue(t *schema.Type, value string, check IdentityCheck) error {
	switch b := t.Builtin; {
	case IsInteger(b):
		v, err := num.ParseIntLiteral([]byte(value))
		if err != nil {
			return fmt.Errorf("'%s' is not a valid %s", value, b)
		}
		if !inIntervals(v.AsDec(), t.Ranges, kindInteger, 0) {
			return fmt.Errorf("'%s' is outside the range of %s", value, typeName(t))
		}
	case b == Decimal64:
		d, ok := num.CheckDecimal64([]byte(value), uint32(t.FractionDigits))
		if !ok {
			return fmt.Errorf("'%s' is not a valid decimal64 with %d fraction digits", value, t.FractionDigits)
		}
		if !inIntervals(d, t.Ranges, kindDecimal, t.FractionDigits) {
			return fmt.Errorf("'%s' is outside the range of %s", value, typeName(t))
		}
	case b == String:
		if !inIntervals(num.FromInt64(int64(utf8.RuneCountInString(value))).AsDec(), t.Lengths, kindLength, 0) {
			return fmt.Errorf("length of '%s' is outside the allowed lengths of %s", value, typeName(t))
		}
		for _, p := range t.Patterns {
			if !p.Matches(value) {
				return fmt.Errorf("'%s' does not match pattern '%s' of %s", value, p.Expression, typeName(t))
			}
		}
	case b == Binary:
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return fmt.Errorf("'%s' is not valid base64 binary", value)
		}
		if !inIntervals(num.FromInt64(int64(len(raw))).AsDec(), t.Lengths, kindLength, 0) {
			return fmt.Errorf("length of binary value is outside the allowed lengths of %s", typeName(t))
		}
	case b == Boolean:
		if value != "true" && value != "false" {
			return fmt.Errorf("'%s' is not a valid boolean", value)
		}
	case b == Empty:
		return fmt.Errorf("type empty cannot have a value")
	case b == Enumeration:
		if !slices.ContainsFunc(t.Enums, func(e schema.Enum) bool { return e.Name == value }) {
			return fmt.Errorf("'%s' is not a valid enum of %s", value, typeName(t))
		}
	case b == Bits:
		seen := make(map[string]bool)
		for name := range strings.FieldsSeq(value) {
			if seen[name] {
				return fmt.Errorf("bit '%s' is repeated", name)
			}
			seen[name] = true
			if !slices.ContainsFunc(t.Bits, func(bit schema.Bit) bool { return bit.Name == name }) {
				return fmt.Errorf("'%s' is not a valid bit of %s", name, typeName(t))
			}
		}
	case b == IdentityRef:
		if check != nil {
			return check(value, t.Bases)
		}
	case b == InstanceIdentifier:
		if _, err := xpath.Parse(value); err != nil {
			return fmt.Errorf("'%s' is not a valid instance-identifier: %w", value, err)
		}
	case b == Union:
		var errs []string
		for _, m := range t.Union {
			err := CheckValue(m, value, check)
			if err == nil {
				return nil
			}
			errs = append(errs, err.Error())
		}
		return fmt.Errorf("'%s' does not match any member of %s: %s", value, typeName(t), strings.Join(errs, "; "))
	}
	return nil
}

func typeName(t *schema.Type) string {
	return t.QName.Name
}
