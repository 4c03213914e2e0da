package num

import "strconv"

// ParseErrKind identifies why a numeric literal was rejected.
type ParseErrKind uint8

const (
	ParseInvalid ParseErrKind = iota
	ParseEmpty
	ParseBadChar
	ParseMultipleSigns
	ParseMultipleDots
	ParseNoDigits
)

var parseErrKindNames = [...]string{
	ParseInvalid:       "invalid",
	ParseEmpty:         "empty",
	ParseBadChar:       "bad character",
	ParseMultipleSigns: "multiple signs",
	ParseMultipleDots:  "multiple dots",
	ParseNoDigits:      "no digits",
}

func (k ParseErrKind) String() string {
	if int(k) < len(parseErrKindNames) {
		return parseErrKindNames[k]
	}
	return "invalid"
}

// ParseError reports a rejected numeric literal of a range bound, default
// or decimal64 value.
type ParseError struct {
	Input string
	Kind  ParseErrKind
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return "invalid number " + strconv.Quote(e.Input) + ": " + e.Kind.String()
}

func parseErr(kind ParseErrKind, input []byte) *ParseError {
	return &ParseError{Kind: kind, Input: string(input)}
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// trimLeadingZeros drops leading zero digits; an all-zero input becomes
// empty.
func trimLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == '0' {
		b = b[1:]
	}
	return b
}

func allZeros(b []byte) bool {
	for _, c := range b {
		if c != '0' {
			return false
		}
	}
	return true
}
