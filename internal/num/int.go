package num

import "strconv"

var zeroDigits = []byte{'0'}

// Int represents an arbitrary-precision integer.
type Int struct {
	Sign   int8
	Digits []byte
}

// ParseInt parses an integer lexical value into an Int.
func ParseInt(b []byte) (Int, *ParseError) {
	if len(b) == 0 {
		return Int{}, parseErr(ParseEmpty, b)
	}
	sign := int8(1)
	i := 0
	switch b[0] {
	case '+':
		i++
	case '-':
		sign = -1
		i++
	}
	if i >= len(b) {
		return Int{}, parseErr(ParseNoDigits, b)
	}
	for _, c := range b[i:] {
		if !isDigit(c) {
			return Int{}, parseErr(ParseBadChar, b)
		}
	}
	digits := trimLeadingZeros(b[i:])
	if len(digits) == 0 || allZeros(digits) {
		return Int{Sign: 0, Digits: zeroDigits}, nil
	}
	return Int{Sign: sign, Digits: digits}, nil
}

// ParseIntLiteral parses an integer value in any of the lexical forms YANG
// accepts: decimal, hexadecimal with a 0x prefix or octal with a leading
// zero, each with an optional sign. Non-decimal magnitudes must fit in 64 bits.
func ParseIntLiteral(b []byte) (Int, *ParseError) {
	i := 0
	if len(b) > 0 && (b[0] == '+' || b[0] == '-') {
		i++
	}
	body := b[i:]
	base := 10
	switch {
	case len(body) > 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X'):
		base, body = 16, body[2:]
	case len(body) > 1 && body[0] == '0':
		base, body = 8, body[1:]
	}
	if base == 10 {
		return ParseInt(b)
	}
	u, err := strconv.ParseUint(string(body), base, 64)
	if err != nil {
		return Int{}, parseErr(ParseBadChar, b)
	}
	if u == 0 {
		return Int{Sign: 0, Digits: zeroDigits}, nil
	}
	sign := int8(1)
	if b[0] == '-' {
		sign = -1
	}
	return Int{Sign: sign, Digits: strconv.AppendUint(nil, u, 10)}, nil
}

// FromInt64 converts v to an Int.
func FromInt64(v int64) Int {
	if v == 0 {
		return Int{Sign: 0, Digits: zeroDigits}
	}
	sign := int8(1)
	u := uint64(v)
	if v < 0 {
		sign = -1
		u = uint64(-(v + 1)) + 1
	}
	return Int{Sign: sign, Digits: strconv.AppendUint(nil, u, 10)}
}

// Int64 returns the value as int64 when it fits.
func (a Int) Int64() (int64, bool) {
	if a.Compare(MinInt64) < 0 || a.Compare(MaxInt64) > 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(string(a.RenderCanonical(nil)), 10, 64)
	return v, err == nil
}

// Compare compares two Int values.
func (a Int) Compare(b Int) int {
	if a.Sign == 0 && b.Sign == 0 {
		return 0
	}
	if a.Sign != b.Sign {
		if a.Sign < b.Sign {
			return -1
		}
		return 1
	}
	cmp := compareDigits(a.Digits, b.Digits)
	if a.Sign < 0 {
		return -cmp
	}
	return cmp
}

// CompareDec compares an Int to a Dec.
func (a Int) CompareDec(b Dec) int {
	return a.AsDec().Compare(b)
}

// AsDec converts an Int to a Dec.
func (a Int) AsDec() Dec {
	if a.Sign == 0 {
		return Dec{Sign: 0, Coef: zeroDigits, Scale: 0}
	}
	return Dec{Sign: a.Sign, Coef: a.Digits, Scale: 0}
}

// RenderCanonical appends the canonical lexical form to dst.
func (a Int) RenderCanonical(dst []byte) []byte {
	if a.Sign == 0 {
		return append(dst, '0')
	}
	if a.Sign < 0 {
		dst = append(dst, '-')
	}
	return append(dst, a.Digits...)
}

func compareDigits(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := 0; i < len(a); i++ {
		if a[i] == b[i] {
			continue
		}
		if a[i] < b[i] {
			return -1
		}
		return 1
	}
	return 0
}
