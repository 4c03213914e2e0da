package num

import "bytes"

// Dec represents an arbitrary-precision decimal Coef * 10^-Scale. Coef has
// no leading or trailing zeros unless the value is zero.
type Dec struct {
	Sign  int8
	Coef  []byte
	Scale uint32
}

// ParseDec parses a decimal lexical value into a Dec.
func ParseDec(b []byte) (Dec, *ParseError) {
	if len(b) == 0 {
		return Dec{}, parseErr(ParseEmpty, b)
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
	var intPart, fracPart []byte
	seenDot := false
	start := i
	for ; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '.':
			if seenDot {
				return Dec{}, parseErr(ParseMultipleDots, b)
			}
			seenDot = true
			intPart = b[start:i]
			start = i + 1
		case c == '+' || c == '-':
			return Dec{}, parseErr(ParseMultipleSigns, b)
		case !isDigit(c):
			return Dec{}, parseErr(ParseBadChar, b)
		}
	}
	if seenDot {
		fracPart = b[start:]
	} else {
		intPart = b[start:]
	}
	if len(intPart) == 0 && len(fracPart) == 0 {
		return Dec{}, parseErr(ParseNoDigits, b)
	}
	coef := make([]byte, 0, len(intPart)+len(fracPart))
	coef = append(coef, intPart...)
	coef = append(coef, fracPart...)
	return normalizeDec(sign, coef, uint32(len(fracPart))), nil
}

func normalizeDec(sign int8, coef []byte, scale uint32) Dec {
	coef = trimLeadingZeros(coef)
	for scale > 0 && len(coef) > 0 && coef[len(coef)-1] == '0' {
		coef = coef[:len(coef)-1]
		scale--
	}
	if len(coef) == 0 {
		return Dec{Sign: 0, Coef: zeroDigits, Scale: 0}
	}
	return Dec{Sign: sign, Coef: coef, Scale: scale}
}

// Compare compares two Dec values.
func (a Dec) Compare(b Dec) int {
	if a.Sign != b.Sign {
		if a.Sign < b.Sign {
			return -1
		}
		return 1
	}
	if a.Sign == 0 {
		return 0
	}
	scale := max(a.Scale, b.Scale)
	cmp := compareDigits(padScale(a, scale), padScale(b, scale))
	if a.Sign < 0 {
		return -cmp
	}
	return cmp
}

func padScale(d Dec, scale uint32) []byte {
	if d.Scale == scale {
		return d.Coef
	}
	out := make([]byte, 0, len(d.Coef)+int(scale-d.Scale))
	out = append(out, d.Coef...)
	return append(out, bytes.Repeat([]byte{'0'}, int(scale-d.Scale))...)
}

// RenderCanonical appends the canonical lexical form to dst.
func (a Dec) RenderCanonical(dst []byte) []byte {
	if a.Sign == 0 {
		return append(dst, '0', '.', '0')
	}
	if a.Sign < 0 {
		dst = append(dst, '-')
	}
	if a.Scale == 0 {
		dst = append(dst, a.Coef...)
		return append(dst, '.', '0')
	}
	n := len(a.Coef)
	s := int(a.Scale)
	if n <= s {
		dst = append(dst, '0', '.')
		dst = append(dst, bytes.Repeat([]byte{'0'}, s-n)...)
		return append(dst, a.Coef...)
	}
	dst = append(dst, a.Coef[:n-s]...)
	dst = append(dst, '.')
	return append(dst, a.Coef[n-s:]...)
}

// Decimal64Bounds returns the smallest and largest decimal64 values with
// the given fraction digits.
func Decimal64Bounds(fractionDigits uint32) (Dec, Dec) {
	lo := normalizeDec(MinInt64.Sign, append([]byte(nil), MinInt64.Digits...), fractionDigits)
	hi := normalizeDec(MaxInt64.Sign, append([]byte(nil), MaxInt64.Digits...), fractionDigits)
	return lo, hi
}

// CheckDecimal64 parses b as a decimal64 value with the given fraction
// digits: at most fractionDigits decimals and within the decimal64 range.
func CheckDecimal64(b []byte, fractionDigits uint32) (Dec, bool) {
	d, err := ParseDec(b)
	if err != nil || d.Scale > fractionDigits {
		return Dec{}, false
	}
	lo, hi := Decimal64Bounds(fractionDigits)
	if d.Compare(lo) < 0 || d.Compare(hi) > 0 {
		return Dec{}, false
	}
	return d, true
}
