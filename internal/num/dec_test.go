package num

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDec(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		errKind ParseErrKind
		wantErr bool
	}{
		{input: "0", want: "0.0"},
		{input: "-0.000", want: "0.0"},
		{input: "3.14", want: "3.14"},
		{input: "+2.50", want: "2.5"},
		{input: "-001.2300", want: "-1.23"},
		{input: ".5", want: "0.5"},
		{input: "7.", want: "7.0"},
		{input: "0.001", want: "0.001"},
		{input: "", wantErr: true, errKind: ParseEmpty},
		{input: "-", wantErr: true, errKind: ParseNoDigits},
		{input: "1.2.3", wantErr: true, errKind: ParseMultipleDots},
		{input: "1-2", wantErr: true, errKind: ParseMultipleSigns},
		{input: "1e3", wantErr: true, errKind: ParseBadChar},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDec([]byte(tt.input))
			if tt.wantErr {
				require.NotNil(t, err)
				require.Equal(t, tt.errKind, err.Kind)
				require.Contains(t, err.Error(), tt.errKind.String())
				return
			}
			require.Nil(t, err)
			require.Equal(t, tt.want, string(d.RenderCanonical(nil)))
		})
	}
}

func TestDecCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "1.5", b: "1.50", want: 0},
		{a: "-2.5", b: "1", want: -1},
		{a: "0.01", b: "0.1", want: -1},
		{a: "-0.01", b: "-0.1", want: 1},
		{a: "10", b: "9.99", want: 1},
		{a: "0", b: "-0.0", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a, err := ParseDec([]byte(tt.a))
			require.Nil(t, err)
			b, err := ParseDec([]byte(tt.b))
			require.Nil(t, err)
			require.Equal(t, tt.want, a.Compare(b))
			require.Equal(t, -tt.want, b.Compare(a))
		})
	}
}

func TestIntMinInt64RoundTrip(t *testing.T) {
	v := FromInt64(math.MinInt64)
	canonical := v.RenderCanonical(nil)
	require.Equal(t, "-9223372036854775808", string(canonical))

	parsed, err := ParseInt(canonical)
	require.Nil(t, err)
	require.Equal(t, 0, parsed.Compare(MinInt64))
	back, ok := parsed.Int64()
	require.True(t, ok)
	require.Equal(t, int64(math.MinInt64), back)
}
