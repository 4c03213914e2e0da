package num

import (
	"strconv"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		errKind ParseErrKind
		wantErr bool
	}{
		{input: "0", want: "0"},
		{input: "-0", want: "0"},
		{input: "+0042", want: "42"},
		{input: "-128", want: "-128"},
		{input: "18446744073709551615", want: "18446744073709551615"},
		{input: "", wantErr: true, errKind: ParseEmpty},
		{input: "-", wantErr: true, errKind: ParseNoDigits},
		{input: "0x10", wantErr: true, errKind: ParseBadChar},
		{input: "1.5", wantErr: true, errKind: ParseBadChar},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInt([]byte(tt.input))
			if tt.wantErr {
				require.NotNil(t, err)
				require.Equal(t, tt.errKind, err.Kind)
				require.Equal(t, tt.input, err.Input)
				return
			}
			require.Nil(t, err)
			require.Equal(t, tt.want, string(got.RenderCanonical(nil)))
		})
	}
}

func TestParseIntLiteral(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "42", want: "42"},
		{input: "0", want: "0"},
		{input: "0x10", want: "16"},
		{input: "0XfF", want: "255"},
		{input: "-0x80", want: "-128"},
		{input: "+0x1", want: "1"},
		{input: "017", want: "15"},
		{input: "-017", want: "-15"},
		{input: "00", want: "0"},
		{input: "0xffffffffffffffff", want: "18446744073709551615"},
		{input: "08", wantErr: true},
		{input: "0x", wantErr: true},
		{input: "0xg1", wantErr: true},
		{input: "0x1ffffffffffffffff", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIntLiteral([]byte(tt.input))
			if tt.wantErr {
				require.NotNil(t, err)
				require.Equal(t, tt.input, err.Input)
				return
			}
			require.Nil(t, err)
			require.Equal(t, tt.want, string(got.RenderCanonical(nil)))
		})
	}
}

func TestIntCompareWithBounds(t *testing.T) {
	lo, hi, ok := IntBounds("int8")
	require.True(t, ok)
	for _, tt := range []struct {
		value  string
		inside bool
	}{
		{value: "-128", inside: true},
		{value: "127", inside: true},
		{value: "0", inside: true},
		{value: "-129", inside: false},
		{value: "128", inside: false},
	} {
		v, err := ParseInt([]byte(tt.value))
		require.Nil(t, err)
		require.Equal(t, tt.inside, v.Compare(lo) >= 0 && v.Compare(hi) <= 0, tt.value)
	}
}

func TestIntCompareDec(t *testing.T) {
	five := FromInt64(5)
	for _, tt := range []struct {
		dec  string
		want int
	}{
		{dec: "5.0", want: 0},
		{dec: "4.99", want: 1},
		{dec: "5.01", want: -1},
		{dec: "-5", want: 1},
	} {
		d, err := ParseDec([]byte(tt.dec))
		require.Nil(t, err)
		require.Equal(t, tt.want, five.CompareDec(d), tt.dec)
	}
}

func TestIntProperties(t *testing.T) {
	cfg := &quick.Config{MaxCount: 500}

	roundTrip := func(v int64) bool {
		got, err := ParseInt([]byte(strconv.FormatInt(v, 10)))
		if err != nil {
			return false
		}
		back, ok := got.Int64()
		return ok && back == v && got.Compare(FromInt64(v)) == 0
	}
	require.NoError(t, quick.Check(roundTrip, cfg))

	ordered := func(a, b int64) bool {
		want := 0
		switch {
		case a < b:
			want = -1
		case a > b:
			want = 1
		}
		return FromInt64(a).Compare(FromInt64(b)) == want
	}
	require.NoError(t, quick.Check(ordered, cfg))

	asDec := func(v int64) bool {
		d := FromInt64(v).AsDec()
		parsed, err := ParseDec(d.RenderCanonical(nil))
		return err == nil && parsed.Compare(d) == 0
	}
	require.NoError(t, quick.Check(asDec, cfg))
}
