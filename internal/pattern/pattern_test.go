package pattern

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: `^(?:)$`},
		{in: "[a-z]+", want: `^(?:[a-z]+)$`},
		{in: `\d{1,3}`, want: `^(?:[\p{Nd}]{1,3})$`},
		{in: "a.b", want: `^(?:a[^\n\r]b)$`},
		{in: "^x$", want: `^(?:\^x\$)$`},
		{in: `[\d\-]`, want: `^(?:[\p{Nd}\-])$`},
		{in: `[^a-c]`, want: `^(?:[^a-c])$`},
		{in: `\p{L}+`, want: `^(?:\p{L}+)$`},
		{in: `\p{IsBasicLatin}`, want: `^(?:[\x00-\x7F])$`},
		{in: `(ab|cd)*`, want: `^(?:(ab|cd)*)$`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Translate(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		in   string
		kind ErrorKind
	}{
		{in: "(a", kind: Syntax},
		{in: "a)", kind: Syntax},
		{in: "[a", kind: Syntax},
		{in: "a]", kind: Syntax},
		{in: `\`, kind: Syntax},
		{in: `\q`, kind: Syntax},
		{in: `(a)\1`, kind: Syntax},
		{in: "[z-a]", kind: Syntax},
		{in: "(?:a)", kind: Syntax},
		{in: "a{2,1}", kind: Syntax},
		{in: "a*?", kind: Unsupported},
		{in: "a{1001}", kind: Unsupported},
		{in: "[a-z-[aeiou]]", kind: Unsupported},
		{in: `\p{IsTibetan}`, kind: Unsupported},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Translate(tt.in)
			require.Error(t, err)
			var perr *Error
			require.ErrorAs(t, err, &perr)
			require.Equal(t, tt.kind, perr.Kind)
		})
	}
}

func TestCompileMatches(t *testing.T) {
	p, err := Compile(`[0-9a-fA-F]*`, false)
	require.NoError(t, err)
	require.True(t, p.Supported())
	require.True(t, p.Matches("00ff"))
	require.False(t, p.Matches("0x"))

	inv, err := Compile(`[xX][mM][lL].*`, true)
	require.NoError(t, err)
	require.False(t, inv.Matches("xml-name"))
	require.True(t, inv.Matches("name"))
}

func TestCompileAnchorsWholeValue(t *testing.T) {
	p, err := Compile(`a|b`, false)
	require.NoError(t, err)
	require.True(t, p.Matches("a"))
	require.False(t, p.Matches("ab"))
}

func TestCompileUnsupportedMatchesAll(t *testing.T) {
	p, err := Compile(`[a-z-[aeiou]]`, false)
	require.Error(t, err)
	require.True(t, IsUnsupported(err))
	require.NotNil(t, p)
	require.False(t, p.Supported())
	require.True(t, p.Matches("anything"))

	_, err = Compile(`(a`, false)
	require.Error(t, err)
	require.False(t, IsUnsupported(err))
}
