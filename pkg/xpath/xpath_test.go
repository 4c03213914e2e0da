package xpath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseRendersTree(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{expr: "../a", want: "../a"},
		{expr: "/if:interfaces/if:interface", want: "/if:interfaces/if:interface"},
		{expr: "count(x) > 1", want: "(count(x) > 1)"},
		{expr: "a = 'b' and not(c)", want: "((a = 'b') and not(c))"},
		{expr: "a or b and c", want: "(a or (b and c))"},
		{expr: "1 + 2 * 3", want: "(1 + (2 * 3))"},
		{expr: "a div b mod 2", want: "((a div b) mod 2)"},
		{expr: "-x", want: "-x"},
		{expr: "a | b", want: "(a | b)"},
		{expr: "//x", want: "/descendant-or-self::node()/x"},
		{expr: "a[b = current()/../c]/d", want: "a[(b = current()/../c)]/d"},
		{expr: "derived-from-or-self(type, 'ianaift:ethernetCsmacd')", want: "derived-from-or-self(type, 'ianaift:ethernetCsmacd')"},
		{expr: "@attr", want: "@attr"},
		{expr: "ancestor::p:x", want: "ancestor::p:x"},
		{expr: "p:*", want: "p:*"},
		{expr: "text()", want: "text()"},
		{expr: "$v", want: "$v"},
		{expr: ".5 >= 0.25", want: "(0.5 >= 0.25)"},
		{expr: "/", want: "/"},
		{expr: "(a)[1]", want: "a[1]"},
		{expr: "a != \"it's\"", want: "(a != \"it's\")"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := Parse(tt.expr)
			require.NoError(t, err)
			require.Equal(t, tt.want, e.Root.String())
			require.Equal(t, tt.expr, e.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"a b",
		"a =",
		"count(a",
		"a[b",
		"'unterminated",
		"a ! b",
		"bogus::x",
		"a/",
		"$",
		"#",
	}
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidXPath), "err = %v", err)
		})
	}
}

func TestPrefixesAndFunctions(t *testing.T) {
	e, err := Parse("/a:x[b:y = current()/../a:z] and $c:v and d:f(1) and count(a:q)")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c", "d"}, e.Prefixes())
	require.Equal(t, []string{"current", "f", "count"}, e.Functions())
}

func TestParseLeafrefPath(t *testing.T) {
	p, err := ParseLeafrefPath("/if:interfaces/if:interface/if:name", "1")
	require.NoError(t, err)
	require.True(t, p.Absolute)
	require.Equal(t, []PathStep{
		{Identifier: Identifier{Prefix: "if", Name: "interfaces"}},
		{Identifier: Identifier{Prefix: "if", Name: "interface"}},
		{Identifier: Identifier{Prefix: "if", Name: "name"}},
	}, p.Steps)

	p, err = ParseLeafrefPath("../../a[k = current()/../../b/c]/v", "1")
	require.NoError(t, err)
	require.False(t, p.Absolute)
	require.Equal(t, 2, p.Up)
	want := []PathStep{
		{
			Identifier: Identifier{Name: "a"},
			Keys: []PathKey{{
				Key:   Identifier{Name: "k"},
				Up:    2,
				Steps: []Identifier{{Name: "b"}, {Name: "c"}},
			}},
		},
		{Identifier: Identifier{Name: "v"}},
	}
	if diff := cmp.Diff(want, p.Steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLeafrefPathDeref(t *testing.T) {
	p, err := ParseLeafrefPath("deref(../ref)/../name", "1.1")
	require.NoError(t, err)
	require.NotNil(t, p.Deref)
	require.Equal(t, 1, p.Deref.Up)
	require.Equal(t, 1, p.Up)
	require.Equal(t, "name", p.Steps[0].Name)

	_, err = ParseLeafrefPath("deref(../ref)/../name", "1")
	require.Error(t, err)
}

func TestParseLeafrefPathErrors(t *testing.T) {
	tests := []string{
		"a/b",
		"..",
		"/a/*",
		"/a[k = 'x']",
		"/a[k = ../b]",
		"/a[k = current()/b]",
		"count(a)",
		"/a/../b",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			_, err := ParseLeafrefPath(text, "1.1")
			require.Error(t, err)
		})
	}
}

func TestParseSchemaNodeID(t *testing.T) {
	id, err := ParseSchemaNodeID("/a:b/c")
	require.NoError(t, err)
	require.True(t, id.Absolute)
	require.Equal(t, []Identifier{{Prefix: "a", Name: "b"}, {Name: "c"}}, id.Path)
	require.Equal(t, "/a:b/c", id.String())

	id, err = ParseSchemaNodeID("x/y")
	require.NoError(t, err)
	require.False(t, id.Absolute)
	require.Equal(t, "x/y", id.String())

	for _, bad := range []string{"", "/", "a//b", "/a/", "a:", ":b", "a/1b", "a:b:c"} {
		_, err := ParseSchemaNodeID(bad)
		require.Error(t, err, bad)
	}
}
