package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/stmt"
)

func TestParseTree(t *testing.T) {
	src := `module foo {
  yang-version 1.1;
  namespace "urn:" + "foo";
  prefix f;
  ext:marker;
  container c {
    leaf l { type string; }
  }
}`
	res, err := Parse("foo.yang", src, Options{})
	require.NoError(t, err)

	want := &stmt.Statement{
		Keyword: stmt.Core("module"), Arg: "foo", HasArg: true,
		Children: []*stmt.Statement{
			{Keyword: stmt.Core("yang-version"), Arg: "1.1", HasArg: true},
			{Keyword: stmt.Core("namespace"), Arg: "urn:foo", HasArg: true},
			{Keyword: stmt.Core("prefix"), Arg: "f", HasArg: true},
			{Keyword: stmt.Keyword{Prefix: "ext", Name: "marker"}},
			{Keyword: stmt.Core("container"), Arg: "c", HasArg: true, Children: []*stmt.Statement{
				{Keyword: stmt.Core("leaf"), Arg: "l", HasArg: true, Children: []*stmt.Statement{
					{Keyword: stmt.Core("type"), Arg: "string", HasArg: true},
				}},
			}},
		},
	}
	ignoreRef := cmpopts.IgnoreFields(stmt.Statement{}, "Ref")
	if diff := cmp.Diff(want, res.Root, ignoreRef); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, yangerrors.Reference{Source: "foo.yang", Line: 6, Column: 3}, res.Root.Children[4].Ref)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{name: "empty", src: "  // nothing\n", msg: "contains no statements"},
		{name: "wrong root", src: "container c;", msg: "must be module or submodule"},
		{name: "two roots", src: "module a; module b;", msg: "after root statement"},
		{name: "missing brace", src: "module a { prefix a;", msg: "Missing '}'"},
		{name: "missing terminator", src: "module a { prefix a }", msg: "Expected ';' or '{'"},
		{name: "quoted keyword", src: `module a { "prefix" a; }`, msg: "Expected statement keyword"},
		{name: "bad keyword", src: "module a { pre$fix a; }", msg: "Invalid statement keyword"},
		{name: "bad concatenation", src: `module a { description "a" + b; }`, msg: "Expected quoted string after '+'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("a.yang", tt.src, Options{})
			require.Error(t, err)
			require.True(t, yangerrors.HasCode(err, yangerrors.ErrSource), "err = %v", err)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	src := "module a {" + strings.Repeat(" container c {", 5) + strings.Repeat("}", 5) + "}"
	_, err := Parse("a.yang", src, Options{MaxDepth: 4})
	require.ErrorContains(t, err, "maximum depth 4")

	_, err = Parse("a.yang", src, Options{MaxDepth: 6})
	require.NoError(t, err)
}

func TestParseCollectsEscapes(t *testing.T) {
	res, err := Parse("a.yang", `module a { description "\q"; }`, Options{})
	require.NoError(t, err)
	require.Len(t, res.Escapes, 1)
}

func TestIsIdentifier(t *testing.T) {
	for _, ok := range []string{"a", "_x", "a-b.c9"} {
		require.True(t, IsIdentifier(ok), ok)
	}
	for _, bad := range []string{"", "9a", "-a", "a:b", "a b"} {
		require.False(t, IsIdentifier(bad), bad)
	}
}
