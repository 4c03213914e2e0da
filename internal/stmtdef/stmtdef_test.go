package stmtdef

import (
	"testing"

	"github.com/stretchr/testify/require"

	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/internal/parser"
)

func validateText(t *testing.T, text, version string) error {
	t.Helper()
	res, err := parser.Parse("t.yang", text, parser.Options{})
	require.NoError(t, err)
	return Validate(res.Root, version)
}

func TestValidateAcceptsModule(t *testing.T) {
	err := validateText(t, `module m {
  namespace "urn:m";
  prefix m;
  ext:anything "x" { whatever; }
  container c {
    leaf l { type string; default "x"; }
    leaf-list ll { type string; max-elements unbounded; }
  }
  deviation /m:c/m:l {
    deviate replace { type int8; }
  }
}`, "1")
	require.NoError(t, err)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		version string
		code    yangerrors.ErrorCode
		msg     string
	}{
		{
			name: "invalid substatement",
			text: `module m { namespace "u"; prefix m; leaf l { type string; presence "x"; } }`,
			code: yangerrors.ErrInvalidSubstatement,
			msg:  "PRESENCE is not valid for LEAF.",
		},
		{
			name: "cardinality",
			text: `module m { namespace "u"; prefix m; leaf l { type string; units a; units b; } }`,
			code: yangerrors.ErrInvalidSubstatement,
			msg:  "Maximal count of UNITS for LEAF is 1, detected 2.",
		},
		{
			name: "deviate default in 1.0",
			text: `module m { namespace "u"; prefix m; deviation /m:x { deviate add { default 1; default 2; } } }`,
			code: yangerrors.ErrInvalidSubstatement,
			msg:  "Maximal count of DEFAULT for DEVIATE is 1, detected 2.",
		},
		{
			name: "missing type",
			text: `module m { namespace "u"; prefix m; leaf l; }`,
			code: yangerrors.ErrInvalidSubstatement,
			msg:  "Missing TYPE statement in LEAF.",
		},
		{
			name: "unknown keyword",
			text: `module m { namespace "u"; prefix m; frobnicate x; }`,
			code: yangerrors.ErrSource,
			msg:  "frobnicate is not a YANG statement or use of extension.",
		},
		{
			name: "action in 1.0",
			text: `module m { namespace "u"; prefix m; container c { action a; } }`,
			code: yangerrors.ErrSource,
			msg:  "action is not a YANG statement",
		},
		{
			name: "missing argument",
			text: `module m { namespace "u"; prefix m; container; }`,
			code: yangerrors.ErrSource,
			msg:  "Statement container requires an argument",
		},
		{
			name: "unexpected argument",
			text: `module m { yang-version 1.1; namespace "u"; prefix m; rpc r { input x; } }`,
			version: "1.1",
			code: yangerrors.ErrSource,
			msg:  "Statement input does not take argument",
		},
		{
			name: "bad boolean",
			text: `module m { namespace "u"; prefix m; leaf l { type string; config yes; } }`,
			code: yangerrors.ErrSource,
			msg:  "expected true or false",
		},
		{
			name: "bad max-elements",
			text: `module m { namespace "u"; prefix m; leaf-list l { type string; max-elements 0; } }`,
			code: yangerrors.ErrSource,
			msg:  "expected unbounded or a positive integer",
		},
		{
			name: "bad deviate",
			text: `module m { namespace "u"; prefix m; deviation /m:x { deviate remove; } }`,
			code: yangerrors.ErrSource,
			msg:  "expected not-supported, add, replace or delete",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version := tt.version
			if version == "" {
				version = "1"
			}
			err := validateText(t, tt.text, version)
			require.Error(t, err)
			require.True(t, yangerrors.HasCode(err, tt.code), "err = %v", err)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestVersionDependentCardinality(t *testing.T) {
	d, ok := Lookup("identity", "1")
	require.True(t, ok)
	sub, ok := d.Sub("base", "1")
	require.True(t, ok)
	require.Equal(t, 1, sub.Max)
	sub, ok = d.Sub("base", "1.1")
	require.True(t, ok)
	require.Equal(t, Unbounded, sub.Max)

	_, ok = Lookup("anydata", "1")
	require.False(t, ok)
	_, ok = Lookup("anydata", "1.1")
	require.True(t, ok)
}

func TestTargetTables(t *testing.T) {
	require.True(t, DeviationTargetAllowed("type", "leaf"))
	require.False(t, DeviationTargetAllowed("type", "container"))
	require.True(t, DeviationTargetAllowed("ext-thing", "container"))
	require.True(t, RefineTargetAllowed("presence", "container"))
	require.False(t, RefineTargetAllowed("presence", "leaf"))
	require.True(t, AugmentTargetAllowed("choice"))
	require.False(t, AugmentTargetAllowed("leaf"))
	require.True(t, DeviateAllows(DeviateAdd, "unique"))
	require.False(t, DeviateAllows(DeviateAdd, "type"))
	require.True(t, SingletonOnAdd("default", "leaf"))
	require.False(t, SingletonOnAdd("default", "leaf-list"))
	require.Equal(t, uint32(0), ParseMaxElements("unbounded"))
	require.Equal(t, uint32(7), ParseMaxElements("7"))
}
