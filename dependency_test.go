package yang_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jacoelho/yang"
	yangerrors "github.com/jacoelho/yang/errors"
)

func TestReadDependencyInfo(t *testing.T) {
	info, err := yang.ReadDependencyInfo("net@2024-02-01.yang", strings.NewReader(`module net {
		yang-version 1.1;
		namespace "urn:net"; prefix n;
		import types { prefix t; revision-date 2023-01-01; }
		import other { prefix o; }
		include net-sub;
		revision 2024-02-01;
		revision 2023-05-05;
		container c { uses t:g; }
	}`))
	require.NoError(t, err)
	require.Equal(t, "net", info.Name)
	require.Equal(t, "2024-02-01", info.Revision)
	require.Equal(t, "1.1", info.YangVersion)
	require.Equal(t, "urn:net", info.Namespace)
	require.Equal(t, "net@2024-02-01", info.Identifier())

	require.Len(t, info.Imports, 2)
	require.Equal(t, "types", info.Imports[0].Module)
	require.Equal(t, "2023-01-01", info.Imports[0].RevisionDate)
	require.Equal(t, "o", info.Imports[1].Prefix)
	require.Len(t, info.Includes, 1)
	require.Equal(t, "net-sub", info.Includes[0].Submodule)
}

func TestReadDependencyInfoSubmodule(t *testing.T) {
	info, err := yang.ReadDependencyInfo("sub.yang", strings.NewReader(
		`submodule sub { belongs-to net { prefix n; } }`))
	require.NoError(t, err)
	require.Equal(t, "submodule", info.Kind.String())
	require.Equal(t, "net", info.BelongsTo)
	require.Equal(t, "n", info.BelongsToPrefix)
}

func TestReadDependencyInfoErrors(t *testing.T) {
	_, err := yang.ReadDependencyInfo("m@2020-01-01.yang", strings.NewReader(
		`module m { namespace "urn:m"; prefix m; revision 2021-01-01; }`))
	require.ErrorContains(t, err, "declares revision 2020-01-01 in its file name")

	_, err = yang.ReadDependencyInfo("m.yang", strings.NewReader(`module m {`))
	require.True(t, yangerrors.HasCode(err, yangerrors.ErrLexical) || yangerrors.HasCode(err, yangerrors.ErrSource))

	_, err = yang.ReadDependencyInfo("m.yang", nil)
	requireInvalidArgument(t, err)
}
