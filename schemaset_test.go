package yang_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jacoelho/yang"
	yangerrors "github.com/jacoelho/yang/errors"
	"github.com/jacoelho/yang/schema"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return fsys
}

func moduleNames(ctx *schema.Context) []string {
	var out []string
	for _, m := range ctx.Modules() {
		out = append(out, m.Name)
	}
	return out
}

func TestSchemaSetCompileResolvesImportsFromFS(t *testing.T) {
	fsys := mapFS(map[string]string{
		"main.yang": `module main {
			namespace "urn:main"; prefix m;
			import types { prefix t; }
			leaf port { type t:port; }
		}`,
		"types@2024-01-01.yang": `module types {
			namespace "urn:types"; prefix t;
			revision 2024-01-01;
			typedef port { type uint16 { range "1..65535"; } }
		}`,
		"types@2023-01-01.yang": `module types {
			namespace "urn:types"; prefix t;
			revision 2023-01-01;
			typedef port { type uint16; }
		}`,
	})

	set := yang.NewSchemaSet()
	require.NoError(t, set.AddFS(fsys, "main.yang"))
	ctx, err := set.Compile(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"main", "types"}, moduleNames(ctx))

	types, ok := ctx.FindModule("types", "2024-01-01")
	require.True(t, ok, "latest revision is imported")
	require.Equal(t, "urn:types", types.Namespace)

	main, ok := ctx.FindModule("main", "")
	require.True(t, ok)
	port, ok := main.ChildNamed("port")
	require.True(t, ok)
	require.Equal(t, "1", port.Type.Ranges[0].Min)
}

func TestSchemaSetLibrarySourcesOnlyWhenRequired(t *testing.T) {
	library := mapFS(map[string]string{
		"lib/used.yang":   `module used { namespace "urn:used"; prefix u; grouping g { leaf l { type string; } } }`,
		"lib/unused.yang": `module unused { namespace "urn:unused"; prefix x; }`,
		"lib/notes.txt":   `not a module`,
	})

	set := yang.NewSchemaSet()
	require.NoError(t, set.AddLibraryFS(library, "lib/**/*.yang"))
	require.NoError(t, set.AddSource("app.yang", strings.NewReader(`module app {
		namespace "urn:app"; prefix app;
		import used { prefix u; }
		container c { uses u:g; }
	}`)))

	ctx, err := set.Compile(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"app", "used"}, moduleNames(ctx))

	leaf, ok := ctx.FindNode(
		schema.QName{Module: schema.QNameModule{Namespace: "urn:app"}, Name: "c"},
		schema.QName{Module: schema.QNameModule{Namespace: "urn:app"}, Name: "l"},
	)
	require.True(t, ok)
	require.True(t, leaf.AddedByUses)
}

func TestSchemaSetSameLocationDistinctFS(t *testing.T) {
	fsysA := mapFS(map[string]string{
		"model.yang":  `module a { namespace "urn:a"; prefix a; import common { prefix c; } leaf x { type c:id; } }`,
		"common.yang": `module common { namespace "urn:common"; prefix c; typedef id { type string; } }`,
	})
	fsysB := mapFS(map[string]string{
		"model.yang": `module b { namespace "urn:b"; prefix b; leaf y { type string; } }`,
	})

	set := yang.NewSchemaSet()
	require.NoError(t, set.AddFS(fsysA, "model.yang"))
	require.NoError(t, set.AddFS(fsysB, "model.yang"))
	ctx, err := set.Compile(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "common"}, moduleNames(ctx))
}

func TestSchemaSetFeaturesAndDeviations(t *testing.T) {
	fsys := mapFS(map[string]string{
		"base.yang": `module base {
			namespace "urn:base"; prefix b;
			feature tls;
			container server {
				leaf port { type uint16; }
				leaf tls-cert { if-feature tls; type string; }
				leaf debug { type boolean; }
			}
		}`,
		"base-dev.yang": `module base-dev {
			namespace "urn:base-dev"; prefix bd;
			import base { prefix b; }
			deviation "/b:server/b:debug" { deviate not-supported; }
		}`,
	})
	names := func(opts yang.LoadOptions) []string {
		t.Helper()
		ctx, err := yang.LoadWithOptions(context.Background(), fsys, opts, "base.yang", "base-dev.yang")
		require.NoError(t, err)
		server, ok := ctx.FindNode(schema.QName{Module: schema.QNameModule{Namespace: "urn:base"}, Name: "server"})
		require.True(t, ok)
		var out []string
		for _, c := range server.Children {
			out = append(out, c.QName.Name)
		}
		return out
	}

	require.Equal(t, []string{"port", "tls-cert"}, names(yang.NewLoadOptions()))
	require.Equal(t, []string{"port"}, names(yang.NewLoadOptions().WithSupportedFeatures("urn:base")))
	require.Equal(t, []string{"port", "tls-cert", "debug"},
		names(yang.NewLoadOptions().WithModuleDeviatedBy("base", "other")))
	require.Equal(t, []string{"port", "tls-cert"},
		names(yang.NewLoadOptions().WithModuleDeviatedBy("base", "base-dev")))
}

func TestSchemaSetPhaseFailure(t *testing.T) {
	fsys := mapFS(map[string]string{
		"bad.yang": `module bad {
			namespace "urn:bad"; prefix b;
			grouping address { leaf ip { type string; } }
			container c { uses adress; }
		}`,
	})
	_, err := yang.Load(fsys, "bad.yang")
	require.Error(t, err)

	var yerr *yangerrors.Error
	require.True(t, errors.As(err, &yerr))
	require.Equal(t, yangerrors.ErrSomeModifiersUnresolved, yerr.Code)
	require.Equal(t, "FULL_DECLARATION", yerr.Phase)
	require.ErrorContains(t, err, "did you mean 'address'?")

	causes := yangerrors.Causes(yerr)
	require.Len(t, causes, 1)
	code, ok := yangerrors.CodeOf(causes[0])
	require.True(t, ok)
	require.Equal(t, yangerrors.ErrInference, code)
}

func TestSchemaSetLinkageFailure(t *testing.T) {
	fsys := mapFS(map[string]string{
		"a.yang": `module a { namespace "urn:a"; prefix a; import missing { prefix m; } }`,
	})
	_, err := yang.Load(fsys, "a.yang")
	require.Error(t, err)
	require.True(t, yangerrors.HasCode(err, yangerrors.ErrLinkage))
	require.ErrorContains(t, err, "Imported module missing was not found")
}

func TestSchemaSetInvalidArguments(t *testing.T) {
	set := yang.NewSchemaSet()
	tests := []struct {
		name string
		err  error
	}{
		{name: "nil fs", err: set.AddFS(nil, "a.yang")},
		{name: "no locations", err: set.AddFS(fstest.MapFS{})},
		{name: "blank location", err: set.AddFS(fstest.MapFS{}, " ")},
		{name: "nil library", err: set.AddLibraryFS(nil)},
		{name: "nil reader", err: set.AddSource("a.yang", nil)},
		{name: "empty name", err: set.AddSource("", strings.NewReader(""))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireInvalidArgument(t, tt.err)
		})
	}

	_, err := set.Compile(context.Background())
	requireInvalidArgument(t, err)
}

func requireInvalidArgument(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	require.True(t, yangerrors.HasCode(err, yangerrors.ErrInvalidArgument))
	var builder *errbuilder.ErrBuilder
	require.True(t, errors.As(err, &builder))
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(builder))
}

func TestSchemaSetSourceSizeLimit(t *testing.T) {
	set := yang.NewSchemaSet(yang.NewLoadOptions().WithMaxSourceSize(16))
	require.NoError(t, set.AddSource("a.yang", strings.NewReader(`module a { namespace "urn:a"; prefix a; }`)))
	_, err := set.Compile(context.Background())
	require.ErrorContains(t, err, "exceeds maximum size of 16 bytes")
}

func TestSchemaSetCustomResolver(t *testing.T) {
	deps := mapFS(map[string]string{
		"dep.yang": `module dep { namespace "urn:dep"; prefix d; typedef name { type string; } }`,
	})
	opts := yang.NewLoadOptions().WithResolver(yang.NewFSResolver(deps))
	set := yang.NewSchemaSet(opts)
	require.NoError(t, set.AddSource("app.yang", strings.NewReader(`module app {
		namespace "urn:app"; prefix a;
		import dep { prefix d; }
		leaf n { type d:name; }
	}`)))
	ctx, err := set.Compile(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"app", "dep"}, moduleNames(ctx))
}

func TestCompiledContextConcurrentLookups(t *testing.T) {
	ctx, err := yang.Load(mapFS(map[string]string{
		"a.yang": `module a {
			namespace "urn:a"; prefix a;
			identity base;
			identity derived { base base; }
			container c { leaf l { type string; } }
		}`,
	}), "a.yang")
	require.NoError(t, err)

	top := schema.QName{Module: schema.QNameModule{Namespace: "urn:a"}, Name: "c"}
	leaf := schema.QName{Module: schema.QNameModule{Namespace: "urn:a"}, Name: "l"}
	base := schema.QName{Module: schema.QNameModule{Namespace: "urn:a"}, Name: "base"}

	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 100 {
				n, ok := ctx.FindNode(top, leaf)
				if !ok || n.QName != leaf {
					t.Error("FindNode returned a different node")
					return
				}
				if len(ctx.DerivedIdentities(base)) != 1 {
					t.Error("DerivedIdentities changed")
					return
				}
			}
		}()
	}
	for range 8 {
		<-done
	}
}
