package reactor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jacoelho/yang/schema"
)

func TestUsesCopiesGroupingNodes(t *testing.T) {
	ctx := mustCompile(t, `module a {
		namespace "urn:a"; prefix a;
		grouping endpoint {
			leaf host { type string; }
			container tls { leaf enabled { type boolean; } }
		}
		grouping server {
			uses endpoint;
			leaf backlog { type uint16; }
		}
		container top {
			leaf first { type string; }
			uses server;
			leaf last { type string; }
		}
	}`)

	top := findNode(t, ctx, qn("urn:a", "top"))
	require.Equal(t, []string{"first", "host", "tls", "backlog", "last"}, childNames(top))
	require.False(t, top.Children[0].AddedByUses)
	require.True(t, top.Children[1].AddedByUses)
	require.False(t, top.Children[1].Augmenting)

	enabled := findNode(t, ctx, qn("urn:a", "top"), qn("urn:a", "tls"), qn("urn:a", "enabled"))
	require.True(t, enabled.AddedByUses)
	require.Equal(t, "boolean", enabled.Type.Builtin)

	require.NotEmpty(t, top.Uses)
	require.Equal(t, qn("urn:a", "server"), top.Uses[0].Grouping)

	m, _ := ctx.FindModule("a", "")
	require.Len(t, m.Groupings, 2)
	require.Equal(t, []string{"host", "tls", "backlog"}, groupingChildNames(m.Groupings[1].Children))
}

func groupingChildNames(nodes []*schema.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.QName.Name
	}
	return out
}

func TestUsesAcrossModulesRebindsNamespace(t *testing.T) {
	ctx := mustCompile(t,
		`module b {
			namespace "urn:b"; prefix b;
			typedef short-name { type string { length "1..5"; } }
			grouping named { leaf name { type short-name; } }
		}`,
		`module a {
			namespace "urn:a"; prefix a;
			import b { prefix bb; }
			container top { uses bb:named; }
		}`,
	)
	name := findNode(t, ctx, qn("urn:a", "top"), qn("urn:a", "name"))
	require.Equal(t, qn("urn:b", "short-name"), name.Type.QName)
	require.Equal(t, "5", name.Type.Lengths[0].Max)

	top := findNode(t, ctx, qn("urn:a", "top"))
	require.Equal(t, qn("urn:b", "named"), top.Uses[0].Grouping)
}

func TestUsesRefine(t *testing.T) {
	ctx := mustCompile(t, `module a {
		namespace "urn:a"; prefix a;
		grouping g {
			leaf mode { type string; }
			container opts { leaf level { type uint8; } }
		}
		container top {
			uses g {
				refine mode { default "auto"; description "refined"; mandatory false; }
				refine opts { presence "enables options"; }
				refine "opts/level" { default 3; }
			}
		}
	}`)

	mode := findNode(t, ctx, qn("urn:a", "top"), qn("urn:a", "mode"))
	require.Equal(t, []string{"auto"}, mode.Defaults)
	require.Equal(t, "refined", mode.Description)

	opts := findNode(t, ctx, qn("urn:a", "top"), qn("urn:a", "opts"))
	require.True(t, opts.IsPresence())

	level := findNode(t, ctx, qn("urn:a", "top"), qn("urn:a", "opts"), qn("urn:a", "level"))
	require.Equal(t, []string{"3"}, level.Defaults)

	top := findNode(t, ctx, qn("urn:a", "top"))
	refines := top.Uses[0].Refines
	require.Len(t, refines, 3)
	require.Equal(t, "mode", refines[0].Target)
	require.Same(t, mode, refines[0].Node)
	require.Same(t, level, refines[2].Node)

	m, _ := ctx.FindModule("a", "")
	gmode := m.Groupings[0].Children[0]
	require.Empty(t, gmode.Defaults, "refine must not leak into the grouping")
}

func TestUsesRefineErrors(t *testing.T) {
	tests := []struct {
		name   string
		refine string
		msg    string
	}{
		{
			name:   "invalid for target",
			refine: `refine opts { default x; }`,
			msg:    "can not perform refine of 'DEFAULT' for the target 'CONTAINER'",
		},
		{
			name:   "missing target",
			refine: `refine nope { description x; }`,
			msg:    "Refine target node nope not found.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(t, Config{}, `module a {
				namespace "urn:a"; prefix a;
				grouping g { container opts; }
				container top { uses g { `+tt.refine+` } }
			}`)
			requirePhaseError(t, err, PhaseFullDeclaration, tt.msg)
		})
	}
}

func TestUsesAugment(t *testing.T) {
	ctx := mustCompile(t, `module a {
		namespace "urn:a"; prefix a;
		grouping g { container opts { leaf level { type uint8; } } }
		container top {
			uses g {
				augment "opts" { leaf extra { type string; } }
			}
		}
	}`)
	extra := findNode(t, ctx, qn("urn:a", "top"), qn("urn:a", "opts"), qn("urn:a", "extra"))
	require.True(t, extra.Augmenting)
	require.True(t, extra.AddedByUses)

	top := findNode(t, ctx, qn("urn:a", "top"))
	require.Len(t, top.Uses[0].Augmentations, 1)
	aug := top.Uses[0].Augmentations[0]
	require.Equal(t, "opts", aug.Target)
	require.Len(t, aug.Children, 1)
	require.Same(t, extra, aug.Children[0])

	opts := findNode(t, ctx, qn("urn:a", "top"), qn("urn:a", "opts"))
	require.Len(t, opts.Augmentations, 1)
	require.Same(t, aug, opts.Augmentations[0])
}

func TestUsesIfFeatureSkipsExpansion(t *testing.T) {
	ctx, err := compile(t, Config{SupportedFeatures: map[string][]string{"urn:a": {}}}, `module a {
		namespace "urn:a"; prefix a;
		feature fancy;
		grouping g { leaf l { type string; } }
		container top { uses g { if-feature fancy; } }
	}`)
	require.NoError(t, err)
	top := findNode(t, ctx, qn("urn:a", "top"))
	require.Empty(t, top.Children)
	require.Empty(t, top.Uses)
}

func TestUsesAtModuleLevel(t *testing.T) {
	ctx := mustCompile(t, `module a {
		namespace "urn:a"; prefix a;
		grouping g { leaf flag { type boolean; } }
		leaf mode { type string; }
		uses g { when "mode = 'on'"; }
	}`)
	m, ok := ctx.FindModule("a", "")
	require.True(t, ok)
	require.Len(t, m.Uses, 1)
	require.Equal(t, qn("urn:a", "g"), m.Uses[0].Grouping)
	require.Equal(t, "mode = 'on'", m.Uses[0].When)

	flag := findNode(t, ctx, qn("urn:a", "flag"))
	require.True(t, flag.AddedByUses)
	require.Empty(t, flag.When)
}
