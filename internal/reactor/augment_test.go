package reactor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const augmentBase = `module b {
	namespace "urn:b"; prefix b;
	container top {
		leaf name { type string; }
		choice transport { leaf tcp { type empty; } }
	}
	container state { config false; }
	grouping g { leaf from-group { type string; } }
	container reused { uses g; }
	rpc op { input { leaf in { type string; } } }
}`

func TestAugmentAcrossModules(t *testing.T) {
	ctx := mustCompile(t, augmentBase, `module a {
		namespace "urn:a"; prefix a;
		import b { prefix b; }
		augment "/b:top" {
			description "extends top";
			leaf extra { type string; }
			container nested { leaf deep { type int8; } }
		}
	}`)

	top := findNode(t, ctx, qn("urn:b", "top"))
	require.Equal(t, []string{"name", "transport", "extra", "nested"}, childNames(top))

	extra := findNode(t, ctx, qn("urn:b", "top"), qn("urn:a", "extra"))
	require.True(t, extra.Augmenting)
	require.False(t, extra.AddedByUses)
	require.Equal(t, []string{"top", "extra"}, []string{extra.Path[0].Name, extra.Path[1].Name})

	deep := findNode(t, ctx, qn("urn:b", "top"), qn("urn:a", "nested"), qn("urn:a", "deep"))
	require.True(t, deep.Augmenting)

	a, ok := ctx.FindModule("a", "")
	require.True(t, ok)
	require.Len(t, a.Augmentations, 1)
	aug := a.Augmentations[0]
	require.Equal(t, "/b:top", aug.Target)
	require.Equal(t, "extends top", aug.Description)
	require.Equal(t, []string{qn("urn:b", "top").Name}, []string{aug.TargetPath[0].Name})
	require.Equal(t, "urn:b", aug.TargetPath[0].Module.Namespace)
	require.Len(t, aug.Children, 2)
	require.Same(t, extra, aug.Children[0])

	require.Len(t, top.Augmentations, 1)
	require.Same(t, aug, top.Augmentations[0])
}

func TestAugmentChoiceWrapsInCase(t *testing.T) {
	ctx := mustCompile(t, augmentBase, `module a {
		namespace "urn:a"; prefix a;
		import b { prefix b; }
		augment "/b:top/b:transport" {
			leaf udp { type empty; }
			case quic { leaf quic { type empty; } }
		}
	}`)

	choice := findNode(t, ctx, qn("urn:b", "top"), qn("urn:b", "transport"))
	require.Equal(t, []string{"tcp", "udp", "quic"}, childNames(choice))
	udpCase := choice.Children[1]
	require.Equal(t, "case", udpCase.Kind.String())
	require.True(t, udpCase.Augmenting)
	require.Equal(t, "udp", udpCase.Children[0].QName.Name)
	require.Equal(t, "urn:a", udpCase.Children[0].QName.Module.Namespace)
}

func TestAugmentIntoUsesExpansion(t *testing.T) {
	ctx := mustCompile(t, augmentBase, `module a {
		namespace "urn:a"; prefix a;
		import b { prefix b; }
		augment "/b:reused" { leaf more { type string; } }
	}`)
	reused := findNode(t, ctx, qn("urn:b", "reused"))
	require.Equal(t, []string{"from-group", "more"}, childNames(reused))
	require.True(t, reused.Children[0].AddedByUses)
	require.True(t, reused.Children[1].Augmenting)
}

func TestAugmentMandatory(t *testing.T) {
	t.Run("rejected in config tree of other module", func(t *testing.T) {
		_, err := compile(t, Config{}, augmentBase, `module a {
			namespace "urn:a"; prefix a;
			import b { prefix b; }
			augment "/b:top" { leaf must-have { type string; mandatory true; } }
		}`)
		requirePhaseError(t, err, PhaseFullDeclaration,
			"An augment cannot add node 'must-have' because it is mandatory and in module different than target")
	})

	t.Run("rejected in state data", func(t *testing.T) {
		_, err := compile(t, Config{}, augmentBase, `module a {
			namespace "urn:a"; prefix a;
			import b { prefix b; }
			augment "/b:state" { leaf counter { type uint32; mandatory true; } }
		}`)
		requirePhaseError(t, err, PhaseFullDeclaration,
			"An augment cannot add node 'counter' because it is mandatory and in module different than target")
	})

	t.Run("rejected in rpc input", func(t *testing.T) {
		_, err := compile(t, Config{}, augmentBase, `module a {
			namespace "urn:a"; prefix a;
			import b { prefix b; }
			augment "/b:op/b:input" { leaf req { type string; mandatory true; } }
		}`)
		requirePhaseError(t, err, PhaseFullDeclaration,
			"An augment cannot add node 'req' because it is mandatory and in module different than target")
	})

	t.Run("rejected when stacked on own augment", func(t *testing.T) {
		_, err := compile(t, Config{}, augmentBase, `module a {
			namespace "urn:a"; prefix a;
			import b { prefix b; }
			augment "/b:top" { container c; }
			augment "/b:top/a:c" { leaf req { type string; mandatory true; } }
		}`)
		requirePhaseError(t, err, PhaseFullDeclaration,
			"An augment cannot add node 'req' because it is mandatory and in module different than target")
	})

	t.Run("allowed under own presence container", func(t *testing.T) {
		mustCompile(t, augmentBase, `module a {
			namespace "urn:a"; prefix a;
			import b { prefix b; }
			augment "/b:top" { container c { presence "enabled"; } }
			augment "/b:top/a:c" { leaf req { type string; mandatory true; } }
		}`)
	})

	t.Run("allowed under own optional list", func(t *testing.T) {
		mustCompile(t, augmentBase, `module a {
			namespace "urn:a"; prefix a;
			import b { prefix b; }
			augment "/b:top" { list entry { key id; leaf id { type string; } } }
			augment "/b:top/a:entry" { leaf req { type string; mandatory true; } }
		}`)
	})

	t.Run("allowed under own conditional augment", func(t *testing.T) {
		mustCompile(t, augmentBase, `module a {
			namespace "urn:a"; prefix a;
			import b { prefix b; }
			augment "/b:top" { when "b:name = 'x'"; container c; }
			augment "/b:top/a:c" { leaf req { type string; mandatory true; } }
		}`)
	})

	t.Run("allowed behind presence container", func(t *testing.T) {
		mustCompile(t, augmentBase, `module a {
			namespace "urn:a"; prefix a;
			import b { prefix b; }
			augment "/b:top" {
				container opt { presence "optional"; leaf v { type string; mandatory true; } }
			}
		}`)
	})

	t.Run("allowed with when in 1.1", func(t *testing.T) {
		mustCompile(t, augmentBase, `module a {
			yang-version 1.1;
			namespace "urn:a"; prefix a;
			import b { prefix b; }
			augment "/b:top" {
				when "b:name = 'x'";
				leaf must-have { type string; mandatory true; }
			}
		}`)
	})

	t.Run("allowed in same module", func(t *testing.T) {
		mustCompile(t, `module b {
			namespace "urn:b"; prefix b;
			container top;
			augment "/b:top" { leaf must-have { type string; mandatory true; } }
		}`)
	})
}

func TestAugmentErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{
			name: "target not found",
			body: `augment "/b:missing" { leaf x { type string; } }`,
			msg:  "Augment target '/b:missing' not found",
		},
		{
			name: "name collision",
			body: `augment "/b:top" { leaf x { type string; } leaf x { type int8; } }`,
			msg:  "An augment cannot add node named 'x' because this name is already used in target",
		},
		{
			name: "leaf target",
			body: `augment "/b:top/b:name" { leaf x { type string; } }`,
			msg:  "Augment target '/b:top/b:name' is a LEAF, which cannot be augmented",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compile(t, Config{}, augmentBase, `module a {
				namespace "urn:a"; prefix a;
				import b { prefix b; }
				`+tt.body+`
			}`)
			requirePhaseError(t, err, PhaseFullDeclaration, tt.msg)
		})
	}
}

func TestAugmentUnsupportedTargetIsDropped(t *testing.T) {
	ctx, err := compile(t, Config{SupportedFeatures: map[string][]string{"urn:b": {}}},
		`module b {
			namespace "urn:b"; prefix b;
			feature gated;
			container top { if-feature gated; }
			container kept;
		}`,
		`module a {
			namespace "urn:a"; prefix a;
			import b { prefix b; }
			augment "/b:top" { leaf x { type string; } }
			augment "/b:kept" { leaf y { type string; } }
		}`,
	)
	require.NoError(t, err)
	_, ok := ctx.FindNode(qn("urn:b", "top"))
	require.False(t, ok)
	kept := findNode(t, ctx, qn("urn:b", "kept"))
	require.Equal(t, []string{"y"}, childNames(kept))
}
