package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fixtureContext() (*Context, *Module) {
	mod := QNameModule{Namespace: "urn:t", Revision: "2024-01-01"}
	qn := func(name string) QName { return QName{Module: mod, Name: name} }

	leaf := &Node{Kind: KindLeaf, QName: qn("name")}
	caseNode := &Node{Kind: KindCase, QName: qn("c"), Children: []*Node{leaf}}
	choice := &Node{Kind: KindChoice, QName: qn("ch"), Children: []*Node{caseNode}}
	top := &Node{Kind: KindContainer, QName: qn("top"), Children: []*Node{choice}}
	leaf.SetParent(caseNode)
	caseNode.SetParent(choice)
	choice.SetParent(top)

	in := &Node{Kind: KindInput, QName: qn("input"), Children: []*Node{{Kind: KindLeaf, QName: qn("arg")}}}
	rpc := &Node{Kind: KindRPC, QName: qn("reset"), Children: []*Node{in, {Kind: KindOutput, QName: qn("output")}}}

	base := &Identity{QName: qn("base")}
	mid := &Identity{QName: qn("mid"), Bases: []QName{base.QName}}
	leafID := &Identity{QName: qn("leaf"), Bases: []QName{mid.QName}}

	m := &Module{
		Header:     Header{Name: "t", Revision: mod.Revision},
		Namespace:  mod.Namespace,
		Children:   []*Node{top},
		RPCs:       []*Node{rpc},
		Identities: []*Identity{base, mid, leafID},
	}
	old := &Module{Header: Header{Name: "t", Revision: "2020-01-01"}, Namespace: mod.Namespace}
	return NewContext([]*Module{old, m}), m
}

func TestContextFindModule(t *testing.T) {
	ctx, m := fixtureContext()

	got, ok := ctx.FindModule("t", "")
	require.True(t, ok)
	require.Same(t, m, got)

	got, ok = ctx.FindModule("t", "2020-01-01")
	require.True(t, ok)
	require.Equal(t, Revision("2020-01-01"), got.Revision)

	_, ok = ctx.FindModule("t", "1999-01-01")
	require.False(t, ok)

	got, ok = ctx.FindModuleByNamespace("urn:t", "")
	require.True(t, ok)
	require.Same(t, m, got)

	require.Len(t, ctx.Modules(), 2)
}

func TestContextFindNode(t *testing.T) {
	ctx, m := fixtureContext()
	qn := func(name string) QName { return QName{Module: m.QNameModule(), Name: name} }

	n, ok := ctx.FindNode(qn("top"), qn("ch"), qn("c"), qn("name"))
	require.True(t, ok)
	require.Equal(t, KindLeaf, n.Kind)
	require.Equal(t, "c", n.Parent().QName.Name)

	_, ok = ctx.FindNode(qn("top"), qn("name"))
	require.False(t, ok)

	d, ok := ctx.FindDataNode(qn("top"), qn("name"))
	require.True(t, ok)
	require.Same(t, n, d)

	arg, ok := ctx.FindDataNode(qn("reset"), qn("arg"))
	require.True(t, ok)
	require.Equal(t, "arg", arg.QName.Name)

	rpc, ok := m.ChildNamed("reset")
	require.True(t, ok)
	require.NotNil(t, rpc.Input())
	require.NotNil(t, rpc.Output())
}

func TestContextDerivedIdentities(t *testing.T) {
	ctx, m := fixtureContext()
	qn := func(name string) QName { return QName{Module: m.QNameModule(), Name: name} }

	var names []string
	for _, id := range ctx.DerivedIdentities(qn("base")) {
		names = append(names, id.QName.Name)
	}
	require.ElementsMatch(t, []string{"mid", "leaf"}, names)
	require.Len(t, ctx.DerivedIdentities(qn("mid")), 1)
	require.Empty(t, ctx.DerivedIdentities(qn("leaf")))

	_, ok := ctx.FindIdentity(qn("mid"))
	require.True(t, ok)
}

func TestContextSlicesAreCopies(t *testing.T) {
	ctx, _ := fixtureContext()
	mods := ctx.Modules()
	mods[0] = nil
	require.NotNil(t, ctx.Modules()[0])
}

func TestQNameString(t *testing.T) {
	q := NewQName("urn:x", "2020-02-02", "a")
	require.Equal(t, "(urn:x?revision=2020-02-02)a", q.String())
	require.Equal(t, "b", q.Bind("b").Name)
	require.Equal(t, "a", QName{Name: "a"}.String())
	require.Equal(t, -1, Revision("").Compare("2020-01-01"))
}
