package schema

import (
	"slices"
)

// Context is the compiled, immutable set of modules. It is safe for
// concurrent use.
type Context struct {
	byName     map[string][]*Module
	byNS       map[string][]*Module
	identities map[QName]*Identity
	derived    map[QName][]*Identity
	modules    []*Module
}

// NewContext indexes modules. The modules must not be modified afterwards.
func NewContext(modules []*Module) *Context {
	c := &Context{
		byName:     make(map[string][]*Module),
		byNS:       make(map[string][]*Module),
		identities: make(map[QName]*Identity),
		derived:    make(map[QName][]*Identity),
		modules:    slices.Clone(modules),
	}
	slices.SortStableFunc(c.modules, func(a, b *Module) int {
		if a.Name != b.Name {
			if a.Name < b.Name {
				return -1
			}
			return 1
		}
		return b.Revision.Compare(a.Revision)
	})
	for _, m := range c.modules {
		c.byName[m.Name] = append(c.byName[m.Name], m)
		c.byNS[m.Namespace] = append(c.byNS[m.Namespace], m)
		for _, id := range m.Identities {
			c.identities[id.QName] = id
		}
	}
	for _, m := range c.modules {
		for _, id := range m.Identities {
			c.indexDerived(id, id, make(map[QName]bool))
		}
	}
	return c
}

// indexDerived records id as derived from every transitive base of cur.
func (c *Context) indexDerived(id, cur *Identity, seen map[QName]bool) {
	for _, base := range cur.Bases {
		if seen[base] {
			continue
		}
		seen[base] = true
		c.derived[base] = append(c.derived[base], id)
		if b, ok := c.identities[base]; ok {
			c.indexDerived(id, b, seen)
		}
	}
}

// Modules returns every module, ordered by name and newest revision first.
func (c *Context) Modules() []*Module {
	return slices.Clone(c.modules)
}

// FindModule returns the module with name and revision; an empty revision
// selects the latest one.
func (c *Context) FindModule(name string, revision Revision) (*Module, bool) {
	return pick(c.byName[name], revision)
}

// FindModuleByNamespace returns the module with namespace and revision; an
// empty revision selects the latest one.
func (c *Context) FindModuleByNamespace(namespace string, revision Revision) (*Module, bool) {
	return pick(c.byNS[namespace], revision)
}

func pick(mods []*Module, revision Revision) (*Module, bool) {
	if len(mods) == 0 {
		return nil, false
	}
	if revision == "" {
		return mods[0], true
	}
	for _, m := range mods {
		if m.Revision == revision {
			return m, true
		}
	}
	return nil, false
}

func (c *Context) module(qm QNameModule) (*Module, bool) {
	for _, m := range c.byNS[qm.Namespace] {
		if m.Revision == qm.Revision {
			return m, true
		}
	}
	return nil, false
}

// Submodules returns every submodule of every module.
func (c *Context) Submodules() []*Submodule {
	var out []*Submodule
	for _, m := range c.modules {
		out = append(out, m.Submodules...)
	}
	return out
}

// DataChildren returns the top-level data nodes of every module.
func (c *Context) DataChildren() []*Node {
	var out []*Node
	for _, m := range c.modules {
		out = append(out, m.Children...)
	}
	return out
}

// RPCs returns the rpcs of every module.
func (c *Context) RPCs() []*Node {
	var out []*Node
	for _, m := range c.modules {
		out = append(out, m.RPCs...)
	}
	return out
}

// Notifications returns the top-level notifications of every module.
func (c *Context) Notifications() []*Node {
	var out []*Node
	for _, m := range c.modules {
		out = append(out, m.Notifications...)
	}
	return out
}

// Features returns the features of every module.
func (c *Context) Features() []*Feature {
	var out []*Feature
	for _, m := range c.modules {
		out = append(out, m.Features...)
	}
	return out
}

// Extensions returns the extensions of every module.
func (c *Context) Extensions() []*Extension {
	var out []*Extension
	for _, m := range c.modules {
		out = append(out, m.Extensions...)
	}
	return out
}

// Identities returns the identities of every module.
func (c *Context) Identities() []*Identity {
	var out []*Identity
	for _, m := range c.modules {
		out = append(out, m.Identities...)
	}
	return out
}

// FindIdentity looks an identity up by name.
func (c *Context) FindIdentity(qn QName) (*Identity, bool) {
	id, ok := c.identities[qn]
	return id, ok
}

// DerivedIdentities returns the identities derived, directly or not, from
// qn.
func (c *Context) DerivedIdentities(qn QName) []*Identity {
	return slices.Clone(c.derived[qn])
}

// FindNode walks the schema tree, including choice, case, input and
// output nodes, from a top-level node of the first QName's module.
func (c *Context) FindNode(path ...QName) (*Node, bool) {
	if len(path) == 0 {
		return nil, false
	}
	m, ok := c.module(path[0].Module)
	if !ok {
		return nil, false
	}
	n, ok := m.Child(path[0])
	for _, qn := range path[1:] {
		if !ok {
			return nil, false
		}
		n, ok = n.Child(qn)
	}
	return n, ok
}

// FindDataNode walks the data tree, where choice, case, input and output
// nodes are transparent.
func (c *Context) FindDataNode(path ...QName) (*Node, bool) {
	if len(path) == 0 {
		return nil, false
	}
	m, ok := c.module(path[0].Module)
	if !ok {
		return nil, false
	}
	n, ok := findDataChild(m.Children, path[0])
	if !ok {
		n, ok = m.Child(path[0])
	}
	for _, qn := range path[1:] {
		if !ok {
			return nil, false
		}
		n, ok = dataStep(n, qn)
	}
	return n, ok
}

func dataStep(n *Node, qn QName) (*Node, bool) {
	if found, ok := findDataChild(n.Children, qn); ok {
		return found, true
	}
	for _, io := range []*Node{n.Input(), n.Output()} {
		if io == nil {
			continue
		}
		if found, ok := findDataChild(io.Children, qn); ok {
			return found, true
		}
	}
	return nil, false
}
