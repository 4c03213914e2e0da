package schema

// Import is an import of a module.
type Import struct {
	Module      string
	Prefix      string
	Revision    Revision
	Description string
	Reference   string
}

// RevisionInfo is a revision statement.
type RevisionInfo struct {
	Date        Revision
	Description string
	Reference   string
}

// Deviate is one deviate statement of a deviation.
type Deviate struct {
	// Kind is not-supported, add, replace or delete.
	Kind        string
	Config      *bool
	Mandatory   *bool
	MinElements *uint32
	MaxElements *uint32
	Type        *Type
	Units       string
	Defaults    []string
	Must        []Must
	Unique      [][]string
	Unknown     []*UnknownNode
}

// Deviation is the effective form of a deviation statement.
type Deviation struct {
	Target      string
	TargetPath  []QName
	Description string
	Reference   string
	Deviates    []Deviate
}

// Header holds the statements shared by modules and submodules.
type Header struct {
	Name         string
	YangVersion  string
	Revision     Revision
	Revisions    []RevisionInfo
	Organization string
	Contact      string
	Description  string
	Reference    string
	Imports      []Import
}

// Submodule is a submodule merged into its module.
type Submodule struct {
	Header
	BelongsTo string
	Prefix    string
}

// Module is a compiled module. Definitions of its submodules are merged in.
type Module struct {
	Header
	Namespace     string
	Prefix        string
	Submodules    []*Submodule
	Typedefs      []*Typedef
	Groupings     []*Grouping
	Identities    []*Identity
	Features      []*Feature
	Extensions    []*Extension
	Children      []*Node
	RPCs          []*Node
	Notifications []*Node
	Uses          []*Uses
	Augmentations []*Augmentation
	Deviations    []*Deviation
	Unknown       []*UnknownNode
}

// QNameModule returns the namespace and revision of the module.
func (m *Module) QNameModule() QNameModule {
	return QNameModule{Namespace: m.Namespace, Revision: m.Revision}
}

// Child returns a top-level data node, rpc or notification by name.
func (m *Module) Child(qn QName) (*Node, bool) {
	for _, list := range [][]*Node{m.Children, m.RPCs, m.Notifications} {
		if n, ok := findChild(list, qn); ok {
			return n, true
		}
	}
	return nil, false
}

// ChildNamed looks a top-level node up by local name.
func (m *Module) ChildNamed(name string) (*Node, bool) {
	return m.Child(QName{Module: m.QNameModule(), Name: name})
}
