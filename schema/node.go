package schema

import "slices"

// Kind is the statement a schema node was declared with.
type Kind uint8

const (
	KindContainer Kind = iota
	KindLeaf
	KindLeafList
	KindList
	KindChoice
	KindCase
	KindAnydata
	KindAnyxml
	KindRPC
	KindAction
	KindInput
	KindOutput
	KindNotification
)

var kindNames = [...]string{
	KindContainer:    "container",
	KindLeaf:         "leaf",
	KindLeafList:     "leaf-list",
	KindList:         "list",
	KindChoice:       "choice",
	KindCase:         "case",
	KindAnydata:      "anydata",
	KindAnyxml:       "anyxml",
	KindRPC:          "rpc",
	KindAction:       "action",
	KindInput:        "input",
	KindOutput:       "output",
	KindNotification: "notification",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindOf maps a statement keyword to its node kind.
func KindOf(keyword string) (Kind, bool) {
	for k, name := range kindNames {
		if name == keyword {
			return Kind(k), true
		}
	}
	return 0, false
}

// IsData reports whether nodes of kind k appear in the data tree.
func (k Kind) IsData() bool {
	switch k {
	case KindContainer, KindLeaf, KindLeafList, KindList, KindAnydata, KindAnyxml:
		return true
	}
	return false
}

// Must is a must constraint.
type Must struct {
	Expression   string
	ErrorMessage string
	ErrorAppTag  string
	Description  string
	Reference    string
}

// UnknownNode is an instance of an extension statement.
type UnknownNode struct {
	Extension QName
	Keyword   string
	Argument  string
	Children  []*UnknownNode
}

// Refine records a refined node of a uses.
type Refine struct {
	Target string
	Node   *Node
}

// Uses is the effective form of a uses statement.
type Uses struct {
	Grouping      QName
	When          string
	IfFeatures    []string
	Refines       []Refine
	Augmentations []*Augmentation
	Documented
}

// Augmentation is the effective form of an augment statement.
type Augmentation struct {
	Target     string
	TargetPath []QName
	When       string
	IfFeatures []string
	Children   []*Node
	Unknown    []*UnknownNode
	Documented
}

// Node is a schema tree node.
type Node struct {
	parent *Node

	Type *Type
	// DefaultCase names the default case of a choice.
	DefaultCase *QName

	Path  []QName
	QName QName
	Documented

	When       string
	Units      string
	Presence   string
	OrderedBy  string
	IfFeatures []string
	Must       []Must
	Defaults   []string
	Keys       []QName
	// Unique lists the unique constraints of a list, each as descendant
	// schema node identifiers.
	Unique        [][]string
	Children      []*Node
	Uses          []*Uses
	Augmentations []*Augmentation
	Unknown       []*UnknownNode

	MinElements uint32
	// MaxElements is 0 when unbounded.
	MaxElements uint32

	Kind        Kind
	Config      bool
	Mandatory   bool
	AddedByUses bool
	Augmenting  bool
}

// Parent returns the enclosing node, nil at the top level.
func (n *Node) Parent() *Node {
	return n.parent
}

// SetParent links n under parent. The compiler calls it while assembling
// the tree.
func (n *Node) SetParent(parent *Node) {
	n.parent = parent
}

// IsPresence reports whether a container has a presence statement.
func (n *Node) IsPresence() bool {
	return n.Kind == KindContainer && n.Presence != ""
}

// Child returns the schema tree child named qn.
func (n *Node) Child(qn QName) (*Node, bool) {
	return findChild(n.Children, qn)
}

// ChildNamed returns the first schema tree child with local name name.
func (n *Node) ChildNamed(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.QName.Name == name {
			return c, true
		}
	}
	return nil, false
}

// DataChild returns the data tree child named qn, looking through choice
// and case nodes.
func (n *Node) DataChild(qn QName) (*Node, bool) {
	return findDataChild(n.Children, qn)
}

// Input returns the input of an rpc or action.
func (n *Node) Input() *Node {
	return n.ioChild(KindInput)
}

// Output returns the output of an rpc or action.
func (n *Node) Output() *Node {
	return n.ioChild(KindOutput)
}

func (n *Node) ioChild(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// IsKey reports whether the leaf n is a key of its parent list.
func (n *Node) IsKey() bool {
	p := n.parent
	return n.Kind == KindLeaf && p != nil && p.Kind == KindList && slices.Contains(p.Keys, n.QName)
}

func findChild(children []*Node, qn QName) (*Node, bool) {
	for _, c := range children {
		if c.QName == qn {
			return c, true
		}
	}
	return nil, false
}

func findDataChild(children []*Node, qn QName) (*Node, bool) {
	for _, c := range children {
		switch c.Kind {
		case KindChoice, KindCase:
			if found, ok := findDataChild(c.Children, qn); ok {
				return found, true
			}
		default:
			if c.QName == qn {
				return c, true
			}
		}
	}
	return nil, false
}
