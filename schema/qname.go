// Package schema is the effective model produced by compiling YANG
// modules. Values are built once by the compiler and never modified.
package schema

import (
	"fmt"
	"strings"
)

// Revision is a module revision date in YYYY-MM-DD form; empty when the
// module declares none.
type Revision string

// Compare orders revisions chronologically; the empty revision sorts first.
func (r Revision) Compare(o Revision) int {
	return strings.Compare(string(r), string(o))
}

// QNameModule identifies the namespace a node is instantiated in.
type QNameModule struct {
	Namespace string
	Revision  Revision
}

func (m QNameModule) String() string {
	if m.Revision == "" {
		return m.Namespace
	}
	return m.Namespace + "?revision=" + string(m.Revision)
}

// QName is a name qualified by its module.
type QName struct {
	Module QNameModule
	Name   string
}

// NewQName builds a QName.
func NewQName(namespace string, revision Revision, name string) QName {
	return QName{Module: QNameModule{Namespace: namespace, Revision: revision}, Name: name}
}

// Bind returns a QName with the same module and another local name.
func (q QName) Bind(name string) QName {
	return QName{Module: q.Module, Name: name}
}

func (q QName) String() string {
	if q.Module.Namespace == "" {
		return q.Name
	}
	return fmt.Sprintf("(%s)%s", q.Module, q.Name)
}

// Status is the value of a status statement.
type Status uint8

const (
	StatusCurrent Status = iota
	StatusDeprecated
	StatusObsolete
)

func (s Status) String() string {
	switch s {
	case StatusDeprecated:
		return "deprecated"
	case StatusObsolete:
		return "obsolete"
	default:
		return "current"
	}
}

// ParseStatus parses a status argument; unknown values map to current.
func ParseStatus(arg string) Status {
	switch arg {
	case "deprecated":
		return StatusDeprecated
	case "obsolete":
		return StatusObsolete
	default:
		return StatusCurrent
	}
}

// Documented carries the common documentation substatements.
type Documented struct {
	Description string
	Reference   string
	Status      Status
}
