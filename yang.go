// Package yang compiles YANG modules (RFC 6020 and RFC 7950) into an
// immutable effective model.
//
// Sources are added to a SchemaSet, either as main sources that always
// appear in the result or as library sources that only appear when a main
// source imports or includes them. Compile runs the SOURCE_LINKAGE,
// STATEMENT_DEFINITION, FULL_DECLARATION and EFFECTIVE_MODEL phases and
// returns a *schema.Context.
package yang

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	yangerrors "github.com/jacoelho/yang/errors"
)

// invalidArgument reports API misuse. The result carries the
// yang-invalid-argument code and wraps an errbuilder error with
// CodeInvalidArgument.
func invalidArgument(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	cause := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
	return yangerrors.Wrap(yangerrors.ErrInvalidArgument, yangerrors.Reference{}, cause, "%s", msg)
}

// sourceNotFound reports a main source location missing from its file
// system. The cause keeps fs.ErrNotExist reachable and carries
// CodeNotFound.
func sourceNotFound(location string, err error) error {
	cause := errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("source " + location + " not found").
		WithCause(err)
	return yangerrors.Wrap(yangerrors.ErrSource, yangerrors.Reference{Source: location}, cause, "Source %s was not found", location)
}
