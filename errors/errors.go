package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrorCode identifies the family of a compilation failure.
type ErrorCode string

const (
	// ErrLexical indicates the source text could not be tokenized.
	ErrLexical ErrorCode = "yang-lexical"
	// ErrSource indicates a malformed statement: bad argument, unknown keyword,
	// duplicate definition or anything else attributable to the source text itself.
	ErrSource ErrorCode = "yang-source"
	// ErrInference indicates a reference could not be resolved or an inferred
	// effective statement violates a constraint.
	ErrInference ErrorCode = "yang-inference"
	// ErrInvalidSubstatement indicates a substatement is not allowed or appears
	// more often than its parent permits.
	ErrInvalidSubstatement ErrorCode = "yang-invalid-substatement"
	// ErrLinkage indicates sources could not be linked through import, include
	// or belongs-to.
	ErrLinkage ErrorCode = "yang-linkage"
	// ErrSomeModifiersUnresolved indicates a reactor phase failed to complete.
	// The per-source causes are available through Causes.
	ErrSomeModifiersUnresolved ErrorCode = "yang-some-modifiers-unresolved"
	// ErrInvalidArgument indicates the API was called with invalid input.
	ErrInvalidArgument ErrorCode = "yang-invalid-argument"
)

// Reference locates a statement in its source.
type Reference struct {
	Source string
	Line   int
	Column int
}

// String renders the reference as source:line:column.
func (r Reference) String() string {
	switch {
	case r.Source == "":
		return ""
	case r.Line <= 0:
		return r.Source
	default:
		return fmt.Sprintf("%s:%d:%d", r.Source, r.Line, r.Column)
	}
}

// IsZero reports whether the reference carries no location.
func (r Reference) IsZero() bool {
	return r.Source == "" && r.Line == 0 && r.Column == 0
}

// Error describes a failure to compile YANG sources.
type Error struct {
	Cause      error
	Code       ErrorCode
	Message    string
	Phase      string
	Suggestion string
	Ref        Reference
}

// New builds an Error with a formatted message.
func New(code ErrorCode, ref Reference, format string, args ...any) *Error {
	return &Error{Code: code, Ref: ref, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error carrying cause.
func Wrap(code ErrorCode, ref Reference, cause error, format string, args ...any) *Error {
	e := New(code, ref, format, args...)
	e.Cause = cause
	return e
}

// Error formats the message followed by the source reference and suggestion.
func (e *Error) Error() string {
	if e == nil {
		return "yang error <nil>"
	}

	var b strings.Builder
	b.WriteString(e.Message)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean '%s'?)", e.Suggestion)
	}
	if ref := e.Ref.String(); ref != "" {
		fmt.Fprintf(&b, " [at %s]", ref)
	}
	if e.Code == ErrSomeModifiersUnresolved && e.Cause != nil {
		fmt.Fprintf(&b, ": %s", firstCause(e.Cause).Error())
		if extra := len(Causes(e)) - 1; extra > 0 {
			fmt.Fprintf(&b, " (and %d more)", extra)
		}
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// WithSuggestion returns e after recording a "did you mean" hint.
func (e *Error) WithSuggestion(s string) *Error {
	if e != nil {
		e.Suggestion = s
	}
	return e
}

// WithPhase returns e after recording the reactor phase it failed in.
func (e *Error) WithPhase(phase string) *Error {
	if e != nil && e.Phase == "" {
		e.Phase = phase
	}
	return e
}

// Unresolved builds the phase failure wrapper. The first cause names the
// failing source; later causes are kept as suppressed errors.
func Unresolved(phase, source string, causes ...error) *Error {
	var merged *multierror.Error
	for _, c := range causes {
		if c != nil {
			merged = multierror.Append(merged, c)
		}
	}
	return &Error{
		Code:    ErrSomeModifiersUnresolved,
		Phase:   phase,
		Message: fmt.Sprintf("Some of %s modifiers for statements were not resolved in source %s", phase, source),
		Cause:   merged.ErrorOrNil(),
	}
}

// CodeOf returns the code of the outermost Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Code, true
}

// HasCode reports whether any Error in err's chain, including phase causes,
// carries code.
func HasCode(err error, code ErrorCode) bool {
	for _, e := range Flatten(err) {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Causes returns the per-source causes of a phase failure, or err itself.
func Causes(err error) []error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Code == ErrSomeModifiersUnresolved && e.Cause != nil {
		var merged *multierror.Error
		if errors.As(e.Cause, &merged) {
			return merged.WrappedErrors()
		}
		return []error{e.Cause}
	}
	return []error{err}
}

// Flatten returns every Error reachable from err, outermost first.
func Flatten(err error) []*Error {
	var out []*Error
	var walk func(error)
	walk = func(err error) {
		switch v := err.(type) {
		case nil:
		case *Error:
			if v == nil {
				return
			}
			out = append(out, v)
			walk(v.Cause)
		case *multierror.Error:
			if v == nil {
				return
			}
			for _, inner := range v.Errors {
				walk(inner)
			}
		default:
			walk(errors.Unwrap(err))
		}
	}
	walk(err)
	return out
}

func firstCause(err error) error {
	var merged *multierror.Error
	if errors.As(err, &merged) && len(merged.Errors) > 0 {
		return merged.Errors[0]
	}
	return err
}
