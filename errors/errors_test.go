package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(ErrSource, Reference{}, "bad %s", "thing"),
			want: "bad thing",
		},
		{
			name: "source without line",
			err:  New(ErrSource, Reference{Source: "a.yang"}, "bad"),
			want: "bad [at a.yang]",
		},
		{
			name: "full reference and suggestion",
			err:  New(ErrInference, Reference{Source: "a.yang", Line: 3, Column: 7}, "unknown").WithSuggestion("address"),
			want: "unknown (did you mean 'address'?) [at a.yang:3:7]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.err.Error())
		})
	}

	var nilErr *Error
	require.Equal(t, "yang error <nil>", nilErr.Error())
	require.Nil(t, nilErr.Unwrap())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("io failure")
	err := Wrap(ErrLinkage, Reference{Source: "b.yang"}, cause, "cannot read")
	require.ErrorIs(t, err, cause)
	require.Equal(t, ErrLinkage, err.Code)
}

func TestWithPhaseKeepsFirst(t *testing.T) {
	err := New(ErrSource, Reference{}, "x").WithPhase("SOURCE_LINKAGE").WithPhase("EFFECTIVE_MODEL")
	require.Equal(t, "SOURCE_LINKAGE", err.Phase)
}

func TestUnresolved(t *testing.T) {
	first := New(ErrInference, Reference{Source: "a.yang", Line: 1, Column: 2}, "first")
	second := New(ErrInvalidSubstatement, Reference{}, "second")
	third := New(ErrSource, Reference{}, "third")

	err := Unresolved("FULL_DECLARATION", "a.yang", first, nil, second, third)
	require.Equal(t, "FULL_DECLARATION", err.Phase)
	require.Equal(t,
		"Some of FULL_DECLARATION modifiers for statements were not resolved in source a.yang: first [at a.yang:1:2] (and 2 more)",
		err.Error())

	require.Equal(t, []error{first, second, third}, Causes(err))

	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, ErrSomeModifiersUnresolved, code)

	require.True(t, HasCode(err, ErrInvalidSubstatement))
	require.False(t, HasCode(err, ErrLexical))

	flat := Flatten(fmt.Errorf("wrapped: %w", err))
	require.Len(t, flat, 4)
	require.Same(t, err, flat[0])
	require.Same(t, third, flat[3])
}

func TestUnresolvedSingleCause(t *testing.T) {
	only := New(ErrSource, Reference{}, "only")
	err := Unresolved("STATEMENT_DEFINITION", "x.yang", only)
	require.Equal(t,
		"Some of STATEMENT_DEFINITION modifiers for statements were not resolved in source x.yang: only",
		err.Error())
	require.Len(t, Causes(err), 1)
}

func TestCausesOfPlainError(t *testing.T) {
	plain := errors.New("plain")
	require.Equal(t, []error{plain}, Causes(plain))
	require.Nil(t, Causes(nil))

	_, ok := CodeOf(plain)
	require.False(t, ok)
	require.Empty(t, Flatten(plain))
}

func TestReferenceIsZero(t *testing.T) {
	require.True(t, Reference{}.IsZero())
	require.False(t, Reference{Source: "a"}.IsZero())
}
