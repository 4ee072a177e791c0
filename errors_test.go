package database

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorMatchesItsKindOnly(t *testing.T) {
	err := newError(ErrConnectionLost, msgConnectionLost, "SELECT 1", io.ErrUnexpectedEOF)
	require.True(t, errors.Is(err, ErrConnectionLost))
	require.False(t, errors.Is(err, ErrDatabase))
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	require.Equal(t, msgConnectionLost, err.Error())
}

func TestNormalizeKeepsExistingError(t *testing.T) {
	inner := newError(ErrConfig, "bad", "", nil)
	require.Same(t, inner, normalize(errors.Wrap(inner, "resolving"), "SELECT 1"))
}

func TestScriptErrorMessage(t *testing.T) {
	err := &ScriptError{Failures: []error{errors.New("first"), errors.New("second")}}
	require.Equal(t, "There were a number of issues: {first}; {second};", err.Error())
	require.True(t, errors.Is(err, ErrScriptExecution))
	require.False(t, errors.Is(err, ErrDatabase))
}
