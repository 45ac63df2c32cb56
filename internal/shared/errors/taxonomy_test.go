package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessage_PrefersBackendMessage(t *testing.T) {
	err := &PersistenceError{Op: "clear table", Message: "table is locked", Err: errors.New("409")}
	wrapped := fmt.Errorf("clear order: %w", err)

	require.Equal(t, "table is locked", Message(wrapped))
	require.True(t, IsPersistence(wrapped))
}

func TestMessage_GenericPersistenceFallback(t *testing.T) {
	err := NewPersistenceError("list items", errors.New("dial tcp: connection refused"))

	require.Equal(t, "list items failed: the backend could not complete the request", Message(err))
	require.Contains(t, err.Error(), "connection refused")
}

func TestNewPersistenceError_KeepsExistingBackendMessage(t *testing.T) {
	inner := &PersistenceError{Op: "create item", Message: "duplicate code"}
	err := NewPersistenceError("refresh", fmt.Errorf("wrapped: %w", inner))

	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "create item", pe.Op)
	require.Equal(t, "duplicate code", Message(err))
	require.Nil(t, NewPersistenceError("noop", nil))
}

func TestMessage_ValidationAndProblems(t *testing.T) {
	validation := fmt.Errorf("%w: price must not be negative", ErrValidation)
	require.Equal(t, "validation failed: price must not be negative", Message(validation))
	require.True(t, errors.Is(validation, ErrValidation))

	require.Equal(t, "Conflict", Message(ErrConflict))
	require.Equal(t, "item gone", Message(ErrNotFound.WithDetail("item gone")))
	require.Empty(t, Message(nil))
}
