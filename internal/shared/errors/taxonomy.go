package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is the root of every malformed-input failure. Each bounded
// context wraps it in its own ErrInvalidInput so callers can match either.
var ErrValidation = errors.New("validation failed")

// genericPersistenceMessage is shown when the backend did not supply a message.
const genericPersistenceMessage = "the backend could not complete the request"

// PersistenceError reports a backend or transport failure from a gateway call.
type PersistenceError struct {
	// Op names the gateway call, e.g. "clear table".
	Op string
	// Message is the backend-supplied explanation, when there was one.
	Message string
	// Err is the underlying cause.
	Err error
}

// NewPersistenceError wraps err for the given gateway operation. A
// PersistenceError already present in the chain is returned unchanged so the
// backend message survives re-wrapping.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *PersistenceError
	if errors.As(err, &existing) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Message != "":
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(genericPersistenceMessage)
	}
	return b.String()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a malformed-input failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsPersistence reports whether err carries a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// Message renders err for an operator-facing notification. Backend-supplied
// messages win, validation errors keep their text, anything else falls back to
// a generic sentence.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		if msg := strings.TrimSpace(pe.Message); msg != "" {
			return msg
		}
		if pe.Op != "" {
			return fmt.Sprintf("%s failed: %s", pe.Op, genericPersistenceMessage)
		}
		return genericPersistenceMessage
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		if problem.Detail != "" {
			return problem.Detail
		}
		return problem.Title
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "an unexpected error occurred"
}
