package shared

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthenticated indicates a missing, invalid or expired credential,
	// or a token whose subject no longer exists.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates an authenticated caller lacking a required permission.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates the requested record is absent or soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness violation on a designated field.
	ErrConflict = errors.New("conflict")
)

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Messages []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NewValidationError builds a ValidationError from messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
