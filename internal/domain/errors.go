package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals a missing customer record.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate customer id.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation signals one or more violated field constraints.
	ErrValidation = errors.New("validation failed")
	// ErrTransient signals a retryable backend failure.
	ErrTransient = errors.New("transient backend error")
	// ErrGatewayUnreachable signals that a customer's API base did not respond.
	ErrGatewayUnreachable = errors.New("gateway unreachable")
)

// Violation is a single violated field constraint.
type Violation struct {
	Field  string
	Reason string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Reason
}

// ValidationError wraps ErrValidation with the complete list of violations.
// Validators collect every violated field, not just the first.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation creates a validation error from collected violations.
// Returns nil when the list is empty so callers can return it directly.
func NewValidation(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

// AsValidation extracts a ValidationError from an error chain.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
