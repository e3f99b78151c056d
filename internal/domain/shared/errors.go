package shared

import (
	"errors"
	"fmt"
)

// Error kinds. Every DomainError wraps exactly one of these so the
// presentation layer can translate it into a status code with errors.Is.
var (
	// ErrNotFound is returned when a referenced resource does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a create or rename would break a uniqueness rule
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput is returned when a value object rejects its input
	ErrInvalidInput = errors.New("invalid input")
)

// DomainError carries a machine readable code and a human readable message
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotFound builds a DomainError of kind ErrNotFound
func NewNotFound(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Err: ErrNotFound}
}

// NewConflict builds a DomainError of kind ErrConflict
func NewConflict(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Err: ErrConflict}
}

// NewInvalidInput builds a DomainError of kind ErrInvalidInput. The cause is
// kept in the message so that errors.Is only ever matches the kind.
func NewInvalidInput(code, field string, cause error) *DomainError {
	msg := fmt.Sprintf("invalid %s", field)
	if cause != nil {
		msg = fmt.Sprintf("invalid %s: %v", field, cause)
	}
	return &DomainError{Code: code, Message: msg, Err: ErrInvalidInput}
}

// MessageOf returns the DomainError message when err carries one
func MessageOf(err error) (string, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message, true
	}
	return "", false
}
