package errors

import (
	"errors"
	"fmt"
)

// Client input errors

var (
	// ErrInvalidInput indicates a malformed or incomplete analysis request
	ErrInvalidInput = errors.New("invalid request input")
)

// Upstream reasoning errors. These are caught by the failing agent and
// converted to a heuristic result; they never reach the caller.

var (
	// ErrTransport indicates the reasoning gateway could not be reached
	ErrTransport = errors.New("reasoning gateway unreachable")

	// ErrProtocol indicates the reasoning gateway returned a non-success status
	ErrProtocol = errors.New("reasoning gateway protocol error")

	// ErrParse indicates the reasoning response was not valid structured data
	ErrParse = errors.New("reasoning response not parseable")
)

// Run-level errors

var (
	// ErrAssembly indicates a response-assembly invariant was violated
	ErrAssembly = errors.New("response assembly invariant violated")

	// ErrUnavailable indicates a collaborator service is unavailable
	ErrUnavailable = errors.New("service unavailable")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")
)

// IsUpstream reports whether err belongs to the upstream-reasoning failure
// class (transport, protocol, parse, or field validation). Only these route
// an agent to its fallback path; programming errors must not.
func IsUpstream(err error) bool {
	if err == nil {
		return false
	}
	var verr *ValidationError
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrProtocol) ||
		errors.Is(err, ErrParse) ||
		errors.As(err, &verr)
}

// ValidationError represents a field-level validation failure
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
