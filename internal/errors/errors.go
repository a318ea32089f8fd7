// Package apperrors defines the error types shared by the CLI and the HTTP
// server, and maps them to process exit codes.
//
// All wrapper types implement Unwrap so that errors.Is and errors.As see the
// underlying cause (for instance context.DeadlineExceeded or
// fibonacci.ErrInvalidArgument).
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Successful execution.
	ExitErrorGeneric  = 1   // Any error without a more specific code.
	ExitErrorTimeout  = 2   // The calculation hit its deadline.
	ExitErrorMismatch = 3   // Algorithms returned different values for the same n.
	ExitErrorConfig   = 4   // Invalid flags, environment or .env file.
	ExitErrorCanceled = 130 // Interrupted by SIGINT/SIGTERM.
)

// ConfigError reports invalid user configuration.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError returns a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError records which algorithm failed on which index.
type CalculationError struct {
	Algorithm string
	N         uint64
	Cause     error
}

func (e CalculationError) Error() string {
	if e.Algorithm == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s F(%d): %v", e.Algorithm, e.N, e.Cause)
}

func (e CalculationError) Unwrap() error { return e.Cause }

// NewCalculationError wraps cause. It returns nil when cause is nil.
func NewCalculationError(algorithm string, n uint64, cause error) error {
	if cause == nil {
		return nil
	}
	return CalculationError{Algorithm: algorithm, N: n, Cause: cause}
}

// MismatchError is returned when two algorithms disagree on F(n).
type MismatchError struct {
	N          uint64
	Algorithms []string
}

func (e MismatchError) Error() string {
	return fmt.Sprintf("results for F(%d) differ between %v", e.N, e.Algorithms)
}

// ServerError wraps a failure of the HTTP server (listen, shutdown).
type ServerError struct {
	Message string
	Cause   error
}

func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError returns a ServerError; cause may be nil.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError reports a single invalid input field, either a flag or an
// HTTP query parameter.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError returns a ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// WrapError prefixes err with a formatted context message. It returns nil
// when err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from cancellation or a deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	var (
		cfgErr      ConfigError
		valErr      ValidationError
		mismatchErr MismatchError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}
