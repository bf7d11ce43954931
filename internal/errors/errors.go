package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the self-test
// harness. These codes are used to signal the outcome of the program
// execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorSelfTest = 2   // Indicates a self-test section failed.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect
// user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// PreconditionError reports a violated API contract: a programmer error in
// calling code such as an undersized copy destination, an out-of-range bit
// index used for mutation, or unbalanced checkpoint nesting. These are never
// expected in correctly written algorithm code and are raised as panics
// rather than returned, so they surface immediately instead of propagating
// corrupt state.
type PreconditionError struct {
	// Op names the operation whose contract was violated.
	Op string
	// Message explains the violation.
	Message string
}

// Error returns a formatted message naming the operation and the violated
// contract.
func (e PreconditionError) Error() string {
	return fmt.Sprintf("precondition violated in %s: %s", e.Op, e.Message)
}

// NewPreconditionError creates a PreconditionError with a formatted message.
func NewPreconditionError(op, format string, a ...any) error {
	return PreconditionError{Op: op, Message: fmt.Sprintf(format, a...)}
}

// SelfTestError identifies which self-test section failed while preserving
// the underlying cause for inspection with errors.Is / errors.As.
type SelfTestError struct {
	// Section is the name of the self-test section that failed.
	Section string
	// Cause is the underlying failure.
	Cause error
}

// Error returns a formatted message naming the failed section.
func (e SelfTestError) Error() string {
	return fmt.Sprintf("self-test section %q failed: %v", e.Section, e.Cause)
}

// Unwrap returns the underlying cause, allowing for error chain inspection.
func (e SelfTestError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// Returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
