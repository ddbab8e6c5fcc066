// Package errors provides consistent error types for the Materna CLI.
// It defines three main categories: UserError (fixable by user), SystemError (system issues),
// and RecoverableError (can be automatically retried).
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common conditions.
var (
	ErrReminderNotFound   = errors.New("reminder not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrMedicationNotFound = errors.New("medication not found")
	ErrSinkNotFound       = errors.New("sink not found")
	ErrProfileNotSet      = errors.New("pregnancy profile not configured")
	ErrInvalidClockTime   = errors.New("invalid clock time")
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrInvalidRepeatRule  = errors.New("invalid repeat rule")
	ErrInvalidURL         = errors.New("invalid URL")
	ErrNoProvider         = errors.New("no content provider configured")
	ErrProviderFailed     = errors.New("all content providers failed")
	ErrDaemonRunning      = errors.New("daemon already running")
	ErrDaemonNotRunning   = errors.New("daemon not running")
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrTimeout            = errors.New("operation timed out")
)

// UserError represents an error that the user can fix.
// Examples: invalid input, missing required arguments, incorrect format.
type UserError struct {
	Message    string // What happened
	Suggestion string // How to fix it
	Field      string // The field/input that caused the error (optional)
	Value      string // The invalid value (optional)
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Field != "" && e.Value != "" {
		msg = fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return msg
}

// NewUserError creates a new UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewUserErrorWithField creates a new UserError with field context.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Field:      field,
		Value:      value,
		Suggestion: suggestion,
	}
}

// SystemError represents a system-level error that the user cannot directly fix.
// Examples: disk full, network failure, database corruption.
type SystemError struct {
	Message string // What happened
	Cause   error  // The underlying error
	Op      string // The operation that failed (optional)
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a new SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
	}
}

// NewSystemErrorWithOp creates a new SystemError with operation context.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Op:      op,
	}
}

// RecoverableError represents an error that can be automatically retried.
// Examples: temporary network failure, transient provider outage.
type RecoverableError struct {
	Message    string // What happened
	Cause      error  // The underlying error
	RetryCount int    // Number of retries attempted so far
	MaxRetries int    // Maximum number of retries allowed
	CanRetry   bool   // Whether retry is still possible
}

func (e *RecoverableError) Error() string {
	if e.RetryCount > 0 {
		return fmt.Sprintf("%s (attempt %d/%d)", e.Message, e.RetryCount, e.MaxRetries)
	}
	return e.Message
}

func (e *RecoverableError) Unwrap() error {
	return e.Cause
}

// NewRecoverableError creates a new RecoverableError.
func NewRecoverableError(message string, cause error, maxRetries int) *RecoverableError {
	return &RecoverableError{
		Message:    message,
		Cause:      cause,
		MaxRetries: maxRetries,
		CanRetry:   true,
	}
}

// IncrementRetry increments the retry count and updates CanRetry.
func (e *RecoverableError) IncrementRetry() {
	e.RetryCount++
	e.CanRetry = e.RetryCount < e.MaxRetries
}

// IsUserError checks if an error is a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsSystemError checks if an error is a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// IsRecoverableError checks if an error is a RecoverableError.
func IsRecoverableError(err error) bool {
	var re *RecoverableError
	return errors.As(err, &re)
}

// Suggestion extracts the suggestion from a UserError, if any.
func Suggestion(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Suggestion
	}
	return ""
}
