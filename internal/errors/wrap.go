package errors

import (
	"fmt"
)

// ContextError wraps an error with additional context.
type ContextError struct {
	Message string
	Cause   error
}

func (e *ContextError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context message.
// The context is prepended to the error message.
func WithContext(err error, message string) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Message: message,
		Cause:   err,
	}
}

// WithContextf wraps an error with a formatted context message.
func WithContextf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}
