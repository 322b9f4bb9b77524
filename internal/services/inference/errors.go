// File: internal/services/inference/errors.go
package inference

import (
	"errors"
	"fmt"
)

// Error is the single failure kind the inference layer surfaces: backend
// unreachable, non-success status, timeout and malformed payload all look the
// same to callers, which map any of them to a failed run.
type Error struct {
	Operation string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("inference error in %s: %s (caused by: %v)", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("inference error in %s: %s", e.Operation, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(operation, msg string, cause error) *Error {
	return &Error{Operation: operation, Message: msg, Cause: cause}
}

// IsInferenceError reports whether err originated in the inference layer.
func IsInferenceError(err error) bool {
	var ie *Error
	return errors.As(err, &ie)
}
