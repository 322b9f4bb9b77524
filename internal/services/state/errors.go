// File: internal/services/state/errors.go
package state

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindValidation ErrorKind = "VALIDATION"
	KindStorage    ErrorKind = "STORAGE"
)

type Entity string

const (
	EntityAssistant Entity = "assistant"
	EntityThread    Entity = "thread"
	EntityMessage   Entity = "message"
)

// Error is the typed error set the state manager exposes. NotFound and
// Validation are caller mistakes; Storage means the persistence layer itself
// failed and the enclosing transaction was rolled back.
type Error struct {
	Kind      ErrorKind
	Entity    Entity
	Operation string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("state %s error in %s: %s (caused by: %v)",
			e.Kind, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("state %s error in %s: %s", e.Kind, e.Operation, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func NewNotFoundError(entity Entity, id string) *Error {
	return &Error{
		Kind:      KindNotFound,
		Entity:    entity,
		Operation: "lookup",
		Message:   fmt.Sprintf("%s not found: %s", entity, id),
	}
}

func NewValidationError(operation, msg string) *Error {
	return &Error{Kind: KindValidation, Operation: operation, Message: msg}
}

func NewStorageError(operation string, cause error) *Error {
	return &Error{Kind: KindStorage, Operation: operation, Message: "storage operation failed", Cause: cause}
}

// IsNotFound reports whether err is a state NotFound error.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindNotFound
}

// IsValidation reports whether err is a state Validation error.
func IsValidation(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindValidation
}
