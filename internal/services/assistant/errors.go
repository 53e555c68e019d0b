// File: internal/services/assistant/errors.go
package assistant

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeForbidden  ErrorType = "FORBIDDEN"
	ErrTypeUpstream   ErrorType = "UPSTREAM"
	ErrTypeAccounting ErrorType = "ACCOUNTING"
	ErrTypeInternal   ErrorType = "INTERNAL"
)

// Error is the assistant's stable failure envelope. Every abort of a chat
// turn carries one of these; by the time a caller sees it, nothing from the
// turn has been persisted.
type Error struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("assistant %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("assistant %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *Error {
	return &Error{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation, msg string) *Error {
	return &Error{Type: ErrTypeNotFound, Operation: operation, Message: msg}
}

func NewForbiddenError(operation, msg string) *Error {
	return &Error{Type: ErrTypeForbidden, Operation: operation, Message: msg}
}

func NewUpstreamError(operation, msg string, cause error) *Error {
	return &Error{Type: ErrTypeUpstream, Operation: operation, Message: msg, Cause: cause}
}

func NewAccountingError(operation string, cause error) *Error {
	return &Error{Type: ErrTypeAccounting, Operation: operation, Message: "usage accounting failed", Cause: cause}
}

func NewInternalError(operation string, cause error) *Error {
	return &Error{Type: ErrTypeInternal, Operation: operation, Message: "internal failure", Cause: cause}
}

// TypeOf returns the error type, or INTERNAL for anything outside the
// assistant taxonomy.
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrTypeInternal
}
