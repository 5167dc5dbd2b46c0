// Package apperrors defines the application error taxonomy shared by all
// layers. Handlers translate these into HTTP status codes; everything below
// the handler layer deals in *AppError values only.
package apperrors

import (
	"errors"
	"fmt"
)

// Code classifies an application error.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInvalidState Code = "INVALID_STATE"
	CodeSlotConflict Code = "SLOT_CONFLICT"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// AppError is a typed application error with a stable code.
type AppError struct {
	Code    Code
	Message string
	cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *AppError) Unwrap() error { return e.cause }

// Is matches on the error code so errors.Is works across instances.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

// WithCause attaches an underlying error for logging without changing the code.
func (e *AppError) WithCause(cause error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, cause: cause}
}

// NewValidationError reports malformed input rejected before any state change.
func NewValidationError(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg}
}

// NewUnauthorizedError reports missing or invalid credentials.
func NewUnauthorizedError(msg string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: msg}
}

// NewForbiddenError reports a role or ownership mismatch.
func NewForbiddenError(msg string) *AppError {
	return &AppError{Code: CodeForbidden, Message: msg}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewConflictError reports a uniqueness or concurrent-modification conflict.
func NewConflictError(msg string) *AppError {
	return &AppError{Code: CodeConflict, Message: msg}
}

// NewInvalidStateError reports a state machine transition whose precondition
// is unmet.
func NewInvalidStateError(from, to string) *AppError {
	return &AppError{Code: CodeInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewSlotConflictError reports an interval overlapping an active booking.
func NewSlotConflictError(msg string) *AppError {
	return &AppError{Code: CodeSlotConflict, Message: msg}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(msg string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: msg, cause: cause}
}

// CodeOf extracts the application error code, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
