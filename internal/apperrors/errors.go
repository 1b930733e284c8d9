package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates an operation attempted from a state that does not allow it,
// e.g. approving a transaction that is no longer pending.
var ErrInvalidState = errors.New("invalid state")

// ErrForbidden indicates the actor lacks rights over the target entity.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal is used for infrastructure failures that callers cannot act on.
var ErrInternal = errors.New("internal error")

// Stable outcome codes returned to API clients.
const (
	CodeNotFound     = "not_found"
	CodeValidation   = "validation_error"
	CodeDuplicate    = "duplicate"
	CodeInvalidState = "invalid_state"
	CodeForbidden    = "forbidden"
	CodeUnauthorized = "unauthorized"
	CodeInternal     = "internal_error"
)

// Code returns the stable outcome code for err.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrDuplicate):
		return CodeDuplicate
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	default:
		return CodeInternal
	}
}

// AppError carries an HTTP-ish status code alongside a wrapped cause.
// Used by the storage layer for failures that are not domain errors.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. The cause is wrapped so errors.Is keeps working.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(appErr, ErrInternal) match 5xx app errors.
func (e *AppError) Is(target error) bool {
	return target == ErrInternal && e.Code >= 500
}
