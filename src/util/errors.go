package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every error surfaced to a client wraps exactly one of these.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
)

// AppError pairs an error kind with the message shown to the client.
// Details, when set, is returned to the client as the response data.
type AppError struct {
	Kind    error
	Message string
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newAppError(kind error, format string, args ...any) error {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return newAppError(ErrValidation, format, args...)
}

func NotFound(format string, args ...any) error {
	return newAppError(ErrNotFound, format, args...)
}

func Conflict(format string, args ...any) error {
	return newAppError(ErrConflict, format, args...)
}

func InvalidOperation(format string, args ...any) error {
	return newAppError(ErrInvalidOperation, format, args...)
}

func Unauthorized(format string, args ...any) error {
	return newAppError(ErrUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newAppError(ErrForbidden, format, args...)
}

// Wrap attaches a cause that is logged but never shown to the client.
func Wrap(kind error, message string, err error) error {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// StatusFor maps an error to its HTTP status. Unknown errors are internal.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidOperation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show a client.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && StatusFor(err) != http.StatusInternalServerError {
		return appErr.Message
	}
	return "Internal server error"
}
