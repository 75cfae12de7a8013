package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrConflict
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewValidation(message string, err error) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Err:     err,
	}
}

func NewConflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func Validation(message string) *AppError {
	return NewValidation(message, nil)
}

func Conflict(message string) *AppError {
	return NewConflict(message, nil)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

func code(err error) (ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return 0, false
}

func IsNotFound(err error) bool {
	c, ok := code(err)
	return ok && c == ErrNotFound
}

func IsValidation(err error) bool {
	c, ok := code(err)
	return ok && c == ErrValidation
}

func IsConflict(err error) bool {
	c, ok := code(err)
	return ok && c == ErrConflict
}

// HTTPStatus maps an error to the status code returned to clients.
// Validation and conflict failures are both client errors.
func HTTPStatus(err error) int {
	switch c, ok := code(err); {
	case !ok:
		return http.StatusInternalServerError
	case c == ErrNotFound:
		return http.StatusNotFound
	case c == ErrValidation, c == ErrConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
