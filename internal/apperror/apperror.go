// Package apperror defines the application error taxonomy shared by the
// services and the HTTP layer. Services return *AppError values for expected
// failures; handlers map them to status codes with StatusCode.
package apperror

import (
	"errors"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType int

const (
	// InternalError is a store or filesystem failure.
	InternalError ErrorType = iota
	// ValidationError is a missing or malformed required field.
	ValidationError
	// ConflictError is a signup with an email already on file.
	ConflictError
	// InvalidCredentialsError is a failed login. Unknown email and wrong
	// password produce the same error so nothing leaks about which was wrong.
	InvalidCredentialsError
	// NotFoundError is a lookup of an unknown post identifier.
	NotFoundError
)

// AppError carries a user-facing message and an optional underlying cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for the error type. Conflict and bad
// credentials map to 400, matching the public wire contract.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, ConflictError, InvalidCredentialsError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string) *AppError {
	return &AppError{Type: ValidationError, Message: message}
}

// NewConflictError creates a ConflictError.
func NewConflictError(message string) *AppError {
	return &AppError{Type: ConflictError, Message: message}
}

// NewInvalidCredentialsError creates an InvalidCredentialsError.
func NewInvalidCredentialsError(message string) *AppError {
	return &AppError{Type: InvalidCredentialsError, Message: message}
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(message string) *AppError {
	return &AppError{Type: NotFoundError, Message: message}
}

// NewInternalError creates an InternalError wrapping its cause.
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: InternalError, Message: message, Err: err}
}

// FromError extracts an *AppError from err's chain. It returns nil and false
// for plain errors, which handlers treat as internal failures.
func FromError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
