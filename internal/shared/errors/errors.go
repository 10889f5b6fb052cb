package errors

import (
	"errors"
	"fmt"
)

// AppError represents an application error with a stable machine code so
// transport layers and clients can branch on cause without string matching.
type AppError struct {
	Code    string // Error code for client
	Message string // Human-readable message
	Err     error  // Underlying error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes. Each mutation or read path maps its failures onto exactly one
// of these, so a client can tell insufficient funds from a permission problem
// from bad input.
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInvalidAmount       = "INVALID_AMOUNT"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeInvalidOperation    = "INVALID_OPERATION"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// Forbidden creates a forbidden error
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// InvalidAmount creates an invalid amount error
func InvalidAmount(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidAmount,
		Message: message,
	}
}

// InsufficientBalance creates an insufficient balance error
func InsufficientBalance(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInsufficientBalance,
		Message: message,
	}
}

// InvalidOperation creates an invalid operation error
func InvalidOperation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidOperation,
		Message: message,
	}
}

// Validation creates a validation error
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
	}
}

// Internal creates an internal error
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts an AppError from an error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
