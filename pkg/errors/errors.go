package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNetwork indicates the facility request could not be sent or timed out
	ErrorTypeNetwork ErrorType = "NETWORK"

	// ErrorTypeHTTP indicates the facility endpoint answered with a non-2xx status
	ErrorTypeHTTP ErrorType = "HTTP"

	// ErrorTypeDecode indicates a response body that is not the expected JSON shape
	ErrorTypeDecode ErrorType = "DECODE"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeGeolocation indicates location acquisition was denied or failed
	ErrorTypeGeolocation ErrorType = "GEOLOCATION"

	// ErrorTypeStorage indicates a durable storage read or write failure
	ErrorTypeStorage ErrorType = "STORAGE"

	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether err wraps an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNetwork,
		Message: message,
		Err:     err,
	}
}

// NewHTTPError creates a new error for a non-2xx response
func NewHTTPError(statusCode int) *AppError {
	return &AppError{
		Type:       ErrorTypeHTTP,
		Message:    fmt.Sprintf("facility api returned status %d", statusCode),
		StatusCode: statusCode,
	}
}

// NewDecodeError creates a new decode error
func NewDecodeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeDecode,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewGeolocationError creates a new geolocation error
func NewGeolocationError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeGeolocation,
		Message: message,
		Err:     err,
	}
}

// NewStorageError creates a new storage error
func NewStorageError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}
