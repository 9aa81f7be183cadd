package response

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeNetwork      = "NETWORK_ERROR"
	ErrCodeTimeout      = "TIMEOUT"
	ErrCodeServer       = "SERVER_ERROR"
	ErrCodeInconsistent = "INCONSISTENT_RESPONSE"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// NetworkErrorMessage is shown for transport failures and timeouts alike
const NetworkErrorMessage = "Could not reach the server. Please try again."

// AppError is the error type returned by every client operation
type AppError struct {
	Code       string
	Message    string
	Details    string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewValidationError creates a validation AppError
func NewValidationError(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// NewNetworkError wraps a transport failure
func NewNetworkError(err error) *AppError {
	return &AppError{Code: ErrCodeNetwork, Message: NetworkErrorMessage, Details: errString(err), Err: err}
}

// NewTimeoutError wraps a request that ran out of time
func NewTimeoutError(err error) *AppError {
	return &AppError{Code: ErrCodeTimeout, Message: NetworkErrorMessage, Details: errString(err), Err: err}
}

// CodeOf returns the AppError code of err, or ErrCodeInternal
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// MessageOf returns the user-facing message carried by err
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return GenericErrorMessage
}

// IsLocal reports whether err was raised before any request was sent
func IsLocal(err error) bool {
	switch CodeOf(err) {
	case ErrCodeValidation, ErrCodeUnauthorized:
		var appErr *AppError
		return errors.As(err, &appErr) && appErr.StatusCode == 0
	}
	return false
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
