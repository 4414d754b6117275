package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes surfaced to callers.
const (
	CodeConfig   = "CONFIG_ERROR"     // required credential/endpoint missing
	CodeUpstream = "UPSTREAM_FAILURE" // vision API returned a non-success status
	CodeInvalid  = "INVALID_INPUT"    // bad upload payload
	CodeInternal = "INTERNAL_ERROR"   // anything else, caught at the boundary
)

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
)

// NewAppError builds an AppError with an optional cause.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// UpstreamError carries the status and body of a failed vision-API call so
// the HTTP layer can relay both for diagnostics. Not retried automatically.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Body)
}

// WrapError annotates err without hiding the original cause.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
