// Package errors provides structured error types for bubblerow.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP server can
// map them to exit statuses and response codes without string matching.
//
// # Error Codes
//
//   - INVALID_*: caller contract violations (bad metric name, bad dataset)
//   - *_NOT_FOUND: lookups that the caller asked to fail loudly
//   - INTERNAL_ERROR: unexpected failures
//
// Unknown entity ids inside the layout engine are not errors; the engine
// reports them with an ok flag and leaves the fallback to the caller.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidMetric, "unknown metric %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidMetric) {
//	    // reject before invoking the engine
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidDataset, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidMetric  Code = "INVALID_METRIC"
	ErrCodeInvalidDataset Code = "INVALID_DATASET"
	ErrCodeDuplicateID    Code = "DUPLICATE_ID"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeEntityNotFound  Code = "ENTITY_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsClientError reports whether err was caused by bad caller input rather
// than an internal failure. The HTTP server uses it to pick 4xx over 5xx.
func IsClientError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidMetric, ErrCodeInvalidDataset,
		ErrCodeDuplicateID, ErrCodeInvalidFormat, ErrCodeInvalidPath, ErrCodeInvalidConfig:
		return true
	}
	return false
}

// IsNotFound reports whether err carries one of the not-found codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeEntityNotFound, ErrCodeSessionNotFound, ErrCodeFileNotFound:
		return true
	}
	return false
}
