// Package errors provides structured error types for jeweler.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP binding
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND: Catalog entries that do not exist
//   - CANCELLED / LIMIT_EXCEEDED: Search interrupted by the caller
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSpec, "count for color %d must be positive", i)
//	if errors.Is(err, errors.ErrCodeInvalidSpec) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "connect to %s", addr)
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
	ErrCodeInvalidSpec      Code = "INVALID_SPEC"
	ErrCodeInvalidMode      Code = "INVALID_MODE"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidObjective Code = "INVALID_OBJECTIVE"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Capacity errors. A capacity overrun is an invalid specification, see
	// [Error.Is].
	ErrCodeCapacityExceeded Code = "CAPACITY_EXCEEDED"
	ErrCodeLimitExceeded    Code = "LIMIT_EXCEEDED"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Interruption
	ErrCodeCancelled Code = "CANCELLED"

	// Backend errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

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

// Is makes code-only sentinels work with the standard errors.Is: an *Error
// matches any target *Error carrying the same code. CAPACITY_EXCEEDED also
// matches INVALID_SPEC.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	return t.Code == ErrCodeInvalidSpec && e.Code == ErrCodeCapacityExceeded
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

// IsValidation reports whether err is a caller input problem rather than a
// runtime failure. Bindings use it to choose between "bad request" and
// "internal error" responses.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidSpec, ErrCodeInvalidMode, ErrCodeInvalidInput,
		ErrCodeInvalidFormat, ErrCodeInvalidObjective, ErrCodeInvalidPath,
		ErrCodeCapacityExceeded:
		return true
	}
	return false
}
