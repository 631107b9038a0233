// Package errors provides structured error types for flowgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the TUI and the HTTP adapter
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation and rejected gestures
//   - IMPORT_*: Rejected import documents (the prior flow is kept)
//   - NOT_FOUND: Unknown flow, node or edge
//   - INTERNAL_*: Unexpected internal errors
//
// None of these are fatal: every one is recoverable at the UI boundary.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "unknown node kind: %s", kind)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeImportMalformed, origErr, "decode flow document")
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
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidConnection Code = "INVALID_CONNECTION"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Import errors
	ErrCodeImportMalformed    Code = "IMPORT_MALFORMED"
	ErrCodeImportInvalidNode  Code = "IMPORT_INVALID_NODE"
	ErrCodeImportInvalidEdge  Code = "IMPORT_INVALID_EDGE"
	ErrCodeImportDanglingEdge Code = "IMPORT_DANGLING_EDGE"
	ErrCodeImportInvalidGraph Code = "IMPORT_INVALID_GRAPH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Edit session errors
	ErrCodeNotEditing Code = "NOT_EDITING"

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

// ErrorCode returns the code as a plain string, for consumers that must not
// import this package.
func (e *Error) ErrorCode() string {
	return string(e.Code)
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
