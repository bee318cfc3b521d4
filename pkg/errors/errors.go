// Package errors provides structured error types for uniquepaths.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the library
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_* / MALFORMED_*: Input validation failures
//   - *NOT_FOUND: Lookups of absent nodes, runs or cache entries
//   - RESOURCE_EXHAUSTED: A configured traversal bound was exceeded
//   - INTERNAL_*: Unexpected internal errors
//
// A degenerate estimate (no sampled walk reached the end node) is not an
// error: estimators report a zero count with a zero average length.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNodeNotFound, "node %v not in graph", key)
//	if errors.Is(err, errors.ErrCodeNodeNotFound) {
//	    // Handle lookup failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedInput, origErr, "line %d", n)
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
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeMalformedInput Code = "MALFORMED_INPUT"

	// Lookup errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"

	// Resource limits
	ErrCodeResourceExhausted Code = "RESOURCE_EXHAUSTED"
	ErrCodeTimeout           Code = "TIMEOUT"

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
	var r *ResourceExhaustedError
	if errors.As(err, &r) {
		return code == ErrCodeResourceExhausted
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var r *ResourceExhaustedError
	if errors.As(err, &r) {
		return r.Code()
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

// ResourceExhaustedError reports that a traversal exceeded a configured
// bound, such as the maximum depth of an explicit DFS stack.
type ResourceExhaustedError struct {
	Resource string // What ran out, e.g. "dfs depth"
	Limit    int    // The configured bound
}

// Error implements the error interface.
func (e *ResourceExhaustedError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("resource exhausted: %s exceeds limit of %d", e.Resource, e.Limit)
	}
	return fmt.Sprintf("resource exhausted: %s", e.Resource)
}

// Code returns the error code for this error type.
func (e *ResourceExhaustedError) Code() Code {
	return ErrCodeResourceExhausted
}
