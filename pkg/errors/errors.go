// Package errors provides structured error types for the Pinport application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across parsing, matching, and migration
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation and source-format failures
//   - *_NOT_FOUND: Resource not found (profiles, files, backups)
//   - UNRESOLVED_*: Reconciliation outcomes awaiting a user decision
//   - INTERNAL_*: Unexpected internal errors
//
// A per-entry anomaly inside a source graph (one malformed item or space)
// is not an error value at all: parsers log it and continue. Only missing
// structural keys become INVALID_FORMAT, which aborts the run.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "sidebar key missing")
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle fatal format error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "read %s", path)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidSource Code = "INVALID_SOURCE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeProfileNotFound Code = "PROFILE_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeBackupNotFound  Code = "BACKUP_NOT_FOUND"

	// Reconciliation and confirmation outcomes
	ErrCodeUnresolved Code = "UNRESOLVED_SPACE"
	ErrCodeAborted    Code = "USER_ABORT"

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

// UnresolvedSpacesError reports spaces the matcher could not resolve
// automatically when no interactive fallback is available.
type UnresolvedSpacesError struct {
	Spaces []string // Space names with no matching workspace
}

// Error implements the error interface.
func (e *UnresolvedSpacesError) Error() string {
	if len(e.Spaces) == 1 {
		return fmt.Sprintf("no matching workspace for space %q", e.Spaces[0])
	}
	return fmt.Sprintf("no matching workspace for %d spaces", len(e.Spaces))
}

// Code returns the error code for this error type.
func (e *UnresolvedSpacesError) Code() Code {
	return ErrCodeUnresolved
}
