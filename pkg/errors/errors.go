// Package errors provides structured error types for a9s.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so that the CLI, the HTTP server and the annotator can react to it
// without string matching:
//   - MALFORMED_SELECTOR: a selector does not match the fragment grammar
//   - INVALID_*: input, geometry, grab or state validation failures
//   - *NOT_FOUND: missing annotations or files
//   - STORE_ERROR / INTERNAL_ERROR: backend and unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedSelector, "unexpected prefix %q", v)
//	if errors.Is(err, errors.ErrCodeMalformedSelector) {
//	    // reject the request
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "put annotation %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Selector and geometry errors
	ErrCodeMalformedSelector Code = "MALFORMED_SELECTOR"
	ErrCodeInvalidGeometry   Code = "INVALID_GEOMETRY"

	// Interaction errors
	ErrCodeInvalidGrab  Code = "INVALID_GRAB"
	ErrCodeInvalidState Code = "INVALID_STATE"
	ErrCodeUnknownTool  Code = "UNKNOWN_TOOL"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound           Code = "NOT_FOUND"
	ErrCodeAnnotationNotFound Code = "ANNOTATION_NOT_FOUND"
	ErrCodeFileNotFound       Code = "FILE_NOT_FOUND"

	// Backend errors
	ErrCodeStore Code = "STORE_ERROR"

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

// IsValidation reports whether err carries a code caused by bad caller input
// rather than by a backend or internal failure.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeMalformedSelector, ErrCodeInvalidGeometry, ErrCodeInvalidGrab,
		ErrCodeInvalidState, ErrCodeUnknownTool, ErrCodeInvalidInput,
		ErrCodeInvalidConfig, ErrCodeInvalidPath:
		return true
	}
	return false
}

// IsNotFound reports whether err carries one of the not-found codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeAnnotationNotFound, ErrCodeFileNotFound:
		return true
	}
	return false
}
