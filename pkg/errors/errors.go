// Package errors provides structured error types for lineid-plot.
//
// Every error raised while validating input or driving a rendering surface
// carries a machine-readable [Code] so that the CLI, the HTTP service and
// library callers can react to a failure class without parsing messages.
//
// # Error Codes
//
//   - INVALID_SHAPE: a per-feature parameter is neither scalar nor one value per feature
//   - COUNT_MISMATCH: two sequences that must pair up have different lengths
//   - INVALID_INPUT: malformed samples or tuning values
//   - TRANSFORM_UNAVAILABLE: a coordinate transform could not be established
//   - RENDER: a rendering surface failed to draw or export
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidShape, "label_size must be scalar or of length %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidShape) {
//	    // report the offending parameter
//	}
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
	ErrCodeInvalidShape   Code = "INVALID_SHAPE"
	ErrCodeCountMismatch  Code = "COUNT_MISMATCH"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidBackend Code = "INVALID_BACKEND"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Rendering errors
	ErrCodeTransform Code = "TRANSFORM_UNAVAILABLE"
	ErrCodeRender    Code = "RENDER"

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

// IsInputError reports whether err was caused by caller input rather than
// by the rendering surface. Input errors are always raised before a layout
// touches the surface.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidShape, ErrCodeCountMismatch,
		ErrCodeInvalidFormat, ErrCodeInvalidBackend, ErrCodeInvalidConfig:
		return true
	}
	return false
}
