// Package errors provides structured error types for eidqr.
//
// Every failure that reaches a user carries a Code so the HTTP layer and the
// CLI can decide how to surface it, and a Message that is safe to show as a
// notification.
//
//	err := errors.New(errors.ErrCodeTooLarge, "File size should be less than 5MB")
//	if errors.Is(err, errors.ErrCodeTooLarge) {
//	    // reject the upload
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Intake validation
	ErrCodeUnsupportedType Code = "UNSUPPORTED_TYPE"
	ErrCodeTooLarge        Code = "TOO_LARGE"
	ErrCodeInvalidInput    Code = "INVALID_INPUT"

	// Lookup
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Export preconditions
	ErrCodeMissingImages Code = "MISSING_IMAGES"
	ErrCodeEmptyCard     Code = "EMPTY_CARD"
	ErrCodeBusy          Code = "BUSY"

	// Export failures
	ErrCodeRasterization       Code = "RASTERIZATION"
	ErrCodeShareAborted        Code = "SHARE_ABORTED"
	ErrCodePlatformUnsupported Code = "PLATFORM_UNSUPPORTED"
	ErrCodeCanceled            Code = "CANCELED"

	ErrCodeInternal Code = "INTERNAL_ERROR"
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
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message to show to a user.
// For *Error types it is the message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
