// Package errors provides structured error types for wikigraph.
//
// Errors that cross a process boundary (rpc replies, HTTP responses) carry
// a machine-readable [Code] so the receiving side can branch on the kind of
// failure rather than on message text.
//
// # Error Codes
//
// Codes follow a coarse naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND / UNKNOWN_*: Missing resources
//   - TIMEOUT, CANCELED, CLOSED: Lifecycle of a call
//   - INTERNAL_ERROR, UNSUPPORTED: Everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownNode, "no node %q", id)
//	if errors.Is(err, errors.ErrCodeUnknownNode) {
//	    // Handle missing node
//	}
//
//	// Across the wire
//	w := errors.ToWire(err)
//	back := w.Err() // *Error with the same code and message
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeUnknownNode Code = "UNKNOWN_NODE"
	ErrCodeUnknownOp   Code = "UNKNOWN_OP"

	// Call lifecycle errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeCanceled    Code = "CANCELED"
	ErrCodeClosed      Code = "CLOSED"
	ErrCodeRateLimited Code = "RATE_LIMITED"

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

// FromContext wraps a context error with TIMEOUT or CANCELED. Other errors
// are returned unchanged.
func FromContext(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(ErrCodeTimeout, err, format, args...)
	case errors.Is(err, context.Canceled):
		return Wrap(ErrCodeCanceled, err, format, args...)
	}
	return err
}

// =============================================================================
// Wire Form
// =============================================================================

// Wire is the serialized form of an error.
type Wire struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// ToWire converts err for transmission. Errors without a code are sent as
// INTERNAL_ERROR. A nil error yields nil.
func ToWire(err error) *Wire {
	if err == nil {
		return nil
	}
	code := GetCode(err)
	if code == "" {
		code = ErrCodeInternal
	}
	return &Wire{Code: code, Message: UserMessage(err)}
}

// Err rebuilds a structured error from its wire form.
func (w *Wire) Err() error {
	if w == nil {
		return nil
	}
	return &Error{Code: w.Code, Message: w.Message}
}
