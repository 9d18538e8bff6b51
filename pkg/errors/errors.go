// Package errors provides structured error types for stylekey.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the codecs, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages naming the offending field and value
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Validation codes describe a bad descriptor, record or token:
//   - INVALID_RANGE: a numeric field is outside its declared bounds
//   - UNKNOWN_ENUM: a label does not name a member of a closed enumeration
//   - UNKNOWN_CODE: a wire code does not map to an enumeration member
//   - INVALID_LENGTH: a token or packed record has the wrong size
//   - INVALID_ALPHABET: a token contains a character outside [0-9A-Za-z]
//
// None of these are retryable; a malformed token only affects its own request.
//
// # Usage
//
//	err := errors.Range("fill density", 11, "must be between 0 and 10")
//	if errors.Is(err, errors.ErrCodeInvalidRange) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "render preview")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Validation errors
	ErrCodeInvalidRange    Code = "INVALID_RANGE"
	ErrCodeUnknownEnum     Code = "UNKNOWN_ENUM"
	ErrCodeUnknownCode     Code = "UNKNOWN_CODE"
	ErrCodeInvalidLength   Code = "INVALID_LENGTH"
	ErrCodeInvalidAlphabet Code = "INVALID_ALPHABET"
	ErrCodeInvalidColor    Code = "INVALID_COLOR"
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Cross-component contract violations
	ErrCodeTokenOverflow Code = "TOKEN_OVERFLOW"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// validationCodes are the codes reported to API clients as bad requests.
var validationCodes = map[Code]bool{
	ErrCodeInvalidRange:    true,
	ErrCodeUnknownEnum:     true,
	ErrCodeUnknownCode:     true,
	ErrCodeInvalidLength:   true,
	ErrCodeInvalidAlphabet: true,
	ErrCodeInvalidColor:    true,
	ErrCodeInvalidInput:    true,
	ErrCodeInvalidFormat:   true,
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Field   string // Offending field (optional)
	Value   any    // Offending value (optional)
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

// Field creates an Error that names the offending field and value.
// The message is prefixed with the field name and the value.
func Field(code Code, field string, value any, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf("%s %v: %s", field, value, fmt.Sprintf(format, args...)),
		Field:   field,
		Value:   value,
	}
}

// Range reports a value outside its declared numeric or ordinal bounds.
func Range(field string, value any, format string, args ...any) *Error {
	return Field(ErrCodeInvalidRange, field, value, format, args...)
}

// UnknownEnum reports a label that does not match a closed enumeration.
func UnknownEnum(field string, label string) *Error {
	return Field(ErrCodeUnknownEnum, field, fmt.Sprintf("%q", label), "not a known value")
}

// UnknownCode reports a wire code that does not map to an enumeration member.
func UnknownCode(field string, code int) *Error {
	return Field(ErrCodeUnknownCode, field, code, "not a known code")
}

// Length reports an input of the wrong size.
func Length(field string, got, want int) *Error {
	return Field(ErrCodeInvalidLength, field, got, "length must be %d", want)
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

// IsValidation reports whether err carries one of the input validation codes.
func IsValidation(err error) bool {
	return validationCodes[GetCode(err)]
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
