// Package dErrors provides coded domain errors shared by all modules.
//
// Services raise these at trust boundaries; the HTTP layer translates each
// code to a stable status so callers can distinguish validation failures,
// conflicts, missing records, forbidden access, and business-rule violations
// without parsing messages.
package dErrors

import (
	"errors"
	"fmt"
)

// Code identifies the class of a domain error.
type Code string

const (
	// CodeBadRequest marks malformed requests (undecodable body, bad IDs).
	CodeBadRequest Code = "bad_request"
	// CodeValidation marks well-formed requests that violate field rules.
	CodeValidation Code = "validation"
	// CodeInvalidInput marks invalid domain values at parse boundaries.
	CodeInvalidInput Code = "invalid_input"
	// CodeUnauthorized marks missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks authenticated callers acting outside their unit.
	CodeForbidden Code = "forbidden"
	// CodeNotFound marks lookups that matched no record.
	CodeNotFound Code = "not_found"
	// CodeConflict marks uniqueness violations (duplicate mother number).
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks business-rule violations on otherwise
	// valid input (disposing an already-disposed item).
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal marks infrastructure failures.
	CodeInternal Code = "internal"
)

// Error is a domain error with a stable code and a human-readable message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New constructs a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is / errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		if err == nil {
			return false
		}
	}
	return false
}

// Is delegates to errors.Is so call sites can stay on one import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// CodeOf returns the outermost domain code in the chain, or CodeInternal when
// the error carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost domain message, or a generic one for
// uncoded errors so infrastructure detail never leaks to callers.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}
