// Package apperr provides standardized domain error types for the application.
// Domain services and middleware return these typed errors, and the HTTP error
// translation stage maps them to status codes, labels and response bodies.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusInvalidToken is the non-standard status used for token failures.
const StatusInvalidToken = 498

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindValidation indicates invalid input data.
	KindValidation
	// KindBadRequest indicates a malformed request or rejected credentials.
	KindBadRequest
	// KindUnauthorized indicates missing or insufficient authentication.
	KindUnauthorized
	// KindInvalidToken indicates a bearer token that failed verification.
	KindInvalidToken
	// KindTokenNotFound indicates a guard ran without a decoded token in context.
	KindTokenNotFound
	// KindNotAcceptable indicates a rejected upload or a store-level rejection.
	KindNotAcceptable
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Label   string      // Short status label, defaults per Kind
	Message string
	Op      string      // Operation that failed (optional)
	Err     error       // Underlying error (optional)
	Details interface{} // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidToken, KindTokenNotFound:
		return StatusInvalidToken
	case KindNotAcceptable:
		return http.StatusNotAcceptable
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// StatusLabel returns the explicit label or the default one for the kind.
func (e *Error) StatusLabel() string {
	if e.Label != "" {
		return e.Label
	}
	return defaultLabel(e.Kind)
}

func defaultLabel(kind Kind) string {
	switch kind {
	case KindNotFound:
		return "Not Found"
	case KindUnauthorized:
		return "Not Authorized"
	case KindInvalidToken:
		return "Invalid Token"
	case KindTokenNotFound:
		return "Token not found"
	case KindNotAcceptable:
		return "Not Acceptable"
	case KindInternal:
		return "Internal Server Error"
	default:
		return "Bad Request"
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp returns the error with the operation set.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithLabel overrides the default status label.
func (e *Error) WithLabel(label string) *Error {
	e.Label = label
	return e
}

// WithDetails returns the error with additional details.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Convenience constructors for common error types.

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// BadRequest creates a bad request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// Unauthorized creates a not authorized error.
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// InvalidToken creates an invalid token error.
func InvalidToken(message string) *Error {
	return New(KindInvalidToken, message)
}

// TokenNotFound creates an error for a guard that found no token payload.
func TokenNotFound(message string) *Error {
	return New(KindTokenNotFound, message)
}

// NotAcceptable creates a not acceptable error.
func NotAcceptable(message string) *Error {
	return New(KindNotAcceptable, message)
}

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// GetKind extracts the error kind from an error chain.
// Returns KindUnknown if no *Error is found.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err carries an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
