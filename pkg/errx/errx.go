// Package errx defines the error taxonomy used by every credential and token
// operation: validation, conflict, not-found, authorization, internal and
// external (delivery) failures. Each domain package registers its own error
// codes under a short prefix so failures carry a stable machine-readable code
// alongside a short human-readable message.
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Type categorizes an error.
type Type string

const (
	// TypeValidation covers missing or malformed caller-supplied input.
	TypeValidation Type = "VALIDATION"

	// TypeConflict covers creation attempts colliding with an existing unique key.
	TypeConflict Type = "CONFLICT"

	// TypeNotFound covers references to entities that do not exist.
	TypeNotFound Type = "NOT_FOUND"

	// TypeAuthorization covers rejected authorization checks.
	TypeAuthorization Type = "AUTHORIZATION"

	// TypeInternal covers store failures not attributable to caller input.
	TypeInternal Type = "INTERNAL"

	// TypeExternal covers failures of outbound collaborators such as
	// delivery channels.
	TypeExternal Type = "EXTERNAL"
)

func (t Type) String() string { return string(t) }

// Error is the error value every public operation returns on failure. The
// wrapped cause is never serialized; callers only see the code and message.
type Error struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Type       Type           `json:"type"`
	HTTPStatus int            `json:"http_status"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// WithDetail attaches additional context and returns the error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an Error of the given type with a generated code.
func New(message string, errType Type) *Error {
	return &Error{
		Code:       string(errType),
		Message:    message,
		Type:       errType,
		HTTPStatus: statusFor(errType),
	}
}

// Wrap re-wraps an underlying failure into the taxonomy, preserving the cause
// for logs while keeping the outward message short. Returns nil for nil err.
func Wrap(err error, message string, errType Type) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Code:       existing.Code,
			Message:    message,
			Type:       errType,
			HTTPStatus: existing.HTTPStatus,
			Details:    existing.Details,
			Err:        err,
		}
	}

	return &Error{
		Code:       string(errType),
		Message:    message,
		Type:       errType,
		HTTPStatus: statusFor(errType),
		Err:        err,
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, errType Type, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...), errType)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// IsType reports whether err is an *Error of the given type.
func IsType(err error, t Type) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == t
}

func statusFor(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeAuthorization:
		return http.StatusUnauthorized
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Convenience constructors.

func Validation(message string) *Error   { return New(message, TypeValidation) }
func Conflict(message string) *Error     { return New(message, TypeConflict) }
func NotFound(message string) *Error     { return New(message, TypeNotFound) }
func Unauthorized(message string) *Error { return New(message, TypeAuthorization) }
func Internal(message string) *Error     { return New(message, TypeInternal) }
func External(message string) *Error     { return New(message, TypeExternal) }
