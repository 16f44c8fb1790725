// Package apperr defines the error taxonomy shared by every tool handler.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for status-code mapping and envelope codes.
type Kind int

const (
	// Validation means a required request field is missing or malformed.
	Validation Kind = iota
	// Config means a required API key or secret is absent.
	Config
	// Auth means the bearer token is missing or invalid.
	Auth
	// Upstream means a third-party API returned a non-2xx response.
	Upstream
	// Malformed means an upstream response could not be parsed into the
	// expected structure.
	Malformed
	// Logging means a run-record write failed. Never surfaced to callers.
	Logging
	// Internal covers everything else.
	Internal
)

// Error carries the kind, a human-readable message, the upstream HTTP status
// when relevant, and the wrapped cause.
type Error struct {
	Kind           Kind
	Message        string
	UpstreamStatus int
	Cause          error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// WithStatus attaches the upstream HTTP status and returns e for chaining.
func (e *Error) WithStatus(status int) *Error {
	e.UpstreamStatus = status
	return e
}

// Code returns the short machine-readable code used in error envelopes.
func (e *Error) Code() string {
	switch e.Kind {
	case Validation:
		return "validation_error"
	case Config:
		return "config_error"
	case Auth:
		return "auth_error"
	case Upstream:
		return "upstream_error"
	case Malformed:
		return "malformed_response"
	case Logging:
		return "logging_error"
	default:
		return "internal_error"
	}
}

// HTTPStatus maps the kind to the response status. Auth failures are always
// 401; validation 400; everything else surfaces as 500.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case Auth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NewUpstream records the upstream status verbatim so pipelines can decide
// whether to fall back or abort.
func NewUpstream(status int, message string) *Error {
	return &Error{Kind: Upstream, Message: message, UpstreamStatus: status}
}

// As unwraps err into *Error, or wraps it as Internal when it is not one.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Kind: Internal, Message: err.Error(), Cause: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
