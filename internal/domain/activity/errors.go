package activity

import (
	"context"
	"errors"
)

var (
	// ErrNetwork indicates a transport-level failure. Retryable.
	ErrNetwork = errors.New("network failure")
	// ErrTimeout indicates a backend call exceeded its deadline.
	ErrTimeout = errors.New("request timed out")
	// ErrUnauthorized indicates the caller may not access the requested scope.
	ErrUnauthorized = errors.New("not authorized for requested scope")
	// ErrNotFound indicates the activity record doesn't exist.
	ErrNotFound = errors.New("activity not found")
	// ErrMalformedResponse indicates a backend payload of unexpected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrValidation indicates an invalid filter, period or input.
	ErrValidation = errors.New("invalid activity request")
	// ErrDeleteInFlight indicates a delete for the same id is already running.
	ErrDeleteInFlight = errors.New("delete already in progress")
	// ErrNotConfirmed indicates a delete was issued without confirmation.
	ErrNotConfirmed = errors.New("delete not confirmed")
	// ErrInvalidInput indicates an activity entry failed validation.
	ErrInvalidInput = errors.New("invalid activity input")
)

// ErrorKind classifies errors for callers that surface notices.
type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindNetworkFailure    ErrorKind = "network_failure"
	KindTimeout           ErrorKind = "timeout"
	KindAuthorization     ErrorKind = "authorization"
	KindNotFound          ErrorKind = "not_found"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindValidation        ErrorKind = "validation"
	KindConflict          ErrorKind = "conflict"
	KindInternal          ErrorKind = "internal"
)

// KindOf maps an error onto its kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrNetwork):
		return KindNetworkFailure
	case errors.Is(err, ErrUnauthorized):
		return KindAuthorization
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrDeleteInFlight), errors.Is(err, ErrNotConfirmed):
		return KindConflict
	default:
		return KindInternal
	}
}

// Retryable reports whether retrying the same request may succeed.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindNetworkFailure, KindTimeout:
		return true
	default:
		return false
	}
}
