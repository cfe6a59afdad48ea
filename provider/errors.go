package provider

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a provider failure. The classification drives two distinct
// decisions: whether an adapter retries the call internally (Transient) and
// whether the registry fails over to the next backend (Retryable).
type Kind int

const (
	// KindUnknown covers failures that could not be classified. Treated as
	// transport-class and therefore retryable.
	KindUnknown Kind = iota
	// KindTimeout means the call exceeded its deadline.
	KindTimeout
	// KindRateLimited maps HTTP 429 class responses.
	KindRateLimited
	// KindUnavailable maps 5xx class responses and connection failures.
	KindUnavailable
	// KindEmptyResponse means the backend answered but the content was empty
	// or unparseable.
	KindEmptyResponse
	// KindInvalidRequest maps malformed-request class rejections (4xx other
	// than auth and rate limit). Structural, never retried.
	KindInvalidRequest
	// KindUnauthorized maps 401/403 class rejections. Structural, never retried.
	KindUnauthorized
	// KindContentRejected means the backend refused the content (safety
	// filter and similar). Structural, never retried.
	KindContentRejected
)

// String returns the string representation of the failure kind.
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	case KindEmptyResponse:
		return "empty_response"
	case KindInvalidRequest:
		return "invalid_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindContentRejected:
		return "content_rejected"
	default:
		return "unknown"
	}
}

// Transient reports whether an adapter should retry the call internally
// with backoff. Timeouts are excluded: the deadline that produced them is
// already spent.
func (k Kind) Transient() bool {
	return k == KindRateLimited || k == KindUnavailable || k == KindUnknown
}

// Retryable reports whether the failure is provider-specific rather than
// structural, i.e. whether the registry may fail over to the next backend.
func (k Kind) Retryable() bool {
	switch k {
	case KindTimeout, KindRateLimited, KindUnavailable, KindEmptyResponse, KindUnknown:
		return true
	default:
		return false
	}
}

// Error is a classified provider failure. It wraps the underlying vendor
// error so callers can still inspect it via errors.As.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

// NewError builds a classified provider error.
func NewError(kind Kind, provider string, err error) *Error {
	return &Error{Kind: kind, Provider: provider, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider %s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

// Unwrap exposes the underlying vendor error.
func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from an error chain. Plain context
// deadline errors classify as timeouts; anything else unclassified is
// KindUnknown.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnknown
}

// Retryable reports whether the registry may fail over past this error.
// Caller cancellation is never retryable: the turn is over.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return KindOf(err).Retryable()
}

// ErrAllProvidersExhausted is returned by the registry when every registered
// adapter failed with a retryable-class error.
var ErrAllProvidersExhausted = errors.New("all providers exhausted")
