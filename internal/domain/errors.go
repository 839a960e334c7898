package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a provider-facing failure. Every error that crosses
// an adapter boundary carries exactly one kind; the HTTP layer maps each
// kind to a fixed status and never reclassifies.
type ErrorKind string

const (
	// KindInvalidCredentials covers provider 401/403 responses and
	// structural credential checks that fail before any network call.
	KindInvalidCredentials ErrorKind = "invalid_credentials"

	// KindRateLimited covers provider 429 responses.
	KindRateLimited ErrorKind = "rate_limited"

	// KindProviderUnavailable covers everything else: network errors,
	// timeouts, malformed bodies, unexpected statuses.
	KindProviderUnavailable ErrorKind = "provider_unavailable"
)

// ProviderError is the closed error type produced by provider adapters.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError builds a classified adapter error.
func NewProviderError(provider string, kind ErrorKind, message string, cause error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the taxonomy kind from an error chain. The second return
// is false when the error did not originate from an adapter.
func KindOf(err error) (ErrorKind, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// ErrNotFound is returned when no integration record matches a given id.
var ErrNotFound = errors.New("integration not found")

// ValidationError reports malformed caller input (missing fields, unknown
// provider id). It is originated by the orchestration layer, never by
// adapters.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a request-shape error.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
