package llm

import (
	"context"
	"errors"
	"fmt"
)

// Common client-level errors.
var (
	// ErrEmptyAPIKey indicates a provider was configured without a key.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")

	// ErrEmptyResponse indicates the provider returned no usable text.
	ErrEmptyResponse = errors.New("empty response from provider")
)

// ErrorKind classifies a provider failure for uniform handling.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAuthentication
	KindRateLimit
	KindBadRequest
	KindNotFound
	KindServer
	KindContentPolicy
	KindNetwork
	KindTimeout
)

// String returns the snake_case label for metrics and log fields.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindRateLimit:
		return "rate_limit"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server_error"
	case KindContentPolicy:
		return "content_policy"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ProviderError normalizes provider-specific failures into one shape with
// a classified kind, so callers can decide on retryability and the
// tournament engine can record a useful failure message per match.
type ProviderError struct {
	// Provider names the backend that produced the failure.
	Provider string

	// Kind classifies the failure.
	Kind ErrorKind

	// StatusCode is the HTTP status when applicable, else zero.
	StatusCode int

	// Message is the human-readable detail.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	s := fmt.Sprintf("%s error [%s]", e.Provider, e.Kind)
	if e.StatusCode > 0 {
		s += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap supports errors.Is / errors.As chains.
func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable reports whether a request failing with this error is worth
// retrying. Rate limits, server errors, network failures, and timeouts
// are transient.
func (e *ProviderError) Retryable() bool {
	switch e.Kind {
	case KindRateLimit, KindServer, KindNetwork, KindTimeout:
		return true
	default:
		return false
	}
}

// classifyStatus maps an HTTP status code onto an ErrorKind.
func classifyStatus(status int) ErrorKind {
	switch status {
	case 401, 403:
		return KindAuthentication
	case 429:
		return KindRateLimit
	case 400:
		return KindBadRequest
	case 404:
		return KindNotFound
	case 500, 502, 503, 504:
		return KindServer
	}
	switch {
	case status >= 400 && status < 500:
		return KindBadRequest
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// classifyContextError turns a context failure into a ProviderError so
// per-call deadlines surface as classified timeouts.
func classifyContextError(provider string, err error) *ProviderError {
	kind := KindNetwork
	msg := "request canceled"
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
		msg = "request deadline exceeded"
	}
	return &ProviderError{Provider: provider, Kind: kind, Message: msg, Err: err}
}

// IsTimeout reports whether the error represents an elapsed per-call
// deadline, either as a raw context error or a classified ProviderError.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var perr *ProviderError
	return errors.As(err, &perr) && perr.Kind == KindTimeout
}
