package provider

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for gateway operations.
var (
	// ErrUnknownProvider indicates the requested gateway is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrTransport indicates the completion service could not be reached or
	// did not answer successfully.
	ErrTransport = errors.New("completion transport failure")

	// ErrMalformedResponse indicates the service answered but the envelope
	// lacked the expected completion field.
	ErrMalformedResponse = errors.New("malformed completion response")

	// ErrRateLimited indicates the request was rate limited.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates the completion service is unavailable.
	ErrUnavailable = errors.New("completion service unavailable")

	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("request timed out")

	// ErrInvalidRequest indicates the request was rejected as malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrCredentialsNotFound indicates no API key was configured.
	ErrCredentialsNotFound = errors.New("credentials not found")
)

// Error wraps gateway errors with context.
type Error struct {
	Provider  string // Gateway name ("openai", "mock")
	Op        string // Operation that failed ("complete")
	Err       error  // Underlying error
	Retryable bool   // Whether the error is likely transient
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new gateway error.
func NewError(provider, op string, err error, retryable bool) *Error {
	return &Error{
		Provider:  provider,
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable checks if an error is likely transient and worth retrying.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}

	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsMalformed checks if an error reports a response without a usable completion.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// IsTransport checks if an error is a transport-level failure. Any gateway
// error that is not a malformed response counts, including cancellation.
func IsTransport(err error) bool {
	return err != nil && !IsMalformed(err)
}

// IsCanceled checks if an error comes from caller cancellation or deadline.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsAuthError checks if an error is authentication-related.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrCredentialsNotFound)
}
