package domain

import "errors"

// ValidationError reports a rejected user message. No state is mutated when it is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid message: " + e.Reason
}

// ErrEmptyMessage is returned for absent, empty or whitespace-only messages.
var ErrEmptyMessage = &ValidationError{Reason: "message must not be empty"}

// ProviderError wraps a failed completion call.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return "completion failed: " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrMalformedCompletion is returned when the provider answers without a usable choice.
var ErrMalformedCompletion = errors.New("completion response has no message")
