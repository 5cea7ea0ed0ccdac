package llm

import (
	"errors"
	"fmt"
)

// readErrorBodyFailed replaces an error body that could not be read.
const readErrorBodyFailed = "Failed to read error body."

// ProviderError is the single failure type returned by Call. StatusCode is
// zero when the failure was not an HTTP status (transport errors, truncated
// or empty completions). RawBody carries the vendor payload for debugging.
type ProviderError struct {
	Provider   Provider `json:"provider"`
	Message    string   `json:"message"`
	StatusCode int      `json:"statusCode,omitempty"`
	RawBody    string   `json:"rawBody,omitempty"`
	Cause      error    `json:"-"`
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// AsProviderError extracts a *ProviderError from err's chain.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func statusError(p Provider, status int, raw string) *ProviderError {
	return &ProviderError{
		Provider:   p,
		Message:    fmt.Sprintf("%s error (%d)", p.DisplayName(), status),
		StatusCode: status,
		RawBody:    raw,
	}
}

func semanticError(p Provider, message string, raw []byte) *ProviderError {
	return &ProviderError{
		Provider: p,
		Message:  message,
		RawBody:  string(raw),
	}
}
