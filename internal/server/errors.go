package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/jobfit-assistant/internal/config"
	"github.com/jonathan/jobfit-assistant/internal/extraction"
	"github.com/jonathan/jobfit-assistant/internal/fetch"
	"github.com/jonathan/jobfit-assistant/internal/llm"
	"github.com/jonathan/jobfit-assistant/internal/parsing"
	"github.com/jonathan/jobfit-assistant/internal/snapshots"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the addressed resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrNotConfigured indicates an optional backend is not enabled on this server
type ErrNotConfigured struct {
	Feature string
}

func (e *ErrNotConfigured) Error() string {
	return fmt.Sprintf("%s is not configured on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notFoundErr   *ErrNotFound
		notConfigured *ErrNotConfigured
		keyErr        *config.KeyError
		providerErr   *llm.ProviderError
		outputErr     *parsing.ValidationError
		fetchErr      *fetch.Error
	)

	switch {
	case errors.As(err, &validationErr), errors.Is(err, snapshots.ErrEmptyKey):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.Is(err, snapshots.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &notConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &keyErr):
		if keyErr.Message == config.MsgDecryptFailed {
			return http.StatusUnauthorized
		}
		return http.StatusBadRequest
	case errors.Is(err, extraction.ErrEmptyDocument):
		return http.StatusUnprocessableEntity
	case errors.As(err, &providerErr), errors.As(err, &outputErr), errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
