package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobfit-assistant/internal/config"
	"github.com/jonathan/jobfit-assistant/internal/extraction"
	"github.com/jonathan/jobfit-assistant/internal/fetch"
	"github.com/jonathan/jobfit-assistant/internal/llm"
	"github.com/jonathan/jobfit-assistant/internal/parsing"
	"github.com/jonathan/jobfit-assistant/internal/snapshots"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "url", Message: "is required"}, http.StatusBadRequest},
		{"empty snapshot key", snapshots.ErrEmptyKey, http.StatusBadRequest},
		{"not found", &ErrNotFound{Resource: "analysis run", ID: "x"}, http.StatusNotFound},
		{"snapshot not found", fmt.Errorf("lookup: %w", snapshots.ErrNotFound), http.StatusNotFound},
		{"not configured", &ErrNotConfigured{Feature: "analysis history"}, http.StatusServiceUnavailable},
		{"wrong passphrase", &config.KeyError{Provider: llm.ProviderOpenAI, Message: config.MsgDecryptFailed}, http.StatusUnauthorized},
		{"missing key", &config.KeyError{Provider: llm.ProviderOpenAI, Message: config.MsgPassphraseRequired}, http.StatusBadRequest},
		{"empty page", extraction.ErrEmptyDocument, http.StatusUnprocessableEntity},
		{"provider", &llm.ProviderError{Provider: llm.ProviderGrok, Message: "Grok error (500)"}, http.StatusBadGateway},
		{"bad model output", &parsing.ValidationError{Field: "fitScore", Message: "must be a valid number"}, http.StatusBadGateway},
		{"fetch", &fetch.Error{URL: "https://www.upwork.com/jobs/~1", Message: "HTTP 404"}, http.StatusBadGateway},
		{"timeout", fmt.Errorf("call: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrValidation_Error(t *testing.T) {
	assert.Equal(t, "bad body", (&ErrValidation{Message: "bad body"}).Error())
	assert.Equal(t, "validation error: url - is required", (&ErrValidation{Field: "url", Message: "is required"}).Error())
}

func TestJSONFieldName(t *testing.T) {
	assert.Equal(t, "url", jsonFieldName("URL"))
	assert.Equal(t, "snapshotKey", jsonFieldName("SnapshotKey"))
	assert.Equal(t, "job", jsonFieldName("Job"))
	assert.Equal(t, "", jsonFieldName(""))
}
