package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const healthReply = `{"output_text":"{\"ok\":true,\"provider\":\"openai\"}"}`

func TestTestConnectionCommand_ActiveProvider(t *testing.T) {
	cleanEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	srv := fakeOpenAI(t, http.StatusOK, healthReply)
	settings := writeSettings(t, srv.URL)

	out, err := execute(t, "", "test-connection", "--config", settings)
	require.NoError(t, err)
	assert.Contains(t, out, "OPENAI connection succeeded.")
}

func TestTestConnectionCommand_All(t *testing.T) {
	cleanEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	srv := fakeOpenAI(t, http.StatusOK, healthReply)
	settings := writeSettings(t, srv.URL)

	out, err := execute(t, "", "test-connection", "--config", settings, "--all")
	require.Error(t, err)
	assert.Equal(t, "2 of 3 connection tests failed", err.Error())

	assert.Contains(t, out, "✓ openai")
	assert.Contains(t, out, "✗ gemini")
	assert.Contains(t, out, "✗ grok")
}

func TestTestConnectionCommand_BadKey(t *testing.T) {
	cleanEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-wrong")
	srv := fakeOpenAI(t, http.StatusOK, healthReply)
	settings := writeSettings(t, srv.URL)

	out, err := execute(t, "", "test-connection", "--config", settings, "--provider", "openai")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenAI error (401)")
	assert.Contains(t, out, "✗ openai")
}
