package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobfit-assistant/internal/config"
	"github.com/jonathan/jobfit-assistant/internal/llm"
)

const testJobURL = "https://www.upwork.com/jobs/~01billing"

// cleanEnv clears every variable the CLI reads so host settings never leak in.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		config.EnvConfigPath, "JOBFIT_PASSPHRASE", "DATABASE_URL", "REDIS_URL", "RATE_LIMIT_RPS",
	} {
		t.Setenv(name, "")
	}
	for _, p := range llm.Providers {
		t.Setenv(config.EnvAPIKeyVar(p), "")
	}
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "text")
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command in-process and returns its stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// fakeOpenAI serves the Responses API with a fixed status and body.
func fakeOpenAI(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"bad key"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// writeSettings saves default settings whose OpenAI endpoint is baseURL.
func writeSettings(t *testing.T, baseURL string) string {
	t.Helper()
	cfg := config.Default()
	if baseURL != "" {
		pc := cfg.Providers.Get(llm.ProviderOpenAI)
		pc.BaseURL = baseURL
		require.NoError(t, cfg.Providers.Set(llm.ProviderOpenAI, pc))
	}

	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, config.Save(path, &cfg))
	return path
}
