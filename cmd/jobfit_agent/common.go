package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/time/rate"

	"github.com/jonathan/jobfit-assistant/internal/config"
	"github.com/jonathan/jobfit-assistant/internal/extraction"
	"github.com/jonathan/jobfit-assistant/internal/fetch"
	"github.com/jonathan/jobfit-assistant/internal/llm"
	"github.com/jonathan/jobfit-assistant/internal/schemas"
	"github.com/jonathan/jobfit-assistant/internal/types"
)

// settingsPath returns --config, falling back to the default location.
func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

// loadSettings reads the settings file; a missing file yields the defaults.
func loadSettings() (*config.Config, string, error) {
	path, err := settingsPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// passphraseOr prefers an explicit flag over JOBFIT_PASSPHRASE.
func passphraseOr(flag string) string {
	if flag != "" {
		return flag
	}
	return appEnv.Passphrase
}

// newLLMClient builds the provider client shared by analyze and test-connection.
func newLLMClient() *llm.Client {
	limiter := rate.NewLimiter(rate.Limit(appEnv.RateLimitRPS), len(llm.Providers))
	return llm.NewClient(llm.WithLogger(logger), llm.WithLimiter(limiter))
}

// snapshotSource names where a job snapshot comes from. Exactly one of URL
// (fetched), HTMLFile or SnapshotFile must lead; URL also labels an HTML file.
type snapshotSource struct {
	URL          string
	HTMLFile     string
	SnapshotFile string
	Browser      bool
}

func (s snapshotSource) validate() error {
	n := 0
	for _, v := range []string{s.HTMLFile, s.SnapshotFile} {
		if v != "" {
			n++
		}
	}
	if n > 1 {
		return fmt.Errorf("--html-file and --snapshot are mutually exclusive; provide only one")
	}
	if n == 0 && s.URL == "" {
		return fmt.Errorf("one of --url, --html-file or --snapshot must be provided")
	}
	if s.URL != "" && !fetch.IsJobURL(s.URL) {
		return fmt.Errorf("%s", fetch.NotJobPageMessage)
	}
	return nil
}

// load produces the snapshot described by s.
func (s snapshotSource) load(ctx context.Context) (types.JobSnapshot, error) {
	if err := s.validate(); err != nil {
		return types.JobSnapshot{}, err
	}

	switch {
	case s.SnapshotFile != "":
		return readSnapshotFile(s.SnapshotFile)
	case s.HTMLFile != "":
		doc, err := fetch.FromFile(s.HTMLFile)
		if err != nil {
			return types.JobSnapshot{}, err
		}
		return extraction.Extract(doc, s.URL)
	default:
		opts := fetch.DefaultOptions()
		opts.Browser = s.Browser
		doc, res, err := fetch.Page(ctx, s.URL, opts)
		if err != nil {
			return types.JobSnapshot{}, err
		}
		logger.WithField("url", s.URL).WithField("rendered", res.Rendered).Debug("Fetched job page")
		return extraction.Extract(doc, s.URL)
	}
}

// readSnapshotFile loads a snapshot previously written by `extract --json`.
func readSnapshotFile(path string) (types.JobSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.JobSnapshot{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	if err := schemas.ValidateSnapshot(data); err != nil {
		return types.JobSnapshot{}, fmt.Errorf("snapshot file %s is invalid: %w", path, err)
	}

	var snap types.JobSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return types.JobSnapshot{}, fmt.Errorf("failed to parse snapshot file: %w", err)
	}
	return snap, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
