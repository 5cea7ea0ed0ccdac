package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobfit-assistant/internal/config"
	"github.com/jonathan/jobfit-assistant/internal/db"
	"github.com/jonathan/jobfit-assistant/internal/llm"
	"github.com/jonathan/jobfit-assistant/internal/parsing"
	"github.com/jonathan/jobfit-assistant/internal/types"
)

const validOutput = `{"shouldApply":true,"fitScore":130,"keyReasons":["Go"],"risks":[],"questionsToAsk":["Deadline?"],"proposalShort":"Hi","proposalFull":"Hello there","bidSuggestion":" $40/hr "}`

// fakeCaller answers by provider and records every request it sees.
type fakeCaller struct {
	mu       sync.Mutex
	requests []llm.Request
	reply    map[llm.Provider]string
	fail     map[llm.Provider]error
}

func (f *fakeCaller) Call(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if err := f.fail[req.Provider]; err != nil {
		return "", err
	}
	return f.reply[req.Provider], nil
}

type fakeRecorder struct {
	runs []*db.AnalysisRun
	err  error
}

func (f *fakeRecorder) SaveAnalysisRun(_ context.Context, run *db.AnalysisRun) error {
	f.runs = append(f.runs, run)
	return f.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	for _, p := range llm.Providers {
		t.Setenv(config.EnvAPIKeyVar(p), "")
	}
	t.Setenv("OPENAI_API_KEY", "sk-env")
	cfg := config.Default()
	cfg.Mindset = types.Profile{ProfileName: "Ana", RoleTitle: "Go Developer", CoreSkills: []string{"Go"}}
	return &cfg
}

func quietLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

var snapshot = types.JobSnapshot{
	URL:         "https://www.upwork.com/jobs/~01",
	Title:       "Build a Go API",
	Description: "We need a REST API in Go.",
	Skills:      []string{"Go", "PostgreSQL"},
}

func TestAnalyze_Success(t *testing.T) {
	cfg := testConfig(t)
	caller := &fakeCaller{reply: map[llm.Provider]string{llm.ProviderOpenAI: "Sure!\n" + validOutput}}
	recorder := &fakeRecorder{}
	logger, hook := quietLogger()

	result, err := NewAnalyzer(caller, WithRecorder(recorder), WithLogger(logger)).
		Analyze(context.Background(), cfg, snapshot, "")
	require.NoError(t, err)

	assert.True(t, result.ShouldApply)
	assert.Equal(t, 100.0, result.FitScore)
	assert.Equal(t, "$40/hr", result.BidSuggestion)

	require.Len(t, caller.requests, 1)
	req := caller.requests[0]
	assert.Equal(t, llm.ProviderOpenAI, req.Provider)
	assert.Equal(t, "sk-env", req.APIKey)
	assert.Equal(t, "gpt-5.2", req.Model)
	assert.Contains(t, req.Instructions, "Go Developer")
	assert.Contains(t, req.Input, "Build a Go API")

	require.Len(t, recorder.runs, 1)
	run := recorder.runs[0]
	assert.Equal(t, db.StatusSucceeded, run.Status)
	assert.Equal(t, snapshot.URL, run.URL)
	assert.Equal(t, "openai", run.Provider)
	assert.Same(t, result, run.Result)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Analysis complete", hook.LastEntry().Message)
}

func TestAnalyze_NonJSONOutputBecomesProviderError(t *testing.T) {
	cfg := testConfig(t)
	caller := &fakeCaller{reply: map[llm.Provider]string{llm.ProviderOpenAI: "I cannot help with that"}}
	recorder := &fakeRecorder{}
	logger, _ := quietLogger()

	_, err := NewAnalyzer(caller, WithRecorder(recorder), WithLogger(logger)).
		Analyze(context.Background(), cfg, snapshot, "")
	require.Error(t, err)

	pe, ok := llm.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, llm.ProviderOpenAI, pe.Provider)
	assert.Equal(t, MsgModelOutputNotJSON, pe.Message)
	assert.Equal(t, "I cannot help with that", pe.RawBody)
	assert.Zero(t, pe.StatusCode)

	var parseErr *parsing.ParseError
	assert.ErrorAs(t, err, &parseErr)

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, db.StatusFailed, recorder.runs[0].Status)
	assert.Equal(t, MsgModelOutputNotJSON, recorder.runs[0].Error)
}

func TestAnalyze_FieldErrorStaysValidationError(t *testing.T) {
	cfg := testConfig(t)
	bad := strings.Replace(validOutput, `"fitScore":130`, `"fitScore":"high"`, 1)
	caller := &fakeCaller{reply: map[llm.Provider]string{llm.ProviderOpenAI: bad}}
	logger, _ := quietLogger()

	_, err := NewAnalyzer(caller, WithLogger(logger)).Analyze(context.Background(), cfg, snapshot, "")

	var ve *parsing.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "fitScore", ve.Field)
	_, isProvider := llm.AsProviderError(err)
	assert.False(t, isProvider)
}

func TestAnalyze_ProviderErrorPassesThrough(t *testing.T) {
	cfg := testConfig(t)
	vendorErr := &llm.ProviderError{Provider: llm.ProviderOpenAI, Message: "OpenAI error (429)", StatusCode: 429, RawBody: "slow down"}
	caller := &fakeCaller{fail: map[llm.Provider]error{llm.ProviderOpenAI: vendorErr}}
	recorder := &fakeRecorder{}
	logger, _ := quietLogger()

	_, err := NewAnalyzer(caller, WithRecorder(recorder), WithLogger(logger)).
		Analyze(context.Background(), cfg, snapshot, "")
	assert.Same(t, vendorErr, err)

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, 429, recorder.runs[0].StatusCode)
	assert.Nil(t, recorder.runs[0].Result)
}

func TestAnalyze_PreconditionsSkipProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.ActiveProvider = llm.ProviderGemini
	caller := &fakeCaller{}
	recorder := &fakeRecorder{}
	logger, _ := quietLogger()

	_, err := NewAnalyzer(caller, WithRecorder(recorder), WithLogger(logger)).
		Analyze(context.Background(), cfg, snapshot, "pass")

	var ke *config.KeyError
	require.ErrorAs(t, err, &ke)
	assert.Contains(t, ke.Message, "No API key is set for gemini.")
	assert.Empty(t, caller.requests)
	assert.Empty(t, recorder.runs)
}

func TestAnalyze_RecorderFailureIsLogged(t *testing.T) {
	cfg := testConfig(t)
	caller := &fakeCaller{reply: map[llm.Provider]string{llm.ProviderOpenAI: validOutput}}
	recorder := &fakeRecorder{err: errors.New("db down")}
	logger, hook := quietLogger()

	result, err := NewAnalyzer(caller, WithRecorder(recorder), WithLogger(logger)).
		Analyze(context.Background(), cfg, snapshot, "")
	require.NoError(t, err)
	assert.NotNil(t, result)

	found := false
	for _, e := range hook.AllEntries() {
		if e.Message == "Failed to record analysis run" {
			found = true
		}
	}
	assert.True(t, found)
}
