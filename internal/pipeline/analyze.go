// Package pipeline runs an analysis end to end: resolve the provider key,
// build the prompt, call the provider, then validate the model output.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/jobfit-assistant/internal/config"
	"github.com/jonathan/jobfit-assistant/internal/db"
	"github.com/jonathan/jobfit-assistant/internal/llm"
	"github.com/jonathan/jobfit-assistant/internal/parsing"
	"github.com/jonathan/jobfit-assistant/internal/prompting"
	"github.com/jonathan/jobfit-assistant/internal/types"
)

// MsgModelOutputNotJSON replaces a salvage failure on the model text.
const MsgModelOutputNotJSON = "Model output was not valid JSON. Try increasing Max output tokens or simplifying the prompt."

// Caller sends one request to a provider and returns the completion text.
type Caller interface {
	Call(ctx context.Context, req llm.Request) (string, error)
}

// Recorder persists finished analysis runs.
type Recorder interface {
	SaveAnalysisRun(ctx context.Context, run *db.AnalysisRun) error
}

// Analyzer wires the prompt builder, a provider caller and the output validator.
type Analyzer struct {
	caller   Caller
	recorder Recorder
	logger   logrus.FieldLogger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRecorder stores every analysis that reached the provider.
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) { a.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer returns an Analyzer that sends requests through caller.
func NewAnalyzer(caller Caller, opts ...Option) *Analyzer {
	a := &Analyzer{caller: caller, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze asks the active provider of cfg whether snap is worth applying to.
func (a *Analyzer) Analyze(ctx context.Context, cfg *config.Config, snap types.JobSnapshot, passphrase string) (*types.AnalysisResult, error) {
	p := cfg.ActiveProvider
	apiKey, err := cfg.ResolveAPIKey(p, passphrase)
	if err != nil {
		return nil, err
	}

	req := cfg.Request(p, apiKey, prompting.BuildPrompt(cfg.Mindset, snap))
	log := a.logger.WithFields(logrus.Fields{
		"provider": p,
		"model":    req.Model,
		"url":      snap.URL,
	})
	log.Debug("Sending analysis request")

	start := time.Now()
	result, err := a.callAndParse(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		log.WithError(err).WithField("duration_ms", elapsed.Milliseconds()).Warn("Analysis failed")
	} else {
		log.WithFields(logrus.Fields{
			"duration_ms":  elapsed.Milliseconds(),
			"fit_score":    result.FitScore,
			"should_apply": result.ShouldApply,
		}).Info("Analysis complete")
	}

	a.record(ctx, req, snap, result, err, elapsed)
	return result, err
}

func (a *Analyzer) callAndParse(ctx context.Context, req llm.Request) (*types.AnalysisResult, error) {
	raw, err := a.caller.Call(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := parsing.ParseAnalysis(raw)
	var parseErr *parsing.ParseError
	if errors.As(err, &parseErr) {
		return nil, &llm.ProviderError{
			Provider: req.Provider,
			Message:  MsgModelOutputNotJSON,
			RawBody:  raw,
			Cause:    parseErr,
		}
	}
	return result, err
}

func (a *Analyzer) record(ctx context.Context, req llm.Request, snap types.JobSnapshot, result *types.AnalysisResult, runErr error, elapsed time.Duration) {
	if a.recorder == nil {
		return
	}

	run := &db.AnalysisRun{
		URL:        snap.URL,
		Title:      snap.Title,
		Provider:   string(req.Provider),
		Model:      req.Model,
		Status:     db.StatusSucceeded,
		Snapshot:   snap,
		Result:     result,
		DurationMs: elapsed.Milliseconds(),
	}
	if runErr != nil {
		run.Status = db.StatusFailed
		run.Error = runErr.Error()
		if pe, ok := llm.AsProviderError(runErr); ok {
			run.Error = pe.Message
			run.StatusCode = pe.StatusCode
		}
	}

	// History is best effort; a storage failure never fails the analysis.
	if err := a.recorder.SaveAnalysisRun(context.WithoutCancel(ctx), run); err != nil {
		a.logger.WithError(err).Warn("Failed to record analysis run")
	}
}
