package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobfit-assistant/internal/config"
	"github.com/jonathan/jobfit-assistant/internal/llm"
	"github.com/jonathan/jobfit-assistant/internal/prompts"
	"github.com/jonathan/jobfit-assistant/internal/types"
)

// Health checks never ask for more than this many output tokens.
const (
	healthCheckTokenCap     = 400
	healthCheckTokenDefault = 1400
)

// HealthCheckPrompt is the minimal prompt used to verify provider access.
func HealthCheckPrompt(p llm.Provider) types.PromptPair {
	return types.PromptPair{
		Instructions: prompts.Format(
			prompts.MustGet(prompts.AnalysisFile, "health-check-instructions"),
			map[string]string{"Provider": string(p)},
		),
		Input: prompts.MustGet(prompts.AnalysisFile, "health-check-input"),
	}
}

// TestConnection sends a minimal request to p and reports success as a
// user-facing message.
func (a *Analyzer) TestConnection(ctx context.Context, cfg *config.Config, p llm.Provider, passphrase string) (string, error) {
	apiKey, err := cfg.ResolveAPIKey(p, passphrase)
	if err != nil {
		return "", err
	}

	req := cfg.Request(p, apiKey, HealthCheckPrompt(p))
	tokens := healthCheckTokenDefault
	if req.MaxOutputTokens != nil {
		tokens = *req.MaxOutputTokens
	}
	tokens = min(tokens, healthCheckTokenCap)
	req.MaxOutputTokens = &tokens

	log := a.logger.WithFields(logrus.Fields{"provider": p, "model": req.Model})
	if _, err := a.caller.Call(ctx, req); err != nil {
		log.WithError(err).Warn("Connection test failed")
		return "", err
	}
	log.Info("Connection test succeeded")

	return fmt.Sprintf("%s connection succeeded.", strings.ToUpper(string(p))), nil
}

// ConnectionResult is the outcome of one provider's connection test.
type ConnectionResult struct {
	Provider llm.Provider
	Message  string
	Err      error
}

// TestConnections probes every provider concurrently. Results keep the order
// of llm.Providers; a failing provider never cancels the others.
func (a *Analyzer) TestConnections(ctx context.Context, cfg *config.Config, passphrase string) []ConnectionResult {
	results := make([]ConnectionResult, len(llm.Providers))

	var g errgroup.Group
	for i, p := range llm.Providers {
		g.Go(func() error {
			msg, err := a.TestConnection(ctx, cfg, p, passphrase)
			results[i] = ConnectionResult{Provider: p, Message: msg, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
