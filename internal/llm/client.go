package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds one provider round trip when no HTTP client is supplied.
const DefaultTimeout = 120 * time.Second

// Request is the provider-neutral description of one completion call.
// Zero or nil tuning fields fall back to the provider defaults.
type Request struct {
	Provider        Provider
	APIKey          string
	Model           string
	Instructions    string
	Input           string
	BaseURL         string
	Temperature     *float64
	MaxOutputTokens *int
}

// adapter maps a Request onto one vendor's HTTP API and reads its answer.
type adapter interface {
	buildRequest(ctx context.Context, req Request) (*http.Request, error)
	parseResponse(body []byte) (string, error)
}

var adapters = map[Provider]adapter{
	ProviderOpenAI: openAIAdapter{},
	ProviderGemini: geminiAdapter{},
	ProviderGrok:   grokAdapter{},
}

// Client issues completion calls. It never retries; each failure is returned
// to the caller as a *ProviderError.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter makes every call wait for a token from l before dialing out.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call sends req to its provider and returns the non-empty completion text.
func (c *Client) Call(ctx context.Context, req Request) (string, error) {
	ad, ok := adapters[req.Provider]
	if !ok {
		return "", &ProviderError{Provider: req.Provider, Message: fmt.Sprintf("Unsupported provider: %s", req.Provider)}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &ProviderError{Provider: req.Provider, Message: req.Provider.DisplayName() + " request was not sent", Cause: err}
		}
	}

	httpReq, err := ad.buildRequest(ctx, req)
	if err != nil {
		return "", &ProviderError{Provider: req.Provider, Message: "failed to build " + req.Provider.DisplayName() + " request", Cause: err}
	}

	log := c.log.WithFields(logrus.Fields{
		"provider": req.Provider,
		"model":    modelOrDefault(req),
	})
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = withoutURL(err)
		log.WithError(err).Debug("provider request failed")
		return "", &ProviderError{Provider: req.Provider, Message: req.Provider.DisplayName() + " request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, readErr := io.ReadAll(resp.Body)
		body := string(raw)
		if readErr != nil {
			body = readErrorBodyFailed
		}
		log.Debug("provider returned error status")
		return "", statusError(req.Provider, resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: req.Provider, Message: "failed to read " + req.Provider.DisplayName() + " response", Cause: err}
	}

	text, err := ad.parseResponse(body)
	if err != nil {
		log.WithError(err).Debug("provider response rejected")
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", semanticError(req.Provider, req.Provider.DisplayName()+" response text is empty.", body)
	}

	log.Debug("provider call succeeded")
	return text, nil
}

// Call sends req with a default Client.
func Call(ctx context.Context, req Request) (string, error) {
	return NewClient().Call(ctx, req)
}

func modelOrDefault(req Request) string {
	if m := strings.TrimSpace(req.Model); m != "" {
		return m
	}
	return DefaultsFor(req.Provider).Model
}

func baseURLOrDefault(req Request) string {
	if u := strings.TrimSpace(req.BaseURL); u != "" {
		return u
	}
	return DefaultsFor(req.Provider).BaseURL
}

func temperature(req Request) float64 {
	return NormalizeTemperature(req.Temperature, DefaultsFor(req.Provider).Temperature)
}

func maxOutputTokens(req Request) int {
	return NormalizeMaxOutputTokens(req.MaxOutputTokens, DefaultsFor(req.Provider).MaxOutputTokens)
}

// withoutURL drops the request URL from transport errors so endpoints with
// embedded credentials never reach logs or messages.
func withoutURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}

// newJSONRequest builds a POST with a JSON body.
func newJSONRequest(ctx context.Context, endpoint string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
