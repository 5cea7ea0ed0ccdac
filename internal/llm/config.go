// Package llm calls the supported text-completion providers through one entry
// point and reports every failure as a ProviderError.
package llm

import (
	"fmt"
	"math"
	"strings"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the OpenAI Responses API
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini generateContent API
	ProviderGemini Provider = "gemini"
	// ProviderGrok is the xAI chat completions API
	ProviderGrok Provider = "grok"
)

// Providers lists every supported provider in display order.
var Providers = []Provider{ProviderOpenAI, ProviderGemini, ProviderGrok}

// Clamp bounds for request tuning.
const (
	DefaultTemperature   = 0.2
	MinTemperature       = 0.0
	MaxTemperature       = 2.0
	MinOutputTokens      = 1
	MaxOutputTokensLimit = 32000
)

// Defaults holds the values used when a request leaves a field unset.
type Defaults struct {
	Model           string
	BaseURL         string
	Temperature     float64
	MaxOutputTokens int
}

var providerDefaults = map[Provider]Defaults{
	ProviderOpenAI: {
		Model:           "gpt-5.2",
		BaseURL:         "https://api.openai.com/v1/responses",
		Temperature:     DefaultTemperature,
		MaxOutputTokens: 1400,
	},
	ProviderGemini: {
		Model:           "gemini-2.5-flash",
		BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		Temperature:     DefaultTemperature,
		MaxOutputTokens: 2048,
	},
	ProviderGrok: {
		Model:           "grok-3-latest",
		BaseURL:         "https://api.x.ai/v1/chat/completions",
		Temperature:     DefaultTemperature,
		MaxOutputTokens: 1400,
	},
}

// ParseProvider validates a provider name.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := providerDefaults[p]; !ok {
		return "", fmt.Errorf("unsupported provider %q (want openai, gemini or grok)", s)
	}
	return p, nil
}

// Valid reports whether p is a supported provider.
func (p Provider) Valid() bool {
	_, ok := providerDefaults[p]
	return ok
}

// DisplayName is the vendor name used in user-facing messages.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderGemini:
		return "Gemini"
	case ProviderGrok:
		return "Grok"
	default:
		return string(p)
	}
}

// DefaultsFor returns the defaults for p. Unknown providers get zero Defaults.
func DefaultsFor(p Provider) Defaults {
	return providerDefaults[p]
}

// NormalizeTemperature returns fallback for a missing or non-finite value,
// otherwise the value clamped to [0, 2].
func NormalizeTemperature(v *float64, fallback float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return fallback
	}
	return math.Min(math.Max(*v, MinTemperature), MaxTemperature)
}

// NormalizeMaxOutputTokens returns fallback for a missing or non-positive value,
// otherwise the value capped at MaxOutputTokensLimit.
func NormalizeMaxOutputTokens(v *int, fallback int) int {
	if v == nil || *v < MinOutputTokens {
		return fallback
	}
	return min(*v, MaxOutputTokensLimit)
}
