package llm

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// geminiFinishMaxTokens is the finish reason reported for a truncated candidate.
const geminiFinishMaxTokens = "MAX_TOKENS"

type geminiAdapter struct{}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction geminiContent          `json:"systemInstruction"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
	ThinkingConfig   struct {
		ThinkingBudget int `json:"thinkingBudget"`
	} `json:"thinkingConfig"`
}

// geminiAPIKeyHeader carries the key; a query parameter would end up in
// transport error messages.
const geminiAPIKeyHeader = "x-goog-api-key"

func geminiEndpoint(req Request) string {
	base := strings.TrimSuffix(baseURLOrDefault(req), "/")
	return base + "/models/" + url.PathEscape(modelOrDefault(req)) + ":generateContent"
}

func (geminiAdapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	payload := geminiRequest{
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: req.Instructions}}},
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: req.Input}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      temperature(req),
			MaxOutputTokens:  maxOutputTokens(req),
			ResponseMimeType: "application/json",
		},
	}
	// Thinking tokens count against maxOutputTokens; disable them.
	payload.GenerationConfig.ThinkingConfig.ThinkingBudget = 0

	httpReq, err := newJSONRequest(ctx, geminiEndpoint(req), payload)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set(geminiAPIKeyHeader, req.APIKey)
	return httpReq, nil
}

// parseResponse reads the first candidate. A MAX_TOKENS finish is an error even
// when partial text is present, since truncated JSON cannot be validated.
func (geminiAdapter) parseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", semanticError(ProviderGemini, "Gemini response is not valid JSON.", body)
	}
	root := gjson.ParseBytes(body)

	candidates := root.Get("candidates")
	if !candidates.IsArray() || len(candidates.Array()) == 0 {
		return "", semanticError(ProviderGemini, "Gemini returned no candidates.", body)
	}

	first := candidates.Array()[0]
	if first.Get("finishReason").String() == geminiFinishMaxTokens {
		return "", semanticError(ProviderGemini,
			"Gemini output was truncated at max tokens. Increase Max output tokens in provider settings.", body)
	}

	parts := first.Get("content.parts")
	if !parts.IsArray() {
		return "", semanticError(ProviderGemini, "Gemini response missing content parts.", body)
	}

	var sb strings.Builder
	for _, part := range parts.Array() {
		if text := part.Get("text"); text.Type == gjson.String {
			sb.WriteString(text.Str)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
