package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

type grokAdapter struct{}

type grokMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type grokRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []grokMessage `json:"messages"`
}

func (grokAdapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	payload := grokRequest{
		Model:       modelOrDefault(req),
		Temperature: temperature(req),
		MaxTokens:   maxOutputTokens(req),
		Messages: []grokMessage{
			{Role: "system", Content: req.Instructions},
			{Role: "user", Content: req.Input},
		},
	}

	httpReq, err := newJSONRequest(ctx, baseURLOrDefault(req), payload)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	return httpReq, nil
}

func (grokAdapter) parseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", semanticError(ProviderGrok, "Grok response is not valid JSON.", body)
	}
	root := gjson.ParseBytes(body)

	choices := root.Get("choices")
	if !choices.IsArray() || len(choices.Array()) == 0 {
		return "", semanticError(ProviderGrok, "Grok response missing choices.", body)
	}

	content := choices.Array()[0].Get("message.content")
	if content.Type != gjson.String || strings.TrimSpace(content.Str) == "" {
		return "", semanticError(ProviderGrok, "Grok response content is empty.", body)
	}
	return content.Str, nil
}
