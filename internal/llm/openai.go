package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

type openAIAdapter struct{}

type openAIRequest struct {
	Model           string         `json:"model"`
	Instructions    string         `json:"instructions"`
	Input           string         `json:"input"`
	Text            openAITextOpts `json:"text"`
	Temperature     float64        `json:"temperature"`
	MaxOutputTokens int            `json:"max_output_tokens"`
}

type openAITextOpts struct {
	Format struct {
		Type string `json:"type"`
	} `json:"format"`
}

func (openAIAdapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	payload := openAIRequest{
		Model:           modelOrDefault(req),
		Instructions:    req.Instructions,
		Input:           req.Input,
		Temperature:     temperature(req),
		MaxOutputTokens: maxOutputTokens(req),
	}
	payload.Text.Format.Type = "text"

	httpReq, err := newJSONRequest(ctx, baseURLOrDefault(req), payload)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	return httpReq, nil
}

// parseResponse prefers the flat output_text field and otherwise concatenates
// output[].content[].text.
func (openAIAdapter) parseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", semanticError(ProviderOpenAI, "OpenAI response is not valid JSON.", body)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return "", semanticError(ProviderOpenAI, "OpenAI response is invalid.", body)
	}

	if direct := root.Get("output_text"); direct.Type == gjson.String && strings.TrimSpace(direct.Str) != "" {
		return direct.Str, nil
	}

	output := root.Get("output")
	if !output.IsArray() {
		return "", semanticError(ProviderOpenAI, "OpenAI response missing output_text/output.", body)
	}

	var chunks []string
	for _, item := range output.Array() {
		content := item.Get("content")
		if !content.IsArray() {
			continue
		}
		for _, part := range content.Array() {
			if text := part.Get("text"); text.Type == gjson.String && strings.TrimSpace(text.Str) != "" {
				chunks = append(chunks, text.Str)
			}
		}
	}

	return strings.TrimSpace(strings.Join(chunks, "")), nil
}
