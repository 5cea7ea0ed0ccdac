package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSettings_Valid(t *testing.T) {
	doc := `{
		"activeProvider": "gemini",
		"rememberPassphrase": false,
		"providers": {
			"openai": {"model": "gpt-5.2", "temperature": 0.2, "maxOutputTokens": 1400},
			"gemini": {
				"model": "gemini-2.5-flash",
				"apiKeyEncrypted": {"alg": "PBKDF2-SHA256/AES-GCM", "payloadB64": "cA==", "ivB64": "aQ==", "saltB64": "cw=="}
			}
		},
		"mindset": {"profileName": "Ana", "roleTitle": "Dev", "coreSkills": ["Go"]}
	}`

	assert.NoError(t, ValidateSettings([]byte(doc)))
}

func TestValidateSettings_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"unknown provider", `{"activeProvider": "claude"}`, "activeProvider"},
		{"temperature out of range", `{"providers": {"grok": {"temperature": 3}}}`, "providers.grok.temperature"},
		{"fractional tokens", `{"providers": {"openai": {"maxOutputTokens": 10.5}}}`, "providers.openai.maxOutputTokens"},
		{"skills not strings", `{"mindset": {"profileName": "a", "roleTitle": "b", "coreSkills": [1]}}`, "mindset.coreSkills.0"},
		{"mindset missing role", `{"mindset": {"profileName": "a"}}`, "mindset"},
		{"unknown top-level key", `{"provider": "openai"}`, "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSettings([]byte(tt.doc))
			require.Error(t, err)

			validationErr, ok := err.(*ValidationError)
			require.True(t, ok, "error should be ValidationError type")
			fields := make([]string, 0, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateSnapshot(t *testing.T) {
	valid := `{"url": "https://www.upwork.com/jobs/~01", "title": "T", "description": "", "budgetText": "$5", "skills": ["Go"], "clientPaymentVerified": true}`
	assert.NoError(t, ValidateSnapshot([]byte(valid)))

	for name, doc := range map[string]string{
		"empty optional string": `{"url": "u", "title": "T", "description": "d", "budgetText": ""}`,
		"empty title":           `{"url": "u", "title": "", "description": "d"}`,
		"empty skills":          `{"url": "u", "title": "T", "description": "d", "skills": []}`,
		"unknown field":         `{"url": "u", "title": "T", "description": "d", "salary": "x"}`,
		"missing description":   `{"url": "u", "title": "T"}`,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidateSnapshot([]byte(doc)))
		})
	}
}

func TestValidateEmbedded_UnknownSchema(t *testing.T) {
	err := ValidateEmbedded("missing.schema.json", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "schema not found")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "x"}`))
	assert.Error(t, ValidateJSONString(schema, `{"name": 1}`))

	err := ValidateJSONString(`{"type": 12}`, `{}`)
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}
