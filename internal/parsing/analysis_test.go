package parsing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobfit-assistant/internal/types"
)

const validJSON = `{
	"shouldApply": true,
	"fitScore": 87,
	"keyReasons": ["React match", "Budget fits"],
	"risks": ["Tight deadline"],
	"questionsToAsk": ["Is there a design?"],
	"proposalShort": "Hi, I can help.",
	"proposalFull": "Hi,\nI have built several dashboards.",
	"bidSuggestion": "  $450  "
}`

func TestParseAnalysis_Valid(t *testing.T) {
	res, err := ParseAnalysis(validJSON)
	require.NoError(t, err)

	assert.True(t, res.ShouldApply)
	assert.Equal(t, 87.0, res.FitScore)
	assert.Equal(t, []string{"React match", "Budget fits"}, res.KeyReasons)
	assert.Equal(t, []string{"Tight deadline"}, res.Risks)
	assert.Equal(t, []string{"Is there a design?"}, res.QuestionsToAsk)
	assert.Equal(t, "Hi, I can help.", res.ProposalShort)
	assert.Equal(t, "Hi,\nI have built several dashboards.", res.ProposalFull)
	assert.Equal(t, "$450", res.BidSuggestion)
}

func TestParseAnalysis_RoundTrip(t *testing.T) {
	want := types.AnalysisResult{
		ShouldApply:    false,
		FitScore:       42.5,
		KeyReasons:     []string{"a"},
		Risks:          []string{},
		QuestionsToAsk: []string{"b", "c"},
		ProposalShort:  "short",
		ProposalFull:   "full",
		BidSuggestion:  "$30/hr",
	}
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := ParseAnalysis(string(raw))
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestParseAnalysis_ClampsFitScore(t *testing.T) {
	tests := []struct {
		score string
		want  float64
	}{
		{"150", 100},
		{"-5", 0},
		{"0", 0},
		{"100", 100},
		{"63.5", 63.5},
	}

	for _, tt := range tests {
		t.Run(tt.score, func(t *testing.T) {
			text := `{"shouldApply":true,"fitScore":` + tt.score + `,"keyReasons":[],"risks":[],"questionsToAsk":[],"proposalShort":"s","proposalFull":"f"}`
			res, err := ParseAnalysis(text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.FitScore)
		})
	}
}

func TestParseAnalysis_FieldErrors(t *testing.T) {
	base := map[string]any{
		"shouldApply":    true,
		"fitScore":       50,
		"keyReasons":     []any{"x"},
		"risks":          []any{},
		"questionsToAsk": []any{},
		"proposalShort":  "s",
		"proposalFull":   "f",
	}

	tests := []struct {
		name    string
		mutate  func(m map[string]any)
		field   string
		message string
	}{
		{"shouldApply as string", func(m map[string]any) { m["shouldApply"] = "true" }, "shouldApply", "AI output field shouldApply must be boolean"},
		{"fitScore as string", func(m map[string]any) { m["fitScore"] = "87" }, "fitScore", "AI output field fitScore must be a valid number"},
		{"fitScore null", func(m map[string]any) { m["fitScore"] = nil }, "fitScore", "AI output field fitScore must be a valid number"},
		{"keyReasons with non-string", func(m map[string]any) { m["keyReasons"] = []any{"ok", 3} }, "keyReasons", "AI output field keyReasons must be string[]"},
		{"risks not array", func(m map[string]any) { m["risks"] = "none" }, "risks", "AI output field risks must be string[]"},
		{"questionsToAsk missing", func(m map[string]any) { delete(m, "questionsToAsk") }, "questionsToAsk", "AI output field questionsToAsk is required"},
		{"proposalShort number", func(m map[string]any) { m["proposalShort"] = 1 }, "proposalShort", "AI output field proposalShort must be a string"},
		{"proposalFull missing", func(m map[string]any) { delete(m, "proposalFull") }, "proposalFull", "AI output field proposalFull is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := make(map[string]any, len(base))
			for k, v := range base {
				m[k] = v
			}
			tt.mutate(m)
			raw, err := json.Marshal(m)
			require.NoError(t, err)

			res, err := ParseAnalysis(string(raw))
			require.Error(t, err)
			assert.Nil(t, res)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestParseAnalysis_BidSuggestionDropped(t *testing.T) {
	for _, bid := range []string{`"   "`, `""`, `42`, `null`, `["$5"]`} {
		t.Run(bid, func(t *testing.T) {
			text := `{"shouldApply":false,"fitScore":10,"keyReasons":[],"risks":[],"questionsToAsk":[],"proposalShort":"s","proposalFull":"f","bidSuggestion":` + bid + `}`
			res, err := ParseAnalysis(text)
			require.NoError(t, err)
			assert.Empty(t, res.BidSuggestion)
		})
	}
}

func TestParseAnalysis_FencedProse(t *testing.T) {
	text := "Sure! ```json\n{\"shouldApply\":true,\"fitScore\":87,\"keyReasons\":[\"fit\"],\"risks\":[],\"questionsToAsk\":[],\"proposalShort\":\"s\",\"proposalFull\":\"f\"}\n```"

	res, err := ParseAnalysis(text)
	require.NoError(t, err)
	assert.True(t, res.ShouldApply)
	assert.Equal(t, 87.0, res.FitScore)
}

func TestParseAnalysis_NotAnObject(t *testing.T) {
	_, err := ParseAnalysis(`["not", "an", "object"]`)
	require.Error(t, err)

	var pErr *ParseError
	assert.ErrorAs(t, err, &pErr)
}
