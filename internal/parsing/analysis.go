package parsing

import (
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonathan/jobfit-assistant/internal/types"
)

// Score bounds for fitScore.
const (
	MinFitScore = 0
	MaxFitScore = 100
)

// ParseAnalysis salvages a JSON object from text and checks it field by field.
// Every field except bidSuggestion is mandatory; there are no partial results.
func ParseAnalysis(text string) (*types.AnalysisResult, error) {
	raw, err := SalvageJSON(text)
	if err != nil {
		return nil, err
	}

	root := gjson.Parse(raw)
	if !root.IsObject() {
		return nil, &ParseError{Message: "The AI response JSON must be an object."}
	}

	var res types.AnalysisResult

	if res.ShouldApply, err = requireBool(root, "shouldApply"); err != nil {
		return nil, err
	}

	score, err := requireNumber(root, "fitScore")
	if err != nil {
		return nil, err
	}
	res.FitScore = math.Min(math.Max(score, MinFitScore), MaxFitScore)

	if res.KeyReasons, err = requireStrings(root, "keyReasons"); err != nil {
		return nil, err
	}
	if res.Risks, err = requireStrings(root, "risks"); err != nil {
		return nil, err
	}
	if res.QuestionsToAsk, err = requireStrings(root, "questionsToAsk"); err != nil {
		return nil, err
	}
	if res.ProposalShort, err = requireString(root, "proposalShort"); err != nil {
		return nil, err
	}
	if res.ProposalFull, err = requireString(root, "proposalFull"); err != nil {
		return nil, err
	}

	// Optional: anything other than a non-blank string is dropped.
	if bid := root.Get("bidSuggestion"); bid.Type == gjson.String {
		res.BidSuggestion = strings.TrimSpace(bid.Str)
	}

	return &res, nil
}

func field(root gjson.Result, name string) (gjson.Result, error) {
	v := root.Get(name)
	if !v.Exists() {
		return v, &ValidationError{Field: name, Message: "is required"}
	}
	return v, nil
}

func requireBool(root gjson.Result, name string) (bool, error) {
	v, err := field(root, name)
	if err != nil {
		return false, err
	}
	if v.Type != gjson.True && v.Type != gjson.False {
		return false, &ValidationError{Field: name, Message: "must be boolean"}
	}
	return v.Bool(), nil
}

func requireNumber(root gjson.Result, name string) (float64, error) {
	v, err := field(root, name)
	if err != nil {
		return 0, err
	}
	if v.Type != gjson.Number {
		return 0, &ValidationError{Field: name, Message: "must be a valid number"}
	}
	f := v.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &ValidationError{Field: name, Message: "must be a valid number"}
	}
	return f, nil
}

func requireString(root gjson.Result, name string) (string, error) {
	v, err := field(root, name)
	if err != nil {
		return "", err
	}
	if v.Type != gjson.String {
		return "", &ValidationError{Field: name, Message: "must be a string"}
	}
	return v.Str, nil
}

func requireStrings(root gjson.Result, name string) ([]string, error) {
	v, err := field(root, name)
	if err != nil {
		return nil, err
	}
	if !v.IsArray() {
		return nil, &ValidationError{Field: name, Message: "must be string[]"}
	}
	items := v.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type != gjson.String {
			return nil, &ValidationError{Field: name, Message: "must be string[]"}
		}
		out = append(out, item.Str)
	}
	return out, nil
}
