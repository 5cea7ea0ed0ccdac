// Package parsing turns untrusted model text into a validated AnalysisResult.
package parsing

import (
	"strings"

	"github.com/tidwall/gjson"
)

// MsgNoJSON is reported when no JSON object can be recovered from the text.
const MsgNoJSON = "The AI response did not contain valid JSON."

// SalvageJSON recovers a JSON object from model text. Text that is already a
// bare object is used as is; otherwise the span from the first '{' to the last
// '}' is taken, which strips prose and markdown fences around the object.
func SalvageJSON(text string) (string, error) {
	trimmed := strings.TrimSpace(text)

	candidate := trimmed
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		first := strings.Index(trimmed, "{")
		last := strings.LastIndex(trimmed, "}")
		if first < 0 || last <= first {
			return "", &ParseError{Message: MsgNoJSON}
		}
		candidate = trimmed[first : last+1]
	}

	if !gjson.Valid(candidate) {
		return "", &ParseError{Message: MsgNoJSON}
	}
	return candidate, nil
}
