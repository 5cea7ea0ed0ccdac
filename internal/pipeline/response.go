package pipeline

import (
	"errors"

	"github.com/jonathan/jobfit-assistant/internal/llm"
	"github.com/jonathan/jobfit-assistant/internal/types"
)

// Response types for successful results.
const (
	TypeAnalysis       = "ANALYSIS"
	TypeConnectionTest = "CONNECTION_TEST"
	TypeSnapshot       = "ACTIVE_JOB"
)

// Response is the envelope handed to user interfaces. When OK is false only
// Error and the optional provider details are set.
type Response struct {
	OK         bool                  `json:"ok"`
	Type       string                `json:"type,omitempty"`
	Result     *types.AnalysisResult `json:"result,omitempty"`
	Job        *types.JobSnapshot    `json:"job,omitempty"`
	Message    string                `json:"message,omitempty"`
	Error      string                `json:"error,omitempty"`
	Provider   llm.Provider          `json:"provider,omitempty"`
	StatusCode int                   `json:"statusCode,omitempty"`
	RawError   string                `json:"rawError,omitempty"`
}

// AnalysisResponse wraps a successful analysis.
func AnalysisResponse(result *types.AnalysisResult) Response {
	return Response{OK: true, Type: TypeAnalysis, Result: result}
}

// ConnectionResponse wraps a successful connection test.
func ConnectionResponse(message string) Response {
	return Response{OK: true, Type: TypeConnectionTest, Message: message}
}

// SnapshotResponse wraps an extracted job snapshot.
func SnapshotResponse(job *types.JobSnapshot) Response {
	return Response{OK: true, Type: TypeSnapshot, Job: job}
}

// ErrorResponse maps any error to a failed Response. Provider failures carry
// their provider, status code and raw body.
func ErrorResponse(err error) Response {
	resp := Response{OK: false, Error: err.Error()}

	var pe *llm.ProviderError
	if errors.As(err, &pe) {
		resp.Error = pe.Message
		resp.Provider = pe.Provider
		resp.StatusCode = pe.StatusCode
		resp.RawError = pe.RawBody
	}
	return resp
}
