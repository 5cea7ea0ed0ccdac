package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobfit-assistant/internal/types"
)

// Run status values
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// AnalysisRun is one recorded provider analysis of a job snapshot.
type AnalysisRun struct {
	ID         uuid.UUID             `json:"id"`
	URL        string                `json:"url"`
	Title      string                `json:"title"`
	Provider   string                `json:"provider"`
	Model      string                `json:"model"`
	Status     string                `json:"status"`
	Snapshot   types.JobSnapshot     `json:"snapshot"`
	Result     *types.AnalysisResult `json:"result,omitempty"`
	Error      string                `json:"error,omitempty"`
	StatusCode int                   `json:"status_code,omitempty"`
	DurationMs int64                 `json:"duration_ms"`
	CreatedAt  time.Time             `json:"created_at"`
}

// RunFilters holds optional filters for listing analysis runs
type RunFilters struct {
	URL      string
	Provider string
	Status   string
	Limit    int
}

// DefaultListLimit caps ListAnalysisRuns when no limit is given.
const DefaultListLimit = 50
