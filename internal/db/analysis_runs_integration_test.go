//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/jonathan/jobfit-assistant/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	// Clean up test data before each test
	_, _ = db.pool.Exec(ctx, "DELETE FROM analysis_runs WHERE url LIKE '%test.example.com%'")

	return db
}

func TestIntegration_AnalysisRun_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	url := "https://test.example.com/jobs/" + uuid.New().String()

	succeeded := &AnalysisRun{
		URL:      url,
		Title:    "Go developer",
		Provider: "openai",
		Model:    "gpt-5.2",
		Status:   StatusSucceeded,
		Snapshot: types.JobSnapshot{URL: url, Title: "Go developer", Description: "Build APIs", Skills: []string{"Go"}},
		Result: &types.AnalysisResult{
			ShouldApply: true, FitScore: 72, KeyReasons: []string{"Go"}, Risks: []string{},
			QuestionsToAsk: []string{}, ProposalShort: "s", ProposalFull: "f",
		},
		DurationMs: 1234,
	}

	t.Run("save and get", func(t *testing.T) {
		if err := db.SaveAnalysisRun(ctx, succeeded); err != nil {
			t.Fatalf("SaveAnalysisRun failed: %v", err)
		}
		if succeeded.ID == uuid.Nil {
			t.Fatal("ID should be generated")
		}
		if succeeded.CreatedAt.IsZero() {
			t.Error("CreatedAt should be set")
		}

		got, err := db.GetAnalysisRun(ctx, succeeded.ID)
		if err != nil {
			t.Fatalf("GetAnalysisRun failed: %v", err)
		}
		if got == nil {
			t.Fatal("run not found")
		}
		if got.Result == nil || got.Result.FitScore != 72 {
			t.Errorf("Result = %+v, want fitScore 72", got.Result)
		}
		if got.Snapshot.Skills[0] != "Go" {
			t.Errorf("Snapshot skills = %v", got.Snapshot.Skills)
		}
		if got.Error != "" || got.StatusCode != 0 {
			t.Errorf("unexpected error fields: %q %d", got.Error, got.StatusCode)
		}
	})

	t.Run("failed run", func(t *testing.T) {
		failed := &AnalysisRun{
			URL: url, Title: "Go developer", Provider: "grok", Model: "grok-3-latest",
			Status: StatusFailed, Snapshot: succeeded.Snapshot,
			Error: "Grok error (429)", StatusCode: 429,
		}
		if err := db.SaveAnalysisRun(ctx, failed); err != nil {
			t.Fatalf("SaveAnalysisRun failed: %v", err)
		}

		runs, err := db.ListAnalysisRuns(ctx, RunFilters{URL: url, Status: StatusFailed})
		if err != nil {
			t.Fatalf("ListAnalysisRuns failed: %v", err)
		}
		if len(runs) != 1 || runs[0].StatusCode != 429 || runs[0].Result != nil {
			t.Errorf("runs = %+v", runs)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		runs, err := db.ListAnalysisRuns(ctx, RunFilters{URL: url})
		if err != nil {
			t.Fatalf("ListAnalysisRuns failed: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("len(runs) = %d, want 2", len(runs))
		}
		if runs[0].CreatedAt.Before(runs[1].CreatedAt) {
			t.Error("runs should be ordered newest first")
		}
	})

	t.Run("missing run", func(t *testing.T) {
		got, err := db.GetAnalysisRun(ctx, uuid.New())
		if err != nil || got != nil {
			t.Errorf("GetAnalysisRun(missing) = %v, %v", got, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := db.DeleteAnalysisRun(ctx, succeeded.ID); err != nil {
			t.Fatalf("DeleteAnalysisRun failed: %v", err)
		}
		if err := db.DeleteAnalysisRun(ctx, succeeded.ID); err == nil {
			t.Error("second delete should fail")
		}
	})
}
