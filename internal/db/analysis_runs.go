package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveAnalysisRun inserts a run. A missing ID is generated and a zero
// CreatedAt is filled by the database.
func (db *DB) SaveAnalysisRun(ctx context.Context, run *AnalysisRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	snapshot, err := json.Marshal(run.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	var result []byte
	if run.Result != nil {
		if result, err = json.Marshal(run.Result); err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO analysis_runs (id, url, title, provider, model, status, snapshot, result, error, status_code, duration_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, 0), $11)
		 RETURNING created_at`,
		run.ID, run.URL, run.Title, run.Provider, run.Model, run.Status,
		snapshot, result, run.Error, run.StatusCode, run.DurationMs,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save analysis run: %w", err)
	}
	return nil
}

const runColumns = `id, url, title, provider, model, status, snapshot, result,
	COALESCE(error, ''), COALESCE(status_code, 0), duration_ms, created_at`

// GetAnalysisRun retrieves a run by ID. It returns nil, nil when no run exists.
func (db *DB) GetAnalysisRun(ctx context.Context, id uuid.UUID) (*AnalysisRun, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM analysis_runs WHERE id = $1`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}
	return run, nil
}

// ListAnalysisRuns retrieves recent runs, newest first, with optional filters
func (db *DB) ListAnalysisRuns(ctx context.Context, filters RunFilters) ([]AnalysisRun, error) {
	if filters.Limit <= 0 {
		filters.Limit = DefaultListLimit
	}

	query := `SELECT ` + runColumns + ` FROM analysis_runs WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.URL != "" {
		query += fmt.Sprintf(" AND url = $%d", argNum)
		args = append(args, filters.URL)
		argNum++
	}
	if filters.Provider != "" {
		query += fmt.Sprintf(" AND provider = $%d", argNum)
		args = append(args, filters.Provider)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	defer rows.Close()

	runs := []AnalysisRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	return runs, nil
}

// DeleteAnalysisRun removes a run.
func (db *DB) DeleteAnalysisRun(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM analysis_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("analysis run not found: %s", id)
	}
	return nil
}

func scanRun(row pgx.Row) (*AnalysisRun, error) {
	var run AnalysisRun
	var snapshot, result []byte
	if err := row.Scan(&run.ID, &run.URL, &run.Title, &run.Provider, &run.Model, &run.Status,
		&snapshot, &result, &run.Error, &run.StatusCode, &run.DurationMs, &run.CreatedAt); err != nil {
		return nil, err
	}
	if err := decodeRunJSON(&run, snapshot, result); err != nil {
		return nil, err
	}
	return &run, nil
}

func decodeRunJSON(run *AnalysisRun, snapshot, result []byte) error {
	if err := json.Unmarshal(snapshot, &run.Snapshot); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if len(result) > 0 {
		if err := json.Unmarshal(result, &run.Result); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
	}
	return nil
}
