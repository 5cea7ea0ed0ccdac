package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/jobfit-assistant/internal/config"
	"github.com/jonathan/jobfit-assistant/internal/db"
	"github.com/jonathan/jobfit-assistant/internal/extraction"
	"github.com/jonathan/jobfit-assistant/internal/fetch"
	"github.com/jonathan/jobfit-assistant/internal/llm"
	"github.com/jonathan/jobfit-assistant/internal/pipeline"
	"github.com/jonathan/jobfit-assistant/internal/schemas"
	"github.com/jonathan/jobfit-assistant/internal/types"
)

// handleExtract builds a snapshot from inline HTML or a fetched job page.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if !fetch.IsJobURL(req.URL) {
		s.errorResponse(w, &ErrValidation{Field: "url", Message: fetch.NotJobPageMessage})
		return
	}

	snap, err := s.extract(r.Context(), req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	if req.SnapshotKey != "" {
		if err := s.snapshots.Put(r.Context(), req.SnapshotKey, snap); err != nil {
			s.errorResponse(w, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, pipeline.SnapshotResponse(&snap))
}

func (s *Server) extract(ctx context.Context, req ExtractRequest) (types.JobSnapshot, error) {
	if req.HTML != "" {
		return extraction.ExtractHTML(req.HTML, req.URL)
	}

	opts := fetch.DefaultOptions()
	opts.Browser = req.Browser
	doc, _, err := s.fetch(ctx, req.URL, opts)
	if err != nil {
		return types.JobSnapshot{}, err
	}
	return extraction.Extract(doc, req.URL)
}

// handleAnalyze runs the analysis pipeline for an inline or cached snapshot.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	snap := req.Job
	if snap == nil {
		cached, err := s.snapshots.Get(r.Context(), req.SnapshotKey)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
		snap = cached
	}

	cfg, err := s.loadSettings(req.Provider)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), cfg, *snap, req.Passphrase)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, pipeline.AnalysisResponse(result))
}

// handleTestConnection sends the health-check prompt to one or all providers.
func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	var req TestConnectionRequest
	if err := s.decodeRequest(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	cfg, err := s.loadSettings(req.Provider)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	if req.All {
		results := s.analyzer.TestConnections(r.Context(), cfg, req.Passphrase)
		statuses := make([]pipeline.Response, 0, len(results))
		allOK := true
		for _, res := range results {
			status := pipeline.ConnectionResponse(res.Message)
			if res.Err != nil {
				allOK = false
				status = pipeline.ErrorResponse(res.Err)
			}
			status.Provider = res.Provider
			statuses = append(statuses, status)
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{"ok": allOK, "results": statuses})
		return
	}

	msg, err := s.analyzer.TestConnection(r.Context(), cfg, cfg.ActiveProvider, req.Passphrase)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, pipeline.ConnectionResponse(msg))
}

// loadSettings reads the current settings, optionally switching the active provider.
func (s *Server) loadSettings(provider string) (*config.Config, error) {
	cfg, err := s.settings()
	if err != nil {
		s.logger.WithError(err).Error("Failed to load settings")
		return nil, err
	}
	if provider != "" {
		copied := *cfg
		copied.ActiveProvider = llm.Provider(provider)
		cfg = &copied
	}
	return cfg, nil
}

// handlePutSnapshot stores a client-extracted snapshot under a key.
func (s *Server) handlePutSnapshot(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	body, err := readBody(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := schemas.ValidateSnapshot(body); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "snapshot", Message: strings.TrimSpace(err.Error())})
		return
	}

	var snap types.JobSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		s.errorResponse(w, &ErrValidation{Message: "invalid JSON body"})
		return
	}
	if err := s.snapshots.Put(r.Context(), key, snap); err != nil {
		s.errorResponse(w, err)
		return
	}

	s.logger.WithFields(logrus.Fields{"key": key, "url": snap.URL}).Debug("Snapshot stored")
	s.jsonResponse(w, http.StatusOK, pipeline.SnapshotResponse(&snap))
}

// handleGetSnapshot returns the snapshot stored under a key.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshots.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, pipeline.SnapshotResponse(snap))
}

// handleDeleteSnapshot evicts a key.
func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.snapshots.Delete(r.Context(), r.PathValue("key")); err != nil {
		s.errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListHistory lists recorded analysis runs, newest first.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.errorResponse(w, &ErrNotConfigured{Feature: "analysis history"})
		return
	}

	q := r.URL.Query()
	filters := db.RunFilters{
		URL:      q.Get("url"),
		Provider: q.Get("provider"),
		Status:   q.Get("status"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 500 {
			s.errorResponse(w, &ErrValidation{Field: "limit", Message: "must be an integer between 1 and 500"})
			return
		}
		filters.Limit = limit
	}

	runs, err := s.history.ListAnalysisRuns(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"ok": true, "runs": runs, "count": len(runs)})
}

// handleGetHistory returns one recorded run.
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.errorResponse(w, &ErrNotConfigured{Feature: "analysis history"})
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	run, err := s.history.GetAnalysisRun(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if run == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "analysis run", ID: idStr})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"ok": true, "run": run})
}
