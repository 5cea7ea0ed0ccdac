// Package server provides the HTTP API for extraction, analysis and the
// snapshot cache.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobfit-assistant/internal/config"
	"github.com/jonathan/jobfit-assistant/internal/db"
	"github.com/jonathan/jobfit-assistant/internal/fetch"
	"github.com/jonathan/jobfit-assistant/internal/pipeline"
	"github.com/jonathan/jobfit-assistant/internal/server/middleware"
	"github.com/jonathan/jobfit-assistant/internal/server/ratelimit"
	"github.com/jonathan/jobfit-assistant/internal/snapshots"
)

// PageFetcher loads a job page as a parsed document.
type PageFetcher func(ctx context.Context, url string, opts *fetch.Options) (*goquery.Document, *fetch.Result, error)

// History is the read side of the analysis run store.
type History interface {
	ListAnalysisRuns(ctx context.Context, filters db.RunFilters) ([]db.AnalysisRun, error)
	GetAnalysisRun(ctx context.Context, id uuid.UUID) (*db.AnalysisRun, error)
}

// Config holds server configuration
type Config struct {
	Port int
}

// Deps are the collaborators the handlers use. Analyzer and Settings are
// required; the rest have defaults or disable their endpoints when nil.
type Deps struct {
	Analyzer  *pipeline.Analyzer
	Settings  func() (*config.Config, error)
	Snapshots snapshots.Store
	History   History
	Fetch     PageFetcher
	Limiter   *ratelimit.Limiter
	Logger    logrus.FieldLogger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	analyzer    *pipeline.Analyzer
	settings    func() (*config.Config, error)
	snapshots   snapshots.Store
	history     History
	fetch       PageFetcher
	rateLimiter *ratelimit.Limiter
	logger      logrus.FieldLogger
	validate    *validator.Validate
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Analyzer == nil {
		return nil, fmt.Errorf("server requires an analyzer")
	}
	if deps.Settings == nil {
		return nil, fmt.Errorf("server requires a settings loader")
	}

	s := &Server{
		analyzer:    deps.Analyzer,
		settings:    deps.Settings,
		snapshots:   deps.Snapshots,
		history:     deps.History,
		fetch:       deps.Fetch,
		rateLimiter: deps.Limiter,
		logger:      deps.Logger,
		validate:    validator.New(),
	}
	if s.snapshots == nil {
		s.snapshots = snapshots.NewMemoryStore()
	}
	if s.fetch == nil {
		s.fetch = fetch.Page
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig(config.DefaultRateLimitRPS))
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // provider calls and browser renders are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /extract", s.handleExtract)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /test-connection", s.handleTestConnection)

	// Snapshot cache; DELETE is the eviction hook for a closed page
	mux.HandleFunc("PUT /snapshots/{key}", s.handlePutSnapshot)
	mux.HandleFunc("GET /snapshots/{key}", s.handleGetSnapshot)
	mux.HandleFunc("DELETE /snapshots/{key}", s.handleDeleteSnapshot)

	mux.HandleFunc("GET /history", s.handleListHistory)
	mux.HandleFunc("GET /history/{id}", s.handleGetHistory)

	return middleware.RequestID(s.withRateLimit(middleware.Logging(s.logger)(s.withCORS(mux))))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.WithField("addr", s.httpServer.Addr).Info("Server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.rateLimiter.Stop()
	s.logger.Info("Server stopped")
	return err
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)

		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Error encoding JSON response")
	}
}

// errorResponse writes err as a failed pipeline.Response with a mapped status.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	s.jsonResponse(w, HTTPStatus(err), pipeline.ErrorResponse(err))
}

// extractClientID extracts the client identifier (the remote IP) from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(info.RetryAfter.Seconds()))))
	}

	s.logger.WithFields(logrus.Fields{
		"client":    s.extractClientID(r),
		"path":      r.URL.Path,
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}).Warn("Rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, pipeline.Response{
		OK:    false,
		Error: "Rate limit exceeded. Please try again later.",
	})
}
