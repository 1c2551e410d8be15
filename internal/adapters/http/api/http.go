// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/mq/queue"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/provider"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/render"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/repository"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/storage"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/model"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/schema"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
	"github.com/Waldoz-X/PrjEvaluacion360/pkg/logger"
)

const defaultMaxLimit = 500

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Engine returns the engine over the current dataset; never nil.
	Engine() *scoring.Engine
	// DefaultWeights fill in weights a request leaves out.
	DefaultWeights() scoring.Weights
	Reload(ctx context.Context) (dataset.Summary, error)

	// SubmitReport validates and enqueues a report job.
	SubmitReport(ctx context.Context, subject string, w scoring.Weights, format string) (model.ReportJob, error)
	ReportJob(ctx context.Context, id string) (model.ReportJob, error)
	OpenReport(ctx context.Context, key string) (io.ReadCloser, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps     Dependencies
	maxLimit int
	limiter  *ClientLimiter
	logger   logger.Logger

	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *dashboardHandler
}

// Option configures a Server.
type Option func(*Server)

// WithMaxLimit caps the ranking limit parameter.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithRateLimiter throttles /api requests per client.
func WithRateLimiter(l *ClientLimiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		deps:             deps,
		maxLimit:         defaultMaxLimit,
		logger:           logger.Get().Named("api"),
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: newDashboardHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	s.api(mux, "GET /api/subjects", "subjects", s.handleSubjects)
	s.api(mux, "GET /api/competencies", "competencies", s.handleCompetencies)
	s.api(mux, "GET /api/categories", "categories", s.handleCategories)
	s.api(mux, "GET /api/score/{subject}", "score", s.handleScore)
	s.api(mux, "GET /api/ranking", "ranking", s.handleRanking)
	s.api(mux, "GET /api/report/{subject}", "report", s.handleReport)
	s.api(mux, "POST /api/reports", "reports_submit", s.handleSubmitReport)
	s.api(mux, "GET /api/reports/{id}", "reports_status", s.handleReportStatus)
	s.api(mux, "GET /api/reports/{id}/download", "reports_download", s.handleReportDownload)
	s.api(mux, "POST /api/dataset/reload", "dataset_reload", s.handleReload)
}

func (s *Server) api(mux *http.ServeMux, pattern, endpoint string, h http.HandlerFunc) {
	if s.limiter != nil {
		h = s.limiter.Middleware(h)
	}
	mux.HandleFunc(pattern, MetricsMiddleware(RequestIDMiddleware(h), endpoint))
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: w.Header().Get(requestIDHeader)})
}

// statusOf maps domain and adapter errors to a status and error code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, scoring.ErrInvalidWeights):
		return http.StatusBadRequest, "invalid_weights"
	case errors.Is(err, ErrBadRequest), errors.Is(err, render.ErrUnknownFormat):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, scoring.ErrNoData):
		return http.StatusNotFound, "no_data"
	case errors.Is(err, repository.ErrJobNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, queue.ErrDuplicate):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, schema.ErrUnresolvedSchema):
		return http.StatusUnprocessableEntity, "unresolved_schema"
	case errors.Is(err, ErrBackpressure), errors.Is(err, queue.ErrFull), errors.Is(err, repository.ErrJobStoreFull):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, provider.ErrProvider), errors.Is(err, provider.ErrNoData):
		return http.StatusBadGateway, "provider_error"
	case errors.Is(err, queue.ErrClosed):
		return http.StatusServiceUnavailable, "shutting_down"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail logs server-side failures and writes the mapped error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("request_id", w.Header().Get(requestIDHeader)),
			logger.Error(err),
		)
	}
	writeError(w, status, code, Wrap(op, err))
}
