// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/okian/readiness/internal/adapters/mq/queue"
	"github.com/okian/readiness/internal/adapters/repository"
	service "github.com/okian/readiness/internal/app"
	"github.com/okian/readiness/internal/domain/load"
	"github.com/okian/readiness/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SubmitWellness(ctx context.Context, r model.WellnessReport) error
	SubmitLoad(ctx context.Context, e model.LoadEntry) (model.LoadEntry, error)

	Alert(ctx context.Context, athleteID string, day model.Date) (model.AlertResult, error)
	Triage(ctx context.Context, day model.Date) ([]model.AlertResult, error)

	WeeklyLoad(ctx context.Context, athleteID string, from, to model.Date) (service.WeeklyLoad, error)
	Workload(ctx context.Context, athleteID string, asOf model.Date) (model.Workload, error)
	Trend(ctx context.Context, athleteID string, from, to model.Date) ([]load.TrendPoint, error)

	// Today is the service's calendar day, the default for date parameters.
	Today() model.Date
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	wellnessHandler *WellnessHandler
	loadHandler     *LoadHandler
	alertsHandler   *AlertsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		wellnessHandler: NewWellnessHandler(deps),
		loadHandler:     NewLoadHandler(deps),
		alertsHandler:   NewAlertsHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Use(RequestIDMiddleware)

	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.Handle("/metrics", s.healthHandler.MetricsHandler()).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	r.HandleFunc("/wellness", MetricsMiddleware(s.wellnessHandler.HandlePostWellness, "wellness")).Methods(http.MethodPost)
	r.HandleFunc("/load", MetricsMiddleware(s.loadHandler.HandlePostLoad, "load")).Methods(http.MethodPost)
	r.HandleFunc("/load/{athleteId}/weekly", MetricsMiddleware(s.loadHandler.HandleWeekly, "load_weekly")).Methods(http.MethodGet)
	r.HandleFunc("/load/{athleteId}/workload", MetricsMiddleware(s.loadHandler.HandleWorkload, "load_workload")).Methods(http.MethodGet)
	r.HandleFunc("/load/{athleteId}/trend", MetricsMiddleware(s.loadHandler.HandleTrend, "load_trend")).Methods(http.MethodGet)
	r.HandleFunc("/acwr", MetricsMiddleware(s.loadHandler.HandleACWR, "acwr")).Methods(http.MethodGet)

	r.HandleFunc("/alerts", MetricsMiddleware(s.alertsHandler.HandleTriage, "alerts")).Methods(http.MethodGet)
	r.HandleFunc("/alerts/{athleteId}", MetricsMiddleware(s.alertsHandler.HandleAlert, "alert")).Methods(http.MethodGet)
}

type createdResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps an upstream error onto a status code and error body.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, repository.ErrInvalidRange),
		errors.Is(err, repository.ErrInvalidRecord):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge, "batch_too_large"
	case errors.Is(err, queue.ErrFull):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrNotStarted),
		errors.Is(err, queue.ErrClosed),
		errors.Is(err, repository.ErrClosed):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
