package opshandler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"intakebridge/internal/platform/metrics"
	"intakebridge/internal/transport/http/api"
	"intakebridge/internal/transport/http/middleware"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

type Handler struct {
	Bindings       map[string]bool
	Metrics        *metrics.Collector
	MetricsEnabled bool
	Checks         map[string]Check
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Get("/readyz", h.handleReady)
	r.Get("/debug/env", h.handleEnv)
	r.Get("/metrics", h.handleMetrics)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.Success(w, "ok", nil, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := map[string]string{}
	for _, name := range names {
		if err := h.Checks[name](ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		api.FailWithDetails(w, http.StatusServiceUnavailable, "not_ready", "Not ready.", failed, nil, middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, "ready", map[string]any{"checks": names}, middleware.GetRequestID(r.Context()))
}

// handleEnv reports which bindings are configured. Values are never
// returned.
func (h *Handler) handleEnv(w http.ResponseWriter, r *http.Request) {
	bindings := h.Bindings
	if bindings == nil {
		bindings = map[string]bool{}
	}
	api.Success(w, "Bindings present.", map[string]any{"bindings": bindings}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !h.MetricsEnabled || h.Metrics == nil {
		api.Fail(w, http.StatusNotFound, "not_found", "Metrics disabled.", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, "Metrics snapshot.", h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}
