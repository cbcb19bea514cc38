package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"intakebridge/internal/platform/config"
	"intakebridge/internal/platform/metrics"
	"intakebridge/internal/transport/http/api"
	intakehandler "intakebridge/internal/transport/http/handlers/intake"
	opshandler "intakebridge/internal/transport/http/handlers/ops"
	"intakebridge/internal/transport/http/middleware"
)

const notFoundMessage = "Not found. Use POST /auth/employee, /winteam/shifts, /monday/write, /zva/shift-write-by-cell, /zva/shift-write, /zva/absence or /zva/resignation."

func NewRouter(cfg config.Config, collector *metrics.Collector, ops *opshandler.Handler, intakeHandler *intakehandler.Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", notFoundMessage, middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed.", middleware.GetRequestID(r.Context()))
	})

	ops.RegisterRoutes(router)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.VerificationRateLimit(cfg.RateLimitPerMinute, time.Minute))
		intakeHandler.RegisterRoutes(r)
	})
	return router
}
