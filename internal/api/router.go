package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/medilink/telehealth-scheduling/internal/observability/metrics"
	"github.com/medilink/telehealth-scheduling/pkg/logging"
)

type RouterConfig struct {
	Service     BookingService
	PgPool      *pgxpool.Pool
	Redis       *redis.Client
	Logger      *logging.Logger
	HTTPMetrics *metrics.HTTPMetrics
	Env         string
	Version     string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(MetricsMiddleware(cfg.HTTPMetrics))
	}

	// Health and metrics endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Appointment endpoints require a resolved acting user
	r.Group(func(r chi.Router) {
		r.Use(IdentityMiddleware)

		r.Post("/appointments", bookAppointmentHandler(cfg.Service))
		r.Get("/appointments", listAppointmentsHandler(cfg.Service))
		r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Service))
		r.Post("/appointments/{id}/complete", completeAppointmentHandler(cfg.Service))
	})

	return r
}
