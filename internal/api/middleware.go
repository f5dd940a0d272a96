package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medilink/telehealth-scheduling/internal/appointment"
	"github.com/medilink/telehealth-scheduling/internal/observability/metrics"
	"github.com/medilink/telehealth-scheduling/pkg/logging"
)

type contextKey string

const (
	requestIDKey    contextKey = "request_id"
	actingUserIDKey contextKey = "acting_user_id"
	actingRoleKey   contextKey = "acting_role"
)

// RequestIDMiddleware adds a unique request ID to each request context
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityMiddleware resolves the acting user from the X-User-ID and
// X-User-Role headers. It stands in for the authentication collaborator;
// handlers only ever see an explicit user id from the context.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "missing_user", "X-User-ID header is required")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_user", "X-User-ID must be a valid UUID")
			return
		}

		role := appointment.RolePatient
		if r.Header.Get("X-User-Role") == string(appointment.RoleDoctor) {
			role = appointment.RoleDoctor
		}

		ctx := context.WithValue(r.Context(), actingUserIDKey, userID)
		ctx = context.WithValue(ctx, actingRoleKey, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware emits one structured log line per request.
func LoggingMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", GetRequestID(r.Context()),
			)
		})
	}
}

// MetricsMiddleware records latency per route pattern.
func MetricsMiddleware(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = r.URL.Path
			}
			m.ObserveRequest(r.Method, pattern, strconv.Itoa(wrapped.statusCode), time.Since(start).Seconds())
		})
	}
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ActingUserID retrieves the resolved user id placed by IdentityMiddleware.
func ActingUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actingUserIDKey).(uuid.UUID)
	return id, ok
}

// ActingRole retrieves the resolved role, defaulting to patient.
func ActingRole(ctx context.Context) appointment.Role {
	if role, ok := ctx.Value(actingRoleKey).(appointment.Role); ok {
		return role
	}
	return appointment.RolePatient
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
