package handler

import (
	"context"
	"net/http"
	"time"

	"shelfscope/internal/domain"

	"github.com/google/uuid"
)

const slowRequestThreshold = 5 * time.Second

// responseWriter captures the status code written by the next handler
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// RequestLogger tags every request with an X-Request-ID and logs its outcome
func RequestLogger(logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set("X-Request-ID", requestID)
			ctx := context.WithValue(r.Context(), requestIDContextKey, requestID)

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			logger.Debug("Request started",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_ip", extractIP(r, false),
			)

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			duration := time.Since(start)
			fields := []interface{}{
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", duration.Milliseconds(),
			}

			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				logger.Warn("Request failed", fields...)
			case duration > slowRequestThreshold:
				logger.Warn("Slow request", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
		})
	}
}
