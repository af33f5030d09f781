package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

/*
newRequestLoggerMiddleware tags every request with an ID and logs how it was
answered. Requests under excludedPaths are passed through untouched.
*/
func newRequestLoggerMiddleware(excludedPaths []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			for _, excludedPath := range excludedPaths {
				if strings.HasPrefix(path, excludedPath) {
					next.ServeHTTP(w, r)
					return
				}
			}

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			w.Header().Set("X-Request-ID", requestID)
			ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)

			next.ServeHTTP(recorder, r.WithContext(ctx))

			slog.Info("request",
				"requestID", requestID,
				"method", r.Method,
				"path", path,
				"status", recorder.status,
				"duration", time.Since(start),
			)
		})
	}
}

func requestIDFromContext(ctx context.Context) string {
	if result, ok := ctx.Value(requestIDKey{}).(string); ok {
		return result
	}

	return ""
}
