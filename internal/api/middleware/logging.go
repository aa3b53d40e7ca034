// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aegis-aio/shellder/pkg/logger"
)

// RequestLogger logs every request once it completes, tagged with the chi
// request ID and, for session routes, the snapshot ID. Server errors are
// logged at WARN.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	log := logger.Wrap(base)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := logger.ContextWithRequestID(r.Context(), middleware.GetReqID(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			// URL params are resolved by now.
			attrs := []any{
				"method", r.Method,
				"route", routePattern(r),
				"status", statusOf(ww),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"remote_addr", r.RemoteAddr,
			}
			if service := chi.URLParam(r, "name"); service != "" {
				attrs = append(attrs, "service", service)
			}
			if id := chi.URLParam(r, "id"); id != "" {
				ctx = logger.ContextWithSnapshotID(ctx, id)
			}

			level := slog.LevelInfo
			if statusOf(ww) >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			log.WithContext(ctx).Log(ctx, level, "request completed", attrs...)
		})
	}
}
