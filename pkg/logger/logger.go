// Package logger wraps slog with the fields shellder attaches to log
// records: component, service, request and snapshot IDs.
package logger

import (
	"context"
	"io"
	"log/slog"
)

type contextKey string

const (
	// RequestIDKey is the context key for the HTTP request ID.
	RequestIDKey contextKey = "request_id"
	// SnapshotIDKey is the context key for a browsing session ID.
	SnapshotIDKey contextKey = "snapshot_id"
)

// Logger wraps slog.Logger with additional context-aware methods.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing text or JSON records to w. Command output
// goes to stdout, so the CLI passes stderr here.
func New(w io.Writer, level slog.Level, json bool) *Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if json {
		handler = slog.NewJSONHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// Wrap adapts an existing slog.Logger. A nil logger wraps slog.Default().
func Wrap(l *slog.Logger) *Logger {
	if l == nil {
		l = slog.Default()
	}
	return &Logger{Logger: l}
}

// WithContext returns a Logger carrying the request and snapshot IDs found
// in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	logger := l.Logger
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With(string(RequestIDKey), id)
	}
	if id := SnapshotIDFromContext(ctx); id != "" {
		logger = logger.With(string(SnapshotIDKey), id)
	}
	return &Logger{Logger: logger}
}

// WithComponent returns a Logger with the component field.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component)}
}

// WithService returns a Logger with the service field.
func (l *Logger) WithService(service string) *Logger {
	return &Logger{Logger: l.Logger.With("service", service)}
}

// WithError returns a Logger with the error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With("error", err.Error())}
}

// ContextWithRequestID adds a request ID to the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// ContextWithSnapshotID adds a browsing session ID to the context.
func ContextWithSnapshotID(ctx context.Context, snapshotID string) context.Context {
	return context.WithValue(ctx, SnapshotIDKey, snapshotID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// SnapshotIDFromContext extracts the browsing session ID from context.
func SnapshotIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(SnapshotIDKey).(string)
	return id
}
