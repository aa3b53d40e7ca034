package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo, true)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithSnapshotID(ctx, "snap-9")
	l.WithContext(ctx).WithComponent("api").WithService("golbat").Info("hello")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"snapshot_id":"snap-9"`)
	assert.Contains(t, out, `"component":"api"`)
	assert.Contains(t, out, `"service":"golbat"`)
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "snap-9", SnapshotIDFromContext(ctx))
}

func TestWithContextSkipsMissingIDs(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, false).WithContext(context.Background()).Info("plain")

	assert.NotContains(t, buf.String(), "request_id")
	assert.NotContains(t, buf.String(), "snapshot_id")
}

func TestWithErrorAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn, false)

	l.Info("dropped")
	l.WithError(errors.New("boom")).Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "error=boom")
}

func TestWrapNil(t *testing.T) {
	assert.Same(t, slog.Default(), Wrap(nil).Logger)
}
