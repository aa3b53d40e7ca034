package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-aio/shellder/internal/classifier"
	"github.com/aegis-aio/shellder/internal/container"
	"github.com/aegis-aio/shellder/internal/inspector"
	"github.com/aegis-aio/shellder/internal/metrics"
	"github.com/aegis-aio/shellder/internal/models"
	"github.com/aegis-aio/shellder/internal/sessions"
)

type fakeRuntime struct {
	containers map[string]models.ContainerInfo
	logs       map[string]string
	pingErr    error
}

func (f *fakeRuntime) Inspect(ctx context.Context, name string) (*models.ContainerInfo, error) {
	info, ok := f.containers[name]
	if !ok {
		return models.NotFound(name), nil
	}
	return &info, nil
}

func (f *fakeRuntime) Logs(ctx context.Context, name string, opts container.LogOptions) (string, error) {
	return f.logs[name], nil
}

func (f *fakeRuntime) List(ctx context.Context, project string) ([]models.ContainerInfo, error) {
	var out []models.ContainerInfo
	for _, c := range f.containers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRuntime) Ping(ctx context.Context) error { return f.pingErr }

func golbatLog() string {
	var b strings.Builder
	for i := 1; i <= 130; i++ {
		switch {
		case i <= 5:
			fmt.Fprintf(&b, "2024-05-01 11:00:%02d connection established to db\n", i)
		case i == 47:
			b.WriteString(`2024-05-01 11:01:00 connection established error="disk full"` + "\n")
		case i%25 == 0:
			fmt.Fprintf(&b, "2024-05-01 11:02:00 ERROR connection refused (%d)\n", i)
		default:
			fmt.Fprintf(&b, "2024-05-01 11:03:00 request %d ok\n", i)
		}
	}
	return b.String()
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	rt := &fakeRuntime{
		containers: map[string]models.ContainerInfo{
			"golbat":   {Name: "golbat", State: models.ContainerStateRunning, StartedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
			"database": {Name: "database", State: models.ContainerStateStopped},
		},
		logs: map[string]string{"golbat": golbatLog()},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	insp := inspector.New(rt, classifier.New(), logger, inspector.WithRecorder(m))
	store := sessions.NewStore(time.Minute, sessions.WithObserver(m.SetSessions))
	return NewServer("127.0.0.1:0", insp, store, m, logger)
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rr := do(t, s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCountsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodGet, "/v1/services/golbat/counts")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["available"])

	counts := body["counts"].([]any)
	var connection float64 = -1
	for _, c := range counts {
		entry := c.(map[string]any)
		if entry["name"] == "connection" {
			connection = entry["count"].(float64)
		}
	}
	// Lines 25, 50, 75, 100, 125 plus the marked line 47.
	assert.Equal(t, 6.0, connection)

	rr = do(t, s, http.MethodGet, "/v1/services/database/counts")
	require.Equal(t, http.StatusOK, rr.Code)
	body = decode(t, rr)
	assert.Equal(t, false, body["available"])
	assert.Equal(t, "stopped", body["state"])
}

func TestSearchEndpointInvalidPattern(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodGet, "/v1/services/golbat/search?q=%28%5B")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["invalid"])
	assert.Equal(t, 0.0, body["count"])
}

func TestSnapshotLifecycle(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/v1/services/golbat/snapshots")
	require.Equal(t, http.StatusCreated, rr.Code)
	snapshot := decode(t, rr)["snapshot"].(map[string]any)
	id := snapshot["id"].(string)
	assert.Equal(t, 6.0, snapshot["entries"])

	rr = do(t, s, http.MethodGet, "/v1/snapshots/"+id+"/pages/1")
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode(t, rr)
	entries := page["entries"].([]any)
	require.Len(t, entries, 6)
	second := entries[1].(map[string]any)
	assert.Equal(t, 47.0, second["line"])

	rr = do(t, s, http.MethodGet, "/v1/snapshots/"+id+"/pages/2")
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, rr.Code)
	assert.Equal(t, "OUT_OF_RANGE", decode(t, rr)["code"])

	rr = do(t, s, http.MethodGet, "/v1/snapshots/"+id+"/context?seq=2&radius=10")
	require.Equal(t, http.StatusOK, rr.Code)
	view := decode(t, rr)
	assert.Equal(t, 37.0, view["from"])
	assert.Equal(t, 57.0, view["to"])

	rr = do(t, s, http.MethodGet, "/v1/snapshots/"+id+"/context?seq=99")
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, rr.Code)

	rr = do(t, s, http.MethodGet, "/v1/snapshots/"+id+"/context?seq=abc")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, s, http.MethodDelete, "/v1/snapshots/"+id)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, s, http.MethodGet, "/v1/snapshots/"+id+"/pages/1")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSnapshotOfStoppedContainer(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodPost, "/v1/services/database/snapshots")
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, false, body["available"])
	assert.Nil(t, body["snapshot"])
}

func TestServicesAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodGet, "/v1/services")
	require.Equal(t, http.StatusOK, rr.Code)
	services := decode(t, rr)["services"].([]any)
	assert.Len(t, services, 2)

	rr = do(t, s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `shellder_snapshots_total{available="true",service="golbat"}`)
}

func TestInvalidServiceName(t *testing.T) {
	s := newTestServer(t)

	rr := do(t, s, http.MethodGet, "/v1/services/-golbat/counts")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, "service", body["details"].(map[string]any)["field"])
	assert.NotEmpty(t, body["request_id"])
}
