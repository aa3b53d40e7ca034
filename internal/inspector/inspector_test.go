package inspector

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-aio/shellder/internal/classifier"
	"github.com/aegis-aio/shellder/internal/container"
	"github.com/aegis-aio/shellder/internal/models"
)

type fakeRuntime struct {
	containers map[string]models.ContainerInfo
	logs       map[string]string
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

func (f *fakeRuntime) Ping(ctx context.Context) error { return nil }

type countingRecorder struct {
	snapshots int
	counts    int
	entries   int
}

func (r *countingRecorder) ObserveSnapshot(string, bool, int)                { r.snapshots++ }
func (r *countingRecorder) ObserveCounts(string, []classifier.CategoryCount) { r.counts++ }
func (r *countingRecorder) ObserveEntries(string, map[models.Tag]int)        { r.entries++ }

var started = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newInspector(rec Recorder) *Inspector {
	rt := &fakeRuntime{
		containers: map[string]models.ContainerInfo{
			"golbat":   {Name: "golbat", State: models.ContainerStateRunning, StartedAt: started},
			"database": {Name: "database", State: models.ContainerStateStopped},
		},
		logs: map[string]string{
			"golbat": "2024-05-01 10:00:30 ERROR connection refused\n" +
				"2024-05-01 10:05:00 connection established\n" +
				"2024-05-01 10:06:00 FATAL database is locked\n",
		},
	}
	return New(rt, classifier.New(), slog.New(slog.NewTextHandler(io.Discard, nil)), WithRecorder(rec))
}

func TestCounts(t *testing.T) {
	rec := &countingRecorder{}
	i := newInspector(rec)

	res, err := i.Counts(context.Background(), "golbat")
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, 3, res.Lines)
	for _, c := range res.Counts {
		switch c.Name {
		case "connection":
			assert.Equal(t, 1, c.Count)
		case "database":
			assert.Equal(t, 1, c.Count)
		}
	}
	assert.Equal(t, 1, rec.snapshots)
	assert.Equal(t, 1, rec.counts)
}

func TestCountsUnavailable(t *testing.T) {
	i := newInspector(&countingRecorder{})

	res, err := i.Counts(context.Background(), "database")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, models.ContainerStateStopped, res.State)
	assert.Nil(t, res.Counts)

	res, err = i.Counts(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, models.ContainerStateNotFound, res.State)
}

func TestSearchInvalidPattern(t *testing.T) {
	i := newInspector(noopRecorder{})

	res, err := i.Search(context.Background(), "golbat", "([")
	require.NoError(t, err)
	assert.True(t, res.Invalid)
	assert.Zero(t, res.Count)

	res, err = i.Search(context.Background(), "golbat", "locked")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
}

func TestStatus(t *testing.T) {
	i := newInspector(&countingRecorder{})

	statuses, err := i.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.Equal(t, "database", statuses[0].Container.Name)
	assert.Zero(t, statuses[0].Lines)

	golbat := statuses[1]
	assert.Equal(t, 3, golbat.Lines)
	assert.Equal(t, 1, golbat.Startup)
	assert.Equal(t, 1, golbat.Errors)
	assert.NotEmpty(t, golbat.Uptime)
}
