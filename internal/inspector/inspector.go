// Package inspector ties the runtime, snapshot fetcher and classifier
// together into the operations exposed by the CLI and the HTTP API.
package inspector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aegis-aio/shellder/internal/browser"
	"github.com/aegis-aio/shellder/internal/classifier"
	"github.com/aegis-aio/shellder/internal/container"
	"github.com/aegis-aio/shellder/internal/logs"
	"github.com/aegis-aio/shellder/internal/models"
)

// Recorder receives classification metrics.
type Recorder interface {
	ObserveSnapshot(service string, available bool, lines int)
	ObserveCounts(service string, counts []classifier.CategoryCount)
	ObserveEntries(service string, tags map[models.Tag]int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveSnapshot(string, bool, int)                {}
func (noopRecorder) ObserveCounts(string, []classifier.CategoryCount) {}
func (noopRecorder) ObserveEntries(string, map[models.Tag]int)        {}

// Inspector runs classifier operations against live containers.
type Inspector struct {
	runtime    container.Runtime
	fetcher    *logs.Fetcher
	classifier *classifier.Classifier
	recorder   Recorder
	project    string
	logger     *slog.Logger
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(i *Inspector) {
		i.recorder = r
	}
}

// WithProject restricts Status to one compose project.
func WithProject(project string) Option {
	return func(i *Inspector) {
		i.project = project
	}
}

// WithTail limits the number of log lines read per snapshot.
func WithTail(tail int) Option {
	return func(i *Inspector) {
		i.fetcher = logs.NewFetcher(i.runtime, tail, i.logger)
	}
}

// New creates an Inspector.
func New(rt container.Runtime, c *classifier.Classifier, logger *slog.Logger, opts ...Option) *Inspector {
	if logger == nil {
		logger = slog.Default()
	}
	i := &Inspector{
		runtime:    rt,
		fetcher:    logs.NewFetcher(rt, 0, logger),
		classifier: c,
		recorder:   noopRecorder{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Classifier returns the classifier in use.
func (i *Inspector) Classifier() *classifier.Classifier {
	return i.classifier
}

// Runtime returns the container runtime in use.
func (i *Inspector) Runtime() container.Runtime {
	return i.runtime
}

// Snapshot takes one snapshot of service. An invalid name is reported as a
// *models.ValidationError.
func (i *Inspector) Snapshot(ctx context.Context, service string) (*logs.Snapshot, error) {
	if err := models.ValidateContainerName(service); err != nil {
		return nil, err
	}
	snap, err := i.fetcher.Snapshot(ctx, service)
	if err != nil {
		return nil, err
	}
	i.recorder.ObserveSnapshot(service, snap.Available(), snap.Len())
	return snap, nil
}

// CountsResult holds per-category counts of one snapshot.
type CountsResult struct {
	Service   string                     `json:"service"`
	State     models.ContainerState      `json:"state"`
	Available bool                       `json:"available"`
	Lines     int                        `json:"lines"`
	Counts    []classifier.CategoryCount `json:"counts,omitempty"`
}

// Counts snapshots service and counts each category.
func (i *Inspector) Counts(ctx context.Context, service string) (*CountsResult, error) {
	snap, err := i.Snapshot(ctx, service)
	if err != nil {
		return nil, err
	}

	result := &CountsResult{
		Service:   service,
		State:     snap.Container.State,
		Available: snap.Available(),
		Lines:     snap.Len(),
	}
	if result.Available {
		result.Counts = i.classifier.CountAll(snap.Lines)
		i.recorder.ObserveCounts(service, result.Counts)
	}
	return result, nil
}

// SearchResult is a custom search over one snapshot.
type SearchResult struct {
	Service   string                `json:"service"`
	State     models.ContainerState `json:"state"`
	Available bool                  `json:"available"`
	classifier.SearchResult
}

// Search snapshots service and matches pattern against it. A malformed
// pattern yields an invalid result with no matches.
func (i *Inspector) Search(ctx context.Context, service, pattern string) (*SearchResult, error) {
	snap, err := i.Snapshot(ctx, service)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Service:   service,
		State:     snap.Container.State,
		Available: snap.Available(),
	}
	if result.Available {
		result.SearchResult = i.classifier.Search(snap.Lines, pattern)
	} else {
		result.SearchResult = classifier.SearchResult{Pattern: pattern}
	}
	return result, nil
}

// Session snapshots service once and numbers its error-ish lines.
func (i *Inspector) Session(ctx context.Context, service string) (*browser.Session, error) {
	snap, err := i.Snapshot(ctx, service)
	if err != nil {
		return nil, err
	}
	session := browser.NewSession(snap, i.classifier)
	if snap.Available() {
		i.recorder.ObserveEntries(service, session.Counts())
	}
	return session, nil
}

// ServiceStatus summarises one container for the dashboard.
type ServiceStatus struct {
	Container models.ContainerInfo `json:"container"`
	Lines     int                  `json:"lines"`
	Errors    int                  `json:"errors"`
	Startup   int                  `json:"startup"`
	Uptime    string               `json:"uptime,omitempty"`
}

// Status lists containers and classifies the log of each running one.
func (i *Inspector) Status(ctx context.Context) ([]ServiceStatus, error) {
	containers, err := i.runtime.List(ctx, i.project)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	sort.Slice(containers, func(a, b int) bool {
		return containers[a].Name < containers[b].Name
	})

	statuses := make([]ServiceStatus, 0, len(containers))
	for _, c := range containers {
		status := ServiceStatus{Container: c}
		if c.Available() {
			session, err := i.Session(ctx, c.Name)
			if err != nil {
				i.logger.Warn("classifying container failed", "name", c.Name, "error", err)
			} else {
				snap := session.Snapshot()
				status.Container = snap.Container
				counts := session.Counts()
				status.Lines = snap.Len()
				status.Errors = counts[models.TagError]
				status.Startup = counts[models.TagStartup]
				if snap.Container.StartKnown() {
					status.Uptime = snap.TakenAt.Sub(snap.Container.StartedAt).Round(time.Second).String()
				}
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
