package logs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aegis-aio/shellder/internal/container"
)

// Fetcher takes snapshots through a container runtime.
type Fetcher struct {
	runtime container.Runtime
	tail    int
	logger  *slog.Logger
	now     func() time.Time
}

// NewFetcher creates a fetcher. A non-positive tail reads the whole log.
func NewFetcher(runtime container.Runtime, tail int, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		runtime: runtime,
		tail:    tail,
		logger:  logger,
		now:     time.Now,
	}
}

// Snapshot inspects the service's container and, when it is running,
// reads its log once. Stopped or missing containers yield an unavailable
// snapshot rather than an error.
func (f *Fetcher) Snapshot(ctx context.Context, service string) (*Snapshot, error) {
	info, err := f.runtime.Inspect(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", service, err)
	}

	takenAt := f.now()
	if !info.Available() {
		f.logger.Debug("container not available",
			"service", service,
			"state", info.State,
		)
		return Unavailable(service, *info, takenAt), nil
	}

	text, err := f.runtime.Logs(ctx, service, container.LogOptions{Tail: f.tail})
	if err != nil {
		return nil, fmt.Errorf("reading logs for %s: %w", service, err)
	}

	snap := NewSnapshot(service, *info, text, takenAt)
	f.logger.Debug("snapshot taken",
		"service", service,
		"lines", snap.Len(),
		"started_at", info.StartedAt,
	)
	return snap, nil
}
