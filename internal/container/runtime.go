// Package container defines the read-only view shellder needs of a
// container runtime.
package container

import (
	"context"

	"github.com/aegis-aio/shellder/internal/models"
)

// ComposeServiceLabel is the label Docker Compose puts on service containers.
const ComposeServiceLabel = "com.docker.compose.service"

// ComposeProjectLabel is the label Docker Compose puts on project containers.
const ComposeProjectLabel = "com.docker.compose.project"

// LogOptions controls a log fetch.
type LogOptions struct {
	// Tail limits the fetch to the last N lines; 0 fetches everything.
	Tail int
}

// Runtime returns container state and log text. Implementations never
// mutate containers.
type Runtime interface {
	// Inspect returns the container's state. A missing container is
	// reported as ContainerStateNotFound, not as an error.
	Inspect(ctx context.Context, name string) (*models.ContainerInfo, error)
	// Logs returns the combined stdout/stderr log text.
	Logs(ctx context.Context, name string, opts LogOptions) (string, error)
	// List returns the containers of a compose project, or all containers
	// when project is empty.
	List(ctx context.Context, project string) ([]models.ContainerInfo, error)
	// Ping verifies the runtime is reachable.
	Ping(ctx context.Context) error
}
