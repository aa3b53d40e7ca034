// Package docker implements container.Runtime on top of the Docker Engine API.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/aegis-aio/shellder/internal/container"
	"github.com/aegis-aio/shellder/internal/models"
)

// engineAPI is the subset of the Docker SDK client used here.
type engineAPI interface {
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
	ContainerLogs(ctx context.Context, containerID string, options types.ContainerLogsOptions) (io.ReadCloser, error)
	ContainerList(ctx context.Context, options types.ContainerListOptions) ([]types.Container, error)
	Ping(ctx context.Context) (types.Ping, error)
	Close() error
}

// Client talks to the Docker daemon over its API socket.
type Client struct {
	api    engineAPI
	logger *slog.Logger
}

// NewClient creates a client for host (DOCKER_HOST semantics); an empty host
// uses the environment defaults.
func NewClient(host string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing docker client: %w", err)
	}

	return &Client{api: cli, logger: logger}, nil
}

// Close releases the underlying HTTP transport.
func (c *Client) Close() error {
	return c.api.Close()
}

// Inspect returns the state and start time of a container.
func (c *Client) Inspect(ctx context.Context, name string) (*models.ContainerInfo, error) {
	c.logger.Debug("inspecting container", "name", name)

	info, err := c.api.ContainerInspect(ctx, name)
	if err != nil {
		if client.IsErrNotFound(err) {
			return models.NotFound(name), nil
		}
		return nil, fmt.Errorf("inspecting container %s: %w", name, err)
	}

	return containerInfo(name, info), nil
}

// Logs returns the container's stdout and stderr as one text.
func (c *Client) Logs(ctx context.Context, name string, opts container.LogOptions) (string, error) {
	info, err := c.api.ContainerInspect(ctx, name)
	if err != nil {
		return "", fmt.Errorf("inspecting container %s: %w", name, err)
	}

	tail := "all"
	if opts.Tail > 0 {
		tail = strconv.Itoa(opts.Tail)
	}

	c.logger.Debug("fetching container logs", "name", name, "tail", tail)

	rc, err := c.api.ContainerLogs(ctx, name, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       tail,
	})
	if err != nil {
		return "", fmt.Errorf("fetching logs for %s: %w", name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if info.Config != nil && info.Config.Tty {
		_, err = io.Copy(&buf, rc)
	} else {
		// Non-TTY containers multiplex stdout and stderr frames.
		_, err = stdcopy.StdCopy(&buf, &buf, rc)
	}
	if err != nil {
		return "", fmt.Errorf("reading logs for %s: %w", name, err)
	}

	return buf.String(), nil
}

// List returns the containers of a compose project.
func (c *Client) List(ctx context.Context, project string) ([]models.ContainerInfo, error) {
	opts := types.ContainerListOptions{All: true}
	if project != "" {
		opts.Filters = filters.NewArgs(filters.Arg("label", container.ComposeProjectLabel+"="+project))
	}

	list, err := c.api.ContainerList(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	out := make([]models.ContainerInfo, 0, len(list))
	for _, ctr := range list {
		name := ctr.ID
		if len(ctr.Names) > 0 {
			name = strings.TrimPrefix(ctr.Names[0], "/")
		}
		out = append(out, models.ContainerInfo{
			ID:      ctr.ID,
			Name:    name,
			Service: ctr.Labels[container.ComposeServiceLabel],
			State:   models.ParseContainerState(ctr.State),
		})
	}

	return out, nil
}

// Ping checks that the daemon answers.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.Ping(ctx); err != nil {
		return fmt.Errorf("pinging docker daemon: %w", err)
	}
	return nil
}

func containerInfo(name string, info types.ContainerJSON) *models.ContainerInfo {
	out := &models.ContainerInfo{Name: name, State: models.ContainerStateStopped}
	if info.ContainerJSONBase != nil {
		out.ID = info.ID
		if n := strings.TrimPrefix(info.Name, "/"); n != "" {
			out.Name = n
		}
		if info.State != nil {
			out.State = models.ParseContainerState(info.State.Status)
			if started, err := time.Parse(time.RFC3339Nano, info.State.StartedAt); err == nil {
				out.StartedAt = started
			}
		}
	}
	if info.Config != nil {
		out.Service = info.Config.Labels[container.ComposeServiceLabel]
	}
	return out
}
