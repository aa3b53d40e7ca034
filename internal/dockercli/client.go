// Package dockercli implements container.Runtime by shelling out to the
// docker (or podman) binary.
package dockercli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/aegis-aio/shellder/internal/container"
	"github.com/aegis-aio/shellder/internal/models"
)

// DefaultBinary is the CLI used when none is configured.
const DefaultBinary = "docker"

const (
	inspectFormat = `{{.Id}}|{{.Name}}|{{.State.Status}}|{{.State.StartedAt}}|{{index .Config.Labels "com.docker.compose.service"}}`
	psFormat      = `{{.ID}}|{{.Names}}|{{.State}}|{{.Label "com.docker.compose.service"}}`
)

// Client provides read-only access to containers through the CLI.
type Client struct {
	binary string
	logger *slog.Logger
}

// NewClient creates a new CLI client. An empty binary means "docker".
func NewClient(binary string, logger *slog.Logger) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		binary: binary,
		logger: logger,
	}
}

// Inspect returns the container's state and start time.
func (c *Client) Inspect(ctx context.Context, name string) (*models.ContainerInfo, error) {
	c.logger.Debug("inspecting container", "binary", c.binary, "name", name)

	cmd := exec.CommandContext(ctx, c.binary, "inspect", "--type", "container", "--format", inspectFormat, name)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && isNoSuchObject(stderr.String()) {
			return models.NotFound(name), nil
		}
		return nil, fmt.Errorf("inspecting container %s: %w\nOutput: %s", name, err, stderr.String())
	}

	info, err := parseInspect(name, stdout.String())
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Logs returns the container's combined stdout and stderr.
func (c *Client) Logs(ctx context.Context, name string, opts container.LogOptions) (string, error) {
	args := []string{"logs"}
	if opts.Tail > 0 {
		args = append(args, "--tail", strconv.Itoa(opts.Tail))
	}
	args = append(args, name)

	c.logger.Debug("fetching container logs", "binary", c.binary, "args", args)

	// Same writer for both streams keeps their relative order.
	cmd := exec.CommandContext(ctx, c.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("fetching logs for %s: %w\nOutput: %s", name, err, string(output))
	}

	return string(output), nil
}

// List returns containers of a compose project, or every container.
func (c *Client) List(ctx context.Context, project string) ([]models.ContainerInfo, error) {
	args := []string{"ps", "-a"}
	if project != "" {
		args = append(args, "--filter", "label="+container.ComposeProjectLabel+"="+project)
	}
	args = append(args, "--format", psFormat)

	c.logger.Debug("listing containers", "binary", c.binary, "project", project)

	cmd := exec.CommandContext(ctx, c.binary, args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	return parsePS(string(output)), nil
}

// Ping checks that the CLI can reach its daemon.
func (c *Client) Ping(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.binary, "version", "--format", "{{.Server.Version}}")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("checking %s daemon: %w\nOutput: %s", c.binary, err, string(output))
	}
	return nil
}

// parseInspect parses the single line produced by inspectFormat.
func parseInspect(name, output string) (*models.ContainerInfo, error) {
	line := strings.TrimSpace(output)
	parts := strings.Split(line, "|")
	if len(parts) < 4 {
		return nil, fmt.Errorf("could not parse inspect output for %s: %q", name, line)
	}

	info := &models.ContainerInfo{
		ID:    parts[0],
		Name:  strings.TrimPrefix(parts[1], "/"),
		State: models.ParseContainerState(parts[2]),
	}
	if info.Name == "" {
		info.Name = name
	}
	// The CLI leaves missing labels as "<no value>".
	if len(parts) > 4 && parts[4] != "<no value>" {
		info.Service = parts[4]
	}
	if started, err := time.Parse(time.RFC3339Nano, parts[3]); err == nil {
		info.StartedAt = started
	}

	return info, nil
}

// parsePS parses the lines produced by psFormat.
func parsePS(output string) []models.ContainerInfo {
	var containers []models.ContainerInfo
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for _, line := range lines {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			continue
		}

		info := models.ContainerInfo{
			ID:    parts[0],
			Name:  strings.Split(parts[1], ",")[0],
			State: models.ParseContainerState(parts[2]),
		}
		if len(parts) > 3 {
			info.Service = parts[3]
		}
		containers = append(containers, info)
	}

	return containers
}

// isNoSuchObject matches the docker and podman "missing container" messages.
func isNoSuchObject(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "no such object") ||
		strings.Contains(lower, "no such container") ||
		strings.Contains(lower, "no container with name or id")
}
