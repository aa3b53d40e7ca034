package models

import "time"

// ContainerState represents the lifecycle state of a container as reported
// by the container runtime.
type ContainerState string

const (
	// ContainerStateRunning indicates the container process is up.
	ContainerStateRunning ContainerState = "running"
	// ContainerStateStopped indicates the container exists but is not running.
	ContainerStateStopped ContainerState = "stopped"
	// ContainerStateNotFound indicates no container with that name exists.
	ContainerStateNotFound ContainerState = "not_found"
)

// ParseContainerState maps a runtime status string ("running", "exited",
// "created", ...) onto a ContainerState.
func ParseContainerState(status string) ContainerState {
	switch status {
	case "running", "restarting":
		return ContainerStateRunning
	case "":
		return ContainerStateNotFound
	default:
		return ContainerStateStopped
	}
}

// ContainerInfo is a read-only view of a container's runtime state.
// It is queried per request and never cached beyond one invocation.
type ContainerInfo struct {
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name"`
	Service   string         `json:"service,omitempty"` // compose service label, if any
	State     ContainerState `json:"state"`
	StartedAt time.Time      `json:"started_at"`
}

// StartKnown reports whether StartedAt carries a usable process start time.
// Zero values and the Unix epoch are treated as unknown.
func (c ContainerInfo) StartKnown() bool {
	return !c.StartedAt.IsZero() && c.StartedAt.Unix() > 0
}

// Available reports whether logs from this container should be classified.
func (c ContainerInfo) Available() bool {
	return c.State == ContainerStateRunning
}

// NotFound returns the info for a container the runtime does not know about.
func NotFound(name string) *ContainerInfo {
	return &ContainerInfo{Name: name, State: ContainerStateNotFound}
}
