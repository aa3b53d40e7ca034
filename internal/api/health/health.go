// Package health reports whether "shellder serve" can reach its container
// runtime.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Status represents the health status of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// severity orders statuses from best to worst.
var severity = map[Status]int{StatusHealthy: 0, StatusDegraded: 1, StatusUnhealthy: 2}

// ComponentStatus represents the health status of a single component.
type ComponentStatus struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Response represents the health check response.
type Response struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentStatus `json:"components"`
	Version    string                     `json:"version"`
	Uptime     string                     `json:"uptime"`
}

// Pinger is implemented by container runtimes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe checks one component.
type Probe struct {
	Name  string
	Check func(ctx context.Context) ComponentStatus
}

// RuntimeProbe pings the container runtime. A nil pinger is unhealthy.
func RuntimeProbe(p Pinger) Probe {
	return Probe{Name: "runtime", Check: func(ctx context.Context) ComponentStatus {
		if p == nil {
			return ComponentStatus{Status: StatusUnhealthy, Message: "container runtime not configured"}
		}
		if err := p.Ping(ctx); err != nil {
			return ComponentStatus{Status: StatusUnhealthy, Message: "runtime ping failed: " + err.Error()}
		}
		return ComponentStatus{Status: StatusHealthy, Message: "connected"}
	}}
}

// SessionsProbe reports the number of open browsing sessions.
func SessionsProbe(count func() int) Probe {
	return Probe{Name: "sessions", Check: func(context.Context) ComponentStatus {
		return ComponentStatus{Status: StatusHealthy, Message: fmt.Sprintf("%d active", count())}
	}}
}

// Checker runs probes under a shared timeout.
type Checker struct {
	probes    []Probe
	version   string
	startTime time.Time
	timeout   time.Duration
}

// NewChecker creates a health checker.
func NewChecker(version string, probes ...Probe) *Checker {
	return &Checker{
		probes:    probes,
		version:   version,
		startTime: time.Now(),
		timeout:   5 * time.Second,
	}
}

// SetTimeout sets the timeout shared by all probes. Call before serving.
func (c *Checker) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// Check runs every probe. The overall status is the worst component status.
func (c *Checker) Check(ctx context.Context) *Response {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp := &Response{
		Status:     StatusHealthy,
		Components: make(map[string]ComponentStatus, len(c.probes)),
		Version:    c.version,
		Uptime:     time.Since(c.startTime).Round(time.Second).String(),
	}
	for _, p := range c.probes {
		status := p.Check(ctx)
		resp.Components[p.Name] = status
		if severity[status.Status] > severity[resp.Status] {
			resp.Status = status.Status
		}
	}
	return resp
}

// Handler serves the health response: 503 when unhealthy, else 200.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := c.Check(r.Context())

		status := http.StatusOK
		if response.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(response)
	}
}
