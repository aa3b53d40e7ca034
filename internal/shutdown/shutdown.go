// Package shutdown stops the components of "shellder serve" on SIGINT or
// SIGTERM: the HTTP listener first, then the session sweeper and the
// runtime connection.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// DefaultTimeout bounds the whole shutdown sequence.
const DefaultTimeout = 15 * time.Second

// Coordinator stops registered components one at a time, last registered
// first, within a single timeout.
type Coordinator struct {
	mu         sync.Mutex
	components []Component
	timeout    time.Duration
	logger     *slog.Logger
	signals    chan os.Signal

	once     sync.Once
	done     chan struct{}
	exitCode int
	err      error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTimeout sets the shutdown timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Coordinator) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithSignalChannel replaces SIGINT/SIGTERM delivery with ch.
func WithSignalChannel(ch chan os.Signal) Option {
	return func(c *Coordinator) {
		c.signals = ch
	}
}

// NewCoordinator creates a coordinator.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds a component. Components stop in reverse registration order.
func (c *Coordinator) Register(component Component) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components = append(c.components, component)
	c.logger.Debug("registered shutdown component", "name", component.Name())
}

// WaitForSignal blocks until SIGINT or SIGTERM, then shuts down.
func (c *Coordinator) WaitForSignal() {
	sigCh := c.signals
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
	}

	select {
	case sig := <-sigCh:
		c.logger.Info("received shutdown signal", "signal", sig.String())
		c.Shutdown()
	case <-c.done:
	}
}

// Shutdown stops every component. Only the first call does anything; a
// component that fails is logged and the sequence continues. When the
// timeout expires first the exit code becomes 1.
func (c *Coordinator) Shutdown() {
	c.once.Do(func() {
		c.logger.Info("shutting down", "timeout", c.timeout)

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		c.mu.Lock()
		components := append([]Component(nil), c.components...)
		c.mu.Unlock()

		finished := make(chan error, 1)
		go func() {
			finished <- stopAll(ctx, components, c.logger)
		}()

		select {
		case err := <-finished:
			c.err = err
			c.logger.Info("shutdown complete")
		case <-ctx.Done():
			c.exitCode = 1
			c.err = fmt.Errorf("shutdown did not finish within %s", c.timeout)
			c.logger.Warn("shutdown timeout exceeded, forcing termination")
		}
		close(c.done)
	})
}

func stopAll(ctx context.Context, components []Component, logger *slog.Logger) error {
	var errs []error
	for i := len(components) - 1; i >= 0; i-- {
		comp := components[i]
		if err := comp.Shutdown(ctx); err != nil {
			logger.Error("component shutdown failed", "name", comp.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", comp.Name(), err))
			continue
		}
		logger.Debug("component stopped", "name", comp.Name())
	}
	return errors.Join(errs...)
}

// Wait blocks until shutdown is complete.
func (c *Coordinator) Wait() {
	<-c.done
}

// ExitCode is 0 after a shutdown that finished in time and 1 otherwise.
func (c *Coordinator) ExitCode() int {
	return c.exitCode
}

// Err returns the component failures of a completed shutdown, or the
// timeout error.
func (c *Coordinator) Err() error {
	return c.err
}
