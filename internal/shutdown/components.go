package shutdown

import (
	"context"
	"io"
	"net/http"
)

// Component is one part of "serve" that is stopped on the way out.
type Component interface {
	Name() string
	// Shutdown should return before ctx expires.
	Shutdown(ctx context.Context) error
}

type component struct {
	name string
	stop func(ctx context.Context) error
}

func (c component) Name() string                       { return c.name }
func (c component) Shutdown(ctx context.Context) error { return c.stop(ctx) }

// HTTPServer closes the listener of srv and waits for in-flight requests.
func HTTPServer(name string, srv *http.Server) Component {
	return component{name: name, stop: srv.Shutdown}
}

// Closer closes a resource such as the Docker API client.
func Closer(name string, c io.Closer) Component {
	return component{name: name, stop: func(context.Context) error {
		return c.Close()
	}}
}

// Func wraps a stop function.
func Func(name string, fn func(ctx context.Context) error) Component {
	return component{name: name, stop: fn}
}
