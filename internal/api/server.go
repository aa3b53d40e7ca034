// Package api provides the HTTP API of "shellder serve".
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/aegis-aio/shellder/internal/api/handlers"
	"github.com/aegis-aio/shellder/internal/api/health"
	"github.com/aegis-aio/shellder/internal/api/middleware"
	"github.com/aegis-aio/shellder/internal/inspector"
	"github.com/aegis-aio/shellder/internal/metrics"
	"github.com/aegis-aio/shellder/internal/sessions"
)

// Version is reported by /health and "shellder version". It is set at
// build time with -ldflags "-X github.com/aegis-aio/shellder/internal/api.Version=...".
var Version = "dev"

// Server represents the HTTP API server.
type Server struct {
	router        chi.Router
	httpServer    *http.Server
	inspector     *inspector.Inspector
	sessions      *sessions.Store
	metrics       *metrics.Metrics
	logger        *slog.Logger
	healthChecker *health.Checker
}

// NewServer creates a new API server with the given dependencies.
func NewServer(addr string, insp *inspector.Inspector, store *sessions.Store, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		inspector: insp,
		sessions:  store,
		metrics:   m,
		logger:    logger,
	}
	s.healthChecker = health.NewChecker(Version,
		health.RuntimeProbe(insp.Runtime()),
		health.SessionsProbe(store.Len),
	)

	s.setupRouter()
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// setupRouter configures the router with middleware and routes.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics(s.metrics))
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.Recovery(s.logger))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", s.healthChecker.Handler())
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	serviceHandler := handlers.NewServiceHandler(s.inspector, s.logger)
	snapshotHandler := handlers.NewSnapshotHandler(s.inspector, s.sessions, s.logger)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/services", func(r chi.Router) {
			r.Get("/", serviceHandler.List)
			r.Route("/{name}", func(r chi.Router) {
				r.Get("/counts", serviceHandler.Counts)
				r.Get("/search", serviceHandler.Search)
				r.Post("/snapshots", snapshotHandler.Create)
			})
		})

		r.Route("/snapshots/{id}", func(r chi.Router) {
			r.Get("/pages/{page}", snapshotHandler.Page)
			r.Get("/context", snapshotHandler.Context)
			r.Delete("/", snapshotHandler.Delete)
		})
	})

	s.router = r
}

// HTTPServer returns the underlying http.Server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Router returns the chi router for testing purposes.
func (s *Server) Router() chi.Router {
	return s.router
}
