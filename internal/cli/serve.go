package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/aegis-aio/shellder/internal/api"
	"github.com/aegis-aio/shellder/internal/inspector"
	"github.com/aegis-aio/shellder/internal/metrics"
	"github.com/aegis-aio/shellder/internal/sessions"
	"github.com/aegis-aio/shellder/internal/shutdown"
)

const sweepInterval = time.Minute

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the classifier over HTTP",
		Long: `Serve counts, search and numbered error browsing over a JSON HTTP API,
with Prometheus metrics on /metrics. Browsing sessions keep their snapshot
in memory until they expire.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	cfg := a.cfg
	cmd.Flags().StringVar(&cfg.Server.APIHost, "host", cfg.Server.APIHost, "listen host")
	cmd.Flags().IntVar(&cfg.Server.APIPort, "port", cfg.Server.APIPort, "listen port")
	cmd.Flags().DurationVar(&cfg.Server.SessionTTL, "session-ttl", cfg.Server.SessionTTL, "idle lifetime of a browsing session")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	log := a.logger()
	m := metrics.New()

	insp, err := a.inspector(inspector.WithRecorder(m))
	if err != nil {
		return err
	}
	store := sessions.NewStore(a.cfg.Server.SessionTTL,
		sessions.WithObserver(m.SetSessions),
		sessions.WithLogger(log),
	)
	server := api.NewServer(a.cfg.APIAddr(), insp, store, m, log)

	coord := shutdown.NewCoordinator(
		shutdown.WithTimeout(a.cfg.Server.ShutdownTimeout),
		shutdown.WithLogger(log),
	)
	if a.closer != nil {
		coord.Register(shutdown.Closer("runtime", a.closer))
		a.closer = nil
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go store.Run(sweepCtx, sweepInterval)
	coord.Register(shutdown.Func("session-sweeper", func(context.Context) error {
		stopSweep()
		return nil
	}))
	coord.Register(shutdown.HTTPServer("api", server.HTTPServer()))

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", "addr", a.cfg.APIAddr())
		if err := server.HTTPServer().ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.WithComponent("api").WithError(err).Error("listener failed")
			errCh <- err
			coord.Shutdown()
		}
	}()
	go coord.WaitForSignal()

	coord.Wait()
	select {
	case err := <-errCh:
		return fmt.Errorf("serving API: %w", err)
	default:
	}
	if err := coord.Err(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
