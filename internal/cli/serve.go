package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/qtranspile/pkg/store"
)

const (
	defaultAddr     = ":8080"
	shutdownTimeout = 10 * time.Second
)

// serveCommand creates the serve command, which exposes the pipeline as an
// HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the transpiler over HTTP",
		Long: `Serve starts the HTTP API:

  GET  /healthz
  GET  /v1/backends
  GET  /v1/backends/{name}
  POST /v1/transpile      {"source": "...", "backend": "ibm_demo", "passes": ["cancel", "merge"]}
  GET  /v1/runs
  GET  /v1/runs/{id}

Results share the CLI cache. Runs are recorded in the history store unless
--no-history is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noHistory)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record runs")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noHistory bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	var st store.Store
	if !noHistory {
		st, err = c.openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	srv := &server{runner: runner, store: st, logger: logger}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "history", st != nil)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
