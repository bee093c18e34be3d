package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/knapset/internal/api"
	"github.com/matzehuels/knapset/pkg/metrics"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		maxBody   int64
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the solver over HTTP.

Endpoints:
  POST /v1/solve        solve a JSON instance (?time_limit=5s&max_steps=N)
  POST /v1/verify       check {"instance": ..., "vertices": [...]}
  GET  /v1/runs         list archived runs (?instance=name&limit=N)
  GET  /v1/runs/{id}    fetch one run
  GET  /healthz         liveness
  GET  /metrics         Prometheus metrics

The cache and run archive backends come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr = flagOrConfig(cmd, "addr", addr, c.Config.Server.Addr)
			return c.runServe(cmd.Context(), addr, maxBody, noCache, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().Int64Var(&maxBody, "max-body", 0, "largest accepted request body in bytes (0 = default)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the solution cache")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not record Prometheus metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, maxBody int64, noCache, withMetrics bool) error {
	logger := loggerFromContext(ctx)

	if withMetrics {
		metrics.NewHooks().Register()
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Warn("close run store", "error", err)
		}
	}()

	srv, err := api.New(api.Options{
		Runner:       runner,
		Store:        st,
		Logger:       logger,
		Defaults:     c.solverDefaults(),
		MaxBodyBytes: maxBody,
	})
	if err != nil {
		return err
	}

	logger.Info("starting API",
		"addr", addr,
		"cache", c.Config.Cache.Backend,
		"store", c.Config.Store.Backend)
	return srv.ListenAndServe(ctx, api.ListenOptions{
		Addr:         addr,
		ReadTimeout:  c.Config.Server.ReadTimeout.Duration,
		WriteTimeout: c.Config.Server.WriteTimeout.Duration,
	})
}
