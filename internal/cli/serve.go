package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stageflow/pkg/cache"
	"github.com/matzehuels/stageflow/pkg/observability"
	"github.com/matzehuels/stageflow/pkg/server"
)

// apiKeyScope keeps API cache entries apart from CLI ones in a shared cache.
const apiKeyScope = "api:"

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram builder over HTTP",
		Long: `Serve runs the HTTP API until interrupted:

  POST /v1/graph     build a diagram from records in the body
  GET  /v1/formats   list output formats
  GET  /healthz      liveness probe
  GET  /metrics      Prometheus metrics (server.metrics in config)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(runner.Keyer, apiKeyScope)

			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			var metrics *observability.Prometheus
			if c.cfg.Server.Metrics {
				metrics = observability.NewPrometheus(appName)
				defer observability.Register(metrics.Hooks())()
			}

			srv := server.New(server.Config{
				Addr:         addr,
				Runner:       runner,
				Logger:       c.Logger,
				Metrics:      metrics,
				MaxBodyBytes: c.cfg.Server.MaxBodyBytes,
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
