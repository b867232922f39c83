package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/nix-template/internal/server"
	"github.com/matzehuels/nix-template/pkg/observability"
)

// serveCommand creates the command running the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered previews over HTTP",
		Long: `Serve rendered previews over HTTP.

  GET  /templates   list templates
  POST /render      render from JSON options, e.g. {"template":"python","pname":"requests"}
  GET  /stats       render and cache counters

Nothing is written to disk. Set cache.redis_url to share the registry cache
between several servers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			runner, backend, err := c.newRunner(ctx, cfg, noCache, false)
			if err != nil {
				return err
			}
			defer backend.Close()

			stats := server.NewStats()
			observability.SetPipelineHooks(stats)
			observability.SetCacheHooks(stats)

			srv := server.New(addr, runner, stats, c.Logger)
			printSuccess("Preview server ready")
			printLink("Templates", "http://"+srv.Addr()+"/templates")
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the registry response cache")

	return cmd
}
