package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/a9s/internal/server"
)

// serveCommand runs the HTTP API on the configured store and cache.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the annotation HTTP API",
		Long: `Serve the annotation HTTP API.

Routes:
  GET    /healthz
  GET    /annotations?source=...
  POST   /annotations
  GET    /annotations/{id}
  PUT    /annotations/{id}
  DELETE /annotations/{id}
  POST   /selectors/parse
  POST   /selectors/serialize
  GET    /render.svg?source=...&width=...&height=...`,
		Example: `  a9s serve --addr :9000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			store, err := c.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			rc, err := c.openCache(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer rc.Close()

			style, selected := renderStyles(cfg)
			srv := server.New(store,
				server.WithLogger(c.Logger),
				server.WithCache(rc, cfg.Server.RenderTTL.Duration),
				server.WithImage(imageContext(cfg, 0, 0, "")),
				server.WithStyles(style, selected),
			)
			return srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout.Duration, cfg.Server.WriteTimeout.Duration)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	return cmd
}
