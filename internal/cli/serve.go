package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stylekey/pkg/api"
	"github.com/matzehuels/stylekey/pkg/observability"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noLogFile bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the stylekey HTTP API.

Routes:
  GET  /health
  GET  /
  POST /api/symbology
  GET  /api/result/{key}/{json|sld|css|rest|png|pdf}

Settings come from the [server], [cache], [log] and [style] sections of the
config file and their STYLEKEY_* environment overrides.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}

			if !noLogFile {
				file, err := newLogFile(cfg.Log)
				if err != nil {
					return err
				}
				if file != nil {
					defer file.Close()
					c.Logger = teeLogger(c.Logger.GetLevel(), os.Stderr, file)
				}
			}
			observability.NewLogHooks(c.Logger).Install()
			defer observability.Reset()

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := api.New(runner, c.Logger, api.Config{
				Addr:         cfg.Server.Addr,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				CORSOrigins:  cfg.Server.CORSOrigins,
				LayerName:    cfg.Style.DefaultLayer,
				StyleName:    cfg.Style.StyleName,
			})

			printInfo("Serving on %s", StyleLink.Render(displayURL(cfg.Server.Addr)))
			printDetail("cache: %s", cfg.Cache.Backend)
			if !noLogFile && cfg.Log.File != "" {
				printDetail("log file: %s", cfg.Log.File)
			}
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8000)")
	cmd.Flags().BoolVar(&noLogFile, "no-log-file", false, "log to stderr only")
	return cmd
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
