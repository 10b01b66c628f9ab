package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/taskwave/internal/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	analyzer analyzerOpts
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyzer over HTTP",
		Long: `Serve starts an HTTP API that analyzes manifests posted to /v1/analyze,
returns cached reports from /v1/reports/{fingerprint} and renders graphs at
/v1/render. All requests share one report cache and the configured store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.analyzer.penaltySet = cmd.Flags().Changed("penalty")
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, \""+defaultServerAddr+"\")")
	cmd.Flags().IntVar(&opts.analyzer.penalty, "penalty", 0, "score penalty per resource conflict (0 disables; default from config)")
	cmd.Flags().BoolVar(&opts.analyzer.noCache, "no-cache", false, "do not read or write the report store")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	a, store, err := c.newAnalyzer(ctx, opts.analyzer)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := server.Config{Logger: c.Logger}
	if c.config != nil {
		cfg.Address = c.config.Server.Addr
		cfg.MaxBodyBytes = c.config.Server.MaxBodyBytes
		cfg.ShutdownTimeout = c.config.Server.ShutdownTimeout
	}
	if opts.addr != "" {
		cfg.Address = opts.addr
	}
	if cfg.Address == "" {
		cfg.Address = defaultServerAddr
	}
	srv := server.New(a, cfg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		c.Logger.Info("shutting down")
		return srv.Shutdown(context.WithoutCancel(ctx))
	})
	return g.Wait()
}
