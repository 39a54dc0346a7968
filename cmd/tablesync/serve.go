package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tablesync/internal/config"
	"github.com/vango-dev/tablesync/pkg/middleware"
	"github.com/vango-dev/tablesync/pkg/server"
	"github.com/vango-dev/tablesync/pkg/table"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo table",
		Long: `Serve the demo "people" table over websockets.

The listen address comes from server.addr in tablesync.json, the
TABLESYNC_ADDR environment variable or --addr, in increasing order
of precedence.

Examples:
  tablesync serve
  tablesync serve --addr=:9090
  tablesync serve --config=deploy/tablesync.json --log-level=debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (host:port)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(os.Stderr, cfg.Log)

	srv := server.New(cfg, logger)
	if err := srv.Register(demoTable, demoFactory(cfg.Table, logger, tableMiddleware(cfg))); err != nil {
		return err
	}
	return srv.Run(ctx)
}

// tableMiddleware returns the metrics and tracing middleware enabled in cfg.
func tableMiddleware(cfg *config.Config) []table.Middleware {
	var mw []table.Middleware
	if cfg.Tracing.Enabled {
		mw = append(mw, middleware.OpenTelemetry(
			middleware.WithTracerName(cfg.Tracing.TracerName),
			middleware.WithIncludeQuery(true),
		))
	}
	if cfg.Metrics.Enabled {
		mw = append(mw, middleware.Prometheus(middleware.WithNamespace(cfg.Metrics.Namespace)))
	}
	return mw
}
