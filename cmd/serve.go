package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/irfanturkoz/google-maps-scraper/internal/export"
	"github.com/irfanturkoz/google-maps-scraper/internal/history"
	"github.com/irfanturkoz/google-maps-scraper/internal/job"
	"github.com/irfanturkoz/google-maps-scraper/internal/scraper"
	"github.com/irfanturkoz/google-maps-scraper/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server for background search jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Maps.APIKey == "" {
			// Jobs will fail with a credential error rather than crash the
			// process; warn loudly at startup anyway.
			zap.L().Warn("no Google Maps API credential configured, all jobs will fail")
		}

		if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
			return eris.Wrap(err, "create export dir")
		}

		var hist *history.Store
		if cfg.History.Path != "" {
			h, err := history.NewSQLite(cfg.History.Path)
			if err != nil {
				return eris.Wrap(err, "open history store")
			}
			defer h.Close()
			if err := h.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate history store")
			}
			hist = h
		}

		client := newMapsClient()
		agg := scraper.NewAggregator(client, &cfg.Search)

		registry := job.NewRegistry()
		runner := job.NewRunner(registry, agg, export.WriteXLSX,
			cfg.Maps.APIKey, cfg.Export.Dir, cfg.Jobs.Workers, cfg.Jobs.QueueSize)

		srv := server.New(runner, registry, hist, cfg.Export.Dir)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return runner.Run(gctx)
		})
		g.Go(func() error {
			return srv.ListenAndServe(gctx, port())
		})

		return g.Wait()
	},
}

func port() int {
	if servePort != 0 {
		return servePort
	}
	return cfg.Server.Port
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
