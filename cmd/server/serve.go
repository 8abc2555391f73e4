package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"awardmatch/internal/jobs"
	"awardmatch/internal/metrics"
	"awardmatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEngine(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer e.Close()

		metrics.Init(e.Aggregator, logger)

		srv := server.New(cfg, logger)
		srv.RegisterRoutes(server.Deps{
			Catalog:    e.Catalog,
			Store:      e.Store,
			Content:    e.Content,
			Analyzer:   e.Analyzer,
			Aggregator: e.Aggregator,
		})

		// Scheduled re-analysis stops with ctx
		go jobs.NewReanalyzer(e.Content, e.Analyzer, cfg.AnalysisInterval, logger).Start(ctx)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("server error", zap.Error(err))
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down server")
		if err := srv.Shutdown(); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
			return err
		}
		logger.Info("server exited")
		return nil
	},
}
