package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"awardmatch/internal/apperr"
	"awardmatch/internal/db"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze every document and event once and print the batch report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEngine(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer e.Close()

		items, err := e.Content.List(ctx)
		if err != nil {
			return err
		}

		report, err := e.Analyzer.AnalyzeAll(ctx, items)
		if err != nil {
			return err
		}
		if len(report.Failed) > 0 {
			logger.Warn("some criteria were not updated", zap.Int("failed_rows", len(report.Failed)))
		}
		return writeJSON(cmd.OutOrStdout(), report)
	},
}

var readinessCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Print the readiness summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEngine(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer e.Close()

		summary, err := e.Aggregator.Summary(ctx)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), summary)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.UsesMemoryStore() {
			return apperr.Config("migrate needs STORE_DRIVER=postgres")
		}
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			return eris.Wrap(err, "run migrations")
		}
		logger.Info("migrations completed successfully")
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
