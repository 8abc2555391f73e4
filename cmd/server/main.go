package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"awardmatch/internal/config"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:          "awardmatch",
	Short:        "Award-readiness matching engine",
	Long:         "Scores documents and events against award criteria, tracks which criteria are satisfied and reports readiness per award.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c

		l, err := config.InitLogger(cfg)
		if err != nil {
			return eris.Wrap(err, "init logger")
		}
		logger = l

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, analyzeCmd, readinessCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
