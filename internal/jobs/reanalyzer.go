// Package jobs holds background loops started by the server.
package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"awardmatch/internal/content"
	"awardmatch/internal/models"
)

// BatchAnalyzer runs a full analysis over a content set.
type BatchAnalyzer interface {
	AnalyzeAll(ctx context.Context, items []models.ContentItem) (models.BatchReport, error)
}

// Reanalyzer periodically rescores every content item so the criterion
// state catches up with content added outside the API.
type Reanalyzer struct {
	source   content.Source
	analyzer BatchAnalyzer
	interval time.Duration
	logger   *zap.Logger
}

// NewReanalyzer creates a reanalyzer. An interval of zero or less disables it.
func NewReanalyzer(source content.Source, analyzer BatchAnalyzer, interval time.Duration, logger *zap.Logger) *Reanalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reanalyzer{
		source:   source,
		analyzer: analyzer,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the loop until ctx is cancelled. It returns at once when the
// reanalyzer is disabled.
func (r *Reanalyzer) Start(ctx context.Context) {
	if r.interval <= 0 {
		r.logger.Info("reanalyzer disabled")
		return
	}
	r.logger.Info("reanalyzer started", zap.Duration("interval", r.interval))

	// Run immediately on start
	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reanalyzer stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Reanalyzer) runOnce(ctx context.Context) {
	items, err := r.source.List(ctx)
	if err != nil {
		r.logger.Error("reanalyzer: failed to list content", zap.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}

	report, err := r.analyzer.AnalyzeAll(ctx, items)
	if err != nil {
		r.logger.Error("reanalyzer: analysis failed", zap.Error(err))
		return
	}
	if len(report.Failed) > 0 {
		r.logger.Warn("reanalyzer: some criteria were not updated",
			zap.String("run_id", report.RunID),
			zap.Int("failed_rows", len(report.Failed)),
		)
	}
}
