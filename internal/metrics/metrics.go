package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"awardmatch/internal/models"
	"awardmatch/internal/readiness"
)

var (
	awardReadinessDesc = prometheus.NewDesc(
		"awardmatch_award_readiness_percent",
		"Share of an award's criteria currently satisfied",
		[]string{"award"},
		nil,
	)
	awardSatisfiedDesc = prometheus.NewDesc(
		"awardmatch_award_satisfied_criteria",
		"Number of satisfied criteria by award",
		[]string{"award"},
		nil,
	)
	overallReadinessDesc = prometheus.NewDesc(
		"awardmatch_overall_readiness_percent",
		"Share of awards that are ready to apply for",
		nil,
		nil,
	)
)

var (
	ContentAnalyzed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "awardmatch_content_analyzed_total",
			Help: "Total number of content items scored",
		},
		[]string{"mode"},
	)

	CriterionMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "awardmatch_criterion_matches_total",
			Help: "Total number of content/criterion matches at or above the threshold",
		},
		[]string{"award"},
	)

	RowWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "awardmatch_row_write_failures_total",
			Help: "Total number of criterion rows that could not be updated",
		},
		[]string{"kind"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "awardmatch_analysis_duration_seconds",
			Help: "Duration of analysis runs in seconds",
		},
		[]string{"mode"},
	)
)

// Summarizer is the readiness view the collector reads on each scrape.
type Summarizer interface {
	Summarize(ctx context.Context) ([]models.ReadinessSnapshot, error)
}

// ReadinessCollector is a custom Prometheus collector that reads readiness
// from the state store on each scrape.
type ReadinessCollector struct {
	summarizer Summarizer
	logger     *zap.Logger
}

// NewReadinessCollector creates a collector over s.
func NewReadinessCollector(s Summarizer, logger *zap.Logger) *ReadinessCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReadinessCollector{summarizer: s, logger: logger}
}

// Describe sends the metric descriptors to the channel.
func (c *ReadinessCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- awardReadinessDesc
	ch <- awardSatisfiedDesc
	ch <- overallReadinessDesc
}

// Collect summarizes readiness and emits it as gauges.
func (c *ReadinessCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snaps, err := c.summarizer.Summarize(ctx)
	if err != nil {
		c.logger.Error("failed to collect readiness metrics", zap.Error(err))
		return
	}

	for _, s := range snaps {
		ch <- prometheus.MustNewConstMetric(awardReadinessDesc, prometheus.GaugeValue, float64(s.Percentage), s.AwardKey)
		ch <- prometheus.MustNewConstMetric(awardSatisfiedDesc, prometheus.GaugeValue, float64(s.SatisfiedCount), s.AwardKey)
	}
	ch <- prometheus.MustNewConstMetric(overallReadinessDesc, prometheus.GaugeValue, float64(readiness.Overall(snaps)))
}

var initOnce sync.Once

// Init registers the readiness collector with the default registry.
// Must be called once at startup.
func Init(s Summarizer, logger *zap.Logger) {
	initOnce.Do(func() {
		prometheus.MustRegister(NewReadinessCollector(s, logger))
	})
}

// RecordAnalysis records the outcome of one analysis run.
func RecordAnalysis(mode string, analyzed int, matchesByAward map[string]int, failed []models.FailedRow, elapsed time.Duration) {
	ContentAnalyzed.WithLabelValues(mode).Add(float64(analyzed))
	for award, n := range matchesByAward {
		CriterionMatches.WithLabelValues(award).Add(float64(n))
	}
	for _, f := range failed {
		RowWriteFailures.WithLabelValues(f.Kind).Inc()
	}
	AnalysisDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}
