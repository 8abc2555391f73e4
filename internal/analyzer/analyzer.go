// Package analyzer runs content through the scorer and merges matches into
// the criterion state store.
package analyzer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"awardmatch/internal/apperr"
	"awardmatch/internal/catalog"
	"awardmatch/internal/matching"
	"awardmatch/internal/metrics"
	"awardmatch/internal/models"
	"awardmatch/internal/store"
)

// Analysis modes, used as metric labels.
const (
	ModeBatch  = "batch"
	ModeSingle = "single"
)

// Options configures an Analyzer.
type Options struct {
	Threshold   float64 // Match threshold; 0 uses matching.DefaultMatchThreshold
	Concurrency int     // Items scored in parallel; values below 1 mean 1
	Logger      *zap.Logger
}

// Analyzer scores content against the catalog and records matches.
type Analyzer struct {
	catalog     *catalog.Catalog
	scorer      *matching.Scorer
	store       store.Store
	concurrency int
	logger      *zap.Logger
}

// New creates an analyzer.
func New(c *catalog.Catalog, s store.Store, opts Options) *Analyzer {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Analyzer{
		catalog:     c,
		scorer:      matching.NewScorer(c.Awards(), opts.Threshold),
		store:       s,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
	}
}

// Scorer returns the scorer in use.
func (a *Analyzer) Scorer() *matching.Scorer {
	return a.scorer
}

// batch collects worker results under one lock.
type batch struct {
	mu       sync.Mutex
	analyzed int
	matches  map[string]int
	newly    map[models.CriterionKey]bool
	failed   []models.FailedRow
}

func (b *batch) record(results []writeResult) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.analyzed++
	for _, r := range results {
		b.matches[r.key.AwardKey]++
		if r.err != nil {
			b.failed = append(b.failed, failedRow(r.key, r.err))
			continue
		}
		if r.res.NewlySatisfied {
			b.newly[r.key] = true
		}
	}
}

func (b *batch) totalMatches() int {
	n := 0
	for _, m := range b.matches {
		n += m
	}
	return n
}

type writeResult struct {
	key models.CriterionKey
	res models.AutoMatchResult
	err error
}

// AnalyzeAll scores every active item and merges its matches into the store.
// Scoring runs in parallel. Row writes are detached from ctx cancellation so
// a row is never abandoned half way; cancelling ctx stops new items from
// being submitted and marks the report partial. Rows that fail to update are
// listed in the report and do not stop the batch.
func (a *Analyzer) AnalyzeAll(ctx context.Context, items []models.ContentItem) (models.BatchReport, error) {
	start := time.Now()
	report := models.BatchReport{
		RunID:    uuid.NewString(),
		PerAward: []models.AwardDelta{},
		Failed:   []models.FailedRow{},
	}
	log := a.logger.With(zap.String("run_id", report.RunID))

	active := make([]models.ContentItem, 0, len(items))
	for _, item := range items {
		if item.IsActive() {
			active = append(active, item)
		}
	}

	log.Info("analysis started",
		zap.Int("items", len(items)),
		zap.Int("active", len(active)),
		zap.Int("concurrency", a.concurrency),
	)

	b := &batch{matches: map[string]int{}, newly: map[models.CriterionKey]bool{}}
	writeCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for _, item := range active {
		if ctx.Err() != nil {
			report.Partial = true
			break
		}
		g.Go(func() error {
			score := a.scorer.ScoreContent(item)
			b.record(a.apply(writeCtx, score))
			return nil // row failures are reported, not fatal
		})
	}
	_ = g.Wait()

	rows, err := a.store.GetAll(writeCtx)
	if err != nil {
		return report, err
	}

	report.TotalAnalyzed = b.analyzed
	report.TotalMatches = b.totalMatches()
	report.PerAward = a.deltas(rows, b.newly)
	report.Failed = sortFailed(b.failed)

	metrics.RecordAnalysis(ModeBatch, b.analyzed, b.matches, report.Failed, time.Since(start))
	log.Info("analysis complete",
		zap.Int("analyzed", report.TotalAnalyzed),
		zap.Int("matches", report.TotalMatches),
		zap.Int("failed_rows", len(report.Failed)),
		zap.Bool("partial", report.Partial),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

// AnalyzeSingle scores one item and merges its matches into the store.
// Inactive items are rejected with a validation error.
func (a *Analyzer) AnalyzeSingle(ctx context.Context, item models.ContentItem) (models.SingleReport, error) {
	if !item.IsActive() {
		return models.SingleReport{}, apperr.Validation("%s %s is not active", item.Type, item.ID)
	}
	start := time.Now()

	score := a.scorer.ScoreContent(item)
	results := a.apply(context.WithoutCancel(ctx), score)

	report := models.SingleReport{
		Content:           score.Content,
		Title:             item.Title,
		Scores:            score.Awards,
		SatisfiedCriteria: []models.CriterionKey{},
		NewlySatisfied:    []models.CriterionKey{},
		KeywordsFound:     score.MatchedKeywords(),
		Failed:            []models.FailedRow{},
	}
	if key, ok := score.BestAward(); ok {
		report.BestMatch = &key
	}

	matches := map[string]int{}
	for _, r := range results {
		matches[r.key.AwardKey]++
		if r.err != nil {
			report.Failed = append(report.Failed, failedRow(r.key, r.err))
			continue
		}
		report.SatisfiedCriteria = append(report.SatisfiedCriteria, r.key)
		if r.res.NewlySatisfied {
			report.NewlySatisfied = append(report.NewlySatisfied, r.key)
		}
	}

	metrics.RecordAnalysis(ModeSingle, 1, matches, report.Failed, time.Since(start))
	a.logger.Info("content analyzed",
		zap.String("content_type", item.Type),
		zap.String("content_id", item.ID),
		zap.Int("matches", len(results)),
		zap.Int("newly_satisfied", len(report.NewlySatisfied)),
	)
	return report, nil
}

// apply merges every match of score into the store, one row at a time.
func (a *Analyzer) apply(ctx context.Context, score matching.ContentScore) []writeResult {
	keys := score.Matches()
	if len(keys) == 0 {
		return nil
	}
	conf := score.Confidences()

	out := make([]writeResult, 0, len(keys))
	for _, k := range keys {
		res, err := a.store.ApplyAutoMatch(ctx, models.AutoMatch{
			AwardKey:      k.AwardKey,
			CriterionText: k.CriterionText,
			Content:       score.Content,
			Confidence:    conf[k.AwardKey][k.CriterionText],
			Threshold:     a.scorer.Threshold(),
		})
		if err != nil {
			a.logger.Warn("criterion update failed",
				zap.String("award_key", k.AwardKey),
				zap.String("criterion", k.CriterionText),
				zap.String("content_type", score.Content.Type),
				zap.String("content_id", score.Content.ID),
				zap.Error(err),
			)
		}
		out = append(out, writeResult{key: k, res: res, err: err})
	}
	return out
}

// deltas reports each award's criteria split by how they moved in this run.
func (a *Analyzer) deltas(rows []models.CriterionSatisfaction, newly map[models.CriterionKey]bool) []models.AwardDelta {
	state := make(map[models.CriterionKey]bool, len(rows))
	for _, r := range rows {
		state[r.Key()] = r.Satisfied
	}

	awards := a.catalog.Awards()
	out := make([]models.AwardDelta, 0, len(awards))
	for _, award := range awards {
		d := models.AwardDelta{
			AwardKey:         award.Key,
			AwardName:        award.Name,
			NewlySatisfied:   []string{},
			AlreadySatisfied: []string{},
			Missing:          []string{},
			TotalCriteria:    len(award.Criteria),
		}
		for _, c := range award.Criteria {
			key := models.CriterionKey{AwardKey: award.Key, CriterionText: c.Text}
			switch {
			case newly[key]:
				d.NewlySatisfied = append(d.NewlySatisfied, c.Text)
				d.SatisfiedCount++
			case state[key]:
				d.AlreadySatisfied = append(d.AlreadySatisfied, c.Text)
				d.SatisfiedCount++
			default:
				d.Missing = append(d.Missing, c.Text)
			}
		}
		out = append(out, d)
	}
	return out
}

func failedRow(key models.CriterionKey, err error) models.FailedRow {
	return models.FailedRow{
		AwardKey:      key.AwardKey,
		CriterionText: key.CriterionText,
		Kind:          string(apperr.KindOf(err)),
		Message:       apperr.MessageOf(err),
	}
}

func sortFailed(rows []models.FailedRow) []models.FailedRow {
	if rows == nil {
		return []models.FailedRow{}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AwardKey != rows[j].AwardKey {
			return rows[i].AwardKey < rows[j].AwardKey
		}
		return rows[i].CriterionText < rows[j].CriterionText
	})
	return rows
}
