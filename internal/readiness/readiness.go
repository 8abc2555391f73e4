// Package readiness turns criterion state into per-award and overall readiness.
package readiness

import (
	"context"
	"fmt"
	"math"

	"awardmatch/internal/apperr"
	"awardmatch/internal/catalog"
	"awardmatch/internal/models"
	"awardmatch/internal/store"
)

// FocusThreshold is the percentage under which the weakest award gets a
// high priority recommendation.
const FocusThreshold = 30

// Aggregator computes readiness from the state store. It holds no state of
// its own, so every call reflects the latest committed rows.
type Aggregator struct {
	catalog *catalog.Catalog
	store   store.Store
}

// NewAggregator creates an aggregator over the catalog and store.
func NewAggregator(c *catalog.Catalog, s store.Store) *Aggregator {
	return &Aggregator{catalog: c, store: s}
}

// Summarize returns one snapshot per award in catalog order.
func (a *Aggregator) Summarize(ctx context.Context) ([]models.ReadinessSnapshot, error) {
	rows, err := a.rows(ctx)
	if err != nil {
		return nil, err
	}

	awards := a.catalog.Awards()
	out := make([]models.ReadinessSnapshot, 0, len(awards))
	for _, award := range awards {
		out = append(out, snapshot(award, rows))
	}
	return out, nil
}

// OverallReadiness returns the share of awards that are Ready, in percent.
func (a *Aggregator) OverallReadiness(ctx context.Context) (int, error) {
	snaps, err := a.Summarize(ctx)
	if err != nil {
		return 0, err
	}
	return Overall(snaps), nil
}

// BestMatch returns the award with the most satisfied criteria.
func (a *Aggregator) BestMatch(ctx context.Context) (string, bool, error) {
	snaps, err := a.Summarize(ctx)
	if err != nil {
		return "", false, err
	}
	key, ok := Best(snaps)
	return key, ok, nil
}

// Summary returns snapshots, overall readiness, best match and
// recommendations computed from a single read of the store.
func (a *Aggregator) Summary(ctx context.Context) (models.ReadinessSummary, error) {
	snaps, err := a.Summarize(ctx)
	if err != nil {
		return models.ReadinessSummary{}, err
	}

	summary := models.ReadinessSummary{
		Awards:           snaps,
		OverallReadiness: Overall(snaps),
		Recommendations:  Recommendations(snaps),
	}
	if key, ok := Best(snaps); ok {
		summary.BestMatch = &key
	}
	return summary, nil
}

// Checklist returns the per-criterion state of one award.
func (a *Aggregator) Checklist(ctx context.Context, awardKey string) (models.AwardChecklist, error) {
	award, ok := a.catalog.Award(awardKey)
	if !ok {
		return models.AwardChecklist{}, apperr.NotFound("unknown award %q", awardKey)
	}

	rows, err := a.rows(ctx)
	if err != nil {
		return models.AwardChecklist{}, err
	}

	out := models.AwardChecklist{
		AwardKey:    award.Key,
		AwardName:   award.Name,
		Items:       make([]models.ChecklistItem, 0, len(award.Criteria)),
		Satisfied:   []string{},
		Unsatisfied: []string{},
	}
	for _, c := range award.Criteria {
		item := models.ChecklistItem{
			Criterion:         c.Text,
			Keywords:          c.Keywords,
			Source:            models.SourceAuto,
			SupportingContent: []models.ContentRef{},
		}
		if row, ok := rows[models.CriterionKey{AwardKey: award.Key, CriterionText: c.Text}]; ok {
			item.Satisfied = row.Satisfied
			item.Source = row.Source
			item.Confidence = row.Confidence
			item.SupportingContent = row.SupportingContent
		}
		if item.Satisfied {
			out.Satisfied = append(out.Satisfied, c.Text)
		} else {
			out.Unsatisfied = append(out.Unsatisfied, c.Text)
		}
		out.Items = append(out.Items, item)
	}
	out.Readiness = models.ReadinessPercentage(len(out.Satisfied), len(award.Criteria))
	return out, nil
}

func (a *Aggregator) rows(ctx context.Context) (map[models.CriterionKey]models.CriterionSatisfaction, error) {
	all, err := a.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[models.CriterionKey]models.CriterionSatisfaction, len(all))
	for _, row := range all {
		out[row.Key()] = row
	}
	return out, nil
}

// snapshot builds the readiness of one award. Rows of criteria no longer in
// the catalog are ignored; a criterion without a row counts as unsatisfied.
// Content is counted only from satisfied criteria.
func snapshot(award models.AwardCategory, rows map[models.CriterionKey]models.CriterionSatisfaction) models.ReadinessSnapshot {
	snap := models.ReadinessSnapshot{
		AwardKey:          award.Key,
		AwardName:         award.Name,
		TotalCriteria:     len(award.Criteria),
		SatisfiedCriteria: []string{},
		MissingCriteria:   []string{},
	}

	content := make(map[models.ContentRef]struct{})
	for _, c := range award.Criteria {
		row, ok := rows[models.CriterionKey{AwardKey: award.Key, CriterionText: c.Text}]
		if !ok || !row.Satisfied {
			snap.MissingCriteria = append(snap.MissingCriteria, c.Text)
			continue
		}
		snap.SatisfiedCriteria = append(snap.SatisfiedCriteria, c.Text)
		for _, ref := range row.SupportingContent {
			content[ref] = struct{}{}
		}
	}
	for ref := range content {
		switch ref.Type {
		case models.ContentDocument:
			snap.TotalDocuments++
		case models.ContentEvent:
			snap.TotalEvents++
		}
	}

	snap.SatisfiedCount = len(snap.SatisfiedCriteria)
	snap.Percentage = models.ReadinessPercentage(snap.SatisfiedCount, snap.TotalCriteria)
	snap.Status = models.ReadinessStatus(snap.Percentage)
	snap.Guidance = models.ReadinessGuidance(snap.Percentage)
	return snap
}

// Overall returns round(100 * ready / awards), 0 when there are no awards.
func Overall(snaps []models.ReadinessSnapshot) int {
	if len(snaps) == 0 {
		return 0
	}
	ready := 0
	for _, s := range snaps {
		if s.IsReady() {
			ready++
		}
	}
	return int(math.Round(float64(ready) * 100 / float64(len(snaps))))
}

// Best returns the award with the highest satisfied count. Ties go to the
// first award in catalog order; ok is false when nothing is satisfied.
func Best(snaps []models.ReadinessSnapshot) (key string, ok bool) {
	best := 0
	for _, s := range snaps {
		if s.SatisfiedCount > best {
			key, best, ok = s.AwardKey, s.SatisfiedCount, true
		}
	}
	return key, ok
}

// Recommendations suggests where to focus. The weakest award under
// FocusThreshold is high priority, every other award under the in-progress
// threshold is medium, and awards in progress are low.
func Recommendations(snaps []models.ReadinessSnapshot) []models.Recommendation {
	out := []models.Recommendation{}

	weakest := -1
	for i, s := range snaps {
		if weakest < 0 || s.Percentage < snaps[weakest].Percentage {
			weakest = i
		}
	}
	if weakest >= 0 && snaps[weakest].Percentage < FocusThreshold {
		s := snaps[weakest]
		out = append(out, models.Recommendation{
			AwardKey:    s.AwardKey,
			Title:       fmt.Sprintf("Focus on %s development", s.AwardName),
			Description: fmt.Sprintf("%s readiness is %d%%. Consider developing more programs in this area.", s.AwardName, s.Percentage),
			Priority:    models.PriorityHigh,
		})
	}

	for i, s := range snaps {
		switch {
		case i == weakest && s.Percentage < FocusThreshold:
		case s.Percentage < models.InProgressThreshold:
			out = append(out, models.Recommendation{
				AwardKey:    s.AwardKey,
				Title:       fmt.Sprintf("Strengthen %s evidence", s.AwardName),
				Description: fmt.Sprintf("%d of %d criteria still need supporting documents or events.", len(s.MissingCriteria), s.TotalCriteria),
				Priority:    models.PriorityMedium,
			})
		case s.Status == models.StatusInProgress:
			out = append(out, models.Recommendation{
				AwardKey:    s.AwardKey,
				Title:       fmt.Sprintf("Complete %s", s.AwardName),
				Description: fmt.Sprintf("%d criteria remaining before the application is ready.", len(s.MissingCriteria)),
				Priority:    models.PriorityLow,
			})
		}
	}
	return out
}
