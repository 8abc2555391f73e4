package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awardmatch/internal/apperr"
	"awardmatch/internal/catalog"
	"awardmatch/internal/models"
)

var fixed = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newSeeded(t *testing.T) (*Memory, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Load("")
	require.NoError(t, err)

	m := NewMemory().WithClock(func() time.Time { return fixed })
	require.NoError(t, m.EnsureCriteria(context.Background(), cat.CriterionKeys()))
	return m, cat
}

func autoMatch(award, criterion, id string, confidence float64) models.AutoMatch {
	return models.AutoMatch{
		AwardKey:      award,
		CriterionText: criterion,
		Content:       models.ContentRef{Type: models.ContentDocument, ID: id},
		Confidence:    confidence,
		Threshold:     0.30,
	}
}

func TestMemory_OneRowPerCriterion(t *testing.T) {
	m, cat := newSeeded(t)
	ctx := context.Background()

	// A second install must not duplicate or reset rows.
	_, err := m.SetManual(ctx, "leadership", "Lead with Purpose", true)
	require.NoError(t, err)
	require.NoError(t, m.EnsureCriteria(ctx, cat.CriterionKeys()))

	rows, err := m.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, cat.Size())

	perAward := map[string]int{}
	for i, row := range rows {
		assert.Equal(t, cat.CriterionKeys()[i], row.Key(), "rows keep catalog order")
		perAward[row.AwardKey]++
	}
	for _, a := range cat.Awards() {
		assert.Equal(t, len(a.Criteria), perAward[a.Key], a.Key)
	}

	row, err := m.Get(ctx, "leadership", "Lead with Purpose")
	require.NoError(t, err)
	assert.True(t, row.Satisfied)
}

func TestMemory_InitialRows(t *testing.T) {
	m, _ := newSeeded(t)

	row, err := m.Get(context.Background(), "education", "Drive Academic Excellence")
	require.NoError(t, err)
	assert.False(t, row.Satisfied)
	assert.Equal(t, models.SourceAuto, row.Source)
	assert.Equal(t, 0, row.Confidence)
	assert.Empty(t, row.SupportingContent)
	assert.Equal(t, fixed, row.UpdatedAt)
}

func TestMemory_NotFound(t *testing.T) {
	m, _ := newSeeded(t)
	ctx := context.Background()

	_, err := m.SetManual(ctx, "leadership", "Unknown", true)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = m.ApplyAutoMatch(ctx, autoMatch("unknown", "Lead with Purpose", "1", 0.9))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = m.Get(ctx, "unknown", "Unknown")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestMemory_SetManualKeepsSupport(t *testing.T) {
	m, _ := newSeeded(t)
	ctx := context.Background()

	_, err := m.ApplyAutoMatch(ctx, autoMatch("leadership", "Lead with Purpose", "1", 0.5))
	require.NoError(t, err)

	row, err := m.SetManual(ctx, "leadership", "Lead with Purpose", false)
	require.NoError(t, err)
	assert.False(t, row.Satisfied)
	assert.Equal(t, models.SourceManual, row.Source)
	assert.Equal(t, 0, row.Confidence)
	assert.Len(t, row.SupportingContent, 1)
}

func TestMemory_ApplyAutoMatchResult(t *testing.T) {
	m, _ := newSeeded(t)
	ctx := context.Background()

	res, err := m.ApplyAutoMatch(ctx, autoMatch("leadership", "Lead with Purpose", "1", 0.4))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, res.NewlySatisfied)
	assert.Equal(t, 40, res.Row.Confidence)

	res, err = m.ApplyAutoMatch(ctx, autoMatch("leadership", "Lead with Purpose", "1", 0.4))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.False(t, res.NewlySatisfied)

	res, err = m.ApplyAutoMatch(ctx, autoMatch("leadership", "Lead with Purpose", "2", 0.2))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Len(t, res.Row.SupportingContent, 1)
}

func TestMemory_SnapshotsAreCopies(t *testing.T) {
	m, _ := newSeeded(t)
	ctx := context.Background()

	res, err := m.ApplyAutoMatch(ctx, autoMatch("leadership", "Lead with Purpose", "1", 0.4))
	require.NoError(t, err)
	res.Row.SupportingContent[0].ID = "tampered"

	row, err := m.Get(ctx, "leadership", "Lead with Purpose")
	require.NoError(t, err)
	assert.Equal(t, "1", row.SupportingContent[0].ID)
}

func TestMemory_ConcurrentMatchesNeverRegress(t *testing.T) {
	m, _ := newSeeded(t)
	ctx := context.Background()

	_, err := m.SetManual(ctx, "citizenship", "Empower Changemakers", true)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for run := 0; run < 2; run++ {
		wg.Add(1)
		go func(run int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				conf := float64(i%10) / 10
				id := fmt.Sprintf("%d-%d", run, i)
				if _, err := m.ApplyAutoMatch(ctx, autoMatch("citizenship", "Empower Changemakers", id, conf)); err != nil {
					t.Error(err)
				}
				if _, err := m.ApplyAutoMatch(ctx, autoMatch("citizenship", "Cultivate Active Engagement", id, conf)); err != nil {
					t.Error(err)
				}
				row, err := m.Get(ctx, "citizenship", "Empower Changemakers")
				if err != nil || !row.Satisfied {
					t.Errorf("manual confirmation regressed: %+v, err=%v", row, err)
				}
			}
		}(run)
	}
	wg.Wait()

	row, err := m.Get(ctx, "citizenship", "Empower Changemakers")
	require.NoError(t, err)
	assert.True(t, row.Satisfied)
	assert.Equal(t, models.SourceManual, row.Source)
	assert.Equal(t, 100, row.Confidence)

	engaged, err := m.Get(ctx, "citizenship", "Cultivate Active Engagement")
	require.NoError(t, err)
	assert.True(t, engaged.Satisfied)
	assert.Equal(t, 90, engaged.Confidence)
	// 0.3 through 0.9 match: 7 of every 10 per run
	assert.Len(t, engaged.SupportingContent, 2*35)
}
