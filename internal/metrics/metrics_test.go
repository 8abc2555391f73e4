package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awardmatch/internal/models"
)

type fakeSummarizer struct {
	snaps []models.ReadinessSnapshot
	err   error
}

func (f fakeSummarizer) Summarize(context.Context) ([]models.ReadinessSnapshot, error) {
	return f.snaps, f.err
}

func TestReadinessCollector(t *testing.T) {
	c := NewReadinessCollector(fakeSummarizer{snaps: []models.ReadinessSnapshot{
		{AwardKey: "leadership", SatisfiedCount: 4, Percentage: 80, Status: models.StatusReady},
		{AwardKey: "regional", SatisfiedCount: 1, Percentage: 33, Status: models.StatusNotStarted},
	}}, nil)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	expected := `
# HELP awardmatch_overall_readiness_percent Share of awards that are ready to apply for
# TYPE awardmatch_overall_readiness_percent gauge
awardmatch_overall_readiness_percent 50
# HELP awardmatch_award_readiness_percent Share of an award's criteria currently satisfied
# TYPE awardmatch_award_readiness_percent gauge
awardmatch_award_readiness_percent{award="leadership"} 80
awardmatch_award_readiness_percent{award="regional"} 33
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"awardmatch_overall_readiness_percent", "awardmatch_award_readiness_percent")
	assert.NoError(t, err)
	assert.Equal(t, 5, testutil.CollectAndCount(c))
}

func TestReadinessCollector_RoundsOverall(t *testing.T) {
	c := NewReadinessCollector(fakeSummarizer{snaps: []models.ReadinessSnapshot{
		{AwardKey: "leadership", SatisfiedCount: 4, Percentage: 80, Status: models.StatusReady},
		{AwardKey: "citizenship", SatisfiedCount: 1, Percentage: 33, Status: models.StatusNotStarted},
		{AwardKey: "regional", SatisfiedCount: 0, Percentage: 0, Status: models.StatusNotStarted},
	}}, nil)

	expected := `
# HELP awardmatch_overall_readiness_percent Share of awards that are ready to apply for
# TYPE awardmatch_overall_readiness_percent gauge
awardmatch_overall_readiness_percent 33
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected), "awardmatch_overall_readiness_percent")
	assert.NoError(t, err)
}

func TestReadinessCollector_StoreError(t *testing.T) {
	c := NewReadinessCollector(fakeSummarizer{err: errors.New("db down")}, nil)
	assert.Equal(t, 0, testutil.CollectAndCount(c))
}

func TestRecordAnalysis(t *testing.T) {
	before := testutil.ToFloat64(ContentAnalyzed.WithLabelValues("test"))
	matchesBefore := testutil.ToFloat64(CriterionMatches.WithLabelValues("leadership"))
	failuresBefore := testutil.ToFloat64(RowWriteFailures.WithLabelValues("conflict"))

	RecordAnalysis("test", 3, map[string]int{"leadership": 2},
		[]models.FailedRow{{AwardKey: "leadership", Kind: "conflict"}}, 10*time.Millisecond)

	assert.InDelta(t, before+3, testutil.ToFloat64(ContentAnalyzed.WithLabelValues("test")), 1e-9)
	assert.InDelta(t, matchesBefore+2, testutil.ToFloat64(CriterionMatches.WithLabelValues("leadership")), 1e-9)
	assert.InDelta(t, failuresBefore+1, testutil.ToFloat64(RowWriteFailures.WithLabelValues("conflict")), 1e-9)
}
