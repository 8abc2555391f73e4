package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awardmatch/internal/models"
)

func set(words ...string) TokenSet {
	return NewTokenSet(words)
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "  \t\n ", []string{}},
		{"lowercases and dedupes", "Global global GLOBAL", []string{"global"}},
		{"drops single runes", "a b cd e", []string{"cd"}},
		{"strips punctuation", "Leadership, partnership; (global)!", []string{"global", "leadership", "partnership"}},
		{"punctuation inside words is removed", "co-operation e.g.", []string{"cooperation", "eg"}},
		{"keeps digits", "Top 10 in 2024", []string{"10", "2024", "in", "top"}},
		{"unicode letters keep accents", "Éducation Überblick", []string{"éducation", "überblick"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.in).Sorted())
		})
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b TokenSet
		want float64
	}{
		{"both empty", set(), set(), 1},
		{"left empty", set(), set("global"), 0},
		{"right empty", set("global"), set(), 0},
		{"identical", set("global", "exchange"), set("global", "exchange"), 1},
		{"disjoint", set("global"), set("local"), 0},
		{"half", set("global", "exchange"), set("global", "local"), 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-9)
			assert.InDelta(t, Jaccard(tt.a, tt.b), Jaccard(tt.b, tt.a), 1e-9, "Jaccard must be symmetric")
		})
	}
}

func TestJaccard_Bounds(t *testing.T) {
	sets := []TokenSet{
		set(), set("a1"), set("a1", "b2"), set("b2", "c3", "d4"), set("a1", "b2", "c3", "d4", "e5"),
	}
	for _, a := range sets {
		for _, b := range sets {
			got := Jaccard(a, b)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
			if got == 1 {
				assert.Equal(t, a.Sorted(), b.Sorted(), "score 1 requires identical sets")
			}
		}
	}
}

func TestJaccard_LeadershipExample(t *testing.T) {
	tokens := set("leadership", "partnership", "global")
	keywords := set("leadership", "partnership", "exchange", "global", "international",
		"collaboration", "initiative", "management", "coordination")

	got := Jaccard(tokens, keywords)
	assert.InDelta(t, 0.333, got, 0.001)
	assert.Equal(t, 33, models.ConfidencePercent(got))
	assert.GreaterOrEqual(t, got, DefaultMatchThreshold)
}

func testAwards() []models.AwardCategory {
	return []models.AwardCategory{
		{
			Key:  "leadership",
			Name: "International Leadership Award",
			Criteria: []models.Criterion{
				{AwardKey: "leadership", Text: "Lead with Purpose", Keywords: []string{"global", "leadership", "partnership"}},
				{AwardKey: "leadership", Text: "Champion Bold Innovation", Keywords: []string{"innovation", "pilot"}},
			},
		},
		{
			Key:  "education",
			Name: "Outstanding International Education Program Award",
			Criteria: []models.Criterion{
				{AwardKey: "education", Text: "Drive Academic Excellence", Keywords: []string{"global", "leadership", "partnership"}},
			},
		},
	}
}

func TestScoreContent(t *testing.T) {
	s := NewScorer(testAwards(), 0)
	require.InDelta(t, DefaultMatchThreshold, s.Threshold(), 1e-9)

	item := models.ContentItem{ID: "1", Type: models.ContentDocument, Title: "Global leadership", BodyText: "A partnership.", Status: models.ContentActive}
	score := s.ScoreContent(item)

	require.Len(t, score.Awards, 2)
	assert.Equal(t, "leadership", score.Awards[0].AwardKey)

	conf := score.Confidences()
	assert.InDelta(t, 1.0, conf["leadership"]["Lead with Purpose"], 1e-9)
	assert.InDelta(t, 0.0, conf["leadership"]["Champion Bold Innovation"], 1e-9)

	lead := score.Awards[0].Criteria[0]
	assert.True(t, lead.Matched)
	assert.Equal(t, []string{"global", "leadership", "partnership"}, lead.MatchedKeywords)
	assert.Equal(t, []models.CriterionKey{
		{AwardKey: "leadership", CriterionText: "Lead with Purpose"},
		{AwardKey: "education", CriterionText: "Drive Academic Excellence"},
	}, score.Matches())
}

func TestBestAward(t *testing.T) {
	s := NewScorer(testAwards(), 0.3)

	t.Run("tie goes to catalog order", func(t *testing.T) {
		score := s.ScoreContent(models.ContentItem{Title: "global leadership partnership"})
		key, ok := score.BestAward()
		require.True(t, ok)
		assert.Equal(t, "leadership", key)
	})

	t.Run("higher aggregate wins", func(t *testing.T) {
		score := s.ScoreContent(models.ContentItem{Title: "global leadership partnership innovation pilot"})
		// leadership: 3/5 + 2/5, education: 3/5
		key, ok := score.BestAward()
		require.True(t, ok)
		assert.Equal(t, "leadership", key)
		assert.InDelta(t, 1.0, score.Awards[0].Aggregate, 1e-9)
	})

	t.Run("nothing matched", func(t *testing.T) {
		score := s.ScoreContent(models.ContentItem{Title: "quarterly budget"})
		_, ok := score.BestAward()
		assert.False(t, ok)
		assert.Empty(t, score.Matches())
		assert.Empty(t, score.MatchedKeywords())
	})
}

func TestNormalizeKeywords(t *testing.T) {
	got := NormalizeKeywords([]string{"Global", "study abroad", "global", "x"})
	assert.Equal(t, []string{"abroad", "global", "study"}, got)
}
