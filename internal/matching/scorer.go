package matching

import (
	"awardmatch/internal/models"
)

// DefaultMatchThreshold is the confidence at or above which a content item
// matches a criterion.
const DefaultMatchThreshold = 0.30

// Scorer scores content items against a fixed set of awards.
type Scorer struct {
	awards    []models.AwardCategory
	keywords  map[models.CriterionKey]TokenSet
	threshold float64
}

// NewScorer creates a scorer over awards. A threshold outside (0,1] falls
// back to DefaultMatchThreshold.
func NewScorer(awards []models.AwardCategory, threshold float64) *Scorer {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMatchThreshold
	}
	kw := make(map[models.CriterionKey]TokenSet)
	for _, a := range awards {
		for _, c := range a.Criteria {
			kw[models.CriterionKey{AwardKey: a.Key, CriterionText: c.Text}] = NewTokenSet(c.Keywords)
		}
	}
	return &Scorer{awards: awards, keywords: kw, threshold: threshold}
}

// Threshold returns the match threshold in use.
func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// ContentScore is the result of scoring one content item.
type ContentScore struct {
	Content models.ContentRef
	Title   string
	Tokens  TokenSet
	Awards  []models.AwardScore // Catalog order
}

// ScoreContent extracts the item's tokens once and scores them against
// every criterion.
func (s *Scorer) ScoreContent(item models.ContentItem) ContentScore {
	tokens := Extract(item.Text())
	out := ContentScore{
		Content: item.Ref(),
		Title:   item.Title,
		Tokens:  tokens,
		Awards:  make([]models.AwardScore, 0, len(s.awards)),
	}

	for _, a := range s.awards {
		as := models.AwardScore{
			AwardKey:  a.Key,
			AwardName: a.Name,
			Criteria:  make([]models.CriterionScore, 0, len(a.Criteria)),
		}
		for _, c := range a.Criteria {
			kw := s.keywords[models.CriterionKey{AwardKey: a.Key, CriterionText: c.Text}]
			conf := Jaccard(tokens, kw)
			cs := models.CriterionScore{
				Criterion:  c.Text,
				Confidence: conf,
				Percent:    models.ConfidencePercent(conf),
				Matched:    conf >= s.threshold,
			}
			if cs.Matched {
				cs.MatchedKeywords = Intersect(tokens, kw)
				as.Aggregate += conf
				as.Matched++
			}
			as.Criteria = append(as.Criteria, cs)
		}
		out.Awards = append(out.Awards, as)
	}
	return out
}

// Confidences returns award key -> criterion text -> confidence.
func (cs ContentScore) Confidences() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(cs.Awards))
	for _, a := range cs.Awards {
		m := make(map[string]float64, len(a.Criteria))
		for _, c := range a.Criteria {
			m[c.Criterion] = c.Confidence
		}
		out[a.AwardKey] = m
	}
	return out
}

// BestAward returns the award with the highest sum of matched confidences.
// Ties go to the award declared first. ok is false when nothing matched.
func (cs ContentScore) BestAward() (key string, ok bool) {
	best := 0.0
	for _, a := range cs.Awards {
		if a.Matched == 0 {
			continue
		}
		if !ok || a.Aggregate > best {
			key, best, ok = a.AwardKey, a.Aggregate, true
		}
	}
	return key, ok
}

// Matches returns the criteria matched by the item, in catalog order.
func (cs ContentScore) Matches() []models.CriterionKey {
	var out []models.CriterionKey
	for _, a := range cs.Awards {
		for _, c := range a.Criteria {
			if c.Matched {
				out = append(out, models.CriterionKey{AwardKey: a.AwardKey, CriterionText: c.Criterion})
			}
		}
	}
	return out
}

// MatchedKeywords returns the union of keywords behind every match, sorted.
func (cs ContentScore) MatchedKeywords() []string {
	set := TokenSet{}
	for _, a := range cs.Awards {
		for _, c := range a.Criteria {
			for _, k := range c.MatchedKeywords {
				set[k] = struct{}{}
			}
		}
	}
	return set.Sorted()
}
