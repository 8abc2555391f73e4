package models

// CriterionScore is the confidence of one content item against one criterion.
type CriterionScore struct {
	Criterion       string   `json:"criterion"`
	Confidence      float64  `json:"confidence"` // 0-1
	Percent         int      `json:"percent"`
	Matched         bool     `json:"matched"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}

// AwardScore holds the criterion scores of one award for one content item.
type AwardScore struct {
	AwardKey  string           `json:"award_key"`
	AwardName string           `json:"award_name"`
	Criteria  []CriterionScore `json:"criteria"`
	Aggregate float64          `json:"aggregate"` // Sum of matched criterion confidences
	Matched   int              `json:"matched"`
}

// FailedRow is a criterion row whose update failed during analysis.
type FailedRow struct {
	AwardKey      string `json:"award_key"`
	CriterionText string `json:"criterion_text"`
	Kind          string `json:"kind"`
	Message       string `json:"message"`
}

// AwardDelta describes how one award's criteria moved during a batch run.
type AwardDelta struct {
	AwardKey         string   `json:"award_key"`
	AwardName        string   `json:"award_name"`
	NewlySatisfied   []string `json:"newly_satisfied"`
	AlreadySatisfied []string `json:"already_satisfied"`
	Missing          []string `json:"missing"`
	SatisfiedCount   int      `json:"satisfied_count"`
	TotalCriteria    int      `json:"total_criteria"`
}

// BatchReport is the result of analyzing a full content set.
type BatchReport struct {
	RunID         string       `json:"run_id"`
	TotalAnalyzed int          `json:"total_analyzed"`
	TotalMatches  int          `json:"total_matches"`
	PerAward      []AwardDelta `json:"per_award"`
	Failed        []FailedRow  `json:"failed"`
	Partial       bool         `json:"partial"`
}

// SingleReport is the result of analyzing one content item.
type SingleReport struct {
	Content           ContentRef     `json:"content"`
	Title             string         `json:"title"`
	Scores            []AwardScore   `json:"scores"`
	BestMatch         *string        `json:"best_match"`
	SatisfiedCriteria []CriterionKey `json:"satisfied_criteria"`
	NewlySatisfied    []CriterionKey `json:"newly_satisfied"`
	KeywordsFound     []string       `json:"keywords_found"`
	Failed            []FailedRow    `json:"failed"`
}
