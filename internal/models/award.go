package models

// AwardCategory is an award the institution can apply for, with its ordered criteria.
type AwardCategory struct {
	Key      string      `json:"key"`
	Name     string      `json:"name"`
	Criteria []Criterion `json:"criteria"`
}

// Criterion is a single requirement of an award, matched by its keyword set.
type Criterion struct {
	AwardKey string   `json:"award_key"`
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"` // Normalized, deduplicated, sorted
}

// CriterionKey identifies a criterion row in the state store.
type CriterionKey struct {
	AwardKey      string `json:"award_key"`
	CriterionText string `json:"criterion_text"`
}
