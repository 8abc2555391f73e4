package models

import (
	"math"
	"time"
)

// Source constants
const (
	SourceAuto   = "auto"
	SourceManual = "manual"
)

// CriterionSatisfaction is the persisted satisfaction state of one criterion.
type CriterionSatisfaction struct {
	AwardKey          string       `json:"award_key"`
	CriterionText     string       `json:"criterion_text"`
	Satisfied         bool         `json:"satisfied"`
	Source            string       `json:"source"`     // auto, manual
	Confidence        int          `json:"confidence"` // 0-100
	SupportingContent []ContentRef `json:"supporting_content"`
	Version           int64        `json:"-"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// AutoMatch is a single content item matching a criterion at some confidence.
type AutoMatch struct {
	AwardKey      string
	CriterionText string
	Content       ContentRef
	Confidence    float64 // 0-1
	Threshold     float64 // 0-1
}

// NewCriterionSatisfaction returns the initial state of a criterion row.
func NewCriterionSatisfaction(awardKey, criterionText string, now time.Time) CriterionSatisfaction {
	return CriterionSatisfaction{
		AwardKey:          awardKey,
		CriterionText:     criterionText,
		Source:            SourceAuto,
		SupportingContent: []ContentRef{},
		UpdatedAt:         now,
	}
}

// Key returns the store key of the row.
func (c *CriterionSatisfaction) Key() CriterionKey {
	return CriterionKey{AwardKey: c.AwardKey, CriterionText: c.CriterionText}
}

// IsManual returns true if a person set the current state.
func (c *CriterionSatisfaction) IsManual() bool {
	return c.Source == SourceManual
}

// HasSupport returns true if ref is already recorded as supporting content.
func (c *CriterionSatisfaction) HasSupport(ref ContentRef) bool {
	for _, r := range c.SupportingContent {
		if r == ref {
			return true
		}
	}
	return false
}

// ApplyManual records a human decision. It is always honored, in both directions.
func (c *CriterionSatisfaction) ApplyManual(satisfied bool, now time.Time) {
	c.Satisfied = satisfied
	c.Source = SourceManual
	c.Confidence = 0
	if satisfied {
		c.Confidence = 100
	}
	c.UpdatedAt = now
}

// ApplyAutoMatch merges an automatic match into the row and reports whether
// anything changed. Matches below the threshold are ignored. A match at or
// above it records the content as support and advances an unsatisfied row,
// including a manually rejected one, to satisfied. A satisfied row is never
// moved back to unsatisfied. The merge is commutative and idempotent.
func (c *CriterionSatisfaction) ApplyAutoMatch(m AutoMatch, now time.Time) bool {
	if m.Confidence < m.Threshold {
		return false
	}

	pct := ConfidencePercent(m.Confidence)
	changed := false

	switch {
	case !c.Satisfied:
		c.Satisfied = true
		c.Source = SourceAuto
		c.Confidence = pct
		changed = true
	case c.Source == SourceAuto && pct > c.Confidence:
		c.Confidence = pct
		changed = true
	}

	if !c.HasSupport(m.Content) {
		c.SupportingContent = append(c.SupportingContent, m.Content)
		changed = true
	}

	if changed {
		c.UpdatedAt = now
	}
	return changed
}

// Clone returns a deep copy of the row.
func (c CriterionSatisfaction) Clone() CriterionSatisfaction {
	out := c
	out.SupportingContent = make([]ContentRef, len(c.SupportingContent))
	copy(out.SupportingContent, c.SupportingContent)
	return out
}

// ConfidencePercent converts a 0-1 confidence to a rounded 0-100 integer.
func ConfidencePercent(confidence float64) int {
	pct := int(math.Round(confidence * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// AutoMatchResult is the outcome of merging one automatic match into a row.
type AutoMatchResult struct {
	Row            CriterionSatisfaction
	Changed        bool
	NewlySatisfied bool // Row moved from unsatisfied to satisfied
}
