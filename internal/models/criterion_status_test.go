package models

import (
	"testing"
	"time"
)

var (
	t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func match(id string, confidence float64) AutoMatch {
	return AutoMatch{
		AwardKey:      "leadership",
		CriterionText: "Lead with Purpose",
		Content:       ContentRef{Type: ContentDocument, ID: id},
		Confidence:    confidence,
		Threshold:     0.30,
	}
}

func TestApplyAutoMatch(t *testing.T) {
	tests := []struct {
		name           string
		start          func() CriterionSatisfaction
		match          AutoMatch
		wantChanged    bool
		wantSatisfied  bool
		wantSource     string
		wantConfidence int
		wantSupport    int
	}{
		{
			name:           "below threshold is ignored",
			start:          func() CriterionSatisfaction { return NewCriterionSatisfaction("leadership", "Lead with Purpose", t0) },
			match:          match("1", 0.29),
			wantChanged:    false,
			wantSatisfied:  false,
			wantSource:     SourceAuto,
			wantConfidence: 0,
			wantSupport:    0,
		},
		{
			name:           "exactly at threshold matches",
			start:          func() CriterionSatisfaction { return NewCriterionSatisfaction("leadership", "Lead with Purpose", t0) },
			match:          match("1", 0.30),
			wantChanged:    true,
			wantSatisfied:  true,
			wantSource:     SourceAuto,
			wantConfidence: 30,
			wantSupport:    1,
		},
		{
			name: "auto rescues a manual rejection",
			start: func() CriterionSatisfaction {
				c := NewCriterionSatisfaction("leadership", "Lead with Purpose", t0)
				c.ApplyManual(false, t0)
				return c
			},
			match:          match("1", 0.5),
			wantChanged:    true,
			wantSatisfied:  true,
			wantSource:     SourceAuto,
			wantConfidence: 50,
			wantSupport:    1,
		},
		{
			name: "manual confirmation keeps source and confidence",
			start: func() CriterionSatisfaction {
				c := NewCriterionSatisfaction("leadership", "Lead with Purpose", t0)
				c.ApplyManual(true, t0)
				return c
			},
			match:          match("1", 0.4),
			wantChanged:    true,
			wantSatisfied:  true,
			wantSource:     SourceManual,
			wantConfidence: 100,
			wantSupport:    1,
		},
		{
			name: "higher auto confidence raises the row",
			start: func() CriterionSatisfaction {
				c := NewCriterionSatisfaction("leadership", "Lead with Purpose", t0)
				c.ApplyAutoMatch(match("1", 0.35), t0)
				return c
			},
			match:          match("1", 0.6),
			wantChanged:    true,
			wantSatisfied:  true,
			wantSource:     SourceAuto,
			wantConfidence: 60,
			wantSupport:    1,
		},
		{
			name: "repeat match is a no-op",
			start: func() CriterionSatisfaction {
				c := NewCriterionSatisfaction("leadership", "Lead with Purpose", t0)
				c.ApplyAutoMatch(match("1", 0.6), t0)
				return c
			},
			match:          match("1", 0.6),
			wantChanged:    false,
			wantSatisfied:  true,
			wantSource:     SourceAuto,
			wantConfidence: 60,
			wantSupport:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.start()
			changed := c.ApplyAutoMatch(tt.match, t1)
			if changed != tt.wantChanged {
				t.Errorf("ApplyAutoMatch() changed = %v, want %v", changed, tt.wantChanged)
			}
			if c.Satisfied != tt.wantSatisfied {
				t.Errorf("Satisfied = %v, want %v", c.Satisfied, tt.wantSatisfied)
			}
			if c.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", c.Source, tt.wantSource)
			}
			if c.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %d, want %d", c.Confidence, tt.wantConfidence)
			}
			if len(c.SupportingContent) != tt.wantSupport {
				t.Errorf("len(SupportingContent) = %d, want %d", len(c.SupportingContent), tt.wantSupport)
			}
			if changed && !c.UpdatedAt.Equal(t1) {
				t.Errorf("UpdatedAt = %v, want %v", c.UpdatedAt, t1)
			}
		})
	}
}

func TestApplyAutoMatch_Commutative(t *testing.T) {
	matches := []AutoMatch{match("1", 0.31), match("2", 0.7), match("3", 0.1), match("1", 0.45)}

	forward := NewCriterionSatisfaction("leadership", "Lead with Purpose", t0)
	for _, m := range matches {
		forward.ApplyAutoMatch(m, t1)
	}
	backward := NewCriterionSatisfaction("leadership", "Lead with Purpose", t0)
	for i := len(matches) - 1; i >= 0; i-- {
		backward.ApplyAutoMatch(matches[i], t1)
	}

	if forward.Satisfied != backward.Satisfied || forward.Confidence != backward.Confidence {
		t.Errorf("order changed result: forward=%+v backward=%+v", forward, backward)
	}
	if len(forward.SupportingContent) != 2 || len(backward.SupportingContent) != 2 {
		t.Errorf("supporting content = %v / %v, want 2 refs each", forward.SupportingContent, backward.SupportingContent)
	}
	for _, ref := range forward.SupportingContent {
		if !backward.HasSupport(ref) {
			t.Errorf("backward is missing support %v", ref)
		}
	}
}

func TestApplyManual(t *testing.T) {
	c := NewCriterionSatisfaction("leadership", "Lead with Purpose", t0)
	c.ApplyAutoMatch(match("7", 0.5), t0)

	c.ApplyManual(false, t1)
	if c.Satisfied || c.Source != SourceManual || c.Confidence != 0 {
		t.Errorf("ApplyManual(false) = %+v", c)
	}
	if len(c.SupportingContent) != 1 {
		t.Errorf("ApplyManual() touched supporting content: %v", c.SupportingContent)
	}

	c.ApplyManual(true, t1)
	if !c.Satisfied || c.Confidence != 100 {
		t.Errorf("ApplyManual(true) = %+v", c)
	}
}

func TestClone_IsDeep(t *testing.T) {
	c := NewCriterionSatisfaction("leadership", "Lead with Purpose", t0)
	c.ApplyAutoMatch(match("1", 0.5), t0)

	cp := c.Clone()
	cp.SupportingContent[0].ID = "changed"
	if c.SupportingContent[0].ID != "1" {
		t.Error("Clone() shares supporting content with the original")
	}
}

func TestConfidencePercent(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1.0 / 3.0, 33},
		{0.306, 31},
		{1, 100},
		{1.2, 100},
		{-0.1, 0},
	}
	for _, tt := range tests {
		if got := ConfidencePercent(tt.in); got != tt.want {
			t.Errorf("ConfidencePercent(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
