package models

import "testing"

func TestReadinessStatus_Thresholds(t *testing.T) {
	tests := []struct {
		percentage int
		want       string
	}{
		{0, StatusNotStarted},
		{49, StatusNotStarted},
		{50, StatusInProgress},
		{79, StatusInProgress},
		{80, StatusReady},
		{100, StatusReady},
	}

	for _, tt := range tests {
		if got := ReadinessStatus(tt.percentage); got != tt.want {
			t.Errorf("ReadinessStatus(%d) = %q, want %q", tt.percentage, got, tt.want)
		}
	}
}

func TestReadinessPercentage(t *testing.T) {
	tests := []struct {
		name             string
		satisfied, total int
		want             int
	}{
		{"empty award", 0, 0, 0},
		{"none satisfied", 0, 5, 0},
		{"two of three rounds up", 2, 3, 67},
		{"one of three rounds down", 1, 3, 33},
		{"half rounds away from zero", 1, 8, 13},
		{"all satisfied", 4, 4, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadinessPercentage(tt.satisfied, tt.total); got != tt.want {
				t.Errorf("ReadinessPercentage(%d, %d) = %d, want %d", tt.satisfied, tt.total, got, tt.want)
			}
		})
	}
}

func TestReadinessGuidance(t *testing.T) {
	tests := []struct {
		percentage int
		want       string
	}{
		{0, "Start uploading documents and events"},
		{20, "Build more documentation"},
		{60, "Strengthen remaining criteria"},
		{80, "Ready for application!"},
	}
	for _, tt := range tests {
		if got := ReadinessGuidance(tt.percentage); got != tt.want {
			t.Errorf("ReadinessGuidance(%d) = %q, want %q", tt.percentage, got, tt.want)
		}
	}
}

func TestContentItem(t *testing.T) {
	item := ContentItem{ID: "12", Type: ContentEvent, Title: "Global Week", BodyText: "exchange fair", Status: ContentActive}

	if !item.IsActive() {
		t.Error("IsActive() = false, want true")
	}
	if got := item.Text(); got != "Global Week exchange fair" {
		t.Errorf("Text() = %q", got)
	}
	if got := item.Ref(); got != (ContentRef{Type: ContentEvent, ID: "12"}) {
		t.Errorf("Ref() = %+v", got)
	}
	if IsValidContentType("award") {
		t.Error(`IsValidContentType("award") = true, want false`)
	}
}
