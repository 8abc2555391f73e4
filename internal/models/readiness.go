package models

import "math"

// Readiness status constants
const (
	StatusReady      = "Ready"
	StatusInProgress = "InProgress"
	StatusNotStarted = "NotStarted"
)

// Readiness thresholds in percent.
const (
	ReadyThreshold      = 80
	InProgressThreshold = 50
)

// ReadinessSnapshot summarizes how close an award is to being ready.
type ReadinessSnapshot struct {
	AwardKey          string   `json:"award_key"`
	AwardName         string   `json:"award_name"`
	TotalCriteria     int      `json:"total_criteria"`
	SatisfiedCount    int      `json:"satisfied_count"`
	Percentage        int      `json:"percentage"`
	Status            string   `json:"status"` // Ready, InProgress, NotStarted
	TotalDocuments    int      `json:"total_documents"`
	TotalEvents       int      `json:"total_events"`
	SatisfiedCriteria []string `json:"satisfied_criteria"`
	MissingCriteria   []string `json:"missing_criteria"`
	Guidance          string   `json:"guidance"`
}

// IsReady returns true if the award can be applied for.
func (r *ReadinessSnapshot) IsReady() bool {
	return r.Status == StatusReady
}

// ReadinessPercentage returns round(satisfied/total*100), 0 for an empty award.
func ReadinessPercentage(satisfied, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(satisfied) * 100 / float64(total)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ReadinessStatus maps a percentage to its status.
func ReadinessStatus(percentage int) string {
	switch {
	case percentage >= ReadyThreshold:
		return StatusReady
	case percentage >= InProgressThreshold:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// ReadinessGuidance returns the next-step hint shown for a percentage.
func ReadinessGuidance(percentage int) string {
	switch {
	case percentage == 0:
		return "Start uploading documents and events"
	case percentage < InProgressThreshold:
		return "Build more documentation"
	case percentage < ReadyThreshold:
		return "Strengthen remaining criteria"
	default:
		return "Ready for application!"
	}
}

// Recommendation priority constants
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation suggests where to focus documentation effort.
type Recommendation struct {
	AwardKey    string `json:"award_key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"` // high, medium, low
}

// ReadinessSummary is the readiness view served to the dashboard.
type ReadinessSummary struct {
	Awards           []ReadinessSnapshot `json:"awards"`
	OverallReadiness int                 `json:"overall_readiness"`
	BestMatch        *string             `json:"best_match"`
	Recommendations  []Recommendation    `json:"recommendations"`
}

// ChecklistItem is one criterion of an award checklist.
type ChecklistItem struct {
	Criterion         string       `json:"criterion"`
	Keywords          []string     `json:"keywords"`
	Satisfied         bool         `json:"satisfied"`
	Source            string       `json:"source"`
	Confidence        int          `json:"confidence"`
	SupportingContent []ContentRef `json:"supporting_content"`
}

// AwardChecklist is the detailed per-criterion state of one award.
type AwardChecklist struct {
	AwardKey    string          `json:"award_key"`
	AwardName   string          `json:"award_name"`
	Items       []ChecklistItem `json:"checklist"`
	Satisfied   []string        `json:"satisfied_criteria"`
	Unsatisfied []string        `json:"unsatisfied_criteria"`
	Readiness   int             `json:"readiness_percentage"`
}
