package schema

import "time"

// BreakdownItem is one answered question in the export breakdown.
type BreakdownItem struct {
	QuestionID     string `json:"question_id"`
	SubdimensionID string `json:"subdimension_id"`
	Label          string `json:"label"`
	Score          int    `json:"score"`
	ScoreLabel     string `json:"score_label"`
}

// DimensionBreakdown lists the raw answers of a dimension.
type DimensionBreakdown struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Overall     float64 `json:"overall"`
	// Interpretation is empty while the dimension has no answers.
	Interpretation string               `json:"interpretation,omitempty"`
	Items          []BreakdownItem      `json:"items"`
	Subdimensions  []SubdimensionResult `json:"subdimensions"`
}

// Report is the paginated export document: a summary page built from Result
// followed by one page per dimension.
type Report struct {
	Title       string               `json:"title"`
	Subtitle    string               `json:"subtitle,omitempty"`
	Intro       string               `json:"intro,omitempty"`
	SessionID   string               `json:"session_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Result      AssessmentResult     `json:"result"`
	Pages       []DimensionBreakdown `json:"pages"`
}

// PageCount returns the number of pages including the summary page.
func (r Report) PageCount() int {
	return len(r.Pages) + 1
}
