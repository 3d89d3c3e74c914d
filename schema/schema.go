// Package schema holds the data types shared by the readiness packages.
package schema

import "time"

// SubdimensionResult is the non-weighted mean of one subdimension.
// Mean is only meaningful when Answered > 0.
type SubdimensionResult struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Mean     float64 `json:"mean"`
	Answered int     `json:"answered"`
	Total    int     `json:"total"`
}

// DimensionResult is the scored view of one dimension.
type DimensionResult struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Overall       float64              `json:"overall"`
	Weight        float64              `json:"weight"`
	DisplayValue  float64              `json:"display_value"`
	Answered      int                  `json:"answered"`
	Total         int                  `json:"total"`
	Subdimensions []SubdimensionResult `json:"subdimensions,omitempty"`
}

// RadarSeries is the chart data for the weighted dimension values.
// The first category is repeated at the end to close the loop.
type RadarSeries struct {
	Categories []string  `json:"categories"`
	Values     []float64 `json:"values"`
}

// DimensionProgress reports how many questions of a dimension were answered.
type DimensionProgress struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Step     int    `json:"step"`
	Answered int    `json:"answered"`
	Total    int    `json:"total"`
}

// Progress reports questionnaire completion.
type Progress struct {
	Answered    int                 `json:"answered"`
	Total       int                 `json:"total"`
	AllAnswered bool                `json:"all_answered"`
	Steps       int                 `json:"steps"`
	Dimensions  []DimensionProgress `json:"dimensions"`
}

// AssessmentResult is the outcome of aggregating a session.
type AssessmentResult struct {
	SessionID   string            `json:"session_id"`
	Title       string            `json:"title"`
	GeneratedAt time.Time         `json:"generated_at"`
	Dimensions  []DimensionResult `json:"dimensions"`
	FinalScore  float64           `json:"final_score"`
	Label       string            `json:"label"`
	Radar       RadarSeries       `json:"radar"`
	Progress    Progress          `json:"progress"`
}
