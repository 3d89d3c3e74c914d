package schema

// CheckResult holds the results of a readiness check.
type CheckResult struct {
	Passed     bool               `json:"passed"`
	SessionID  string             `json:"session_id"`
	FinalScore float64            `json:"final_score"`
	MinScore   float64            `json:"min_score"`
	Thresholds map[string]float64 `json:"thresholds"`
	Failures   []CheckFailure     `json:"failures"`
	Progress   Progress           `json:"progress"`
}

// CheckFailure represents a score below its threshold.
// DimensionID is empty for the final score.
type CheckFailure struct {
	DimensionID string  `json:"dimension_id,omitempty"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Threshold   float64 `json:"threshold"`
}
