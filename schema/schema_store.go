package schema

import "time"

// SnapshotVersion is the current layout of SessionSnapshot.
const SnapshotVersion = 1

// SnapshotAnswer is one recorded answer inside a snapshot.
type SnapshotAnswer struct {
	DimensionID    string `json:"dimension_id"`
	SubdimensionID string `json:"subdimension_id"`
	QuestionID     string `json:"question_id"`
	Answer         int    `json:"answer"`
}

// SessionSnapshot is the persisted form of a session: raw answers and weights only.
// Overalls are recomputed on restore.
type SessionSnapshot struct {
	Version   int                `json:"version"`
	SessionID string             `json:"session_id"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Answers   []SnapshotAnswer   `json:"answers"`
	Weights   map[string]float64 `json:"weights,omitempty"`
}

// AssessmentRunRecord represents a row from the readiness_assessment_runs table.
type AssessmentRunRecord struct {
	RunID           int64
	SessionID       string
	StartTime       time.Time
	EndTime         *time.Time
	RunDurationMs   *int32
	TotalDimensions int32
	FinalScore      *float64
	ScoreLabel      *string
	ConfigParams    *string
}

// DimensionScoreRecord represents a row from the readiness_dimension_scores table.
type DimensionScoreRecord struct {
	RunID         int64
	DimensionID   string
	DimensionName string
	RecordedAt    time.Time
	Overall       float64
	Weight        float64
	DisplayValue  float64
	Answered      int32
	Total         int32
}
