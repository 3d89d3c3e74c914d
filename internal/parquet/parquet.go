// Package parquet provides data structures and functions for exporting readiness
// assessment data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/iipmodel/readiness/schema"
	"github.com/parquet-go/parquet-go"
)

// AssessmentRun represents a single scored assessment run with metadata.
// This struct maps to the readiness_assessment_runs database table.
type AssessmentRun struct {
	RunID     int64     `parquet:"run_id,snappy"`
	SessionID string    `parquet:"session_id,snappy"`
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is nil for runs that never finished
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`

	TotalDimensions int32    `parquet:"total_dimensions,snappy"`
	FinalScore      *float64 `parquet:"final_score,optional,snappy"`
	ScoreLabel      *string  `parquet:"score_label,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// DimensionScore is the scored view of one dimension in a run.
// This struct maps to the readiness_dimension_scores database table.
type DimensionScore struct {
	RunID         int64     `parquet:"run_id,snappy"`
	DimensionID   string    `parquet:"dimension_id,snappy"`
	DimensionName string    `parquet:"dimension_name,snappy"`
	RecordedAt    time.Time `parquet:"recorded_at,snappy"`
	Overall       float64   `parquet:"overall,snappy"`
	Weight        float64   `parquet:"weight,snappy"`
	DisplayValue  float64   `parquet:"display_value,snappy"`
	Answered      int32     `parquet:"answered,snappy"`
	Total         int32     `parquet:"total,snappy"`
}

// ResultRow is one dimension of a freshly scored result, denormalized with
// the session-level final score for analytics tools.
type ResultRow struct {
	SessionID    string    `parquet:"session_id,snappy"`
	GeneratedAt  time.Time `parquet:"generated_at,snappy"`
	DimensionID  string    `parquet:"dimension_id,snappy"`
	Name         string    `parquet:"name,snappy"`
	Overall      float64   `parquet:"overall,snappy"`
	Weight       float64   `parquet:"weight,snappy"`
	DisplayValue float64   `parquet:"display_value,snappy"`
	Answered     int32     `parquet:"answered,snappy"`
	Total        int32     `parquet:"total,snappy"`
	FinalScore   float64   `parquet:"final_score,snappy"`
	Label        string    `parquet:"label,snappy"`
}

// writeRows writes rows to a new Parquet file, inferring the schema from T's struct tags.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteAssessmentRunsParquet writes assessment runs to a Parquet file.
func WriteAssessmentRunsParquet(data []AssessmentRun, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteDimensionScoresParquet writes dimension scores to a Parquet file.
func WriteDimensionScoresParquet(data []DimensionScore, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteResultParquet writes one row per dimension of a scored result.
func WriteResultParquet(result schema.AssessmentResult, outputPath string) error {
	return writeRows(ConvertAssessmentResult(result), outputPath)
}

// ConvertAssessmentRunRecords converts stored run records for Parquet export.
func ConvertAssessmentRunRecords(records []schema.AssessmentRunRecord) []AssessmentRun {
	result := make([]AssessmentRun, len(records))
	for i, record := range records {
		result[i] = AssessmentRun{
			RunID:           record.RunID,
			SessionID:       record.SessionID,
			StartTime:       record.StartTime,
			EndTime:         record.EndTime,
			RunDurationMs:   record.RunDurationMs,
			TotalDimensions: record.TotalDimensions,
			FinalScore:      record.FinalScore,
			ScoreLabel:      record.ScoreLabel,
			ConfigParams:    record.ConfigParams,
		}
	}
	return result
}

// ConvertDimensionScoreRecords converts stored dimension scores for Parquet export.
func ConvertDimensionScoreRecords(records []schema.DimensionScoreRecord) []DimensionScore {
	result := make([]DimensionScore, len(records))
	for i, record := range records {
		result[i] = DimensionScore(record)
	}
	return result
}

// ConvertAssessmentResult flattens a scored result into rows.
func ConvertAssessmentResult(r schema.AssessmentResult) []ResultRow {
	rows := make([]ResultRow, len(r.Dimensions))
	for i, d := range r.Dimensions {
		rows[i] = ResultRow{
			SessionID:    r.SessionID,
			GeneratedAt:  r.GeneratedAt,
			DimensionID:  d.ID,
			Name:         d.Name,
			Overall:      d.Overall,
			Weight:       d.Weight,
			DisplayValue: d.DisplayValue,
			Answered:     int32(d.Answered),
			Total:        int32(d.Total),
			FinalScore:   r.FinalScore,
			Label:        r.Label,
		}
	}
	return rows
}
