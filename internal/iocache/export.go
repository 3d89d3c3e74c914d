package iocache

import (
	"errors"
	"fmt"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/internal/parquet"
)

// ExecuteRunsExport exports the run history to two Parquet files named after outputFile.
func ExecuteRunsExport(store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run tracking is disabled (backend none)")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no assessment runs found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total assessment runs: %d\n", status.TotalRuns)
	fmt.Printf("Total dimension scores: %d\n", status.TotalDimensionScores)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve assessment runs: %w", err)
	}
	scores, err := store.GetAllDimensionScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve dimension scores: %w", err)
	}

	runsFile := outputFile + ".assessment_runs.parquet"
	parquetRuns := parquet.ConvertAssessmentRunRecords(runs)
	if err := parquet.WriteAssessmentRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write assessment runs: %w", err)
	}
	fmt.Printf("Exported %d assessment runs to: %s\n", len(parquetRuns), runsFile)

	scoresFile := outputFile + ".dimension_scores.parquet"
	parquetScores := parquet.ConvertDimensionScoreRecords(scores)
	if err := parquet.WriteDimensionScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write dimension scores: %w", err)
	}
	fmt.Printf("Exported %d dimension scores to: %s\n", len(parquetScores), scoresFile)

	return nil
}
