package core

import (
	"context"
	"time"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"
	"go.uber.org/zap"
)

// recordRun stores a scored result in the run history. Tracking failures are
// reported as warnings and never fail the command.
func recordRun(ctx context.Context, cfg *contract.Config, store contract.RunStore, result schema.AssessmentResult, startTime time.Time) int64 {
	if store == nil {
		return 0
	}
	logger := contract.LoggerFrom(ctx)

	configParams := map[string]any{
		"catalog":      cfg.Catalog.Title,
		"catalog_path": cfg.CatalogPath,
		"answers_path": cfg.AnswersPath,
		"weights":      weightsOf(result),
		"answered":     result.Progress.Answered,
		"total":        result.Progress.Total,
	}
	runID, err := store.BeginRun(startTime, result.SessionID, configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return 0
	}
	logger.Debug("run started", zap.Int64("run_id", runID), zap.String("session_id", result.SessionID))

	for _, dim := range result.Dimensions {
		if err := store.RecordDimensionScore(runID, dim); err != nil {
			contract.LogWarn("Failed to record dimension score", err)
			logger.Warn("dimension score not recorded", zap.Int64("run_id", runID), zap.String("dimension", dim.ID), zap.Error(err))
		}
	}

	if err := store.EndRun(runID, time.Now(), result.FinalScore, result.Label, len(result.Dimensions)); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
		return runID
	}
	logger.Debug("run finished", zap.Int64("run_id", runID), zap.Float64("final_score", result.FinalScore))
	return runID
}

func weightsOf(result schema.AssessmentResult) map[string]float64 {
	out := make(map[string]float64, len(result.Dimensions))
	for _, dim := range result.Dimensions {
		out[dim.ID] = dim.Weight
	}
	return out
}
