package core

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/internal/outwriter"
	"github.com/iipmodel/readiness/schema"
)

// ExecuteReadinessCheck runs the check command for gating.
// It scores the session and returns a non-zero exit code if the final score or any
// thresholded dimension falls below its threshold.
func ExecuteReadinessCheck(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	s, err := loadAssessmentSession(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	result := Aggregate(s)
	recordRun(ctx, cfg, runStoreOf(mgr), result, start)

	check := EvaluateReadiness(result, cfg.MinScore, cfg.DimensionThresholds)
	printCheckResult(check, result, cfg, time.Since(start))

	if cfg.Detail {
		// The check summary already names the session.
		printResultHeader(withSuppressHeader(ctx), cfg, result)
		if err := outwriter.PrintResults(result, cfg, time.Since(start)); err != nil {
			return err
		}
	}

	// Return error if check failed
	if !check.Passed {
		fmt.Printf("%d violation(s) found\n", len(check.Failures))
		os.Exit(1)
	}
	return nil
}

// EvaluateReadiness gates a result: the final score must reach minScore and every
// thresholded dimension's display value must reach its threshold.
// Failures list the final score first, then dimensions in catalog order.
func EvaluateReadiness(result schema.AssessmentResult, minScore float64, thresholds map[string]float64) schema.CheckResult {
	check := schema.CheckResult{
		SessionID:  result.SessionID,
		FinalScore: result.FinalScore,
		MinScore:   minScore,
		Thresholds: thresholds,
		Failures:   []schema.CheckFailure{},
		Progress:   result.Progress,
	}
	if check.Thresholds == nil {
		check.Thresholds = map[string]float64{}
	}

	if result.FinalScore < minScore {
		check.Failures = append(check.Failures, schema.CheckFailure{
			Name:      "Final score",
			Score:     result.FinalScore,
			Threshold: minScore,
		})
	}
	for _, dim := range result.Dimensions {
		threshold, ok := thresholds[dim.ID]
		if !ok {
			continue
		}
		if dim.DisplayValue < threshold {
			check.Failures = append(check.Failures, schema.CheckFailure{
				DimensionID: dim.ID,
				Name:        dim.Name,
				Score:       dim.DisplayValue,
				Threshold:   threshold,
			})
		}
	}
	check.Passed = len(check.Failures) == 0
	return check
}

// printCheckResult prints the check result in a concise format suitable for CI/CD.
func printCheckResult(check schema.CheckResult, result schema.AssessmentResult, cfg *contract.Config, duration time.Duration) {
	printCheckHeader(check, cfg, duration)

	if check.Passed {
		printCheckSuccess(result, cfg)
	} else {
		printCheckFailure(check, cfg)
	}
}

// printCheckHeader prints the common header information for check results.
func printCheckHeader(check schema.CheckResult, cfg *contract.Config, duration time.Duration) {
	fmt.Println("Readiness Check Results:")

	// Define labels and values for dynamic padding
	labels := []string{"Session:", "Answered:", "Min score:", "Thresholds:"}
	values := []any{
		check.SessionID,
		fmt.Sprintf("%d/%d", check.Progress.Answered, check.Progress.Total),
		fmt.Sprintf("%.*f", cfg.Precision, check.MinScore),
		formatThresholds(check.Thresholds, cfg.Precision),
	}

	// Find the longest label for consistent padding
	maxLabelLen := 0
	for _, label := range labels {
		if len(label) > maxLabelLen {
			maxLabelLen = len(label)
		}
	}

	// Print each label-value pair with consistent padding
	for i, label := range labels {
		fmt.Printf("  %-*s %v\n", maxLabelLen+1, label, values[i])
	}
	fmt.Println()

	fmt.Printf("Checked %d dimensions in %v\n\n", len(check.Progress.Dimensions), duration)
}

// printCheckSuccess prints the success case output.
func printCheckSuccess(result schema.AssessmentResult, cfg *contract.Config) {
	fmt.Printf("✅ Readiness check passed\n\n")
	fmt.Printf("Final score: %.*f (%s)\n", cfg.Precision, result.FinalScore, result.Label)

	// Show the weakest dimension so near misses stay visible
	if len(result.Dimensions) == 0 {
		return
	}
	weakest := result.Dimensions[0]
	for _, dim := range result.Dimensions[1:] {
		if dim.DisplayValue < weakest.DisplayValue {
			weakest = dim
		}
	}
	fmt.Printf("Lowest dimension: %s (%.*f)\n", weakest.Name, cfg.Precision, weakest.DisplayValue)
}

// printCheckFailure prints the failure case output.
func printCheckFailure(check schema.CheckResult, cfg *contract.Config) {
	fmt.Printf("❌ Readiness check failed: %d violation(s) found\n\n", len(check.Failures))
	for _, f := range check.Failures {
		fmt.Printf("  - %s (score: %.*f < threshold: %.*f)\n", f.Name, cfg.Precision, f.Score, cfg.Precision, f.Threshold)
	}
	fmt.Println()
}

// formatThresholds renders thresholds as "dim=value" pairs in sorted order.
func formatThresholds(thresholds map[string]float64, precision int) string {
	if len(thresholds) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(thresholds))
	for k := range thresholds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.*f", k, precision, thresholds[k]))
	}
	return strings.Join(parts, ", ")
}
