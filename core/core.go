// Package core has core logic for answering, scoring and reporting readiness assessments.
package core

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/internal/outwriter"
	"github.com/iipmodel/readiness/schema"
	"go.uber.org/zap"
)

// ExecutorFunc defines the function signature for executing the assessment commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteScore scores the session (or answer sheet) and prints the results.
// It serves as the main entry point for the 'score' command.
func ExecuteScore(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	s, err := loadAssessmentSession(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	result := Aggregate(s)
	runID := recordRun(ctx, cfg, runStoreOf(mgr), result, start)
	ctx = withRunID(ctx, runID)

	printResultHeader(ctx, cfg, result)
	return outwriter.PrintResults(result, cfg, time.Since(start))
}

// ExecuteReport builds the paginated report of the session (or answer sheet).
// It serves as the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	s, err := loadAssessmentSession(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	report := NewReportBuilder(s).
		BuildSummary().
		BuildPages().
		Build()
	warnUnanswered(report.Result.Progress)
	return outwriter.PrintReport(report, cfg)
}

// ExecuteQuestions prints the catalog.
func ExecuteQuestions(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.PrintCatalog(cfg.Catalog, cfg)
}

// ExecuteSessionNew starts a persisted session seeded with the configured weights.
func ExecuteSessionNew(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	s := NewSession(cfg.Catalog)
	if err := applyWeights(s, cfg.Weights); err != nil {
		return err
	}
	if err := SaveSession(sessionStoreOf(mgr), s); err != nil {
		return err
	}
	contract.LoggerFrom(ctx).Info("session created", zap.String("session_id", s.ID))

	fmt.Println(s.ID)
	_, _ = fmt.Fprintf(os.Stderr, "Started session with %d questions over %d dimensions. Use --session %s or export READINESS_SESSION=%s\n",
		cfg.Catalog.QuestionCount(), len(cfg.Catalog.Dimensions), s.ID, s.ID)
	return nil
}

// ExecuteSessionShow prints the progress of a persisted session.
func ExecuteSessionShow(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	s, err := loadAssessmentSession(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintProgress(Aggregate(s), cfg)
}

// ExecuteSessionReset clears the answers and weights of a persisted session.
func ExecuteSessionReset(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	s, err := loadStoredSession(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	s.Reset()
	if err := SaveSession(sessionStoreOf(mgr), s); err != nil {
		return err
	}
	fmt.Printf("Session %s reset\n", s.ID)
	return nil
}

// ExecuteSessionDelete removes a persisted session.
func ExecuteSessionDelete(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	store := sessionStoreOf(mgr)
	if store == nil {
		return fmt.Errorf("session store is disabled (backend none)")
	}
	if cfg.SessionID == "" {
		return fmt.Errorf("no session given: pass --session")
	}
	if err := store.Delete(cfg.SessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", cfg.SessionID, err)
	}
	contract.LoggerFrom(ctx).Info("session deleted", zap.String("session_id", cfg.SessionID))
	fmt.Printf("Session %s deleted\n", cfg.SessionID)
	return nil
}

// ExecuteAnswer records one answer in a persisted session.
// The value may be a digit or a Likert label such as "Somewhat Agree".
func ExecuteAnswer(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, questionID, value string) error {
	s, err := loadStoredSession(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	answer, err := schema.ParseLikert(value)
	if err != nil {
		return err
	}
	if err := s.Answer(questionID, answer); err != nil {
		return err
	}
	if err := SaveSession(sessionStoreOf(mgr), s); err != nil {
		return err
	}

	ref, _ := cfg.Catalog.Question(questionID)
	progress := s.Progress()
	contract.LoggerFrom(ctx).Debug("answer recorded",
		zap.String("session_id", s.ID), zap.String("question_id", questionID), zap.Int("answer", answer))
	fmt.Printf("Recorded %s = %d (%s) · %s overall %.*f · %d/%d answered\n",
		questionID, answer, schema.LikertLabel(answer),
		ref.DimensionID, cfg.Precision, s.Responses.Overall(ref.DimensionID),
		progress.Answered, progress.Total)
	return nil
}

// ExecuteSessionWeight sets the weight of a dimension in a persisted session.
func ExecuteSessionWeight(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, dimension, value string) error {
	s, err := loadStoredSession(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("invalid weight '%s': %w", value, err)
	}
	if err := s.SetWeight(dimension, weight); err != nil {
		return err
	}
	if err := SaveSession(sessionStoreOf(mgr), s); err != nil {
		return err
	}
	dim, _ := cfg.Catalog.ResolveDimension(dimension)
	overall := s.Responses.Overall(dim.ID)
	fmt.Printf("Weight of %s set to %.2f · display value %.*f\n",
		dim.Name, weight, cfg.Precision, DisplayValue(overall, weight))
	return nil
}

// ApplyAnswerSheet records the weights and answers of a sheet into a session.
// Unknown questions and dimensions are errors.
func ApplyAnswerSheet(s *Session, sheet *contract.AnswerSheet) error {
	if err := applyWeights(s, sheet.Weights); err != nil {
		return err
	}
	for _, id := range sheet.QuestionIDs() {
		if err := s.Answer(id, sheet.Answers[id]); err != nil {
			return err
		}
	}
	return nil
}

// loadAssessmentSession builds a session from the answer sheet if one was given,
// and otherwise restores the persisted session.
func loadAssessmentSession(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*Session, error) {
	if cfg.AnswersPath == "" {
		return loadStoredSession(ctx, cfg, mgr)
	}

	sheet, err := contract.LoadAnswerSheet(cfg.AnswersPath)
	if err != nil {
		return nil, err
	}
	s := NewSession(cfg.Catalog)
	if err := applyWeights(s, cfg.Weights); err != nil {
		return nil, err
	}
	if err := ApplyAnswerSheet(s, sheet); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.AnswersPath, err)
	}
	contract.LoggerFrom(ctx).Debug("answer sheet loaded",
		zap.String("path", cfg.AnswersPath), zap.Int("answers", len(sheet.Answers)))
	return s, nil
}

// loadStoredSession restores the session named by --session.
func loadStoredSession(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*Session, error) {
	s, skipped, err := LoadSession(sessionStoreOf(mgr), cfg.Catalog, cfg.SessionID)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		contract.LogWarn("Session restored partially", fmt.Errorf("dropped entries not in the catalog: %s", strings.Join(skipped, ", ")))
		contract.LoggerFrom(ctx).Warn("snapshot entries skipped", zap.String("session_id", s.ID), zap.Strings("skipped", skipped))
	}
	return s, nil
}

// applyWeights sets each weight, resolving dimension names to IDs.
func applyWeights(s *Session, weights map[string]float64) error {
	for dim, w := range weights {
		if err := s.SetWeight(dim, w); err != nil {
			return err
		}
	}
	return nil
}

// printResultHeader prints a short context line before text output.
func printResultHeader(ctx context.Context, cfg *contract.Config, result schema.AssessmentResult) {
	warnUnanswered(result.Progress)
	if shouldSuppressHeader(ctx) || cfg.Output != schema.TextOut {
		return
	}
	fmt.Printf("%s · session %s · %d/%d answered", result.Title, result.SessionID, result.Progress.Answered, result.Progress.Total)
	if runID, ok := getRunID(ctx); ok {
		fmt.Printf(" · run #%d", runID)
	}
	fmt.Println()
}

// warnUnanswered reminds the user that unanswered dimensions count as neutral.
func warnUnanswered(p schema.Progress) {
	if p.AllAnswered {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "⚠️  %d of %d questions are not answered; dimensions without answers count as neutral (%.1f)\n",
		p.Total-p.Answered, p.Total, schema.NeutralScore)
}

func sessionStoreOf(mgr contract.StoreManager) contract.SessionStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetSessionStore()
}

func runStoreOf(mgr contract.StoreManager) contract.RunStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetRunStore()
}
