package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iipmodel/readiness/core"
	"github.com/iipmodel/readiness/internal/contract"
	"github.com/iipmodel/readiness/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	sessions *sessionRegistry
	logger   *zap.Logger
}

// answerResult is returned after each recorded answer.
type answerResult struct {
	SessionID   string          `json:"session_id"`
	QuestionID  string          `json:"question_id"`
	Answer      int             `json:"answer"`
	AnswerLabel string          `json:"answer_label"`
	DimensionID string          `json:"dimension_id"`
	Overall     float64         `json:"overall"`
	Progress    schema.Progress `json:"progress"`
}

// weightResult is returned after a weight change.
type weightResult struct {
	SessionID    string  `json:"session_id"`
	DimensionID  string  `json:"dimension_id"`
	Weight       float64 `json:"weight"`
	Overall      float64 `json:"overall"`
	DisplayValue float64 `json:"display_value"`
}

func (h *toolHandler) handleListQuestions(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog := h.baseCfg.Catalog
	if key := request.GetString("dimension", ""); key != "" {
		dim, ok := catalog.ResolveDimension(key)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("%v: %s", core.ErrUnknownDimension, key)), nil
		}
		return jsonResult(dim)
	}
	return jsonResult(catalog)
}

func (h *toolHandler) handleStartSession(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.sessions.create(h.baseCfg.Weights)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start session: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"session_id": s.ID,
		"steps":      len(s.Catalog.Dimensions),
		"questions":  s.Catalog.QuestionCount(),
		"weights":    s.Weights.All(),
	})
}

func (h *toolHandler) handleRecordAnswer(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("session_id", "")
	questionID := request.GetString("question_id", "")
	answer, err := schema.ParseLikert(request.GetString("answer", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var out answerResult
	err = h.sessions.update(id, func(s *core.Session) error {
		if err := s.Answer(questionID, answer); err != nil {
			return err
		}
		ref, _ := s.Catalog.Question(questionID)
		out = answerResult{
			SessionID:   s.ID,
			QuestionID:  questionID,
			Answer:      answer,
			AnswerLabel: schema.LikertLabel(answer),
			DimensionID: ref.DimensionID,
			Overall:     s.Responses.Overall(ref.DimensionID),
			Progress:    s.Progress(),
		}
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("record_answer failed: %v", err)), nil
	}
	h.logger.Debug("answer recorded", zap.String("session_id", id), zap.String("question_id", questionID), zap.Int("answer", answer))
	return jsonResult(out)
}

func (h *toolHandler) handleSetWeight(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("session_id", "")
	dimension := request.GetString("dimension", "")
	weight := request.GetFloat("weight", schema.DefaultWeight)

	var out weightResult
	err := h.sessions.update(id, func(s *core.Session) error {
		if err := s.SetWeight(dimension, weight); err != nil {
			return err
		}
		dim, _ := s.Catalog.ResolveDimension(dimension)
		overall := s.Responses.Overall(dim.ID)
		out = weightResult{
			SessionID:    s.ID,
			DimensionID:  dim.ID,
			Weight:       weight,
			Overall:      overall,
			DisplayValue: core.DisplayValue(overall, weight),
		}
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("set_weight failed: %v", err)), nil
	}
	return jsonResult(out)
}

func (h *toolHandler) handleGetProgress(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var progress schema.Progress
	err := h.sessions.read(request.GetString("session_id", ""), func(s *core.Session) error {
		progress = s.Progress()
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get_progress failed: %v", err)), nil
	}
	return jsonResult(progress)
}

func (h *toolHandler) handleGetResults(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result schema.AssessmentResult
	err := h.sessions.read(request.GetString("session_id", ""), func(s *core.Session) error {
		result = core.Aggregate(s)
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get_results failed: %v", err)), nil
	}

	enriched := struct {
		schema.AssessmentResult
		Dimensions []schema.EnrichedDimensionResult `json:"dimensions"`
	}{result, schema.EnrichDimensions(result.Dimensions)}
	return jsonResult(enriched)
}

func (h *toolHandler) handleGetBreakdown(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var report schema.Report
	err := h.sessions.read(request.GetString("session_id", ""), func(s *core.Session) error {
		report = core.NewReportBuilder(s).BuildSummary().BuildPages().Build()
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get_breakdown failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleResetSession(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var progress schema.Progress
	err := h.sessions.update(request.GetString("session_id", ""), func(s *core.Session) error {
		s.Reset()
		progress = s.Progress()
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reset_session failed: %v", err)), nil
	}
	return jsonResult(progress)
}

func (h *toolHandler) handleEndSession(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("session_id", "")
	if err := h.sessions.end(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("end_session failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("session %s ended", id)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
