// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/iipmodel/readiness/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// NewMCPServer initializes and configures the readiness MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager, logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"Readiness Assessment Server",
		"1.0.0",
		server.WithLogging(),
	)

	var store contract.SessionStore
	if mgr != nil {
		store = mgr.GetSessionStore()
	}
	// Tools read a private copy of the config.
	h := &toolHandler{
		baseCfg:  baseCfg.Clone(),
		sessions: newSessionRegistry(baseCfg.Catalog, store, logger),
		logger:   logger,
	}

	sessionID := mcp.WithString("session_id", mcp.Description("Session ID returned by start_session."), mcp.Required())

	// --- 1. Tool: list_questions ---
	s.AddTool(mcp.NewTool("list_questions",
		mcp.WithDescription("List the questionnaire: dimensions (one per step), subdimensions and question IDs with their statements."),
		mcp.WithString("dimension", mcp.Description("Only list this dimension (ID or display name).")),
	), h.handleListQuestions)

	// --- 2. Tool: start_session ---
	s.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start an assessment session. Every dimension starts neutral (3.0) with weight 1.0."),
	), h.handleStartSession)

	// --- 3. Tool: record_answer ---
	s.AddTool(mcp.NewTool("record_answer",
		mcp.WithDescription("Record the Likert answer to one question. Re-answering overwrites the previous answer."),
		sessionID,
		mcp.WithString("question_id", mcp.Description("Question ID from list_questions."), mcp.Required()),
		mcp.WithString("answer", mcp.Description("1-5 or a label: Strongly Disagree, Somewhat Disagree, Neutral, Somewhat Agree, Strongly Agree."), mcp.Required()),
	), h.handleRecordAnswer)

	// --- 4. Tool: set_weight ---
	s.AddTool(mcp.NewTool("set_weight",
		mcp.WithDescription("Set the importance of a dimension between 0.0 and 2.0 (default 1.0)."),
		sessionID,
		mcp.WithString("dimension", mcp.Description("Dimension ID or display name."), mcp.Required()),
		mcp.WithNumber("weight", mcp.Description("Weight between 0.0 and 2.0."), mcp.Required()),
	), h.handleSetWeight)

	// --- 5. Tool: get_progress ---
	s.AddTool(mcp.NewTool("get_progress",
		mcp.WithDescription("Show how many questions of each step are answered."),
		sessionID,
	), h.handleGetProgress)

	// --- 6. Tool: get_results ---
	s.AddTool(mcp.NewTool("get_results",
		mcp.WithDescription("Score the session: per-dimension overall and weighted display value, radar series and final readiness score."),
		sessionID,
	), h.handleGetResults)

	// --- 7. Tool: get_breakdown ---
	s.AddTool(mcp.NewTool("get_breakdown",
		mcp.WithDescription("Build the export report: summary plus one page per dimension listing every answered question."),
		sessionID,
	), h.handleGetBreakdown)

	// --- 8. Tool: reset_session ---
	s.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Clear every answer and weight of the session."),
		sessionID,
	), h.handleResetSession)

	// --- 9. Tool: end_session ---
	s.AddTool(mcp.NewTool("end_session",
		mcp.WithDescription("Discard the session and its stored snapshot."),
		sessionID,
	), h.handleEndSession)

	return s
}

// StartMCPServer starts the readiness MCP server on stdio.
func StartMCPServer(ctx context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	logger := contract.LoggerFrom(ctx)
	logger.Info("starting MCP server", zap.Int("questions", baseCfg.Catalog.QuestionCount()))
	s := NewMCPServer(baseCfg, mgr, logger)
	return server.ServeStdio(s)
}
