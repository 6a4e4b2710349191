package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/taskreview/internal/models"
	"github.com/joescharf/taskreview/internal/orchestrator"
	"github.com/joescharf/taskreview/internal/store"
)

// DefaultSubmitter is used when a tool call omits submitted_by.
const DefaultSubmitter = "mcp-client"

// Server exposes the review pipeline as MCP tools.
type Server struct {
	orch    *orchestrator.Orchestrator
	history store.Store
	version string
	now     func() time.Time
}

// NewServer creates the MCP server wrapper. history may be nil.
func NewServer(orch *orchestrator.Orchestrator, history store.Store, version string) *Server {
	return &Server{
		orch:    orch,
		history: history,
		version: version,
		now:     time.Now,
	}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("taskreview", s.version, server.WithToolCapabilities(true))

	srv.AddTool(s.evaluateTool())
	srv.AddTool(s.classifyTool())
	srv.AddTool(s.reviewRepositoryTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.MCPServer())
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// taskreview_evaluate
func (s *Server) evaluateTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("taskreview_evaluate",
		mcp.WithDescription("Evaluate a task submission and recommend the next task. The description may embed '--- Repository Metrics ---' JSON and '--- Extracted Document Content ---' sections. Returns the review, readiness classification and next task as JSON."),
		mcp.WithString("task_title", mcp.Required(), mcp.Description("Task title (5-100 characters)")),
		mcp.WithString("task_description", mcp.Required(), mcp.Description("Task description (10-2000 characters)")),
		mcp.WithString("submitted_by", mcp.Description("Submitter name (2-50 characters)")),
	)
	return tool, s.handleEvaluate
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("task_title")
	if err != nil {
		return mcp.NewToolResultError("task_title is required"), nil
	}
	description, err := request.RequireString("task_description")
	if err != nil {
		return mcp.NewToolResultError("task_description is required"), nil
	}

	sub, err := models.NewSubmission(models.SubmissionInput{
		Title:       title,
		Description: description,
		SubmittedBy: request.GetString("submitted_by", DefaultSubmitter),
	}, uuid.NewString(), s.now().UTC())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := s.orch.Orchestrate(sub)
	s.record(ctx, sub, res)
	return jsonResult(res)
}

// taskreview_classify
func (s *Server) classifyTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("taskreview_classify",
		mcp.WithDescription("Classify a score into a readiness band (PASS >= 80, BORDERLINE >= 50, FAIL otherwise). Scores outside 0-100 are clamped."),
		mcp.WithNumber("score", mcp.Required(), mcp.Description("Integer score, nominally between 0 and 100")),
	)
	return tool, s.handleClassify
}

func (s *Server) handleClassify(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	score, err := request.RequireFloat("score")
	if err != nil {
		return mcp.NewToolResultError("score is required"), nil
	}
	if math.IsInf(score, 0) || score != math.Trunc(score) {
		return mcp.NewToolResultError(fmt.Sprintf("score must be an integer, got %v", score)), nil
	}
	score = math.Max(math.MinInt32, math.Min(math.MaxInt32, score))

	band := s.orch.ClassifyReadiness(int(score))
	return jsonResult(map[string]any{
		"score":                    int(score),
		"readiness_classification": band,
		"status":                   band.Status(),
	})
}

// taskreview_review_repository
func (s *Server) reviewRepositoryTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("taskreview_review_repository",
		mcp.WithDescription("Review a task from a narrative, a GitHub repository URL and an optional local document (PDF, text or markdown). Repository metrics and document text are folded into the evaluation."),
		mcp.WithString("description", mcp.Description("Narrative describing the work; required with github_url")),
		mcp.WithString("github_url", mcp.Description("GitHub repository URL, e.g. https://github.com/owner/repo")),
		mcp.WithString("document_path", mcp.Description("Path to a local document to include")),
		mcp.WithString("task_title", mcp.Description("Optional task title")),
		mcp.WithString("submitted_by", mcp.Description("Optional submitter name")),
	)
	return tool, s.handleReviewRepository
}

func (s *Server) handleReviewRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := orchestrator.ExtendedRequest{
		Narrative:     request.GetString("description", ""),
		RepositoryURL: request.GetString("github_url", ""),
		Title:         request.GetString("task_title", ""),
		SubmittedBy:   request.GetString("submitted_by", ""),
	}

	if path := request.GetString("document_path", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read document: %v", err)), nil
		}
		req.Document = &orchestrator.Document{Name: filepath.Base(path), Data: data}
	}

	sub, err := s.orch.BuildExtendedSubmission(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := s.orch.Orchestrate(sub)
	s.record(ctx, sub, res)
	return jsonResult(res)
}

func (s *Server) record(ctx context.Context, sub *models.Submission, res *models.OrchestrationResult) {
	if s.history == nil {
		return
	}
	if err := s.history.SaveReview(ctx, models.NewReviewRecord(sub, res)); err != nil {
		slog.Warn("failed to record review", "task_id", sub.ID, "error", err)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
