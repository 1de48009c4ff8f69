package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gradeflow/repograde/core"
	"github.com/gradeflow/repograde/internal/contract"
	"github.com/gradeflow/repograde/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	cloner  contract.Cloner
	store   contract.GradeStore
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	repoPath := cfg.RepoPath
	if p := request.GetString("repo_path", ""); p != "" {
		repoPath = p
	}
	if th := request.GetInt("threshold", 0); th > 0 {
		cfg.LineThreshold = th
	}

	result := core.AnalyzeRepository(ctx, cfg, repoPath)
	if result.Status == schema.FailedStatus {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %s", result.Error)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGradeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if th := request.GetInt("threshold", 0); th > 0 {
		cfg.LineThreshold = th
	}

	repoURL, err := contract.NormalizeRepoURL(request.GetString("repo_url", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid repository URL: %v", err)), nil
	}

	clonePath, err := h.cloner.Clone(ctx, repoURL)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("clone failed: %v", err)), nil
	}
	defer func() {
		if cerr := h.cloner.Cleanup(clonePath); cerr != nil {
			contract.LogWarn("Cannot remove clone directory", cerr)
		}
	}()

	result := core.AnalyzeRepository(ctx, cfg, clonePath)
	if result.Status == schema.FailedStatus {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %s", result.Error)), nil
	}

	record := schema.GradeRecord{
		EmailID: request.GetString("email_id", ""),
		RepoURL: repoURL,
		Grade:   result.Grade,
		Status:  schema.ReadyStatus,
	}
	jsonData, _ := json.MarshalIndent(record, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListGrades(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	batchID := int64(request.GetInt("batch_id", 0))

	grades, err := h.store.ListGrades(batchID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("store query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(grades, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
