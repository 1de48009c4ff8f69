// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/gradeflow/repograde/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Repograde MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, cloner contract.Cloner, store contract.GradeStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Repograde Grading Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		cloner:  cloner,
		store:   store,
	}

	// --- 1. Tool: analyze_repository ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Count effective lines in a local repository and compute its grade."),
		mcp.WithString("repo_path", mcp.Description("Path to the repository (defaults to the configured path).")),
		mcp.WithNumber("threshold", mcp.Description("Line threshold above which a file counts as oversized.")),
	), h.handleAnalyzeRepository)

	// --- 2. Tool: grade_repository ---
	s.AddTool(mcp.NewTool("grade_repository",
		mcp.WithDescription("Clone a GitHub repository, analyze it and return its grade."),
		mcp.WithString("repo_url", mcp.Description("HTTPS GitHub URL of the repository to grade."), mcp.Required()),
		mcp.WithString("email_id", mcp.Description("Student email to attach to the grade record.")),
		mcp.WithNumber("threshold", mcp.Description("Line threshold above which a file counts as oversized.")),
	), h.handleGradeRepository)

	// --- 3. Tool: list_grades ---
	s.AddTool(mcp.NewTool("list_grades",
		mcp.WithDescription("List grade records persisted by previous batch runs."),
		mcp.WithNumber("batch_id", mcp.Description("Restrict results to one batch (all batches if omitted).")),
	), h.handleListGrades)

	return s
}

// StartMCPServer starts the Repograde MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, cloner contract.Cloner, store contract.GradeStore) error {
	s := NewMCPServer(baseCfg, cloner, store)
	return server.ServeStdio(s)
}
