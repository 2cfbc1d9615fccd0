package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Strob0t/repodoc/internal/domain"
	"github.com/Strob0t/repodoc/internal/service"
)

// registerTools registers all MCP tools on the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTools(
		s.generateDocumentationTool(),
		s.analyzeRepositoryTool(),
	)
}

func repoURLArg() mcplib.ToolOption {
	return mcplib.WithString("repo_url",
		mcplib.Required(),
		mcplib.Description("GitHub repository URL, e.g. https://github.com/owner/name"),
	)
}

func (s *Server) generateDocumentationTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("generate_documentation",
		mcplib.WithDescription("Generate structured documentation (overview, flow, functions, tech stack, setup) for a GitHub repository"),
		repoURLArg(),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleGenerateDocumentation,
	}
}

func (s *Server) analyzeRepositoryTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("analyze_repository",
		mcplib.WithDescription("Run the deterministic file-tree analysis of a GitHub repository without calling a language model"),
		repoURLArg(),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleAnalyzeRepository,
	}
}

func (s *Server) handleGenerateDocumentation(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Docs == nil {
		return mcplib.NewToolResultError("documentation service not configured"), nil
	}
	repoURL, ok := stringArg(req, "repo_url")
	if !ok {
		return mcplib.NewToolResultError("repo_url is required"), nil
	}
	res, err := s.deps.Docs.Generate(ctx, repoURL)
	if err != nil {
		return toolError(ctx, err), nil
	}
	return toolResultJSON(res)
}

func (s *Server) handleAnalyzeRepository(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Docs == nil {
		return mcplib.NewToolResultError("documentation service not configured"), nil
	}
	repoURL, ok := stringArg(req, "repo_url")
	if !ok {
		return mcplib.NewToolResultError("repo_url is required"), nil
	}
	res, err := s.deps.Docs.Analyze(ctx, repoURL)
	if err != nil {
		return toolError(ctx, err), nil
	}
	return toolResultJSON(res)
}

func stringArg(req mcplib.CallToolRequest, name string) (string, bool) { //nolint:gocritic // hugeParam: mcp-go request type
	v, ok := req.GetArguments()[name].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func toolResultJSON(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal result", err), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}

// toolError turns a pipeline error into a tool-level error result. Only the
// error kind is exposed; details go to the log.
func toolError(ctx context.Context, err error) *mcplib.CallToolResult {
	slog.WarnContext(ctx, "mcp tool failed", "error", err)
	if errors.Is(err, domain.ErrInvalidInput) {
		return mcplib.NewToolResultError("Invalid GitHub repository URL")
	}
	return mcplib.NewToolResultError("documentation request failed: " + service.ErrorKind(err))
}
