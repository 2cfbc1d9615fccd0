// Package mcp exposes the documentation pipeline as Model Context Protocol
// tools over the streamable HTTP transport.
package mcp

import (
	"context"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Strob0t/repodoc/internal/service"
)

// DocService is the pipeline the tools call.
type DocService interface {
	Generate(ctx context.Context, repoURL string) (*service.Result, error)
	Analyze(ctx context.Context, repoURL string) (*service.AnalysisResult, error)
}

// ServerConfig names the server in the MCP handshake.
type ServerConfig struct {
	Name    string
	Version string
	// APIKey, when set, is required as a Bearer token or X-API-Key header.
	APIKey string
}

// ServerDeps holds the services the tools depend on.
type ServerDeps struct {
	Docs DocService
}

// Server wraps an mcp-go server with repodoc tools and resources.
type Server struct {
	cfg       ServerConfig
	deps      ServerDeps
	mcpServer *mcpserver.MCPServer
}

// NewServer creates the MCP server and registers all tools and resources.
func NewServer(cfg ServerConfig, deps ServerDeps) *Server {
	s := &Server{
		cfg:  cfg,
		deps: deps,
		mcpServer: mcpserver.NewMCPServer(cfg.Name, cfg.Version,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithResourceCapabilities(false, false),
			mcpserver.WithRecovery(),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// Handler returns the streamable HTTP handler to mount at /mcp.
func (s *Server) Handler() http.Handler {
	return AuthMiddleware(s.cfg.APIKey, mcpserver.NewStreamableHTTPServer(s.mcpServer))
}
