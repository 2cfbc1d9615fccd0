package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/Strob0t/repodoc/internal/domain/docs"
)

const schemaResourceURI = "repodoc://schema/documentation"

// registerResources registers all MCP resources on the server.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcplib.NewResource(
			schemaResourceURI,
			"Documentation Schema",
			mcplib.WithResourceDescription("JSON Schema every generated documentation object satisfies"),
			mcplib.WithMIMEType("application/schema+json"),
		),
		s.handleSchemaResource,
	)
}

func (s *Server) handleSchemaResource(_ context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	data, err := docs.SchemaJSON()
	if err != nil {
		return nil, err
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/schema+json",
			Text:     string(data),
		},
	}, nil
}
