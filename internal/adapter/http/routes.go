package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router. mcp may be
// nil when the MCP server is disabled.
func MountRoutes(r chi.Router, h *Handlers, mcp http.Handler) {
	r.Get("/health", h.Health)

	r.Post("/api/generate-docs", h.GenerateDocs)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"1"}`))
		})
		r.Post("/analyze", h.AnalyzeRepo)
		r.Post("/generate-docs", h.GenerateDocs)
	})

	if mcp != nil {
		r.Handle("/mcp", mcp)
	}
}
