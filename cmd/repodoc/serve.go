package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	cfhttp "github.com/Strob0t/repodoc/internal/adapter/http"
	cfmcp "github.com/Strob0t/repodoc/internal/adapter/mcp"
	cfotel "github.com/Strob0t/repodoc/internal/adapter/otel"
	"github.com/Strob0t/repodoc/internal/config"
	"github.com/Strob0t/repodoc/internal/logger"
	"github.com/Strob0t/repodoc/internal/middleware"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and MCP endpoint.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			slog.SetDefault(logger.New(cfg.Logging, os.Stdout))
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"llm_provider", cfg.LLM.Provider,
		"mcp_enabled", cfg.MCP.Enabled,
	)

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	handlers := &cfhttp.Handlers{
		Docs:           a.docs,
		LLMProvider:    a.synth.ProviderName(),
		LLMBreaker:     a.llmBreaker,
		GitHubBreaker:  a.githubBreaker,
		RequestTimeout: cfg.Server.RequestTimeout,
	}

	var mcpHandler http.Handler
	if cfg.MCP.Enabled {
		mcpHandler = cfmcp.NewServer(
			cfmcp.ServerConfig{Name: "repodoc", Version: version, APIKey: cfg.MCP.APIKey},
			cfmcp.ServerDeps{Docs: a.docs},
		).Handler()
	}

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(cfg, handlers, mcpHandler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newRouter builds the chi router with the middleware chain and all routes.
func newRouter(cfg *config.Config, h *cfhttp.Handlers, mcpHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(cfotel.HTTPMiddleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(cfhttp.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(cfhttp.SecurityHeaders)

	cfhttp.MountRoutes(r, h, mcpHandler)
	return r
}
