// Package app initializes and orchestrates the main components of the
// OpenGuard service: configuration, the GitHub gateway, the completion
// client, the review pipeline, the response cache, and the HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openguard/openguard/internal/cache"
	"github.com/openguard/openguard/internal/config"
	"github.com/openguard/openguard/internal/github"
	"github.com/openguard/openguard/internal/llm"
	"github.com/openguard/openguard/internal/review"
	"github.com/openguard/openguard/internal/server"
	"github.com/openguard/openguard/internal/server/handler"
)

// App holds the main application components.
type App struct {
	cfg    *config.Config
	server *server.Server
	logger *slog.Logger
}

// NewApp sets up the application with all its dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Info("initializing OpenGuard",
		"model", cfg.GeminiModel,
		"cache_ttl", cfg.CacheTTL.String())

	prompts, err := llm.NewPromptManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt manager: %w", err)
	}

	ghClient := github.NewClient(ctx, cfg.GitHubToken, logger)
	completer := llm.NewClient(llm.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		Timeout:    cfg.GeminiTimeout,
		MaxRetries: cfg.GeminiMaxRetries,
	}, logger)

	reviewService := review.NewService(ghClient, completer, prompts, logger)
	store := cache.New()

	analyzeHandler := handler.NewAnalyzeHandler(reviewService, store, cfg.CacheTTL, logger)
	repoStatsHandler := handler.NewRepoStatsHandler(ghClient, store, cfg.CacheTTL, logger)
	router := server.NewRouter(analyzeHandler, repoStatsHandler)
	httpServer := server.NewServer(cfg.ServerPort, router, logger)

	logger.Info("OpenGuard initialized successfully")
	return &App{
		cfg:    cfg,
		server: httpServer,
		logger: logger,
	}, nil
}

// Start runs the HTTP server.
func (a *App) Start() error {
	a.logger.Info("starting OpenGuard", "server_port", a.cfg.ServerPort)
	return a.server.Start()
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.logger.Info("shutting down OpenGuard")
	return a.server.Stop()
}
