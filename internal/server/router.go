package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openguard/openguard/internal/server/handler"
)

// NewRouter creates and configures the HTTP router with middleware and API
// routes.
func NewRouter(analyze *handler.AnalyzeHandler, repoStats *handler.RepoStatsHandler) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack. The analyze endpoint waits on two LLM
	// round-trips, so the request timeout is generous.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze-pr", analyze.Handle)
		r.Get("/repo-stats/{owner}/{repo}", repoStats.Handle)
	})

	return r
}
