package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openguard/openguard/internal/cache"
	"github.com/openguard/openguard/internal/core"
	"github.com/openguard/openguard/internal/github"
)

// placeholderAverageScore is reported for repositories with open PRs until
// real per-PR analyses are aggregated.
const placeholderAverageScore = 70

// RepoStatsHandler serves GET /api/repo-stats/{owner}/{repo}.
type RepoStatsHandler struct {
	gh     github.Client
	cache  *cache.Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewRepoStatsHandler creates the repository statistics endpoint handler.
func NewRepoStatsHandler(gh github.Client, store *cache.Store, ttl time.Duration, logger *slog.Logger) *RepoStatsHandler {
	return &RepoStatsHandler{gh: gh, cache: store, ttl: ttl, logger: logger}
}

type pullRequestPayload struct {
	core.PullRequestSummary
	Score        *int `json:"score"`
	ProblemCount *int `json:"problemCount"`
}

type repoStatsPayload struct {
	Repo         string               `json:"repo"`
	PullRequests []pullRequestPayload `json:"pullRequests"`
	Stats        statsPayload         `json:"stats"`
}

type statsPayload struct {
	TotalPRs            int            `json:"totalPRs"`
	AverageScore        int            `json:"averageScore"`
	ProblemDistribution map[string]int `json:"problemDistribution"`
}

// Handle lists a repository's open PRs with placeholder aggregate stats:
// per-PR scores stay null until an analysis has been run for them.
func (h *RepoStatsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")

	cacheKey := fmt.Sprintf("repo:%s/%s", owner, repo)
	if cached, ok := h.cache.Get(cacheKey); ok {
		h.logger.Debug("repo stats served from cache", "key", cacheKey)
		respondData(w, cached)
		return
	}

	prs, err := h.gh.ListOpenPullRequests(r.Context(), owner, repo)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	pullRequests := make([]pullRequestPayload, 0, len(prs))
	for _, pr := range prs {
		pullRequests = append(pullRequests, pullRequestPayload{PullRequestSummary: pr})
	}

	distribution := make(map[string]int, len(core.Categories))
	for _, category := range core.Categories {
		distribution[category] = 0
	}

	averageScore := 0
	if len(prs) > 0 {
		averageScore = placeholderAverageScore
	}

	payload := repoStatsPayload{
		Repo:         fmt.Sprintf("%s/%s", owner, repo),
		PullRequests: pullRequests,
		Stats: statsPayload{
			TotalPRs:            len(prs),
			AverageScore:        averageScore,
			ProblemDistribution: distribution,
		},
	}

	h.cache.Put(cacheKey, payload, h.ttl)
	respondData(w, payload)
}
