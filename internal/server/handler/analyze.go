package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/openguard/openguard/internal/cache"
	"github.com/openguard/openguard/internal/core"
	"github.com/openguard/openguard/internal/review"
)

// Analyzer runs the review pipeline for one PR URL.
type Analyzer interface {
	AnalyzePR(ctx context.Context, prURL string) (*review.Result, error)
}

// AnalyzeHandler serves POST /api/analyze-pr.
type AnalyzeHandler struct {
	analyzer Analyzer
	cache    *cache.Store
	ttl      time.Duration
	logger   *slog.Logger
}

// NewAnalyzeHandler creates the analyze endpoint handler. Responses are
// cached per normalized PR URL for ttl.
func NewAnalyzeHandler(analyzer Analyzer, store *cache.Store, ttl time.Duration, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, cache: store, ttl: ttl, logger: logger}
}

type analyzeRequest struct {
	PRURL string `json:"prUrl"`
}

type analysisPayload struct {
	Score         int                 `json:"score"`
	TotalProblems int                 `json:"totalProblems"`
	FileAnalyses  []core.FileAnalysis `json:"fileAnalyses"`
	Summary       string              `json:"summary"`
}

type fileContentPayload struct {
	Original  string  `json:"original"`
	Corrected *string `json:"corrected,omitempty"`
}

type downloadsPayload struct {
	ReportMd      string  `json:"reportMd"`
	HowtoMd       string  `json:"howtoMd"`
	CorrectedCode *string `json:"correctedCode"`
}

type analyzePayload struct {
	PRInfo       *core.PullRequestInfo         `json:"prInfo"`
	Analysis     analysisPayload               `json:"analysis"`
	FileContents map[string]fileContentPayload `json:"fileContents"`
	Downloads    downloadsPayload              `json:"downloads"`
}

// Handle processes one analysis request, short-circuiting on a cache hit.
func (h *AnalyzeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PRURL == "" {
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Error:   "prUrl required (GitHub Pull Request URL)",
		})
		return
	}

	cacheKey := "analyze:" + req.PRURL
	if cached, ok := h.cache.Get(cacheKey); ok {
		h.logger.Debug("analysis served from cache", "key", cacheKey)
		respondData(w, cached)
		return
	}

	result, err := h.analyzer.AnalyzePR(r.Context(), req.PRURL)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	payload := buildAnalyzePayload(result)
	h.cache.Put(cacheKey, payload, h.ttl)
	respondData(w, payload)
}

func buildAnalyzePayload(result *review.Result) analyzePayload {
	fileContents := make(map[string]fileContentPayload, len(result.Files))
	for _, f := range result.Files {
		fileContents[f.Filename] = fileContentPayload{Original: f.Content}
	}
	if result.CorrectionsApplied {
		for _, f := range result.CorrectedFiles {
			entry := fileContents[f.Filename]
			corrected := f.Content
			entry.Corrected = &corrected
			fileContents[f.Filename] = entry
		}
	}

	downloads := downloadsPayload{
		ReportMd: base64.StdEncoding.EncodeToString([]byte(result.ReportMarkdown)),
		HowtoMd:  base64.StdEncoding.EncodeToString([]byte(result.HowtoMarkdown)),
	}
	if result.CorrectionsApplied && result.ZipBase64 != "" {
		zip := result.ZipBase64
		downloads.CorrectedCode = &zip
	}

	return analyzePayload{
		PRInfo: result.PRInfo,
		Analysis: analysisPayload{
			Score:         result.Analysis.Score,
			TotalProblems: result.Analysis.TotalProblems,
			FileAnalyses:  result.Analysis.FileAnalyses,
			Summary:       result.Analysis.Summary,
		},
		FileContents: fileContents,
		Downloads:    downloads,
	}
}
