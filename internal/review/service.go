package review

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/openguard/openguard/internal/core"
	"github.com/openguard/openguard/internal/github"
	"github.com/openguard/openguard/internal/llm"
	"github.com/openguard/openguard/internal/report"
)

// Sampling parameters for the two completion calls. Corrections run slightly
// colder: they rewrite existing code and should not improvise.
const (
	analysisTemperature    = 0.3
	correctionsTemperature = 0.2
	completionMaxTokens    = 16384
)

const noFilesSummary = "No files to analyze."

// Result is the full outcome of one analysis pipeline run.
type Result struct {
	PRInfo         *core.PullRequestInfo
	Analysis       *core.Analysis
	Files          []core.SourceFile
	CorrectedFiles []core.CorrectedFile
	// CorrectionsApplied reports whether the corrections call produced a
	// usable file list. When false, CorrectedFiles holds the unmodified
	// originals and no archive should be offered.
	CorrectionsApplied bool
	ReportMarkdown     string
	HowtoMarkdown      string
	ZipBase64          string
}

// Service orchestrates one analysis request: gateway fetches, the two
// completion calls, recovery, normalization, merging, and report formatting.
type Service struct {
	gh        github.Client
	completer llm.Completer
	prompts   *llm.PromptManager
	logger    *slog.Logger
}

// NewService wires the pipeline's collaborators.
func NewService(gh github.Client, completer llm.Completer, prompts *llm.PromptManager, logger *slog.Logger) *Service {
	return &Service{gh: gh, completer: completer, prompts: prompts, logger: logger}
}

// AnalyzePR runs the complete pipeline for one pull request URL. Gateway or
// completion failures during the analysis phase abort the request; failures
// during the corrections phase are downgraded to an uncorrected result.
func (s *Service) AnalyzePR(ctx context.Context, prURL string) (*Result, error) {
	owner, repo, number, err := github.ParsePullRequestURL(prURL)
	if err != nil {
		return nil, err
	}
	s.logger.Info("starting PR analysis", "owner", owner, "repo", repo, "pr", number)

	// The three upstream fetches are independent, issue them concurrently.
	var (
		prInfo  *core.PullRequestInfo
		files   []core.SourceFile
		repoCtx *core.RepoContext
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prInfo, err = s.gh.GetPullRequestInfo(gctx, owner, repo, number)
		return err
	})
	g.Go(func() error {
		var err error
		files, err = s.gh.GetPullRequestFiles(gctx, owner, repo, number)
		return err
	})
	g.Go(func() error {
		var err error
		repoCtx, err = s.gh.GetRepoContext(gctx, owner, repo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.logger.Info("GitHub data retrieved", "pr", number, "files", len(files))

	if len(files) == 0 {
		return s.emptyResult(prInfo), nil
	}

	analysis, err := s.runAnalysis(ctx, repoCtx, files)
	if err != nil {
		return nil, err
	}
	s.logger.Info("analysis complete", "pr", number, "problems", analysis.TotalProblems, "score", analysis.Score)

	corrected, applied := s.runCorrections(ctx, analysis, files)

	result := &Result{
		PRInfo:             prInfo,
		Analysis:           analysis,
		Files:              files,
		CorrectedFiles:     corrected,
		CorrectionsApplied: applied,
		ReportMarkdown:     report.AnalysisMarkdown(prInfo, analysis),
		HowtoMarkdown:      report.HowtoMarkdown(prInfo),
	}

	if applied {
		zipped, err := report.ZipBase64(corrected)
		if err != nil {
			// Packaging failure degrades the same way a corrections
			// failure does: the analysis is still valuable.
			s.logger.Warn("failed to package corrected files", "pr", number, "error", err)
			result.CorrectionsApplied = false
		} else {
			result.ZipBase64 = zipped
		}
	}
	return result, nil
}

// runAnalysis performs the analysis completion call and normalizes its
// output.
func (s *Service) runAnalysis(ctx context.Context, repoCtx *core.RepoContext, files []core.SourceFile) (*core.Analysis, error) {
	system, err := s.prompts.SystemPrompt(llm.AnalysisSystemPrompt)
	if err != nil {
		return nil, fmt.Errorf("rendering analysis system prompt: %w", err)
	}
	user, err := s.prompts.BuildAnalysisPrompt(repoCtx, files)
	if err != nil {
		return nil, fmt.Errorf("rendering analysis prompt: %w", err)
	}

	raw, err := s.completer.Complete(ctx, llm.CompletionRequest{
		Prompt:            user,
		SystemInstruction: system,
		Temperature:       analysisTemperature,
		MaxTokens:         completionMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := llm.RecoverAnalysis(raw)
	if err != nil {
		return nil, err
	}
	return Normalize(parsed), nil
}

// runCorrections performs the best-effort corrections call. Any failure, or
// output recovery cannot salvage into a non-empty file list, falls back to
// the original files.
func (s *Service) runCorrections(ctx context.Context, analysis *core.Analysis, files []core.SourceFile) ([]core.CorrectedFile, bool) {
	system, err := s.prompts.SystemPrompt(llm.CorrectionsSystemPrompt)
	if err != nil {
		s.logger.Warn("corrections generation failed", "error", err)
		return MergeCorrections(nil, files), false
	}
	user, err := s.prompts.BuildCorrectionsPrompt(analysis, files)
	if err != nil {
		s.logger.Warn("corrections generation failed", "error", err)
		return MergeCorrections(nil, files), false
	}

	raw, err := s.completer.Complete(ctx, llm.CompletionRequest{
		Prompt:            user,
		SystemInstruction: system,
		Temperature:       correctionsTemperature,
		MaxTokens:         completionMaxTokens,
	})
	if err != nil {
		s.logger.Warn("corrections generation failed", "error", err)
		return MergeCorrections(nil, files), false
	}

	parsed, err := llm.RecoverCorrections(raw)
	if err != nil || len(parsed.Files) == 0 {
		s.logger.Warn("corrections response unusable", "error", err)
		return MergeCorrections(nil, files), false
	}

	return MergeCorrections(parsed.Files, files), true
}

// emptyResult is the short-circuit for a PR with no analyzable files: a
// perfect score, no report, no archive, but still a usable how-to.
func (s *Service) emptyResult(prInfo *core.PullRequestInfo) *Result {
	return &Result{
		PRInfo: prInfo,
		Analysis: &core.Analysis{
			Problems:     make([]core.Problem, 0),
			FileAnalyses: make([]core.FileAnalysis, 0),
			Summary:      noFilesSummary,
			Score:        100,
		},
		Files:          make([]core.SourceFile, 0),
		CorrectedFiles: make([]core.CorrectedFile, 0),
		HowtoMarkdown:  report.HowtoMarkdown(prInfo),
	}
}
