package review

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openguard/openguard/internal/core"
	"github.com/openguard/openguard/internal/llm"
)

type fakeGateway struct {
	prInfo  *core.PullRequestInfo
	files   []core.SourceFile
	repoCtx *core.RepoContext
	err     error
}

func (f *fakeGateway) GetPullRequestInfo(context.Context, string, string, int) (*core.PullRequestInfo, error) {
	return f.prInfo, f.err
}

func (f *fakeGateway) GetPullRequestFiles(context.Context, string, string, int) ([]core.SourceFile, error) {
	return f.files, f.err
}

func (f *fakeGateway) GetRepoContext(context.Context, string, string) (*core.RepoContext, error) {
	return f.repoCtx, f.err
}

func (f *fakeGateway) ListOpenPullRequests(context.Context, string, string) ([]core.PullRequestSummary, error) {
	return nil, f.err
}

// fakeCompleter answers the analysis call first, then the corrections call.
type fakeCompleter struct {
	analysisText    string
	analysisErr     error
	correctionsText string
	correctionsErr  error
	calls           int
}

func (f *fakeCompleter) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	f.calls++
	if f.calls == 1 {
		return f.analysisText, f.analysisErr
	}
	return f.correctionsText, f.correctionsErr
}

func newTestService(t *testing.T, gh *fakeGateway, completer *fakeCompleter) *Service {
	t.Helper()
	prompts, err := llm.NewPromptManager()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(gh, completer, prompts, logger)
}

func testGateway() *fakeGateway {
	return &fakeGateway{
		prInfo: &core.PullRequestInfo{Number: 5, Title: "Fix bug", Author: "octocat", Repo: "octocat/hello-world"},
		files: []core.SourceFile{
			{Filename: "a.go", Content: "package a"},
			{Filename: "b.go", Content: "package b"},
		},
		repoCtx: &core.RepoContext{Readme: "readme"},
	}
}

const testPRURL = "https://github.com/octocat/hello-world/pull/5"

func TestAnalyzePR_HappyPath(t *testing.T) {
	completer := &fakeCompleter{
		analysisText:    `{"problems":[{"file":"a.go","line":1,"severity":"error","message":"broken"}],"summary":"one problem"}`,
		correctionsText: `{"files":[{"filename":"a.go","content":"package a // fixed"}]}`,
	}
	svc := newTestService(t, testGateway(), completer)

	result, err := svc.AnalyzePR(context.Background(), testPRURL)
	require.NoError(t, err)

	assert.Equal(t, 5, result.PRInfo.Number)
	assert.Equal(t, 85, result.Analysis.Score)
	assert.Equal(t, 1, result.Analysis.TotalProblems)
	assert.Equal(t, "one problem", result.Analysis.Summary)

	require.True(t, result.CorrectionsApplied)
	require.Len(t, result.CorrectedFiles, 2)
	assert.Equal(t, "package a // fixed", result.CorrectedFiles[0].Content)
	assert.Equal(t, "package b", result.CorrectedFiles[1].Content, "unaddressed files keep original content")

	assert.NotEmpty(t, result.ReportMarkdown)
	assert.NotEmpty(t, result.HowtoMarkdown)
	assert.NotEmpty(t, result.ZipBase64)
	assert.Equal(t, 2, completer.calls)
}

func TestAnalyzePR_InvalidURL(t *testing.T) {
	svc := newTestService(t, testGateway(), &fakeCompleter{})

	_, err := svc.AnalyzePR(context.Background(), "https://example.com/not-a-pr")
	require.Error(t, err)
	assert.Equal(t, core.KindInvalidReference, core.KindOf(err))
}

func TestAnalyzePR_NoFiles(t *testing.T) {
	gh := testGateway()
	gh.files = nil
	completer := &fakeCompleter{}
	svc := newTestService(t, gh, completer)

	result, err := svc.AnalyzePR(context.Background(), testPRURL)
	require.NoError(t, err)

	assert.Equal(t, 100, result.Analysis.Score)
	assert.Equal(t, 0, result.Analysis.TotalProblems)
	assert.Equal(t, "No files to analyze.", result.Analysis.Summary)
	assert.Empty(t, result.ReportMarkdown)
	assert.NotEmpty(t, result.HowtoMarkdown)
	assert.Empty(t, result.ZipBase64)
	assert.False(t, result.CorrectionsApplied)
	assert.Zero(t, completer.calls, "no completion calls for an empty PR")
}

func TestAnalyzePR_GatewayFailureAborts(t *testing.T) {
	gh := testGateway()
	gh.err = core.NewError(core.KindNotFound, "not found: PR #5", nil)
	svc := newTestService(t, gh, &fakeCompleter{})

	_, err := svc.AnalyzePR(context.Background(), testPRURL)
	require.Error(t, err)
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}

func TestAnalyzePR_AnalysisFailureAborts(t *testing.T) {
	completer := &fakeCompleter{
		analysisErr: core.NewError(core.KindServiceUnavailable, "backend down", nil),
	}
	svc := newTestService(t, testGateway(), completer)

	_, err := svc.AnalyzePR(context.Background(), testPRURL)
	require.Error(t, err)
	assert.Equal(t, core.KindServiceUnavailable, core.KindOf(err))
}

func TestAnalyzePR_NoJSONAnalysisAborts(t *testing.T) {
	completer := &fakeCompleter{analysisText: "I cannot review this code."}
	svc := newTestService(t, testGateway(), completer)

	_, err := svc.AnalyzePR(context.Background(), testPRURL)
	require.Error(t, err)
	assert.Equal(t, core.KindMalformedResponse, core.KindOf(err))
}

func TestAnalyzePR_TruncatedAnalysisRecovered(t *testing.T) {
	completer := &fakeCompleter{
		analysisText:    `{"problems":[{"file":"a.go","severity":"warning","message":"w"}],"summary":"ok"`,
		correctionsText: `{"files":[]}`,
	}
	svc := newTestService(t, testGateway(), completer)

	result, err := svc.AnalyzePR(context.Background(), testPRURL)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Analysis.TotalProblems)
	assert.Equal(t, "ok", result.Analysis.Summary)
}

func TestAnalyzePR_CorrectionsFailureDowngraded(t *testing.T) {
	completer := &fakeCompleter{
		analysisText:   `{"problems":[],"summary":"clean"}`,
		correctionsErr: errors.New("timeout"),
	}
	svc := newTestService(t, testGateway(), completer)

	result, err := svc.AnalyzePR(context.Background(), testPRURL)
	require.NoError(t, err, "corrections failure must not fail the request")

	assert.False(t, result.CorrectionsApplied)
	assert.Empty(t, result.ZipBase64)
	require.Len(t, result.CorrectedFiles, 2)
	assert.Equal(t, "package a", result.CorrectedFiles[0].Content)
}

func TestAnalyzePR_EmptyCorrectionsListDowngraded(t *testing.T) {
	completer := &fakeCompleter{
		analysisText:    `{"problems":[],"summary":"clean"}`,
		correctionsText: `{"files":[]}`,
	}
	svc := newTestService(t, testGateway(), completer)

	result, err := svc.AnalyzePR(context.Background(), testPRURL)
	require.NoError(t, err)
	assert.False(t, result.CorrectionsApplied)
	assert.Empty(t, result.ZipBase64)
}
