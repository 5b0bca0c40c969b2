package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openguard/openguard/internal/core"
)

func newManager(t *testing.T) *PromptManager {
	t.Helper()
	pm, err := NewPromptManager()
	require.NoError(t, err)
	return pm
}

func TestNewPromptManager_LoadsAllPrompts(t *testing.T) {
	pm := newManager(t)

	for _, key := range []PromptKey{
		AnalysisSystemPrompt,
		AnalysisUserPrompt,
		CorrectionsSystemPrompt,
		CorrectionsUserPrompt,
	} {
		out, err := pm.SystemPrompt(key)
		assert.NoError(t, err, "prompt %q should be loaded", key)
		assert.NotEmpty(t, out)
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	pm := newManager(t)

	prompt, err := pm.BuildAnalysisPrompt(
		&core.RepoContext{Readme: "readme text", Contributing: "contributing text"},
		[]core.SourceFile{
			{Filename: "main.go", Content: "package main"},
			{Filename: "util.go", Content: "package util"},
		},
	)
	require.NoError(t, err)

	assert.Contains(t, prompt, "readme text")
	assert.Contains(t, prompt, "contributing text")
	assert.Contains(t, prompt, "## File: main.go")
	assert.Contains(t, prompt, "package main")
	assert.Contains(t, prompt, "## File: util.go")
	assert.Contains(t, prompt, `"summary"`)
}

func TestBuildAnalysisPrompt_EmptyContext(t *testing.T) {
	pm := newManager(t)

	prompt, err := pm.BuildAnalysisPrompt(&core.RepoContext{}, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "No README/CONTRIBUTING provided.")
}

func TestBuildAnalysisPrompt_TruncatesLargeFiles(t *testing.T) {
	pm := newManager(t)

	huge := strings.Repeat("x", maxFileChars+1000)
	prompt, err := pm.BuildAnalysisPrompt(nil, []core.SourceFile{{Filename: "big.go", Content: huge}})
	require.NoError(t, err)

	assert.NotContains(t, prompt, huge)
	assert.Contains(t, prompt, huge[:maxFileChars])
}

func TestBuildCorrectionsPrompt(t *testing.T) {
	pm := newManager(t)

	analysis := &core.Analysis{
		Problems: []core.Problem{
			{File: "main.go", Line: 3, Severity: "error", Message: "nil deref", Suggestion: "check for nil"},
			{File: "util.go", Line: 9, Severity: "info", Message: "style nit"},
		},
	}
	files := []core.SourceFile{{Filename: "main.go", Content: "package main"}}

	prompt, err := pm.BuildCorrectionsPrompt(analysis, files)
	require.NoError(t, err)

	assert.Contains(t, prompt, "main.go:3 [error] nil deref")
	assert.Contains(t, prompt, "check for nil")
	assert.Contains(t, prompt, "Suggestion: N/A", "problems without a suggestion should render N/A")
	assert.Contains(t, prompt, "## main.go")
	assert.Contains(t, prompt, `"files"`)
}
