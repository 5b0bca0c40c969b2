package llm

import (
	"github.com/openguard/openguard/internal/core"
)

// Truncation limits applied before rendering, so a single huge file or README
// cannot blow the model's input window.
const (
	maxFileChars    = 50_000
	maxContextChars = 20_000
)

type promptFile struct {
	Filename string
	Content  string
}

type analysisPromptData struct {
	Context string
	Files   []promptFile
}

type correctionsPromptData struct {
	Problems []core.Problem
	Files    []promptFile
}

// BuildAnalysisPrompt renders the analysis user prompt from the repository
// context documents and the PR's changed files.
func (pm *PromptManager) BuildAnalysisPrompt(repoCtx *core.RepoContext, files []core.SourceFile) (string, error) {
	contextBlock := joinContext(repoCtx)
	if contextBlock == "" {
		contextBlock = "No README/CONTRIBUTING provided."
	}

	data := analysisPromptData{
		Context: truncate(contextBlock, maxContextChars),
		Files:   toPromptFiles(files),
	}
	return pm.Render(AnalysisUserPrompt, data)
}

// BuildCorrectionsPrompt renders the corrections user prompt from the
// normalized analysis and the original files.
func (pm *PromptManager) BuildCorrectionsPrompt(analysis *core.Analysis, files []core.SourceFile) (string, error) {
	data := correctionsPromptData{
		Problems: analysis.Problems,
		Files:    toPromptFiles(files),
	}
	return pm.Render(CorrectionsUserPrompt, data)
}

// SystemPrompt returns the rendered system instruction for key.
func (pm *PromptManager) SystemPrompt(key PromptKey) (string, error) {
	return pm.Render(key, nil)
}

func toPromptFiles(files []core.SourceFile) []promptFile {
	out := make([]promptFile, 0, len(files))
	for _, f := range files {
		out = append(out, promptFile{
			Filename: f.Filename,
			Content:  truncate(f.Content, maxFileChars),
		})
	}
	return out
}

func joinContext(repoCtx *core.RepoContext) string {
	switch {
	case repoCtx == nil:
		return ""
	case repoCtx.Readme != "" && repoCtx.Contributing != "":
		return repoCtx.Readme + "\n\n---\n\n" + repoCtx.Contributing
	case repoCtx.Readme != "":
		return repoCtx.Readme
	default:
		return repoCtx.Contributing
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
