package llm

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// PromptKey identifies one of the embedded prompt templates.
type PromptKey string

const (
	AnalysisSystemPrompt    PromptKey = "analysis_system"
	AnalysisUserPrompt      PromptKey = "analysis_user"
	CorrectionsSystemPrompt PromptKey = "corrections_system"
	CorrectionsUserPrompt   PromptKey = "corrections_user"
)

// PromptManager loads and renders the prompt templates embedded in the
// binary. Files are named "<key>.prompt" under prompts/.
type PromptManager struct {
	prompts map[PromptKey]*template.Template
}

// NewPromptManager parses all embedded prompt files.
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{prompts: make(map[PromptKey]*template.Template)}

	files, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompts directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		fileName := file.Name()
		key := PromptKey(strings.TrimSuffix(fileName, filepath.Ext(fileName)))

		content, err := promptFiles.ReadFile("prompts/" + fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded prompt file %s: %w", fileName, err)
		}

		tmpl, err := template.New(string(key)).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("could not parse prompt template %s: %w", fileName, err)
		}
		pm.prompts[key] = tmpl
	}

	return pm, nil
}

// Render executes the template for key against data.
func (pm *PromptManager) Render(key PromptKey, data any) (string, error) {
	tmpl, ok := pm.prompts[key]
	if !ok {
		return "", fmt.Errorf("no prompt found for key %q", key)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %q: %w", key, err)
	}
	return buf.String(), nil
}
