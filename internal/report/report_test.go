package report

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openguard/openguard/internal/core"
)

var testPRInfo = &core.PullRequestInfo{
	Number: 42,
	Title:  "Add retry logic",
	Author: "octocat",
	Repo:   "octocat/hello-world",
}

func TestAnalysisMarkdown(t *testing.T) {
	analysis := &core.Analysis{
		Score:         53,
		TotalProblems: 2,
		FileAnalyses: []core.FileAnalysis{
			{
				Filename: "main.go",
				Problems: []core.Problem{
					{
						Line:        12,
						Severity:    "error",
						Category:    "quality",
						Message:     "unchecked error",
						Explanation: "the error return is discarded",
						Suggestion:  "if err != nil { return err }",
						Impact:      "silent failures",
					},
					{
						Line:     30,
						Severity: "info",
						Category: "conventions",
						Message:  "missing doc comment",
					},
				},
			},
		},
	}

	md := AnalysisMarkdown(testPRInfo, analysis)

	assert.Contains(t, md, "# Analysis report - PR #42 - Add retry logic")
	assert.Contains(t, md, "Repository: octocat/hello-world | Author: octocat")
	assert.Contains(t, md, "**Quality score:** 53/100")
	assert.Contains(t, md, "**Total problems:** 2")
	assert.Contains(t, md, "### main.go")
	assert.Contains(t, md, "- **Line 12** [error] quality: unchecked error")
	assert.Contains(t, md, "if err != nil { return err }")
	assert.Contains(t, md, "Impact: N/A", "missing impact should render N/A")
}

func TestHowtoMarkdown(t *testing.T) {
	md := HowtoMarkdown(testPRInfo)

	assert.Contains(t, md, "# How to apply the corrections - PR #42")
	assert.Contains(t, md, "Repository: octocat/hello-world")
	assert.Contains(t, md, "PR: #42 - Add retry logic")
}

func TestZipBase64_RoundTrip(t *testing.T) {
	files := []core.CorrectedFile{
		{Filename: "src/main.go", Content: "package main\n"},
		{Filename: "README.md", Content: "# hello\n"},
	}

	encoded, err := ZipBase64(files)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	require.Len(t, reader.File, 2)

	contents := make(map[string]string)
	for _, f := range reader.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		contents[f.Name] = string(data)
	}

	assert.Equal(t, "package main\n", contents["src/main.go"])
	assert.Equal(t, "# hello\n", contents["README.md"])
}

func TestZipBase64_EmptyFileSet(t *testing.T) {
	encoded, err := ZipBase64(nil)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	assert.Empty(t, reader.File)
}
