// Package report renders the downloadable artifacts of an analysis: the
// markdown report, the correction how-to, and the ZIP archive of corrected
// files.
package report

import (
	"fmt"
	"strings"

	"github.com/openguard/openguard/internal/core"
)

// AnalysisMarkdown renders the ANALYSIS.md report for one review pass.
func AnalysisMarkdown(prInfo *core.PullRequestInfo, analysis *core.Analysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Analysis report - PR #%d - %s\n", prInfo.Number, prInfo.Title)
	fmt.Fprintf(&b, "Repository: %s | Author: %s\n\n", prInfo.Repo, prInfo.Author)
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- **Quality score:** %d/100\n", analysis.Score)
	fmt.Fprintf(&b, "- **Total problems:** %d\n\n", analysis.TotalProblems)
	b.WriteString("## Details per file\n")

	for _, fa := range analysis.FileAnalyses {
		fmt.Fprintf(&b, "### %s\n", fa.Filename)
		for _, p := range fa.Problems {
			fmt.Fprintf(&b, "- **Line %d** [%s] %s: %s\n", p.Line, p.Severity, p.Category, p.Message)
			fmt.Fprintf(&b, "  - Explanation: %s\n", p.Explanation)
			if p.Suggestion != "" {
				fmt.Fprintf(&b, "  - Suggested fix:\n```\n%s\n```\n", p.Suggestion)
			}
			impact := p.Impact
			if impact == "" {
				impact = "N/A"
			}
			fmt.Fprintf(&b, "  - Impact: %s\n\n", impact)
		}
	}
	return b.String()
}

// HowtoMarkdown renders the HOWTO.md guide for applying the generated
// corrections.
func HowtoMarkdown(prInfo *core.PullRequestInfo) string {
	return fmt.Sprintf(`# How to apply the corrections - PR #%d

## Steps

1. **Download the zip** of corrected files from OpenGuard.
2. **Extract** the archive into a temporary directory.
3. **Compare** with your local branch (e.g. `+"`diff -r corrected/ ./src`"+`).
4. **Apply** the corrections selectively (file by file or block by block).
5. **Run the project's tests** locally (`+"`go test ./...`"+`, `+"`npm test`"+`, etc.).
6. **Commit** and push the changes to your branch.
7. **Update** the Pull Request on GitHub.

Repository: %s
PR: #%d - %s
`, prInfo.Number, prInfo.Repo, prInfo.Number, prInfo.Title)
}
