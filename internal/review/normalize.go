// Package review implements the analysis pipeline: normalizing raw model
// output into the canonical analysis shape, scoring, merging corrections, and
// orchestrating the upstream calls.
package review

import (
	"github.com/openguard/openguard/internal/core"
)

// unknownFileBucket collects problems the model emitted without a file path.
const unknownFileBucket = "unknown"

// defaultSummary is used when the model output carried no summary.
const defaultSummary = "Analysis complete."

// Normalize converts raw model problems into the canonical Analysis: field
// defaults applied, problems grouped per file in first-seen order, score
// computed. It is a pure function of its inputs.
func Normalize(parsed *core.ModelAnalysis) *core.Analysis {
	problems := make([]core.Problem, 0, len(parsed.Problems))
	for _, raw := range parsed.Problems {
		problems = append(problems, normalizeProblem(raw))
	}

	summary := parsed.Summary
	if summary == "" {
		summary = defaultSummary
	}

	return &core.Analysis{
		Problems:      problems,
		FileAnalyses:  groupByFile(problems),
		Summary:       summary,
		Score:         Score(problems),
		TotalProblems: len(problems),
	}
}

func normalizeProblem(raw core.ModelProblem) core.Problem {
	p := core.Problem{
		File:        raw.File,
		Severity:    raw.Severity,
		Category:    raw.Category,
		Message:     raw.Message,
		Explanation: raw.Explanation,
		Suggestion:  raw.Suggestion,
		Impact:      raw.Impact,
	}

	// Line resolution order: explicit line, else startLine, else 0.
	switch {
	case raw.Line != nil:
		p.Line = *raw.Line
	case raw.StartLine != nil:
		p.Line = *raw.StartLine
	}
	if raw.EndLine != nil {
		p.EndLine = *raw.EndLine
	}

	if p.File == "" {
		p.File = unknownFileBucket
	}
	if p.Severity == "" {
		p.Severity = core.SeverityInfo
	}
	if p.Category == "" {
		p.Category = core.CategoryOther
	}
	return p
}

// groupByFile buckets problems by file path, preserving first-seen file order
// and per-file insertion order.
func groupByFile(problems []core.Problem) []core.FileAnalysis {
	analyses := make([]core.FileAnalysis, 0)
	index := make(map[string]int)

	for _, p := range problems {
		i, ok := index[p.File]
		if !ok {
			i = len(analyses)
			index[p.File] = i
			analyses = append(analyses, core.FileAnalysis{Filename: p.File})
		}
		analyses[i].Problems = append(analyses[i].Problems, p)
	}
	return analyses
}
