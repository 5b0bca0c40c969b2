// Package core defines the essential data structures shared across the
// application: parsed review problems, per-file groupings, the aggregate
// analysis result, and the error taxonomy surfaced to API clients.
package core

// Severity levels for a detected problem, from most to least serious.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Problem categories the analysis prompt asks the model to use.
const (
	CategoryTypeSafety  = "type-safety"
	CategoryConventions = "conventions"
	CategoryQuality     = "quality"
	CategorySecurity    = "security"
	CategoryPerformance = "performance"
	CategoryOther       = "other"
)

// Categories lists all known problem categories in presentation order.
var Categories = []string{
	CategoryTypeSafety,
	CategoryConventions,
	CategoryQuality,
	CategorySecurity,
	CategoryPerformance,
	CategoryOther,
}

// Problem is one detected issue in a reviewed file. Instances are built by
// the normalizer from raw model output with all defaults already applied,
// and are immutable afterwards.
type Problem struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	EndLine     int    `json:"endLine,omitempty"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Message     string `json:"message"`
	Explanation string `json:"explanation"`
	Suggestion  string `json:"suggestion"`
	Impact      string `json:"impact"`
}

// FileAnalysis groups the problems found in a single file, in the order the
// model emitted them.
type FileAnalysis struct {
	Filename string    `json:"filename"`
	Problems []Problem `json:"problems"`
}

// Analysis is the aggregate result of one review pass. FileAnalyses and the
// counters are derived from Problems, which is the source of truth.
type Analysis struct {
	Problems      []Problem      `json:"problems"`
	FileAnalyses  []FileAnalysis `json:"fileAnalyses"`
	Summary       string         `json:"summary"`
	Score         int            `json:"score"`
	TotalProblems int            `json:"totalProblems"`
}

// SourceFile is a changed file in the pull request at its head ref. Patch
// carries the unified-diff fragment when GitHub provides one; it is
// informational only.
type SourceFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Patch    string `json:"patch,omitempty"`
}

// CorrectedFile is the post-merge content for one source file. Files the
// model did not address keep their original content.
type CorrectedFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// PullRequestInfo identifies the reviewed pull request.
type PullRequestInfo struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Repo   string `json:"repo"`
}

// PullRequestSummary is one entry in a repository's open PR listing.
type PullRequestSummary struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

// RepoContext carries the repository-level documents given to the model as
// review context. Either field may be empty when the document is missing or
// unreadable.
type RepoContext struct {
	Readme       string
	Contributing string
}
