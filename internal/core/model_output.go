package core

// ModelProblem is one problem exactly as the model emitted it, before any
// defaulting. Every field is optional: the prompt asks for all of them, but
// output from a text generator can never be assumed complete.
type ModelProblem struct {
	File        string `json:"file"`
	Line        *int   `json:"line"`
	StartLine   *int   `json:"startLine"`
	EndLine     *int   `json:"endLine"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Message     string `json:"message"`
	Explanation string `json:"explanation"`
	Suggestion  string `json:"suggestion"`
	Impact      string `json:"impact"`
}

// ModelAnalysis is the top-level shape expected from the analysis call.
type ModelAnalysis struct {
	Problems []ModelProblem `json:"problems"`
	Summary  string         `json:"summary"`
}

// ModelFile is one corrected file as emitted by the corrections call.
type ModelFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// ModelCorrections is the top-level shape expected from the corrections call.
type ModelCorrections struct {
	Files []ModelFile `json:"files"`
}
