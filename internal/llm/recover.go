package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/openguard/openguard/internal/core"
)

// Summaries substituted when a response is damaged beyond repair. The result
// is still valid, just low-information.
const (
	truncatedAnalysisSummary = "Incomplete analysis: the model response was truncated. Please try again."
)

// Patterns for a trailing element left incomplete by token-budget truncation.
// All are anchored to content immediately preceded by a comma and not closed
// before end of string. They can, in rare cases, also strip a complete final
// element that happens to match the truncation shape; that loss is accepted.
var (
	danglingPairRegex   = regexp.MustCompile(`,\s*("[^"]*":\s*)?("[^"]*)?$`)
	danglingObjectRegex = regexp.MustCompile(`,\s*\{[^}]*$`)
	danglingStringRegex = regexp.MustCompile(`,\s*"[^"]*$`)
)

// RecoverAnalysis extracts the analysis object from raw model output,
// repairing truncated JSON when necessary. It fails only when the output
// contains no JSON at all (core.KindMalformedResponse); any other damage
// degrades to an empty problem list with a fixed truncation summary.
func RecoverAnalysis(raw string) (*core.ModelAnalysis, error) {
	candidate, tail, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var direct core.ModelAnalysis
	if err := json.Unmarshal([]byte(candidate), &direct); err == nil {
		return &direct, nil
	}

	var repaired core.ModelAnalysis
	if err := json.Unmarshal([]byte(repairTruncated(tail)), &repaired); err == nil {
		return &repaired, nil
	}

	return &core.ModelAnalysis{Summary: truncatedAnalysisSummary}, nil
}

// RecoverCorrections is the corrections-call counterpart of RecoverAnalysis.
// Unrepairable output degrades to an empty file list, which the merger treats
// as "nothing to change".
func RecoverCorrections(raw string) (*core.ModelCorrections, error) {
	candidate, tail, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var direct core.ModelCorrections
	if err := json.Unmarshal([]byte(candidate), &direct); err == nil {
		return &direct, nil
	}

	var repaired core.ModelCorrections
	if err := json.Unmarshal([]byte(repairTruncated(tail)), &repaired); err == nil {
		return &repaired, nil
	}

	return &core.ModelCorrections{}, nil
}

// extractJSON locates the JSON object within raw text. candidate is the
// substring between the first '{' and the last '}', the right input for a
// direct parse when the model wrapped the object in prose or a code fence.
// tail runs from the first '{' to end of string: a truncated response has no
// final '}', so repair must see everything after the opening brace.
func extractJSON(raw string) (candidate, tail string, err error) {
	trimmed := strings.TrimSpace(raw)

	start := strings.Index(trimmed, "{")
	if start < 0 {
		return "", "", core.NewError(core.KindMalformedResponse, "model response contained no JSON", nil)
	}

	tail = trimmed[start:]
	candidate = tail
	if end := strings.LastIndex(trimmed, "}"); end > start {
		candidate = trimmed[start : end+1]
	}
	return candidate, tail, nil
}

// repairTruncated closes the open structures of a JSON string that was cut
// off mid-stream. It first strips a dangling trailing element, then walks the
// text once, tracking string state (backslash escapes honored) and net-open
// brace/bracket counts, and appends the missing closers. Brackets close
// before braces: an array element is typically the innermost truncated
// structure.
func repairTruncated(s string) string {
	s = danglingPairRegex.ReplaceAllString(s, "")
	s = danglingObjectRegex.ReplaceAllString(s, "")
	s = danglingStringRegex.ReplaceAllString(s, "")

	var openBraces, openBrackets int
	var inString, escaped bool

	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
			// Structural characters inside string literals don't count.
		case r == '{':
			openBraces++
		case r == '}':
			openBraces--
		case r == '[':
			openBrackets++
		case r == ']':
			openBrackets--
		}
	}

	var b strings.Builder
	b.WriteString(s)
	if inString {
		b.WriteByte('"')
	}
	for ; openBrackets > 0; openBrackets-- {
		b.WriteByte(']')
	}
	for ; openBraces > 0; openBraces-- {
		b.WriteByte('}')
	}
	return b.String()
}
