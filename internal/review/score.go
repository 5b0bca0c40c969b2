package review

import "github.com/openguard/openguard/internal/core"

// Penalty points per problem severity. Anything that is not an error or a
// warning, including info, costs the base penalty.
const (
	errorPenalty   = 15
	warningPenalty = 8
	basePenalty    = 3
)

// Score computes the 0..100 quality score with a linear penalty model.
// Problem order does not affect the result; no problems means a perfect 100.
func Score(problems []core.Problem) int {
	score := 100
	for _, p := range problems {
		switch p.Severity {
		case core.SeverityError:
			score -= errorPenalty
		case core.SeverityWarning:
			score -= warningPenalty
		default:
			score -= basePenalty
		}
	}
	if score < 0 {
		return 0
	}
	return score
}
