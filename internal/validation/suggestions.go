package validation

import (
	"fmt"

	"github.com/jonathan/profile-builder/internal/types"
)

// MaxSuggestions caps user-facing suggestions to keep feedback terse.
const MaxSuggestions = 5

// DeriveSuggestions flags under-described experiences (between 1 and
// AchievementFloor-1 achievements) on top of a validation result. Each flagged
// experience appends one completeness warning to the result and one suggestion
// recommending a full regeneration pass. Suggestions are capped at
// MaxSuggestions.
func DeriveSuggestions(p *types.Profile, result *types.ValidationResult) []string {
	var suggestions []string

	for _, exp := range p.Experiences {
		n := len(exp.Achievements)
		if n == 0 || n >= AchievementFloor {
			continue
		}
		result.Warnings = append(result.Warnings, types.Warning{
			Severity: types.SeverityWarning,
			Category: "completeness",
			Message:  fmt.Sprintf("The experience %q at %q lists only %d achievement(s).", exp.Role, exp.Employer, n),
		})
		if len(suggestions) < MaxSuggestions {
			suggestions = append(suggestions,
				fmt.Sprintf("The experience %q at %q looks under-described (%d achievement(s)); run a full regeneration to re-extract it in depth.",
					exp.Role, exp.Employer, n))
		}
	}

	return suggestions
}
