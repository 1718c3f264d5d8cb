// Package validation computes actionable warnings and metrics from a merged
// profile. Warnings are advisory: they never block a pipeline response.
package validation

import (
	"fmt"

	"github.com/jonathan/profile-builder/internal/scoring"
	"github.com/jonathan/profile-builder/internal/types"
)

// Thresholds behind the warnings.
const (
	// AchievementFloor is the achievement count below which an experience is
	// considered under-described.
	AchievementFloor = 6

	minQuantifiedPercent = 50.0
	pitchMinChars        = 100
	pitchMaxChars        = 600

	// MaxWarnings caps the warning list returned to the caller.
	MaxWarnings = 10
)

// Validate computes metrics and the full warning list for a profile. The
// list is uncapped and includes informational entries; CapWarnings applies
// the caller-facing filter.
func Validate(p *types.Profile) types.ValidationResult {
	metrics := types.ValidationMetrics{
		QuantifiedPercent: round1(scoring.QuantifiedRatio(p) * 100),
		PitchLength:       len(p.Profil.ElevatorPitch),
		ClientCount:       p.ClientCount(),
		PitchKeyNumbers:   scoring.CountKeyNumbers(p.Profil.ElevatorPitch),
	}

	var warnings []types.Warning

	if len(p.Experiences) == 0 {
		warnings = append(warnings, types.Warning{
			Severity: types.SeverityError,
			Category: "completeness",
			Message:  "No professional experience extracted yet; upload a résumé or mission description.",
		})
	}

	switch {
	case metrics.PitchLength == 0:
		warnings = append(warnings, types.Warning{
			Severity: types.SeverityWarning,
			Category: "profil",
			Message:  "The profile has no elevator pitch.",
		})
	case metrics.PitchLength < pitchMinChars:
		warnings = append(warnings, types.Warning{
			Severity: types.SeverityInfo,
			Category: "profil",
			Message:  fmt.Sprintf("The elevator pitch is short (%d characters); aim for at least %d.", metrics.PitchLength, pitchMinChars),
		})
	case metrics.PitchLength > pitchMaxChars:
		warnings = append(warnings, types.Warning{
			Severity: types.SeverityInfo,
			Category: "profil",
			Message:  fmt.Sprintf("The elevator pitch is long (%d characters); keep it under %d.", metrics.PitchLength, pitchMaxChars),
		})
	}

	if metrics.PitchLength > 0 && metrics.PitchKeyNumbers == 0 {
		warnings = append(warnings, types.Warning{
			Severity: types.SeverityInfo,
			Category: "profil",
			Message:  "The elevator pitch carries no key numbers; quantified pitches convert better.",
		})
	}

	if len(p.Experiences) > 0 && metrics.QuantifiedPercent < minQuantifiedPercent {
		warnings = append(warnings, types.Warning{
			Severity: types.SeverityWarning,
			Category: "quantification",
			Message:  fmt.Sprintf("Only %.0f%% of achievements carry numeric impact; aim for at least %.0f%%.", metrics.QuantifiedPercent, minQuantifiedPercent),
		})
	}

	if metrics.ClientCount == 0 && len(p.Experiences) > 0 {
		warnings = append(warnings, types.Warning{
			Severity: types.SeverityInfo,
			Category: "clients",
			Message:  "No client references found; client names strengthen the profile.",
		})
	}

	valid := true
	for _, w := range warnings {
		if w.Severity == types.SeverityError {
			valid = false
			break
		}
	}

	return types.ValidationResult{
		Valid:    valid,
		Warnings: warnings,
		Metrics:  metrics,
	}
}

// CapWarnings applies the caller-facing policy: informational entries are
// dropped and the list is capped at MaxWarnings.
func CapWarnings(warnings []types.Warning) []types.Warning {
	out := make([]types.Warning, 0, len(warnings))
	for _, w := range warnings {
		if w.Severity == types.SeverityInfo {
			continue
		}
		out = append(out, w)
		if len(out) == MaxWarnings {
			break
		}
	}
	return out
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
