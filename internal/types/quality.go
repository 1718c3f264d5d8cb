package types

// QualityScore is the computed completeness/quality score for a profile.
// Recomputed on every run; the latest value is persisted with the profile.
type QualityScore struct {
	Overall             float64 `json:"overall"`
	Completeness        float64 `json:"completeness"`
	PitchQuality        float64 `json:"pitch_quality"`
	QuantificationRatio float64 `json:"quantification_ratio"`
}

// Severity levels for validation warnings.
type Severity string

// Severity constants, ordered from least to most serious.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Warning is a single actionable validation finding.
type Warning struct {
	Severity Severity `json:"severity"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
}

// ValidationMetrics holds the numeric measurements behind the warnings.
type ValidationMetrics struct {
	QuantifiedPercent float64 `json:"quantified_percent"`
	PitchLength       int     `json:"pitch_length"`
	ClientCount       int     `json:"client_count"`
	PitchKeyNumbers   int     `json:"pitch_key_numbers"`
}

// ValidationResult is the ephemeral outcome of validating a merged profile.
// It drives user-facing suggestions and is not persisted.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Warnings []Warning         `json:"warnings,omitempty"`
	Metrics  ValidationMetrics `json:"metrics"`
}
