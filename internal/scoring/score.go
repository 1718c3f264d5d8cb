package scoring

import (
	"github.com/jonathan/profile-builder/internal/types"
)

// Component weights. The three components sum to 1.0 and each is scored 0-100,
// so the overall score lands on a 0-100 scale.
const (
	completenessWeight   = 0.5
	pitchQualityWeight   = 0.2
	quantificationWeight = 0.3
)

// Fullness caps: section counts at or above the cap earn full credit for that
// section. min(count/cap, 1) keeps every component monotone non-decreasing as
// items are added.
const (
	experienceCap    = 3
	skillCap         = 8
	certificationCap = 2
	clientCap        = 3
)

// quantifiedCap is the number of quantified achievements that earns full
// credit for the quantification component. The overall score counts
// quantified achievements rather than their ratio so that adding an
// experience without numeric impact never lowers the score; the ratio is
// still reported in the breakdown.
const quantifiedCap = 4

// Elevator pitch length window considered strong.
const (
	pitchMinChars = 100
	pitchMaxChars = 600
)

// Score computes the quality score for a profile. Deterministic; the latest
// value is persisted with the profile by the orchestrator.
func Score(p *types.Profile) types.QualityScore {
	completeness := completenessScore(p)
	pitch := pitchQualityScore(p)
	quantification := 100 * capped(QuantifiedCount(p), quantifiedCap)

	overall := completenessWeight*completeness +
		pitchQualityWeight*pitch +
		quantificationWeight*quantification

	return types.QualityScore{
		Overall:             round1(overall),
		Completeness:        round1(completeness),
		PitchQuality:        round1(pitch),
		QuantificationRatio: round1(QuantifiedRatio(p) * 100),
	}
}

// completenessScore rewards presence and depth of the core sections, 0-100.
func completenessScore(p *types.Profile) float64 {
	score := 0.0

	// identity: name and pitch carry the section
	if p.Profil.Name != "" {
		score += 10
	}
	if p.Profil.ElevatorPitch != "" {
		score += 10
	}

	score += 30 * capped(len(p.Experiences), experienceCap)
	score += 15 * capped(p.Competences.Count(), skillCap)
	if len(p.Formations) > 0 {
		score += 10
	}
	if len(p.Langues) > 0 {
		score += 5
	}
	score += 10 * capped(len(p.Certifications), certificationCap)
	score += 10 * capped(p.ClientCount(), clientCap)

	return score
}

// pitchQualityScore scores the elevator pitch: 0-100 from length window and
// presence of key numbers.
func pitchQualityScore(p *types.Profile) float64 {
	pitch := p.Profil.ElevatorPitch
	if pitch == "" {
		return 0
	}

	score := 40.0 // having one at all
	if len(pitch) >= pitchMinChars && len(pitch) <= pitchMaxChars {
		score += 30
	}
	switch n := CountKeyNumbers(pitch); {
	case n >= 2:
		score += 30
	case n == 1:
		score += 20
	}
	return score
}

func capped(count, limit int) float64 {
	if count >= limit {
		return 1
	}
	return float64(count) / float64(limit)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
