// Package scoring computes the completeness/quality score for a profile.
package scoring

import (
	"unicode"

	"github.com/jonathan/profile-builder/internal/types"
)

// HasQuantifiedImpact reports whether achievement text carries numeric impact
// (a digit or percent sign).
func HasQuantifiedImpact(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) || r == '%' {
			return true
		}
	}
	return false
}

// CountKeyNumbers counts distinct number groups in text ("grew revenue 40% to
// 2M" counts two).
func CountKeyNumbers(text string) int {
	count := 0
	inNumber := false
	for _, r := range text {
		if unicode.IsDigit(r) {
			if !inNumber {
				count++
				inNumber = true
			}
		} else {
			inNumber = false
		}
	}
	return count
}

// QuantifiedCount counts achievements across all experiences that carry
// numeric impact.
func QuantifiedCount(p *types.Profile) int {
	count := 0
	for _, exp := range p.Experiences {
		for _, a := range exp.Achievements {
			if HasQuantifiedImpact(a) {
				count++
			}
		}
	}
	return count
}

// QuantifiedRatio returns the fraction of achievements across all experiences
// that carry numeric impact. Zero achievements yields zero.
func QuantifiedRatio(p *types.Profile) float64 {
	total := 0
	quantified := 0
	for _, exp := range p.Experiences {
		for _, a := range exp.Achievements {
			total++
			if HasQuantifiedImpact(a) {
				quantified++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(quantified) / float64(total)
}
