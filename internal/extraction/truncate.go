package extraction

import (
	"strings"
	"unicode/utf8"
)

// Token budget for the model's input window, with the chars-per-token
// heuristic used to estimate counts without a tokenizer dependency.
const (
	MaxInputTokens = 12000
	charsPerToken  = 4
)

// TruncationStats reports whether and how much text was dropped.
type TruncationStats struct {
	WasTruncated     bool    `json:"was_truncated"`
	OriginalTokens   int     `json:"original_tokens"`
	FinalTokens      int     `json:"final_tokens"`
	TruncatedPercent float64 `json:"truncated_percent"`
}

// EstimateTokens estimates the token count of text.
func EstimateTokens(text string) int {
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// Truncate bounds text to the model input budget. The head of the document is
// kept: resumes and certificates front-load identity and role information.
// Deterministic for identical input.
func Truncate(text string) (string, TruncationStats) {
	original := EstimateTokens(text)
	stats := TruncationStats{
		OriginalTokens: original,
		FinalTokens:    original,
	}

	if original <= MaxInputTokens {
		return text, stats
	}

	limit := MaxInputTokens * charsPerToken
	cut := limit
	// back off to a rune boundary
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	// then to the last whitespace so no word is split mid-way
	if idx := strings.LastIndexFunc(text[:cut], func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t'
	}); idx > 0 {
		cut = idx
	}

	truncated := strings.TrimRight(text[:cut], " \n\t")
	stats.WasTruncated = true
	stats.FinalTokens = EstimateTokens(truncated)
	stats.TruncatedPercent = 100 * float64(original-stats.FinalTokens) / float64(original)
	return truncated, stats
}
