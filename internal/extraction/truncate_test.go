package extraction

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
}

func TestTruncate_UnderBudgetUnchanged(t *testing.T) {
	text := strings.Repeat("word ", 100)

	got, stats := Truncate(text)
	assert.Equal(t, text, got)
	assert.False(t, stats.WasTruncated)
	assert.Equal(t, stats.OriginalTokens, stats.FinalTokens)
	assert.Zero(t, stats.TruncatedPercent)
}

func TestTruncate_OverBudgetKeepsHead(t *testing.T) {
	// Well over the token budget.
	text := "HEAD-MARKER " + strings.Repeat("filler ", 20000) + "TAIL-MARKER"

	got, stats := Truncate(text)
	assert.True(t, stats.WasTruncated)
	assert.LessOrEqual(t, EstimateTokens(got), MaxInputTokens)
	assert.Contains(t, got, "HEAD-MARKER")
	assert.NotContains(t, got, "TAIL-MARKER")
	assert.Greater(t, stats.TruncatedPercent, 0.0)
	assert.Less(t, stats.FinalTokens, stats.OriginalTokens)
}

func TestTruncate_NoWordSplit(t *testing.T) {
	text := strings.Repeat("abcdefghij ", 10000)

	got, _ := Truncate(text)
	require.NotEmpty(t, got)
	for _, w := range strings.Fields(got) {
		assert.Equal(t, "abcdefghij", w)
	}
}

func TestTruncate_RespectsRuneBoundary(t *testing.T) {
	// Multi-byte runes with no whitespace force the rune-boundary backoff.
	text := strings.Repeat("é", MaxInputTokens*charsPerToken)

	got, stats := Truncate(text)
	assert.True(t, stats.WasTruncated)
	assert.True(t, strings.HasPrefix(text, got))
	assert.True(t, utf8.ValidString(got))
}

func TestTruncate_Deterministic(t *testing.T) {
	text := strings.Repeat("alpha beta gamma ", 15000)

	first, firstStats := Truncate(text)
	second, secondStats := Truncate(text)
	assert.Equal(t, first, second)
	assert.Equal(t, firstStats, secondStats)
}
