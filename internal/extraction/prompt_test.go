package extraction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-builder/internal/types"
)

func TestShouldIncludeSnapshot(t *testing.T) {
	first := types.BatchPosition{Index: 0, Total: 3}
	later := types.BatchPosition{Index: 1, Total: 3}

	tests := []struct {
		name        string
		mode        types.Mode
		pos         types.BatchPosition
		hasExisting bool
		want        bool
	}{
		{"no existing profile", types.ModeCompletion, first, false, false},
		{"completion with existing", types.ModeCompletion, first, true, true},
		{"regeneration first document drops snapshot", types.ModeRegeneration, first, true, false},
		{"regeneration later document keeps snapshot", types.ModeRegeneration, later, true, true},
		{"regeneration first without existing", types.ModeRegeneration, first, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldIncludeSnapshot(tt.mode, tt.pos, tt.hasExisting))
		})
	}
}

func TestShouldIncludeSnapshot_SingleDocumentRegeneration(t *testing.T) {
	// A single-document batch is both first and last; regeneration still
	// starts clean.
	pos := types.BatchPosition{Index: 0, Total: 1}
	assert.True(t, pos.IsFirst())
	assert.True(t, pos.IsLast())
	assert.False(t, ShouldIncludeSnapshot(types.ModeRegeneration, pos, true))
}

func TestSnapshotOf_StripsInternalSections(t *testing.T) {
	p := &types.Profile{
		Experiences: []types.Experience{
			{Role: "Backend developer", Employer: "Initech"},
		},
		RejectedInferred: []string{"works in finance"},
		ExtractionMetadata: []types.ExtractionRecord{
			{DocumentID: "doc-1"},
		},
		QualityMetrics: &types.QualityScore{Overall: 75},
	}

	snapshot, err := SnapshotOf(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(snapshot), &got))
	assert.Contains(t, snapshot, "Backend developer")
	assert.NotContains(t, got, "extraction_metadata")
	assert.NotContains(t, got, "quality_metrics")
	assert.NotContains(t, got, "rejected_inferred")
}

func TestSnapshotOf_NilProfile(t *testing.T) {
	snapshot, err := SnapshotOf(nil)
	require.NoError(t, err)
	assert.Empty(t, snapshot)
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt("document body here", "")

	assert.Contains(t, prompt, "document body here")
	assert.Contains(t, prompt, "experiences")
	assert.Contains(t, prompt, "Return ONLY valid JSON")
	assert.NotContains(t, prompt, "Existing profile:")
}

func TestBuildExtractionPrompt_WithSnapshot(t *testing.T) {
	prompt := BuildExtractionPrompt("document body here", `{"profil":{"name":"Jane"}}`)

	assert.Contains(t, prompt, "Existing profile:")
	assert.Contains(t, prompt, `{"profil":{"name":"Jane"}}`)
	assert.Contains(t, prompt, "document body here")
}

func TestBuildEnrichmentPrompt(t *testing.T) {
	prompt := BuildEnrichmentPrompt(`{"experiences":[]}`)

	assert.Contains(t, prompt, "implicit_responsibilities")
	assert.Contains(t, prompt, "tacit_skills")
	assert.Contains(t, prompt, "work_environment")
	assert.Contains(t, prompt, `{"experiences":[]}`)
}
