package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-builder/internal/types"
)

func baseProfile() *types.Profile {
	return &types.Profile{
		Profil: types.Identity{
			Name:          "Jane Doe",
			ElevatorPitch: "Backend engineer with 10 years building payment systems.",
		},
		Experiences: []types.Experience{
			{
				Role:         "Backend Engineer",
				Employer:     "Initech",
				StartDate:    "2019-03",
				Description:  "Payment platform work",
				Achievements: []string{"Cut settlement latency by 40%"},
				Skills:       []string{"Go", "PostgreSQL"},
			},
			{
				Role:      "Developer",
				Employer:  "Globex",
				StartDate: "2015-01",
				EndDate:   "2019-02",
			},
		},
		Competences: types.Competences{
			Technical: []string{"Go", "PostgreSQL"},
		},
		Langues:          []types.Langue{{Name: "French", Level: "native"}},
		RejectedInferred: []string{"works in finance"},
	}
}

func TestMerge_EmptyExistingRebases(t *testing.T) {
	fresh := &types.Profile{
		Experiences: []types.Experience{{Role: "Analyst", Employer: "Hooli"}},
		Competences: types.Competences{Technical: []string{"Python"}},
	}

	result := Merge(nil, fresh)
	require.NotNil(t, result.Profile)
	assert.Equal(t, fresh.Experiences, result.Profile.Experiences)
	assert.Equal(t, 2, result.Stats.ItemsAdded)
	assert.Zero(t, result.Stats.ItemsUpdated)
	assert.Zero(t, result.Stats.ItemsKept)
}

func TestMerge_AddsUnmatchedExperience(t *testing.T) {
	existing := baseProfile()
	fresh := &types.Profile{
		Experiences: []types.Experience{
			{Role: "Tech Lead", Employer: "Umbrella", StartDate: "2023-06"},
		},
	}

	result := Merge(existing, fresh)
	assert.Len(t, result.Profile.Experiences, 3)
	assert.Equal(t, 1, result.Stats.ItemsAdded)
	// Both untouched existing experiences count as kept.
	assert.GreaterOrEqual(t, result.Stats.ItemsKept, 2)
}

func TestMerge_MatchedExperienceFreshWins(t *testing.T) {
	existing := baseProfile()
	fresh := &types.Profile{
		Experiences: []types.Experience{
			{
				// Key match is case- and whitespace-insensitive.
				Role:         "backend  engineer",
				Employer:     "INITECH",
				StartDate:    "2019-03",
				EndDate:      "2024-05",
				Achievements: []string{"Cut settlement latency by 40%", "Led team of 5"},
				Skills:       []string{"Kafka"},
			},
		},
	}

	result := Merge(existing, fresh)
	require.Len(t, result.Profile.Experiences, 2)

	got := result.Profile.Experiences[0]
	assert.Equal(t, "2024-05", got.EndDate)
	assert.Equal(t, []string{"Cut settlement latency by 40%", "Led team of 5"}, got.Achievements)
	// Skills are unioned, not replaced.
	assert.Equal(t, []string{"Go", "PostgreSQL", "Kafka"}, got.Skills)
	// Empty fresh description keeps the existing one.
	assert.Equal(t, "Payment platform work", got.Description)

	assert.Equal(t, 1, result.Stats.ItemsUpdated)
	assert.Zero(t, result.Stats.ItemsAdded)
}

func TestMerge_IdenticalFragmentCountsKept(t *testing.T) {
	existing := baseProfile()
	fresh := &types.Profile{
		Experiences: []types.Experience{existing.Experiences[0]},
	}

	result := Merge(existing, fresh)
	assert.Zero(t, result.Stats.ItemsUpdated)
	assert.Zero(t, result.Stats.ItemsAdded)
	// The matched one plus the untouched one.
	assert.GreaterOrEqual(t, result.Stats.ItemsKept, 2)
}

func TestMerge_ScalarConflictRecorded(t *testing.T) {
	existing := baseProfile()
	fresh := &types.Profile{
		Profil: types.Identity{
			ElevatorPitch: "Staff engineer focused on distributed payments.",
		},
	}

	result := Merge(existing, fresh)
	assert.Equal(t, "Staff engineer focused on distributed payments.",
		result.Profile.Profil.ElevatorPitch)

	require.Len(t, result.Conflicts, 1)
	conflict := result.Conflicts[0]
	assert.Equal(t, "profil", conflict.Section)
	assert.Equal(t, "elevator_pitch", conflict.Field)
	assert.Equal(t, existing.Profil.ElevatorPitch, conflict.Existing)
}

func TestMerge_EmptyFreshScalarKeepsExisting(t *testing.T) {
	existing := baseProfile()
	fresh := &types.Profile{}

	result := Merge(existing, fresh)
	assert.Equal(t, "Jane Doe", result.Profile.Profil.Name)
	assert.Empty(t, result.Conflicts)
}

func TestMerge_SkillsUnionPreservesFirstSeenCasing(t *testing.T) {
	existing := baseProfile()
	fresh := &types.Profile{
		Competences: types.Competences{
			Technical: []string{"go", "Kubernetes"},
		},
	}

	result := Merge(existing, fresh)
	assert.Equal(t, []string{"Go", "PostgreSQL", "Kubernetes"},
		result.Profile.Competences.Technical)
	assert.Equal(t, 1, result.Stats.ItemsAdded)
}

func TestMerge_LangueLevelUpdate(t *testing.T) {
	existing := baseProfile()
	fresh := &types.Profile{
		Langues: []types.Langue{
			{Name: "french", Level: "bilingual"},
			{Name: "English", Level: "fluent"},
		},
	}

	result := Merge(existing, fresh)
	require.Len(t, result.Profile.Langues, 2)
	assert.Equal(t, "bilingual", result.Profile.Langues[0].Level)
	assert.Equal(t, "English", result.Profile.Langues[1].Name)
}

func TestMerge_RejectedInferredAlwaysCarried(t *testing.T) {
	existing := baseProfile()
	fresh := &types.Profile{
		RejectedInferred: []string{"should not survive"},
	}

	result := Merge(existing, fresh)
	assert.Equal(t, []string{"works in finance"}, result.Profile.RejectedInferred)
}

func TestRebase_CarriesRejectedInferredOnly(t *testing.T) {
	existing := baseProfile()
	fresh := &types.Profile{
		Experiences: []types.Experience{{Role: "Analyst", Employer: "Hooli"}},
	}

	result := Rebase(existing, fresh)
	assert.Equal(t, []string{"works in finance"}, result.Profile.RejectedInferred)
	assert.Len(t, result.Profile.Experiences, 1)
	assert.Empty(t, result.Profile.Langues, "rebase discards prior sections")
	assert.Equal(t, 1, result.Stats.ItemsAdded)
}

// Merging never loses items: every existing item is either kept or updated,
// and fresh-only items are added.
func TestMerge_Monotonicity(t *testing.T) {
	existing := baseProfile()
	existingItems := len(existing.Experiences) +
		len(existing.Langues) +
		existing.Competences.Count()

	fresh := &types.Profile{
		Experiences: []types.Experience{
			{Role: "Backend Engineer", Employer: "Initech", StartDate: "2019-03", EndDate: "2024-01"},
			{Role: "Intern", Employer: "Stark", StartDate: "2014-06"},
		},
		Competences: types.Competences{Technical: []string{"Go", "Rust"}},
	}

	result := Merge(existing, fresh)
	stats := result.Stats
	assert.GreaterOrEqual(t, stats.ItemsKept+stats.ItemsUpdated+stats.ItemsAdded, existingItems)
	assert.Len(t, result.Profile.Experiences, 3)
	assert.Contains(t, result.Profile.Competences.Technical, "Rust")
}
