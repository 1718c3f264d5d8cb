package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/profile-builder/internal/types"
)

func fullProfile() *types.Profile {
	pitch := "Seasoned platform engineer who led 3 migrations and cut infrastructure spend by 35% " +
		"across two business units, now focused on developer productivity."
	return &types.Profile{
		Profil: types.Identity{
			Name:          "Jane Doe",
			ElevatorPitch: pitch,
		},
		Experiences: []types.Experience{
			{Role: "Lead", Employer: "A", Achievements: []string{"Cut costs by 35%", "Migrated 3 data centers"}},
			{Role: "Engineer", Employer: "B", Achievements: []string{"Shipped billing rewrite"}},
			{Role: "Engineer", Employer: "C", Achievements: []string{"Handled 2M requests/day"}},
		},
		Competences: types.Competences{
			Technical: []string{"Go", "Kubernetes", "Terraform", "PostgreSQL"},
			Tools:     []string{"Grafana", "ArgoCD"},
			Methods:   []string{"SRE", "Scrum"},
		},
		Formations:     []types.Formation{{Degree: "MSc Computer Science"}},
		Langues:        []types.Langue{{Name: "French"}, {Name: "English"}},
		Certifications: []types.Certification{{Name: "CKA"}, {Name: "AWS SAA"}},
		ClientsReferences: types.ClientsReferences{
			Clients: []string{"Acme", "Globex", "Initech"},
		},
	}
}

func TestScore_FullProfile(t *testing.T) {
	score := Score(fullProfile())

	assert.Equal(t, 100.0, score.Completeness)
	assert.Equal(t, 100.0, score.PitchQuality)
	assert.Equal(t, 75.0, score.QuantificationRatio)
	// 0.5*100 + 0.2*100 + 0.3*75
	assert.Equal(t, 92.5, score.Overall)
}

func TestScore_EmptyProfile(t *testing.T) {
	score := Score(&types.Profile{})

	assert.Zero(t, score.Overall)
	assert.Zero(t, score.Completeness)
	assert.Zero(t, score.PitchQuality)
	assert.Zero(t, score.QuantificationRatio)
}

func TestScore_PartialCompleteness(t *testing.T) {
	p := &types.Profile{
		Profil:      types.Identity{Name: "Jane Doe"},
		Experiences: []types.Experience{{Role: "Dev", Employer: "A"}},
	}

	score := Score(p)
	// 10 (name) + 30*(1/3) (one of three capped experiences)
	assert.Equal(t, 20.0, score.Completeness)
}

func TestScore_MonotoneInExperiences(t *testing.T) {
	p := &types.Profile{Profil: types.Identity{Name: "Jane Doe"}}
	prev := Score(p).Overall
	for i := 0; i < 5; i++ {
		p.Experiences = append(p.Experiences, types.Experience{
			Role:         "Dev",
			Employer:     strings.Repeat("x", i+1),
			Achievements: []string{"Improved the release process", "Mentored new hires"},
		})
		got := Score(p).Overall
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestScore_UnquantifiedExperienceNeverLowersScore(t *testing.T) {
	p := fullProfile()
	before := Score(p).Overall

	p.Experiences = append(p.Experiences, types.Experience{
		Role:     "Consultant",
		Employer: "Hooli",
		Achievements: []string{
			"Ran discovery workshops",
			"Aligned stakeholders across teams",
			"Introduced a documentation culture",
			"Coached junior consultants",
		},
	})
	after := Score(p).Overall

	assert.GreaterOrEqual(t, after, before)
}

func TestPitchQualityScore(t *testing.T) {
	longPitch := strings.Repeat("word ", 30) // ~150 chars, no numbers

	tests := []struct {
		name  string
		pitch string
		want  float64
	}{
		{"missing", "", 0},
		{"short without numbers", "Engineer.", 40},
		{"good length without numbers", longPitch, 70},
		{"good length one number", longPitch + "over 10 years", 90},
		{"good length two numbers", longPitch + "10 years, 3 sectors", 100},
		{"short with two numbers", "10 years, 3 sectors", 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &types.Profile{Profil: types.Identity{ElevatorPitch: tt.pitch}}
			assert.Equal(t, tt.want, pitchQualityScore(p))
		})
	}
}

func TestHasQuantifiedImpact(t *testing.T) {
	assert.True(t, HasQuantifiedImpact("cut latency by 40%"))
	assert.True(t, HasQuantifiedImpact("managed 12 people"))
	assert.True(t, HasQuantifiedImpact("improved margin by a few %"))
	assert.False(t, HasQuantifiedImpact("improved the team's process"))
	assert.False(t, HasQuantifiedImpact(""))
}

func TestCountKeyNumbers(t *testing.T) {
	assert.Equal(t, 0, CountKeyNumbers("no numbers here"))
	assert.Equal(t, 1, CountKeyNumbers("grew by 40%"))
	assert.Equal(t, 2, CountKeyNumbers("grew revenue 40% to 2M"))
	assert.Equal(t, 1, CountKeyNumbers("error 404"))
}

func TestQuantifiedRatio(t *testing.T) {
	p := &types.Profile{
		Experiences: []types.Experience{
			{Achievements: []string{"Cut costs by 30%", "Improved onboarding"}},
			{Achievements: []string{"Led 4 projects", "Mentored juniors"}},
		},
	}
	assert.InDelta(t, 0.5, QuantifiedRatio(p), 1e-9)
	assert.Zero(t, QuantifiedRatio(&types.Profile{}))
	assert.Equal(t, 2, QuantifiedCount(p))
	assert.Zero(t, QuantifiedCount(&types.Profile{}))
}
