package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/profile-builder/internal/types"
)

func TestConsolidateClients_DedupAcrossSections(t *testing.T) {
	profile := &types.Profile{
		ClientsReferences: types.ClientsReferences{
			Clients: []string{"Acme", "BNP Paribas"},
		},
		Experiences: []types.Experience{
			{Role: "Consultant", Clients: []string{"acme", "Orange"}},
			{Role: "Developer", Clients: []string{"ORANGE", "Acme SAS"}},
		},
	}

	ConsolidateClients(profile)

	assert.Equal(t, []string{"Acme", "BNP Paribas", "Orange"},
		profile.ClientsReferences.Clients)
	// Per-experience lists are rewritten with the canonical display names.
	assert.Equal(t, []string{"Acme", "Orange"}, profile.Experiences[0].Clients)
	assert.Equal(t, []string{"Orange", "Acme"}, profile.Experiences[1].Clients)
}

func TestConsolidateClients_SuffixStripping(t *testing.T) {
	profile := &types.Profile{
		ClientsReferences: types.ClientsReferences{
			Clients: []string{"Capgemini SAS", "capgemini", "Siemens GmbH", "Thales Group"},
		},
	}

	ConsolidateClients(profile)

	assert.Equal(t, []string{"Capgemini SAS", "Siemens GmbH", "Thales Group"},
		profile.ClientsReferences.Clients)
}

func TestConsolidateClients_SuffixOnlyNameSurvives(t *testing.T) {
	// A single-word name equal to a suffix is still a name, not a suffix.
	profile := &types.Profile{
		ClientsReferences: types.ClientsReferences{Clients: []string{"SA", "sa"}},
	}

	ConsolidateClients(profile)
	assert.Equal(t, []string{"SA"}, profile.ClientsReferences.Clients)
}

func TestConsolidateClients_EmptyAndWhitespaceDropped(t *testing.T) {
	profile := &types.Profile{
		ClientsReferences: types.ClientsReferences{Clients: []string{"", "  ", "Nexta"}},
	}

	ConsolidateClients(profile)
	assert.Equal(t, []string{"Nexta"}, profile.ClientsReferences.Clients)
}

func TestConsolidateClients_Deterministic(t *testing.T) {
	build := func() *types.Profile {
		return &types.Profile{
			ClientsReferences: types.ClientsReferences{Clients: []string{"Zeta", "Alpha"}},
			Experiences: []types.Experience{
				{Clients: []string{"alpha", "Beta Corp"}},
			},
		}
	}

	first := build()
	second := build()
	ConsolidateClients(first)
	ConsolidateClients(second)
	assert.Equal(t, first.ClientsReferences.Clients, second.ClientsReferences.Clients)
	assert.Equal(t, []string{"Zeta", "Alpha", "Beta Corp"}, first.ClientsReferences.Clients)
}

func TestFoldClientName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme SAS", "acme"},
		{"Acme  Corp.", "acme"},
		{"Thales Group", "thales"},
		{"Orange", "orange"},
		{"SA", "sa"},
		{"Groupe BPCE", "groupe bpce"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, foldClientName(tt.in), tt.in)
	}
}
