// Package postprocess consolidates client references and runs the optional
// budget-gated contextual enrichment pass after a merge.
package postprocess

import (
	"strings"

	"github.com/jonathan/profile-builder/internal/types"
)

// corporateSuffixes are folded away when matching client names so "Acme SAS"
// and "acme" consolidate to one reference.
var corporateSuffixes = []string{
	"sarl", "sas", "sa", "sasu", "eurl",
	"inc", "inc.", "llc", "ltd", "ltd.", "plc",
	"gmbh", "ag", "bv", "corp", "corp.", "co", "co.",
	"group", "groupe",
}

// ConsolidateClients deduplicates client references across all experiences and
// the consolidated list. Pure and deterministic; always runs regardless of
// remaining budget. First-seen casing wins for display.
func ConsolidateClients(profile *types.Profile) {
	seen := make(map[string]string) // folded key -> display name
	var order []string

	add := func(name string) {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return
		}
		key := foldClientName(trimmed)
		if key == "" {
			return
		}
		if _, ok := seen[key]; !ok {
			seen[key] = trimmed
			order = append(order, key)
		}
	}

	for _, name := range profile.ClientsReferences.Clients {
		add(name)
	}
	for i := range profile.Experiences {
		cleaned := make([]string, 0, len(profile.Experiences[i].Clients))
		perExp := make(map[string]bool)
		for _, name := range profile.Experiences[i].Clients {
			add(name)
			key := foldClientName(name)
			if key == "" || perExp[key] {
				continue
			}
			perExp[key] = true
			cleaned = append(cleaned, seen[key])
		}
		profile.Experiences[i].Clients = cleaned
	}

	consolidated := make([]string, 0, len(order))
	for _, key := range order {
		consolidated = append(consolidated, seen[key])
	}
	profile.ClientsReferences.Clients = consolidated
}

// foldClientName produces the matching key: lowercased, whitespace-collapsed,
// corporate suffixes stripped.
func foldClientName(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	for len(fields) > 1 {
		last := fields[len(fields)-1]
		if !isCorporateSuffix(last) {
			break
		}
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

func isCorporateSuffix(word string) bool {
	for _, s := range corporateSuffixes {
		if word == s {
			return true
		}
	}
	return false
}
