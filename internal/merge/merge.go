// Package merge combines freshly extracted profile fragments with the
// accumulated profile, producing a changelog and conflict list.
//
// The policy is fresh-wins: the model is always shown prior context, so a
// divergent fresh value signals the model chose to revise, not that it lacked
// information. A populated section is never dropped in favor of an empty one.
package merge

import (
	"reflect"
	"strings"

	"github.com/jonathan/profile-builder/internal/types"
)

// Merge combines a fresh fragment with the existing profile. Existing-only
// items count as kept, matched identical items as kept, matched differing
// items as updated (fresh wins), and unmatched fresh items as added.
func Merge(existing, fresh *types.Profile) *types.MergeResult {
	if existing == nil || existing.IsEmpty() {
		return Rebase(existing, fresh)
	}

	result := &types.MergeResult{Profile: &types.Profile{}}
	out := result.Profile

	out.Profil = mergeIdentity(existing.Profil, fresh.Profil, result)
	out.Experiences = mergeExperiences(existing.Experiences, fresh.Experiences, result)
	out.Competences = mergeCompetences(existing.Competences, fresh.Competences, &result.Stats)
	out.Formations = mergeFormations(existing.Formations, fresh.Formations, &result.Stats)
	out.Langues = mergeLangues(existing.Langues, fresh.Langues, &result.Stats)
	out.Certifications = mergeCertifications(existing.Certifications, fresh.Certifications, &result.Stats)
	out.ClientsReferences.Clients = mergeStringSet(
		existing.ClientsReferences.Clients, fresh.ClientsReferences.Clients, &result.Stats)
	out.ContexteEnrichi = mergeContexte(existing.ContexteEnrichi, fresh.ContexteEnrichi)

	// Manual corrections always survive a merge.
	out.RejectedInferred = existing.RejectedInferred
	out.ExtractionMetadata = existing.ExtractionMetadata

	return result
}

// Rebase makes the fresh fragment the profile wholesale (first extraction, or
// the first document of a regeneration run). The user's rejected-inferred
// list is the one piece of the old profile that is always carried forward: it
// encodes a manual correction that must survive any extraction mode.
func Rebase(existing, fresh *types.Profile) *types.MergeResult {
	out := *fresh
	if existing != nil {
		out.RejectedInferred = existing.RejectedInferred
	}
	return &types.MergeResult{
		Profile: &out,
		Stats:   types.MergeStats{ItemsAdded: countItems(fresh)},
	}
}

// countItems totals the list-valued facts in a profile fragment.
func countItems(p *types.Profile) int {
	if p == nil {
		return 0
	}
	return len(p.Experiences) +
		len(p.Formations) +
		len(p.Langues) +
		len(p.Certifications) +
		p.Competences.Count() +
		len(p.ClientsReferences.Clients)
}

// normalizeKey folds case and whitespace for semantic matching.
func normalizeKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	return strings.Join(strings.Fields(strings.ToLower(joined)), " ")
}

func mergeIdentity(existing, fresh types.Identity, result *types.MergeResult) types.Identity {
	out := existing
	mergeScalar(&out.Name, fresh.Name, "profil", "name", result)
	mergeScalar(&out.Headline, fresh.Headline, "profil", "headline", result)
	mergeScalar(&out.ElevatorPitch, fresh.ElevatorPitch, "profil", "elevator_pitch", result)
	mergeScalar(&out.Location, fresh.Location, "profil", "location", result)
	mergeScalar(&out.Email, fresh.Email, "profil", "email", result)
	mergeScalar(&out.Phone, fresh.Phone, "profil", "phone", result)
	return out
}

// mergeScalar lets a non-empty fresh value replace the target, recording a
// conflict when both sides were non-empty and different.
func mergeScalar(target *string, fresh, section, field string, result *types.MergeResult) {
	if fresh == "" || fresh == *target {
		return
	}
	if *target != "" {
		result.Conflicts = append(result.Conflicts, types.Conflict{
			Section:  section,
			Field:    field,
			Existing: *target,
			Fresh:    fresh,
		})
	}
	*target = fresh
}

func mergeExperiences(existing, fresh []types.Experience, result *types.MergeResult) []types.Experience {
	out := make([]types.Experience, len(existing))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, exp := range out {
		index[normalizeKey(exp.Role, exp.Employer, exp.StartDate)] = i
	}

	matched := make(map[int]bool)
	for _, f := range fresh {
		key := normalizeKey(f.Role, f.Employer, f.StartDate)
		i, ok := index[key]
		if !ok {
			out = append(out, f)
			result.Stats.ItemsAdded++
			continue
		}
		matched[i] = true
		merged := overlayExperience(out[i], f, result)
		if reflect.DeepEqual(merged, out[i]) {
			result.Stats.ItemsKept++
		} else {
			out[i] = merged
			result.Stats.ItemsUpdated++
		}
	}

	// existing entries the fragment said nothing about stay untouched
	for i := range existing {
		if !matched[i] {
			result.Stats.ItemsKept++
		}
	}

	return out
}

// overlayExperience applies fresh-wins field by field: a populated fresh field
// overwrites, an empty fresh field keeps the existing value so a sparser
// re-extraction never erases known facts.
func overlayExperience(existing, fresh types.Experience, result *types.MergeResult) types.Experience {
	out := existing
	if fresh.EndDate != "" {
		out.EndDate = fresh.EndDate
	}
	if fresh.Description != "" {
		if out.Description != "" && out.Description != fresh.Description {
			result.Conflicts = append(result.Conflicts, types.Conflict{
				Section:  "experiences",
				Field:    "description",
				Existing: existing.Description,
				Fresh:    fresh.Description,
			})
		}
		out.Description = fresh.Description
	}
	if fresh.Environment != "" {
		out.Environment = fresh.Environment
	}
	if len(fresh.Achievements) > 0 {
		out.Achievements = fresh.Achievements
	}
	if len(fresh.Clients) > 0 {
		out.Clients = unionStrings(existing.Clients, fresh.Clients)
	}
	if len(fresh.Skills) > 0 {
		out.Skills = unionStrings(existing.Skills, fresh.Skills)
	}
	return out
}

func mergeCompetences(existing, fresh types.Competences, stats *types.MergeStats) types.Competences {
	return types.Competences{
		Technical: mergeStringSet(existing.Technical, fresh.Technical, stats),
		Soft:      mergeStringSet(existing.Soft, fresh.Soft, stats),
		Tools:     mergeStringSet(existing.Tools, fresh.Tools, stats),
		Methods:   mergeStringSet(existing.Methods, fresh.Methods, stats),
	}
}

func mergeFormations(existing, fresh []types.Formation, stats *types.MergeStats) []types.Formation {
	out := make([]types.Formation, len(existing))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, f := range out {
		index[normalizeKey(f.Degree, f.School)] = i
	}

	matched := make(map[int]bool)
	for _, f := range fresh {
		i, ok := index[normalizeKey(f.Degree, f.School)]
		if !ok {
			out = append(out, f)
			stats.ItemsAdded++
			continue
		}
		matched[i] = true
		if f.Year != "" && f.Year != out[i].Year {
			out[i].Year = f.Year
			stats.ItemsUpdated++
		} else {
			stats.ItemsKept++
		}
	}
	for i := range existing {
		if !matched[i] {
			stats.ItemsKept++
		}
	}
	return out
}

func mergeLangues(existing, fresh []types.Langue, stats *types.MergeStats) []types.Langue {
	out := make([]types.Langue, len(existing))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, l := range out {
		index[normalizeKey(l.Name)] = i
	}

	matched := make(map[int]bool)
	for _, l := range fresh {
		i, ok := index[normalizeKey(l.Name)]
		if !ok {
			out = append(out, l)
			stats.ItemsAdded++
			continue
		}
		matched[i] = true
		if l.Level != "" && l.Level != out[i].Level {
			out[i].Level = l.Level
			stats.ItemsUpdated++
		} else {
			stats.ItemsKept++
		}
	}
	for i := range existing {
		if !matched[i] {
			stats.ItemsKept++
		}
	}
	return out
}

func mergeCertifications(existing, fresh []types.Certification, stats *types.MergeStats) []types.Certification {
	out := make([]types.Certification, len(existing))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, c := range out {
		index[normalizeKey(c.Name, c.Issuer)] = i
	}

	matched := make(map[int]bool)
	for _, c := range fresh {
		i, ok := index[normalizeKey(c.Name, c.Issuer)]
		if !ok {
			out = append(out, c)
			stats.ItemsAdded++
			continue
		}
		matched[i] = true
		if c.Year != "" && c.Year != out[i].Year {
			out[i].Year = c.Year
			stats.ItemsUpdated++
		} else {
			stats.ItemsKept++
		}
	}
	for i := range existing {
		if !matched[i] {
			stats.ItemsKept++
		}
	}
	return out
}

// mergeStringSet unions fresh into existing by normalized key, preserving
// first-seen casing and order. Existing entries count kept, new ones added.
func mergeStringSet(existing, fresh []string, stats *types.MergeStats) []string {
	out := make([]string, len(existing))
	copy(out, existing)

	seen := make(map[string]bool, len(out))
	for _, s := range out {
		seen[normalizeKey(s)] = true
	}
	stats.ItemsKept += len(out)

	for _, s := range fresh {
		key := normalizeKey(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
		stats.ItemsAdded++
	}
	return out
}

// unionStrings is mergeStringSet without the counters, for item-level lists.
func unionStrings(existing, fresh []string) []string {
	out := make([]string, len(existing))
	copy(out, existing)

	seen := make(map[string]bool, len(out))
	for _, s := range out {
		seen[normalizeKey(s)] = true
	}
	for _, s := range fresh {
		key := normalizeKey(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func mergeContexte(existing, fresh types.ContexteEnrichi) types.ContexteEnrichi {
	return types.ContexteEnrichi{
		ImplicitResponsibilities: unionStrings(existing.ImplicitResponsibilities, fresh.ImplicitResponsibilities),
		TacitSkills:              unionStrings(existing.TacitSkills, fresh.TacitSkills),
		WorkEnvironment:          unionStrings(existing.WorkEnvironment, fresh.WorkEnvironment),
	}
}
