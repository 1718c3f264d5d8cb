package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/profile-builder/internal/types"
)

// ShouldIncludeSnapshot decides whether the prompt carries a serialized
// snapshot of the accumulated profile. The first document of a regeneration
// run starts from a clean slate; every other case extends known facts so the
// model does not re-derive them.
func ShouldIncludeSnapshot(mode types.Mode, pos types.BatchPosition, hasExisting bool) bool {
	if !hasExisting {
		return false
	}
	if mode == types.ModeRegeneration && pos.IsFirst() {
		return false
	}
	return true
}

// SnapshotOf serializes the profile sections relevant to extraction. Metadata
// and quality metrics are stripped: the model only needs the facts.
func SnapshotOf(p *types.Profile) (string, error) {
	if p == nil {
		return "", nil
	}
	trimmed := *p
	trimmed.ExtractionMetadata = nil
	trimmed.QualityMetrics = nil
	trimmed.RejectedInferred = nil

	data, err := json.Marshal(&trimmed)
	if err != nil {
		return "", fmt.Errorf("failed to serialize profile snapshot: %w", err)
	}
	return string(data), nil
}

// fragmentSchema describes the JSON shape the model must return. Kept in the
// prompt itself so the contract travels with every call.
const fragmentSchema = `{
  "profil": {"name": string, "headline": string, "elevator_pitch": string, "location": string, "email": string, "phone": string},
  "experiences": [{"role": string, "employer": string, "start_date": "YYYY-MM", "end_date": "YYYY-MM" | "", "description": string, "achievements": [string], "clients": [string], "skills": [string], "environment": string}],
  "competences": {"technical": [string], "soft": [string], "tools": [string], "methods": [string]},
  "formations": [{"degree": string, "school": string, "year": string}],
  "langues": [{"name": string, "level": string}],
  "certifications": [{"name": string, "issuer": string, "year": string}],
  "clients_references": {"clients": [string]}
}`

// BuildExtractionPrompt constructs the model prompt from truncated document
// text plus an optional profile snapshot (empty string omits it).
func BuildExtractionPrompt(documentText, profileSnapshot string) string {
	var sb strings.Builder

	sb.WriteString("You are an expert career-document parser. Extract professional facts from the document below.\n")
	sb.WriteString("COPY FACTS FAITHFULLY - do not invent, embellish, or summarize away specifics.\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	sb.WriteString(fragmentSchema)
	sb.WriteString("\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Omit sections the document says nothing about rather than filling them with empty guesses.\n")
	sb.WriteString("- Keep quantified achievements verbatim (numbers, percentages, team sizes).\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	if profileSnapshot != "" {
		sb.WriteString("A profile already extracted from earlier documents follows. EXTEND it: add facts the\n")
		sb.WriteString("new document contributes and refine entries it elaborates on. Do not repeat entries\n")
		sb.WriteString("the new document says nothing about.\n\n")
		sb.WriteString("Existing profile:\n\"\"\"\n")
		sb.WriteString(profileSnapshot)
		sb.WriteString("\n\"\"\"\n\n")
	}

	sb.WriteString("Document text:\n\"\"\"\n")
	sb.WriteString(documentText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// enrichmentSchema describes the JSON shape of the implicit-context pass.
const enrichmentSchema = `{
  "implicit_responsibilities": [string],
  "tacit_skills": [string],
  "work_environment": [string]
}`

// BuildEnrichmentPrompt constructs the secondary implicit-context prompt from
// the merged profile.
func BuildEnrichmentPrompt(snapshot string) string {
	var sb strings.Builder

	sb.WriteString("You are an expert career analyst. From the profile below, infer what is implied but not stated:\n")
	sb.WriteString("responsibilities that roles of this kind carry, tacit competencies the listed work requires,\n")
	sb.WriteString("and descriptors of the likely work environment.\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	sb.WriteString(enrichmentSchema)
	sb.WriteString("\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Infer conservatively; every item must be defensible from the profile content.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Profile:\n\"\"\"\n")
	sb.WriteString(snapshot)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}
