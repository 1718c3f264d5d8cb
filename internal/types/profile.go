// Package types provides type definitions for structured data used throughout the profile-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Profile is the accumulated structured aggregate of professional facts for one
// user. Section names follow the stored JSON document format; every section is
// independently optional.
type Profile struct {
	Profil             Identity           `json:"profil"`
	Experiences        []Experience       `json:"experiences,omitempty"`
	Competences        Competences        `json:"competences"`
	Formations         []Formation        `json:"formations,omitempty"`
	Langues            []Langue           `json:"langues,omitempty"`
	Certifications     []Certification    `json:"certifications,omitempty"`
	ClientsReferences  ClientsReferences  `json:"clients_references"`
	ContexteEnrichi    ContexteEnrichi    `json:"contexte_enrichi"`
	RejectedInferred   []string           `json:"rejected_inferred,omitempty"`
	ExtractionMetadata []ExtractionRecord `json:"extraction_metadata,omitempty"`
	QualityMetrics     *QualityScore      `json:"quality_metrics,omitempty"`
}

// Identity holds the candidate's identity and elevator pitch.
type Identity struct {
	Name          string `json:"name,omitempty"`
	Headline      string `json:"headline,omitempty"`
	ElevatorPitch string `json:"elevator_pitch,omitempty"`
	Location      string `json:"location,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// Experience represents a single professional experience entry.
type Experience struct {
	Role         string   `json:"role"`
	Employer     string   `json:"employer"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Clients      []string `json:"clients,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	Environment  string   `json:"environment,omitempty"`
}

// Competences groups skills by kind.
type Competences struct {
	Technical []string `json:"technical,omitempty"`
	Soft      []string `json:"soft,omitempty"`
	Tools     []string `json:"tools,omitempty"`
	Methods   []string `json:"methods,omitempty"`
}

// Formation represents an education entry.
type Formation struct {
	Degree string `json:"degree"`
	School string `json:"school,omitempty"`
	Year   string `json:"year,omitempty"`
}

// Langue represents a spoken language and proficiency level.
type Langue struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// Certification represents a professional certification.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   string `json:"year,omitempty"`
}

// ClientsReferences holds the consolidated list of client names across all
// experiences.
type ClientsReferences struct {
	Clients []string `json:"clients,omitempty"`
}

// ContexteEnrichi holds facts inferred by the enrichment pass rather than
// stated explicitly in source documents.
type ContexteEnrichi struct {
	ImplicitResponsibilities []string `json:"implicit_responsibilities,omitempty"`
	TacitSkills              []string `json:"tacit_skills,omitempty"`
	WorkEnvironment          []string `json:"work_environment,omitempty"`
}

// ExtractionRecord captures metadata about one document extraction run.
type ExtractionRecord struct {
	DocumentID   string `json:"document_id"`
	ModelUsed    string `json:"model_used,omitempty"`
	WasTruncated bool   `json:"was_truncated,omitempty"`
	FinalTokens  int    `json:"final_tokens,omitempty"`
	ExtractedAt  string `json:"extracted_at"`
}

// IsEmpty reports whether the profile carries no extracted content at all.
func (p *Profile) IsEmpty() bool {
	return p == nil || (p.Profil == Identity{} &&
		len(p.Experiences) == 0 &&
		p.Competences.Count() == 0 &&
		len(p.Formations) == 0 &&
		len(p.Langues) == 0 &&
		len(p.Certifications) == 0 &&
		len(p.ClientsReferences.Clients) == 0)
}

// Count returns the total number of skills across all kinds.
func (c Competences) Count() int {
	return len(c.Technical) + len(c.Soft) + len(c.Tools) + len(c.Methods)
}

// ClientCount returns the number of consolidated client references.
func (p *Profile) ClientCount() int {
	return len(p.ClientsReferences.Clients)
}
