package types

// MergeStats counts the outcome of one merge pass.
type MergeStats struct {
	ItemsAdded   int `json:"items_added"`
	ItemsUpdated int `json:"items_updated"`
	ItemsKept    int `json:"items_kept"`
}

// Conflict records a field where both the existing profile and the fresh
// fragment carried different non-empty values. The fresh value wins; the
// conflict is surfaced for audit.
type Conflict struct {
	Section  string `json:"section"`
	Field    string `json:"field"`
	Existing string `json:"existing"`
	Fresh    string `json:"fresh"`
}

// MergeResult is the ephemeral outcome of merging a fresh fragment into the
// accumulated profile. It lives only for the duration of one pipeline run.
type MergeResult struct {
	Profile   *Profile   `json:"profile"`
	Stats     MergeStats `json:"stats"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}
