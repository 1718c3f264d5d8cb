package types

// Mode selects how an extraction run treats the accumulated profile.
type Mode string

// Extraction modes.
const (
	// ModeCompletion extends the existing profile with facts from a new document.
	ModeCompletion Mode = "completion"
	// ModeRegeneration rebuilds the profile from scratch; the first document of
	// a regeneration run discards the prior profile (except manual corrections).
	ModeRegeneration Mode = "regeneration"
)

// Valid reports whether the mode is one of the known values.
func (m Mode) Valid() bool {
	return m == ModeCompletion || m == ModeRegeneration
}

// BatchPosition locates one document inside an ordered batch. A batch with a
// single document is both first and last.
type BatchPosition struct {
	Index int `json:"index"` // zero-based
	Total int `json:"total"`
}

// IsFirst reports whether this is the first document of the batch.
func (b BatchPosition) IsFirst() bool {
	return b.Index == 0
}

// IsLast reports whether this is the last document of the batch.
func (b BatchPosition) IsLast() bool {
	return b.Index >= b.Total-1
}
