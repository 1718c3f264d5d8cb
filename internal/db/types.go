package db

import (
	"time"

	"github.com/google/uuid"
)

// Extraction status values for a document record.
const (
	ExtractionPending   = "pending"
	ExtractionCompleted = "completed"
	ExtractionFailed    = "failed"
)

// Document represents an uploaded document record. Identity fields are
// immutable; only the cached extracted text and status are mutated by the
// extraction pipeline.
type Document struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	FileName         string    `json:"file_name"`
	FileType         string    `json:"file_type"` // declared type: pdf, docx, txt, html
	StoragePath      string    `json:"storage_path"`
	ExtractedText    *string   `json:"extracted_text,omitempty"`
	ExtractionStatus string    `json:"extraction_status"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasCachedText reports whether extraction already produced text for this
// document.
func (d *Document) HasCachedText() bool {
	return d.ExtractedText != nil && *d.ExtractedText != ""
}
