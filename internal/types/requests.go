// Package types provides type definitions for structured data used throughout the profile-builder system.
package types

import (
	"github.com/go-playground/validator/v10"
)

// ProcessDocumentRequest represents the request to run one document through
// the ingestion pipeline.
type ProcessDocumentRequest struct {
	DocumentID string `json:"document_id" validate:"required,uuid4"`
	Mode       string `json:"mode" validate:"required,oneof=completion regeneration"`
	BatchIndex int    `json:"batch_index" validate:"gte=0,ltfield=BatchTotal"`
	BatchTotal int    `json:"batch_total" validate:"required,gte=1"`
}

// Validate validates the ProcessDocumentRequest using the validator.
func (r *ProcessDocumentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
