package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetDocument fetches a document owned by the given user. Absence is not an
// error: a missing or foreign-owned document returns (nil, nil).
func (db *DB) GetDocument(ctx context.Context, id, userID uuid.UUID) (*Document, error) {
	var doc Document
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, file_name, file_type, storage_path, extracted_text, extraction_status, created_at
		 FROM documents
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&doc.ID, &doc.UserID, &doc.FileName, &doc.FileType, &doc.StoragePath,
		&doc.ExtractedText, &doc.ExtractionStatus, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// UpdateDocumentExtraction persists the decoded text and marks extraction
// completed in a single statement.
func (db *DB) UpdateDocumentExtraction(ctx context.Context, id uuid.UUID, text string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE documents SET extracted_text = $1, extraction_status = $2 WHERE id = $3`,
		text, ExtractionCompleted, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update document extraction: %w", err)
	}
	return nil
}

// UpdateDocumentStatus mutates only the extraction status. Used on decode
// failure so a broken decoder never corrupts the cached text.
func (db *DB) UpdateDocumentStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE documents SET extraction_status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	return nil
}
