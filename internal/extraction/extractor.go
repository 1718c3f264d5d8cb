package extraction

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/profile-builder/internal/db"
	"github.com/jonathan/profile-builder/internal/observability"
)

// BlobStore downloads stored document blobs.
type BlobStore interface {
	Download(ctx context.Context, locator string) ([]byte, error)
}

// DocumentStore persists extraction results against the document record.
type DocumentStore interface {
	UpdateDocumentExtraction(ctx context.Context, id uuid.UUID, text string) error
	UpdateDocumentStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Extractor produces plain text from a stored document, caching the result
// against the document record.
type Extractor struct {
	blobs BlobStore
	docs  DocumentStore
	log   *observability.Logger
}

// NewExtractor creates a text extractor.
func NewExtractor(blobs BlobStore, docs DocumentStore, log *observability.Logger) *Extractor {
	return &Extractor{
		blobs: blobs,
		docs:  docs,
		log:   log.With("component", "extractor"),
	}
}

// Extract returns the document's plain text. Idempotent: a document with
// cached text is returned unchanged without re-invoking any decoder. On a
// fresh extraction the decoded text and completed status are persisted; on
// decode failure only the status is mutated, never the cached text.
func (e *Extractor) Extract(ctx context.Context, doc *db.Document) (string, error) {
	if doc.HasCachedText() {
		e.log.Debug("extraction cache hit", "document_id", doc.ID)
		return *doc.ExtractedText, nil
	}

	data, err := e.blobs.Download(ctx, doc.StoragePath)
	if err != nil {
		return "", err
	}

	text, err := decode(data, doc.FileType)
	if err != nil {
		e.log.Warn("decode failed", "document_id", doc.ID, "file_type", doc.FileType, "error", err)
		if statusErr := e.docs.UpdateDocumentStatus(ctx, doc.ID, db.ExtractionFailed); statusErr != nil {
			e.log.Error("failed to persist failed status", "document_id", doc.ID, "error", statusErr)
		}
		return "", err
	}

	if err := e.docs.UpdateDocumentExtraction(ctx, doc.ID, text); err != nil {
		return "", err
	}

	doc.ExtractedText = &text
	doc.ExtractionStatus = db.ExtractionCompleted
	e.log.Info("document extracted", "document_id", doc.ID, "chars", len(text))
	return text, nil
}
