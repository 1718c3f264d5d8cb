// Package storage provides object-storage access for uploaded document blobs.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// downloadTimeout bounds a single blob download. Storage has its own
// platform-level timeouts; this is the outer guard.
const downloadTimeout = 2 * time.Minute

// ErrDownload indicates the blob could not be fetched from object storage.
type ErrDownload struct {
	Locator string
	Cause   error
}

func (e *ErrDownload) Error() string {
	return fmt.Sprintf("failed to download %q: %v", e.Locator, e.Cause)
}

func (e *ErrDownload) Unwrap() error {
	return e.Cause
}

// Bucket downloads stored document blobs from Google Cloud Storage.
type Bucket struct {
	client *gcs.Client
	name   string
}

// NewBucket creates a storage client for the named bucket. With an empty
// credentials path the client falls back to application default credentials.
func NewBucket(ctx context.Context, bucketName, credentialsFile string) (*Bucket, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	var client *gcs.Client
	var err error
	if credentialsFile != "" {
		client, err = gcs.NewClient(ctx, option.WithCredentialsFile(credentialsFile), option.WithScopes(gcs.ScopeReadOnly))
	} else {
		client, err = gcs.NewClient(ctx, option.WithScopes(gcs.ScopeReadOnly))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Bucket{client: client, name: bucketName}, nil
}

// Download fetches the blob at the given locator.
func (b *Bucket) Download(ctx context.Context, locator string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	r, err := b.client.Bucket(b.name).Object(locator).NewReader(ctx)
	if err != nil {
		return nil, &ErrDownload{Locator: locator, Cause: err}
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ErrDownload{Locator: locator, Cause: err}
	}
	return data, nil
}

// Close releases the underlying storage client.
func (b *Bucket) Close() error {
	return b.client.Close()
}
