// Package extraction turns stored document blobs into model-ready text and
// builds the extraction prompts sent to the model gateway.
package extraction

import "fmt"

// ErrDecode indicates a format-specific decoder failed. Fatal for the current
// document; the document status is persisted as failed and the run aborts.
type ErrDecode struct {
	Format string
	Cause  error
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("failed to decode %s document: %v", e.Format, e.Cause)
}

func (e *ErrDecode) Unwrap() error {
	return e.Cause
}
