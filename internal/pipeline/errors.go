// Package pipeline orchestrates one document extraction run end to end.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/profile-builder/internal/extraction"
	"github.com/jonathan/profile-builder/internal/gateway"
	"github.com/jonathan/profile-builder/internal/storage"
)

// Stable machine-readable error codes carried on every failure response.
const (
	CodeConfigError   = "CONFIG_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeDownloadError = "DOWNLOAD_ERROR"
	CodeDecodeError   = "DECODE_ERROR"
	CodeModelTimeout  = "MODEL_TIMEOUT"
	CodeModelError    = "MODEL_ERROR"
	CodeParseError    = "PARSE_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

// ErrConfig indicates a missing service dependency or credential. Fatal,
// surfaced immediately, never retried.
type ErrConfig struct {
	Missing string
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("service not configured: %s", e.Missing)
}

// ErrNotFound indicates the document is absent or not owned by the caller.
type ErrNotFound struct {
	DocumentID uuid.UUID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("document not found: %s", e.DocumentID)
}

// ErrParse indicates the model returned non-JSON or malformed output. The raw
// response is logged for diagnosis but never returned to the caller.
type ErrParse struct {
	Cause error
}

func (e *ErrParse) Error() string {
	return fmt.Sprintf("model response not parseable: %v", e.Cause)
}

func (e *ErrParse) Unwrap() error {
	return e.Cause
}

// CodeOf maps any pipeline error to its taxonomy code.
func CodeOf(err error) string {
	var (
		configErr   *ErrConfig
		notFound    *ErrNotFound
		parseErr    *ErrParse
		downloadErr *storage.ErrDownload
		decodeErr   *extraction.ErrDecode
		timeoutErr  *gateway.ErrModelTimeout
		modelErr    *gateway.ErrModelGeneration
	)
	switch {
	case errors.As(err, &configErr):
		return CodeConfigError
	case errors.As(err, &notFound):
		return CodeNotFound
	case errors.As(err, &downloadErr):
		return CodeDownloadError
	case errors.As(err, &decodeErr):
		return CodeDecodeError
	case errors.As(err, &timeoutErr):
		return CodeModelTimeout
	case errors.As(err, &modelErr):
		return CodeModelError
	case errors.As(err, &parseErr):
		return CodeParseError
	default:
		return CodeInternalError
	}
}

// IsClientError reports whether the code is the caller's fault rather than a
// dependency or service failure.
func IsClientError(code string) bool {
	return code == CodeNotFound
}
