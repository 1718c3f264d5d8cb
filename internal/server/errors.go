// Package server provides the HTTP REST API for the profile builder.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/profile-builder/internal/pipeline"
)

// ErrRunInProgress indicates the user already has a pipeline run in flight.
type ErrRunInProgress struct {
	UserID uuid.UUID
}

func (e *ErrRunInProgress) Error() string {
	return fmt.Sprintf("a document run is already in progress for user %s", e.UserID)
}

// Request-level error codes, distinct from the pipeline taxonomy.
const (
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeValidation    = "VALIDATION_ERROR"
	CodeRunInProgress = "RUN_IN_PROGRESS"
)

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for a pipeline error code.
func HTTPStatus(code string) int {
	switch code {
	case pipeline.CodeNotFound:
		return http.StatusNotFound
	case pipeline.CodeDecodeError:
		return http.StatusUnprocessableEntity
	case pipeline.CodeDownloadError, pipeline.CodeModelError, pipeline.CodeParseError:
		return http.StatusBadGateway
	case pipeline.CodeModelTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
