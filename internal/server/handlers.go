package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/profile-builder/internal/pipeline"
	"github.com/jonathan/profile-builder/internal/server/middleware"
	"github.com/jonathan/profile-builder/internal/types"
)

// DocumentProcessor runs one document through the ingestion pipeline.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// ProfileReader loads the current knowledge profile for a user.
type ProfileReader interface {
	GetProfileByUser(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
}

// parseProcessRequest decodes and validates the process-document body. All
// failures come back as *ErrValidation.
func parseProcessRequest(r *http.Request) (types.ProcessDocumentRequest, uuid.UUID, error) {
	var req types.ProcessDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, uuid.Nil, &ErrValidation{Message: "invalid request body: " + err.Error()}
	}
	if err := req.Validate(); err != nil {
		return req, uuid.Nil, &ErrValidation{Message: err.Error()}
	}
	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return req, uuid.Nil, &ErrValidation{Message: "document_id is not a valid UUID"}
	}
	return req, documentID, nil
}

// handleProcessDocument runs a single document through the pipeline and
// returns the updated profile summary.
func (s *Server) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
		return
	}

	req, documentID, err := parseProcessRequest(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	if !s.runGuard.tryAcquire(userID) {
		runErr := &ErrRunInProgress{UserID: userID}
		s.errorResponse(w, http.StatusConflict, CodeRunInProgress, runErr.Error())
		return
	}
	defer s.runGuard.release(userID)

	runStart := time.Now()
	result, err := s.processor.ProcessDocument(r.Context(), pipeline.Request{
		DocumentID: documentID,
		UserID:     userID,
		Mode:       types.Mode(req.Mode),
		Batch: types.BatchPosition{
			Index: req.BatchIndex,
			Total: req.BatchTotal,
		},
	})
	if err != nil {
		code := pipeline.CodeOf(err)
		logFailure := s.log.Error
		if pipeline.IsClientError(code) {
			logFailure = s.log.Warn
		}
		logFailure("document run failed",
			"document_id", documentID,
			"user_id", userID,
			"code", code,
			"error", err)
		s.runErrorResponse(w, HTTPStatus(code), code, err.Error(), time.Since(runStart))
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleGetProfile returns the authenticated user's knowledge profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
		return
	}

	profile, err := s.profiles.GetProfileByUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, pipeline.CodeInternalError, "failed to load profile")
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, pipeline.CodeNotFound, "no profile for user")
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
