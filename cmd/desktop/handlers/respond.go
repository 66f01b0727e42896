// Package handlers provides REST API handlers for the DocNest desktop server.
package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/docnest/docnest/internal/errors"
)

// writeJSON serializes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps an application error code onto an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case apperrors.ErrNotFound, apperrors.ErrCategoryNotFound,
		apperrors.ErrDocumentNotFound, apperrors.ErrAttachmentNotFound:
		status = http.StatusNotFound
	case apperrors.ErrInvalid, apperrors.ErrValidation:
		status = http.StatusBadRequest
	case apperrors.ErrDuplicate, apperrors.ErrConstraint:
		status = http.StatusConflict
	}

	// Fatal export errors carry the real cause further down the chain.
	if code == apperrors.ErrExportFailed {
		switch {
		case apperrors.Is(err, apperrors.ErrCategoryNotFound),
			apperrors.Is(err, apperrors.ErrDocumentNotFound):
			status = http.StatusNotFound
		case apperrors.Is(err, apperrors.ErrValidation):
			status = http.StatusBadRequest
		}
	}

	writeJSON(w, status, errorBody{Code: string(code), Message: err.Error()})
}
