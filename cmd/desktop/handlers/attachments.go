// Package handlers provides REST API handlers for attachments.
package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/docnest/docnest/internal/db"
	apperrors "github.com/docnest/docnest/internal/errors"
	"github.com/docnest/docnest/internal/models"
)

// AttachmentHandler handles attachment operations. Attachments are
// references to files on the host filesystem; registering one never
// copies or moves the file.
type AttachmentHandler struct {
	repo *db.Repository
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(repo *db.Repository) *AttachmentHandler {
	return &AttachmentHandler{repo: repo}
}

// validFilename rejects names carrying path separators or dot segments;
// stored filenames become staging paths at export time.
func validFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}

// List handles GET /api/documents/{id}/attachments
func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if _, err := h.repo.GetDocument(documentID); err != nil {
		writeError(w, err)
		return
	}
	attachments, err := h.repo.ListAttachments(documentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attachments)
}

// Create handles POST /api/documents/{id}/attachments
func (h *AttachmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	if _, err := h.repo.GetDocument(documentID); err != nil {
		writeError(w, err)
		return
	}

	var request struct {
		Filepath string `json:"filepath"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, apperrors.New(apperrors.ErrInvalid, "invalid request body"))
		return
	}
	if request.Filepath == "" {
		writeError(w, apperrors.New(apperrors.ErrValidation, "filepath is required"))
		return
	}
	if !filepath.IsAbs(request.Filepath) {
		writeError(w, apperrors.New(apperrors.ErrValidation, "filepath must be absolute"))
		return
	}
	if request.Filename == "" {
		request.Filename = filepath.Base(request.Filepath)
	}
	if !validFilename(request.Filename) {
		writeError(w, apperrors.New(apperrors.ErrValidation, "filename must be a bare file name"))
		return
	}

	// Record the size now; the file may move or vanish later and the
	// export engine tolerates that.
	var size int64
	if info, err := os.Stat(request.Filepath); err == nil {
		size = info.Size()
	}

	att := &models.Attachment{
		DocumentID: models.UUID(documentID),
		Filename:   request.Filename,
		Filepath:   request.Filepath,
		Filesize:   size,
	}
	if err := h.repo.CreateAttachment(att); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, att)
}

// Get handles GET /api/attachments/{id}
func (h *AttachmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	att, err := h.repo.GetAttachment(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, att)
}

// Delete handles DELETE /api/attachments/{id}
// Only the reference row is removed, never the file it points to.
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteAttachment(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
