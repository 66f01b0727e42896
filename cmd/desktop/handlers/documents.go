// Package handlers provides REST API handlers for documents.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/docnest/docnest/internal/db"
	apperrors "github.com/docnest/docnest/internal/errors"
	"github.com/docnest/docnest/internal/models"
)

// DocumentHandler handles document operations.
type DocumentHandler struct {
	repo *db.Repository
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(repo *db.Repository) *DocumentHandler {
	return &DocumentHandler{repo: repo}
}

// List handles GET /api/categories/{id}/documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("id")
	if _, err := h.repo.GetCategory(categoryID); err != nil {
		writeError(w, err)
		return
	}
	documents, err := h.repo.ListDocumentsByCategory(categoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documents)
}

// Get handles GET /api/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.repo.GetDocument(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Create handles POST /api/documents
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Title      string      `json:"title"`
		Content    string      `json:"content"`
		CategoryID models.UUID `json:"category_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, apperrors.New(apperrors.ErrInvalid, "invalid request body"))
		return
	}
	if request.Title == "" {
		writeError(w, apperrors.New(apperrors.ErrValidation, "title is required"))
		return
	}
	if request.CategoryID == "" {
		writeError(w, apperrors.New(apperrors.ErrValidation, "category_id is required"))
		return
	}
	if _, err := h.repo.GetCategory(request.CategoryID.String()); err != nil {
		writeError(w, err)
		return
	}

	doc := &models.Document{
		Title:      request.Title,
		Content:    request.Content,
		CategoryID: request.CategoryID,
	}
	if err := h.repo.CreateDocument(doc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// Update handles PUT /api/documents/{id}
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	doc, err := h.repo.GetDocument(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var request struct {
		Title      *string      `json:"title"`
		Content    *string      `json:"content"`
		CategoryID *models.UUID `json:"category_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, apperrors.New(apperrors.ErrInvalid, "invalid request body"))
		return
	}
	if request.Title != nil {
		if *request.Title == "" {
			writeError(w, apperrors.New(apperrors.ErrValidation, "title must not be empty"))
			return
		}
		doc.Title = *request.Title
	}
	if request.Content != nil {
		doc.Content = *request.Content
	}
	if request.CategoryID != nil {
		if _, err := h.repo.GetCategory(request.CategoryID.String()); err != nil {
			writeError(w, err)
			return
		}
		doc.CategoryID = *request.CategoryID
	}

	if err := h.repo.UpdateDocument(doc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Delete handles DELETE /api/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteDocument(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
