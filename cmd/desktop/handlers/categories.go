// Package handlers provides REST API handlers for categories.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/docnest/docnest/internal/db"
	apperrors "github.com/docnest/docnest/internal/errors"
	"github.com/docnest/docnest/internal/models"
)

// CategoryHandler handles category operations.
type CategoryHandler struct {
	repo *db.Repository
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(repo *db.Repository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

// categoryView is a category plus its direct document count.
type categoryView struct {
	*models.Category
	DocumentCount int `json:"document_count"`
}

// List handles GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories()
	if err != nil {
		writeError(w, err)
		return
	}
	counts, err := h.repo.GetCategoryDocumentCounts()
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]categoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, categoryView{
			Category:      category,
			DocumentCount: counts[category.ID],
		})
	}
	writeJSON(w, http.StatusOK, views)
}

// Get handles GET /api/categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.repo.GetCategory(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name        string      `json:"name"`
		Icon        string      `json:"icon"`
		Color       string      `json:"color"`
		Description string      `json:"description"`
		ParentID    models.UUID `json:"parent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, apperrors.New(apperrors.ErrInvalid, "invalid request body"))
		return
	}
	if request.Name == "" {
		writeError(w, apperrors.New(apperrors.ErrValidation, "name is required"))
		return
	}

	category := &models.Category{
		Name:        request.Name,
		Icon:        request.Icon,
		Color:       request.Color,
		Description: request.Description,
		ParentID:    request.ParentID,
	}
	if request.ParentID != "" {
		parent, err := h.repo.GetCategory(request.ParentID.String())
		if err != nil {
			writeError(w, err)
			return
		}
		category.Level = parent.Level + 1
	}

	if err := h.repo.CreateCategory(category); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// Update handles PUT /api/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	category, err := h.repo.GetCategory(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var request struct {
		Name        *string `json:"name"`
		Icon        *string `json:"icon"`
		Color       *string `json:"color"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, apperrors.New(apperrors.ErrInvalid, "invalid request body"))
		return
	}
	if request.Name != nil {
		if *request.Name == "" {
			writeError(w, apperrors.New(apperrors.ErrValidation, "name must not be empty"))
			return
		}
		category.Name = *request.Name
	}
	if request.Icon != nil {
		category.Icon = *request.Icon
	}
	if request.Color != nil {
		category.Color = *request.Color
	}
	if request.Description != nil {
		category.Description = *request.Description
	}

	if err := h.repo.UpdateCategory(category); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteCategory(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
