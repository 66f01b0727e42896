package export

import (
	"fmt"

	"github.com/docnest/docnest/internal/db"
	apperrors "github.com/docnest/docnest/internal/errors"
	"github.com/docnest/docnest/internal/models"
)

// ScopeType discriminates what an export covers.
type ScopeType string

const (
	// ScopeComplete exports every category, document, and attachment.
	ScopeComplete ScopeType = "complete"
	// ScopeCategory exports one category with its documents and attachments.
	ScopeCategory ScopeType = "category"
	// ScopeDocument exports one document, its attachments, and its owning category.
	ScopeDocument ScopeType = "document"
)

// Scope selects the subset of data an export covers.
type Scope struct {
	Type       ScopeType   `json:"type"`
	CategoryID models.UUID `json:"category_id,omitempty"`
	DocumentID models.UUID `json:"document_id,omitempty"`
}

// CompleteScope selects the whole archive.
func CompleteScope() Scope {
	return Scope{Type: ScopeComplete}
}

// CategoryScope selects one category and everything under it.
func CategoryScope(categoryID models.UUID) Scope {
	return Scope{Type: ScopeCategory, CategoryID: categoryID}
}

// DocumentScope selects one document and its attachments.
func DocumentScope(documentID models.UUID) Scope {
	return Scope{Type: ScopeDocument, DocumentID: documentID}
}

// Validate rejects malformed scopes before any I/O happens.
func (s Scope) Validate() error {
	switch s.Type {
	case ScopeComplete:
		return nil
	case ScopeCategory:
		if s.CategoryID == "" {
			return apperrors.New(apperrors.ErrValidation, "category export requires a category id")
		}
		return nil
	case ScopeDocument:
		if s.DocumentID == "" {
			return apperrors.New(apperrors.ErrValidation, "document export requires a document id")
		}
		return nil
	default:
		return apperrors.New(apperrors.ErrValidation, fmt.Sprintf("unknown export scope type: %q", s.Type))
	}
}

// ResolvedSet is the closure of records an export covers, deduplicated,
// in port iteration order.
type ResolvedSet struct {
	Categories  []*models.Category
	Documents   []*models.Document
	Attachments []*models.Attachment
	// Warnings records non-fatal resolution oddities, such as a
	// document whose owning category no longer exists.
	Warnings []string
}

// Resolver gathers the records covered by an export scope.
// It only reads through the data access port.
type Resolver struct {
	data db.DataReader
}

// NewResolver creates a Resolver over the given port.
func NewResolver(data db.DataReader) *Resolver {
	return &Resolver{data: data}
}

// Resolve returns the deduplicated closure for the scope. A scoped
// export whose category or document id does not exist fails with the
// entity's not-found error before any staging happens.
func (r *Resolver) Resolve(scope Scope) (*ResolvedSet, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	switch scope.Type {
	case ScopeComplete:
		return r.resolveComplete()
	case ScopeCategory:
		return r.resolveCategory(scope.CategoryID)
	default:
		return r.resolveDocument(scope.DocumentID)
	}
}

// resolveComplete gathers all categories, their documents, and each
// document's attachments.
func (r *Resolver) resolveComplete() (*ResolvedSet, error) {
	set := &ResolvedSet{}

	categories, err := r.data.ListCategories()
	if err != nil {
		return nil, err
	}
	set.Categories = categories

	for _, category := range categories {
		docs, err := r.data.ListDocumentsByCategory(category.ID.String())
		if err != nil {
			return nil, err
		}
		if err := r.appendDocuments(set, docs); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// resolveCategory gathers one category, its documents, and their attachments.
func (r *Resolver) resolveCategory(categoryID models.UUID) (*ResolvedSet, error) {
	category, err := r.data.GetCategory(categoryID.String())
	if err != nil {
		return nil, err
	}

	set := &ResolvedSet{Categories: []*models.Category{category}}

	docs, err := r.data.ListDocumentsByCategory(categoryID.String())
	if err != nil {
		return nil, err
	}
	if err := r.appendDocuments(set, docs); err != nil {
		return nil, err
	}

	return set, nil
}

// resolveDocument gathers one document, its attachments, and the owning
// category when it can still be found. A missing owning category is not
// fatal: the document and its attachments remain exportable.
func (r *Resolver) resolveDocument(documentID models.UUID) (*ResolvedSet, error) {
	doc, err := r.data.GetDocument(documentID.String())
	if err != nil {
		return nil, err
	}

	set := &ResolvedSet{}
	if err := r.appendDocuments(set, []*models.Document{doc}); err != nil {
		return nil, err
	}

	category, err := r.data.GetCategory(doc.CategoryID.String())
	switch {
	case err == nil:
		set.Categories = []*models.Category{category}
	case apperrors.Is(err, apperrors.ErrCategoryNotFound):
		set.Warnings = append(set.Warnings,
			fmt.Sprintf("owning category %s of document %s not found; exporting without it", doc.CategoryID, doc.ID))
	default:
		return nil, err
	}

	return set, nil
}

// appendDocuments adds documents and their attachments to the set,
// skipping ids already present.
func (r *Resolver) appendDocuments(set *ResolvedSet, docs []*models.Document) error {
	seen := make(map[models.UUID]bool, len(set.Documents))
	for _, doc := range set.Documents {
		seen[doc.ID] = true
	}

	for _, doc := range docs {
		if seen[doc.ID] {
			continue
		}
		seen[doc.ID] = true
		set.Documents = append(set.Documents, doc)

		attachments, err := r.data.ListAttachments(doc.ID.String())
		if err != nil {
			return err
		}
		set.Attachments = append(set.Attachments, attachments...)
	}
	return nil
}
