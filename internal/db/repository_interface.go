// Package db provides repository interfaces for DocNest data models.
package db

import (
	"github.com/docnest/docnest/internal/models"
)

// CategoryReader defines read-only category queries.
type CategoryReader interface {
	// GetCategory retrieves a category by ID.
	GetCategory(id string) (*models.Category, error)

	// ListCategories returns all categories in insertion order.
	ListCategories() ([]*models.Category, error)

	// GetCategoryDocumentCounts maps category ID to direct document count.
	GetCategoryDocumentCounts() (map[models.UUID]int, error)
}

// DocumentReader defines read-only document queries.
type DocumentReader interface {
	// GetDocument retrieves a document by ID.
	GetDocument(id string) (*models.Document, error)

	// ListDocumentsByCategory returns a category's documents in insertion order.
	ListDocumentsByCategory(categoryID string) ([]*models.Document, error)
}

// AttachmentReader defines read-only attachment queries.
type AttachmentReader interface {
	// ListAttachments returns a document's attachments in insertion order.
	ListAttachments(documentID string) ([]*models.Attachment, error)
}

// ExportHistoryStore persists export history records.
type ExportHistoryStore interface {
	// CreateExportRecord records a completed export.
	CreateExportRecord(record *models.ExportRecord) error

	// ListExportRecords returns export history, most recent first.
	ListExportRecords(limit int) ([]*models.ExportRecord, error)
}

// DataReader is the read-only data access port the export engine
// depends on. Implementations must be safe for concurrent reads.
type DataReader interface {
	CategoryReader
	DocumentReader
	AttachmentReader
}

// Ensure *Repository implements the interfaces at compile time.
var (
	_ CategoryReader     = (*Repository)(nil)
	_ DocumentReader     = (*Repository)(nil)
	_ AttachmentReader   = (*Repository)(nil)
	_ ExportHistoryStore = (*Repository)(nil)
	_ DataReader         = (*Repository)(nil)
)
