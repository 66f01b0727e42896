// Package models provides data model definitions for the DocNest backend.
package models

// ExportFormatVersion is the manifest format version written into
// metadata.json. Bump when the manifest layout changes.
const ExportFormatVersion = "1.0"

// ExportMetadata is the global manifest written to metadata.json.
// It is derived at export time, never stored in the database.
type ExportMetadata struct {
	Version          string `json:"version"`
	ExportDate       string `json:"export_date"` // ISO-8601
	TotalCategories  int    `json:"total_categories"`
	TotalDocuments   int    `json:"total_documents"`
	TotalAttachments int    `json:"total_attachments"`
	ExportType       string `json:"export_type"`
	CategoryID       UUID   `json:"category_id,omitempty"`
	DocumentID       UUID   `json:"document_id,omitempty"`
}

// AttachmentStatus records the materialization outcome of one attachment.
type AttachmentStatus string

const (
	// AttachmentCopied means the source file was copied into the workspace.
	AttachmentCopied AttachmentStatus = "copied"
	// AttachmentMissingSource means the source file did not exist at copy time.
	AttachmentMissingSource AttachmentStatus = "missing-source"
	// AttachmentCopyFailed means the copy itself failed (permissions, disk).
	AttachmentCopyFailed AttachmentStatus = "copy-failed"
	// AttachmentExcluded means an exclude pattern filtered the file out.
	AttachmentExcluded AttachmentStatus = "excluded"
)

// AttachmentIndexEntry is one row of attachments.json: the resolved
// attachment plus its export-relative path, the absolute source path at
// export time (traceability only, never used for re-import), and the
// copy outcome.
type AttachmentIndexEntry struct {
	Attachment
	ExportPath   string           `json:"export_path"`
	OriginalPath string           `json:"original_path"`
	Status       AttachmentStatus `json:"status"`
}

// ContextCategory is the human-oriented category summary in export-context.json.
type ContextCategory struct {
	ID   UUID   `json:"id"`
	Name string `json:"name"`
}

// ContextDocument is the human-oriented document summary in export-context.json.
type ContextDocument struct {
	ID         UUID   `json:"id"`
	Title      string `json:"title"`
	CategoryID UUID   `json:"category_id"`
}

// ExportContext is written to export-context.json: what was exported and
// why, inspectable without parsing the full manifests.
type ExportContext struct {
	ExportType      string            `json:"export_type"`
	ExportDate      string            `json:"export_date"`
	CategoryID      UUID              `json:"category_id,omitempty"`
	DocumentID      UUID              `json:"document_id,omitempty"`
	Categories      []ContextCategory `json:"categories"`
	Documents       []ContextDocument `json:"documents"`
	AttachmentCount int               `json:"attachment_count"`
}

// ExportStats previews the cost of a prospective export without
// performing one.
type ExportStats struct {
	CategoryCount      int    `json:"category_count"`
	DocumentCount      int    `json:"document_count"`
	AttachmentCount    int    `json:"attachment_count"`
	EstimatedSizeBytes int64  `json:"estimated_size_bytes"`
	SelectionLabel     string `json:"selection_label"`
}
