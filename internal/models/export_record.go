// Package models provides data model definitions for the DocNest backend.
package models

import "time"

// ExportRecord holds metadata for a completed export archive, persisted
// so the UI can show export history.
type ExportRecord struct {
	ID              UUID   `db:"id" json:"id"`
	ArchivePath     string `db:"archive_path" json:"archive_path"`
	Checksum        string `db:"checksum" json:"checksum"` // SHA-256
	SizeBytes       int64  `db:"size_bytes" json:"size_bytes"`
	CategoryCount   int    `db:"category_count" json:"category_count"`
	DocumentCount   int    `db:"document_count" json:"document_count"`
	AttachmentCount int    `db:"attachment_count" json:"attachment_count"`
	ScopeType       string `db:"scope_type" json:"scope_type"`
	CreatedAt       int64  `db:"created_at" json:"created_at"`
}

// TableName returns the table name for ExportRecord.
func (ExportRecord) TableName() string {
	return "export_records"
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (e *ExportRecord) CreatedAtTime() time.Time {
	return time.Unix(e.CreatedAt, 0)
}
