// Package models provides data model definitions for the DocNest backend.
package models

// Attachment represents a file attached to a document. Filepath is an
// absolute path on the host filesystem; the backend never mutates or
// deletes the file it points to.
type Attachment struct {
	ID         UUID   `db:"id" json:"id"`
	DocumentID UUID   `db:"document_id" json:"document_id"`
	Filename   string `db:"filename" json:"filename"`
	Filepath   string `db:"filepath" json:"filepath"`
	Filesize   int64  `db:"filesize" json:"filesize"`
	CreatedAt  int64  `db:"created_at" json:"created_at"`
}

// TableName returns the table name for Attachment.
func (Attachment) TableName() string {
	return "attachments"
}
