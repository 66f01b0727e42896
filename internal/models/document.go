// Package models provides data model definitions for the DocNest backend.
package models

import "time"

// Document represents a document belonging to exactly one category.
// Content holds the serialized rich-text body; the backend treats it
// as an opaque string.
type Document struct {
	ID         UUID   `db:"id" json:"id"`
	Title      string `db:"title" json:"title"`
	Content    string `db:"content" json:"content"`
	CategoryID UUID   `db:"category_id" json:"category_id"`
	CreatedAt  int64  `db:"created_at" json:"created_at"`
	UpdatedAt  int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Document.
func (Document) TableName() string {
	return "documents"
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (d *Document) CreatedAtTime() time.Time {
	return time.Unix(d.CreatedAt, 0)
}

// UpdatedAtTime returns the UpdatedAt as time.Time.
func (d *Document) UpdatedAtTime() time.Time {
	return time.Unix(d.UpdatedAt, 0)
}

// Touch updates the UpdatedAt timestamp.
func (d *Document) Touch() {
	d.UpdatedAt = time.Now().Unix()
}
