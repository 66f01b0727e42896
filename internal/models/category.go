// Package models provides data model definitions for the DocNest backend.
package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// UUID is a wrapper around string for UUID v4 type safety.
type UUID string

// Value implements driver.Valuer for UUID.
func (u UUID) Value() (driver.Value, error) {
	return string(u), nil
}

// Scan implements sql.Scanner for UUID.
func (u *UUID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*u = ""
	case string:
		*u = UUID(v)
	case []byte:
		*u = UUID(v)
	default:
		return fmt.Errorf("cannot scan %T into UUID", value)
	}
	return nil
}

// String returns the string representation of the UUID.
func (u UUID) String() string {
	return string(u)
}

// Category represents a user-defined category for organizing documents.
// Level 0 is a top-level category; deeper levels reference a parent.
type Category struct {
	ID          UUID   `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Icon        string `db:"icon" json:"icon"`
	Color       string `db:"color" json:"color"`
	Level       int    `db:"level" json:"level"`
	Description string `db:"description" json:"description,omitempty"`
	ParentID    UUID   `db:"parent_id" json:"parent_id,omitempty"`
	CreatedAt   int64  `db:"created_at" json:"created_at"`
	UpdatedAt   int64  `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Category.
func (Category) TableName() string {
	return "categories"
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (c *Category) CreatedAtTime() time.Time {
	return time.Unix(c.CreatedAt, 0)
}

// Touch updates the UpdatedAt timestamp.
func (c *Category) Touch() {
	c.UpdatedAt = time.Now().Unix()
}
