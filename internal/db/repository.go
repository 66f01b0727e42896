// Package db provides CRUD repository operations for DocNest data models.
package db

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/docnest/docnest/internal/errors"
	"github.com/docnest/docnest/internal/models"
	"github.com/docnest/docnest/internal/uuid"
)

// Repository provides CRUD operations for all models.
type Repository struct {
	db *sql.DB

	// Prepared statement cache for frequently used queries.
	// Statements are prepared on first use and cached for reuse.
	stmtCache sync.Map // map[string]*sql.Stmt
}

// NewRepository creates a new Repository instance.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// PrepareStmt gets or creates a prepared statement from the cache.
// Key is the query string, value is the prepared statement.
func (r *Repository) PrepareStmt(query string) (*sql.Stmt, error) {
	if stmt, ok := r.stmtCache.Load(query); ok {
		return stmt.(*sql.Stmt), nil
	}

	stmt, err := r.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}

	actual, loaded := r.stmtCache.LoadOrStore(query, stmt)
	if loaded {
		// Another goroutine already prepared this, close our duplicate
		stmt.Close()
		return actual.(*sql.Stmt), nil
	}

	return stmt, nil
}

// Close closes all cached prepared statements.
// Should be called when the Repository is no longer needed.
func (r *Repository) Close() error {
	var firstErr error
	r.stmtCache.Range(func(key, value interface{}) bool {
		stmt := value.(*sql.Stmt)
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})
	return firstErr
}

// =====================================================
// Category Operations
// =====================================================

// CreateCategory creates a new category.
func (r *Repository) CreateCategory(category *models.Category) error {
	now := time.Now().Unix()
	category.ID = models.UUID(uuid.New())
	category.CreatedAt = now
	category.UpdatedAt = now

	query := `
	INSERT INTO categories (id, name, icon, color, level, description, parent_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, category.ID, category.Name, category.Icon, category.Color,
		category.Level, nullString(category.Description), nullString(string(category.ParentID)),
		category.CreatedAt, category.UpdatedAt)
	return err
}

// GetCategory retrieves a category by ID.
func (r *Repository) GetCategory(id string) (*models.Category, error) {
	query := `
	SELECT id, name, icon, color, level, description, parent_id, created_at, updated_at
	FROM categories WHERE id = ?
	`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}

	category, err := scanCategory(stmt.QueryRow(id))
	if err == sql.ErrNoRows {
		return nil, apperrors.New(apperrors.ErrCategoryNotFound, fmt.Sprintf("category not found: %s", id))
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns all categories in insertion order.
func (r *Repository) ListCategories() ([]*models.Category, error) {
	query := `
	SELECT id, name, icon, color, level, description, parent_id, created_at, updated_at
	FROM categories ORDER BY created_at, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// UpdateCategory updates an existing category.
func (r *Repository) UpdateCategory(category *models.Category) error {
	category.Touch()
	query := `
	UPDATE categories
	SET name = ?, icon = ?, color = ?, level = ?, description = ?, parent_id = ?, updated_at = ?
	WHERE id = ?
	`
	result, err := r.db.Exec(query, category.Name, category.Icon, category.Color,
		category.Level, nullString(category.Description), nullString(string(category.ParentID)),
		category.UpdatedAt, category.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.ErrCategoryNotFound, fmt.Sprintf("category not found: %s", category.ID))
	}
	return nil
}

// DeleteCategory deletes a category. Documents under it cascade.
func (r *Repository) DeleteCategory(id string) error {
	result, err := r.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.ErrCategoryNotFound, fmt.Sprintf("category not found: %s", id))
	}
	return nil
}

// GetCategoryDocumentCounts returns a mapping of category ID to the
// number of documents directly under it.
func (r *Repository) GetCategoryDocumentCounts() (map[models.UUID]int, error) {
	query := `SELECT category_id, COUNT(*) FROM documents GROUP BY category_id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.UUID]int)
	for rows.Next() {
		var id models.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

// =====================================================
// Document Operations
// =====================================================

// CreateDocument creates a new document.
func (r *Repository) CreateDocument(doc *models.Document) error {
	now := time.Now().Unix()
	doc.ID = models.UUID(uuid.New())
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `
	INSERT INTO documents (id, title, content, category_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, doc.ID, doc.Title, doc.Content, doc.CategoryID,
		doc.CreatedAt, doc.UpdatedAt)
	return err
}

// GetDocument retrieves a document by ID.
func (r *Repository) GetDocument(id string) (*models.Document, error) {
	query := `
	SELECT id, title, content, category_id, created_at, updated_at
	FROM documents WHERE id = ?
	`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}

	var doc models.Document
	err = stmt.QueryRow(id).Scan(&doc.ID, &doc.Title, &doc.Content, &doc.CategoryID,
		&doc.CreatedAt, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.New(apperrors.ErrDocumentNotFound, fmt.Sprintf("document not found: %s", id))
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocumentsByCategory returns documents in a category in insertion order.
func (r *Repository) ListDocumentsByCategory(categoryID string) ([]*models.Document, error) {
	query := `
	SELECT id, title, content, category_id, created_at, updated_at
	FROM documents WHERE category_id = ? ORDER BY created_at, id
	`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var doc models.Document
		err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.CategoryID,
			&doc.CreatedAt, &doc.UpdatedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// UpdateDocument updates an existing document.
func (r *Repository) UpdateDocument(doc *models.Document) error {
	doc.Touch()
	query := `
	UPDATE documents
	SET title = ?, content = ?, category_id = ?, updated_at = ?
	WHERE id = ?
	`
	result, err := r.db.Exec(query, doc.Title, doc.Content, doc.CategoryID, doc.UpdatedAt, doc.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.ErrDocumentNotFound, fmt.Sprintf("document not found: %s", doc.ID))
	}
	return nil
}

// DeleteDocument deletes a document. Attachments under it cascade.
func (r *Repository) DeleteDocument(id string) error {
	result, err := r.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.ErrDocumentNotFound, fmt.Sprintf("document not found: %s", id))
	}
	return nil
}

// =====================================================
// Attachment Operations
// =====================================================

// CreateAttachment creates a new attachment row. The referenced file is
// not touched; the row only records where it lives.
func (r *Repository) CreateAttachment(att *models.Attachment) error {
	att.ID = models.UUID(uuid.New())
	att.CreatedAt = time.Now().Unix()

	query := `
	INSERT INTO attachments (id, document_id, filename, filepath, filesize, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, att.ID, att.DocumentID, att.Filename, att.Filepath,
		att.Filesize, att.CreatedAt)
	return err
}

// GetAttachment retrieves an attachment by ID.
func (r *Repository) GetAttachment(id string) (*models.Attachment, error) {
	query := `
	SELECT id, document_id, filename, filepath, filesize, created_at
	FROM attachments WHERE id = ?
	`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}

	var att models.Attachment
	err = stmt.QueryRow(id).Scan(&att.ID, &att.DocumentID, &att.Filename, &att.Filepath,
		&att.Filesize, &att.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.New(apperrors.ErrAttachmentNotFound, fmt.Sprintf("attachment not found: %s", id))
	}
	if err != nil {
		return nil, err
	}
	return &att, nil
}

// ListAttachments returns a document's attachments in insertion order.
func (r *Repository) ListAttachments(documentID string) ([]*models.Attachment, error) {
	query := `
	SELECT id, document_id, filename, filepath, filesize, created_at
	FROM attachments WHERE document_id = ? ORDER BY created_at, id
	`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []*models.Attachment
	for rows.Next() {
		var att models.Attachment
		err := rows.Scan(&att.ID, &att.DocumentID, &att.Filename, &att.Filepath,
			&att.Filesize, &att.CreatedAt)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, &att)
	}
	return attachments, rows.Err()
}

// DeleteAttachment deletes an attachment row.
func (r *Repository) DeleteAttachment(id string) error {
	result, err := r.db.Exec(`DELETE FROM attachments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.New(apperrors.ErrAttachmentNotFound, fmt.Sprintf("attachment not found: %s", id))
	}
	return nil
}

// =====================================================
// ExportRecord Operations
// =====================================================

// CreateExportRecord records a completed export.
func (r *Repository) CreateExportRecord(record *models.ExportRecord) error {
	record.ID = models.UUID(uuid.New())
	record.CreatedAt = time.Now().Unix()

	query := `
	INSERT INTO export_records (id, archive_path, checksum, size_bytes, category_count,
		document_count, attachment_count, scope_type, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, record.ID, record.ArchivePath, record.Checksum,
		record.SizeBytes, record.CategoryCount, record.DocumentCount,
		record.AttachmentCount, record.ScopeType, record.CreatedAt)
	return err
}

// ListExportRecords returns export history, most recent first.
func (r *Repository) ListExportRecords(limit int) ([]*models.ExportRecord, error) {
	query := `
	SELECT id, archive_path, checksum, size_bytes, category_count, document_count,
		attachment_count, scope_type, created_at
	FROM export_records ORDER BY created_at DESC, id LIMIT ?
	`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.Query(limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.ExportRecord
	for rows.Next() {
		var rec models.ExportRecord
		err := rows.Scan(&rec.ID, &rec.ArchivePath, &rec.Checksum, &rec.SizeBytes,
			&rec.CategoryCount, &rec.DocumentCount, &rec.AttachmentCount,
			&rec.ScopeType, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// =====================================================
// Scan helpers
// =====================================================

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanCategory scans one category row, normalizing nullable columns.
func scanCategory(row rowScanner) (*models.Category, error) {
	var category models.Category
	var description, parentID sql.NullString
	err := row.Scan(&category.ID, &category.Name, &category.Icon, &category.Color,
		&category.Level, &description, &parentID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		category.Description = description.String
	}
	if parentID.Valid {
		category.ParentID = models.UUID(parentID.String)
	}
	return &category, nil
}

// nullString maps an empty string to NULL for nullable columns.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
