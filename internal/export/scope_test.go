// Package export tests for scope validation and resolution.
package export

import (
	"database/sql"
	"testing"

	"github.com/docnest/docnest/internal/db"
	apperrors "github.com/docnest/docnest/internal/errors"
	"github.com/docnest/docnest/internal/models"
	"github.com/docnest/docnest/internal/uuid"

	_ "modernc.org/sqlite"
)

// setupTestDB creates a migrated in-memory database for testing.
// A single pooled connection keeps the in-memory database alive.
func setupTestDB(t *testing.T) (*sql.DB, *db.Repository) {
	t.Helper()

	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	if _, err := database.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	migrator := db.NewMigrator(database, db.Migrations())
	if err := migrator.Initialize(); err != nil {
		t.Fatalf("failed to initialize migrator: %v", err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	repo := db.NewRepository(database)
	t.Cleanup(func() { repo.Close() })
	return database, repo
}

// seedCategory inserts a category or fails the test.
func seedCategory(t *testing.T, repo *db.Repository, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Icon: "folder", Color: "#888888"}
	if err := repo.CreateCategory(category); err != nil {
		t.Fatalf("CreateCategory(%q) error = %v", name, err)
	}
	return category
}

// seedDocument inserts a document or fails the test.
func seedDocument(t *testing.T, repo *db.Repository, categoryID models.UUID, title string) *models.Document {
	t.Helper()
	doc := &models.Document{Title: title, Content: "content", CategoryID: categoryID}
	if err := repo.CreateDocument(doc); err != nil {
		t.Fatalf("CreateDocument(%q) error = %v", title, err)
	}
	return doc
}

// seedAttachment inserts an attachment row or fails the test.
func seedAttachment(t *testing.T, repo *db.Repository, docID models.UUID, filename, filepath string, size int64) *models.Attachment {
	t.Helper()
	att := &models.Attachment{DocumentID: docID, Filename: filename, Filepath: filepath, Filesize: size}
	if err := repo.CreateAttachment(att); err != nil {
		t.Fatalf("CreateAttachment(%q) error = %v", filename, err)
	}
	return att
}

// TestScope_Validate covers pre-I/O scope validation.
func TestScope_Validate(t *testing.T) {
	tests := []struct {
		name    string
		scope   Scope
		wantErr bool
	}{
		{"complete", CompleteScope(), false},
		{"category with id", CategoryScope("some-id"), false},
		{"document with id", DocumentScope("some-id"), false},
		{"category missing id", Scope{Type: ScopeCategory}, true},
		{"document missing id", Scope{Type: ScopeDocument}, true},
		{"unknown type", Scope{Type: "everything"}, true},
		{"zero value", Scope{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scope.Validate()
			if tt.wantErr && !apperrors.Is(err, apperrors.ErrValidation) {
				t.Errorf("Validate() = %v, want VALIDATION_ERROR", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

// TestResolve_complete verifies the full closure in port order.
func TestResolve_complete(t *testing.T) {
	_, repo := setupTestDB(t)
	catA := seedCategory(t, repo, "A")
	catB := seedCategory(t, repo, "B")
	docA1 := seedDocument(t, repo, catA.ID, "a1")
	docB1 := seedDocument(t, repo, catB.ID, "b1")
	seedAttachment(t, repo, docA1.ID, "one.pdf", "/tmp/one.pdf", 10)
	seedAttachment(t, repo, docB1.ID, "two.pdf", "/tmp/two.pdf", 20)

	set, err := NewResolver(repo).Resolve(CompleteScope())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(set.Categories) != 2 || len(set.Documents) != 2 || len(set.Attachments) != 2 {
		t.Errorf("closure = %d/%d/%d, want 2/2/2",
			len(set.Categories), len(set.Documents), len(set.Attachments))
	}
	if set.Categories[0].Name != "A" || set.Categories[1].Name != "B" {
		t.Error("categories should keep port iteration order")
	}
	if set.Documents[0].Title != "a1" || set.Documents[1].Title != "b1" {
		t.Error("documents should follow their categories' order")
	}
}

// TestResolve_category verifies single-category closure and isolation.
func TestResolve_category(t *testing.T) {
	_, repo := setupTestDB(t)
	catA := seedCategory(t, repo, "A")
	catB := seedCategory(t, repo, "B")
	docA1 := seedDocument(t, repo, catA.ID, "a1")
	seedDocument(t, repo, catA.ID, "a2")
	docB1 := seedDocument(t, repo, catB.ID, "b1")
	seedAttachment(t, repo, docA1.ID, "a.pdf", "/tmp/a.pdf", 10)
	seedAttachment(t, repo, docB1.ID, "b.pdf", "/tmp/b.pdf", 10)

	set, err := NewResolver(repo).Resolve(CategoryScope(catA.ID))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(set.Categories) != 1 || set.Categories[0].ID != catA.ID {
		t.Errorf("categories = %v, want exactly [A]", set.Categories)
	}
	if len(set.Documents) != 2 {
		t.Fatalf("documents = %d, want 2", len(set.Documents))
	}
	for _, doc := range set.Documents {
		if doc.CategoryID != catA.ID {
			t.Errorf("document %q from another category included", doc.Title)
		}
	}
	if len(set.Attachments) != 1 || set.Attachments[0].Filename != "a.pdf" {
		t.Errorf("attachments = %v, want only a.pdf", set.Attachments)
	}
}

// TestResolve_categoryNotFound verifies the fatal not-found path.
func TestResolve_categoryNotFound(t *testing.T) {
	_, repo := setupTestDB(t)

	_, err := NewResolver(repo).Resolve(CategoryScope(models.UUID(uuid.New())))
	if !apperrors.Is(err, apperrors.ErrCategoryNotFound) {
		t.Errorf("Resolve() = %v, want CATEGORY_NOT_FOUND", err)
	}
}

// TestResolve_document verifies document closure includes the owner category.
func TestResolve_document(t *testing.T) {
	_, repo := setupTestDB(t)
	category := seedCategory(t, repo, "Home")
	doc := seedDocument(t, repo, category.ID, "doc")
	seedAttachment(t, repo, doc.ID, "x.png", "/tmp/x.png", 5)
	seedAttachment(t, repo, doc.ID, "y.png", "/tmp/y.png", 5)

	set, err := NewResolver(repo).Resolve(DocumentScope(doc.ID))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(set.Documents) != 1 || set.Documents[0].ID != doc.ID {
		t.Errorf("documents = %v, want exactly the requested one", set.Documents)
	}
	if len(set.Categories) != 1 || set.Categories[0].ID != category.ID {
		t.Errorf("owning category should be included, got %v", set.Categories)
	}
	if len(set.Attachments) != 2 {
		t.Errorf("attachments = %d, want 2", len(set.Attachments))
	}
	if len(set.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", set.Warnings)
	}
}

// TestResolve_documentNotFound verifies the fatal not-found path.
func TestResolve_documentNotFound(t *testing.T) {
	_, repo := setupTestDB(t)

	_, err := NewResolver(repo).Resolve(DocumentScope(models.UUID(uuid.New())))
	if !apperrors.Is(err, apperrors.ErrDocumentNotFound) {
		t.Errorf("Resolve() = %v, want DOCUMENT_NOT_FOUND", err)
	}
}

// TestResolve_documentWithoutOwner verifies a dangling category reference
// is non-fatal: the category set is empty and a warning is recorded.
func TestResolve_documentWithoutOwner(t *testing.T) {
	database, repo := setupTestDB(t)
	category := seedCategory(t, repo, "Gone")
	doc := seedDocument(t, repo, category.ID, "orphan")
	seedAttachment(t, repo, doc.ID, "z.txt", "/tmp/z.txt", 1)

	// Orphan the document by removing its category with constraints off,
	// simulating a reference that went stale.
	if _, err := database.Exec("PRAGMA foreign_keys=OFF;"); err != nil {
		t.Fatalf("failed to disable foreign keys: %v", err)
	}
	if _, err := database.Exec("DELETE FROM categories WHERE id = ?", category.ID); err != nil {
		t.Fatalf("failed to delete category: %v", err)
	}

	set, err := NewResolver(repo).Resolve(DocumentScope(doc.ID))
	if err != nil {
		t.Fatalf("Resolve() error = %v, want success", err)
	}
	if len(set.Categories) != 0 {
		t.Errorf("categories = %v, want empty", set.Categories)
	}
	if len(set.Documents) != 1 || len(set.Attachments) != 1 {
		t.Errorf("document and attachments should still resolve, got %d/%d",
			len(set.Documents), len(set.Attachments))
	}
	if len(set.Warnings) != 1 {
		t.Errorf("warnings = %v, want one about the missing owner", set.Warnings)
	}
}

// TestResolve_emptyDatabase verifies the idempotent no-op shape.
func TestResolve_emptyDatabase(t *testing.T) {
	_, repo := setupTestDB(t)

	set, err := NewResolver(repo).Resolve(CompleteScope())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(set.Categories) != 0 || len(set.Documents) != 0 || len(set.Attachments) != 0 {
		t.Errorf("empty database should resolve to zero counts, got %d/%d/%d",
			len(set.Categories), len(set.Documents), len(set.Attachments))
	}
}
