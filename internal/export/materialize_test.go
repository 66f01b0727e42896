// Package export tests for attachment materialization.
package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docnest/docnest/internal/models"
)

// newTestWorkspace allocates a workspace under a test temp dir.
func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws, err := NewWorkspace(DataDirRoot(t.TempDir()))
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}
	t.Cleanup(func() { ws.Remove() })
	return ws
}

// writeSourceFile creates an attachment source file with content.
func writeSourceFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}
	return path
}

// TestCopy_success verifies files land under attachments/doc-{id}/.
func TestCopy_success(t *testing.T) {
	ws := newTestWorkspace(t)
	srcDir := t.TempDir()

	att := &models.Attachment{
		ID:         "att-1",
		DocumentID: "doc-1",
		Filename:   "report.pdf",
		Filepath:   writeSourceFile(t, srcDir, "report.pdf", "pdf bytes"),
		Filesize:   9,
	}

	outcome, err := NewMaterializer(nil).Copy(context.Background(), ws, []*models.Attachment{att}, nil)
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if outcome.CopiedCount != 1 {
		t.Errorf("CopiedCount = %d, want 1", outcome.CopiedCount)
	}
	if len(outcome.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", outcome.Warnings)
	}

	entry := outcome.Entries[0]
	if entry.Status != models.AttachmentCopied {
		t.Errorf("Status = %q, want copied", entry.Status)
	}
	if entry.ExportPath != "attachments/doc-doc-1/report.pdf" {
		t.Errorf("ExportPath = %q", entry.ExportPath)
	}
	if entry.OriginalPath != att.Filepath {
		t.Errorf("OriginalPath = %q, want source path preserved", entry.OriginalPath)
	}

	copied, err := os.ReadFile(filepath.Join(ws.Path(), "attachments", "doc-doc-1", "report.pdf"))
	if err != nil {
		t.Fatalf("copied file missing: %v", err)
	}
	if string(copied) != "pdf bytes" {
		t.Errorf("copied content = %q", copied)
	}
}

// TestCopy_missingSource verifies a deleted source file is tolerated.
func TestCopy_missingSource(t *testing.T) {
	ws := newTestWorkspace(t)
	srcDir := t.TempDir()

	present := &models.Attachment{
		ID: "att-ok", DocumentID: "d1", Filename: "ok.txt",
		Filepath: writeSourceFile(t, srcDir, "ok.txt", "fine"),
	}
	missing := &models.Attachment{
		ID: "att-gone", DocumentID: "d1", Filename: "gone.txt",
		Filepath: filepath.Join(srcDir, "never-existed.txt"),
	}

	outcome, err := NewMaterializer(nil).Copy(context.Background(), ws, []*models.Attachment{missing, present}, nil)
	if err != nil {
		t.Fatalf("Copy() error = %v, missing source must not abort", err)
	}
	if outcome.CopiedCount != 1 {
		t.Errorf("CopiedCount = %d, want 1", outcome.CopiedCount)
	}
	if len(outcome.Entries) != 2 {
		t.Fatalf("all resolved attachments should stay in the index, got %d", len(outcome.Entries))
	}
	if outcome.Entries[0].Status != models.AttachmentMissingSource {
		t.Errorf("missing entry status = %q", outcome.Entries[0].Status)
	}
	if outcome.Entries[0].OriginalPath != missing.Filepath {
		t.Error("original path must be preserved for missing sources")
	}
	if len(outcome.Warnings) != 1 {
		t.Errorf("Warnings = %v, want exactly one", outcome.Warnings)
	}
	if _, err := os.Stat(filepath.Join(ws.AttachmentsDir(), "doc-d1", "gone.txt")); !os.IsNotExist(err) {
		t.Error("missing source should not produce a staged file")
	}
}

// TestCopy_excludePatterns verifies doublestar excludes skip the copy
// but keep the index entry.
func TestCopy_excludePatterns(t *testing.T) {
	ws := newTestWorkspace(t)
	srcDir := t.TempDir()

	junk := &models.Attachment{
		ID: "att-junk", DocumentID: "d1", Filename: ".DS_Store",
		Filepath: writeSourceFile(t, srcDir, ".DS_Store", "junk"),
	}
	keep := &models.Attachment{
		ID: "att-keep", DocumentID: "d1", Filename: "keep.txt",
		Filepath: writeSourceFile(t, srcDir, "keep.txt", "keep"),
	}

	m := NewMaterializer([]string{"**/.DS_Store"})
	outcome, err := m.Copy(context.Background(), ws, []*models.Attachment{junk, keep}, nil)
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if outcome.CopiedCount != 1 {
		t.Errorf("CopiedCount = %d, want 1", outcome.CopiedCount)
	}
	if outcome.Entries[0].Status != models.AttachmentExcluded {
		t.Errorf("excluded entry status = %q", outcome.Entries[0].Status)
	}
	if _, err := os.Stat(filepath.Join(ws.AttachmentsDir(), "doc-d1", ".DS_Store")); !os.IsNotExist(err) {
		t.Error("excluded file should not be copied")
	}
}

// TestCopy_progress verifies one event per attempt with the filename.
func TestCopy_progress(t *testing.T) {
	ws := newTestWorkspace(t)
	srcDir := t.TempDir()

	attachments := []*models.Attachment{
		{ID: "a1", DocumentID: "d1", Filename: "one.txt", Filepath: writeSourceFile(t, srcDir, "one.txt", "1")},
		{ID: "a2", DocumentID: "d1", Filename: "two.txt", Filepath: filepath.Join(srcDir, "absent.txt")},
		{ID: "a3", DocumentID: "d2", Filename: "three.txt", Filepath: writeSourceFile(t, srcDir, "three.txt", "3")},
	}

	var attempts []int
	var names []string
	_, err := NewMaterializer(nil).Copy(context.Background(), ws, attachments, func(attempted int, att *models.Attachment) {
		attempts = append(attempts, attempted)
		names = append(names, att.Filename)
	})
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	if len(attempts) != 3 {
		t.Fatalf("progress called %d times, want 3 (success and skip alike)", len(attempts))
	}
	for i, attempted := range attempts {
		if attempted != i+1 {
			t.Errorf("attempts[%d] = %d, want cumulative count %d", i, attempted, i+1)
		}
	}
	if names[1] != "two.txt" {
		t.Errorf("progress should carry the current filename, got %v", names)
	}
}

// TestCopy_traversalFilename verifies a stored filename carrying ".."
// segments stages under the workspace with the base name only.
func TestCopy_traversalFilename(t *testing.T) {
	dataDir := t.TempDir()
	ws, err := NewWorkspace(DataDirRoot(dataDir))
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}
	t.Cleanup(func() { ws.Remove() })

	srcDir := t.TempDir()
	att := &models.Attachment{
		ID:         "att-esc",
		DocumentID: "d1",
		Filename:   "../../../escaped.txt",
		Filepath:   writeSourceFile(t, srcDir, "escaped.txt", "payload"),
	}

	outcome, err := NewMaterializer(nil).Copy(context.Background(), ws, []*models.Attachment{att}, nil)
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	entry := outcome.Entries[0]
	if entry.Status != models.AttachmentCopied {
		t.Errorf("Status = %q, want copied", entry.Status)
	}
	if entry.ExportPath != "attachments/doc-d1/escaped.txt" {
		t.Errorf("ExportPath = %q, want base name under the document dir", entry.ExportPath)
	}

	staged := filepath.Join(ws.AttachmentsDir(), "doc-d1", "escaped.txt")
	if _, err := os.Stat(staged); err != nil {
		t.Errorf("staged copy missing inside the workspace: %v", err)
	}
	for _, outside := range []string{
		filepath.Join(dataDir, "staging", "escaped.txt"),
		filepath.Join(dataDir, "escaped.txt"),
	} {
		if _, err := os.Stat(outside); !os.IsNotExist(err) {
			t.Errorf("file escaped the workspace: %s", outside)
		}
	}
}

// TestCopy_degenerateFilename verifies names that reduce to nothing
// fall back to an ID-derived name instead of colliding or escaping.
func TestCopy_degenerateFilename(t *testing.T) {
	ws := newTestWorkspace(t)
	srcDir := t.TempDir()

	att := &models.Attachment{
		ID:         "att-dot",
		DocumentID: "d1",
		Filename:   "..",
		Filepath:   writeSourceFile(t, srcDir, "dot.txt", "dots"),
	}

	outcome, err := NewMaterializer(nil).Copy(context.Background(), ws, []*models.Attachment{att}, nil)
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	entry := outcome.Entries[0]
	if entry.Status != models.AttachmentCopied {
		t.Errorf("Status = %q, want copied", entry.Status)
	}
	if entry.ExportPath != "attachments/doc-d1/attachment-att-dot" {
		t.Errorf("ExportPath = %q, want ID-derived fallback", entry.ExportPath)
	}
	if _, err := os.Stat(filepath.Join(ws.AttachmentsDir(), "doc-d1", "attachment-att-dot")); err != nil {
		t.Errorf("staged copy missing: %v", err)
	}
}

// TestCopy_canceled verifies cancellation stops between attachments.
func TestCopy_canceled(t *testing.T) {
	ws := newTestWorkspace(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attachments := []*models.Attachment{
		{ID: "a1", DocumentID: "d1", Filename: "x.txt", Filepath: "/nope"},
	}
	_, err := NewMaterializer(nil).Copy(ctx, ws, attachments, nil)
	if err == nil {
		t.Error("Copy() with canceled context should fail")
	}
}
