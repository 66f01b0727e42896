package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docnest/docnest/internal/models"
)

// TestMockEngine_export verifies the mock records its inputs and writes
// a placeholder artifact.
func TestMockEngine_export(t *testing.T) {
	mock := NewMockEngine()
	destPath := filepath.Join(t.TempDir(), "mock.tar.gz")

	rec := &eventRecorder{}
	result, err := mock.ExportArchive(context.Background(), destPath, CompleteScope(), rec.sink())
	if err != nil {
		t.Fatalf("ExportArchive() error = %v", err)
	}
	if result.ArchivePath != destPath {
		t.Errorf("ArchivePath = %q", result.ArchivePath)
	}
	if _, err := os.Stat(destPath); err != nil {
		t.Errorf("placeholder file missing: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("CallCount() = %d, want 1", mock.CallCount())
	}
	if mock.LastScope().Type != ScopeComplete || mock.LastDest() != destPath {
		t.Error("mock should record the last scope and destination")
	}
	if len(rec.events) != 1 || rec.events[0].Phase != PhaseComplete {
		t.Errorf("events = %+v, want one terminal event", rec.events)
	}
}

// TestMockEngine_failure verifies the configured failure mode.
func TestMockEngine_failure(t *testing.T) {
	mock := NewMockEngine()
	mock.SetShouldSucceed(false)

	if _, err := mock.ExportArchive(context.Background(),
		filepath.Join(t.TempDir(), "f.tar.gz"), CompleteScope(), nil); err == nil {
		t.Error("ExportArchive() should fail when configured to")
	}
	if _, err := mock.GetExportStats(CompleteScope()); err == nil {
		t.Error("GetExportStats() should fail when configured to")
	}
}

// TestMockEngine_stats verifies stat configuration round-trips.
func TestMockEngine_stats(t *testing.T) {
	mock := NewMockEngine()
	mock.SetStats(&models.ExportStats{DocumentCount: 7, SelectionLabel: "Category: X"})

	stats, err := mock.GetExportStats(CategoryScope("x"))
	if err != nil {
		t.Fatalf("GetExportStats() error = %v", err)
	}
	if stats.DocumentCount != 7 || stats.SelectionLabel != "Category: X" {
		t.Errorf("stats = %+v", stats)
	}
	if mock.LastScope().Type != ScopeCategory {
		t.Error("mock should record the stats scope")
	}
}
