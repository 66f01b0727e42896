// Package db tests for connection management.
package db

import (
	"os"
	"path/filepath"
	"testing"
)

// TestOpen_createsDataDir verifies Open creates the data directory and file.
func TestOpen_createsDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")

	database, err := Open(dataDir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer database.Close()

	if _, err := os.Stat(filepath.Join(dataDir, "docnest.db")); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

// TestOpen_pragmas verifies WAL mode and foreign keys are enabled.
func TestOpen_pragmas(t *testing.T) {
	database, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer database.Close()

	var journalMode string
	if err := database.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("failed to query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %q, want wal", journalMode)
	}

	var foreignKeys int
	if err := database.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		t.Fatalf("failed to query foreign_keys: %v", err)
	}
	if foreignKeys != 1 {
		t.Errorf("foreign_keys = %d, want 1", foreignKeys)
	}
}

// TestOpen_reopen verifies a database survives close and reopen.
func TestOpen_reopen(t *testing.T) {
	dataDir := t.TempDir()

	database, err := Open(dataDir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := database.Exec("CREATE TABLE probe (id INTEGER)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	database.Close()

	database, err = Open(dataDir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer database.Close()

	var count int
	err = database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'probe'").Scan(&count)
	if err != nil {
		t.Fatalf("failed to query schema: %v", err)
	}
	if count != 1 {
		t.Error("table created before close should survive reopen")
	}
}
