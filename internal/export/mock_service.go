// Mock engine implementation for handler tests.
package export

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/docnest/docnest/internal/models"
)

// MockEngine is a mock implementation of Engine for testing.
type MockEngine struct {
	mu            sync.Mutex
	shouldSucceed bool
	stats         *models.ExportStats
	lastScope     Scope
	lastDest      string
	callCount     int
}

// NewMockEngine creates a mock engine that succeeds by default.
func NewMockEngine() *MockEngine {
	return &MockEngine{
		shouldSucceed: true,
		stats:         &models.ExportStats{SelectionLabel: "Complete archive"},
	}
}

// ExportArchive performs a mock export, writing a placeholder file at
// destPath and emitting a single terminal progress event.
func (m *MockEngine) ExportArchive(ctx context.Context, destPath string, scope Scope, sink Sink) (*Result, error) {
	m.mu.Lock()
	m.callCount++
	m.lastScope = scope
	m.lastDest = destPath
	succeed := m.shouldSucceed
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !succeed {
		return nil, fmt.Errorf("mock export failed")
	}

	if err := os.WriteFile(destPath, []byte("mock export data"), 0644); err != nil {
		return nil, fmt.Errorf("failed to create mock export file: %w", err)
	}

	sink.emit(Event{Phase: PhaseComplete, Progress: 100, Message: "Export complete"})

	return &Result{
		ArchivePath: destPath,
		SizeBytes:   16,
		Checksum:    "mock-checksum",
	}, nil
}

// GetExportStats returns the configured stats.
func (m *MockEngine) GetExportStats(scope Scope) (*models.ExportStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastScope = scope
	if !m.shouldSucceed {
		return nil, fmt.Errorf("mock stats failed")
	}
	return m.stats, nil
}

// SetShouldSucceed controls whether mock calls succeed.
func (m *MockEngine) SetShouldSucceed(shouldSucceed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldSucceed = shouldSucceed
}

// SetStats sets the stats returned by GetExportStats.
func (m *MockEngine) SetStats(stats *models.ExportStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = stats
}

// CallCount returns the number of ExportArchive calls.
func (m *MockEngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastScope returns the scope passed to the most recent call.
func (m *MockEngine) LastScope() Scope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastScope
}

// LastDest returns the destination passed to the most recent export.
func (m *MockEngine) LastDest() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastDest
}

// Ensure MockEngine implements the interface at compile time.
var _ Engine = (*MockEngine)(nil)
