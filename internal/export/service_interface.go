package export

import (
	"context"

	"github.com/docnest/docnest/internal/models"
)

// Engine is the export engine surface consumed by the desktop handlers
// and the CLI. It allows mocking for testing.
type Engine interface {
	// ExportArchive produces one archive at destPath for the scope.
	ExportArchive(ctx context.Context, destPath string, scope Scope, sink Sink) (*Result, error)

	// GetExportStats previews an export without performing one.
	GetExportStats(scope Scope) (*models.ExportStats, error)
}

// Ensure *Service implements the interface at compile time.
var _ Engine = (*Service)(nil)
