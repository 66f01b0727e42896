package export

import (
	"context"
	"fmt"
	"time"

	"github.com/docnest/docnest/internal/db"
	apperrors "github.com/docnest/docnest/internal/errors"
	"github.com/docnest/docnest/internal/logging"
	"github.com/docnest/docnest/internal/models"
)

// Config holds export engine configuration.
type Config struct {
	// StagingRoot provides the directory workspaces are created under.
	// Defaults to TempRoot when nil.
	StagingRoot RootProvider
	// ExcludePatterns are doublestar globs; matching attachments are
	// indexed but not copied.
	ExcludePatterns []string
	// History, when set, records each completed export. Optional.
	History db.ExportHistoryStore
}

// Service is the export engine. One ExportArchive call runs its phases
// strictly in order: resolve, stage, copy, write manifests, archive.
// Concurrent calls are safe; each allocates its own workspace. Callers
// are responsible for not pointing two concurrent exports at the same
// destination path.
type Service struct {
	resolver    *Resolver
	stagingRoot RootProvider
	copier      *Materializer
	history     db.ExportHistoryStore
}

// NewService creates an export engine over the given data access port.
func NewService(data db.DataReader, cfg Config) *Service {
	root := cfg.StagingRoot
	if root == nil {
		root = TempRoot()
	}
	return &Service{
		resolver:    NewResolver(data),
		stagingRoot: root,
		copier:      NewMaterializer(cfg.ExcludePatterns),
		history:     cfg.History,
	}
}

// Result reports a completed export.
type Result struct {
	ArchivePath     string        `json:"archive_path"`
	SizeBytes       int64         `json:"size_bytes"`
	Checksum        string        `json:"checksum"`
	CategoryCount   int           `json:"category_count"`
	DocumentCount   int           `json:"document_count"`
	AttachmentCount int           `json:"attachment_count"`
	CopiedCount     int           `json:"copied_count"`
	Warnings        []string      `json:"warnings,omitempty"`
	Duration        time.Duration `json:"duration"`
}

// ExportArchive produces a single tar.gz archive at destPath covering
// the scope, emitting progress through sink. Attachment-level problems
// are warnings on the Result; everything else is fatal and wrapped.
// Cancellation is honored between phases and between attachments; the
// staging workspace is always discarded.
func (s *Service) ExportArchive(ctx context.Context, destPath string, scope Scope, sink Sink) (*Result, error) {
	start := time.Now()

	result, err := s.export(ctx, destPath, scope, sink)
	if err != nil {
		// Terminal event for failures carries its own phase so a
		// progress-only consumer never reads a failed run as 100%.
		sink.emit(Event{
			Phase:   PhaseFailed,
			Message: "Export failed",
		})
		return nil, apperrors.Wrap(apperrors.ErrExportFailed, "export failed", err)
	}

	result.Duration = time.Since(start)
	sink.emit(Event{
		Phase:    PhaseComplete,
		Progress: 100,
		Message:  fmt.Sprintf("Export complete: %s", destPath),
	})
	return result, nil
}

// export runs the phases; ExportArchive wraps its errors and emits the
// terminal event.
func (s *Service) export(ctx context.Context, destPath string, scope Scope, sink Sink) (*Result, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	sink.emit(Event{
		Phase:    PhaseCollecting,
		Progress: 0,
		Message:  "Collecting records",
	})

	set, err := s.resolver.Resolve(scope)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sink.emit(Event{
		Phase:    PhaseCollecting,
		Progress: progressCollectingEnd,
		Message: fmt.Sprintf("Collected %d categories, %d documents, %d attachments",
			len(set.Categories), len(set.Documents), len(set.Attachments)),
	})

	ws, err := NewWorkspace(s.stagingRoot)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Remove(); err != nil {
			logging.Warn("failed to remove staging workspace", map[string]interface{}{
				"workspace": ws.Path(),
			})
		}
	}()

	total := len(set.Attachments)
	outcome, err := s.copier.Copy(ctx, ws, set.Attachments, func(attempted int, att *models.Attachment) {
		sink.emit(Event{
			Phase:       PhaseCopying,
			Progress:    copyingProgress(attempted, total),
			CurrentItem: att.Filename,
			Message:     fmt.Sprintf("Copying attachments (%d/%d)", attempted, total),
		})
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := WriteManifests(ws, set, outcome.Entries, scope, time.Now()); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sink.emit(Event{
		Phase:    PhaseArchiving,
		Progress: progressCopyingEnd,
		Message:  "Creating archive",
	})

	size, checksum, err := CreateArchive(ws.Path(), destPath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ArchivePath:     destPath,
		SizeBytes:       size,
		Checksum:        checksum,
		CategoryCount:   len(set.Categories),
		DocumentCount:   len(set.Documents),
		AttachmentCount: len(set.Attachments),
		CopiedCount:     outcome.CopiedCount,
		Warnings:        append(set.Warnings, outcome.Warnings...),
	}

	s.recordHistory(scope, result)

	logging.Info("export completed", map[string]interface{}{
		"archive":     destPath,
		"size_bytes":  size,
		"attachments": result.AttachmentCount,
		"copied":      result.CopiedCount,
		"warnings":    len(result.Warnings),
	})

	return result, nil
}

// recordHistory persists an export record when a history store is
// configured. History failures are logged, never fatal.
func (s *Service) recordHistory(scope Scope, result *Result) {
	if s.history == nil {
		return
	}
	record := &models.ExportRecord{
		ArchivePath:     result.ArchivePath,
		Checksum:        result.Checksum,
		SizeBytes:       result.SizeBytes,
		CategoryCount:   result.CategoryCount,
		DocumentCount:   result.DocumentCount,
		AttachmentCount: result.AttachmentCount,
		ScopeType:       string(scope.Type),
	}
	if err := s.history.CreateExportRecord(record); err != nil {
		logging.Warn("failed to record export history", map[string]interface{}{
			"archive": result.ArchivePath,
		})
	}
}
