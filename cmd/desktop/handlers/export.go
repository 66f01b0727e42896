// Package handlers provides REST API handlers for archive exports.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/docnest/docnest/internal/db"
	apperrors "github.com/docnest/docnest/internal/errors"
	"github.com/docnest/docnest/internal/export"
	"github.com/docnest/docnest/internal/models"
)

// ExportNotifier pushes export lifecycle events to connected clients.
// The WebSocket hub implements it; a nil notifier disables pushes.
type ExportNotifier interface {
	BroadcastExportStarted(scopeType string)
	BroadcastExportProgress(phase string, percent int, currentItem string)
	BroadcastExportCompleted(archivePath string, sizeBytes int64, checksum string)
	BroadcastExportFailed(errMsg string)
}

// ExportHandler handles export operations.
type ExportHandler struct {
	engine    export.Engine
	history   db.ExportHistoryStore
	notifier  ExportNotifier
	exportDir string
}

// NewExportHandler creates a new ExportHandler. history and notifier
// may be nil.
func NewExportHandler(engine export.Engine, history db.ExportHistoryStore, notifier ExportNotifier, exportDir string) *ExportHandler {
	return &ExportHandler{
		engine:    engine,
		history:   history,
		notifier:  notifier,
		exportDir: exportDir,
	}
}

// ExportRequest represents the export request body.
type ExportRequest struct {
	Scope      string      `json:"scope"`                 // complete | category | document
	CategoryID models.UUID `json:"category_id,omitempty"` // required for scope=category
	DocumentID models.UUID `json:"document_id,omitempty"` // required for scope=document
	OutputPath string      `json:"output_path,omitempty"` // optional custom destination
}

// scopeFromRequest maps request fields onto an export scope. A missing
// scope defaults to a complete export.
func scopeFromRequest(req ExportRequest) export.Scope {
	switch export.ScopeType(req.Scope) {
	case export.ScopeCategory:
		return export.CategoryScope(req.CategoryID)
	case export.ScopeDocument:
		return export.DocumentScope(req.DocumentID)
	case export.ScopeComplete, "":
		return export.CompleteScope()
	default:
		return export.Scope{Type: export.ScopeType(req.Scope)}
	}
}

// Export handles POST /api/export
// Runs the export synchronously; progress goes out over the notifier
// while the request is in flight.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.ErrInvalid, "invalid request body"))
		return
	}

	scope := scopeFromRequest(req)
	if err := scope.Validate(); err != nil {
		writeError(w, err)
		return
	}

	destPath := req.OutputPath
	if destPath == "" {
		name := fmt.Sprintf("docnest-export-%s.tar.gz", time.Now().Format("20060102-150405"))
		destPath = filepath.Join(h.exportDir, name)
	}

	if h.notifier != nil {
		h.notifier.BroadcastExportStarted(string(scope.Type))
	}

	var sink export.Sink
	if h.notifier != nil {
		sink = func(ev export.Event) {
			h.notifier.BroadcastExportProgress(string(ev.Phase), ev.Progress, ev.CurrentItem)
		}
	}

	result, err := h.engine.ExportArchive(r.Context(), destPath, scope, sink)
	if err != nil {
		if h.notifier != nil {
			h.notifier.BroadcastExportFailed(err.Error())
		}
		writeError(w, err)
		return
	}

	if h.notifier != nil {
		h.notifier.BroadcastExportCompleted(result.ArchivePath, result.SizeBytes, result.Checksum)
	}
	writeJSON(w, http.StatusOK, result)
}

// Stats handles GET /api/export/stats
// Query parameters mirror the export request: scope, category_id,
// document_id.
func (h *ExportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scope := scopeFromRequest(ExportRequest{
		Scope:      q.Get("scope"),
		CategoryID: models.UUID(q.Get("category_id")),
		DocumentID: models.UUID(q.Get("document_id")),
	})
	if err := scope.Validate(); err != nil {
		writeError(w, err)
		return
	}

	stats, err := h.engine.GetExportStats(scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// History handles GET /api/export/history
func (h *ExportHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusOK, []*models.ExportRecord{})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, apperrors.New(apperrors.ErrValidation, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	records, err := h.history.ListExportRecords(limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []*models.ExportRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
