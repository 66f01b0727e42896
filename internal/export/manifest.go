package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/docnest/docnest/internal/errors"
	"github.com/docnest/docnest/internal/models"
)

// Manifest file names inside the staging workspace (and the archive).
const (
	MetadataFile    = "metadata.json"
	CategoriesFile  = "categories.json"
	DocumentsFile   = "documents.json"
	AttachmentsFile = "attachments.json"
	ContextFile     = "export-context.json"
)

// WriteManifests serializes the five companion documents into the
// workspace: global metadata, the category and document lists, the
// attachment index, and the selection-context summary. Each file is
// written in one call; any write failure is fatal for the export.
func WriteManifests(ws *Workspace, set *ResolvedSet, entries []models.AttachmentIndexEntry, scope Scope, exportedAt time.Time) error {
	date := exportedAt.UTC().Format(time.RFC3339)

	metadata := models.ExportMetadata{
		Version:          models.ExportFormatVersion,
		ExportDate:       date,
		TotalCategories:  len(set.Categories),
		TotalDocuments:   len(set.Documents),
		TotalAttachments: len(set.Attachments),
		ExportType:       string(scope.Type),
		CategoryID:       scope.CategoryID,
		DocumentID:       scope.DocumentID,
	}

	context := models.ExportContext{
		ExportType:      string(scope.Type),
		ExportDate:      date,
		CategoryID:      scope.CategoryID,
		DocumentID:      scope.DocumentID,
		Categories:      make([]models.ContextCategory, 0, len(set.Categories)),
		Documents:       make([]models.ContextDocument, 0, len(set.Documents)),
		AttachmentCount: len(set.Attachments),
	}
	for _, category := range set.Categories {
		context.Categories = append(context.Categories, models.ContextCategory{
			ID:   category.ID,
			Name: category.Name,
		})
	}
	for _, doc := range set.Documents {
		context.Documents = append(context.Documents, models.ContextDocument{
			ID:         doc.ID,
			Title:      doc.Title,
			CategoryID: doc.CategoryID,
		})
	}

	// Empty sets serialize as [] rather than null.
	categories := set.Categories
	if categories == nil {
		categories = []*models.Category{}
	}
	documents := set.Documents
	if documents == nil {
		documents = []*models.Document{}
	}
	if entries == nil {
		entries = []models.AttachmentIndexEntry{}
	}

	manifests := []struct {
		name string
		data interface{}
	}{
		{MetadataFile, metadata},
		{CategoriesFile, categories},
		{DocumentsFile, documents},
		{AttachmentsFile, entries},
		{ContextFile, context},
	}
	for _, manifest := range manifests {
		if err := writeJSON(filepath.Join(ws.Path(), manifest.name), manifest.data); err != nil {
			return apperrors.Wrap(apperrors.ErrManifestFailed, "failed to write "+manifest.name, err)
		}
	}

	return nil
}

// writeJSON writes v as two-space-indented UTF-8 JSON in a single call.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
