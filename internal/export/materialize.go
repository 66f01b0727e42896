package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/docnest/docnest/internal/logging"
	"github.com/docnest/docnest/internal/models"
)

// CopyOutcome reports one materialization pass: the index entries for
// every resolved attachment (copied or not) and the warnings collected
// for the ones that could not be copied.
type CopyOutcome struct {
	Entries     []models.AttachmentIndexEntry
	CopiedCount int
	Warnings    []string
}

// Materializer copies resolved attachments into a staging workspace.
// Per-file problems never abort the pass; they are recorded as warnings
// and reflected in the entry status.
type Materializer struct {
	excludePatterns []string
}

// NewMaterializer creates a Materializer. excludePatterns are doublestar
// globs matched against each attachment's export path and bare filename;
// matches are listed in the index but not copied.
func NewMaterializer(excludePatterns []string) *Materializer {
	return &Materializer{excludePatterns: excludePatterns}
}

// Copy materializes attachments under ws in resolution order, invoking
// progress after every attempt. It fails only on context cancellation.
func (m *Materializer) Copy(ctx context.Context, ws *Workspace, attachments []*models.Attachment, progress func(attempted int, att *models.Attachment)) (*CopyOutcome, error) {
	outcome := &CopyOutcome{
		Entries: make([]models.AttachmentIndexEntry, 0, len(attachments)),
	}

	for i, att := range attachments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry := models.AttachmentIndexEntry{
			Attachment:   *att,
			ExportPath:   exportPath(att),
			OriginalPath: att.Filepath,
		}
		entry.Status = m.copyOne(ws, att, entry.ExportPath, outcome)
		if entry.Status == models.AttachmentCopied {
			outcome.CopiedCount++
		}
		outcome.Entries = append(outcome.Entries, entry)

		if progress != nil {
			progress(i+1, att)
		}
	}

	return outcome, nil
}

// copyOne attempts one attachment and returns its status.
func (m *Materializer) copyOne(ws *Workspace, att *models.Attachment, relPath string, outcome *CopyOutcome) models.AttachmentStatus {
	if m.isExcluded(relPath, att.Filename) {
		logging.Debug("attachment excluded by pattern", map[string]interface{}{
			"attachment_id": att.ID.String(),
			"filename":      att.Filename,
		})
		return models.AttachmentExcluded
	}

	if _, err := os.Stat(att.Filepath); err != nil {
		warn := fmt.Sprintf("attachment %s source file missing: %s", att.ID, att.Filepath)
		outcome.Warnings = append(outcome.Warnings, warn)
		logging.Warn("attachment source file missing, skipping", map[string]interface{}{
			"attachment_id": att.ID.String(),
			"filepath":      att.Filepath,
		})
		return models.AttachmentMissingSource
	}

	dest := filepath.Join(ws.Path(), filepath.FromSlash(relPath))
	if err := copyFile(att.Filepath, dest); err != nil {
		warn := fmt.Sprintf("attachment %s copy failed: %v", att.ID, err)
		outcome.Warnings = append(outcome.Warnings, warn)
		logging.Warn("attachment copy failed, skipping", map[string]interface{}{
			"attachment_id": att.ID.String(),
			"filepath":      att.Filepath,
		})
		return models.AttachmentCopyFailed
	}

	return models.AttachmentCopied
}

// isExcluded reports whether any exclude pattern matches the export
// path or the bare filename.
func (m *Materializer) isExcluded(relPath, filename string) bool {
	for _, pattern := range m.excludePatterns {
		if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, filename); err == nil && ok {
			return true
		}
	}
	return false
}

// exportPath is the deterministic per-document subpath an attachment
// gets inside the archive, always slash-separated. The filename is
// reduced to its base name so a stored name carrying path separators
// or ".." segments can never place a file outside the workspace.
func exportPath(att *models.Attachment) string {
	return path.Join(attachmentsDirName, "doc-"+att.DocumentID.String(), safeFilename(att))
}

// safeFilename strips any directory components from the stored
// filename. Names that reduce to nothing fall back to the attachment ID.
func safeFilename(att *models.Attachment) string {
	name := path.Base(filepath.ToSlash(att.Filename))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "attachment-" + att.ID.String()
	}
	return name
}

// copyFile copies src to dst byte-for-byte, creating intermediate
// directories as needed.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
