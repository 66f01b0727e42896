package export

import (
	"fmt"

	"github.com/docnest/docnest/internal/models"
)

// GetExportStats previews a prospective export: record counts and the
// summed attachment sizes, without creating a workspace or touching any
// file. Safe to call repeatedly and concurrently with a running export.
func (s *Service) GetExportStats(scope Scope) (*models.ExportStats, error) {
	set, err := s.resolver.Resolve(scope)
	if err != nil {
		return nil, err
	}

	var estimated int64
	for _, att := range set.Attachments {
		estimated += att.Filesize
	}

	return &models.ExportStats{
		CategoryCount:      len(set.Categories),
		DocumentCount:      len(set.Documents),
		AttachmentCount:    len(set.Attachments),
		EstimatedSizeBytes: estimated,
		SelectionLabel:     selectionLabel(scope, set),
	}, nil
}

// selectionLabel is the human-oriented description of what a scope covers.
func selectionLabel(scope Scope, set *ResolvedSet) string {
	switch scope.Type {
	case ScopeCategory:
		if len(set.Categories) > 0 {
			return fmt.Sprintf("Category: %s", set.Categories[0].Name)
		}
		return fmt.Sprintf("Category: %s", scope.CategoryID)
	case ScopeDocument:
		if len(set.Documents) > 0 {
			return fmt.Sprintf("Document: %s", set.Documents[0].Title)
		}
		return fmt.Sprintf("Document: %s", scope.DocumentID)
	default:
		return "Complete archive"
	}
}
