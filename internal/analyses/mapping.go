package analyses

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/vantrel/medscan/pkg/query"
	"github.com/vantrel/medscan/pkg/repository"
)

func projection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "analyses", "a").
		Project("id", "ID").
		Project("scan_id", "ScanID").
		Project("category", "Category").
		Project("frame_index", "FrameIndex").
		Project("status", "Status").
		Project("content", "Content").
		Project("error_category", "ErrorCategory").
		Project("error_message", "ErrorMessage").
		Project("model_name", "ModelName").
		Project("created_at", "CreatedAt").
		Join("public", "scans", "s", "INNER JOIN", "a.scan_id = s.id").
		Project("filename", "Filename")
}

var defaultSort = []query.SortField{
	{Field: "CreatedAt", Descending: true},
}

// Filters narrows analysis listings.
type Filters struct {
	ScanID   *uuid.UUID `json:"scan_id,omitempty"`
	Category *string    `json:"category,omitempty"`
	Status   *string    `json:"status,omitempty"`
}

// FiltersFromQuery extracts analysis filters from URL query values.
func FiltersFromQuery(values url.Values) Filters {
	var filters Filters

	if raw := values.Get("scan_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filters.ScanID = &id
		}
	}
	if category := values.Get("category"); category != "" {
		filters.Category = &category
	}
	if status := values.Get("status"); status != "" {
		filters.Status = &status
	}

	return filters
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var analysis Analysis
	err := s.Scan(
		&analysis.ID,
		&analysis.ScanID,
		&analysis.Category,
		&analysis.FrameIndex,
		&analysis.Status,
		&analysis.Content,
		&analysis.ErrorCategory,
		&analysis.ErrorMessage,
		&analysis.ModelName,
		&analysis.CreatedAt,
		&analysis.Filename,
	)
	return analysis, err
}
