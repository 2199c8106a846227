package scans

import (
	"net/url"

	"github.com/vantrel/medscan/pkg/query"
	"github.com/vantrel/medscan/pkg/repository"
)

func projection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "scans", "s").
		Project("id", "ID").
		Project("filename", "Filename").
		Project("content_type", "ContentType").
		Project("kind", "Kind").
		Project("byte_size", "ByteSize").
		Project("frame_count", "FrameCount").
		Project("width", "Width").
		Project("height", "Height").
		Project("storage_key", "StorageKey").
		Project("uploaded_at", "UploadedAt")
}

var defaultSort = []query.SortField{
	{Field: "UploadedAt", Descending: true},
}

// Filters narrows scan listings.
type Filters struct {
	Kind *string `json:"kind,omitempty"`
}

// FiltersFromQuery extracts scan filters from URL query values.
func FiltersFromQuery(values url.Values) Filters {
	var filters Filters
	if kind := values.Get("kind"); kind != "" {
		filters.Kind = &kind
	}
	return filters
}

func scanScan(s repository.Scanner) (Scan, error) {
	var scan Scan
	err := s.Scan(
		&scan.ID,
		&scan.Filename,
		&scan.ContentType,
		&scan.Kind,
		&scan.ByteSize,
		&scan.FrameCount,
		&scan.Width,
		&scan.Height,
		&scan.StorageKey,
		&scan.UploadedAt,
	)
	return scan, err
}
