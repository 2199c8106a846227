package analyses

import (
	"errors"
	"net/http"

	"github.com/vantrel/medscan/internal/inference"
	"github.com/vantrel/medscan/internal/scans"
)

var (
	// ErrNotFound indicates the requested analysis does not exist.
	ErrNotFound = errors.New("analysis not found")
	// ErrDuplicate indicates a key collision on insert.
	ErrDuplicate = errors.New("analysis already exists")
)

// MapHTTPStatus maps analysis domain errors onto response status codes.
// Errors raised before the record exists (missing scan, bad frame index,
// undecodable bytes) fall through to the scan mapping.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, inference.ErrUnknownCategory):
		return http.StatusBadRequest
	default:
		return scans.MapHTTPStatus(err)
	}
}
