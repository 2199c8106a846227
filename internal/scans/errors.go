package scans

import (
	"errors"
	"net/http"

	"github.com/vantrel/medscan/internal/imaging"
)

var (
	// ErrNotFound indicates the requested scan does not exist.
	ErrNotFound = errors.New("scan not found")
	// ErrDuplicate indicates a scan with the same storage key already exists.
	ErrDuplicate = errors.New("scan already exists")
	// ErrEmptyFile indicates an upload with no content.
	ErrEmptyFile = errors.New("uploaded file is empty")
	// ErrMissingFilename indicates an upload without a filename.
	ErrMissingFilename = errors.New("uploaded file has no filename")
)

// MapHTTPStatus maps scan domain errors onto response status codes.
// Decode failures surface as unprocessable uploads, not server faults.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrMissingFilename):
		return http.StatusBadRequest
	case errors.Is(err, imaging.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, imaging.ErrFrameOutOfRange):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
