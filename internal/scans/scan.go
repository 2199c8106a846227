// Package scans manages uploaded medical image sources: ingesting them into
// blob storage, validating that they decode, and exposing their normalized
// frames.
package scans

import (
	"time"

	"github.com/google/uuid"

	"github.com/vantrel/medscan/internal/imaging"
)

// Scan is an uploaded image source with its decoded geometry.
type Scan struct {
	ID          uuid.UUID          `json:"id"`
	Filename    string             `json:"filename"`
	ContentType string             `json:"content_type"`
	Kind        imaging.SourceKind `json:"kind"`
	ByteSize    int64              `json:"byte_size"`
	FrameCount  int                `json:"frame_count"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	StorageKey  string             `json:"storage_key"`
	UploadedAt  time.Time          `json:"uploaded_at"`
}

// CreateCommand carries the inputs for ingesting a new scan.
type CreateCommand struct {
	Filename    string
	ContentType string
	Data        []byte
}
