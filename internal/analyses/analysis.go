// Package analyses runs model inference over scan frames and keeps the
// append-only record of every completed call. A failed inference call is
// still a completed analysis: the fault category and message are stored on
// the record rather than discarded.
package analyses

import (
	"time"

	"github.com/google/uuid"

	"github.com/vantrel/medscan/internal/inference"
)

// Status marks whether an analysis call produced a result or a fault.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Analysis is one recorded inference call over a single scan frame.
// CreatedAt is assigned by the store, never by the caller.
type Analysis struct {
	ID            uuid.UUID          `json:"id"`
	ScanID        uuid.UUID          `json:"scan_id"`
	Filename      string             `json:"filename"`
	Category      inference.Category `json:"category"`
	FrameIndex    int                `json:"frame_index"`
	Status        Status             `json:"status"`
	Content       string             `json:"content"`
	ErrorCategory *string            `json:"error_category,omitempty"`
	ErrorMessage  *string            `json:"error_message,omitempty"`
	ModelName     string             `json:"model_name"`
	CreatedAt     time.Time          `json:"created_at"`
}

// RunCommand requests one analysis over a single frame.
type RunCommand struct {
	ScanID     uuid.UUID          `json:"scan_id"`
	Category   inference.Category `json:"category"`
	FrameIndex int                `json:"frame_index"`
}

// BatchCommand requests one analysis per frame of a scan.
type BatchCommand struct {
	ScanID   uuid.UUID          `json:"scan_id"`
	Category inference.Category `json:"category"`
}
