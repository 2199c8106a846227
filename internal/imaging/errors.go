package imaging

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode indicates the source bytes could not be parsed as the declared kind.
	ErrDecode = errors.New("image decode failed")
	// ErrNoPixelData indicates a DICOM container without a pixel data element.
	ErrNoPixelData = fmt.Errorf("%w: no pixel data element", ErrDecode)
	// ErrFrameOutOfRange indicates a frame index beyond the sequence bounds.
	ErrFrameOutOfRange = errors.New("frame index out of range")
)

// FrameRangeError reports an out-of-bounds frame selection.
type FrameRangeError struct {
	Index int
	Count int
}

func (e *FrameRangeError) Error() string {
	return fmt.Sprintf("frame index %d out of range [0, %d)", e.Index, e.Count)
}

// Unwrap makes FrameRangeError match ErrFrameOutOfRange via errors.Is.
func (e *FrameRangeError) Unwrap() error {
	return ErrFrameOutOfRange
}
