// Package imaging converts heterogeneous medical image sources into
// normalized 8-bit rasters. It decodes single- and multi-frame DICOM
// containers and standard raster formats (including animated GIF) into an
// ordered frame sequence, rescaling each frame's observed sample range onto
// [0, 255] independently.
package imaging

import (
	"image"
	"path/filepath"
	"strings"
)

// SourceKind discriminates the container format of uploaded image bytes.
type SourceKind string

const (
	// KindDICOM marks medical volumetric sources (.dcm containers).
	KindDICOM SourceKind = "dicom"
	// KindRaster marks standard raster sources (PNG, JPEG, GIF, BMP, TIFF, WebP).
	KindRaster SourceKind = "raster"
)

// KindFromFilename derives the source kind from a filename extension.
// Only ".dcm" selects DICOM handling; everything else goes through the
// standard raster decoders.
func KindFromFilename(name string) SourceKind {
	if strings.EqualFold(filepath.Ext(name), ".dcm") {
		return KindDICOM
	}
	return KindRaster
}

// FrameSequence is an ordered, immutable sequence of normalized frames.
// A single-frame source yields a sequence of length 1. Frame order matches
// source order: for multi-frame DICOM the leading axis is the frame index,
// for animated rasters the animation order.
type FrameSequence struct {
	frames []image.Image
}

// Len returns the number of frames in the sequence.
func (s *FrameSequence) Len() int {
	return len(s.frames)
}

// Frame returns the normalized frame at index.
// Returns ErrFrameOutOfRange when index is negative or beyond the last frame.
func (s *FrameSequence) Frame(index int) (image.Image, error) {
	if index < 0 || index >= len(s.frames) {
		return nil, &FrameRangeError{Index: index, Count: len(s.frames)}
	}
	return s.frames[index], nil
}
