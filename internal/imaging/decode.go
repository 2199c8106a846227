package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode parses source bytes into a normalized FrameSequence.
// It is a pure function of its input: identical bytes always produce
// identical frames. Decode never performs any network access.
func Decode(data []byte, kind SourceKind) (*FrameSequence, error) {
	switch kind {
	case KindDICOM:
		return decodeDICOM(data)
	case KindRaster:
		return decodeRaster(data)
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", ErrDecode, kind)
	}
}

func decodeDICOM(data []byte) (*FrameSequence, error) {
	ds, err := dicom.Parse(bytes.NewReader(data), int64(len(data)), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	el, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, ErrNoPixelData
	}

	info := dicom.MustGetPixelDataInfo(el.Value)
	if len(info.Frames) == 0 {
		return nil, ErrNoPixelData
	}

	frames := make([]image.Image, 0, len(info.Frames))
	for i, fr := range info.Frames {
		if fr.Encapsulated {
			return nil, fmt.Errorf("%w: encapsulated transfer syntax in frame %d", ErrDecode, i)
		}

		img, err := normalizeNative(&fr.NativeData)
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d: %v", ErrDecode, i, err)
		}
		frames = append(frames, img)
	}

	return &FrameSequence{frames: frames}, nil
}

func decodeRaster(data []byte) (*FrameSequence, error) {
	// GIF is the one standard format with a frame cursor; enumerate every
	// frame in animation order. All other formats decode to a single frame.
	if isGIF(data) {
		return decodeGIF(data)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &FrameSequence{frames: []image.Image{normalizeImage(img)}}, nil
}

func decodeGIF(data []byte) (*FrameSequence, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%w: gif contains no frames", ErrDecode)
	}

	frames := make([]image.Image, 0, len(g.Image))
	for _, paletted := range g.Image {
		frames = append(frames, normalizeImage(paletted))
	}

	return &FrameSequence{frames: frames}, nil
}

func isGIF(data []byte) bool {
	return len(data) >= 6 &&
		(bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")))
}
