package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/suyashkumar/dicom/pkg/frame"
)

// rescale maps a sample from the observed [min, max] range onto [0, 255]
// with round-half-up. A constant frame (max == min) maps to zero.
func rescale(v, min, max int) uint8 {
	delta := max - min
	if delta == 0 {
		return 0
	}
	return uint8(((v-min)*255 + delta/2) / delta)
}

// normalizeNative converts a native DICOM frame into an 8-bit raster.
// Sample range is observed across every channel of the frame, so channels
// share one linear mapping. One sample per pixel yields grayscale, three
// yield color.
func normalizeNative(n *frame.NativeFrame) (image.Image, error) {
	if len(n.Data) == 0 {
		return nil, fmt.Errorf("empty pixel data")
	}
	if len(n.Data) != n.Rows*n.Cols {
		return nil, fmt.Errorf("pixel count %d does not match %dx%d", len(n.Data), n.Rows, n.Cols)
	}

	channels := len(n.Data[0])
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("unsupported samples per pixel: %d", channels)
	}

	min, max := n.Data[0][0], n.Data[0][0]
	for _, px := range n.Data {
		for _, s := range px {
			if s < min {
				min = s
			}
			if s > max {
				max = s
			}
		}
	}

	if channels == 1 {
		img := image.NewGray(image.Rect(0, 0, n.Cols, n.Rows))
		for i, px := range n.Data {
			img.Pix[i] = rescale(px[0], min, max)
		}
		return img, nil
	}

	img := image.NewRGBA(image.Rect(0, 0, n.Cols, n.Rows))
	for i, px := range n.Data {
		o := i * 4
		img.Pix[o] = rescale(px[0], min, max)
		img.Pix[o+1] = rescale(px[1], min, max)
		img.Pix[o+2] = rescale(px[2], min, max)
		img.Pix[o+3] = 0xff
	}
	return img, nil
}

// normalizeImage rescales a decoded raster frame onto [0, 255] per channel
// with a shared min/max observed across all color channels. Grayscale
// sources stay single-channel; everything else becomes opaque RGBA.
// Alpha is not part of the observed range and is forced opaque.
func normalizeImage(src image.Image) image.Image {
	if isGrayModel(src.ColorModel()) {
		return normalizeGrayImage(src)
	}
	return normalizeColorImage(src)
}

func isGrayModel(m color.Model) bool {
	return m == color.GrayModel || m == color.Gray16Model
}

func normalizeGrayImage(src image.Image) image.Image {
	bounds := src.Bounds()
	min, max := -1, -1

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := int(color.Gray16Model.Convert(src.At(x, y)).(color.Gray16).Y)
			if min == -1 || g < min {
				min = g
			}
			if g > max {
				max = g
			}
		}
	}

	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := int(color.Gray16Model.Convert(src.At(x, y)).(color.Gray16).Y)
			out.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: rescale(g, min, max)})
		}
	}
	return out
}

func normalizeColorImage(src image.Image) image.Image {
	bounds := src.Bounds()
	min, max := -1, -1

	sample := func(x, y int) (int, int, int) {
		r, g, b, _ := src.At(x, y).RGBA()
		return int(r), int(g), int(b)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b := sample(x, y)
			for _, s := range [3]int{r, g, b} {
				if min == -1 || s < min {
					min = s
				}
				if s > max {
					max = s
				}
			}
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b := sample(x, y)
			out.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{
				R: rescale(r, min, max),
				G: rescale(g, min, max),
				B: rescale(b, min, max),
				A: 0xff,
			})
		}
	}
	return out
}
