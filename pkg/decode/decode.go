// Package decode converts raw camera frames into packed 24-bit RGB.
package decode

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ErrShortFrame is returned when a raw frame holds fewer bytes than its
// dimensions require.
var ErrShortFrame = errors.New("short frame")

// Func decodes one raw frame of the given dimensions. Compressed encodings
// take their dimensions from the bitstream instead.
type Func func(raw []byte, width, height int) (*RGB, error)

func checkSize(raw []byte, width, height int, num, den int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if want := width * height * num / den; len(raw) < want {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrShortFrame, len(raw), want, width, height)
	}
	return nil
}

// ToRGB converts any image to a packed RGB image with Stride = width*3.
func ToRGB(img image.Image) *RGB {
	if rgb, ok := img.(*RGB); ok && rgb.Stride == rgb.Rect.Dx()*3 && rgb.Rect.Min == (image.Point{}) {
		return rgb
	}
	b := img.Bounds()
	dst := NewRGB(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src := img.(type) {
	case *image.YCbCr:
		fromYCbCr(dst, src)
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < b.Dx(); x++ {
				i := dst.PixOffset(x, y)
				dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = row[x], row[x], row[x]
			}
		}
	default:
		rgba := image.NewRGBA(dst.Rect)
		draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
		for i, j := 0, 0; i < len(rgba.Pix); i, j = i+4, j+3 {
			copy(dst.Pix[j:j+3], rgba.Pix[i:i+3])
		}
	}
	return dst
}

// Scale resizes img to fit w x h with nearest-neighbor sampling.
func Scale(img image.Image, w, h int) *RGB {
	dst := NewRGB(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)
	return dst
}
