package camerata

import (
	"image"

	"github.com/kevmo314/go-camerata/pkg/decode"
)

// BytesPerPixel is the size of one pixel in a decoded frame.
const BytesPerPixel = 3

// Frame is one decoded picture, packed RGB with no row padding. Frames handed
// out by a session are shared between callers and must not be modified.
type Frame struct {
	Width, Height int
	Pix           []byte
}

// Image returns an image.Image view of the frame sharing its pixels.
func (f *Frame) Image() *decode.RGB {
	return &decode.RGB{
		Pix:    f.Pix,
		Stride: f.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}
