package decode

import (
	"bytes"
	"fmt"
	"image/jpeg"
)

// MJPEG decodes a single JPEG frame. The width and height arguments are
// ignored; the frame's own header is authoritative.
func MJPEG(raw []byte, _, _ int) (*RGB, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("mjpeg: %w: empty frame", ErrShortFrame)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("mjpeg: %w", err)
	}
	return ToRGB(img), nil
}
