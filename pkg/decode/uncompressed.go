package decode

import (
	"fmt"
	"image"
	"image/color"
)

// YUYV decodes packed 4:2:2 (YUY2) frames.
func YUYV(raw []byte, width, height int) (*RGB, error) {
	if err := checkSize(raw, width, height, 2, 1); err != nil {
		return nil, fmt.Errorf("yuyv: %w", err)
	}
	dst := NewRGB(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := raw[y*width*2:]
		for x := 0; x+1 < width; x += 2 {
			s := src[x*2 : x*2+4 : x*2+4]
			y0, u, y1, v := s[0], s[1], s[2], s[3]
			i := dst.PixOffset(x, y)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = color.YCbCrToRGB(y0, u, v)
			dst.Pix[i+3], dst.Pix[i+4], dst.Pix[i+5] = color.YCbCrToRGB(y1, u, v)
		}
		if width%2 == 1 {
			x := width - 1
			i := dst.PixOffset(x, y)
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = color.YCbCrToRGB(src[x*2], src[x*2+1], 128)
		}
	}
	return dst, nil
}

// NV12 decodes semi-planar 4:2:0 frames: a full Y plane followed by an
// interleaved half-resolution CbCr plane. Odd dimensions round the chroma
// plane up.
func NV12(raw []byte, width, height int) (*RGB, error) {
	if err := checkSize(raw, width, height, 1, 1); err != nil {
		return nil, fmt.Errorf("nv12: %w", err)
	}
	cw, ch := (width+1)/2, (height+1)/2
	if want := width*height + 2*cw*ch; len(raw) < want {
		return nil, fmt.Errorf("nv12: %w: got %d bytes, want %d for %dx%d", ErrShortFrame, len(raw), want, width, height)
	}
	img := &image.YCbCr{
		Y:              raw[:width*height],
		YStride:        width,
		Cb:             make([]byte, cw*ch),
		Cr:             make([]byte, cw*ch),
		CStride:        cw,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, width, height),
	}
	uv := raw[width*height:]
	for i := range img.Cb {
		img.Cb[i], img.Cr[i] = uv[2*i], uv[2*i+1]
	}
	dst := NewRGB(img.Rect)
	fromYCbCr(dst, img)
	return dst, nil
}

// Gray decodes 8-bit luminance (Y800/GREY) frames.
func Gray(raw []byte, width, height int) (*RGB, error) {
	if err := checkSize(raw, width, height, 1, 1); err != nil {
		return nil, fmt.Errorf("gray: %w", err)
	}
	return ToRGB(&image.Gray{Pix: raw, Stride: width, Rect: image.Rect(0, 0, width, height)}), nil
}

// RGB24 copies packed RGB frames. Trailing bytes beyond width*height*3 are
// dropped.
func RGB24(raw []byte, width, height int) (*RGB, error) {
	if err := checkSize(raw, width, height, 3, 1); err != nil {
		return nil, fmt.Errorf("rgb24: %w", err)
	}
	dst := NewRGB(image.Rect(0, 0, width, height))
	copy(dst.Pix, raw)
	return dst, nil
}
