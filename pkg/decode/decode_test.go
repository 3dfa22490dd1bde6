package decode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func pixel(img *RGB, x, y int) [3]uint8 {
	i := img.PixOffset(x, y)
	return [3]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}
}

func TestYUYV(t *testing.T) {
	// neutral chroma leaves luma as gray
	raw := []byte{200, 128, 100, 128, 50, 128}
	img, err := YUYV(raw, 3, 1)
	if err != nil {
		t.Fatalf("YUYV failed: %v", err)
	}
	for x, want := range []uint8{200, 100, 50} {
		if got := pixel(img, x, 0); got != [3]uint8{want, want, want} {
			t.Errorf("pixel %d = %v, want gray %d", x, got, want)
		}
	}
	if _, err := YUYV(raw[:4], 3, 1); !errors.Is(err, ErrShortFrame) {
		t.Errorf("short YUYV err = %v, want ErrShortFrame", err)
	}
}

func TestNV12(t *testing.T) {
	raw := []byte{10, 20, 30, 40, 128, 128}
	img, err := NV12(raw, 2, 2)
	if err != nil {
		t.Fatalf("NV12 failed: %v", err)
	}
	for i, want := range []uint8{10, 20, 30, 40} {
		if got := pixel(img, i%2, i/2); got != [3]uint8{want, want, want} {
			t.Errorf("pixel %d = %v, want gray %d", i, got, want)
		}
	}
	if _, err := NV12(raw, 0, 2); err == nil {
		t.Error("NV12 of zero width = nil error")
	}
	if _, err := NV12(raw[:5], 2, 2); !errors.Is(err, ErrShortFrame) {
		t.Errorf("short NV12 err = %v, want ErrShortFrame", err)
	}
}

func TestNV12OddDimensions(t *testing.T) {
	// 3x3 luma plus a 2x2 chroma grid, rounded up from 1.5x1.5
	raw := bytes.Repeat([]byte{100}, 9)
	raw = append(raw, bytes.Repeat([]byte{128}, 8)...)
	img, err := NV12(raw, 3, 3)
	if err != nil {
		t.Fatalf("NV12 failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 3 {
		t.Fatalf("bounds = %v, want 3x3", b)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := pixel(img, x, y); got != [3]uint8{100, 100, 100} {
				t.Errorf("pixel (%d,%d) = %v, want gray 100", x, y, got)
			}
		}
	}
	if _, err := NV12(raw[:16], 3, 3); !errors.Is(err, ErrShortFrame) {
		t.Errorf("short odd NV12 err = %v, want ErrShortFrame", err)
	}
}

func TestNV12Chroma(t *testing.T) {
	// full red chroma on mid luma pushes red up and blue down
	img, err := NV12([]byte{128, 128, 128, 128, 128, 255}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	p := pixel(img, 1, 1)
	if p[0] <= p[2] {
		t.Errorf("pixel = %v, want red above blue", p)
	}
}

func TestGrayAndRGB24(t *testing.T) {
	g, err := Gray([]byte{1, 2}, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(g.Pix, []byte{1, 1, 1, 2, 2, 2}) {
		t.Errorf("Gray Pix = %v", g.Pix)
	}
	raw := []byte{1, 2, 3, 4, 5, 6, 7}
	c, err := RGB24(raw, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(c.Pix, raw[:6]) {
		t.Errorf("RGB24 Pix = %v, want %v", c.Pix, raw[:6])
	}
	if _, err := RGB24(raw[:5], 2, 1); !errors.Is(err, ErrShortFrame) {
		t.Errorf("short RGB24 err = %v, want ErrShortFrame", err)
	}
	if _, err := Gray(raw, 0, 1); err == nil {
		t.Error("Gray of zero width = nil error")
	}
}

func TestMJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 200, 40, 40, 0xff
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatal(err)
	}
	img, err := MJPEG(buf.Bytes(), 0, 0)
	if err != nil {
		t.Fatalf("MJPEG failed: %v", err)
	}
	if img.Rect.Dx() != 16 || img.Rect.Dy() != 8 || len(img.Pix) != 16*8*3 {
		t.Fatalf("MJPEG image = %v with %d bytes, want 16x8", img.Rect, len(img.Pix))
	}
	if p := pixel(img, 8, 4); p[0] < 180 || p[1] > 70 || p[2] > 70 {
		t.Errorf("center pixel = %v, want close to [200 40 40]", p)
	}
	if _, err := MJPEG(nil, 0, 0); !errors.Is(err, ErrShortFrame) {
		t.Errorf("empty MJPEG err = %v, want ErrShortFrame", err)
	}
	if _, err := MJPEG([]byte{0xFF, 0xD8, 0x00}, 0, 0); err == nil {
		t.Error("corrupt MJPEG = nil error")
	}
}

func TestToRGBAndScale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(2, 2, 6, 6))
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			src.Set(x, y, color.NRGBA{uint8(x * 10), uint8(y * 10), 7, 0xff})
		}
	}
	rgb := ToRGB(src)
	if rgb.Rect != image.Rect(0, 0, 4, 4) {
		t.Fatalf("ToRGB bounds = %v, want 4x4 at origin", rgb.Rect)
	}
	if got := pixel(rgb, 1, 2); got != [3]uint8{30, 40, 7} {
		t.Errorf("ToRGB pixel (1,2) = %v, want [30 40 7]", got)
	}
	if ToRGB(rgb) != rgb {
		t.Error("ToRGB copied an already packed image")
	}

	small := Scale(rgb, 2, 2)
	if small.Rect.Dx() != 2 || small.Rect.Dy() != 2 {
		t.Fatalf("Scale bounds = %v", small.Rect)
	}
	if got := small.RGBAAt(0, 0); got.B != 7 || got.A != 0xff {
		t.Errorf("Scale pixel = %v", got)
	}
}

func TestRGBSubImage(t *testing.T) {
	img := NewRGB(image.Rect(0, 0, 4, 4))
	img.Set(2, 3, color.RGBA{1, 2, 3, 4})
	sub := img.SubImage(image.Rect(2, 2, 4, 4)).(*RGB)
	if got := sub.RGBAAt(2, 3); got != (color.RGBA{1, 2, 3, 0xff}) {
		t.Errorf("SubImage pixel = %v, want {1 2 3 255}", got)
	}
	if got := sub.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("out of bounds pixel = %v, want zero", got)
	}
	if empty := img.SubImage(image.Rect(10, 10, 12, 12)).Bounds(); !empty.Empty() {
		t.Errorf("disjoint SubImage bounds = %v, want empty", empty)
	}
}
