package camerata

import (
	"fmt"
	"strings"
)

// Encoding identifies how a device packs the pixels of a raw frame.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	MJPEG
	YUYV
	GRAY
	NV12
	RAWRGB
)

// Encodings lists every encoding the capture engine can decode.
var Encodings = []Encoding{MJPEG, YUYV, GRAY, NV12, RAWRGB}

func (e Encoding) String() string {
	switch e {
	case MJPEG:
		return "mjpeg"
	case YUYV:
		return "yuyv"
	case GRAY:
		return "gray"
	case NV12:
		return "nv12"
	case RAWRGB:
		return "rawrgb"
	default:
		return "unknown"
	}
}

// FrameSize returns the size in bytes of one raw frame of the given dimensions,
// or -1 when the encoding is variable length.
func (e Encoding) FrameSize(width, height int) int {
	switch e {
	case YUYV:
		return width * height * 2
	case GRAY:
		return width * height
	case NV12:
		return width*height + 2*((width+1)/2)*((height+1)/2)
	case RAWRGB:
		return width * height * 3
	default:
		return -1
	}
}

func (e Encoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Encoding) UnmarshalText(text []byte) error {
	v, err := ParseEncoding(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ParseEncoding parses the lowercase tag produced by Encoding.String. Matching is
// case-insensitive.
func ParseEncoding(s string) (Encoding, error) {
	for _, e := range Encodings {
		if strings.EqualFold(s, e.String()) {
			return e, nil
		}
	}
	return EncodingUnknown, fmt.Errorf("unknown encoding %q", s)
}

type Resolution struct {
	Width, Height uint32
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Format describes a capture mode. It is used both to report capabilities and
// to request a mode from Session.Open. The zero Format asks the session to pick
// one.
type Format struct {
	Width     uint32
	Height    uint32
	FrameRate uint32
	Encoding  Encoding
}

func (f Format) Resolution() Resolution {
	return Resolution{Width: f.Width, Height: f.Height}
}

func (f Format) IsZero() bool {
	return f == Format{}
}

// String renders the format as "mjpeg 1280x720@30fps".
func (f Format) String() string {
	return fmt.Sprintf("%s %dx%d@%dfps", f.Encoding, f.Width, f.Height, f.FrameRate)
}

// ParseFormat parses the output of Format.String.
func ParseFormat(s string) (Format, error) {
	var enc string
	var f Format
	if _, err := fmt.Sscanf(s, "%s %dx%d@%dfps", &enc, &f.Width, &f.Height, &f.FrameRate); err != nil {
		return Format{}, fmt.Errorf("parse format %q: %w", s, err)
	}
	e, err := ParseEncoding(enc)
	if err != nil {
		return Format{}, err
	}
	f.Encoding = e
	return f, nil
}
