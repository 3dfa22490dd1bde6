//go:build linux

package v4l2

import (
	"slices"

	"github.com/blackjack/webcam"

	camerata "github.com/kevmo314/go-camerata"
)

func fourcc(s string) webcam.PixelFormat {
	return webcam.PixelFormat(uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24)
}

var pixelFormats = map[camerata.Encoding]webcam.PixelFormat{
	camerata.MJPEG:  fourcc("MJPG"),
	camerata.YUYV:   fourcc("YUYV"),
	camerata.GRAY:   fourcc("GREY"),
	camerata.NV12:   fourcc("NV12"),
	camerata.RAWRGB: fourcc("RGB3"),
}

// encodings returns the decodable encodings among supported, in the
// engine's preference order.
func encodings(supported map[webcam.PixelFormat]string) []camerata.Encoding {
	var out []camerata.Encoding
	for _, enc := range camerata.Encodings {
		if _, ok := supported[pixelFormats[enc]]; ok {
			out = append(out, enc)
		}
	}
	return out
}

// resolutions flattens frame sizes. Stepwise ranges contribute their two
// endpoints.
func resolutions(sizes []webcam.FrameSize) []camerata.Resolution {
	var out []camerata.Resolution
	add := func(w, h uint32) {
		r := camerata.Resolution{Width: w, Height: h}
		if w > 0 && h > 0 && !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	for _, s := range sizes {
		add(s.MaxWidth, s.MaxHeight)
		if s.StepWidth != 0 || s.StepHeight != 0 {
			add(s.MinWidth, s.MinHeight)
		}
	}
	return out
}

// defaultRate stands in for drivers that cannot enumerate frame intervals.
const defaultRate = 30

// rates converts frame intervals, which V4L2 reports as fractions of a
// second, into whole frames per second.
func rates(frs []webcam.FrameRate) []uint32 {
	var out []uint32
	add := func(num, den uint32) {
		if num == 0 {
			return
		}
		r := (den + num/2) / num
		if r > 0 && !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	for _, fr := range frs {
		add(fr.MinNumerator, fr.MinDenominator)
		add(fr.MaxNumerator, fr.MaxDenominator)
	}
	if len(out) == 0 {
		out = append(out, defaultRate)
	}
	slices.Sort(out)
	slices.Reverse(out)
	return out
}
