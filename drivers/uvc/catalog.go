package uvc

import (
	"slices"
	"sort"
	"time"

	camerata "github.com/kevmo314/go-camerata"
	"github.com/kevmo314/go-camerata/pkg/descriptors"
	"github.com/kevmo314/go-camerata/pkg/formats"
)

var uncompressed = map[formats.CompressionFormat]camerata.Encoding{
	formats.CompressionFormatYUY2:  camerata.YUYV,
	formats.CompressionFormatNV12:  camerata.NV12,
	formats.CompressionFormatY800:  camerata.GRAY,
	formats.CompressionFormatRGB24: camerata.RAWRGB,
}

// encodingOf maps a format descriptor to an encoding, or EncodingUnknown for
// payloads that cannot be decoded.
func encodingOf(f *descriptors.Format) camerata.Encoding {
	if f.IsMJPEG() {
		return camerata.MJPEG
	}
	if enc, ok := uncompressed[formats.CompressionFormat(f.GUID)]; ok {
		return enc
	}
	return camerata.EncodingUnknown
}

type mode struct {
	format *descriptors.Format
	frame  *descriptors.FrameDescriptor
}

func (m mode) resolution() camerata.Resolution {
	return camerata.Resolution{Width: uint32(m.frame.Width), Height: uint32(m.frame.Height)}
}

// catalog indexes the decodable modes of one streaming interface.
type catalog struct {
	encodings []camerata.Encoding
	modes     map[camerata.Encoding][]mode
}

func newCatalog(s *descriptors.StreamingInterface) *catalog {
	c := &catalog{modes: make(map[camerata.Encoding][]mode)}
	for _, f := range s.Formats {
		enc := encodingOf(f)
		if enc == camerata.EncodingUnknown {
			continue
		}
		if _, ok := c.modes[enc]; !ok {
			c.encodings = append(c.encodings, enc)
		}
		for _, fr := range f.Frames {
			c.modes[enc] = append(c.modes[enc], mode{f, fr})
		}
	}
	return c
}

func (c *catalog) empty() bool { return len(c.encodings) == 0 }

func (c *catalog) Modes(enc camerata.Encoding) map[camerata.Resolution][]uint32 {
	out := make(map[camerata.Resolution][]uint32)
	for _, m := range c.modes[enc] {
		res := m.resolution()
		for _, r := range m.frame.FrameRates() {
			if !slices.Contains(out[res], r) {
				out[res] = append(out[res], r)
			}
		}
	}
	return out
}

// Formats lists every mode, encodings in descriptor order and frame sizes
// largest first.
func (c *catalog) Formats() []camerata.Format {
	var out []camerata.Format
	for _, enc := range c.encodings {
		modes := slices.Clone(c.modes[enc])
		sort.SliceStable(modes, func(i, j int) bool {
			a, b := modes[i].frame, modes[j].frame
			return int(a.Width)*int(a.Height) > int(b.Width)*int(b.Height)
		})
		for _, m := range modes {
			for _, r := range m.frame.FrameRates() {
				out = append(out, camerata.Format{
					Width:     uint32(m.frame.Width),
					Height:    uint32(m.frame.Height),
					FrameRate: r,
					Encoding:  enc,
				})
			}
		}
	}
	return out
}

// lookup finds the mode for f. A frame rate of zero takes the frame's
// default interval.
func (c *catalog) lookup(f camerata.Format) (mode, time.Duration, bool) {
	for _, m := range c.modes[f.Encoding] {
		if m.resolution() != f.Resolution() {
			continue
		}
		if f.FrameRate == 0 {
			return m, m.frame.DefaultFrameInterval, true
		}
		iv := m.frame.IntervalFor(f.FrameRate)
		if iv > 0 && fps(iv) == f.FrameRate {
			return m, iv, true
		}
	}
	return mode{}, 0, false
}

// find maps negotiated indices back to a mode.
func (c *catalog) find(formatIndex, frameIndex uint8) (camerata.Encoding, mode, bool) {
	for _, enc := range c.encodings {
		for _, m := range c.modes[enc] {
			if m.format.FormatIndex == formatIndex && m.frame.FrameIndex == frameIndex {
				return enc, m, true
			}
		}
	}
	return camerata.EncodingUnknown, mode{}, false
}

func fps(iv time.Duration) uint32 {
	if iv <= 0 {
		return 0
	}
	return uint32((time.Second + iv/2) / iv)
}

// pickAltSetting chooses the endpoint to stream from. A bulk endpoint is
// used as is; otherwise the smallest isochronous setting whose bandwidth
// covers payload wins, falling back to the largest one.
func pickAltSetting(alts []descriptors.AltSetting, payload uint32) (descriptors.AltSetting, bool) {
	var iso []descriptors.AltSetting
	for _, a := range alts {
		if !a.Isochronous() {
			return a, true
		}
		if a.Bandwidth() > 0 {
			iso = append(iso, a)
		}
	}
	if len(iso) == 0 {
		return descriptors.AltSetting{}, false
	}
	sort.SliceStable(iso, func(i, j int) bool { return iso[i].Bandwidth() < iso[j].Bandwidth() })
	for _, a := range iso {
		if uint32(a.Bandwidth()) >= payload {
			return a, true
		}
	}
	return iso[len(iso)-1], true
}

// pickStream returns the first streaming interface with a decodable format.
func pickStream(cfg *descriptors.Configuration) (*descriptors.StreamingInterface, *catalog, bool) {
	for _, s := range cfg.Streams {
		if c := newCatalog(s); !c.empty() {
			return s, c, true
		}
	}
	return nil, nil, false
}

func sortControls(cs []camerata.ControlDescriptor) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })
}
