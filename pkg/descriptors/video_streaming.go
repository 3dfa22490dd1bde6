package descriptors

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/google/uuid"
)

type VideoStreamingInterfaceDescriptorSubtype byte

const (
	VideoStreamingInterfaceDescriptorSubtypeUndefined          VideoStreamingInterfaceDescriptorSubtype = 0x00
	VideoStreamingInterfaceDescriptorSubtypeInputHeader        VideoStreamingInterfaceDescriptorSubtype = 0x01
	VideoStreamingInterfaceDescriptorSubtypeOutputHeader       VideoStreamingInterfaceDescriptorSubtype = 0x02
	VideoStreamingInterfaceDescriptorSubtypeStillImageFrame    VideoStreamingInterfaceDescriptorSubtype = 0x03
	VideoStreamingInterfaceDescriptorSubtypeFormatUncompressed VideoStreamingInterfaceDescriptorSubtype = 0x04
	VideoStreamingInterfaceDescriptorSubtypeFrameUncompressed  VideoStreamingInterfaceDescriptorSubtype = 0x05
	VideoStreamingInterfaceDescriptorSubtypeFormatMJPEG        VideoStreamingInterfaceDescriptorSubtype = 0x06
	VideoStreamingInterfaceDescriptorSubtypeFrameMJPEG         VideoStreamingInterfaceDescriptorSubtype = 0x07
	VideoStreamingInterfaceDescriptorSubtypeColorFormat        VideoStreamingInterfaceDescriptorSubtype = 0x0D
)

// InputHeaderDescriptor as defined in UVC spec 1.5, 3.9.2.1
type InputHeaderDescriptor struct {
	NumFormats      uint8
	TotalLength     uint16
	EndpointAddress uint8
	TerminalLink    uint8
}

func (ihd *InputHeaderDescriptor) UnmarshalBinary(buf []byte) error {
	if err := checkHeader(buf, byte(VideoStreamingInterfaceDescriptorSubtypeInputHeader)); err != nil {
		return err
	}
	if len(buf) < 13 {
		return io.ErrShortBuffer
	}
	ihd.NumFormats = buf[3]
	ihd.TotalLength = binary.LittleEndian.Uint16(buf[4:6])
	ihd.EndpointAddress = buf[6]
	ihd.TerminalLink = buf[8]
	return nil
}

// FormatDescriptor is the part of the MJPEG (3.1.1 of the MJPEG payload spec)
// and uncompressed (3.1.1 of the uncompressed payload spec) format
// descriptors this package uses. GUID is zero for MJPEG.
type FormatDescriptor struct {
	Subtype             VideoStreamingInterfaceDescriptorSubtype
	FormatIndex         uint8
	NumFrameDescriptors uint8
	GUID                uuid.UUID
	BitsPerPixel        uint8
	DefaultFrameIndex   uint8
}

func (fd *FormatDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 3 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if DescriptorType(buf[1]) != DescriptorTypeCSInterface {
		return ErrInvalidDescriptor
	}
	fd.Subtype = VideoStreamingInterfaceDescriptorSubtype(buf[2])
	switch fd.Subtype {
	case VideoStreamingInterfaceDescriptorSubtypeFormatMJPEG:
		if len(buf) < 11 {
			return io.ErrShortBuffer
		}
		fd.FormatIndex = buf[3]
		fd.NumFrameDescriptors = buf[4]
		fd.GUID = uuid.Nil
		fd.BitsPerPixel = 0
		fd.DefaultFrameIndex = buf[6]
	case VideoStreamingInterfaceDescriptorSubtypeFormatUncompressed:
		if len(buf) < 27 {
			return io.ErrShortBuffer
		}
		fd.FormatIndex = buf[3]
		fd.NumFrameDescriptors = buf[4]
		fd.GUID = GUIDFromWire(buf[5:21])
		fd.BitsPerPixel = buf[21]
		fd.DefaultFrameIndex = buf[22]
	default:
		return ErrInvalidDescriptor
	}
	return nil
}

func (fd *FormatDescriptor) IsMJPEG() bool {
	return fd.Subtype == VideoStreamingInterfaceDescriptorSubtypeFormatMJPEG
}

// FrameDescriptor covers both the MJPEG and the uncompressed frame
// descriptors, which share a layout.
type FrameDescriptor struct {
	FrameIndex              uint8
	Capabilities            uint8
	Width, Height           uint16
	MinBitRate, MaxBitRate  uint32
	MaxVideoFrameBufferSize uint32
	DefaultFrameInterval    time.Duration

	ContinuousFrameInterval struct {
		MinFrameInterval, MaxFrameInterval, FrameIntervalStep time.Duration
	}
	DiscreteFrameIntervals []time.Duration
}

func interval(buf []byte) time.Duration {
	return time.Duration(binary.LittleEndian.Uint32(buf)) * 100 * time.Nanosecond
}

func (fd *FrameDescriptor) UnmarshalBinary(buf []byte) error {
	if len(buf) < 26 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if DescriptorType(buf[1]) != DescriptorTypeCSInterface {
		return ErrInvalidDescriptor
	}
	switch VideoStreamingInterfaceDescriptorSubtype(buf[2]) {
	case VideoStreamingInterfaceDescriptorSubtypeFrameMJPEG, VideoStreamingInterfaceDescriptorSubtypeFrameUncompressed:
	default:
		return ErrInvalidDescriptor
	}
	fd.FrameIndex = buf[3]
	fd.Capabilities = buf[4]
	fd.Width = binary.LittleEndian.Uint16(buf[5:7])
	fd.Height = binary.LittleEndian.Uint16(buf[7:9])
	fd.MinBitRate = binary.LittleEndian.Uint32(buf[9:13])
	fd.MaxBitRate = binary.LittleEndian.Uint32(buf[13:17])
	fd.MaxVideoFrameBufferSize = binary.LittleEndian.Uint32(buf[17:21])
	fd.DefaultFrameInterval = interval(buf[21:25])

	n := int(buf[25])
	if n == 0 {
		if len(buf) < 38 {
			return io.ErrShortBuffer
		}
		fd.ContinuousFrameInterval.MinFrameInterval = interval(buf[26:30])
		fd.ContinuousFrameInterval.MaxFrameInterval = interval(buf[30:34])
		fd.ContinuousFrameInterval.FrameIntervalStep = interval(buf[34:38])
		fd.DiscreteFrameIntervals = nil
		return nil
	}
	if len(buf) < 26+4*n {
		return io.ErrShortBuffer
	}
	fd.DiscreteFrameIntervals = make([]time.Duration, n)
	for i := range n {
		fd.DiscreteFrameIntervals[i] = interval(buf[26+4*i : 30+4*i])
	}
	return nil
}

// Intervals lists the frame intervals the frame supports. A continuous range
// is reported by its endpoints.
func (fd *FrameDescriptor) Intervals() []time.Duration {
	if len(fd.DiscreteFrameIntervals) > 0 {
		return fd.DiscreteFrameIntervals
	}
	c := fd.ContinuousFrameInterval
	if c.MinFrameInterval == 0 {
		return nil
	}
	if c.MaxFrameInterval == c.MinFrameInterval {
		return []time.Duration{c.MinFrameInterval}
	}
	return []time.Duration{c.MinFrameInterval, c.MaxFrameInterval}
}

// FrameRates converts Intervals to whole frames per second, rounding to the
// nearest integer.
func (fd *FrameDescriptor) FrameRates() []uint32 {
	ivs := fd.Intervals()
	rates := make([]uint32, 0, len(ivs))
	for _, iv := range ivs {
		if iv <= 0 {
			continue
		}
		rates = append(rates, uint32((time.Second+iv/2)/iv))
	}
	return rates
}

// IntervalFor returns the supported interval closest to fps frames per second.
func (fd *FrameDescriptor) IntervalFor(fps uint32) time.Duration {
	if fps == 0 {
		return fd.DefaultFrameInterval
	}
	want := time.Second / time.Duration(fps)
	best := fd.DefaultFrameInterval
	bestDiff := absDuration(best - want)
	for _, iv := range fd.Intervals() {
		if d := absDuration(iv - want); d < bestDiff {
			best, bestDiff = iv, d
		}
	}
	if c := fd.ContinuousFrameInterval; len(fd.DiscreteFrameIntervals) == 0 && c.MinFrameInterval > 0 &&
		want >= c.MinFrameInterval && want <= c.MaxFrameInterval {
		return want
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
