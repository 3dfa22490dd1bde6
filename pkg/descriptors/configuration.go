package descriptors

import (
	"encoding/binary"
	"fmt"
)

// Configuration is the video function of a configuration descriptor: the
// control interface with its camera terminal and processing unit, and the
// streaming interfaces with the formats and endpoints they offer.
type Configuration struct {
	ControlInterface uint8
	UVC              uint16
	CameraTerminal   *InputTerminalDescriptor
	ProcessingUnit   *ProcessingUnitDescriptor
	Streams          []*StreamingInterface
}

type StreamingInterface struct {
	InterfaceNumber uint8
	Header          InputHeaderDescriptor
	Formats         []*Format
	AltSettings     []AltSetting
}

// Format is a format descriptor followed by its frame descriptors. Formats
// this package cannot decode, such as H.264, are skipped.
type Format struct {
	FormatDescriptor
	Frames []*FrameDescriptor
}

// AltSetting is an IN endpoint offered by one alternate setting of a
// streaming interface.
type AltSetting struct {
	Alternate       uint8
	EndpointAddress uint8
	Attributes      uint8
	MaxPacketSize   uint16
}

func (a AltSetting) Isochronous() bool { return a.Attributes&0x03 == 0x01 }

// Bandwidth is the number of bytes the endpoint moves per service interval,
// accounting for high-bandwidth additional transactions.
func (a AltSetting) Bandwidth() int {
	size := int(a.MaxPacketSize & 0x07FF)
	mult := int(a.MaxPacketSize>>11&0x03) + 1
	return size * mult
}

// PacketSize is the buffer size one isochronous packet needs.
func (a AltSetting) PacketSize() int { return a.Bandwidth() }

// ParseConfiguration walks a full configuration descriptor as returned by a
// GET_DESCRIPTOR request.
func ParseConfiguration(buf []byte) (*Configuration, error) {
	descs, err := Split(buf)
	if err != nil {
		return nil, err
	}
	cfg := &Configuration{}
	var (
		inVideo  bool
		subclass SubclassCode
		foundVC  bool
		stream   *StreamingInterface
		alt      uint8
		format   *Format
	)
	for _, d := range descs {
		switch DescriptorType(d[1]) {
		case DescriptorTypeInterface:
			if len(d) < 9 {
				return nil, fmt.Errorf("%w: interface descriptor of %d bytes", ErrInvalidDescriptor, len(d))
			}
			inVideo = ClassCode(d[5]) == ClassCodeVideo
			subclass = SubclassCode(d[6])
			alt = d[3]
			format = nil
			if !inVideo {
				stream = nil
				continue
			}
			switch subclass {
			case SubclassCodeVideoControl:
				if !foundVC {
					cfg.ControlInterface = d[2]
					foundVC = true
				}
				stream = nil
			case SubclassCodeVideoStreaming:
				stream = cfg.stream(d[2])
			}

		case DescriptorTypeEndpoint:
			if stream == nil || len(d) < 7 || d[2]&0x80 == 0 {
				continue
			}
			stream.AltSettings = append(stream.AltSettings, AltSetting{
				Alternate:       alt,
				EndpointAddress: d[2],
				Attributes:      d[3],
				MaxPacketSize:   binary.LittleEndian.Uint16(d[4:6]),
			})

		case DescriptorTypeCSInterface:
			if !inVideo || len(d) < 3 {
				continue
			}
			if subclass == SubclassCodeVideoControl {
				if err := cfg.parseControl(d); err != nil {
					return nil, err
				}
				continue
			}
			if stream == nil {
				continue
			}
			switch VideoStreamingInterfaceDescriptorSubtype(d[2]) {
			case VideoStreamingInterfaceDescriptorSubtypeInputHeader:
				if err := stream.Header.UnmarshalBinary(d); err != nil {
					return nil, fmt.Errorf("input header: %w", err)
				}
			case VideoStreamingInterfaceDescriptorSubtypeFormatMJPEG, VideoStreamingInterfaceDescriptorSubtypeFormatUncompressed:
				format = &Format{}
				if err := format.FormatDescriptor.UnmarshalBinary(d); err != nil {
					return nil, fmt.Errorf("format descriptor: %w", err)
				}
				stream.Formats = append(stream.Formats, format)
			case VideoStreamingInterfaceDescriptorSubtypeFrameMJPEG, VideoStreamingInterfaceDescriptorSubtypeFrameUncompressed:
				if format == nil {
					continue
				}
				fr := &FrameDescriptor{}
				if err := fr.UnmarshalBinary(d); err != nil {
					return nil, fmt.Errorf("frame descriptor: %w", err)
				}
				format.Frames = append(format.Frames, fr)
			case VideoStreamingInterfaceDescriptorSubtypeColorFormat, VideoStreamingInterfaceDescriptorSubtypeStillImageFrame:
			default:
				// some other payload format; its frames must not attach to the previous one
				format = nil
			}
		}
	}
	if !foundVC {
		return nil, fmt.Errorf("%w: no video control interface", ErrInvalidDescriptor)
	}
	return cfg, nil
}

func (cfg *Configuration) stream(num uint8) *StreamingInterface {
	for _, s := range cfg.Streams {
		if s.InterfaceNumber == num {
			return s
		}
	}
	s := &StreamingInterface{InterfaceNumber: num}
	cfg.Streams = append(cfg.Streams, s)
	return s
}

func (cfg *Configuration) parseControl(d []byte) error {
	switch VideoControlInterfaceDescriptorSubtype(d[2]) {
	case VideoControlInterfaceDescriptorSubtypeHeader:
		hd := &HeaderDescriptor{}
		if err := hd.UnmarshalBinary(d); err != nil {
			return fmt.Errorf("control header: %w", err)
		}
		cfg.UVC = hd.UVC
	case VideoControlInterfaceDescriptorSubtypeInputTerminal:
		it := &InputTerminalDescriptor{}
		if err := it.UnmarshalBinary(d); err != nil {
			return fmt.Errorf("input terminal: %w", err)
		}
		if it.TerminalType == InputTerminalTypeCamera && cfg.CameraTerminal == nil {
			cfg.CameraTerminal = it
		}
	case VideoControlInterfaceDescriptorSubtypeProcessingUnit:
		pu := &ProcessingUnitDescriptor{}
		if err := pu.UnmarshalBinary(d); err != nil {
			return fmt.Errorf("processing unit: %w", err)
		}
		if cfg.ProcessingUnit == nil {
			cfg.ProcessingUnit = pu
		}
	}
	return nil
}

// Frame looks up a frame descriptor by format and frame index.
func (s *StreamingInterface) Frame(formatIndex, frameIndex uint8) (*Format, *FrameDescriptor, bool) {
	for _, f := range s.Formats {
		if f.FormatIndex != formatIndex {
			continue
		}
		for _, fr := range f.Frames {
			if fr.FrameIndex == frameIndex {
				return f, fr, true
			}
		}
	}
	return nil, nil, false
}
