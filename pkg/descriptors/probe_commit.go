package descriptors

import (
	"encoding/binary"
	"io"
	"time"
)

type VideoStreamingControlSelector uint8

const (
	VideoStreamingControlSelectorProbe  VideoStreamingControlSelector = 0x01
	VideoStreamingControlSelectorCommit VideoStreamingControlSelector = 0x02
)

// Lengths of the probe/commit block for each UVC revision.
const (
	ProbeCommitLengthUVC10 = 26
	ProbeCommitLengthUVC11 = 34
	ProbeCommitLengthUVC15 = 48
)

// ProbeCommitLength returns the probe/commit block length for a bcdUVC value.
func ProbeCommitLength(bcdUVC uint16) int {
	switch {
	case bcdUVC >= 0x0150:
		return ProbeCommitLengthUVC15
	case bcdUVC >= 0x0110:
		return ProbeCommitLengthUVC11
	default:
		return ProbeCommitLengthUVC10
	}
}

// VideoProbeCommitControl as defined in UVC spec 1.5, 4.3.1.1. Blocks are not
// length or selector prefixed; the control transfer carries those.
type VideoProbeCommitControl struct {
	HintBitmask            uint16
	FormatIndex            uint8
	FrameIndex             uint8
	FrameInterval          time.Duration
	KeyFrameRate           uint16
	PFrameRate             uint16
	CompQuality            uint16
	CompWindowSize         uint16
	Delay                  uint16
	MaxVideoFrameSize      uint32
	MaxPayloadTransferSize uint32

	// added in uvc 1.1
	ClockFrequency     uint32
	FramingInfoBitmask uint8
	PreferedVersion    uint8
	MinVersion         uint8
	MaxVersion         uint8
}

// MarshalInto encodes into buf, which must be one of the ProbeCommitLength*
// sizes. The UVC 1.5 tail is left zero.
func (vpcc *VideoProbeCommitControl) MarshalInto(buf []byte) error {
	if len(buf) < ProbeCommitLengthUVC10 {
		return io.ErrShortBuffer
	}
	binary.LittleEndian.PutUint16(buf[0:2], vpcc.HintBitmask)
	buf[2] = vpcc.FormatIndex
	buf[3] = vpcc.FrameIndex
	binary.LittleEndian.PutUint32(buf[4:8], uint32(vpcc.FrameInterval/(100*time.Nanosecond)))
	binary.LittleEndian.PutUint16(buf[8:10], vpcc.KeyFrameRate)
	binary.LittleEndian.PutUint16(buf[10:12], vpcc.PFrameRate)
	binary.LittleEndian.PutUint16(buf[12:14], vpcc.CompQuality)
	binary.LittleEndian.PutUint16(buf[14:16], vpcc.CompWindowSize)
	binary.LittleEndian.PutUint16(buf[16:18], vpcc.Delay)
	binary.LittleEndian.PutUint32(buf[18:22], vpcc.MaxVideoFrameSize)
	binary.LittleEndian.PutUint32(buf[22:26], vpcc.MaxPayloadTransferSize)
	if len(buf) >= ProbeCommitLengthUVC11 {
		binary.LittleEndian.PutUint32(buf[26:30], vpcc.ClockFrequency)
		buf[30] = vpcc.FramingInfoBitmask
		buf[31] = vpcc.PreferedVersion
		buf[32] = vpcc.MinVersion
		buf[33] = vpcc.MaxVersion
	}
	return nil
}

func (vpcc *VideoProbeCommitControl) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ProbeCommitLengthUVC15)
	return buf, vpcc.MarshalInto(buf)
}

func (vpcc *VideoProbeCommitControl) UnmarshalBinary(buf []byte) error {
	if len(buf) < ProbeCommitLengthUVC10 {
		return io.ErrShortBuffer
	}
	vpcc.HintBitmask = binary.LittleEndian.Uint16(buf[0:2])
	vpcc.FormatIndex = buf[2]
	vpcc.FrameIndex = buf[3]
	vpcc.FrameInterval = interval(buf[4:8])
	vpcc.KeyFrameRate = binary.LittleEndian.Uint16(buf[8:10])
	vpcc.PFrameRate = binary.LittleEndian.Uint16(buf[10:12])
	vpcc.CompQuality = binary.LittleEndian.Uint16(buf[12:14])
	vpcc.CompWindowSize = binary.LittleEndian.Uint16(buf[14:16])
	vpcc.Delay = binary.LittleEndian.Uint16(buf[16:18])
	vpcc.MaxVideoFrameSize = binary.LittleEndian.Uint32(buf[18:22])
	vpcc.MaxPayloadTransferSize = binary.LittleEndian.Uint32(buf[22:26])
	if len(buf) >= ProbeCommitLengthUVC11 {
		vpcc.ClockFrequency = binary.LittleEndian.Uint32(buf[26:30])
		vpcc.FramingInfoBitmask = buf[30]
		vpcc.PreferedVersion = buf[31]
		vpcc.MinVersion = buf[32]
		vpcc.MaxVersion = buf[33]
	}
	return nil
}
