package descriptors

import (
	"encoding/binary"
	"io"
)

type VideoControlInterfaceDescriptorSubtype byte

const (
	VideoControlInterfaceDescriptorSubtypeUndefined      VideoControlInterfaceDescriptorSubtype = 0x00
	VideoControlInterfaceDescriptorSubtypeHeader         VideoControlInterfaceDescriptorSubtype = 0x01
	VideoControlInterfaceDescriptorSubtypeInputTerminal  VideoControlInterfaceDescriptorSubtype = 0x02
	VideoControlInterfaceDescriptorSubtypeOutputTerminal VideoControlInterfaceDescriptorSubtype = 0x03
	VideoControlInterfaceDescriptorSubtypeSelectorUnit   VideoControlInterfaceDescriptorSubtype = 0x04
	VideoControlInterfaceDescriptorSubtypeProcessingUnit VideoControlInterfaceDescriptorSubtype = 0x05
	VideoControlInterfaceDescriptorSubtypeExtensionUnit  VideoControlInterfaceDescriptorSubtype = 0x06
	VideoControlInterfaceDescriptorSubtypeEncodingUnit   VideoControlInterfaceDescriptorSubtype = 0x07
)

type InputTerminalType uint16

const (
	InputTerminalTypeVendorSpecific      InputTerminalType = 0x0200
	InputTerminalTypeCamera              InputTerminalType = 0x0201
	InputTerminalTypeMediaTransportInput InputTerminalType = 0x0202
)

func checkHeader(buf []byte, subtype byte) error {
	if len(buf) < 3 || len(buf) < int(buf[0]) {
		return io.ErrShortBuffer
	}
	if DescriptorType(buf[1]) != DescriptorTypeCSInterface || buf[2] != subtype {
		return ErrInvalidDescriptor
	}
	return nil
}

// HeaderDescriptor as defined in UVC spec 1.5, 3.7.2.1
type HeaderDescriptor struct {
	UVC                            uint16
	TotalLength                    uint16
	ClockFrequency                 uint32
	VideoStreamingInterfaceIndexes []uint8
}

func (hd *HeaderDescriptor) UnmarshalBinary(buf []byte) error {
	if err := checkHeader(buf, byte(VideoControlInterfaceDescriptorSubtypeHeader)); err != nil {
		return err
	}
	if len(buf) < 12 || len(buf) < 12+int(buf[11]) {
		return io.ErrShortBuffer
	}
	hd.UVC = binary.LittleEndian.Uint16(buf[3:5])
	hd.TotalLength = binary.LittleEndian.Uint16(buf[5:7])
	hd.ClockFrequency = binary.LittleEndian.Uint32(buf[7:11])
	hd.VideoStreamingInterfaceIndexes = append([]uint8(nil), buf[12:12+buf[11]]...)
	return nil
}

// InputTerminalDescriptor as defined in UVC spec 1.5, 3.7.2.1. For camera
// terminals the controls bitmap of 3.7.2.3 is decoded too.
type InputTerminalDescriptor struct {
	TerminalID      uint8
	TerminalType    InputTerminalType
	AssocTerminal   uint8
	ControlsBitmask []byte
}

func (itd *InputTerminalDescriptor) UnmarshalBinary(buf []byte) error {
	if err := checkHeader(buf, byte(VideoControlInterfaceDescriptorSubtypeInputTerminal)); err != nil {
		return err
	}
	if len(buf) < 8 {
		return io.ErrShortBuffer
	}
	itd.TerminalID = buf[3]
	itd.TerminalType = InputTerminalType(binary.LittleEndian.Uint16(buf[4:6]))
	itd.AssocTerminal = buf[6]
	itd.ControlsBitmask = nil
	if itd.TerminalType == InputTerminalTypeCamera && len(buf) >= 15 {
		n := int(buf[14])
		if len(buf) < 15+n {
			return io.ErrShortBuffer
		}
		itd.ControlsBitmask = append([]byte(nil), buf[15:15+n]...)
	}
	return nil
}

// Supports reports whether the camera terminal advertises sel.
func (itd *InputTerminalDescriptor) Supports(sel CameraTerminalControlSelector) bool {
	return bitSet(itd.ControlsBitmask, sel.FeatureBit())
}

// ProcessingUnitDescriptor as defined in UVC spec 1.5, 3.7.2.5
type ProcessingUnitDescriptor struct {
	UnitID          uint8
	SourceID        uint8
	MaxMultiplier   uint16
	ControlsBitmask []byte
}

func (pud *ProcessingUnitDescriptor) UnmarshalBinary(buf []byte) error {
	if err := checkHeader(buf, byte(VideoControlInterfaceDescriptorSubtypeProcessingUnit)); err != nil {
		return err
	}
	if len(buf) < 8 || len(buf) < 8+int(buf[7]) {
		return io.ErrShortBuffer
	}
	pud.UnitID = buf[3]
	pud.SourceID = buf[4]
	pud.MaxMultiplier = binary.LittleEndian.Uint16(buf[5:7])
	pud.ControlsBitmask = append([]byte(nil), buf[8:8+buf[7]]...)
	return nil
}

// Supports reports whether the processing unit advertises sel.
func (pud *ProcessingUnitDescriptor) Supports(sel ProcessingUnitControlSelector) bool {
	return bitSet(pud.ControlsBitmask, sel.FeatureBit())
}

func bitSet(bitmap []byte, bit int) bool {
	if bit < 0 || bit/8 >= len(bitmap) {
		return false
	}
	return bitmap[bit/8]&(1<<(bit%8)) != 0
}
