// Package descriptors parses the USB Video Class descriptors a camera reports
// in its configuration descriptor, as defined in the UVC spec 1.5.
package descriptors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrInvalidDescriptor = errors.New("invalid descriptor")

type ClassCode byte

const (
	ClassCodeVideo         ClassCode = 0x0E
	ClassCodeMiscellaneous ClassCode = 0xEF
)

type SubclassCode byte

const (
	SubclassCodeUndefined                SubclassCode = 0x00
	SubclassCodeVideoControl             SubclassCode = 0x01
	SubclassCodeVideoStreaming           SubclassCode = 0x02
	SubclassCodeVideoInterfaceCollection SubclassCode = 0x03
)

// DescriptorType is the bDescriptorType field shared by every descriptor.
type DescriptorType byte

const (
	DescriptorTypeDevice               DescriptorType = 0x01
	DescriptorTypeConfiguration        DescriptorType = 0x02
	DescriptorTypeString               DescriptorType = 0x03
	DescriptorTypeInterface            DescriptorType = 0x04
	DescriptorTypeEndpoint             DescriptorType = 0x05
	DescriptorTypeInterfaceAssociation DescriptorType = 0x0B
	DescriptorTypeCSInterface          DescriptorType = 0x24
	DescriptorTypeCSEndpoint           DescriptorType = 0x25
)

// Split cuts a run of concatenated descriptors into individual ones using
// each descriptor's bLength.
func Split(buf []byte) ([][]byte, error) {
	var out [][]byte
	for len(buf) > 0 {
		n := int(buf[0])
		if n < 2 {
			return out, fmt.Errorf("%w: length %d", ErrInvalidDescriptor, n)
		}
		if n > len(buf) {
			return out, fmt.Errorf("%w: length %d exceeds remaining %d bytes", ErrInvalidDescriptor, n, len(buf))
		}
		out = append(out, buf[:n])
		buf = buf[n:]
	}
	return out, nil
}

// copyGUID reorders a GUID from the mixed-endian layout defined in UVC spec
// 1.5, section 2.9, into RFC 4122 byte order.
func copyGUID(dst []byte, src []byte) {
	dst[0], dst[1], dst[2], dst[3] = src[3], src[2], src[1], src[0]
	dst[4], dst[5] = src[5], src[4]
	dst[6], dst[7] = src[7], src[6]
	copy(dst[8:16], src[8:16])
}

// GUIDFromWire decodes a GUID as it appears in a descriptor.
func GUIDFromWire(src []byte) uuid.UUID {
	var u uuid.UUID
	copyGUID(u[:], src)
	return u
}

// GUIDToWire encodes a GUID the way a descriptor carries it.
func GUIDToWire(u uuid.UUID) []byte {
	buf := make([]byte, 16)
	// the swap is its own inverse
	copyGUID(buf, u[:])
	return buf
}
