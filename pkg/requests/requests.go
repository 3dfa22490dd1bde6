// Package requests issues UVC class-specific control requests.
package requests

import (
	"encoding/binary"
	"fmt"
	"time"

	usb "github.com/kevmo314/go-usb"
)

type RequestType uint8

const (
	RequestTypeVideoInterfaceSetRequest RequestType = 0b00100001
	RequestTypeDataEndpointSetRequest   RequestType = 0b00100010
	RequestTypeVideoInterfaceGetRequest RequestType = 0b10100001
	RequestTypeDataEndpointGetRequest   RequestType = 0b10100010
)

type RequestCode uint8

const (
	RequestCodeUndefined RequestCode = 0x00
	RequestCodeSetCur    RequestCode = 0x01
	RequestCodeSetCurAll RequestCode = 0x11
	RequestCodeGetCur    RequestCode = 0x81
	RequestCodeGetMin    RequestCode = 0x82
	RequestCodeGetMax    RequestCode = 0x83
	RequestCodeGetRes    RequestCode = 0x84
	RequestCodeGetLen    RequestCode = 0x85
	RequestCodeGetInfo   RequestCode = 0x86
	RequestCodeGetDef    RequestCode = 0x87
	RequestCodeGetCurAll RequestCode = 0x91
	RequestCodeGetMinAll RequestCode = 0x92
	RequestCodeGetMaxAll RequestCode = 0x93
	RequestCodeGetResAll RequestCode = 0x94
	RequestCodeGetDefAll RequestCode = 0x97
)

// Standard requests used before the video function is known.
const (
	requestTypeStandardDeviceIn = 0x80
	requestGetDescriptor        = 0x06
	descriptorTypeConfiguration = 0x02
)

// Timeout bounds every control transfer.
const Timeout = time.Second

// Transferer issues control transfers. *usb.DeviceHandle implements it.
type Transferer interface {
	ControlTransfer(requestType, request uint8, value, index uint16, data []byte, timeout time.Duration) (int, error)
}

var _ Transferer = (*usb.DeviceHandle)(nil)

// Target addresses a control on an entity of a video interface. Streaming
// interface controls such as probe and commit use Entity 0.
type Target struct {
	Interface uint8
	Entity    uint8
	Selector  uint8
}

func (t Target) value() uint16 { return uint16(t.Selector) << 8 }
func (t Target) index() uint16 { return uint16(t.Entity)<<8 | uint16(t.Interface) }

// Get issues a GET_* request and returns exactly n bytes.
func Get(h Transferer, code RequestCode, t Target, n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := h.ControlTransfer(uint8(RequestTypeVideoInterfaceGetRequest), uint8(code), t.value(), t.index(), buf, Timeout)
	if err != nil {
		return nil, fmt.Errorf("%s selector %d on entity %d: %w", code, t.Selector, t.Entity, err)
	}
	if got != n {
		return nil, fmt.Errorf("%s selector %d on entity %d: read %d of %d bytes", code, t.Selector, t.Entity, got, n)
	}
	return buf, nil
}

// SetCur writes data with a SET_CUR request.
func SetCur(h Transferer, t Target, data []byte) error {
	got, err := h.ControlTransfer(uint8(RequestTypeVideoInterfaceSetRequest), uint8(RequestCodeSetCur), t.value(), t.index(), data, Timeout)
	if err != nil {
		return fmt.Errorf("SET_CUR selector %d on entity %d: %w", t.Selector, t.Entity, err)
	}
	if got != len(data) {
		return fmt.Errorf("SET_CUR selector %d on entity %d: wrote %d of %d bytes", t.Selector, t.Entity, got, len(data))
	}
	return nil
}

// ConfigurationDescriptor reads the active configuration descriptor with
// every interface and class-specific descriptor it contains.
func ConfigurationDescriptor(h Transferer) ([]byte, error) {
	head := make([]byte, 9)
	n, err := h.ControlTransfer(requestTypeStandardDeviceIn, requestGetDescriptor, descriptorTypeConfiguration<<8, 0, head, Timeout)
	if err != nil {
		return nil, fmt.Errorf("get configuration descriptor: %w", err)
	}
	if n < 4 {
		return nil, fmt.Errorf("get configuration descriptor: %d bytes", n)
	}
	total := int(binary.LittleEndian.Uint16(head[2:4]))
	buf := make([]byte, total)
	n, err = h.ControlTransfer(requestTypeStandardDeviceIn, requestGetDescriptor, descriptorTypeConfiguration<<8, 0, buf, Timeout)
	if err != nil {
		return nil, fmt.Errorf("get configuration descriptor: %w", err)
	}
	return buf[:n], nil
}

func (c RequestCode) String() string {
	switch c {
	case RequestCodeSetCur:
		return "SET_CUR"
	case RequestCodeGetCur:
		return "GET_CUR"
	case RequestCodeGetMin:
		return "GET_MIN"
	case RequestCodeGetMax:
		return "GET_MAX"
	case RequestCodeGetRes:
		return "GET_RES"
	case RequestCodeGetLen:
		return "GET_LEN"
	case RequestCodeGetInfo:
		return "GET_INFO"
	case RequestCodeGetDef:
		return "GET_DEF"
	}
	return fmt.Sprintf("request 0x%02x", uint8(c))
}
