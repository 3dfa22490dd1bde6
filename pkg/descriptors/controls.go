package descriptors

import (
	"encoding/binary"
	"fmt"
)

// ValueKind describes how a control's value is interpreted.
type ValueKind int

const (
	ValueKindInteger ValueKind = iota
	ValueKindBoolean
	ValueKindMenu
)

type controlInfo struct {
	name   string
	bit    int
	size   int
	signed bool
	kind   ValueKind
}

func (ci controlInfo) decode(buf []byte) (int64, error) {
	if len(buf) < ci.size {
		return 0, fmt.Errorf("%s: got %d bytes, want %d", ci.name, len(buf), ci.size)
	}
	switch ci.size {
	case 1:
		if ci.signed {
			return int64(int8(buf[0])), nil
		}
		return int64(buf[0]), nil
	case 2:
		v := binary.LittleEndian.Uint16(buf)
		if ci.signed {
			return int64(int16(v)), nil
		}
		return int64(v), nil
	case 4:
		v := binary.LittleEndian.Uint32(buf)
		if ci.signed {
			return int64(int32(v)), nil
		}
		return int64(v), nil
	}
	return 0, fmt.Errorf("%s: unsupported size %d", ci.name, ci.size)
}

func (ci controlInfo) encode(v int64) []byte {
	buf := make([]byte, ci.size)
	switch ci.size {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	}
	return buf
}

type ProcessingUnitControlSelector int

const (
	ProcessingUnitControlSelectorUndefined           ProcessingUnitControlSelector = 0x00
	ProcessingUnitBacklightCompensationControl       ProcessingUnitControlSelector = 0x01
	ProcessingUnitBrightnessControl                  ProcessingUnitControlSelector = 0x02
	ProcessingUnitContrastControl                    ProcessingUnitControlSelector = 0x03
	ProcessingUnitGainControl                        ProcessingUnitControlSelector = 0x04
	ProcessingUnitPowerLineFrequencyControl          ProcessingUnitControlSelector = 0x05
	ProcessingUnitHueControl                         ProcessingUnitControlSelector = 0x06
	ProcessingUnitSaturationControl                  ProcessingUnitControlSelector = 0x07
	ProcessingUnitSharpnessControl                   ProcessingUnitControlSelector = 0x08
	ProcessingUnitGammaControl                       ProcessingUnitControlSelector = 0x09
	ProcessingUnitWhiteBalanceTemperatureControl     ProcessingUnitControlSelector = 0x0A
	ProcessingUnitWhiteBalanceTemperatureAutoControl ProcessingUnitControlSelector = 0x0B
	ProcessingUnitHueAutoControl                     ProcessingUnitControlSelector = 0x10
)

// Bit positions and field sizes from UVC spec 1.5, 3.7.2.5 and 4.2.2.3.
var processingUnitControls = map[ProcessingUnitControlSelector]controlInfo{
	ProcessingUnitBacklightCompensationControl:       {"Backlight Compensation", 8, 2, false, ValueKindInteger},
	ProcessingUnitBrightnessControl:                  {"Brightness", 0, 2, true, ValueKindInteger},
	ProcessingUnitContrastControl:                    {"Contrast", 1, 2, false, ValueKindInteger},
	ProcessingUnitGainControl:                        {"Gain", 9, 2, false, ValueKindInteger},
	ProcessingUnitPowerLineFrequencyControl:          {"Power Line Frequency", 10, 1, false, ValueKindMenu},
	ProcessingUnitHueControl:                         {"Hue", 2, 2, true, ValueKindInteger},
	ProcessingUnitSaturationControl:                  {"Saturation", 3, 2, false, ValueKindInteger},
	ProcessingUnitSharpnessControl:                   {"Sharpness", 4, 2, false, ValueKindInteger},
	ProcessingUnitGammaControl:                       {"Gamma", 5, 2, false, ValueKindInteger},
	ProcessingUnitWhiteBalanceTemperatureControl:     {"White Balance Temperature", 6, 2, false, ValueKindInteger},
	ProcessingUnitWhiteBalanceTemperatureAutoControl: {"White Balance Temperature, Auto", 12, 1, false, ValueKindBoolean},
	ProcessingUnitHueAutoControl:                     {"Hue, Auto", 11, 1, false, ValueKindBoolean},
}

// ProcessingUnitControlSelectors lists the selectors this package can encode,
// in selector order.
var ProcessingUnitControlSelectors = []ProcessingUnitControlSelector{
	ProcessingUnitBacklightCompensationControl,
	ProcessingUnitBrightnessControl,
	ProcessingUnitContrastControl,
	ProcessingUnitGainControl,
	ProcessingUnitPowerLineFrequencyControl,
	ProcessingUnitHueControl,
	ProcessingUnitSaturationControl,
	ProcessingUnitSharpnessControl,
	ProcessingUnitGammaControl,
	ProcessingUnitWhiteBalanceTemperatureControl,
	ProcessingUnitWhiteBalanceTemperatureAutoControl,
	ProcessingUnitHueAutoControl,
}

func (s ProcessingUnitControlSelector) String() string {
	if ci, ok := processingUnitControls[s]; ok {
		return ci.name
	}
	return fmt.Sprintf("ProcessingUnitControl(0x%02x)", int(s))
}

// FeatureBit is the position of the control in the processing unit's
// bmControls bitmap, or -1 if unknown.
func (s ProcessingUnitControlSelector) FeatureBit() int {
	if ci, ok := processingUnitControls[s]; ok {
		return ci.bit
	}
	return -1
}

// Size is the length in bytes of the control's value.
func (s ProcessingUnitControlSelector) Size() int { return processingUnitControls[s].size }

func (s ProcessingUnitControlSelector) Kind() ValueKind { return processingUnitControls[s].kind }

func (s ProcessingUnitControlSelector) Decode(buf []byte) (int64, error) {
	ci, ok := processingUnitControls[s]
	if !ok {
		return 0, fmt.Errorf("unknown control %v", s)
	}
	return ci.decode(buf)
}

func (s ProcessingUnitControlSelector) Encode(v int64) []byte {
	return processingUnitControls[s].encode(v)
}

type CameraTerminalControlSelector int

const (
	CameraTerminalControlSelectorUndefined                   CameraTerminalControlSelector = 0x00
	CameraTerminalControlSelectorAutoExposureModeControl     CameraTerminalControlSelector = 0x02
	CameraTerminalControlSelectorExposureTimeAbsoluteControl CameraTerminalControlSelector = 0x04
	CameraTerminalControlSelectorFocusAbsoluteControl        CameraTerminalControlSelector = 0x06
	CameraTerminalControlSelectorFocusAutoControl            CameraTerminalControlSelector = 0x08
	CameraTerminalControlSelectorZoomAbsoluteControl         CameraTerminalControlSelector = 0x0B
)

// Bit positions and field sizes from UVC spec 1.5, 3.7.2.3 and 4.2.2.1.
var cameraTerminalControls = map[CameraTerminalControlSelector]controlInfo{
	CameraTerminalControlSelectorAutoExposureModeControl:     {"Auto Exposure Mode", 1, 1, false, ValueKindMenu},
	CameraTerminalControlSelectorExposureTimeAbsoluteControl: {"Exposure Time, Absolute", 3, 4, false, ValueKindInteger},
	CameraTerminalControlSelectorFocusAbsoluteControl:        {"Focus, Absolute", 5, 2, false, ValueKindInteger},
	CameraTerminalControlSelectorFocusAutoControl:            {"Focus, Auto", 17, 1, false, ValueKindBoolean},
	CameraTerminalControlSelectorZoomAbsoluteControl:         {"Zoom, Absolute", 9, 2, false, ValueKindInteger},
}

var CameraTerminalControlSelectors = []CameraTerminalControlSelector{
	CameraTerminalControlSelectorAutoExposureModeControl,
	CameraTerminalControlSelectorExposureTimeAbsoluteControl,
	CameraTerminalControlSelectorFocusAbsoluteControl,
	CameraTerminalControlSelectorFocusAutoControl,
	CameraTerminalControlSelectorZoomAbsoluteControl,
}

func (s CameraTerminalControlSelector) String() string {
	if ci, ok := cameraTerminalControls[s]; ok {
		return ci.name
	}
	return fmt.Sprintf("CameraTerminalControl(0x%02x)", int(s))
}

func (s CameraTerminalControlSelector) FeatureBit() int {
	if ci, ok := cameraTerminalControls[s]; ok {
		return ci.bit
	}
	return -1
}

func (s CameraTerminalControlSelector) Size() int { return cameraTerminalControls[s].size }

func (s CameraTerminalControlSelector) Kind() ValueKind { return cameraTerminalControls[s].kind }

func (s CameraTerminalControlSelector) Decode(buf []byte) (int64, error) {
	ci, ok := cameraTerminalControls[s]
	if !ok {
		return 0, fmt.Errorf("unknown control %v", s)
	}
	return ci.decode(buf)
}

func (s CameraTerminalControlSelector) Encode(v int64) []byte {
	return cameraTerminalControls[s].encode(v)
}
