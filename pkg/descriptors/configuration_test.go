package descriptors

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

var yuy2 = uuid.MustParse("32595559-0000-0010-8000-00AA00389B71")

func iface(num, alt, subclass uint8) []byte {
	return []byte{9, byte(DescriptorTypeInterface), num, alt, 1, byte(ClassCodeVideo), subclass, 1, 0}
}

func endpoint(addr, attrs uint8, maxPacket uint16) []byte {
	d := []byte{7, byte(DescriptorTypeEndpoint), addr, attrs, 0, 0, 1}
	binary.LittleEndian.PutUint16(d[4:6], maxPacket)
	return d
}

func frameDesc(subtype VideoStreamingInterfaceDescriptorSubtype, index uint8, w, h uint16, intervals ...uint32) []byte {
	d := make([]byte, 26+4*len(intervals))
	d[0] = byte(len(d))
	d[1] = byte(DescriptorTypeCSInterface)
	d[2] = byte(subtype)
	d[3] = index
	binary.LittleEndian.PutUint16(d[5:7], w)
	binary.LittleEndian.PutUint16(d[7:9], h)
	binary.LittleEndian.PutUint32(d[21:25], intervals[0])
	d[25] = byte(len(intervals))
	for i, iv := range intervals {
		binary.LittleEndian.PutUint32(d[26+4*i:], iv)
	}
	return d
}

func testConfiguration() []byte {
	var buf []byte
	add := func(d []byte) { buf = append(buf, d...) }

	add([]byte{9, byte(DescriptorTypeConfiguration), 0, 0, 2, 1, 0, 0x80, 250})
	add(iface(0, 0, byte(SubclassCodeVideoControl)))
	add([]byte{13, 0x24, 0x01, 0x10, 0x01, 0, 0, 0, 0, 0, 0, 1, 1}) // header, UVC 1.10
	camera := []byte{18, 0x24, 0x02, 1, 0x01, 0x02, 0, 0, 0, 0, 0, 0, 0, 0, 3, 0x0A, 0x00, 0x02}
	add(camera)
	add([]byte{11, 0x24, 0x05, 2, 1, 0, 0, 2, 0x03, 0x02, 0}) // processing unit

	add(iface(1, 0, byte(SubclassCodeVideoStreaming)))
	add([]byte{14, 0x24, 0x01, 2, 0, 0, 0x81, 0, 3, 0, 0, 0, 1, 0})
	add([]byte{11, 0x24, 0x06, 1, 2, 0, 1, 0, 0, 0, 0}) // MJPEG
	add(frameDesc(VideoStreamingInterfaceDescriptorSubtypeFrameMJPEG, 1, 1280, 720, 333333, 666666))
	add(frameDesc(VideoStreamingInterfaceDescriptorSubtypeFrameMJPEG, 2, 640, 480, 333333))

	unc := make([]byte, 27)
	unc[0], unc[1], unc[2], unc[3], unc[4] = 27, 0x24, 0x04, 2, 1
	copy(unc[5:21], GUIDToWire(yuy2))
	unc[21] = 16
	add(unc)
	add(frameDesc(VideoStreamingInterfaceDescriptorSubtypeFrameUncompressed, 1, 640, 480, 333333))

	// an H.264 format with a frame that must be ignored
	add([]byte{6, 0x24, 0x13, 3, 1, 0})
	add([]byte{6, 0x24, 0x14, 1, 0, 0})

	add(iface(1, 1, byte(SubclassCodeVideoStreaming)))
	add(endpoint(0x81, 0x05, 0x0400))
	add(iface(1, 2, byte(SubclassCodeVideoStreaming)))
	add(endpoint(0x81, 0x05, 0x1400)) // 1024 bytes, 2 additional transactions
	return buf
}

func TestParseConfiguration(t *testing.T) {
	cfg, err := ParseConfiguration(testConfiguration())
	if err != nil {
		t.Fatalf("ParseConfiguration failed: %v", err)
	}
	if cfg.ControlInterface != 0 {
		t.Errorf("ControlInterface = %d, want 0", cfg.ControlInterface)
	}
	if cfg.UVC != 0x0110 {
		t.Errorf("UVC = %04x, want 0110", cfg.UVC)
	}
	if cfg.CameraTerminal == nil || !cfg.CameraTerminal.Supports(CameraTerminalControlSelectorAutoExposureModeControl) {
		t.Errorf("CameraTerminal = %+v, want auto exposure support", cfg.CameraTerminal)
	}
	if !cfg.CameraTerminal.Supports(CameraTerminalControlSelectorFocusAutoControl) {
		t.Error("camera terminal should support Focus, Auto")
	}
	if cfg.ProcessingUnit == nil || cfg.ProcessingUnit.UnitID != 2 {
		t.Fatalf("ProcessingUnit = %+v, want unit 2", cfg.ProcessingUnit)
	}
	if !cfg.ProcessingUnit.Supports(ProcessingUnitGainControl) {
		t.Error("processing unit should support Gain")
	}

	if len(cfg.Streams) != 1 {
		t.Fatalf("len(Streams) = %d, want 1", len(cfg.Streams))
	}
	s := cfg.Streams[0]
	if s.InterfaceNumber != 1 || s.Header.EndpointAddress != 0x81 {
		t.Errorf("stream = %d endpoint %02x, want 1 endpoint 81", s.InterfaceNumber, s.Header.EndpointAddress)
	}
	if len(s.Formats) != 2 {
		t.Fatalf("len(Formats) = %d, want 2", len(s.Formats))
	}
	if !s.Formats[0].IsMJPEG() || len(s.Formats[0].Frames) != 2 {
		t.Errorf("Formats[0] = %+v, want MJPEG with 2 frames", s.Formats[0])
	}
	if s.Formats[1].GUID != yuy2 || len(s.Formats[1].Frames) != 1 {
		t.Errorf("Formats[1] GUID = %v with %d frames, want %v with 1", s.Formats[1].GUID, len(s.Formats[1].Frames), yuy2)
	}

	_, fr, ok := s.Frame(1, 1)
	if !ok {
		t.Fatal("Frame(1, 1) not found")
	}
	if fr.Width != 1280 || fr.Height != 720 {
		t.Errorf("Frame(1, 1) = %dx%d, want 1280x720", fr.Width, fr.Height)
	}
	rates := fr.FrameRates()
	if len(rates) != 2 || rates[0] != 30 || rates[1] != 15 {
		t.Errorf("FrameRates() = %v, want [30 15]", rates)
	}
	if iv := fr.IntervalFor(15); iv != 66666600*time.Nanosecond {
		t.Errorf("IntervalFor(15) = %v", iv)
	}

	if len(s.AltSettings) != 2 {
		t.Fatalf("len(AltSettings) = %d, want 2", len(s.AltSettings))
	}
	if a := s.AltSettings[1]; a.Alternate != 2 || !a.Isochronous() || a.Bandwidth() != 3072 {
		t.Errorf("AltSettings[1] = %+v bandwidth %d, want alt 2 iso 3072", a, a.Bandwidth())
	}
}

func TestParseConfigurationErrors(t *testing.T) {
	if _, err := ParseConfiguration([]byte{9, 2, 0}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("truncated: err = %v, want ErrInvalidDescriptor", err)
	}
	if _, err := ParseConfiguration([]byte{0, 2}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("zero length: err = %v, want ErrInvalidDescriptor", err)
	}
	noVideo := []byte{9, byte(DescriptorTypeInterface), 0, 0, 1, 0x03, 0, 0, 0}
	if _, err := ParseConfiguration(noVideo); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("no video: err = %v, want ErrInvalidDescriptor", err)
	}
}

func TestGUIDWire(t *testing.T) {
	wire := GUIDToWire(yuy2)
	// YUY2 is the FourCC "YUY2" in the first four bytes on the wire
	if string(wire[:4]) != "YUY2" {
		t.Errorf("wire prefix = %q, want YUY2", wire[:4])
	}
	if got := GUIDFromWire(wire); got != yuy2 {
		t.Errorf("GUIDFromWire = %v, want %v", got, yuy2)
	}
}
