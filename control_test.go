package camerata_test

import (
	"errors"
	"testing"

	camerata "github.com/kevmo314/go-camerata"
	"github.com/kevmo314/go-camerata/internal/fakecam"
)

var testControls = []camerata.ControlDescriptor{
	{Name: "Brightness", ID: 2, Kind: camerata.ControlKindInteger, Min: -64, Max: 64, Step: 1},
	{Name: "Gain", ID: 4, Kind: camerata.ControlKindInteger, Min: 0, Max: 100, Step: 10},
	{Name: "Auto Exposure", ID: 9, Kind: camerata.ControlKindBoolean, Min: 0, Max: 1, Step: 1},
}

func TestControlsListing(t *testing.T) {
	s := newSession(t, &fakecam.Camera{Name: "cam", Modes: rgbModes, Controls: testControls})
	cs := s.Controls()
	if len(cs) != len(testControls) {
		t.Fatalf("len(Controls()) = %d, want %d", len(cs), len(testControls))
	}
	for i, c := range cs {
		if c.Name() != testControls[i].Name {
			t.Errorf("Controls()[%d].Name() = %q, want %q", i, c.Name(), testControls[i].Name)
		}
		if c.Active() {
			t.Errorf("%s: Active() = true before any write", c.Name())
		}
	}
	if _, ok := s.Control("Gain"); !ok {
		t.Error("Control(Gain) not found")
	}
	if _, ok := s.Control("Zoom"); ok {
		t.Error("Control(Zoom) found")
	}
}

func TestControlsUnavailableIsEmpty(t *testing.T) {
	s := newSession(t, &fakecam.Camera{Name: "cam", Controls: testControls, FailControls: true})
	cs := s.Controls()
	if cs == nil || len(cs) != 0 {
		t.Errorf("Controls() = %v, want empty non-nil", cs)
	}
}

func TestControlSetWhileCapturing(t *testing.T) {
	cam := &fakecam.Camera{Name: "cam", Modes: rgbModes, Controls: testControls}
	s := newSession(t, cam)
	if err := s.Open(camerata.Format{}); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	waitFor(t, "first frame", func() bool { return s.FrameCount() > 0 })

	c, _ := s.Control("Brightness")
	for v := int64(-5); v <= 5; v++ {
		if err := c.Set(v); err != nil {
			t.Fatalf("Set(%d) failed: %v", v, err)
		}
	}
	if v, ok := cam.Value("Brightness"); !ok || v != 5 {
		t.Errorf("device Brightness = %d, %v, want 5", v, ok)
	}
	if !c.Active() {
		t.Error("Active() = false after Set")
	}
	if n := cam.Overlaps(); n != 0 {
		t.Errorf("Overlaps() = %d, want 0", n)
	}
}

func TestControlAfterClose(t *testing.T) {
	cam := &fakecam.Camera{Name: "cam", Modes: rgbModes, Controls: testControls}
	s := newSession(t, cam)
	c, ok := s.Control("Gain")
	if !ok {
		t.Fatal("Control(Gain) not found")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	v := int64(50)
	if err := c.SetValue(&v); !errors.Is(err, camerata.ErrControlUnavailable) {
		t.Errorf("SetValue(50) = %v, want ErrControlUnavailable", err)
	}
	if _, ok := cam.Value("Gain"); ok {
		t.Error("closed device was written")
	}
	if err := c.SetValue(nil); err != nil {
		t.Errorf("SetValue(nil) = %v, want nil", err)
	}
	if c.Active() {
		t.Error("Active() = true after SetValue(nil)")
	}
	if s.Controls() == nil {
		t.Error("Controls() = nil after Close, want empty")
	}
}

func TestControlReset(t *testing.T) {
	cam := &fakecam.Camera{Name: "cam", Controls: testControls}
	s := newSession(t, cam)
	c, _ := s.Control("Gain")
	if err := c.Set(30); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if c.Active() {
		t.Error("Active() = true after Reset")
	}
	if v, _ := cam.Value("Gain"); v != 30 {
		t.Errorf("Reset wrote to the device: Gain = %d, want 30", v)
	}
}

func TestControlValueRange(t *testing.T) {
	s := newSession(t, &fakecam.Camera{Name: "cam", Controls: testControls})
	c, _ := s.Control("Gain")
	lo, hi, step, err := c.ValueRange()
	if err != nil {
		t.Fatalf("ValueRange failed: %v", err)
	}
	if lo != 0 || hi != 100 || step != 10 {
		t.Errorf("ValueRange() = %d, %d, %d, want 0, 100, 10", lo, hi, step)
	}

	b, _ := s.Control("Auto Exposure")
	if _, _, _, err := b.ValueRange(); !errors.Is(err, camerata.ErrControlKindUnsupported) {
		t.Errorf("ValueRange() on boolean = %v, want ErrControlKindUnsupported", err)
	}
	if err := b.SetFraction(0.5); !errors.Is(err, camerata.ErrControlKindUnsupported) {
		t.Errorf("SetFraction on boolean = %v, want ErrControlKindUnsupported", err)
	}
}

func TestControlSetFraction(t *testing.T) {
	cam := &fakecam.Camera{Name: "cam", Controls: testControls}
	s := newSession(t, cam)
	tests := []struct {
		control string
		f       float64
		want    int64
	}{
		{"Gain", 0, 0},
		{"Gain", 1, 100},
		{"Gain", 0.44, 40},
		{"Gain", 0.46, 50},
		{"Brightness", 0.5, 0},
		{"Brightness", 0, -64},
	}
	for _, tt := range tests {
		c, _ := s.Control(tt.control)
		if err := c.SetFraction(tt.f); err != nil {
			t.Errorf("%s.SetFraction(%v) failed: %v", tt.control, tt.f, err)
			continue
		}
		if v, _ := cam.Value(tt.control); v != tt.want {
			t.Errorf("%s.SetFraction(%v) wrote %d, want %d", tt.control, tt.f, v, tt.want)
		}
	}
	c, _ := s.Control("Gain")
	if err := c.SetFraction(1.5); err == nil {
		t.Error("SetFraction(1.5) = nil, want error")
	}
}
