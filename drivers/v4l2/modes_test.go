//go:build linux

package v4l2

import (
	"slices"
	"testing"

	"github.com/blackjack/webcam"

	camerata "github.com/kevmo314/go-camerata"
)

func TestFourCC(t *testing.T) {
	if got := fourcc("YUYV"); got != 0x56595559 {
		t.Errorf("fourcc(YUYV) = %08x, want 56595559", uint32(got))
	}
	if got := pixelFormats[camerata.MJPEG]; got != 0x47504A4D {
		t.Errorf("MJPEG pixel format = %08x, want 47504a4d", uint32(got))
	}
}

func TestEncodings(t *testing.T) {
	supported := map[webcam.PixelFormat]string{
		fourcc("YUYV"): "YUYV 4:2:2",
		fourcc("H264"): "H.264",
		fourcc("MJPG"): "Motion-JPEG",
	}
	got := encodings(supported)
	want := []camerata.Encoding{camerata.MJPEG, camerata.YUYV}
	if !slices.Equal(got, want) {
		t.Errorf("encodings = %v, want %v", got, want)
	}
}

func TestResolutions(t *testing.T) {
	got := resolutions([]webcam.FrameSize{
		{MinWidth: 640, MaxWidth: 640, MinHeight: 480, MaxHeight: 480},
		{MinWidth: 320, MaxWidth: 1280, StepWidth: 16, MinHeight: 240, MaxHeight: 720, StepHeight: 16},
		{MinWidth: 640, MaxWidth: 640, MinHeight: 480, MaxHeight: 480},
	})
	want := []camerata.Resolution{{Width: 640, Height: 480}, {Width: 1280, Height: 720}, {Width: 320, Height: 240}}
	if !slices.Equal(got, want) {
		t.Errorf("resolutions = %v, want %v", got, want)
	}
}

func TestRates(t *testing.T) {
	tests := []struct {
		name string
		frs  []webcam.FrameRate
		want []uint32
	}{
		{
			name: "discrete",
			frs: []webcam.FrameRate{
				{MinNumerator: 1, MaxNumerator: 1, MinDenominator: 30, MaxDenominator: 30},
				{MinNumerator: 1, MaxNumerator: 1, MinDenominator: 15, MaxDenominator: 15},
			},
			want: []uint32{30, 15},
		},
		{
			name: "ntsc",
			frs:  []webcam.FrameRate{{MinNumerator: 1001, MaxNumerator: 1001, MinDenominator: 30000, MaxDenominator: 30000}},
			want: []uint32{30},
		},
		{
			name: "stepwise",
			frs:  []webcam.FrameRate{{MinNumerator: 1, MaxNumerator: 1, StepNumerator: 1, MinDenominator: 60, MaxDenominator: 5, StepDenominator: 1}},
			want: []uint32{60, 5},
		},
		{name: "none", want: []uint32{defaultRate}},
	}
	for _, tt := range tests {
		if got := rates(tt.frs); !slices.Equal(got, tt.want) {
			t.Errorf("%s: rates = %v, want %v", tt.name, got, tt.want)
		}
	}
}
