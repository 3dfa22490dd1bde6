package camerata

import "testing"

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		name  string
		modes map[Resolution][]uint32
		fps   uint32
		want  Format
		ok    bool
	}{
		{
			name: "wider wins when both reach the target",
			modes: map[Resolution][]uint32{
				{640, 480}:   {30, 15},
				{1280, 720}:  {30},
				{1920, 1080}: {30, 60},
			},
			fps:  25,
			want: Format{1920, 1080, 60, MJPEG},
			ok:   true,
		},
		{
			name: "faster wins below the target",
			modes: map[Resolution][]uint32{
				{640, 480}:   {30},
				{1920, 1080}: {10},
			},
			fps:  25,
			want: Format{640, 480, 30, MJPEG},
			ok:   true,
		},
		{
			name: "640x480@30 beats 1280x720@10 when one misses 20",
			modes: map[Resolution][]uint32{
				{640, 480}:  {30},
				{1280, 720}: {10},
			},
			fps:  20,
			want: Format{640, 480, 30, MJPEG},
			ok:   true,
		},
		{
			name: "1280x720@30 beats 640x480@30 when both reach 20",
			modes: map[Resolution][]uint32{
				{640, 480}:  {30},
				{1280, 720}: {30},
			},
			fps:  20,
			want: Format{1280, 720, 30, MJPEG},
			ok:   true,
		},
		{
			name: "single mode",
			modes: map[Resolution][]uint32{
				{320, 240}: {5},
			},
			fps:  60,
			want: Format{320, 240, 5, MJPEG},
			ok:   true,
		},
		{
			name: "resolutions without rates are ignored",
			modes: map[Resolution][]uint32{
				{3840, 2160}: nil,
				{640, 480}:   {30},
			},
			fps:  25,
			want: Format{640, 480, 30, MJPEG},
			ok:   true,
		},
		{
			name:  "nothing offered",
			modes: map[Resolution][]uint32{{640, 480}: {}},
			fps:   25,
		},
		{
			name: "nil map",
			fps:  25,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectFormat(MJPEG, tt.modes, tt.fps)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("SelectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReduceFormatsKeepsFirstOnTie(t *testing.T) {
	a := Format{Width: 640, Height: 480, FrameRate: 30, Encoding: YUYV}
	b := Format{Width: 640, Height: 360, FrameRate: 30, Encoding: YUYV}
	if got, _ := ReduceFormats([]Format{a, b}, 25); got != a {
		t.Errorf("tie above target: got %v, want %v", got, a)
	}
	if got, _ := ReduceFormats([]Format{b, a}, 25); got != b {
		t.Errorf("tie above target: got %v, want %v", got, b)
	}

	c := Format{Width: 320, Height: 240, FrameRate: 10, Encoding: YUYV}
	d := Format{Width: 640, Height: 480, FrameRate: 10, Encoding: YUYV}
	if got, _ := ReduceFormats([]Format{c, d}, 25); got != c {
		t.Errorf("tie below target: got %v, want %v", got, c)
	}
}

func TestReduceFormatsIsGreedy(t *testing.T) {
	// 640 beats the slower 800, then loses to 1024 once both reach the target.
	in := []Format{
		{Width: 640, Height: 480, FrameRate: 30},
		{Width: 800, Height: 600, FrameRate: 20},
		{Width: 1024, Height: 768, FrameRate: 25},
	}
	want := in[2]
	if got, _ := ReduceFormats(in, 25); got != want {
		t.Errorf("ReduceFormats() = %v, want %v", got, want)
	}
}

func TestReduceFormatsEmpty(t *testing.T) {
	if _, ok := ReduceFormats(nil, 30); ok {
		t.Error("ReduceFormats(nil) ok = true, want false")
	}
}
