package main

import (
	"flag"
	"fmt"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"

	camerata "github.com/kevmo314/go-camerata"
	"github.com/kevmo314/go-camerata/internal/cli"
	"github.com/kevmo314/go-camerata/pkg/sharpness"
)

// Viewer draws the session's latest frame each tick.
type Viewer struct {
	session *camerata.Session
	focus   bool

	image *ebiten.Image
	seen  uint64
	w, h  int
}

func (v *Viewer) Update() error {
	if err := v.session.CheckErr(); err != nil {
		return err
	}
	n := v.session.FrameCount()
	if n == v.seen {
		return nil
	}
	frame, ok := v.session.PollFrame()
	if !ok {
		return nil
	}
	v.seen = n
	if v.image == nil || frame.Width != v.w || frame.Height != v.h {
		v.w, v.h = frame.Width, frame.Height
		v.image = ebiten.NewImage(v.w, v.h)
		ebiten.SetWindowSize(v.w, v.h)
	}
	img := frame.Image()
	v.image.WritePixels(rgba(frame))
	if v.focus && n%15 == 0 {
		ebiten.SetWindowTitle(fmt.Sprintf("%s (focus %.3f)", v.session.Info(), sharpness.Score(img)))
	}
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.image != nil {
		screen.DrawImage(v.image, &ebiten.DrawImageOptions{})
	}
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if v.image == nil {
		return outsideWidth, outsideHeight
	}
	return v.w, v.h
}

// rgba expands packed RGB into the layout WritePixels expects.
func rgba(f *camerata.Frame) []byte {
	out := make([]byte, f.Width*f.Height*4)
	for i, j := 0, 0; j+2 < len(f.Pix) && i+3 < len(out); i, j = i+4, j+3 {
		out[i] = f.Pix[j]
		out[i+1] = f.Pix[j+1]
		out[i+2] = f.Pix[j+2]
		out[i+3] = 0xFF
	}
	return out
}

func main() {
	index := flag.Int("index", 0, "device index as printed by list_devices")
	format := flag.String("format", "", `capture format such as "mjpeg 1280x720@30fps"; empty picks one`)
	focus := flag.Bool("focus", false, "show the focus score in the window title")
	cli.Parse()

	var f camerata.Format
	if *format != "" {
		var err error
		if f, err = camerata.ParseFormat(*format); err != nil {
			glog.Exit(err)
		}
	}

	s, err := camerata.New(*index)
	if err != nil {
		glog.Exitf("Failed to open device %d: %v", *index, err)
	}
	defer s.Close()

	if err := s.Open(f); err != nil {
		glog.Exitf("Failed to start capture: %v", err)
	}

	ebiten.SetWindowTitle(s.DeviceInfo().Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(&Viewer{session: s, focus: *focus}); err != nil {
		glog.Errorf("viewer: %v", err)
	}
}
