package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/golang/glog"

	camerata "github.com/kevmo314/go-camerata"
	"github.com/kevmo314/go-camerata/internal/cli"
	"github.com/kevmo314/go-camerata/pkg/sharpness"
)

func main() {
	index := flag.Int("index", 0, "device index as printed by list_devices")
	format := flag.String("format", "", `capture format such as "mjpeg 1280x720@30fps"; empty picks one`)
	output := flag.String("output", "capture.png", "output file, .png or .jpg")
	skip := flag.Int("skip", 5, "frames to discard while exposure settles")
	timeout := flag.Duration("timeout", 10*time.Second, "how long to wait for frames")
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
	frame, err := cli.NextFrame(s, uint64(*skip), *timeout)
	if err != nil {
		glog.Exitf("Capture failed: %v", err)
	}
	fmt.Println(s.Info())

	img := frame.Image()
	if err := cli.SaveImage(*output, img); err != nil {
		glog.Exitf("Failed to save %s: %v", *output, err)
	}
	fmt.Printf("Saved %dx%d frame to %s (focus %.3f)\n", frame.Width, frame.Height, *output, sharpness.Score(img))
}
