package main

import (
	"flag"
	"fmt"

	"github.com/golang/glog"

	camerata "github.com/kevmo314/go-camerata"
	"github.com/kevmo314/go-camerata/internal/cli"
)

func main() {
	index := flag.Int("index", 0, "device index as printed by list_devices")
	fps := flag.Uint("fps", 25, "minimum frame rate for the automatic choice")
	cli.Parse()

	s, err := camerata.New(*index)
	if err != nil {
		glog.Exitf("Failed to open device %d: %v", *index, err)
	}
	defer s.Close()

	info := s.DeviceInfo()
	fmt.Printf("=== %s (%s) ===\n", info.Name, info.Driver)

	formats, err := s.Formats()
	if err != nil {
		glog.Exitf("Failed to list formats: %v", err)
	}
	var last camerata.Encoding
	for _, f := range formats {
		if f.Encoding != last {
			fmt.Printf("\n%s:\n", f.Encoding)
			last = f.Encoding
		}
		fmt.Printf("  %4dx%-4d @ %d fps\n", f.Width, f.Height, f.FrameRate)
	}

	fmt.Println()
	if f, err := s.CompatibleFormat(uint32(*fps)); err == nil {
		fmt.Printf("Selected at >= %d fps: %v\n", *fps, f)
	} else {
		fmt.Printf("No compatible format: %v\n", err)
	}
	if opts, err := s.FormatOptions(); err == nil {
		if f, ok := opts.ResolveDefault(); ok {
			fmt.Printf("Default preference: %v\n", f)
		}
	}

	fmt.Println("\n=== Controls ===")
	for _, c := range s.Controls() {
		d := c.Descriptor()
		fmt.Printf("  %-32s %-8s [%d, %d] step %d default %d\n", d.Name, d.Kind, d.Min, d.Max, d.Step, d.Default)
	}
}
