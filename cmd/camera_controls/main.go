package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"

	camerata "github.com/kevmo314/go-camerata"
	"github.com/kevmo314/go-camerata/internal/cli"
)

func main() {
	index := flag.Int("index", 0, "device index as printed by list_devices")
	name := flag.String("control", "", "control to change; empty only lists them")
	fraction := flag.Float64("fraction", 0.5, "position within the control's range, 0 to 1")
	output := flag.String("output", "", "save frames before and after the change with this file name")
	settle := flag.Duration("settle", time.Second, "time to let the change take effect")
	cli.Parse()

	s, err := camerata.New(*index)
	if err != nil {
		glog.Exitf("Failed to open device %d: %v", *index, err)
	}
	defer s.Close()

	for _, c := range s.Controls() {
		if min, max, step, err := c.ValueRange(); err == nil {
			fmt.Printf("%-32s [%d, %d] step %d\n", c.Name(), min, max, step)
		} else {
			fmt.Printf("%-32s %s\n", c.Name(), c.Descriptor().Kind)
		}
	}
	if *name == "" {
		return
	}
	c, ok := s.Control(*name)
	if !ok {
		glog.Exitf("No control named %q", *name)
	}

	if err := s.Open(camerata.Format{}); err != nil {
		glog.Exitf("Failed to start capture: %v", err)
	}
	save := func(suffix string) {
		f, err := cli.NextFrame(s, s.FrameCount(), 10*time.Second)
		if err != nil {
			glog.Exitf("Capture failed: %v", err)
		}
		if *output == "" {
			return
		}
		ext := filepath.Ext(*output)
		path := strings.TrimSuffix(*output, ext) + "_" + suffix + ext
		if err := cli.SaveImage(path, f.Image()); err != nil {
			glog.Exitf("Failed to save %s: %v", path, err)
		}
		fmt.Printf("Saved %s\n", path)
	}

	save("before")
	if err := c.SetFraction(*fraction); err != nil {
		glog.Exitf("Failed to set %s: %v", c.Name(), err)
	}
	fmt.Printf("Set %s to %.2f of its range\n", c.Name(), *fraction)
	time.Sleep(*settle)
	save("after")

	// Reset only marks the control inactive; write the factory value back too
	if d := c.Descriptor(); d.Kind == camerata.ControlKindInteger {
		if err := c.Set(d.Default); err != nil {
			glog.Warningf("Failed to restore %s: %v", c.Name(), err)
		}
	}
	c.Reset()
}
