// Package cli holds the setup shared by the commands under cmd.
package cli

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"

	camerata "github.com/kevmo314/go-camerata"
	_ "github.com/kevmo314/go-camerata/drivers/all"
)

// Parse parses the command line with glog writing to stderr unless the
// user asked otherwise, and initializes the registered drivers.
func Parse() {
	flag.Set("logtostderr", "true")
	flag.Parse()
	if err := camerata.Initialize(); err != nil {
		glog.Warningf("driver initialization: %v", err)
	}
}

// FirstFrame waits for s to publish a frame. It gives up when the capture
// loop fails or timeout passes.
func FirstFrame(s *camerata.Session, timeout time.Duration) (*camerata.Frame, error) {
	return NextFrame(s, 0, timeout)
}

// NextFrame waits for a frame newer than the first after frames published.
func NextFrame(s *camerata.Session, after uint64, timeout time.Duration) (*camerata.Frame, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if err := s.CheckErr(); err != nil {
			return nil, err
		}
		if s.FrameCount() > after {
			if f, ok := s.PollFrame(); ok {
				return f, nil
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil, fmt.Errorf("no frame within %v (state %v)", timeout, s.State())
}

// SaveImage writes img as JPEG or PNG depending on the extension of path.
func SaveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
