//go:build linux

package v4l2

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/blackjack/webcam"
	"github.com/golang/glog"
	"golang.org/x/sys/unix"

	camerata "github.com/kevmo314/go-camerata"
)

func init() {
	camerata.Register(&Driver{Glob: "/dev/video*"})
}

type Driver struct {
	// Glob matches the device nodes to consider.
	Glob string
}

func (*Driver) Name() string { return "v4l2" }

func (*Driver) Init() error { return nil }

func isCharDevice(path string) bool {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFCHR
}

func (d *Driver) Devices() ([]camerata.DeviceInfo, error) {
	paths, err := filepath.Glob(d.Glob)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	var infos []camerata.DeviceInfo
	for _, path := range paths {
		if !isCharDevice(path) {
			continue
		}
		// metadata nodes fail to open as capture devices
		cam, err := webcam.Open(path)
		if err != nil {
			glog.V(2).Infof("v4l2: skipping %s: %v", path, err)
			continue
		}
		name, err := cam.GetName()
		cam.Close()
		if err != nil || name == "" {
			name = filepath.Base(path)
		}
		infos = append(infos, camerata.DeviceInfo{
			Name:        name,
			Description: "video4linux capture device",
			Misc:        path,
		})
	}
	return infos, nil
}

func (*Driver) Open(info camerata.DeviceInfo, cfg camerata.Config) (camerata.Device, error) {
	cam, err := webcam.Open(info.Misc)
	if err != nil {
		return nil, fmt.Errorf("v4l2: open %s: %w", info.Misc, err)
	}
	d := &device{path: info.Misc, cam: cam, cfg: cfg}
	if fs, err := d.Formats(); err == nil && len(fs) > 0 {
		d.format = fs[0]
	}
	return d, nil
}
