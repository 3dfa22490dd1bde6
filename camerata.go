// Package camerata captures frames from cameras on a background goroutine and
// hands the latest one to callers without blocking them on device I/O.
//
// A typical caller enumerates devices, opens a session and polls it:
//
//	camerata.Initialize()
//	s, err := camerata.New(0)
//	if err != nil { ... }
//	defer s.Close()
//	if err := s.Open(camerata.Format{}); err != nil { ... }
//	for {
//		if err := s.CheckErr(); err != nil { ... }
//		if f, ok := s.PollFrame(); ok { ... }
//	}
//
// Open returns before the device has confirmed the format or started
// streaming. A failure at that stage is reported only by CheckErr, so callers
// must check it after Open.
package camerata

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"
)

var (
	driversMu sync.RWMutex
	drivers   []Driver

	initOnce sync.Once
	initErr  error
)

// Register makes a driver available to Query and New. It panics if a driver
// with the same name is already registered.
func Register(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	for _, e := range drivers {
		if e.Name() == d.Name() {
			panic("camerata: Register called twice for driver " + d.Name())
		}
	}
	drivers = append(drivers, d)
}

// Drivers returns the names of the registered drivers in registration order.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, len(drivers))
	for i, d := range drivers {
		names[i] = d.Name()
	}
	return names
}

// Initialize runs every registered driver's one-time setup. It is safe to call
// more than once; only the first call does any work. Hosts call it before any
// other function in this package.
func Initialize() error {
	initOnce.Do(func() {
		driversMu.RLock()
		defer driversMu.RUnlock()
		var errs []error
		for _, d := range drivers {
			if err := d.Init(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
				continue
			}
			glog.V(1).Infof("camerata: initialized driver %s", d.Name())
		}
		initErr = errors.Join(errs...)
	})
	return initErr
}

func selectedDrivers(name string) ([]Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	if name == "" {
		if len(drivers) == 0 {
			return nil, ErrNoDriver
		}
		return append([]Driver(nil), drivers...), nil
	}
	for _, d := range drivers {
		if d.Name() == name {
			return []Driver{d}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoDriver, name)
}

type enumerated struct {
	info   DeviceInfo
	driver Driver
}

func enumerate(cfg Config) ([]enumerated, error) {
	ds, err := selectedDrivers(cfg.Driver)
	if err != nil {
		return nil, err
	}
	var out []enumerated
	for _, d := range ds {
		infos, err := d.Devices()
		if err != nil {
			// one broken backend should not hide the cameras of another.
			glog.Warningf("camerata: %s: listing devices: %v", d.Name(), err)
			continue
		}
		for _, info := range infos {
			info.Index = len(out)
			info.Driver = d.Name()
			out = append(out, enumerated{info: info, driver: d})
		}
	}
	return out, nil
}

func buildConfig(opts []Option) Config {
	cfg := ConfigFromEnv()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Query lists the attached cameras of every registered driver, or of the one
// named by WithDriver. Indices are assigned in driver registration order and
// are only stable while the set of attached devices does not change.
func Query(opts ...Option) ([]DeviceInfo, error) {
	es, err := enumerate(buildConfig(opts))
	if err != nil {
		return nil, err
	}
	infos := make([]DeviceInfo, len(es))
	for i, e := range es {
		infos[i] = e.info
	}
	return infos, nil
}

// QueryUsable is Query restricted to devices that CheckCanUse accepts.
func QueryUsable(opts ...Option) ([]DeviceInfo, error) {
	infos, err := Query(opts...)
	if err != nil {
		return nil, err
	}
	usable := infos[:0]
	for _, info := range infos {
		if info.CanOpen() {
			usable = append(usable, info)
		}
	}
	return usable, nil
}

// CheckCanUse opens the device at index without requesting a format and closes
// it again. No stream is started.
func CheckCanUse(index int, opts ...Option) bool {
	dev, _, err := openDevice(index, buildConfig(opts))
	if err != nil {
		glog.V(1).Infof("camerata: device %d unusable: %v", index, err)
		return false
	}
	closeProbe(dev, index)
	return true
}

// CanOpen reports whether the device can currently be opened by the driver
// that listed it.
func (d DeviceInfo) CanOpen() bool {
	ds, err := selectedDrivers(d.Driver)
	if err != nil || d.Driver == "" {
		return false
	}
	dev, err := ds[0].Open(d, ConfigFromEnv())
	if err != nil {
		glog.V(1).Infof("camerata: device %d (%s) unusable: %v", d.Index, d.Name, err)
		return false
	}
	closeProbe(dev, d.Index)
	return true
}

func closeProbe(dev Device, index int) {
	if err := dev.Close(); err != nil {
		glog.V(1).Infof("camerata: closing probed device %d: %v", index, err)
	}
}

func openDevice(index int, cfg Config) (Device, DeviceInfo, error) {
	es, err := enumerate(cfg)
	if err != nil {
		return nil, DeviceInfo{}, err
	}
	if index < 0 || index >= len(es) {
		return nil, DeviceInfo{}, fmt.Errorf("%w: index %d of %d", ErrNoDevice, index, len(es))
	}
	e := es[index]
	dev, err := e.driver.Open(e.info, cfg)
	if err != nil {
		return nil, e.info, err
	}
	return dev, e.info, nil
}
