// Package fakecam is an in-memory camera driver for tests. Every frame it
// produces is filled with a single byte value, so a frame that mixes bytes
// from two reads is easy to spot.
package fakecam

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	camerata "github.com/kevmo314/go-camerata"
)

var ErrInjected = errors.New("fakecam: injected failure")

// Camera is one fake device. Exported fields configure behaviour and must be
// set before the camera is opened.
type Camera struct {
	Name string
	// Modes lists the offered modes per encoding, in preference order.
	Modes []EncodingModes
	// Initial is the format reported before SetFormat is called.
	Initial  camerata.Format
	Controls []camerata.ControlDescriptor

	FailOpen       bool
	FailSetFormat  bool
	FailOpenStream bool
	FailControls   bool
	// FailReads makes the first FailReads calls to ReadFrame fail.
	FailReads int
	// ShortReads makes every ReadFrame return a truncated frame.
	ShortReads bool
	// ReadDelay is slept inside ReadFrame.
	ReadDelay time.Duration

	mu        sync.Mutex
	format    camerata.Format
	streaming bool
	closed    bool
	seq       byte
	values    map[string]int64

	reads    atomic.Int64
	opens    atomic.Int64
	closes   atomic.Int64
	inside   atomic.Int32
	overlaps atomic.Int64
}

type EncodingModes struct {
	Encoding camerata.Encoding
	Modes    map[camerata.Resolution][]uint32
}

// Reads is the number of ReadFrame calls made, successful or not.
func (c *Camera) Reads() int64 { return c.reads.Load() }

func (c *Camera) Opens() int64 { return c.opens.Load() }

func (c *Camera) Closes() int64 { return c.closes.Load() }

// Overlaps counts device calls that started while another was in progress.
func (c *Camera) Overlaps() int64 { return c.overlaps.Load() }

// Value returns the last value written to the named control.
func (c *Camera) Value(name string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[name]
	return v, ok
}

func (c *Camera) Streaming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming
}

// Driver serves a fixed set of cameras.
type Driver struct {
	name    string
	cameras []*Camera
	inits   atomic.Int64
}

func NewDriver(name string, cameras ...*Camera) *Driver {
	return &Driver{name: name, cameras: cameras}
}

func (d *Driver) Name() string { return d.name }

func (d *Driver) Init() error {
	d.inits.Add(1)
	return nil
}

func (d *Driver) Inits() int64 { return d.inits.Load() }

func (d *Driver) Devices() ([]camerata.DeviceInfo, error) {
	infos := make([]camerata.DeviceInfo, len(d.cameras))
	for i, c := range d.cameras {
		infos[i] = camerata.DeviceInfo{
			Name:        c.Name,
			Description: "fake camera",
			Misc:        fmt.Sprintf("fake:%d", i),
		}
	}
	return infos, nil
}

func (d *Driver) Open(info camerata.DeviceInfo, _ camerata.Config) (camerata.Device, error) {
	for _, c := range d.cameras {
		if c.Name != info.Name {
			continue
		}
		if c.FailOpen {
			return nil, ErrInjected
		}
		c.mu.Lock()
		c.format = c.Initial
		c.closed = false
		c.streaming = false
		c.mu.Unlock()
		c.opens.Add(1)
		return &device{c}, nil
	}
	return nil, fmt.Errorf("fakecam: no camera %q", info.Name)
}

type device struct {
	c *Camera
}

// enter records overlapping calls; the session must serialize them.
func (d *device) enter() func() {
	if d.c.inside.Add(1) > 1 {
		d.c.overlaps.Add(1)
	}
	return func() { d.c.inside.Add(-1) }
}

func (d *device) Encodings() ([]camerata.Encoding, error) {
	defer d.enter()()
	encs := make([]camerata.Encoding, len(d.c.Modes))
	for i, m := range d.c.Modes {
		encs[i] = m.Encoding
	}
	return encs, nil
}

func (d *device) Modes(enc camerata.Encoding) (map[camerata.Resolution][]uint32, error) {
	defer d.enter()()
	for _, m := range d.c.Modes {
		if m.Encoding == enc {
			return m.Modes, nil
		}
	}
	return nil, nil
}

func (d *device) Formats() ([]camerata.Format, error) {
	defer d.enter()()
	var out []camerata.Format
	for _, m := range d.c.Modes {
		for res, rates := range m.Modes {
			for _, r := range rates {
				out = append(out, camerata.Format{Width: res.Width, Height: res.Height, FrameRate: r, Encoding: m.Encoding})
			}
		}
	}
	return out, nil
}

func (d *device) Format() camerata.Format {
	defer d.enter()()
	d.c.mu.Lock()
	defer d.c.mu.Unlock()
	return d.c.format
}

func (d *device) SetFormat(f camerata.Format) error {
	defer d.enter()()
	if d.c.FailSetFormat {
		return ErrInjected
	}
	d.c.mu.Lock()
	d.c.format = f
	d.c.mu.Unlock()
	return nil
}

func (d *device) OpenStream() error {
	defer d.enter()()
	if d.c.FailOpenStream {
		return ErrInjected
	}
	d.c.mu.Lock()
	d.c.streaming = true
	d.c.mu.Unlock()
	return nil
}

func (d *device) ReadFrame() ([]byte, error) {
	defer d.enter()()
	n := d.c.reads.Add(1)
	if d.c.ReadDelay > 0 {
		time.Sleep(d.c.ReadDelay)
	}
	if n <= int64(d.c.FailReads) {
		return nil, ErrInjected
	}
	d.c.mu.Lock()
	defer d.c.mu.Unlock()
	if !d.c.streaming {
		return nil, errors.New("fakecam: not streaming")
	}
	size := d.c.format.Encoding.FrameSize(int(d.c.format.Width), int(d.c.format.Height))
	if size <= 0 {
		return nil, fmt.Errorf("fakecam: cannot synthesize %v", d.c.format.Encoding)
	}
	if d.c.ShortReads {
		size /= 2
	}
	d.c.seq++
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = d.c.seq
	}
	return buf, nil
}

func (d *device) Controls() ([]camerata.ControlDescriptor, error) {
	defer d.enter()()
	if d.c.FailControls {
		return nil, ErrInjected
	}
	return d.c.Controls, nil
}

func (d *device) SetControl(desc camerata.ControlDescriptor, value int64) error {
	defer d.enter()()
	d.c.mu.Lock()
	defer d.c.mu.Unlock()
	if d.c.closed {
		return errors.New("fakecam: closed")
	}
	if d.c.values == nil {
		d.c.values = make(map[string]int64)
	}
	d.c.values[desc.Name] = value
	return nil
}

func (d *device) Close() error {
	defer d.enter()()
	d.c.mu.Lock()
	d.c.closed = true
	d.c.streaming = false
	d.c.mu.Unlock()
	d.c.closes.Add(1)
	return nil
}
