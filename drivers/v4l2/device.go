//go:build linux

package v4l2

import (
	"errors"
	"fmt"
	"sort"

	"github.com/blackjack/webcam"
	"github.com/golang/glog"

	camerata "github.com/kevmo314/go-camerata"
)

var errNotStreaming = errors.New("v4l2: stream not open")

type device struct {
	path      string
	cam       *webcam.Webcam
	cfg       camerata.Config
	format    camerata.Format
	streaming bool
}

func (d *device) Encodings() ([]camerata.Encoding, error) {
	return encodings(d.cam.GetSupportedFormats()), nil
}

func (d *device) Modes(enc camerata.Encoding) (map[camerata.Resolution][]uint32, error) {
	pf, ok := pixelFormats[enc]
	if !ok {
		return nil, fmt.Errorf("v4l2: no pixel format for %v", enc)
	}
	out := make(map[camerata.Resolution][]uint32)
	for _, res := range resolutions(d.cam.GetSupportedFrameSizes(pf)) {
		out[res] = rates(d.cam.GetSupportedFramerates(pf, res.Width, res.Height))
	}
	return out, nil
}

func (d *device) Formats() ([]camerata.Format, error) {
	var out []camerata.Format
	for _, enc := range encodings(d.cam.GetSupportedFormats()) {
		modes, err := d.Modes(enc)
		if err != nil {
			return nil, err
		}
		start := len(out)
		for res, rs := range modes {
			for _, r := range rs {
				out = append(out, camerata.Format{Width: res.Width, Height: res.Height, FrameRate: r, Encoding: enc})
			}
		}
		group := out[start:]
		sort.SliceStable(group, func(i, j int) bool {
			a, b := group[i], group[j]
			if a.Width*a.Height != b.Width*b.Height {
				return a.Width*a.Height > b.Width*b.Height
			}
			return a.FrameRate > b.FrameRate
		})
	}
	return out, nil
}

func (d *device) Format() camerata.Format { return d.format }

func (d *device) SetFormat(f camerata.Format) error {
	if d.streaming {
		return fmt.Errorf("v4l2: cannot change format while streaming")
	}
	pf, ok := pixelFormats[f.Encoding]
	if !ok {
		return fmt.Errorf("v4l2: no pixel format for %v", f.Encoding)
	}
	got, w, h, err := d.cam.SetImageFormat(pf, f.Width, f.Height)
	if err != nil {
		return fmt.Errorf("v4l2: set format %v: %w", f, err)
	}
	// drivers silently substitute what they can do instead
	if got != pf || w != f.Width || h != f.Height {
		return fmt.Errorf("v4l2: asked for %v, device chose %dx%d pixel format %08x", f, w, h, uint32(got))
	}
	if f.FrameRate > 0 {
		if err := d.cam.SetFramerate(float32(f.FrameRate)); err != nil {
			// not every driver implements VIDIOC_S_PARM
			glog.V(1).Infof("v4l2: %s: set frame rate %d: %v", d.path, f.FrameRate, err)
		}
	}
	d.format = f
	return nil
}

func (d *device) OpenStream() error {
	if d.streaming {
		return nil
	}
	if err := d.cam.SetBufferCount(d.cfg.BufferCount); err != nil {
		return fmt.Errorf("v4l2: buffer count %d: %w", d.cfg.BufferCount, err)
	}
	if err := d.cam.StartStreaming(); err != nil {
		return fmt.Errorf("v4l2: start streaming: %w", err)
	}
	d.streaming = true
	return nil
}

func (d *device) ReadFrame() ([]byte, error) {
	if !d.streaming {
		return nil, errNotStreaming
	}
	secs := max(uint32(d.cfg.FrameTimeout.Seconds()), 1)
	if err := d.cam.WaitForFrame(secs); err != nil {
		var timeout *webcam.Timeout
		if errors.As(err, &timeout) {
			return nil, fmt.Errorf("v4l2: %s: no frame within %ds", d.path, secs)
		}
		return nil, fmt.Errorf("v4l2: wait for frame: %w", err)
	}
	frame, err := d.cam.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("v4l2: read frame: %w", err)
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("v4l2: %s: empty frame", d.path)
	}
	// the buffer is requeued on the next read
	return append([]byte(nil), frame...), nil
}

func (d *device) Controls() ([]camerata.ControlDescriptor, error) {
	var out []camerata.ControlDescriptor
	for id, c := range d.cam.GetControls() {
		kind := camerata.ControlKindInteger
		if c.Min == 0 && c.Max == 1 {
			kind = camerata.ControlKindBoolean
		}
		out = append(out, camerata.ControlDescriptor{
			Name: c.Name,
			ID:   uint32(id),
			Kind: kind,
			Min:  int64(c.Min),
			Max:  int64(c.Max),
			Step: 1,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *device) SetControl(desc camerata.ControlDescriptor, value int64) error {
	if err := d.cam.SetControl(webcam.ControlID(desc.ID), int32(value)); err != nil {
		return fmt.Errorf("v4l2: set %s: %w", desc.Name, err)
	}
	return nil
}

func (d *device) Close() error {
	var errs []error
	if d.streaming {
		errs = append(errs, d.cam.StopStreaming())
		d.streaming = false
	}
	errs = append(errs, d.cam.Close())
	return errors.Join(errs...)
}
