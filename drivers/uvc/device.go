package uvc

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"
	usb "github.com/kevmo314/go-usb"

	camerata "github.com/kevmo314/go-camerata"
	"github.com/kevmo314/go-camerata/pkg/descriptors"
	"github.com/kevmo314/go-camerata/pkg/requests"
	"github.com/kevmo314/go-camerata/pkg/transfers"
)

// isoPackets is the number of packets per isochronous transfer.
const isoPackets = 32

var errNotStreaming = errors.New("uvc: stream not open")

type device struct {
	path   string
	handle *usb.DeviceHandle

	config  *descriptors.Configuration
	stream  *descriptors.StreamingInterface
	catalog *catalog

	// timeout bounds a single ReadFrame; a stalled endpoint turns into a
	// fetch error instead of hanging the capture loop.
	timeout time.Duration

	format   camerata.Format
	probe    descriptors.VideoProbeCommitControl
	frames   *transfers.TimedFrameReader
	claimed  bool
	detached bool
}

func openDevice(path string, cfg camerata.Config) (*device, error) {
	devs, err := usb.DeviceList()
	if err != nil {
		return nil, fmt.Errorf("uvc: list usb devices: %w", err)
	}
	var handle *usb.DeviceHandle
	found := false
	for _, dev := range devs {
		if dev.Path != path {
			continue
		}
		found = true
		if handle, err = dev.Open(); err != nil {
			return nil, fmt.Errorf("uvc: open %s: %w", path, err)
		}
		break
	}
	if !found {
		return nil, fmt.Errorf("uvc: %s: device gone", path)
	}
	d := &device{path: path, handle: handle, timeout: cfg.FrameTimeout}
	if err := d.describe(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *device) describe() error {
	raw, err := requests.ConfigurationDescriptor(d.handle)
	if err != nil {
		return fmt.Errorf("uvc: %s: %w", d.path, err)
	}
	cfg, err := descriptors.ParseConfiguration(raw)
	if err != nil {
		return fmt.Errorf("uvc: %s: %w", d.path, err)
	}
	s, c, ok := pickStream(cfg)
	if !ok {
		return fmt.Errorf("uvc: %s: no streaming interface with a supported format", d.path)
	}
	d.config, d.stream, d.catalog = cfg, s, c
	d.format = d.current()
	glog.V(1).Infof("uvc: %s: UVC %x, streaming interface %d, current format %v", d.path, cfg.UVC, s.InterfaceNumber, d.format)
	return nil
}

// current reads the format the device would stream right now, falling back
// to the first one it lists.
func (d *device) current() camerata.Format {
	if raw, err := requests.Get(d.handle, requests.RequestCodeGetCur, d.probeTarget(descriptors.VideoStreamingControlSelectorProbe), d.probeLength()); err == nil {
		var p descriptors.VideoProbeCommitControl
		if p.UnmarshalBinary(raw) == nil {
			if enc, m, ok := d.catalog.find(p.FormatIndex, p.FrameIndex); ok {
				return camerata.Format{
					Width:     uint32(m.frame.Width),
					Height:    uint32(m.frame.Height),
					FrameRate: fps(p.FrameInterval),
					Encoding:  enc,
				}
			}
		}
	}
	if fs := d.catalog.Formats(); len(fs) > 0 {
		return fs[0]
	}
	return camerata.Format{}
}

func (d *device) probeLength() int { return descriptors.ProbeCommitLength(d.config.UVC) }

func (d *device) probeTarget(sel descriptors.VideoStreamingControlSelector) requests.Target {
	return requests.Target{Interface: d.stream.InterfaceNumber, Selector: uint8(sel)}
}

func (d *device) Encodings() ([]camerata.Encoding, error) {
	return d.catalog.encodings, nil
}

func (d *device) Modes(enc camerata.Encoding) (map[camerata.Resolution][]uint32, error) {
	return d.catalog.Modes(enc), nil
}

func (d *device) Formats() ([]camerata.Format, error) {
	return d.catalog.Formats(), nil
}

func (d *device) Format() camerata.Format { return d.format }

// SetFormat runs probe and commit negotiation for f.
func (d *device) SetFormat(f camerata.Format) error {
	if d.frames != nil {
		return fmt.Errorf("uvc: cannot change format while streaming")
	}
	m, iv, ok := d.catalog.lookup(f)
	if !ok {
		return fmt.Errorf("uvc: %v not offered", f)
	}
	n := d.probeLength()
	probe := d.probeTarget(descriptors.VideoStreamingControlSelectorProbe)

	var p descriptors.VideoProbeCommitControl
	if raw, err := requests.Get(d.handle, requests.RequestCodeGetMax, probe, n); err == nil {
		if err := p.UnmarshalBinary(raw); err != nil {
			p = descriptors.VideoProbeCommitControl{}
		}
	} else {
		glog.V(2).Infof("uvc: %s: probe GET_MAX: %v", d.path, err)
	}
	p.HintBitmask = 0x0001 // keep the frame interval fixed
	p.FormatIndex = m.format.FormatIndex
	p.FrameIndex = m.frame.FrameIndex
	p.FrameInterval = iv

	buf := make([]byte, n)
	if err := p.MarshalInto(buf); err != nil {
		return err
	}
	if err := requests.SetCur(d.handle, probe, buf); err != nil {
		return fmt.Errorf("uvc: probe: %w", err)
	}
	raw, err := requests.Get(d.handle, requests.RequestCodeGetCur, probe, n)
	if err != nil {
		return fmt.Errorf("uvc: probe: %w", err)
	}
	if err := p.UnmarshalBinary(raw); err != nil {
		return fmt.Errorf("uvc: probe: %w", err)
	}
	if p.FormatIndex != m.format.FormatIndex || p.FrameIndex != m.frame.FrameIndex {
		return fmt.Errorf("uvc: device answered probe for %v with format %d frame %d", f, p.FormatIndex, p.FrameIndex)
	}
	if err := requests.SetCur(d.handle, d.probeTarget(descriptors.VideoStreamingControlSelectorCommit), raw); err != nil {
		return fmt.Errorf("uvc: commit: %w", err)
	}
	d.probe = p
	d.format = f
	d.format.FrameRate = fps(p.FrameInterval)
	glog.V(1).Infof("uvc: %s: committed %v, payload %d bytes, frame %d bytes",
		d.path, d.format, p.MaxPayloadTransferSize, p.MaxVideoFrameSize)
	return nil
}

func (d *device) OpenStream() error {
	if d.frames != nil {
		return nil
	}
	if d.probe.FormatIndex == 0 {
		// nothing negotiated yet; commit whatever the device reports
		if err := d.SetFormat(d.format); err != nil {
			return err
		}
	}
	iface := d.stream.InterfaceNumber
	if active, err := d.handle.KernelDriverActive(iface); err == nil && active {
		if err := d.handle.DetachKernelDriver(iface); err != nil {
			return fmt.Errorf("uvc: detach kernel driver from interface %d: %w", iface, err)
		}
		d.detached = true
	}
	if err := d.handle.ClaimInterface(iface); err != nil {
		return fmt.Errorf("uvc: claim interface %d: %w", iface, err)
	}
	d.claimed = true

	alt, ok := pickAltSetting(d.stream.AltSettings, d.probe.MaxPayloadTransferSize)
	if !ok {
		return fmt.Errorf("uvc: interface %d has no usable endpoint", iface)
	}
	if err := d.handle.SetAltSetting(iface, alt.Alternate); err != nil {
		return fmt.Errorf("uvc: interface %d alt %d: %w", iface, alt.Alternate, err)
	}

	var (
		src  io.ReadCloser
		size int
		err  error
	)
	if alt.Isochronous() {
		size = alt.PacketSize()
		src, err = transfers.NewIsochronousReader(d.handle, alt.EndpointAddress, isoPackets, size, 0)
	} else {
		size = int(d.probe.MaxPayloadTransferSize)
		if size <= 0 {
			size = int(d.probe.MaxVideoFrameSize) + 12
		}
		src, err = transfers.NewBulkReader(d.handle, alt.EndpointAddress, uint32(size), 0)
	}
	if err != nil {
		return fmt.Errorf("uvc: start stream: %w", err)
	}
	frameSize := max(d.format.Encoding.FrameSize(int(d.format.Width), int(d.format.Height)), 0)
	frames := transfers.NewFrameReader(transfers.NewPayloadReader(src, size), frameSize)
	d.frames = transfers.NewTimedFrameReader(frames, d.timeout)
	glog.V(1).Infof("uvc: %s: streaming from endpoint %02x alt %d (isochronous %v)", d.path, alt.EndpointAddress, alt.Alternate, alt.Isochronous())
	return nil
}

func (d *device) ReadFrame() ([]byte, error) {
	if d.frames == nil {
		return nil, errNotStreaming
	}
	return d.frames.ReadFrame()
}

func (d *device) Close() error {
	var errs []error
	if d.frames != nil {
		errs = append(errs, d.frames.Close())
		if n := d.frames.Dropped(); n > 0 {
			glog.V(1).Infof("uvc: %s: dropped %d damaged frames", d.path, n)
		}
		d.frames = nil
	}
	if d.claimed {
		iface := d.stream.InterfaceNumber
		errs = append(errs, d.handle.SetAltSetting(iface, 0), d.handle.ReleaseInterface(iface))
		d.claimed = false
	}
	if d.detached {
		// hand the interface back to uvcvideo
		errs = append(errs, d.handle.AttachKernelDriver(d.stream.InterfaceNumber))
		d.detached = false
	}
	if d.handle != nil {
		errs = append(errs, d.handle.Close())
		d.handle = nil
	}
	return errors.Join(errs...)
}
