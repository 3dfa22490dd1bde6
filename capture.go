package camerata

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/kevmo314/go-camerata/pkg/decode"
)

var decoders = map[Encoding]decode.Func{
	MJPEG:  decode.MJPEG,
	YUYV:   decode.YUYV,
	GRAY:   decode.Gray,
	NV12:   decode.NV12,
	RAWRGB: decode.RGB24,
}

// capture is the body of the capture loop goroutine.
func (s *Session) capture(requested Format) {
	defer close(s.done)

	if !s.capturing.Load() {
		return
	}
	f, err := s.startStream(requested)
	if err != nil {
		s.errs.set(err)
		s.state.CompareAndSwap(int32(StateStarting), int32(StateFailed))
		glog.Warningf("camerata: session %s: %v", s.id, err)
		return
	}
	s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning))
	glog.Infof("camerata: session %s: streaming %v", s.id, f)

	for s.capturing.Load() {
		frame, err := s.nextFrame()
		if err != nil {
			glog.V(2).Infof("camerata: session %s: dropped frame: %v", s.id, err)
			continue
		}
		s.frames.store(frame)
	}
	glog.V(1).Infof("camerata: session %s: capture loop exited", s.id)
}

// startStream applies the format and starts the stream under one hold of the
// device lock.
func (s *Session) startStream(requested Format) (Format, error) {
	d := s.device
	d.mu.Lock()
	defer d.mu.Unlock()

	f := requested
	if f.IsZero() {
		var err error
		if f, err = compatibleFormat(d.dev, s.cfg.SuggestedFPS); err != nil {
			return Format{}, newError(KindFormatNegotiation, "select format", err)
		}
	}
	if _, ok := decoders[f.Encoding]; !ok {
		return Format{}, errorf(KindFormatNegotiation, "set format", "no decoder for %v", f.Encoding)
	}
	if err := d.dev.SetFormat(f); err != nil {
		return Format{}, newError(KindFormatNegotiation, "set format "+f.String(), err)
	}
	if err := d.dev.OpenStream(); err != nil {
		return Format{}, newError(KindStreamStart, "open stream", err)
	}
	return f, nil
}

// nextFrame fetches and decodes one frame under the device lock.
func (s *Session) nextFrame() (*Frame, error) {
	d := s.device
	d.mu.Lock()
	defer d.mu.Unlock()

	raw, err := d.dev.ReadFrame()
	if err != nil {
		return nil, newError(KindFrameDecode, "fetch", err)
	}
	f := d.dev.Format()
	dec, ok := decoders[f.Encoding]
	if !ok {
		return nil, errorf(KindFrameDecode, "decode", "no decoder for %v", f.Encoding)
	}
	img, err := dec(raw, int(f.Width), int(f.Height))
	if err != nil {
		return nil, newError(KindFrameDecode, "decode", err)
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if len(img.Pix) != w*h*BytesPerPixel {
		return nil, newError(KindFrameDecode, "decode", fmt.Errorf("%d bytes for %dx%d", len(img.Pix), w, h))
	}
	return &Frame{Width: w, Height: h, Pix: img.Pix}, nil
}
