package camerata

import (
	"sync"
	"sync/atomic"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

// State is the lifecycle stage of a session's capture loop.
type State int32

const (
	// StateIdle: constructed, Open not yet called.
	StateIdle State = iota
	// StateStarting: the loop is negotiating the format and starting the stream.
	StateStarting
	// StateRunning: the stream is up and frames are being published.
	StateRunning
	// StateFailed: format negotiation or stream start failed. CheckErr reports why.
	StateFailed
	// StateStopped: Stop or Close was called.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Session owns an open camera and at most one capture loop reading from it.
//
// PollFrame and CheckErr never wait on the device. Every other method that
// talks to the device shares one lock with the capture loop and may wait for
// the frame fetch in progress.
//
// Close stops the loop and waits for it. There is no way to abort a fetch that
// is already blocked in the driver. The uvc and v4l2 drivers give up on a
// fetch after Config.FrameTimeout; with a driver that has no such bound, a
// device that never returns a frame keeps Close from returning at all.
type Session struct {
	id     uuid.UUID
	info   DeviceInfo
	cfg    Config
	device *lockedDevice

	capturing atomic.Bool
	state     atomic.Int32
	frames    frameSlot
	errs      errorLatch

	mu      sync.Mutex
	done    chan struct{} // closed when the capture loop exits; nil until Open
	closing bool

	closeOnce sync.Once
	closeErr  error
}

// New connects to the device at index as numbered by Query. The device is
// opened without requesting a format; call Open to start capturing.
func New(index int, opts ...Option) (*Session, error) {
	cfg := buildConfig(opts)
	if err := cfg.Validate(); err != nil {
		return nil, newError(KindDeviceOpen, "new", err)
	}
	dev, info, err := openDevice(index, cfg)
	if err != nil {
		return nil, newError(KindDeviceOpen, "new", err)
	}
	s := &Session{
		id:     uuid.New(),
		info:   info,
		cfg:    cfg,
		device: &lockedDevice{dev: dev},
	}
	registerDevice(s.id, s.device)
	glog.Infof("camerata: session %s: opened device %d %q via %s", s.id, info.Index, info.Name, info.Driver)
	return s, nil
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) DeviceInfo() DeviceInfo { return s.info }

func (s *Session) State() State { return State(s.state.Load()) }

// FrameCount is the number of frames the capture loop has published.
func (s *Session) FrameCount() uint64 { return s.frames.count() }

// Open starts the capture loop with format f, or with a format chosen by
// CompatibleFormat(Config.SuggestedFPS) when f is the zero Format.
//
// Open returns as soon as the loop is spawned. It fails only when the session
// was already opened or has been closed. Errors from negotiating the format or
// starting the stream happen afterwards and are reported by CheckErr.
func (s *Session) Open(f Format) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing || !s.state.CompareAndSwap(int32(StateIdle), int32(StateStarting)) {
		return newError(KindStreamStart, "open", ErrSessionState)
	}
	s.device.mu.Lock()
	defer s.device.mu.Unlock()
	s.capturing.Store(true)
	s.done = make(chan struct{})
	go s.capture(f)
	glog.V(1).Infof("camerata: session %s: capture loop spawned for %v", s.id, f)
	return nil
}

// PollFrame returns the most recently decoded frame. ok is false until the
// first frame has been published.
func (s *Session) PollFrame() (f *Frame, ok bool) {
	f = s.frames.load()
	return f, f != nil
}

// CheckErr returns the error that stopped the capture loop from starting, if
// any. The error stays reported for the lifetime of the session.
func (s *Session) CheckErr() error {
	return s.errs.get()
}

// Formats lists every capture mode the device offers.
func (s *Session) Formats() ([]Format, error) {
	var formats []Format
	err := withDevice(s.id, func(dev Device) error {
		var err error
		formats, err = dev.Formats()
		return err
	})
	if err != nil {
		return nil, err
	}
	return formats, nil
}

// FormatOptions is Formats as a FormatOptions.
func (s *Session) FormatOptions() (FormatOptions, error) {
	formats, err := s.Formats()
	return FormatOptions(formats), err
}

// CompatibleFormat picks the widest mode of the device's preferred encoding
// that reaches suggestedFPS, as described on SelectFormat, falling back to the
// device's active format.
func (s *Session) CompatibleFormat(suggestedFPS uint32) (Format, error) {
	var f Format
	err := withDevice(s.id, func(dev Device) error {
		var err error
		f, err = compatibleFormat(dev, suggestedFPS)
		return err
	})
	return f, err
}

// Controls lists the device's adjustable settings. A device that cannot report
// its controls yields an empty list.
func (s *Session) Controls() []*Control {
	var descs []ControlDescriptor
	err := withDevice(s.id, func(dev Device) error {
		var err error
		descs, err = dev.Controls()
		return err
	})
	if err != nil {
		glog.V(1).Infof("camerata: session %s: listing controls: %v", s.id, err)
		return []*Control{}
	}
	controls := make([]*Control, len(descs))
	for i, d := range descs {
		controls[i] = &Control{session: s.id, desc: d}
	}
	return controls
}

// Control returns the control called name.
func (s *Session) Control(name string) (*Control, bool) {
	for _, c := range s.Controls() {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Info describes the format currently in effect.
func (s *Session) Info() string {
	var f Format
	if err := withDevice(s.id, func(dev Device) error {
		f = dev.Format()
		return nil
	}); err != nil {
		return "Selected format: none (" + err.Error() + ")"
	}
	return "Selected format: " + f.String()
}

// Stop asks the capture loop to exit after its current iteration and returns
// without waiting. A Stop racing with Open either runs first, making Open
// fail, or sees the loop Open spawned.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capturing.Store(false)
	for {
		cur := State(s.state.Load())
		if cur == StateFailed || cur == StateStopped {
			return
		}
		if s.state.CompareAndSwap(int32(cur), int32(StateStopped)) {
			return
		}
	}
}

// Wait blocks until the capture loop has exited. It returns at once if Open
// was never called.
func (s *Session) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Close stops the capture loop, waits for it to exit and closes the device.
// Controls obtained from the session stop working. Calling Close again returns
// the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closing = true
		s.mu.Unlock()

		s.Stop()
		s.Wait()

		unregisterDevice(s.id)
		s.device.mu.Lock()
		s.device.closed = true
		s.closeErr = s.device.dev.Close()
		s.device.mu.Unlock()
		glog.Infof("camerata: session %s: closed after %d frames", s.id, s.frames.count())
	})
	return s.closeErr
}
