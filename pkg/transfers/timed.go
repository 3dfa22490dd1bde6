package transfers

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrFrameTimeout is returned by TimedFrameReader.ReadFrame when no frame
// arrived in time. The stream stays usable.
var ErrFrameTimeout = errors.New("frame timeout")

type frameResult struct {
	frame []byte
	err   error
}

// TimedFrameReader runs a FrameReader on its own goroutine so a stalled
// endpoint cannot block ReadFrame past the timeout. Close cancels the
// underlying transfers and waits for that goroutine.
type TimedFrameReader struct {
	r       *FrameReader
	timeout time.Duration

	frames chan frameResult
	stop   chan struct{}
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// NewTimedFrameReader starts reading from r. A timeout of zero or less
// waits forever.
func NewTimedFrameReader(r *FrameReader, timeout time.Duration) *TimedFrameReader {
	t := &TimedFrameReader{
		r:       r,
		timeout: timeout,
		frames:  make(chan frameResult),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go t.pump()
	return t
}

func (t *TimedFrameReader) pump() {
	defer close(t.done)
	for {
		f, err := t.r.ReadFrame()
		select {
		case t.frames <- frameResult{f, err}:
		case <-t.stop:
			return
		}
	}
}

// ReadFrame returns the next frame, or ErrFrameTimeout.
func (t *TimedFrameReader) ReadFrame() ([]byte, error) {
	var expired <-chan time.Time
	if t.timeout > 0 {
		timer := time.NewTimer(t.timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case res := <-t.frames:
		return res.frame, res.err
	case <-t.stop:
		return nil, errReaderClosed
	case <-expired:
		return nil, fmt.Errorf("%w: nothing within %v", ErrFrameTimeout, t.timeout)
	}
}

// Dropped is the number of damaged frames discarded, or -1 until Close has
// returned.
func (t *TimedFrameReader) Dropped() int {
	select {
	case <-t.done:
		return t.r.Dropped
	default:
		return -1
	}
}

func (t *TimedFrameReader) Close() error {
	t.closeOnce.Do(func() {
		close(t.stop)
		t.closeErr = t.r.Close()
		<-t.done
	})
	return t.closeErr
}
