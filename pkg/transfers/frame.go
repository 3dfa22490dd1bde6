package transfers

import (
	"errors"
	"io"
)

// FrameReader assembles payloads into frames. A frame ends at a payload
// with the end-of-frame bit, or when the frame ID bit toggles. Frames that
// carried the error bit, or that come up short of the expected size, are
// dropped and counted.
type FrameReader struct {
	payloads PayloadReader
	size     int

	buf     []byte
	pending *Payload
	started bool
	fid     bool
	eof     bool
	bad     bool

	Dropped int
}

// NewFrameReader assembles frames from payloads. size is the exact frame
// size of uncompressed formats, or 0 when frames vary in length.
func NewFrameReader(payloads PayloadReader, size int) *FrameReader {
	return &FrameReader{payloads: payloads, size: size}
}

// ReadFrame blocks until a complete frame is available. The returned slice
// belongs to the caller.
func (r *FrameReader) ReadFrame() ([]byte, error) {
	for {
		p := r.pending
		r.pending = nil
		if p == nil {
			var err error
			p, err = r.payloads.ReadPayload()
			if errors.Is(err, ErrMalformedPayload) {
				r.bad = true
				continue
			}
			if err != nil {
				return nil, err
			}
		}
		if r.started && !r.eof && p.FrameID() != r.fid {
			// the previous frame never saw its end-of-frame bit
			r.eof = true
			r.pending = p
			if f := r.finish(); f != nil {
				return f, nil
			}
			continue
		}
		if f := r.push(p); f != nil {
			return f, nil
		}
	}
}

func (r *FrameReader) push(p *Payload) []byte {
	if !r.started || p.FrameID() != r.fid {
		r.started, r.fid = true, p.FrameID()
		r.eof, r.bad = false, false
		r.buf = r.buf[:0]
	}
	if r.eof {
		// trailing payloads of a frame that already ended
		return nil
	}
	if p.Error() {
		r.bad = true
	}
	r.buf = append(r.buf, p.Data...)
	if p.EndOfFrame() {
		r.eof = true
		return r.finish()
	}
	return nil
}

func (r *FrameReader) finish() []byte {
	n := len(r.buf)
	if r.size > 0 && n > r.size {
		n = r.size
	}
	if r.bad || n == 0 || n < r.size {
		r.Dropped++
		return nil
	}
	out := make([]byte, n)
	copy(out, r.buf)
	return out
}

func (r *FrameReader) Close() error {
	return r.payloads.Close()
}

var _ io.Closer = (*FrameReader)(nil)
