package transfers

import (
	"errors"
	"fmt"
	"io"
)

// ErrMalformedPayload reports a packet whose header could not be decoded.
// The stream itself is still usable.
var ErrMalformedPayload = errors.New("malformed payload")

// PayloadReader yields decoded payloads one at a time. The payload returned
// is only valid until the next call.
type PayloadReader interface {
	io.Closer
	ReadPayload() (*Payload, error)
}

// packetPayloads decodes a reader that returns exactly one payload per Read,
// which is what both the bulk and isochronous readers do.
type packetPayloads struct {
	r   io.ReadCloser
	buf []byte
	p   Payload
}

// NewPayloadReader wraps a packet source. size bounds a single payload and
// is normally the negotiated dwMaxPayloadTransferSize.
func NewPayloadReader(r io.ReadCloser, size int) PayloadReader {
	return &packetPayloads{r: r, buf: make([]byte, size)}
}

func (pp *packetPayloads) ReadPayload() (*Payload, error) {
	for {
		n, err := pp.r.Read(pp.buf)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			// zero length packets carry nothing, not even a header
			continue
		}
		if err := pp.p.UnmarshalBinary(pp.buf[:n]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return &pp.p, nil
	}
}

func (pp *packetPayloads) Close() error { return pp.r.Close() }
