// Package transfers turns the packets a UVC streaming endpoint delivers into
// whole video frames.
package transfers

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Header info bits of a UVC payload header.
const (
	headerFrameID     = 1 << 0
	headerEndOfFrame  = 1 << 1
	headerPTS         = 1 << 2
	headerSCR         = 1 << 3
	headerPayloadBit  = 1 << 4
	headerStillImage  = 1 << 5
	headerError       = 1 << 6
	headerEndOfHeader = 1 << 7
)

// Payload is one UVC payload: a header followed by a slice of frame data.
type Payload struct {
	HeaderInfoBitmask uint8
	PTS               uint32
	SCR               struct {
		SourceTimeClock uint32
		TokenCounter    uint16
	}
	// Data aliases the buffer the payload was decoded from.
	Data []byte
}

func (p *Payload) FrameID() bool            { return p.HeaderInfoBitmask&headerFrameID != 0 }
func (p *Payload) EndOfFrame() bool         { return p.HeaderInfoBitmask&headerEndOfFrame != 0 }
func (p *Payload) HasPTS() bool             { return p.HeaderInfoBitmask&headerPTS != 0 }
func (p *Payload) HasSCR() bool             { return p.HeaderInfoBitmask&headerSCR != 0 }
func (p *Payload) PayloadSpecificBit() bool { return p.HeaderInfoBitmask&headerPayloadBit != 0 }
func (p *Payload) StillImage() bool         { return p.HeaderInfoBitmask&headerStillImage != 0 }
func (p *Payload) Error() bool              { return p.HeaderInfoBitmask&headerError != 0 }
func (p *Payload) EndOfHeader() bool        { return p.HeaderInfoBitmask&headerEndOfHeader != 0 }

// UnmarshalBinary decodes the header in buf. The data starts after the
// length the header declares, whatever optional fields it carries.
func (p *Payload) UnmarshalBinary(buf []byte) error {
	if len(buf) == 0 {
		return io.ErrShortBuffer
	}
	n := int(buf[0])
	if len(buf) < n {
		return io.ErrShortBuffer
	}
	if n < 2 {
		return fmt.Errorf("payload header length %d", n)
	}
	p.HeaderInfoBitmask = buf[1]
	need := 2
	if p.HasPTS() {
		need += 4
	}
	if p.HasSCR() {
		need += 6
	}
	if n < need {
		return fmt.Errorf("payload header length %d, flags %08b need %d", n, p.HeaderInfoBitmask, need)
	}
	off := 2
	p.PTS = 0
	if p.HasPTS() {
		p.PTS = binary.LittleEndian.Uint32(buf[off:])
		off += 4
	}
	p.SCR.SourceTimeClock, p.SCR.TokenCounter = 0, 0
	if p.HasSCR() {
		p.SCR.SourceTimeClock = binary.LittleEndian.Uint32(buf[off:])
		p.SCR.TokenCounter = binary.LittleEndian.Uint16(buf[off+4:])
	}
	p.Data = buf[n:]
	return nil
}
