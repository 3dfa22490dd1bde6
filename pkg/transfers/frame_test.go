package transfers

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// packets replays canned packets, one per Read, then returns io.EOF.
type packets struct {
	queue  [][]byte
	closed bool
}

func (p *packets) Read(buf []byte) (int, error) {
	if len(p.queue) == 0 {
		return 0, io.EOF
	}
	n := copy(buf, p.queue[0])
	p.queue = p.queue[1:]
	return n, nil
}

func (p *packets) Close() error {
	p.closed = true
	return nil
}

func packet(flags byte, data ...byte) []byte {
	return append([]byte{2, 0x80 | flags}, data...)
}

func readFrames(t *testing.T, size int, queue ...[]byte) ([][]byte, *FrameReader) {
	t.Helper()
	r := NewFrameReader(NewPayloadReader(&packets{queue: queue}, 64), size)
	var frames [][]byte
	for {
		f, err := r.ReadFrame()
		if err == io.EOF {
			return frames, r
		}
		if err != nil {
			t.Fatalf("ReadFrame failed: %v", err)
		}
		frames = append(frames, f)
	}
}

func TestFrameReader_EndOfFrame(t *testing.T) {
	frames, r := readFrames(t, 4,
		packet(0, 1, 2),
		packet(headerEndOfFrame, 3, 4),
		packet(headerFrameID, 5, 6),
		packet(headerFrameID|headerEndOfFrame, 7, 8),
	)
	want := [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames, want %d", len(frames), len(want))
	}
	for i := range want {
		if !bytes.Equal(frames[i], want[i]) {
			t.Errorf("frame %d = %v, want %v", i, frames[i], want[i])
		}
	}
	if r.Dropped != 0 {
		t.Errorf("Dropped = %d, want 0", r.Dropped)
	}
}

func TestFrameReader_FrameIDToggle(t *testing.T) {
	// no end-of-frame bits at all; the toggle alone delimits frames
	frames, _ := readFrames(t, 0,
		packet(0, 1),
		packet(0, 2),
		packet(headerFrameID, 3),
		packet(0, 4, 5),
		packet(headerEndOfFrame),
	)
	want := [][]byte{{1, 2}, {3}, {4, 5}}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames %v, want %v", len(frames), frames, want)
	}
	for i := range want {
		if !bytes.Equal(frames[i], want[i]) {
			t.Errorf("frame %d = %v, want %v", i, frames[i], want[i])
		}
	}
}

func TestFrameReader_DropsDamagedFrames(t *testing.T) {
	frames, r := readFrames(t, 2,
		packet(headerError, 1),
		packet(headerEndOfFrame, 2),
		packet(headerFrameID|headerEndOfFrame, 3), // short
		packet(0, 4),
		[]byte{9, 0x80}, // malformed header
		packet(headerEndOfFrame, 5),
		packet(headerFrameID|headerEndOfFrame, 6, 7),
		packet(headerFrameID, 8), // trailing payload after end of frame
	)
	if len(frames) != 1 || !bytes.Equal(frames[0], []byte{6, 7}) {
		t.Errorf("frames = %v, want [[6 7]]", frames)
	}
	if r.Dropped != 3 {
		t.Errorf("Dropped = %d, want 3", r.Dropped)
	}
}

func TestFrameReader_FramesAreCopies(t *testing.T) {
	r := NewFrameReader(NewPayloadReader(&packets{queue: [][]byte{
		packet(headerEndOfFrame, 1),
		packet(headerFrameID|headerEndOfFrame, 2),
	}}, 64), 0)
	first, err := r.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadFrame(); err != nil {
		t.Fatal(err)
	}
	if first[0] != 1 {
		t.Errorf("first frame = %v after second read, want [1]", first)
	}
}

func TestFrameReader_Close(t *testing.T) {
	src := &packets{}
	r := NewFrameReader(NewPayloadReader(src, 8), 0)
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if !src.closed {
		t.Error("Close did not close the packet source")
	}
	if _, err := r.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadFrame on drained source = %v, want io.EOF", err)
	}
}
