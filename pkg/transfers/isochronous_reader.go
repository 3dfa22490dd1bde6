package transfers

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	usb "github.com/kevmo314/go-usb"
)

// DefaultIsochronousTransfers is how many isochronous transfers stay queued.
const DefaultIsochronousTransfers = 8

// IsochronousReader streams an isochronous endpoint. Each Read returns one
// packet, which on a UVC endpoint is one payload. Failed and empty packets
// are skipped.
type IsochronousReader struct {
	transfers []*usb.IsochronousTransfer
	tx        int
	packet    int

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewIsochronousReader queues n transfers of packets packets each.
func NewIsochronousReader(handle *usb.DeviceHandle, endpoint uint8, packets, packetSize, n int) (*IsochronousReader, error) {
	if n < 1 {
		n = DefaultIsochronousTransfers
	}
	r := &IsochronousReader{}
	for i := 0; i < n; i++ {
		t, err := handle.NewIsochronousTransfer(endpoint, packets, packetSize)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("isochronous transfer %d: %w", i, err)
		}
		if err := t.Submit(); err != nil {
			t.Cancel()
			r.Close()
			return nil, fmt.Errorf("submit isochronous transfer %d: %w", i, err)
		}
		r.transfers = append(r.transfers, t)
	}
	return r, nil
}

func (r *IsochronousReader) Read(buf []byte) (int, error) {
	for {
		if r.closed.Load() || len(r.transfers) == 0 {
			return 0, errReaderClosed
		}
		t := r.transfers[r.tx]
		err := t.Wait()
		if r.closed.Load() {
			return 0, errReaderClosed
		}
		if err != nil {
			return 0, fmt.Errorf("isochronous read: %w", err)
		}
		packets := t.Packets()
		if r.packet >= len(packets) {
			if err := t.Submit(); err != nil {
				return 0, fmt.Errorf("resubmit isochronous transfer: %w", err)
			}
			r.packet = 0
			r.tx = (r.tx + 1) % len(r.transfers)
			continue
		}
		i := r.packet
		r.packet++
		if packets[i].Status != 0 || packets[i].ActualLength == 0 {
			continue
		}
		if len(buf) < int(packets[i].ActualLength) {
			return 0, io.ErrShortBuffer
		}
		data, err := t.IsoPacketBuffer(i)
		if err != nil {
			continue
		}
		return copy(buf, data), nil
	}
}

// Close cancels the queued transfers, unblocking a Read in progress.
func (r *IsochronousReader) Close() error {
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		for _, t := range r.transfers {
			t.Cancel()
		}
		for _, t := range r.transfers {
			t.Wait()
		}
	})
	return nil
}
