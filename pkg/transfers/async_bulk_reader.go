package transfers

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	usb "github.com/kevmo314/go-usb"
)

const (
	// DefaultBulkTransfers is how many bulk URBs stay queued while streaming.
	DefaultBulkTransfers = 64

	// MaxURBSize caps a single URB; usbfs rejects larger buffers with ENOMEM.
	MaxURBSize = 16384
)

var errReaderClosed = errors.New("reader closed")

// BulkReader streams a bulk endpoint. Each Read returns one payload, which
// may span several URBs and ends with a short transfer.
type BulkReader struct {
	urbSize   int
	transfers []*usb.AsyncBulkTransfer

	mu   sync.Mutex
	next int

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewBulkReader queues n transfers on endpoint. maxPayload is the negotiated
// dwMaxPayloadTransferSize.
func NewBulkReader(handle *usb.DeviceHandle, endpoint uint8, maxPayload uint32, n int) (*BulkReader, error) {
	if n < 1 {
		n = DefaultBulkTransfers
	}
	size := min(int(maxPayload), MaxURBSize)
	if size <= 0 {
		size = MaxURBSize
	}
	r := &BulkReader{urbSize: size}
	for i := 0; i < n; i++ {
		t, err := handle.NewAsyncBulkTransfer(endpoint, size)
		if err != nil {
			r.cancel()
			return nil, fmt.Errorf("bulk transfer %d: %w", i, err)
		}
		r.transfers = append(r.transfers, t)
	}
	for i, t := range r.transfers {
		if err := t.Submit(); err != nil {
			r.cancel()
			return nil, fmt.Errorf("submit bulk transfer %d: %w", i, err)
		}
	}
	return r, nil
}

func (r *BulkReader) Read(buf []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for {
		if r.closed.Load() {
			return 0, errReaderClosed
		}
		t := r.transfers[r.next]
		data, err := t.Wait()
		if r.closed.Load() {
			return 0, errReaderClosed
		}
		if err != nil {
			return 0, fmt.Errorf("bulk read: %w", err)
		}
		if len(buf)-n < len(data) {
			return 0, fmt.Errorf("bulk read: payload exceeds %d bytes", len(buf))
		}
		// copy before resubmitting, the kernel owns the buffer afterwards
		n += copy(buf[n:], data)
		if err := t.Submit(); err != nil {
			return 0, fmt.Errorf("resubmit bulk transfer: %w", err)
		}
		r.next = (r.next + 1) % len(r.transfers)
		if len(data) < r.urbSize {
			return n, nil
		}
	}
}

func (r *BulkReader) cancel() {
	for _, t := range r.transfers {
		t.Cancel()
	}
	for _, t := range r.transfers {
		t.Wait()
	}
}

// Close cancels the queued transfers. It does not take the read lock, so it
// also unblocks a Read waiting on a stalled endpoint.
func (r *BulkReader) Close() error {
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		r.cancel()
	})
	return nil
}
