package camerata

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var errDeviceClosed = errors.New("device closed")

// lockedDevice is the session's device behind the lock every device call
// takes.
type lockedDevice struct {
	mu     fairMutex
	dev    Device
	closed bool // guarded by mu
}

// devices maps session ids to their live device. Controls hold only the id,
// so a closed session's device is unreachable from them once unregistered.
// Ids are random and never reused, so a stale id cannot resolve to a newer
// session's device.
var devices = struct {
	sync.Mutex
	m map[uuid.UUID]*lockedDevice
}{m: make(map[uuid.UUID]*lockedDevice)}

func registerDevice(id uuid.UUID, d *lockedDevice) {
	devices.Lock()
	devices.m[id] = d
	devices.Unlock()
}

func unregisterDevice(id uuid.UUID) {
	devices.Lock()
	delete(devices.m, id)
	devices.Unlock()
}

func lookupDevice(id uuid.UUID) (*lockedDevice, bool) {
	devices.Lock()
	defer devices.Unlock()
	d, ok := devices.m[id]
	return d, ok
}

// withDevice runs fn with exclusive access to the device registered under id.
// The reference is held only for the duration of fn. It returns errDeviceClosed
// if the device is gone, including when it was closed while fn was waiting for
// the lock.
func withDevice(id uuid.UUID, fn func(Device) error) error {
	d, ok := lookupDevice(id)
	if !ok {
		return errDeviceClosed
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errDeviceClosed
	}
	return fn(d.dev)
}
