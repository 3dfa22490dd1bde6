package camerata

import "sync"

// fairMutex is a ticket lock: goroutines acquire it in the order they called
// Lock. The capture loop relocks the device immediately after every frame, and
// with a plain sync.Mutex it can win that race repeatedly against a control
// write that is already waiting.
type fairMutex struct {
	mu      sync.Mutex
	cond    sync.Cond
	next    uint64
	serving uint64
}

func (m *fairMutex) Lock() {
	m.mu.Lock()
	if m.cond.L == nil {
		m.cond.L = &m.mu
	}
	ticket := m.next
	m.next++
	for ticket != m.serving {
		m.cond.Wait()
	}
	m.mu.Unlock()
}

func (m *fairMutex) Unlock() {
	m.mu.Lock()
	if m.next == m.serving {
		m.mu.Unlock()
		panic("camerata: unlock of unlocked fairMutex")
	}
	m.serving++
	if m.cond.L != nil {
		m.cond.Broadcast()
	}
	m.mu.Unlock()
}
