package camerata

import "sync"

// frameSlot holds the most recently published frame. Publishing swaps the
// pointer; the frame it points at is never written after publication.
type frameSlot struct {
	mu        sync.RWMutex
	frame     *Frame
	publishes uint64
}

func (s *frameSlot) load() *Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

func (s *frameSlot) store(f *Frame) {
	s.mu.Lock()
	s.frame = f
	s.publishes++
	s.mu.Unlock()
}

func (s *frameSlot) count() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.publishes
}

// errorLatch keeps the first error stored into it.
type errorLatch struct {
	mu  sync.Mutex
	err error
}

func (l *errorLatch) set(err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false
	}
	l.err = err
	return true
}

func (l *errorLatch) get() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
