package camerata

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFrameSlot(t *testing.T) {
	var s frameSlot
	if f := s.load(); f != nil {
		t.Fatalf("load() = %v before any store, want nil", f)
	}
	a := &Frame{Width: 1, Height: 1, Pix: []byte{1, 2, 3}}
	b := &Frame{Width: 1, Height: 1, Pix: []byte{4, 5, 6}}
	s.store(a)
	s.store(b)
	if s.load() != b {
		t.Error("load() did not return the latest frame")
	}
	if n := s.count(); n != 2 {
		t.Errorf("count() = %d, want 2", n)
	}
}

func TestErrorLatchFirstWins(t *testing.T) {
	var l errorLatch
	if err := l.get(); err != nil {
		t.Fatalf("get() = %v, want nil", err)
	}
	first := errors.New("first")
	if !l.set(first) {
		t.Error("set(first) = false, want true")
	}
	if l.set(errors.New("second")) {
		t.Error("set(second) = true, want false")
	}
	for i := 0; i < 3; i++ {
		if err := l.get(); err != first {
			t.Errorf("get() = %v, want %v", err, first)
		}
	}
}

func TestFairMutexOrder(t *testing.T) {
	var m fairMutex
	m.Lock()

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			m.Unlock()
		}()
		// let goroutine i take its ticket before i+1 starts
		waitTickets(t, &m, uint64(i+2))
	}
	m.Unlock()
	wg.Wait()

	for i, v := range order {
		if v != i {
			t.Fatalf("acquisition order = %v, want ascending", order)
		}
	}
}

func waitTickets(t *testing.T, m *fairMutex, n uint64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		m.mu.Lock()
		next := m.next
		m.mu.Unlock()
		if next >= n {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("waiting for ticket %d", n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestFairMutexUnlockUnlockedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Unlock of unlocked fairMutex did not panic")
		}
	}()
	var m fairMutex
	m.Unlock()
}
