package semaphore

import (
	"fmt"
	"sync"

	"github.com/gammazero/deque"
)

// Lock is implemented by any primitive that can be acquired and released as a
// unit. A binary Semaphore (New(1)) is the canonical Lock.
type Lock interface {
	Acquire()
	Release()
}

// Semaphore is a counting semaphore. Its value is never negative; callers of
// Acquire block while it is zero.
//
// The zero Semaphore has value 0 and is ready to use. A Semaphore must not be
// copied after first use.
type Semaphore struct {
	mu sync.Mutex
	// value counts the units that are available right now. It is only positive
	// while waiters is empty, because Release hands units to waiters first.
	value int
	// waiters holds one channel per blocked Acquire, oldest at the front. Closing
	// the channel hands a unit to that waiter.
	waiters deque.Deque[chan struct{}]
}

// New creates a semaphore holding value units. It panics if value is negative.
func New(value int) *Semaphore {
	if value < 0 {
		panic(fmt.Errorf("semaphore: negative initial value %v", value))
	}
	return &Semaphore{value: value}
}

// String returns a human-readable representation of the semaphore's state in
// the form "Semaphore(value=V, waiting=W)".
func (s *Semaphore) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("Semaphore(value=%v, waiting=%v)", s.value, s.waiters.Len())
}

// Acquire blocks until a unit is available, then takes it.
//
// Typical usage pattern:
//
//	s.Acquire()
//	defer s.Release()
//	// ... do work ...
func (s *Semaphore) Acquire() {
	s.mu.Lock()
	if s.value > 0 {
		s.value--
		s.mu.Unlock()
		return
	}
	wake := make(chan struct{})
	s.waiters.PushBack(wake)
	s.mu.Unlock()

	// The releasing goroutine has already accounted for our unit by the time the
	// channel is closed, so there is nothing left to update here.
	<-wake
}

// TryAcquire takes a unit if one is available without blocking, and reports
// whether it did.
//
// TryAcquire never succeeds while other goroutines are blocked in Acquire,
// because released units go to those goroutines first.
func (s *Semaphore) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value == 0 {
		return false
	}
	s.value--
	return true
}

// Release adds a single unit. It is shorthand for ReleaseN(1).
func (s *Semaphore) Release() {
	s.ReleaseN(1)
}

// ReleaseN adds n units to the semaphore, waking at most n blocked goroutines
// in the order they blocked. Units that find no waiter increase the value.
//
// Releasing a turnstile by the size of the cohort that waits on it (rather than
// once) is what lets the whole cohort through:
//
//	turnstile.ReleaseN(n) // every one of the n waiters passes
//
// ReleaseN never blocks. It panics if n is negative.
func (s *Semaphore) ReleaseN(n int) {
	if n < 0 {
		panic(fmt.Errorf("semaphore: negative release %v", n))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for ; n > 0 && s.waiters.Len() > 0; n-- {
		close(s.waiters.PopFront())
	}
	s.value += n
}

// Value returns the number of units available at the moment of the call.
func (s *Semaphore) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Waiting returns the number of goroutines blocked in Acquire at the moment of
// the call.
func (s *Semaphore) Waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiters.Len()
}
