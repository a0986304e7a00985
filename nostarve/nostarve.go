// Package nostarve implements a starvation-free mutex from semaphores alone,
// using Morris's algorithm.
//
// A mutex built from a single semaphore is only as fair as the semaphore's wake
// order: a goroutine that releases the mutex and immediately re-acquires it can
// keep overtaking a waiter forever. Morris's algorithm bounds that. Goroutines
// gather in a first waiting room; once the room stops filling, the whole batch
// moves into a second room and passes through the critical section one at a
// time, and no newcomer can join the batch until it has drained. Every
// goroutine that enters the first room is therefore served within one batch of
// its arrival.
package nostarve

import (
	"sync"

	"github.com/notorious-go/turnstile/semaphore"
)

// Mutex is a starvation-free mutual exclusion lock.
//
// Use New to create a Mutex; the zero value is not usable. A Mutex does not
// belong to the goroutine that locked it.
type Mutex struct {
	// mu protects room1, the number of goroutines in the first waiting room.
	mu    sync.Mutex
	room1 int
	// room2 counts the goroutines of the current batch. It is only touched by the
	// goroutine holding t1 or t2, and exactly one of the two is held at a time.
	room2 int
	// t1 admits goroutines from the first room to the second; t2 admits them from
	// the second room to the critical section.
	t1 *semaphore.Semaphore
	t2 *semaphore.Semaphore
}

// New creates an unlocked mutex.
func New() *Mutex {
	return &Mutex{t1: semaphore.New(1), t2: semaphore.New(0)}
}

// Lock blocks until the calling goroutine holds the mutex.
func (m *Mutex) Lock() {
	m.mu.Lock()
	m.room1++
	m.mu.Unlock()

	m.t1.Acquire()
	m.room2++
	m.mu.Lock()
	m.room1--
	last := m.room1 == 0
	m.mu.Unlock()
	if last {
		// The first room is empty: close it and start letting the batch through.
		m.t2.Release()
	} else {
		m.t1.Release()
	}

	m.t2.Acquire()
	m.room2--
}

// Unlock releases the mutex: to the next goroutine of the current batch, or,
// when the batch is done, back to the first waiting room.
func (m *Mutex) Unlock() {
	if m.room2 == 0 {
		m.t1.Release()
	} else {
		m.t2.Release()
	}
}
