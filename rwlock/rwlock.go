// Package rwlock implements readers-writers exclusion on top of semaphores and
// lightswitches, with the starvation trade-off chosen at construction time.
//
// Any number of readers may hold the lock together; a writer holds it alone.
// The strategies differ in who may starve:
//
//   - ReaderPriority: readers that keep arriving while other readers are inside
//     get in at once, so a writer can wait forever.
//   - NoStarve: a waiting writer closes a turnstile that arriving readers must
//     pass, so the readers inside drain and the writer gets in. Neither side
//     starves as long as the underlying semaphores wake fairly.
//   - WriterPriority: once a writer arrives, no new reader gets in until every
//     waiting writer has finished, so readers can wait forever.
package rwlock

import (
	"fmt"

	"github.com/notorious-go/turnstile/lightswitch"
	"github.com/notorious-go/turnstile/semaphore"
)

// Strategy selects which side of a readers-writers lock is favoured.
type Strategy int

const (
	// NoStarve queues readers and writers through a shared turnstile.
	NoStarve Strategy = iota
	// ReaderPriority lets readers in while any reader is inside.
	ReaderPriority
	// WriterPriority holds back new readers while any writer is waiting.
	WriterPriority
)

// String returns the name of the strategy.
func (s Strategy) String() string {
	switch s {
	case NoStarve:
		return "no-starve"
	case ReaderPriority:
		return "reader-priority"
	case WriterPriority:
		return "writer-priority"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy returns the strategy with the given name, as printed by
// Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range []Strategy{NoStarve, ReaderPriority, WriterPriority} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("rwlock: unknown strategy %q", name)
}

// RWLock is a readers-writers lock. Unlike sync.RWMutex, it is built entirely
// from semaphores and lightswitches and does not belong to the goroutine that
// locked it.
//
// Use New to create an RWLock; the zero value is not usable.
type RWLock struct {
	strategy Strategy

	readers lightswitch.Lightswitch
	writers lightswitch.Lightswitch

	// roomEmpty is held by the readers (through their lightswitch) or by one
	// writer. Under WriterPriority it plays the role of "no writers".
	roomEmpty *semaphore.Semaphore
	// turnstile is held by a writer while it waits for the room, which stops new
	// readers under NoStarve. Under WriterPriority it plays the role of "no
	// readers" and is held by the writers' lightswitch.
	turnstile *semaphore.Semaphore
}

// New creates a readers-writers lock with the given strategy. It panics if the
// strategy is unknown.
func New(strategy Strategy) *RWLock {
	switch strategy {
	case NoStarve, ReaderPriority, WriterPriority:
	default:
		panic(fmt.Errorf("rwlock: unknown %v", strategy))
	}
	return &RWLock{
		strategy:  strategy,
		roomEmpty: semaphore.New(1),
		turnstile: semaphore.New(1),
	}
}

// RLock blocks until the calling goroutine may read.
func (l *RWLock) RLock() {
	switch l.strategy {
	case ReaderPriority:
		l.readers.Lock(l.roomEmpty)
	case NoStarve:
		l.turnstile.Acquire()
		l.turnstile.Release()
		l.readers.Lock(l.roomEmpty)
	case WriterPriority:
		l.turnstile.Acquire()
		l.readers.Lock(l.roomEmpty)
		l.turnstile.Release()
	}
}

// RUnlock ends a read.
func (l *RWLock) RUnlock() {
	l.readers.Unlock(l.roomEmpty)
}

// Lock blocks until the calling goroutine may write.
func (l *RWLock) Lock() {
	switch l.strategy {
	case ReaderPriority:
		l.roomEmpty.Acquire()
	case NoStarve:
		l.turnstile.Acquire()
		l.roomEmpty.Acquire()
		l.turnstile.Release()
	case WriterPriority:
		l.writers.Lock(l.turnstile)
		l.roomEmpty.Acquire()
	}
}

// Unlock ends a write.
func (l *RWLock) Unlock() {
	l.roomEmpty.Release()
	if l.strategy == WriterPriority {
		l.writers.Unlock(l.turnstile)
	}
}

// Readers returns the number of readers inside at the moment of the call.
func (l *RWLock) Readers() int {
	return l.readers.Count()
}

// Strategy returns the strategy the lock was created with.
func (l *RWLock) Strategy() Strategy {
	return l.strategy
}
