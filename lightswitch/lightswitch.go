// Package lightswitch implements the Lightswitch pattern: the first goroutine
// into a room turns on the light (acquires a shared lock) and the last one out
// turns it off (releases it).
//
// A Lightswitch lets any number of entrants of one kind share a resource that
// excludes everybody else, without each entrant contending for that resource.
// The classic use is readers-writers exclusion, see package rwlock:
//
//	var readers lightswitch.Lightswitch
//	roomEmpty := semaphore.New(1)
//
//	// reader
//	readers.Lock(roomEmpty)
//	// ... read ...
//	readers.Unlock(roomEmpty)
//
//	// writer
//	roomEmpty.Acquire()
//	// ... write ...
//	roomEmpty.Release()
package lightswitch

import (
	"fmt"
	"sync"

	"github.com/notorious-go/turnstile/semaphore"
)

// Lightswitch counts the entrants currently holding a room. The room itself is
// an external lock passed to Lock and Unlock, and it is held by the switch for
// exactly as long as the count is positive.
//
// The same room must be passed to every Lock and Unlock call of one
// Lightswitch.
//
// The zero Lightswitch is ready to use.
type Lightswitch struct {
	// mu serializes entrants and exitants, so the first entrant and the last
	// exitant can never interleave. While the first entrant waits for the room,
	// later entrants queue behind it on mu.
	mu    sync.Mutex
	count int
}

// Lock admits the calling goroutine. The first entrant acquires room, blocking
// until it is available; later entrants only increment the count.
func (l *Lightswitch) Lock(room semaphore.Lock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.count++
	if l.count == 1 {
		room.Acquire()
	}
}

// Unlock lets the calling goroutine out. The last exitant releases room.
//
// Unlock panics if no goroutine is inside.
func (l *Lightswitch) Unlock(room semaphore.Lock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.count == 0 {
		panic(fmt.Errorf("lightswitch: unlock of an empty room"))
	}
	l.count--
	if l.count == 0 {
		room.Release()
	}
}

// Count returns the number of entrants inside at the moment of the call.
func (l *Lightswitch) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
