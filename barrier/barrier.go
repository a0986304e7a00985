// Package barrier implements a reusable rendezvous barrier for a fixed cohort
// of goroutines.
//
// Every member of the cohort calls Wait once per round. Nobody returns from
// Wait until all members have called it, and nobody can complete the next
// round's Wait before all members have left the current one. The same Barrier
// can therefore sit inside a loop:
//
//	b := barrier.New(n)
//	for i := range n {
//	    go func() {
//	        for {
//	            // rendezvous
//	            b.Wait()
//	            // critical point
//	        }
//	    }()
//	}
//
// # Two Turnstiles
//
// A single turnstile is not reusable: a member released early could loop around
// and pass the turnstile again on a signal meant for a straggler of the previous
// round. The barrier therefore runs two phases, each guarded by its own
// turnstile. The last member to arrive opens the first turnstile for exactly n
// passages; the last member to depart opens the second one for exactly n
// passages. Opening a turnstile for n at once (instead of letting each passer
// re-release it) leaves both turnstiles closed at the end of every round.
package barrier

import (
	"fmt"
	"sync"

	"github.com/notorious-go/turnstile/semaphore"
)

// Barrier synchronizes a cohort of n goroutines at a rendezvous point, over
// and over again.
//
// Use New to create a Barrier; the zero value is not usable.
type Barrier struct {
	n int

	// mu protects count, which runs from 0 to n during the arrival phase and back
	// down to 0 during the departure phase.
	mu    sync.Mutex
	count int

	// arrival is opened (released n times) by the last member to arrive, and
	// departure by the last member to depart. Both rest at value 0 between rounds.
	arrival   *semaphore.Semaphore
	departure *semaphore.Semaphore
}

// New creates a barrier for a cohort of n goroutines. It panics if n is less
// than one.
func New(n int) *Barrier {
	if n < 1 {
		panic(fmt.Errorf("barrier: cohort size must be positive, got %v", n))
	}
	return &Barrier{
		n:         n,
		arrival:   semaphore.New(0),
		departure: semaphore.New(0),
	}
}

// Wait blocks until all n members of the cohort have called Wait for the
// current round. It is equivalent to calling Arrive and then Depart.
func (b *Barrier) Wait() {
	b.Arrive()
	b.Depart()
}

// Arrive is the first phase of Wait. It blocks until all n members have
// arrived.
//
// Code placed between Arrive and Depart runs after every member has arrived and
// before any member can arrive for the next round.
func (b *Barrier) Arrive() {
	b.mu.Lock()
	b.count++
	if b.count == b.n {
		b.arrival.ReleaseN(b.n)
	}
	b.mu.Unlock()

	b.arrival.Acquire()
}

// Depart is the second phase of Wait. It blocks until all n members have
// departed, after which the barrier is ready for the next round.
//
// Every call to Depart must follow a call to Arrive by the same member.
func (b *Barrier) Depart() {
	b.mu.Lock()
	b.count--
	if b.count == 0 {
		b.departure.ReleaseN(b.n)
	}
	b.mu.Unlock()

	b.departure.Acquire()
}

// Size returns the number of goroutines in the cohort.
func (b *Barrier) Size() int {
	return b.n
}

// Arrived returns the number of members between the two turnstiles at the
// moment of the call.
func (b *Barrier) Arrived() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// String reports the cohort size and the arrival count.
func (b *Barrier) String() string {
	return fmt.Sprintf("Barrier(%v/%v)", b.Arrived(), b.n)
}
