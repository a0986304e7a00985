package pool

import (
	"fmt"
	"sync"

	"github.com/notorious-go/turnstile/semaphore"
)

// Strategy selects how departing goroutines promote waiting ones.
type Strategy int

const (
	// HandOff has the last goroutine out update the pool's state on behalf of
	// the waiters it promotes.
	HandOff Strategy = iota
	// PassTheBaton transfers the pool's lock to each promoted waiter, which then
	// updates the state itself.
	PassTheBaton
)

// String returns the name of the strategy.
func (s Strategy) String() string {
	switch s {
	case HandOff:
		return "hand-off"
	case PassTheBaton:
		return "pass-the-baton"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy returns the strategy with the given name, as printed by
// Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range []Strategy{HandOff, PassTheBaton} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("pool: unknown strategy %q", name)
}

// Pool admits at most a fixed number of goroutines at a time. Once it fills
// up, arrivals wait until every occupant has left.
//
// Use New to create a Pool; the zero value is not usable.
type Pool struct {
	capacity int
	strategy Strategy

	// mu protects the fields below. Under PassTheBaton it is unlocked by a
	// different goroutine than the one that locked it, which sync.Mutex permits.
	mu       sync.Mutex
	occupied int
	waiting  int
	// mustWait is set when the pool fills up and cleared once it has fully
	// drained.
	mustWait bool

	// block is where arrivals wait while mustWait is set.
	block *semaphore.Semaphore
}

// New creates a pool with the given capacity, promoting waiters according to
// strategy. It panics if capacity is less than one or the strategy is unknown.
func New(capacity int, strategy Strategy) *Pool {
	if capacity < 1 {
		panic(fmt.Errorf("pool: capacity must be positive, got %v", capacity))
	}
	if strategy != HandOff && strategy != PassTheBaton {
		panic(fmt.Errorf("pool: unknown %v", strategy))
	}
	return &Pool{capacity: capacity, strategy: strategy, block: semaphore.New(0)}
}

// Enter blocks until the calling goroutine is admitted to the pool.
func (p *Pool) Enter() {
	if p.strategy == PassTheBaton {
		p.enterBaton()
		return
	}
	p.enterHandOff()
}

// Leave removes the calling goroutine from the pool, promoting waiters when the
// pool drains. Every Leave must follow a returned Enter.
//
// Leave panics if the pool is empty.
func (p *Pool) Leave() {
	if p.strategy == PassTheBaton {
		p.leaveBaton()
		return
	}
	p.leaveHandOff()
}

func (p *Pool) enterHandOff() {
	p.mu.Lock()
	if p.mustWait {
		p.waiting++
		p.mu.Unlock()
		// Whoever releases us has already counted us as an occupant.
		p.block.Acquire()
		return
	}
	p.occupied++
	p.mustWait = p.occupied == p.capacity
	p.mu.Unlock()
}

func (p *Pool) leaveHandOff() {
	p.mu.Lock()
	p.checkOccupied()
	p.occupied--
	if p.occupied == 0 {
		n := min(p.capacity, p.waiting)
		p.waiting -= n
		p.occupied += n
		p.mustWait = p.occupied == p.capacity
		p.block.ReleaseN(n)
	}
	p.mu.Unlock()
}

func (p *Pool) enterBaton() {
	p.mu.Lock()
	if p.mustWait {
		p.waiting++
		p.mu.Unlock()
		p.block.Acquire()
		// The goroutine that released us handed us the lock instead of unlocking it.
		p.waiting--
	}
	p.occupied++
	p.mustWait = p.occupied == p.capacity
	p.passBaton()
}

func (p *Pool) leaveBaton() {
	p.mu.Lock()
	p.checkOccupied()
	p.occupied--
	if p.occupied == 0 {
		p.mustWait = false
	}
	p.passBaton()
}

// passBaton gives up the lock, which must be held: it either wakes a waiter,
// who inherits the lock, or unlocks it.
func (p *Pool) passBaton() {
	if p.waiting > 0 && !p.mustWait {
		p.block.Release()
		return
	}
	p.mu.Unlock()
}

// checkOccupied must be called with p.mu held. It unlocks p.mu before
// panicking on an empty pool.
func (p *Pool) checkOccupied() {
	if p.occupied == 0 {
		p.mu.Unlock()
		panic(fmt.Errorf("pool: leave from an empty pool"))
	}
}

// Capacity returns the maximum number of occupants.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Strategy returns the strategy the pool was created with.
func (p *Pool) Strategy() Strategy {
	return p.strategy
}

// Occupied returns the number of occupants at the moment of the call. Under
// HandOff, promoted waiters count as occupants even before they wake up.
func (p *Pool) Occupied() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.occupied
}

// Waiting returns the number of goroutines waiting to be admitted at the moment
// of the call.
func (p *Pool) Waiting() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waiting
}

// String reports the occupancy, the capacity and the number of waiters.
func (p *Pool) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("Pool(%v/%v, waiting=%v)", p.occupied, p.capacity, p.waiting)
}
