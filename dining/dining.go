// Package dining seats goroutines at a round table where each needs both of
// its neighbouring forks, and offers three deadlock-free ways to hand out the
// forks.
//
// The strategies are:
//
//   - Footman: at most seats-1 diners may reach for forks at once (see package
//     footman). Deadlock-free; fairness is left to the forks' wake order.
//   - Tanenbaum: a hungry diner eats only when neither neighbour is eating; the
//     state of the whole table is kept under one lock, and whoever puts their
//     forks down checks whether a neighbour can start. Deadlock-free, but two
//     neighbours can take turns in a way that starves the diner between them.
//   - Ordered: every diner picks up the lower-numbered fork first, which breaks
//     the cycle of the table by resource ordering.
package dining

import (
	"fmt"
	"sync"

	"github.com/notorious-go/turnstile/footman"
	"github.com/notorious-go/turnstile/semaphore"
)

// Strategy selects how a Table prevents deadlock.
type Strategy int

const (
	// Footman limits the number of diners reaching for forks.
	Footman Strategy = iota
	// Tanenbaum lets a diner eat only when neither neighbour is eating.
	Tanenbaum
	// Ordered acquires forks in a global order.
	Ordered
)

// String returns the name of the strategy.
func (s Strategy) String() string {
	switch s {
	case Footman:
		return "footman"
	case Tanenbaum:
		return "tanenbaum"
	case Ordered:
		return "ordered"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy returns the strategy with the given name, as printed by
// Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range []Strategy{Footman, Tanenbaum, Ordered} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("dining: unknown strategy %q", name)
}

type state int

const (
	thinking state = iota
	hungry
	eating
)

// Table is a round table with one fork between each pair of neighbouring
// seats. Seat i uses forks i (left) and i+1 (right, wrapping around).
//
// Use NewTable to create a Table; the zero value is not usable.
type Table struct {
	seats    int
	strategy Strategy

	forks   []*semaphore.Semaphore
	footman *footman.Footman

	// Tanenbaum keeps per-seat states under mu, and each seat blocks on its own
	// semaphore until a neighbour (or itself) finds that it may eat.
	mu     sync.Mutex
	states []state
	turns  []*semaphore.Semaphore
}

// NewTable creates a table with the given number of seats. It panics if seats
// is less than two or the strategy is unknown.
func NewTable(seats int, strategy Strategy) *Table {
	if seats < 2 {
		panic(fmt.Errorf("dining: a table needs at least two seats, got %v", seats))
	}
	t := &Table{seats: seats, strategy: strategy}
	switch strategy {
	case Footman:
		t.footman = footman.New(seats - 1)
		t.forks = newForks(seats)
	case Ordered:
		t.forks = newForks(seats)
	case Tanenbaum:
		t.states = make([]state, seats)
		t.turns = make([]*semaphore.Semaphore, seats)
		for i := range t.turns {
			t.turns[i] = semaphore.New(0)
		}
	default:
		panic(fmt.Errorf("dining: unknown %v", strategy))
	}
	return t
}

func newForks(n int) []*semaphore.Semaphore {
	forks := make([]*semaphore.Semaphore, n)
	for i := range forks {
		forks[i] = semaphore.New(1)
	}
	return forks
}

func (t *Table) left(seat int) int  { return seat }
func (t *Table) right(seat int) int { return (seat + 1) % t.seats }

// Pickup blocks until the diner at seat holds both of its forks.
func (t *Table) Pickup(seat int) {
	t.checkSeat(seat)
	switch t.strategy {
	case Footman:
		t.footman.Acquire(t.forks[t.left(seat)], t.forks[t.right(seat)])
	case Ordered:
		first, second := t.left(seat), t.right(seat)
		if first > second {
			first, second = second, first
		}
		t.forks[first].Acquire()
		t.forks[second].Acquire()
	case Tanenbaum:
		t.mu.Lock()
		t.states[seat] = hungry
		t.test(seat)
		t.mu.Unlock()
		t.turns[seat].Acquire()
	}
}

// Putdown returns the forks of the diner at seat.
func (t *Table) Putdown(seat int) {
	t.checkSeat(seat)
	switch t.strategy {
	case Footman:
		t.footman.Release(t.forks[t.left(seat)], t.forks[t.right(seat)])
	case Ordered:
		t.forks[t.left(seat)].Release()
		t.forks[t.right(seat)].Release()
	case Tanenbaum:
		t.mu.Lock()
		t.states[seat] = thinking
		t.test(t.right(seat))
		t.test(t.neighbour(seat))
		t.mu.Unlock()
	}
}

// neighbour returns the seat whose right fork is seat's left fork.
func (t *Table) neighbour(seat int) int {
	return (seat + t.seats - 1) % t.seats
}

// test lets the diner at seat eat if it is hungry and neither neighbour is
// eating. It must be called with t.mu held.
func (t *Table) test(seat int) {
	if t.states[seat] == hungry &&
		t.states[t.neighbour(seat)] != eating &&
		t.states[t.right(seat)] != eating {
		t.states[seat] = eating
		t.turns[seat].Release()
	}
}

// Dine picks up the forks of seat, calls eat, and puts the forks down again,
// even if eat panics.
func (t *Table) Dine(seat int, eat func()) {
	t.Pickup(seat)
	defer t.Putdown(seat)
	eat()
}

// Seats returns the number of seats at the table.
func (t *Table) Seats() int {
	return t.seats
}

// Strategy returns the strategy the table was created with.
func (t *Table) Strategy() Strategy {
	return t.strategy
}

func (t *Table) checkSeat(seat int) {
	if seat < 0 || seat >= t.seats {
		panic(fmt.Errorf("dining: seat %v is not at a table of %v", seat, t.seats))
	}
}
