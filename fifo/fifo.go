package fifo

import (
	"fmt"
	"sync"

	"github.com/gammazero/deque"

	"github.com/notorious-go/turnstile/semaphore"
)

// A Ticket is a goroutine's place in a Queue. It owns a private semaphore that
// only the dispatcher releases, exactly once, when the ticket reaches the head
// of the line.
type Ticket struct {
	id   uint64
	turn *semaphore.Semaphore
}

// ID returns the ticket's position in the arrival order of its queue. The first
// ticket of a queue has ID 1.
func (t *Ticket) ID() uint64 {
	return t.id
}

// Wait blocks until the dispatcher serves this ticket.
func (t *Ticket) Wait() {
	t.turn.Acquire()
}

// String returns "Ticket(ID)".
func (t *Ticket) String() string {
	return fmt.Sprintf("Ticket(%v)", t.id)
}

// Queue is a strictly fair waiting line. Goroutines join it with Join (or Wait)
// and a dispatcher serves them with Serve, oldest first.
//
// Use New to create a Queue; the zero value is not usable.
type Queue struct {
	// mu protects the line, the ticket counter and the limit.
	mu     sync.Mutex
	line   deque.Deque[*Ticket]
	issued uint64
	limit  int

	// waiting holds one unit per ticket in line that has not been served yet. The
	// dispatcher blocks on it while the line is empty.
	waiting *semaphore.Semaphore
}

// New creates an empty queue with no limit.
func New() *Queue {
	return &Queue{limit: -1, waiting: semaphore.New(0)}
}

// Join takes a place at the back of the line and returns the ticket for it
// without blocking. The caller must then Wait on the ticket.
//
// Tickets are ordered by the order in which Join calls acquire the queue's
// lock; two goroutines calling Join at the same time are ordered arbitrarily.
//
// Join ignores the limit; see TryJoin.
func (q *Queue) Join() *Ticket {
	q.mu.Lock()
	t := q.enqueue()
	q.mu.Unlock()

	q.waiting.Release()
	return t
}

// TryJoin is like Join, but refuses to join a line that already holds as many
// unserved tickets as the limit allows. It reports whether the caller joined.
func (q *Queue) TryJoin() (*Ticket, bool) {
	q.mu.Lock()
	if q.limit >= 0 && q.line.Len() >= q.limit {
		q.mu.Unlock()
		return nil, false
	}
	t := q.enqueue()
	q.mu.Unlock()

	q.waiting.Release()
	return t, true
}

// enqueue must be called with q.mu held.
func (q *Queue) enqueue() *Ticket {
	q.issued++
	t := &Ticket{id: q.issued, turn: semaphore.New(0)}
	q.line.PushBack(t)
	return t
}

// Wait joins the line and blocks until the calling goroutine is served.
func (q *Queue) Wait() {
	q.Join().Wait()
}

// Serve blocks until the line is non-empty, then removes the oldest ticket and
// wakes its owner. It returns the ticket that was served.
//
// Serve is meant to be called by a single dispatcher. With several concurrent
// dispatchers, each still serves the oldest ticket at the moment it takes the
// lock.
func (q *Queue) Serve() *Ticket {
	q.waiting.Acquire()
	return q.serveHead()
}

// TryServe serves the oldest ticket if the line is non-empty, without blocking.
// It reports whether a ticket was served.
func (q *Queue) TryServe() (*Ticket, bool) {
	if !q.waiting.TryAcquire() {
		return nil, false
	}
	return q.serveHead(), true
}

// serveHead pops and wakes the head of the line. The caller must have taken a
// unit from q.waiting, which guarantees the line is not empty.
func (q *Queue) serveHead() *Ticket {
	q.mu.Lock()
	t := q.line.PopFront()
	q.mu.Unlock()

	t.turn.Release()
	return t
}

// Len returns the number of unserved tickets at the moment of the call.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.line.Len()
}

// SetLimit limits the number of unserved tickets TryJoin admits to n. A ticket
// stops counting as soon as it is served, so in a barbershop n is the number of
// waiting chairs and the barber's chair comes on top. A negative value
// indicates no limit. A zero value makes TryJoin refuse every arrival.
//
// The limit must not be modified while tickets are waiting in line.
func (q *Queue) SetLimit(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.line.Len() != 0 {
		panic(fmt.Errorf("fifo: modify limit while %v tickets are still waiting", q.line.Len()))
	}
	q.limit = n
}
