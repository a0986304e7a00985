package ordertest

import "sync"

// A Step is one link of a Chain. It becomes ready when the previous step is
// done.
type Step struct {
	ready <-chan struct{}
	done  chan struct{}
	// The done channel must be closed only once. Without this flag, calling Done()
	// twice would've panicked because channels cannot be closed more than once.
	doneOnce sync.Once
}

// Ready returns a channel that is closed when the previous step is done.
func (s *Step) Ready() <-chan struct{} {
	return s.ready
}

// Await blocks until the step is ready.
func (s *Step) Await() {
	<-s.ready
}

// Done marks the step as finished, allowing the next step to proceed. It is
// safe to call Done more than once.
func (s *Step) Done() {
	s.doneOnce.Do(func() { close(s.done) })
}

// A Chain is a sequence of steps where each step depends on the completion of
// the previous one.
//
// Calling c.Get(n) returns the nth step in the chain, creating it if it doesn't
// already exist. The first step (c.Get(0)) is ready immediately.
//
// Get is not safe for concurrent use; create the steps before handing them to
// goroutines. The zero Chain is ready to use.
type Chain map[int]*Step

// Get returns the step with the given id.
func (c *Chain) Get(id int) *Step {
	// Make the zero Chain usable.
	if *c == nil {
		*c = make(map[int]*Step)
	}
	if step, ok := (*c)[id]; ok {
		return step
	}
	step := c.new(id)
	(*c)[id] = step
	return step
}

func (c *Chain) new(id int) *Step {
	if id == 0 {
		// The first step is ready immediately.
		ready := make(chan struct{})
		close(ready)
		return &Step{ready: ready, done: make(chan struct{})}
	}
	return &Step{ready: c.Get(id - 1).done, done: make(chan struct{})}
}
