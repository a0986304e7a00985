// Package cohort starts and joins groups of named goroutines that take part in
// a synchronization protocol together: the members of a barrier, the diners at
// a table, the customers of a shop.
//
// A Group is a dgroup.Group whose goroutines are named after their cohort and
// member number, so that every log line a member writes through dlog says who
// wrote it:
//
//	g := cohort.New(ctx, "diner")
//	for seat := range 5 {
//		g.Go(seat, func(ctx context.Context, seat int) error { ... })
//	}
//	err := g.Wait()
//
// When a member returns an error the context of every other member is
// canceled. Members blocked on a primitive of this module do not observe that
// cancellation, so a member that can fail must not leave the others waiting for
// it forever.
package cohort

import (
	"context"
	"fmt"
	"sync"

	"github.com/datawire/dlib/dgroup"

	"github.com/notorious-go/turnstile/semaphore"
)

// Member is the body of one goroutine of a cohort.
type Member func(ctx context.Context, id int) error

// A Group is a cohort of goroutines.
//
// Use New to create a Group.
type Group struct {
	name  string
	group *dgroup.Group

	mu     sync.Mutex
	active int
	// sem admits at most limit members at once; nil means no limit.
	sem *semaphore.Semaphore
}

// New creates an empty cohort whose members are named "name-<id>".
func New(ctx context.Context, name string) *Group {
	return &Group{
		name:  name,
		group: dgroup.NewGroup(ctx, dgroup.GroupConfig{}),
	}
}

// Go starts member id of the cohort in a new goroutine. It blocks until the
// new goroutine can be added without the number of active members exceeding
// the configured limit.
func (g *Group) Go(id int, fn Member) {
	g.mu.Lock()
	sem := g.sem
	g.mu.Unlock()
	if sem != nil {
		sem.Acquire()
	}
	g.mu.Lock()
	g.active++
	g.mu.Unlock()
	g.group.Go(fmt.Sprintf("%s-%d", g.name, id), func(ctx context.Context) error {
		defer g.done(sem)
		return fn(ctx, id)
	})
}

func (g *Group) done(sem *semaphore.Semaphore) {
	g.mu.Lock()
	g.active--
	g.mu.Unlock()
	if sem != nil {
		sem.Release()
	}
}

// Wait blocks until every member has returned, and returns their errors
// combined.
func (g *Group) Wait() error {
	return g.group.Wait()
}

// SetLimit limits the number of active members of the cohort to at most n. A
// negative value indicates no limit.
//
// The limit must not be modified while any members are active.
func (g *Group) SetLimit(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active != 0 {
		panic(fmt.Errorf("cohort: modify limit while %v members are still active", g.active))
	}
	if n < 0 {
		g.sem = nil
		return
	}
	g.sem = semaphore.New(n)
}

// Run starts n members of a cohort, all running fn, and waits for them.
func Run(ctx context.Context, name string, n int, fn Member) error {
	g := New(ctx, name)
	for id := range n {
		g.Go(id, fn)
	}
	return g.Wait()
}

// Repeat calls fn for every round in [0, rounds) in order, and stops at the
// first error or when ctx is done.
func Repeat(ctx context.Context, rounds int, fn func(round int) error) error {
	for round := range rounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(round); err != nil {
			return err
		}
	}
	return nil
}
