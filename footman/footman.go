// Package footman prevents circular-wait deadlock among goroutines that each
// need several shared resources at once, by limiting how many of them may be
// acquiring resources at the same time.
//
// # The Problem
//
// Five philosophers sit at a round table with a fork between each pair of
// neighbours. Each needs both adjacent forks to eat. If every philosopher picks
// up one fork and then waits for the other, nobody ever eats: every fork is
// held by somebody waiting for the next one around the table.
//
// # The Footman
//
// A footman admits at most k philosophers to the table, with k strictly less
// than the number of philosophers. With at most k of n contenders holding or
// waiting for forks, at least one fork of the ring is free and the cycle of
// mutual waiting cannot close:
//
//	f := footman.New(n - 1)
//	f.Acquire(forks[right], forks[left])
//	// ... eat ...
//	f.Release(forks[right], forks[left])
//
// The footman bounds deadlock only. Who gets a contested resource next is up to
// the resources themselves: Semaphore wakes its waiters oldest first, but a
// strict fairness guarantee requires resources built on package fifo.
package footman

import (
	"fmt"

	"github.com/notorious-go/turnstile/semaphore"
)

// Footman admits a bounded number of goroutines into a resource-acquisition
// section.
//
// Use New to create a Footman; the zero value is not usable.
type Footman struct {
	slots int
	sem   *semaphore.Semaphore
}

// New creates a footman admitting at most k goroutines at once. To rule out
// deadlock, k must be strictly less than the number of goroutines that can
// contend for the guarded resources in a cycle. New panics if k is less than
// one.
func New(k int) *Footman {
	if k < 1 {
		panic(fmt.Errorf("footman: slots must be positive, got %v", k))
	}
	return &Footman{slots: k, sem: semaphore.New(k)}
}

// Enter blocks until the footman admits the calling goroutine.
func (f *Footman) Enter() {
	f.sem.Acquire()
}

// Leave returns the calling goroutine's slot to the footman.
func (f *Footman) Leave() {
	f.sem.Release()
}

// Acquire enters the section, then acquires each resource in the given order.
func (f *Footman) Acquire(resources ...semaphore.Lock) {
	f.Enter()
	for _, r := range resources {
		r.Acquire()
	}
}

// Release releases each resource in the given order, then leaves the section.
func (f *Footman) Release(resources ...semaphore.Lock) {
	for _, r := range resources {
		r.Release()
	}
	f.Leave()
}

// Slots returns the number of goroutines the footman admits at once.
func (f *Footman) Slots() int {
	return f.slots
}

// String reports the number of admitted goroutines and the number of slots.
func (f *Footman) String() string {
	return fmt.Sprintf("Footman(%v/%v)", f.slots-f.sem.Value(), f.slots)
}
