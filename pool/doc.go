// Package pool implements a capacity-bounded admission pool that keeps its
// occupancy bound even while goroutines join and leave concurrently.
//
// # The Sushi Bar
//
// A bar has a fixed number of seats. A customer arriving while a seat is free
// sits down at once. A customer arriving after the bar has filled up must wait
// until the whole party has left, and then the waiting customers are seated
// together, as many as there are seats.
//
// # Why the Obvious Solution Is Wrong
//
// The obvious solution has the last customer out wake the waiters and clear the
// "must wait" flag, after which the woken customers re-acquire the bar's lock to
// seat themselves. Between the wake-up and the re-acquisition, brand new
// arrivals see the cleared flag and take seats too, and the bar ends up holding
// more customers than it has seats. The failure is not about fairness: the
// occupancy invariant itself is broken.
//
// # Strategies
//
// Both strategies close that window, and both keep occupancy at or below the
// capacity at every instant.
//
// HandOff ("I'll do it for you"): the last customer out, still holding the lock,
// decides how many waiters to seat and updates the occupancy and the waiting
// count on their behalf before releasing them. The woken customers are already
// seated and never touch the lock.
//
// PassTheBaton: a releasing goroutine does not unlock the lock when it wakes a
// waiter; it hands the lock over. The woken customer seats itself while holding
// the lock it was handed, and then either passes it on to the next waiter or
// unlocks it. Exactly one goroutine holds coordination rights at any time, so
// new arrivals can never slip in ahead of the promoted waiters.
package pool
