// Package fifo provides a strictly fair waiting line in which a dispatcher
// serves waiting goroutines in the exact order they arrived.
//
// # Why This Package Exists
//
// A shared semaphore makes no promise about which of its waiters wakes next, so
// a server that simply releases a shared semaphore once per customer can serve
// customers out of order, or starve one indefinitely. The Queue in this package
// gives every waiting goroutine its own private, single-use semaphore. The
// dispatcher pops the oldest entry and releases exactly that entry's semaphore,
// which makes the service order the arrival order by construction.
//
// # Usage
//
// Waiting goroutines join the line and block until served:
//
//	q.Wait() // Join().Wait()
//
// The dispatcher loops over Serve, which blocks until somebody is waiting:
//
//	for {
//	    ticket := q.Serve()
//	    // ... serve the goroutine holding ticket ...
//	}
//
// Join and Wait are split so that a goroutine can do something between taking
// its place in line and blocking, and so that tests can fix the arrival order.
//
// # Balking
//
// A Queue with a limit (SetLimit) models a waiting room with a fixed number of
// chairs: TryJoin refuses arrivals while the room is full, and the refused
// goroutine "balks" instead of waiting.
package fifo
