// Package semaphore provides the counting semaphore that every other primitive
// in this module is built from.
//
// # Why This Package Exists
//
// A buffered channel is the usual Go semaphore, but it has a fixed capacity and
// releases exactly one token per receive. The protocols in this module need a
// semaphore whose value starts anywhere (including zero, for signalling and
// turnstiles), grows without bound, and can be released by n units at once so
// that a whole cohort passes a preloaded turnstile together.
//
// # Semantics
//
// The value of a Semaphore never goes negative. Acquire blocks while the value
// is zero. ReleaseN(n) adds n units and wakes at most n blocked callers.
//
// Units are handed directly to blocked callers: when Release finds a waiter, the
// unit goes to that waiter without ever becoming visible in the value. As a
// consequence a released unit cannot be stolen by a goroutine that calls
// TryAcquire (or Acquire) after the release, and Value is only positive while
// nobody is blocked.
//
// Waiters are woken in the order they blocked. That ordering is an
// implementation property, not a promise the protocols rely on: code that needs
// strict arrival order must use package fifo.
//
// # The Lock Interface
//
// Lock is the Acquire/Release shape shared by Semaphore and by the exclusion
// primitives built on top of it. Protocols such as the Lightswitch and the
// Footman accept a Lock rather than a concrete type, which is how a binary
// semaphore (New(1)) ends up standing in for a mutex.
//
// # Anti-Patterns
//
// Value and Waiting exist for logging and tests. Never branch on them before
// acquiring: the value may change between the check and the act.
//
//	if sem.Value() > 0 { // DON'T
//	    sem.Acquire()
//	}
//
// Use TryAcquire when a non-blocking attempt is really what you want.
package semaphore
