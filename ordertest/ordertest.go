// Package ordertest provides utilities for testing the ordering guarantees of
// synchronization protocols. Goroutines record tokens as they pass the points
// of interest, and the recorded order is then checked against declared
// happens-after relationships.
//
// # Overview
//
// A [Recorder] collects tokens from any number of goroutines in the order they
// are recorded. An [Event] declares that its token must appear after the tokens
// it happens after. [Check] verifies a list of events against a recording.
//
// A [Chain] forces goroutines to perform some step in a fixed order, which is
// how tests line up arrivals deterministically before checking the order in
// which a protocol serves them.
//
// # Example Usage
//
//	var rec ordertest.Recorder
//	// in each goroutine of round r
//	rec.Record(fmt.Sprintf("arrive:%v:%v", r, id))
//	b.Wait()
//	rec.Record(fmt.Sprintf("pass:%v:%v", r, id))
//	// afterwards
//	ordertest.Check(t, rec.Tokens(), events)
package ordertest

import (
	"slices"
	"sync"
	"testing"
)

// Recorder collects tokens in the order they are recorded. It is safe for
// concurrent use. The zero Recorder is ready to use.
type Recorder struct {
	mu     sync.Mutex
	tokens []string
}

// Record appends token to the recording.
func (r *Recorder) Record(token string) {
	r.mu.Lock()
	r.tokens = append(r.tokens, token)
	r.mu.Unlock()
}

// Tokens returns a copy of the tokens recorded so far.
func (r *Recorder) Tokens() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.tokens)
}

// Event represents a point in a concurrent test whose position in the recorded
// order is constrained.
//
// Each event has a token that identifies it and a list of tokens of other
// events that must have been recorded before it.
type Event struct {
	// Token is a unique identifier for this event, used to find it in the
	// recording.
	Token string

	// HappensAfter lists the tokens of events that must be recorded before this
	// event. The test framework verifies that all of them appear before Token in
	// the actual order.
	HappensAfter []string
}

// Check verifies every event against the recorded tokens.
func Check(t testing.TB, tokens []string, events []Event) {
	t.Helper()
	for _, event := range events {
		event.Check(t, tokens)
	}
}

// Check verifies that all of this event's dependencies were recorded before
// this event in the given order.
//
// This method will verify that:
//   - This event's token appears in the recorded list of tokens.
//   - All dependencies listed in HappensAfter appear before Token in the list.
//
// Any violations of the dependency constraints will be reported as test errors.
func (e Event) Check(t testing.TB, tokens []string) {
	t.Helper()

	eventIndex, ok := e.index(tokens)
	if !ok {
		t.Errorf("event %v was not recorded", e.Token)
		return
	}

	for _, dep := range e.HappensAfter {
		if !slices.Contains(tokens[:eventIndex], dep) {
			t.Errorf("event %v: dependency %v was not recorded before it", e.Token, dep)
		}
	}
}

// Finds the index of this event's token in the given slice of tokens.
func (e Event) index(tokens []string) (index int, found bool) {
	index = slices.Index(tokens, e.Token)
	return index, index >= 0
}
