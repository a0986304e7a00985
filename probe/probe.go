// Package probe provides invariant gauges for observing synchronization
// protocols from the outside.
//
// A Gauge counts the goroutines inside a region (a critical section, a pool, a
// room) and records every moment at which that count broke a limit. Tests and
// the demo command wrap the region under test with Inc and Dec and then inspect
// Peak and Err:
//
//	seats := probe.NewGauge("seats", capacity)
//	p.Enter()
//	seats.Inc()
//	// ... eat ...
//	seats.Dec()
//	p.Leave()
//	// later
//	if err := seats.Err(); err != nil { ... }
//
// A Gauge never blocks and never synchronizes the goroutines it observes beyond
// a few atomic operations, so it perturbs the interleavings under test as little
// as possible.
package probe

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// maxRecorded bounds the number of violation errors kept by a Gauge. Every
// violation is still counted.
const maxRecorded = 8

// Gauge counts the goroutines inside a region and records limit violations.
//
// Use NewGauge to create a Gauge.
type Gauge struct {
	name  string
	limit int64

	current    atomic.Int64
	peak       atomic.Int64
	violations atomic.Int64

	mu   sync.Mutex
	errs *multierror.Error
}

// NewGauge creates a gauge for a region that admits at most limit goroutines
// at once. A negative limit disables the limit check.
func NewGauge(name string, limit int) *Gauge {
	return &Gauge{name: name, limit: int64(limit)}
}

// String reports the gauge's name, current value and peak.
func (g *Gauge) String() string {
	return fmt.Sprintf("%v(current=%v, peak=%v)", g.name, g.current.Load(), g.peak.Load())
}

// Inc records a goroutine entering the region and returns the new count.
func (g *Gauge) Inc() int64 {
	n := g.current.Inc()
	for {
		peak := g.peak.Load()
		if n <= peak || g.peak.CAS(peak, n) {
			break
		}
	}
	if g.limit >= 0 && n > g.limit {
		g.record(errors.Errorf("%v: %v goroutines inside, limit is %v", g.name, n, g.limit))
	}
	return n
}

// Dec records a goroutine leaving the region and returns the new count.
func (g *Gauge) Dec() int64 {
	n := g.current.Dec()
	if n < 0 {
		g.record(errors.Errorf("%v: more exits than entries (%v)", g.name, n))
	}
	return n
}

// Check records a violation described by format and args unless ok is true.
// It reports ok, so it can be used inline.
func (g *Gauge) Check(ok bool, format string, args ...interface{}) bool {
	if !ok {
		g.record(errors.Wrap(fmt.Errorf(format, args...), g.name))
	}
	return ok
}

func (g *Gauge) record(err error) {
	if g.violations.Inc() > maxRecorded {
		return
	}
	g.mu.Lock()
	g.errs = multierror.Append(g.errs, err)
	g.mu.Unlock()
}

// Load returns the number of goroutines inside at the moment of the call.
func (g *Gauge) Load() int64 {
	return g.current.Load()
}

// Peak returns the highest count ever observed.
func (g *Gauge) Peak() int64 {
	return g.peak.Load()
}

// Violations returns the number of violations observed so far.
func (g *Gauge) Violations() int64 {
	return g.violations.Load()
}

// Err returns the recorded violations, or nil if there were none. At most a
// handful of violations are kept; Violations has the full count.
func (g *Gauge) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errs.ErrorOrNil()
}
