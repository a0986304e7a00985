// Package demo holds the workloads run by the turnstile command. Each workload
// puts a protocol under load with a cohort of goroutines, watches its invariants
// with probe gauges, and logs what it saw through dlog.
package demo

import (
	"context"
	"sort"
	"time"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/notorious-go/turnstile/cohort"
	"github.com/notorious-go/turnstile/probe"
)

// A Workload runs one protocol to completion and returns every invariant
// violation it observed.
type Workload func(ctx context.Context, cfg *Config) error

var workloads = map[string]Workload{
	"barrier":         Barrier,
	"philosophers":    Philosophers,
	"sushi":           Sushi,
	"barbershop":      Barbershop,
	"readers-writers": ReadersWriters,
	"mutex":           Mutex,
}

// Names returns the names of all workloads in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(workloads))
	for name := range workloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run runs the named workload. It fails if the configuration is invalid, if
// the workload reports a violation, or if it is still running after
// cfg.Duration, which usually means it deadlocked.
func Run(ctx context.Context, name string, cfg *Config) error {
	w, ok := workloads[name]
	if !ok {
		return errors.Errorf("unknown workload %q", name)
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, name)
	}
	ctx = dgroup.WithGoroutineName(ctx, "/"+name)

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- w(ctx, cfg)
	}()
	select {
	case err := <-done:
		if err != nil {
			return errors.Wrap(err, name)
		}
		dlog.Infof(ctx, "%s: %d members, %d rounds, no violations in %v",
			name, cfg.Members, cfg.Rounds, time.Since(start).Round(time.Millisecond))
		return nil
	case <-time.After(cfg.Duration):
		return errors.Errorf("%s: still running after %v", name, cfg.Duration)
	}
}

// customers runs cfg.Members customers, at most cfg.Crowd of them at once.
func customers(ctx context.Context, cfg *Config, fn cohort.Member) error {
	g := cohort.New(ctx, "customer")
	g.SetLimit(cfg.Crowd)
	for id := range cfg.Members {
		g.Go(id, fn)
	}
	return g.Wait()
}

// verify combines the errors of a workload's cohorts with the violations
// recorded by its gauges.
func verify(ctx context.Context, err error, gauges ...*probe.Gauge) error {
	var result *multierror.Error
	if err != nil {
		result = multierror.Append(result, err)
	}
	for _, g := range gauges {
		dlog.Debugf(ctx, "%v", g)
		if err := g.Err(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
