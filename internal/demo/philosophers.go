package demo

import (
	"context"
	"fmt"
	"runtime"

	"github.com/datawire/dlib/dlog"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/notorious-go/turnstile/cohort"
	"github.com/notorious-go/turnstile/dining"
	"github.com/notorious-go/turnstile/probe"
)

// Philosophers seats cfg.Members diners at a table and lets each of them eat
// cfg.Rounds times. Every fork is watched by a gauge that allows one holder.
func Philosophers(ctx context.Context, cfg *Config) error {
	strategy := dining.Footman
	if cfg.Strategy != "" {
		var err error
		if strategy, err = dining.ParseStrategy(cfg.Strategy); err != nil {
			return err
		}
	}
	if cfg.Members < 2 {
		return errors.Errorf("a table needs at least two diners, got %v", cfg.Members)
	}

	table := dining.NewTable(cfg.Members, strategy)
	forks := make([]*probe.Gauge, cfg.Members)
	for i := range forks {
		forks[i] = probe.NewGauge(fmt.Sprintf("fork-%d", i), 1)
	}
	var meals atomic.Int64

	dlog.Infof(ctx, "seating %v diners, %v strategy", cfg.Members, strategy)
	err := cohort.Run(ctx, "diner", cfg.Members, func(ctx context.Context, seat int) error {
		left, right := forks[seat], forks[(seat+1)%cfg.Members]
		return cohort.Repeat(ctx, cfg.Rounds, func(round int) error {
			table.Dine(seat, func() {
				left.Inc()
				right.Inc()
				meals.Inc()
				runtime.Gosched()
				right.Dec()
				left.Dec()
			})
			dlog.Tracef(ctx, "ate meal %v", round)
			return nil
		})
	})

	want := int64(cfg.Members * cfg.Rounds)
	check := probe.NewGauge("meals", -1)
	check.Check(meals.Load() == want, "%v meals eaten, want %v", meals.Load(), want)
	return verify(ctx, err, append(forks, check)...)
}
