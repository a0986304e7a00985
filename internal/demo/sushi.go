package demo

import (
	"context"
	"runtime"

	"github.com/datawire/dlib/dlog"

	"github.com/notorious-go/turnstile/cohort"
	"github.com/notorious-go/turnstile/pool"
	"github.com/notorious-go/turnstile/probe"
)

// Sushi sends cfg.Members customers to a sushi bar with cfg.Capacity seats,
// cfg.Rounds times each. Customers who find the bar full wait until the whole
// party has left.
func Sushi(ctx context.Context, cfg *Config) error {
	strategy := pool.PassTheBaton
	if cfg.Strategy != "" {
		var err error
		if strategy, err = pool.ParseStrategy(cfg.Strategy); err != nil {
			return err
		}
	}

	bar := pool.New(cfg.Capacity, strategy)
	seats := probe.NewGauge("seats", cfg.Capacity)

	dlog.Infof(ctx, "opening a bar with %v seats, %v strategy", cfg.Capacity, strategy)
	err := customers(ctx, cfg, func(ctx context.Context, id int) error {
		return cohort.Repeat(ctx, cfg.Rounds, func(round int) error {
			bar.Enter()
			seats.Inc()
			dlog.Tracef(ctx, "eating at %v", bar)
			runtime.Gosched()
			seats.Dec()
			bar.Leave()
			return nil
		})
	})
	dlog.Debugf(ctx, "closing %v, peak occupancy %v", bar, seats.Peak())
	return verify(ctx, err, seats)
}
