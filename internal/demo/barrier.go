package demo

import (
	"context"

	"github.com/datawire/dlib/dlog"
	"go.uber.org/atomic"

	"github.com/notorious-go/turnstile/barrier"
	"github.com/notorious-go/turnstile/cohort"
	"github.com/notorious-go/turnstile/probe"
)

// Barrier runs cfg.Members goroutines through cfg.Rounds rounds of a reusable
// barrier and checks that nobody leaves a round before everybody has arrived.
func Barrier(ctx context.Context, cfg *Config) error {
	b := barrier.New(cfg.Members)
	arrivals := make([]atomic.Int64, cfg.Rounds)
	lockstep := probe.NewGauge("lockstep", -1)

	err := cohort.Run(ctx, "member", cfg.Members, func(ctx context.Context, id int) error {
		return cohort.Repeat(ctx, cfg.Rounds, func(round int) error {
			arrivals[round].Inc()
			b.Wait()
			n := arrivals[round].Load()
			lockstep.Check(n == int64(cfg.Members), "round %v: member %v left after %v arrivals", round, id, n)
			dlog.Tracef(ctx, "round %v passed %v", round, b)
			return nil
		})
	})
	return verify(ctx, err, lockstep)
}
