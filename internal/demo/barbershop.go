package demo

import (
	"context"

	"github.com/datawire/dlib/dlog"
	"go.uber.org/atomic"

	"github.com/notorious-go/turnstile/cohort"
	"github.com/notorious-go/turnstile/fifo"
	"github.com/notorious-go/turnstile/probe"
	"github.com/notorious-go/turnstile/semaphore"
)

// Barbershop runs a shop with one barber and cfg.Capacity waiting chairs.
// cfg.Members customers visit cfg.Rounds times each; a customer who finds every
// chair taken leaves. Customers are served in the order they sat down.
func Barbershop(ctx context.Context, cfg *Config) error {
	line := fifo.New()
	line.SetLimit(cfg.Capacity)

	var (
		closing  atomic.Bool
		served   atomic.Int64
		balked   atomic.Int64
		seated   = semaphore.New(0)
		finished = semaphore.New(0)
		chair    = probe.NewGauge("barber-chair", 1)
		order    = probe.NewGauge("order", -1)
	)

	barber := cohort.New(ctx, "barber")
	barber.Go(0, func(ctx context.Context, _ int) error {
		var last uint64
		for {
			t := line.Serve()
			if closing.Load() {
				return nil
			}
			order.Check(t.ID() > last, "served %v after Ticket(%v)", t, last)
			last = t.ID()

			seated.Acquire()
			chair.Inc()
			dlog.Tracef(ctx, "cutting hair of %v", t)
			chair.Dec()
			finished.Release()
		}
	})

	err := customers(ctx, cfg, func(ctx context.Context, id int) error {
		return cohort.Repeat(ctx, cfg.Rounds, func(round int) error {
			t, ok := line.TryJoin()
			if !ok {
				balked.Inc()
				dlog.Tracef(ctx, "balked at a full shop")
				return nil
			}
			t.Wait()
			seated.Release()
			finished.Acquire()
			served.Inc()
			return nil
		})
	})

	// Every customer has been served by now, so the next ticket tells the
	// barber to go home.
	closing.Store(true)
	line.Join()
	if werr := barber.Wait(); err == nil {
		err = werr
	}

	total := probe.NewGauge("visits", -1)
	want := int64(cfg.Members * cfg.Rounds)
	total.Check(served.Load()+balked.Load() == want,
		"%v served and %v balked, want %v visits", served.Load(), balked.Load(), want)
	dlog.Infof(ctx, "%v customers served, %v balked", served.Load(), balked.Load())
	return verify(ctx, err, chair, order, total)
}
