package demo

import (
	"context"
	"runtime"

	"github.com/datawire/dlib/dlog"

	"github.com/notorious-go/turnstile/cohort"
	"github.com/notorious-go/turnstile/probe"
	"github.com/notorious-go/turnstile/rwlock"
)

// ReadersWriters runs cfg.Members goroutines against a readers-writers lock;
// every third one writes, the rest read. A writer must always be alone.
func ReadersWriters(ctx context.Context, cfg *Config) error {
	strategy := rwlock.NoStarve
	if cfg.Strategy != "" {
		var err error
		if strategy, err = rwlock.ParseStrategy(cfg.Strategy); err != nil {
			return err
		}
	}

	l := rwlock.New(strategy)
	readers := probe.NewGauge("readers", -1)
	writers := probe.NewGauge("writers", 1)

	dlog.Infof(ctx, "locking with %v strategy", strategy)
	err := cohort.Run(ctx, "client", cfg.Members, func(ctx context.Context, id int) error {
		return cohort.Repeat(ctx, cfg.Rounds, func(round int) error {
			if id%3 == 0 {
				l.Lock()
				writers.Inc()
				writers.Check(readers.Load() == 0, "writer %v inside with %v readers", id, readers.Load())
				runtime.Gosched()
				writers.Dec()
				l.Unlock()
				return nil
			}
			l.RLock()
			readers.Inc()
			readers.Check(writers.Load() == 0, "reader %v inside with a writer", id)
			runtime.Gosched()
			readers.Dec()
			l.RUnlock()
			return nil
		})
	})
	dlog.Debugf(ctx, "at most %v readers at once", readers.Peak())
	return verify(ctx, err, readers, writers)
}
