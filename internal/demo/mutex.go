package demo

import (
	"context"
	"runtime"

	"github.com/notorious-go/turnstile/cohort"
	"github.com/notorious-go/turnstile/nostarve"
	"github.com/notorious-go/turnstile/probe"
)

// Mutex has cfg.Members goroutines increment a shared counter cfg.Rounds times
// each under a no-starve mutex.
func Mutex(ctx context.Context, cfg *Config) error {
	m := nostarve.New()
	inside := probe.NewGauge("critical-section", 1)
	counter := 0

	err := cohort.Run(ctx, "worker", cfg.Members, func(ctx context.Context, id int) error {
		return cohort.Repeat(ctx, cfg.Rounds, func(round int) error {
			m.Lock()
			inside.Inc()
			counter++
			runtime.Gosched()
			inside.Dec()
			m.Unlock()
			return nil
		})
	})

	want := cfg.Members * cfg.Rounds
	inside.Check(counter == want, "counter is %v, want %v", counter, want)
	return verify(ctx, err, inside)
}
