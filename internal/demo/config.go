package demo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
)

// Config sizes a workload. Every field can be set from the environment; the
// command line overrides the environment.
type Config struct {
	// Members is the number of goroutines taking part: barrier members, diners,
	// customers, readers and writers.
	Members int `env:"TURNSTILE_MEMBERS,default=5"`
	// Rounds is the number of times each member goes through the protocol.
	Rounds int `env:"TURNSTILE_ROUNDS,default=20"`
	// Capacity is the number of sushi bar seats, or the number of waiting
	// chairs in the barbershop. The barber's own chair comes on top, so a shop
	// holds up to Capacity+1 customers.
	Capacity int `env:"TURNSTILE_CAPACITY,default=3"`
	// Crowd is how many customers of the sushi bar or the barbershop are out at
	// the same time; the others stay home until one returns. Negative means all
	// of them.
	Crowd int `env:"TURNSTILE_CROWD,default=-1"`
	// Duration is how long a workload may run before it is reported as stuck.
	Duration time.Duration `env:"TURNSTILE_DURATION,default=30s"`
	// Strategy names the variant of the protocol; empty selects the workload's
	// default.
	Strategy string `env:"TURNSTILE_STRATEGY,default="`
	LogLevel string `env:"TURNSTILE_LOG_LEVEL,default=info"`
}

// LoadConfig reads the configuration through lookuper, typically
// envconfig.OsLookuper().
func LoadConfig(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &cfg, lookuper); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return &cfg, nil
}

// Validate reports the first setting no workload can run with.
func (c *Config) Validate() error {
	switch {
	case c.Members < 1:
		return errors.Errorf("members must be positive, got %v", c.Members)
	case c.Rounds < 0:
		return errors.Errorf("rounds must not be negative, got %v", c.Rounds)
	case c.Capacity < 1:
		return errors.Errorf("capacity must be positive, got %v", c.Capacity)
	case c.Crowd == 0:
		return errors.New("crowd must not be zero")
	case c.Duration <= 0:
		return errors.Errorf("duration must be positive, got %v", c.Duration)
	}
	return nil
}
