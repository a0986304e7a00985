// Command turnstile puts the synchronization protocols of this module under
// load and reports any invariant it sees broken.
//
// Every setting can come from the environment (TURNSTILE_MEMBERS,
// TURNSTILE_ROUNDS, TURNSTILE_CAPACITY, TURNSTILE_CROWD, TURNSTILE_DURATION,
// TURNSTILE_STRATEGY, TURNSTILE_LOG_LEVEL) and be overridden on the command
// line:
//
//	turnstile sushi --members 40 --capacity 5 --strategy hand-off
package main

import (
	"context"
	"os"

	"github.com/datawire/dlib/dgroup"
	"github.com/datawire/dlib/dlog"
	"github.com/sethvargo/go-envconfig"

	"github.com/notorious-go/turnstile/internal/demo"
	"github.com/notorious-go/turnstile/internal/log"
)

const processName = "turnstile"

func main() {
	ctx := context.Background()
	cfg, err := demo.LoadConfig(ctx, envconfig.OsLookuper())
	if err != nil {
		ctx = log.MakeBaseLogger(ctx, "")
		dlog.Errorf(ctx, "quit: %v", err)
		os.Exit(1)
	}
	ctx = log.MakeBaseLogger(ctx, cfg.LogLevel)
	ctx = dgroup.WithGoroutineName(ctx, "/"+processName)

	if err := newRootCommand(cfg).ExecuteContext(ctx); err != nil {
		dlog.Errorf(ctx, "quit: %v", err)
		os.Exit(1)
	}
}
