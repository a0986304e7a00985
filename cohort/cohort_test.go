package cohort_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notorious-go/turnstile/barrier"
	"github.com/notorious-go/turnstile/cohort"
	"github.com/notorious-go/turnstile/probe"
)

func TestRunStartsEveryMember(t *testing.T) {
	ctx := dlog.NewTestContext(t, false)
	var (
		mu  sync.Mutex
		ids []int
	)
	err := cohort.Run(ctx, "member", 6, func(ctx context.Context, id int) error {
		mu.Lock()
		ids = append(ids, id)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	sort.Ints(ids)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, ids)
}

// All members run at the same time: a barrier of the cohort's size trips.
func TestMembersRunConcurrently(t *testing.T) {
	ctx := dlog.NewTestContext(t, false)
	b := barrier.New(4)
	err := cohort.Run(ctx, "member", 4, func(ctx context.Context, id int) error {
		b.Wait()
		return nil
	})
	require.NoError(t, err)
}

func TestRunReportsErrors(t *testing.T) {
	ctx := dlog.NewTestContext(t, false)
	err := cohort.Run(ctx, "member", 3, func(ctx context.Context, id int) error {
		if id == 1 {
			return errors.New("member one gave up")
		}
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "member one gave up")
}

func TestSetLimit(t *testing.T) {
	ctx := dlog.NewTestContext(t, false)
	g := cohort.New(ctx, "worker")
	g.SetLimit(2)
	active := probe.NewGauge("active", 2)
	for id := range 10 {
		g.Go(id, func(ctx context.Context, id int) error {
			active.Inc()
			defer active.Dec()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.NoError(t, active.Err())
	assert.Equal(t, int64(0), active.Load())
}

func TestSetLimitWhileActivePanics(t *testing.T) {
	ctx := dlog.NewTestContext(t, false)
	g := cohort.New(ctx, "worker")
	release := make(chan struct{})
	g.Go(0, func(ctx context.Context, id int) error {
		<-release
		return nil
	})
	assert.Panics(t, func() { g.SetLimit(1) })
	close(release)
	require.NoError(t, g.Wait())
	assert.NotPanics(t, func() { g.SetLimit(1) })
}

func TestRepeat(t *testing.T) {
	var rounds []int
	err := cohort.Repeat(context.Background(), 4, func(round int) error {
		rounds = append(rounds, round)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, rounds)

	stop := errors.New("stop")
	rounds = nil
	err = cohort.Repeat(context.Background(), 4, func(round int) error {
		rounds = append(rounds, round)
		if round == 1 {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, []int{0, 1}, rounds)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = cohort.Repeat(ctx, 4, func(int) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
