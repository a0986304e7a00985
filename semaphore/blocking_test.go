package semaphore_test

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notorious-go/turnstile/semaphore"
)

var BlockTimeout = 100 * time.Millisecond

func isBlocked(done <-chan struct{}) bool {
	select {
	case <-done:
		return false
	case <-time.After(BlockTimeout):
		return true
	}
}

// acquireAsync calls Acquire in a new goroutine and returns a channel that is
// closed once it returns.
func acquireAsync(s *semaphore.Semaphore) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Acquire()
	}()
	return done
}

func TestAcquire(t *testing.T) {
	t.Run("blocks at zero", func(t *testing.T) {
		var sem semaphore.Semaphore
		done := acquireAsync(&sem)
		assert.True(t, isBlocked(done), "Acquire() should block while the value is zero")

		sem.Release()
		assert.False(t, isBlocked(done), "Release() should unblock the waiter")
		assert.Equal(t, 0, sem.Value())
		assert.Equal(t, 0, sem.Waiting())
	})

	t.Run("does not block with units", func(t *testing.T) {
		sem := semaphore.New(3)
		done := acquireAsync(sem)
		assert.False(t, isBlocked(done), "Acquire() should not block while units are available")
		assert.Equal(t, 2, sem.Value())
	})
}

func TestReleaseN(t *testing.T) {
	t.Run("wakes at most n waiters", func(t *testing.T) {
		var sem semaphore.Semaphore
		const waiters = 5
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			woken int
		)
		for range waiters {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sem.Acquire()
				mu.Lock()
				woken++
				mu.Unlock()
			}()
		}
		require.Eventually(t, func() bool { return sem.Waiting() == waiters }, time.Second, time.Millisecond)

		sem.ReleaseN(3)
		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return woken == 3
		}, time.Second, time.Millisecond)
		assert.Equal(t, 0, sem.Value(), "handed-off units must not show up in the value")
		assert.Equal(t, 2, sem.Waiting())

		// Give the remaining goroutines a chance to (wrongly) proceed.
		time.Sleep(BlockTimeout)
		mu.Lock()
		assert.Equal(t, 3, woken)
		mu.Unlock()

		sem.ReleaseN(4)
		wg.Wait()
		assert.Equal(t, 2, sem.Value(), "units left over after waking everyone raise the value")
	})

	t.Run("zero is a no-op", func(t *testing.T) {
		sem := semaphore.New(1)
		sem.ReleaseN(0)
		assert.Equal(t, 1, sem.Value())
	})

	t.Run("negative panics", func(t *testing.T) {
		sem := semaphore.New(1)
		assert.Panics(t, func() { sem.ReleaseN(-1) })
	})
}

func TestNewNegativePanics(t *testing.T) {
	assert.Panics(t, func() { semaphore.New(-1) })
}

func TestTryAcquireCannotStealHandedOffUnit(t *testing.T) {
	var sem semaphore.Semaphore
	done := acquireAsync(&sem)
	require.Eventually(t, func() bool { return sem.Waiting() == 1 }, time.Second, time.Millisecond)

	sem.Release()
	// The unit already belongs to the blocked goroutine even if it has not been
	// scheduled yet.
	assert.False(t, sem.TryAcquire(), "TryAcquire() must not barge ahead of a woken waiter")
	<-done
}

func TestWakeOrder(t *testing.T) {
	var sem semaphore.Semaphore
	const waiters = 4
	order := make(chan int, waiters)
	for i := range waiters {
		go func() {
			sem.Acquire()
			order <- i
		}()
		// Make sure waiter i is queued before waiter i+1 arrives.
		require.Eventually(t, func() bool { return sem.Waiting() == i+1 }, time.Second, time.Millisecond)
	}
	for i := range waiters {
		sem.Release()
		assert.Equal(t, i, <-order)
	}
}

// For any sequence of a acquires and r releases where a <= v + r holds at every
// prefix, a single goroutine applying the sequence never blocks and the value
// always equals v + r - a.
func TestPrefixSequencesNeverBlock(t *testing.T) {
	for seed := range uint64(50) {
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		initial := rng.IntN(4)
		sem := semaphore.New(initial)

		done := make(chan struct{})
		go func() {
			defer close(done)
			value := initial
			for range 200 {
				if value > 0 && rng.IntN(2) == 0 {
					sem.Acquire()
					value--
				} else {
					n := rng.IntN(3)
					sem.ReleaseN(n)
					value += n
				}
				if got := sem.Value(); got != value || got < 0 {
					t.Errorf("seed %v: value %v, want %v", seed, got, value)
					return
				}
			}
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("seed %v: sequence blocked although every prefix was satisfiable", seed)
		}
	}
}
