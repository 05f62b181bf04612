package ratelimit_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/ratelimit"
)

var testPolicy = ratelimit.Policy{
	MinInterval: 800 * time.Millisecond,
	Window:      60 * time.Second,
	Cap:         3,
}

var testNow = time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "admitted", ratelimit.Admitted.String())
	assert.Equal(t, "too_fast", ratelimit.TooFast.String())
	assert.Equal(t, "rate_limited", ratelimit.RateLimited.String())
	assert.Equal(t, "unknown", ratelimit.Decision(42).String())
}

func TestMemoryLimiter_Pacing(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(testPolicy)
	ctx := context.Background()

	d, err := l.Admit(ctx, "alice", testNow)
	require.NoError(t, err)
	assert.Equal(t, ratelimit.Admitted, d)

	d, err = l.Admit(ctx, "alice", testNow.Add(799*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, ratelimit.TooFast, d)

	// the rejected event did not move lastEventAt
	d, err = l.Admit(ctx, "alice", testNow.Add(800*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, ratelimit.Admitted, d)

	// other identities are independent
	d, err = l.Admit(ctx, "bob", testNow.Add(801*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, ratelimit.Admitted, d)
}

func TestMemoryLimiter_WindowCap(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(testPolicy)
	ctx := context.Background()

	for i := 0; i < testPolicy.Cap; i++ {
		d, err := l.Admit(ctx, "alice", testNow.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		assert.Equal(t, ratelimit.Admitted, d, "event %d", i)
	}

	d, err := l.Admit(ctx, "alice", testNow.Add(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, ratelimit.RateLimited, d)

	// the window restarts once it elapsed
	d, err = l.Admit(ctx, "alice", testNow.Add(60*time.Second))
	require.NoError(t, err)
	assert.Equal(t, ratelimit.Admitted, d)
}

func TestMemoryLimiter_PacingCheckedBeforeCap(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(ratelimit.Policy{MinInterval: time.Second, Window: time.Minute, Cap: 1})
	ctx := context.Background()

	d, _ := l.Admit(ctx, "alice", testNow)
	assert.Equal(t, ratelimit.Admitted, d)

	d, _ = l.Admit(ctx, "alice", testNow.Add(100*time.Millisecond))
	assert.Equal(t, ratelimit.TooFast, d)

	d, _ = l.Admit(ctx, "alice", testNow.Add(2*time.Second))
	assert.Equal(t, ratelimit.RateLimited, d)
}

func TestMemoryLimiter_RejectedIdentityNotTracked(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(ratelimit.Policy{MinInterval: time.Second, Window: time.Minute, Cap: 0})

	d, err := l.Admit(context.Background(), "alice", testNow)
	require.NoError(t, err)
	assert.Equal(t, ratelimit.RateLimited, d)
	assert.Equal(t, 0, l.Len())
}

func TestMemoryLimiter_EvictIdle(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(testPolicy)
	ctx := context.Background()

	_, _ = l.Admit(ctx, "alice", testNow)
	_, _ = l.Admit(ctx, "bob", testNow.Add(5*time.Minute))
	require.Equal(t, 2, l.Len())

	// idleAfter below the window is raised to the window
	evicted := l.EvictIdle(testNow.Add(30*time.Second), time.Second)
	assert.Equal(t, 0, evicted)

	evicted = l.EvictIdle(testNow.Add(10*time.Minute), 10*time.Minute)
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, l.Len())
}

func TestMemoryLimiter_ConcurrentSameIdentity(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(ratelimit.Policy{MinInterval: time.Hour, Window: time.Hour, Cap: 100})
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, _ := l.Admit(ctx, "alice", testNow)
			if d == ratelimit.Admitted {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, admitted)
}

func TestMemoryLimiter_ManyIdentities(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(testPolicy)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		d, err := l.Admit(ctx, fmt.Sprintf("player-%d", i), testNow)
		require.NoError(t, err)
		assert.Equal(t, ratelimit.Admitted, d)
	}
	assert.Equal(t, 100, l.Len())
}
