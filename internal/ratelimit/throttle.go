package ratelimit

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/logger"
)

// ThrottleConfig is the per-client request budget of the HTTP API
type ThrottleConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Throttle limits HTTP requests per client key
//
//go:generate mockgen -source=throttle.go -destination=../mocks/ratelimit_throttle.go -package=mocks -mock_names=Throttle=MockThrottle
type Throttle interface {
	// Allow reports whether the client may proceed, and if not, when to retry
	Allow(ctx context.Context, key string) (bool, time.Duration)
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// LocalThrottle is a token bucket per client held in memory
type LocalThrottle struct {
	config ThrottleConfig
	clock  adapter.Clock

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

// NewLocalThrottle creates an in-memory throttle
func NewLocalThrottle(config ThrottleConfig, clock adapter.Clock) *LocalThrottle {
	if config.Burst <= 0 {
		config.Burst = int(math.Max(1, math.Ceil(config.RequestsPerSecond)))
	}
	return &LocalThrottle{
		config:  config,
		clock:   clock,
		clients: make(map[string]*clientLimiter),
	}
}

// Allow takes one token from the client's bucket
func (t *LocalThrottle) Allow(_ context.Context, key string) (bool, time.Duration) {
	now := t.clock.Now()

	t.mu.Lock()
	c, ok := t.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(t.config.RequestsPerSecond), t.config.Burst)}
		t.clients[key] = c
	}
	t.mu.Unlock()

	c.lastSeen.Store(now.UnixNano())

	r := c.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// EvictIdle drops buckets of clients not seen for idleAfter
func (t *LocalThrottle) EvictIdle(now time.Time, idleAfter time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	evicted := 0
	for key, c := range t.clients {
		if now.Sub(time.Unix(0, c.lastSeen.Load())) >= idleAfter {
			delete(t.clients, key)
			evicted++
		}
	}
	return evicted
}

// RedisThrottle shares the per-client budget across replicas with a GCRA limiter in Redis
type RedisThrottle struct {
	limiter   adapter.RedisRateLimiter
	limit     redis_rate.Limit
	keyPrefix string
	fallback  Throttle
}

// NewRedisThrottle creates a distributed throttle; fallback serves requests while Redis errors
func NewRedisThrottle(config ThrottleConfig, limiter adapter.RedisRateLimiter, keyPrefix string, fallback Throttle) *RedisThrottle {
	rps := int(math.Max(1, math.Ceil(config.RequestsPerSecond)))
	burst := config.Burst
	if burst <= 0 {
		burst = rps
	}
	return &RedisThrottle{
		limiter:   limiter,
		limit:     redis_rate.Limit{Rate: rps, Burst: burst, Period: time.Second},
		keyPrefix: keyPrefix,
		fallback:  fallback,
	}
}

// Allow asks Redis for one token
func (t *RedisThrottle) Allow(ctx context.Context, key string) (bool, time.Duration) {
	res, err := t.limiter.Allow(ctx, t.keyPrefix+":throttle:"+key, t.limit)
	if err != nil {
		logger.WarnCtx(ctx, "Redis throttle unavailable, falling back to local", zap.Error(err))
		if t.fallback == nil {
			return true, 0
		}
		return t.fallback.Allow(ctx, key)
	}

	if res.Allowed == 0 {
		return false, res.RetryAfter
	}
	return true, 0
}
