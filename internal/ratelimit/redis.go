package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/logger"
)

// admitScript is the Redis version of rateState.admit, run atomically per identity key.
// Returns 0 admitted, 1 too fast, 2 rate limited.
var admitScript = redis.NewScript(`
local state = redis.call('HMGET', KEYS[1], 'last', 'start', 'count')
local now = tonumber(ARGV[1])
local min_interval = tonumber(ARGV[2])
local window = tonumber(ARGV[3])
local cap = tonumber(ARGV[4])

local last = tonumber(state[1])
local start = tonumber(state[2])
local count = tonumber(state[3]) or 0

if last and now - last < min_interval then
	return 1
end

if not start or now - start >= window then
	start = now
	count = 0
end

if count >= cap then
	return 2
end

redis.call('HSET', KEYS[1], 'last', now, 'start', start, 'count', count + 1)
redis.call('PEXPIRE', KEYS[1], math.max(window, min_interval))
return 0
`)

// RedisLimiter keeps rate state in Redis so several API replicas share it
type RedisLimiter struct {
	policy    Policy
	client    adapter.RedisClient
	keyPrefix string
	// fallback serves checks while Redis errors, nil to surface the error instead
	fallback Limiter
}

// NewRedisLimiter creates a Redis backed limiter
func NewRedisLimiter(policy Policy, client adapter.RedisClient, keyPrefix string, fallback Limiter) *RedisLimiter {
	return &RedisLimiter{
		policy:    policy,
		client:    client,
		keyPrefix: keyPrefix,
		fallback:  fallback,
	}
}

func (l *RedisLimiter) key(identity string) string {
	return fmt.Sprintf("%s:rate:%s", l.keyPrefix, identity)
}

// Admit checks and records an event for identity
func (l *RedisLimiter) Admit(ctx context.Context, identity string, now time.Time) (Decision, error) {
	result, err := l.client.RunScript(ctx, admitScript, []string{l.key(identity)},
		now.UnixMilli(),
		l.policy.MinInterval.Milliseconds(),
		l.policy.Window.Milliseconds(),
		l.policy.Cap,
	).Int64()
	if err != nil {
		if l.fallback != nil && ctx.Err() == nil {
			logger.WarnCtx(ctx, "Redis rate state unavailable, falling back to local", zap.Error(err))
			return l.fallback.Admit(ctx, identity, now)
		}
		return Admitted, fmt.Errorf("failed to check rate state: %w", err)
	}

	switch result {
	case 0:
		return Admitted, nil
	case 1:
		return TooFast, nil
	case 2:
		return RateLimited, nil
	default:
		return Admitted, fmt.Errorf("unexpected rate state result: %d", result)
	}
}
