package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/metrics"
)

const RATE_STATE_SWEEPER = "rate-state-sweeper"

// IdleEvictor drops in-memory state for keys that have been quiet for idleAfter
type IdleEvictor interface {
	EvictIdle(now time.Time, idleAfter time.Duration) int
}

// RateStateSweeperConfig holds configuration for the rate state sweeper
type RateStateSweeperConfig struct {
	Interval  time.Duration
	IdleAfter time.Duration
}

type rateStateSweeper struct {
	*loop
	config   RateStateSweeperConfig
	evictors []IdleEvictor
	clock    adapter.Clock
}

// NewRateStateSweeper creates a sweeper that bounds the memory of in-process limiters
func NewRateStateSweeper(config RateStateSweeperConfig, clock adapter.Clock, evictors ...IdleEvictor) Sweeper {
	s := &rateStateSweeper{
		config:   config,
		evictors: evictors,
		clock:    clock,
	}
	s.loop = newLoop(RATE_STATE_SWEEPER, config.Interval, clock, s.runSweepCycle)
	return s
}

func (s *rateStateSweeper) runSweepCycle(ctx context.Context) error {
	now := s.clock.Now()

	evicted := 0
	for _, e := range s.evictors {
		evicted += e.EvictIdle(now, s.config.IdleAfter)
	}

	if evicted > 0 {
		metrics.SweeperItems.WithLabelValues(RATE_STATE_SWEEPER).Add(float64(evicted))
		logger.DebugCtx(ctx, "Evicted idle rate state", zap.Int("count", evicted))
	}

	return nil
}
