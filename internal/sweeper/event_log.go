package sweeper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/metrics"
	"github.com/solspace/solspace-backend/internal/store"
)

const EVENT_LOG_SWEEPER = "event-log-sweeper"

// EventLogSweeperConfig holds configuration for the event log retention sweeper
type EventLogSweeperConfig struct {
	Interval  time.Duration // Time to sleep between sweep cycles
	BatchSize int           // Events deleted per statement
	Retention time.Duration // Events older than this are evicted
}

type eventLogSweeper struct {
	*loop
	config EventLogSweeperConfig
	store  store.Store
	clock  adapter.Clock
}

// NewEventLogSweeper creates a sweeper that evicts game events past the retention period, oldest first.
// Balances are never touched, only the log the leaderboard reads.
func NewEventLogSweeper(config EventLogSweeperConfig, st store.Store, clock adapter.Clock) Sweeper {
	if config.BatchSize <= 0 {
		config.BatchSize = 5000
	}

	s := &eventLogSweeper{
		config: config,
		store:  st,
		clock:  clock,
	}
	s.loop = newLoop(EVENT_LOG_SWEEPER, config.Interval, clock, s.runSweepCycle)
	return s
}

func (s *eventLogSweeper) runSweepCycle(ctx context.Context) error {
	cutoff := s.clock.Now().Add(-s.config.Retention)

	var total int64
	for !s.stopped(ctx) {
		deleted, err := s.store.DeleteGameEventsBefore(ctx, cutoff, s.config.BatchSize)
		if err != nil {
			return fmt.Errorf("failed to delete expired game events: %w", err)
		}

		total += deleted
		metrics.SweeperItems.WithLabelValues(EVENT_LOG_SWEEPER).Add(float64(deleted))

		if deleted < int64(s.config.BatchSize) {
			break
		}
	}

	if total > 0 {
		logger.InfoCtx(ctx, "Evicted expired game events", zap.Int64("count", total), zap.Time("cutoff", cutoff))
	}

	return nil
}
