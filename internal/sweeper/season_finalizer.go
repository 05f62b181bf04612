package sweeper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/leaderboard"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/metrics"
	"github.com/solspace/solspace-backend/internal/season"
	"github.com/solspace/solspace-backend/internal/store"
)

const (
	SEASON_FINALIZER = "season-finalizer"

	// SEASON_CURSOR_KEY stores the last season whose standings were frozen
	SEASON_CURSOR_KEY = "season_cursor:last_finalized"
)

// SeasonFinalizerConfig holds configuration for the season finalizer
type SeasonFinalizerConfig struct {
	Interval time.Duration // Time to sleep between checks for a newly closed season
}

type seasonFinalizer struct {
	*loop
	store       store.Store
	leaderboard leaderboard.Service
	clock       adapter.Clock
}

// NewSeasonFinalizer creates a sweeper that freezes the final standings of each season once it closes.
// Progress is kept in a cursor so every closed season is finalized once, in order.
func NewSeasonFinalizer(config SeasonFinalizerConfig, st store.Store, lb leaderboard.Service, clock adapter.Clock) Sweeper {
	s := &seasonFinalizer{
		store:       st,
		leaderboard: lb,
		clock:       clock,
	}
	s.loop = newLoop(SEASON_FINALIZER, config.Interval, clock, s.runSweepCycle)
	return s
}

func (s *seasonFinalizer) runSweepCycle(ctx context.Context) error {
	closed := season.Of(s.clock.Now()).Previous()

	cursor, err := s.store.GetCursor(ctx, SEASON_CURSOR_KEY)
	if err != nil {
		return fmt.Errorf("failed to get season cursor: %w", err)
	}

	// A fresh deployment starts with the most recently closed season
	next := closed
	if cursor != "" {
		last, err := season.Parse(cursor)
		if err != nil {
			return fmt.Errorf("corrupt season cursor: %w", err)
		}
		next = last.Next()
	}

	for ; next <= closed; next = next.Next() {
		if s.stopped(ctx) {
			return nil
		}

		n, err := s.leaderboard.Finalize(ctx, next)
		if err != nil {
			return fmt.Errorf("failed to finalize season %s: %w", next, err)
		}

		if err := s.store.SetCursor(ctx, SEASON_CURSOR_KEY, next.String()); err != nil {
			return fmt.Errorf("failed to advance season cursor: %w", err)
		}

		metrics.SweeperItems.WithLabelValues(SEASON_FINALIZER).Inc()
		logger.InfoCtx(ctx, "Season standings frozen", zap.String("season", next.String()), zap.Int("entries", n))
	}

	return nil
}
