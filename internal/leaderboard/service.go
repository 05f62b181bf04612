package leaderboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/domain"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/metrics"
	"github.com/solspace/solspace-backend/internal/season"
	"github.com/solspace/solspace-backend/internal/store"
	"github.com/solspace/solspace-backend/internal/store/schema"
)

const (
	VIEW_CURRENT = "current"
	VIEW_FINAL   = "final"
)

// Board is a ranked view of one season
type Board struct {
	View    string        `json:"view"`
	Season  season.ID     `json:"season"`
	Window  domain.Window `json:"window,omitempty"`
	Since   *time.Time    `json:"since,omitempty"`
	Frozen  bool          `json:"frozen"`
	Entries []Entry       `json:"entries"`
}

// Service computes leaderboards from the game event log
//
//go:generate mockgen -source=service.go -destination=../mocks/leaderboard_service.go -package=mocks -mock_names=Service=MockLeaderboardService
type Service interface {
	// Current ranks the running season over the trailing window, top 50
	Current(ctx context.Context, window domain.Window) (*Board, error)

	// Final ranks a whole season, top 100, from its frozen standings when present
	Final(ctx context.Context, id season.ID) (*Board, error)

	// Finalize freezes the standings of a closed season and returns the number of entries saved
	Finalize(ctx context.Context, id season.ID) (int, error)
}

type service struct {
	store store.Store
	clock adapter.Clock
}

// NewService creates a leaderboard service
func NewService(st store.Store, clock adapter.Clock) Service {
	return &service{store: st, clock: clock}
}

// Current ranks events of the current season that fall inside the window
func (s *service) Current(ctx context.Context, window domain.Window) (*Board, error) {
	defer observe(VIEW_CURRENT, time.Now())

	now := s.clock.Now()
	current := season.Of(now)
	since := now.Add(-window.Duration())

	aggs, err := s.store.AggregateGameEvents(ctx, store.GameEventFilter{
		Season: current.String(),
		Since:  &since,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate game events: %w", err)
	}

	entries, err := s.withBalances(ctx, Rank(aggs, domain.CURRENT_LEADERBOARD_LIMIT))
	if err != nil {
		return nil, err
	}

	return &Board{
		View:    VIEW_CURRENT,
		Season:  current,
		Window:  window,
		Since:   &since,
		Entries: entries,
	}, nil
}

// Final serves a season's frozen standings, computing them when the season was never finalized
func (s *service) Final(ctx context.Context, id season.ID) (*Board, error) {
	defer observe(VIEW_FINAL, time.Now())

	results, err := s.store.GetSeasonResults(ctx, id.String(), domain.FINAL_LEADERBOARD_LIMIT)
	if err != nil {
		return nil, fmt.Errorf("failed to get season results: %w", err)
	}

	board := &Board{View: VIEW_FINAL, Season: id}

	var entries []Entry
	if len(results) > 0 {
		board.Frozen = true
		entries = entriesFromResults(results)
	} else {
		entries, err = s.rankSeason(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	board.Entries, err = s.withBalances(ctx, entries)
	if err != nil {
		return nil, err
	}

	return board, nil
}

// Finalize freezes the final standings of a season that has ended
func (s *service) Finalize(ctx context.Context, id season.ID) (int, error) {
	now := s.clock.Now()
	if now.Before(id.End()) {
		return 0, fmt.Errorf("%w: season %s has not ended", domain.ErrInvalidSeason, id)
	}

	entries, err := s.rankSeason(ctx, id)
	if err != nil {
		return 0, err
	}

	results := make([]schema.SeasonResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, schema.SeasonResult{
			Season:      id.String(),
			Rank:        e.Rank,
			Identity:    e.Identity,
			TotalProfit: e.TotalProfit,
			TotalVolume: e.TotalVolume,
			Rounds:      e.Rounds,
			Score:       e.Score,
			FinalizedAt: now,
		})
	}

	if err := s.store.SaveSeasonResults(ctx, id.String(), results); err != nil {
		return 0, fmt.Errorf("failed to save season results: %w", err)
	}

	logger.InfoCtx(ctx, "Season finalized", zap.String("season", id.String()), zap.Int("entries", len(results)))

	return len(results), nil
}

func (s *service) rankSeason(ctx context.Context, id season.ID) ([]Entry, error) {
	aggs, err := s.store.AggregateGameEvents(ctx, store.GameEventFilter{Season: id.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate game events: %w", err)
	}
	return Rank(aggs, domain.FINAL_LEADERBOARD_LIMIT), nil
}

// withBalances attaches each identity's current points balance
func (s *service) withBalances(ctx context.Context, entries []Entry) ([]Entry, error) {
	if len(entries) == 0 {
		return entries, nil
	}

	identities := make([]string, len(entries))
	for i, e := range entries {
		identities[i] = e.Identity
	}

	balances, err := s.store.GetBalances(ctx, identities)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}

	for i := range entries {
		entries[i].Balance = balances[entries[i].Identity]
	}

	return entries, nil
}

func entriesFromResults(results []schema.SeasonResult) []Entry {
	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = Entry{
			Rank:        r.Rank,
			Identity:    r.Identity,
			TotalProfit: r.TotalProfit,
			TotalVolume: r.TotalVolume,
			Rounds:      r.Rounds,
			Score:       r.Score,
		}
	}
	return entries
}

func observe(view string, start time.Time) {
	metrics.LeaderboardDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
}
