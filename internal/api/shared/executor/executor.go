package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/api/shared/dto"
	apierrors "github.com/solspace/solspace-backend/internal/api/shared/errors"
	"github.com/solspace/solspace-backend/internal/domain"
	"github.com/solspace/solspace-backend/internal/gameplay"
	"github.com/solspace/solspace-backend/internal/leaderboard"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/reconciler"
	"github.com/solspace/solspace-backend/internal/season"
	"github.com/solspace/solspace-backend/internal/store"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// ReconcileDeposits credits new deposits from identity to the collection address
	ReconcileDeposits(ctx context.Context, identity string) (*dto.ReconcileDepositResponse, error)

	// SubmitGameEvent validates and records one game round
	SubmitGameEvent(ctx context.Context, req dto.SubmitGameEventRequest) (*dto.GameEventResponse, error)

	// GetCurrentLeaderboard ranks the running season over a trailing window ("48h" or "7d")
	GetCurrentLeaderboard(ctx context.Context, window string) (*leaderboard.Board, error)

	// GetSeasonLeaderboard returns the final standings of a season
	GetSeasonLeaderboard(ctx context.Context, seasonID string) (*leaderboard.Board, error)

	// FinalizeSeason freezes the standings of a closed season
	FinalizeSeason(ctx context.Context, seasonID string) (*dto.FinalizeSeasonResponse, error)

	// GetBalance returns the points balance of an identity, zero when unknown
	GetBalance(ctx context.Context, identity string) (*dto.BalanceResponse, error)

	// GetCurrentSeason returns the running season and its bounds
	GetCurrentSeason(ctx context.Context) (*dto.SeasonResponse, error)

	// Ping checks the database connection
	Ping(ctx context.Context) error
}

type executor struct {
	store       store.Store
	reconciler  reconciler.Reconciler
	validator   gameplay.Validator
	leaderboard leaderboard.Service
	seasons     *season.Clock
}

// NewExecutor creates the executor shared by the REST API and pointsctl.
// validator may be nil for callers that never submit game events.
func NewExecutor(
	st store.Store,
	rec reconciler.Reconciler,
	validator gameplay.Validator,
	lb leaderboard.Service,
	clock adapter.Clock,
) Executor {
	return &executor{
		store:       st,
		reconciler:  rec,
		validator:   validator,
		leaderboard: lb,
		seasons:     season.NewClock(clock),
	}
}

func (e *executor) ReconcileDeposits(ctx context.Context, identity string) (*dto.ReconcileDepositResponse, error) {
	identity = strings.TrimSpace(identity)
	if !domain.Identity(identity).Valid() {
		return nil, apierrors.NewValidationError("identity is required and must be at most 128 bytes")
	}
	if e.reconciler == nil {
		return nil, apierrors.NewInternalError("Deposit reconciliation is not configured")
	}

	result, err := e.reconciler.Reconcile(ctx, identity)
	if err != nil {
		return nil, e.fail(ctx, err, "Failed to reconcile deposits")
	}

	balance, err := e.store.GetBalance(ctx, identity)
	if err != nil {
		return nil, e.fail(ctx, err, "Failed to get balance")
	}

	return &dto.ReconcileDepositResponse{
		Identity:       identity,
		CreditedPoints: result.CreditedPoints,
		Credits:        result.Credits,
		Balance:        balance,
	}, nil
}

func (e *executor) SubmitGameEvent(ctx context.Context, req dto.SubmitGameEventRequest) (*dto.GameEventResponse, error) {
	if e.validator == nil {
		return nil, apierrors.NewInternalError("Game event submission is not configured")
	}

	profit, err := domain.ParseNumber(req.Profit)
	if err != nil {
		return nil, e.fail(ctx, fmt.Errorf("profit: %w", err), "Invalid profit")
	}
	volume, err := domain.ParseNumber(req.Volume)
	if err != nil {
		return nil, e.fail(ctx, fmt.Errorf("volume: %w", err), "Invalid volume")
	}

	event, err := e.validator.Submit(ctx, gameplay.SubmitInput{
		Identity:  req.Identity,
		Profit:    profit,
		Volume:    volume,
		Signature: req.Signature,
	})
	if err != nil {
		return nil, e.fail(ctx, err, "Failed to submit game event")
	}

	balance, err := e.store.GetBalance(ctx, event.Identity)
	if err != nil {
		return nil, e.fail(ctx, err, "Failed to get balance")
	}

	return dto.MapGameEventToDTO(event, balance), nil
}

func (e *executor) GetCurrentLeaderboard(ctx context.Context, window string) (*leaderboard.Board, error) {
	board, err := e.leaderboard.Current(ctx, domain.ParseWindow(window))
	if err != nil {
		return nil, e.fail(ctx, err, "Failed to compute leaderboard")
	}
	return board, nil
}

func (e *executor) GetSeasonLeaderboard(ctx context.Context, seasonID string) (*leaderboard.Board, error) {
	id, err := season.Parse(seasonID)
	if err != nil {
		return nil, e.fail(ctx, err, "Invalid season")
	}

	board, err := e.leaderboard.Final(ctx, id)
	if err != nil {
		return nil, e.fail(ctx, err, "Failed to compute leaderboard")
	}
	return board, nil
}

func (e *executor) FinalizeSeason(ctx context.Context, seasonID string) (*dto.FinalizeSeasonResponse, error) {
	id, err := season.Parse(seasonID)
	if err != nil {
		return nil, e.fail(ctx, err, "Invalid season")
	}

	n, err := e.leaderboard.Finalize(ctx, id)
	if err != nil {
		return nil, e.fail(ctx, err, "Failed to finalize season")
	}

	return &dto.FinalizeSeasonResponse{Season: id.String(), Entries: n}, nil
}

func (e *executor) GetBalance(ctx context.Context, identity string) (*dto.BalanceResponse, error) {
	if !domain.Identity(identity).Valid() {
		return nil, apierrors.NewValidationError("identity must be non-empty and at most 128 bytes")
	}

	points, err := e.store.GetBalance(ctx, identity)
	if err != nil {
		return nil, e.fail(ctx, err, "Failed to get balance")
	}

	return &dto.BalanceResponse{Identity: identity, Points: points}, nil
}

func (e *executor) GetCurrentSeason(_ context.Context) (*dto.SeasonResponse, error) {
	id := e.seasons.Current()
	return &dto.SeasonResponse{
		Season: id.String(),
		Start:  id.Start(),
		End:    id.End(),
	}, nil
}

func (e *executor) Ping(ctx context.Context) error {
	return e.store.Ping(ctx)
}

// fail maps err to an APIError, logging anything that is not a client rejection
func (e *executor) fail(ctx context.Context, err error, message string) error {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	apiErr = apierrors.FromDomainError(err)
	if apiErr.StatusCode() < 500 {
		return apiErr
	}

	logger.ErrorCtx(ctx, fmt.Errorf("%s: %w", message, err))

	if apiErr.Code == apierrors.ErrCodeInternalError {
		return apierrors.NewInternalError(message)
	}
	return apiErr
}
