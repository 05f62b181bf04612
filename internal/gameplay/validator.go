package gameplay

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/domain"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/messaging"
	"github.com/solspace/solspace-backend/internal/metrics"
	"github.com/solspace/solspace-backend/internal/ratelimit"
	"github.com/solspace/solspace-backend/internal/season"
	"github.com/solspace/solspace-backend/internal/store"
	"github.com/solspace/solspace-backend/internal/store/schema"
)

// MAX_REPORTED_VALUE bounds profit and volume so credited points fit an int64
const MAX_REPORTED_VALUE = 1e15

// Config holds the game event admission policy
type Config struct {
	// MaxMultiplier caps profit relative to volume
	MaxMultiplier float64
	// RequireWalletSignature rejects submissions without a valid wallet signature
	RequireWalletSignature bool
}

// SubmitInput is one self-reported game round
type SubmitInput struct {
	Identity string
	Profit   float64
	Volume   float64
	// Signature is the base58 wallet signature of SubmissionMessage, optional unless required
	Signature string
}

// Validator admits or rejects self-reported game events
//
//go:generate mockgen -source=validator.go -destination=../mocks/validator.go -package=mocks -mock_names=Validator=MockValidator
type Validator interface {
	// Submit validates a game round and, when admitted, logs it and credits floor(profit) points.
	// Rejections return a domain error and change no state.
	Submit(ctx context.Context, input SubmitInput) (*schema.GameEvent, error)
}

type validator struct {
	config    Config
	store     store.Store
	limiter   ratelimit.Limiter
	blocklist Blocklist
	verifier  SignatureVerifier
	publisher messaging.Publisher
	clock     adapter.Clock
}

// NewValidator creates a game event validator
func NewValidator(
	cfg Config,
	st store.Store,
	limiter ratelimit.Limiter,
	blocklist Blocklist,
	verifier SignatureVerifier,
	publisher messaging.Publisher,
	clock adapter.Clock,
) Validator {
	if blocklist == nil {
		blocklist = NewBlocklist(nil)
	}
	if verifier == nil {
		verifier = NewSignatureVerifier()
	}

	return &validator{
		config:    cfg,
		store:     st,
		limiter:   limiter,
		blocklist: blocklist,
		verifier:  verifier,
		publisher: publisher,
		clock:     clock,
	}
}

// Submit validates and records one game round
func (v *validator) Submit(ctx context.Context, input SubmitInput) (*schema.GameEvent, error) {
	if err := v.check(input); err != nil {
		v.reject(ctx, input.Identity, err)
		return nil, err
	}

	now := v.clock.Now()

	decision, err := v.limiter.Admit(ctx, input.Identity, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate state: %w", err)
	}
	switch decision {
	case ratelimit.Admitted:
	case ratelimit.TooFast:
		v.reject(ctx, input.Identity, domain.ErrTooFast)
		return nil, domain.ErrTooFast
	default:
		v.reject(ctx, input.Identity, domain.ErrRateLimited)
		return nil, domain.ErrRateLimited
	}

	seasonID := season.Of(now)
	points := int64(math.Floor(input.Profit))

	event, err := v.store.AppendGameEvent(ctx, store.AppendGameEventInput{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Identity:   input.Identity,
		Profit:     input.Profit,
		Volume:     input.Volume,
		Points:     points,
		Season:     seasonID.String(),
		OccurredAt: now,
	})
	if err != nil {
		metrics.GameEvents.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to append game event: %w", err)
	}

	metrics.GameEvents.WithLabelValues(ratelimit.Admitted.String()).Inc()
	metrics.GamePoints.Add(float64(points))

	logger.DebugCtx(ctx, "Game event admitted",
		zap.String("identity", input.Identity),
		zap.String("id", event.ID),
		zap.Int64("points", points),
	)

	if err := v.publisher.PublishEvent(ctx, &domain.PointsEvent{
		Type:      domain.PointsEventGameEventAdmitted,
		Identity:  input.Identity,
		Points:    points,
		Reference: event.ID,
		Season:    seasonID.String(),
		Timestamp: now,
	}); err != nil {
		logger.ErrorCtx(ctx, errors.Join(errors.New("failed to publish points event"), err),
			zap.String("reference", event.ID))
	}

	return event, nil
}

// check runs the stateless checks in rejection order
func (v *validator) check(input SubmitInput) error {
	if !domain.Identity(input.Identity).Valid() {
		return fmt.Errorf("%w: identity is required", domain.ErrMalformedInput)
	}
	if !domain.IsFinite(input.Profit) || !domain.IsFinite(input.Volume) {
		return fmt.Errorf("%w: profit and volume must be finite numbers", domain.ErrMalformedInput)
	}

	if input.Profit < 0 || input.Volume < 0 {
		return domain.ErrInvalidValue
	}
	if input.Profit > MAX_REPORTED_VALUE || input.Volume > MAX_REPORTED_VALUE {
		return fmt.Errorf("%w: value exceeds %g", domain.ErrInvalidValue, MAX_REPORTED_VALUE)
	}

	if input.Volume == 0 && input.Profit > 0 {
		return domain.ErrInvalidRound
	}

	if input.Profit > input.Volume*v.config.MaxMultiplier {
		return domain.ErrImplausibleResult
	}

	if v.config.RequireWalletSignature || input.Signature != "" {
		msg := SubmissionMessage(input.Identity, input.Profit, input.Volume)
		if !v.verifier.Verify(input.Identity, msg, input.Signature) {
			return domain.ErrInvalidSignature
		}
	}

	if v.blocklist.IsBlocked(input.Identity) {
		return domain.ErrIdentityBlocked
	}

	return nil
}

func (v *validator) reject(ctx context.Context, identity string, err error) {
	metrics.GameEvents.WithLabelValues(rejectionReason(err)).Inc()
	logger.DebugCtx(ctx, "Game event rejected", zap.String("identity", identity), zap.Error(err))
}

// rejectionReason maps a rejection to its metric label
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, domain.ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, domain.ErrInvalidRound):
		return "invalid_round"
	case errors.Is(err, domain.ErrImplausibleResult):
		return "implausible_result"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, domain.ErrIdentityBlocked):
		return "identity_blocked"
	case errors.Is(err, domain.ErrTooFast):
		return ratelimit.TooFast.String()
	case errors.Is(err, domain.ErrRateLimited):
		return ratelimit.RateLimited.String()
	default:
		return "error"
	}
}
