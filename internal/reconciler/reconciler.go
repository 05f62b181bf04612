package reconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/domain"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/messaging"
	"github.com/solspace/solspace-backend/internal/metrics"
	"github.com/solspace/solspace-backend/internal/providers/solana"
	"github.com/solspace/solspace-backend/internal/store"
)

const (
	skipFailed         = "failed"
	skipFetchError     = "fetch_error"
	skipUnavailable    = "unavailable"
	skipNoMatch        = "no_match"
	skipBelowThreshold = "below_threshold"
	skipAlreadyCredit  = "already_credited"
)

// Config holds the deposit crediting parameters
type Config struct {
	// CollectionAddress is the system-owned address deposits are sent to
	CollectionAddress string
	// SignatureLimit is how many recent signatures are inspected per call
	SignatureLimit int
	// MinAmountSOL is the smallest per-signature total that earns points, as a decimal string
	MinAmountSOL string
	// PointsPerSOL is the conversion rate
	PointsPerSOL int64
	// FetchConcurrency bounds parallel transaction detail requests
	FetchConcurrency int
}

// Credit is one signature credited by a reconciliation
type Credit struct {
	Signature string     `json:"signature"`
	Lamports  uint64     `json:"lamports"`
	Points    int64      `json:"points"`
	BlockTime *time.Time `json:"block_time,omitempty"`
}

// Result is the outcome of a reconciliation
type Result struct {
	CreditedPoints int64    `json:"credited_points"`
	Credits        []Credit `json:"credits"`
}

// Reconciler credits an identity for its unprocessed deposits to the collection address
//
//go:generate mockgen -source=reconciler.go -destination=../mocks/reconciler.go -package=mocks -mock_names=Reconciler=MockReconciler
type Reconciler interface {
	// Reconcile scans recent collection activity and credits new deposits from identity.
	// Concurrent calls for the same identity share one scan.
	Reconcile(ctx context.Context, identity string) (*Result, error)

	// Close stops the detail fetch pool
	Close()
}

type fetchResult struct {
	signature string
	detail    *domain.TransferDetail
	err       error
}

type reconciler struct {
	config       Config
	minLamports  uint64
	pointsPerSOL decimal.Decimal

	client    solana.Client
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock

	pool  pond.ResultPool[*fetchResult]
	group singleflight.Group
}

var lamportsPerSOL = decimal.NewFromInt(int64(domain.LAMPORTS_PER_SOL))

// NewReconciler creates a deposit reconciler
func NewReconciler(cfg Config, client solana.Client, st store.Store, publisher messaging.Publisher, clock adapter.Clock) (Reconciler, error) {
	if !domain.IsSolanaAddress(cfg.CollectionAddress) {
		return nil, fmt.Errorf("invalid collection address: %q", cfg.CollectionAddress)
	}
	if cfg.PointsPerSOL <= 0 {
		return nil, fmt.Errorf("points per SOL must be positive")
	}

	minSOL, err := decimal.NewFromString(cfg.MinAmountSOL)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum amount %q: %w", cfg.MinAmountSOL, err)
	}
	if minSOL.IsNegative() {
		return nil, fmt.Errorf("minimum amount must not be negative")
	}

	cfg.SignatureLimit = min(max(cfg.SignatureLimit, 1), solana.MAX_SIGNATURE_LIMIT)
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 4
	}

	return &reconciler{
		config:       cfg,
		minLamports:  uint64(minSOL.Mul(lamportsPerSOL).Ceil().IntPart()), //nolint:gosec,G115 // checked non-negative above
		pointsPerSOL: decimal.NewFromInt(cfg.PointsPerSOL),
		client:       client,
		store:        st,
		publisher:    publisher,
		clock:        clock,
		pool:         pond.NewResultPool[*fetchResult](cfg.FetchConcurrency),
	}, nil
}

// Reconcile credits new deposits from identity
func (r *reconciler) Reconcile(ctx context.Context, identity string) (*Result, error) {
	if !domain.Identity(identity).Valid() {
		return nil, domain.ErrMalformedInput
	}

	// The shared scan must not die with the first caller's request
	scanCtx := context.WithoutCancel(ctx)

	v, err, shared := r.group.Do(identity, func() (interface{}, error) {
		return r.reconcile(scanCtx, identity)
	})
	if shared {
		logger.DebugCtx(ctx, "Joined in-flight reconciliation", zap.String("identity", identity))
	}

	result, _ := v.(*Result)
	return result, err
}

func (r *reconciler) reconcile(ctx context.Context, identity string) (*Result, error) {
	result := &Result{Credits: []Credit{}}

	infos, err := r.client.ListRecentSignatures(ctx, r.config.CollectionAddress, r.config.SignatureLimit)
	if err != nil {
		metrics.ReconcileRequests.WithLabelValues("source_unavailable").Inc()
		logger.ErrorCtx(ctx, fmt.Errorf("failed to list collection signatures: %w", err), zap.String("identity", identity))
		return result, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	candidates := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Failed {
			metrics.SignatureSkips.WithLabelValues(skipFailed).Inc()
			continue
		}
		candidates = append(candidates, info.Signature)
	}

	unprocessed, err := r.store.FilterUnprocessedSignatures(ctx, candidates)
	if err != nil {
		metrics.ReconcileRequests.WithLabelValues("error").Inc()
		return result, fmt.Errorf("failed to filter processed signatures: %w", err)
	}

	logger.DebugCtx(ctx, "Reconciling deposits",
		zap.String("identity", identity),
		zap.Int("listed", len(infos)),
		zap.Int("unprocessed", len(unprocessed)),
	)

	details, err := r.fetchDetails(ctx, unprocessed)
	if err != nil {
		metrics.ReconcileRequests.WithLabelValues("error").Inc()
		return result, err
	}

	if err := allFetchesFailed(details); err != nil {
		metrics.ReconcileRequests.WithLabelValues("source_unavailable").Inc()
		logger.ErrorCtx(ctx, fmt.Errorf("every transaction detail fetch failed: %w", err),
			zap.String("identity", identity), zap.Int("signatures", len(details)))
		return result, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	for _, fr := range details {
		credit, err := r.creditSignature(ctx, identity, fr)
		if err != nil {
			metrics.ReconcileRequests.WithLabelValues("error").Inc()
			return result, err
		}
		if credit == nil {
			continue
		}

		result.Credits = append(result.Credits, *credit)
		result.CreditedPoints += credit.Points
	}

	metrics.ReconcileRequests.WithLabelValues("ok").Inc()
	if result.CreditedPoints > 0 {
		logger.InfoCtx(ctx, "Deposits credited",
			zap.String("identity", identity),
			zap.Int("signatures", len(result.Credits)),
			zap.Int64("points", result.CreditedPoints),
		)
	}

	return result, nil
}

// fetchDetails loads transaction details on the bounded pool, keeping input order
func (r *reconciler) fetchDetails(ctx context.Context, signatures []string) ([]*fetchResult, error) {
	if len(signatures) == 0 {
		return nil, nil
	}

	group := r.pool.NewGroup()
	for _, sig := range signatures {
		group.Submit(func() *fetchResult {
			detail, err := r.client.GetTransferDetail(ctx, sig)
			return &fetchResult{signature: sig, detail: detail, err: err}
		})
	}

	results, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction details: %w", err)
	}

	return results, nil
}

// allFetchesFailed returns the last fetch error when there was work and none of it reached the node
func allFetchesFailed(details []*fetchResult) error {
	var last error
	for _, fr := range details {
		if fr.err == nil {
			return nil
		}
		last = fr.err
	}
	return last
}

// creditSignature records one signature when it carries a qualifying deposit from identity.
// It returns nil without error when the signature earns nothing.
func (r *reconciler) creditSignature(ctx context.Context, identity string, fr *fetchResult) (*Credit, error) {
	sigField := zap.String("signature", fr.signature)

	switch {
	case fr.err != nil:
		metrics.SignatureSkips.WithLabelValues(skipFetchError).Inc()
		logger.WarnCtx(ctx, "Skipping signature, detail fetch failed", sigField, zap.Error(fr.err))
		return nil, nil
	case fr.detail == nil:
		metrics.SignatureSkips.WithLabelValues(skipUnavailable).Inc()
		logger.DebugCtx(ctx, "Skipping signature, detail unavailable", sigField)
		return nil, nil
	case !fr.detail.Success:
		metrics.SignatureSkips.WithLabelValues(skipFailed).Inc()
		return nil, nil
	}

	var lamports uint64
	var transfers []domain.Transfer
	for _, t := range fr.detail.Transfers {
		if t.Source == identity && t.Destination == r.config.CollectionAddress {
			lamports += t.Lamports
			transfers = append(transfers, t)
		}
	}

	if lamports == 0 {
		metrics.SignatureSkips.WithLabelValues(skipNoMatch).Inc()
		return nil, nil
	}

	points := r.pointsFor(lamports)
	if lamports < r.minLamports || points <= 0 {
		metrics.SignatureSkips.WithLabelValues(skipBelowThreshold).Inc()
		logger.DebugCtx(ctx, "Skipping deposit below threshold", sigField, zap.Uint64("lamports", lamports))
		return nil, nil
	}

	now := r.clock.Now()
	err := r.store.RecordDeposit(ctx, store.RecordDepositInput{
		Signature:  fr.signature,
		Identity:   identity,
		Lamports:   lamports,
		Points:     points,
		Transfers:  transfers,
		BlockTime:  fr.detail.BlockTime,
		ObservedAt: now,
	})
	if errors.Is(err, domain.ErrConflict) {
		// lost the race to an overlapping reconciliation; the winner credited it
		metrics.SignatureSkips.WithLabelValues(skipAlreadyCredit).Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record deposit %s: %w", fr.signature, err)
	}

	metrics.DepositsCredited.Inc()
	metrics.DepositPoints.Add(float64(points))

	r.publish(ctx, &domain.PointsEvent{
		Type:      domain.PointsEventDepositCredited,
		Identity:  identity,
		Points:    points,
		Reference: fr.signature,
		Timestamp: now,
	})

	return &Credit{
		Signature: fr.signature,
		Lamports:  lamports,
		Points:    points,
		BlockTime: fr.detail.BlockTime,
	}, nil
}

// pointsFor converts lamports to whole points, rounding down
func (r *reconciler) pointsFor(lamports uint64) int64 {
	amount := decimal.NewFromInt(int64(lamports)) //nolint:gosec,G115 // total lamport supply fits in int64
	q, _ := amount.Mul(r.pointsPerSOL).QuoRem(lamportsPerSOL, 0)
	return q.IntPart()
}

// publish emits an event after commit; a broker failure never undoes the credit
func (r *reconciler) publish(ctx context.Context, event *domain.PointsEvent) {
	if err := r.publisher.PublishEvent(ctx, event); err != nil {
		logger.ErrorCtx(ctx, errors.Join(errors.New("failed to publish points event"), err),
			zap.String("reference", event.Reference))
	}
}

// Close stops the detail fetch pool
func (r *reconciler) Close() {
	r.pool.StopAndWait()
}
