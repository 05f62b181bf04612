package store

import (
	"context"
	"time"

	"github.com/solspace/solspace-backend/internal/domain"
	"github.com/solspace/solspace-backend/internal/store/schema"
)

// RecordDepositInput represents the input for crediting one transaction signature
type RecordDepositInput struct {
	Signature  string
	Identity   string
	Lamports   uint64
	Points     int64
	Transfers  []domain.Transfer
	BlockTime  *time.Time
	ObservedAt time.Time
}

// AppendGameEventInput represents the input for logging an admitted game event
type AppendGameEventInput struct {
	ID         string
	Identity   string
	Profit     float64
	Volume     float64
	Points     int64
	Season     string
	OccurredAt time.Time
}

// GameEventFilter narrows the events considered by an aggregation
type GameEventFilter struct {
	// Season restricts to events tagged with this season when set
	Season string
	// Since restricts to events admitted at or after this time when set
	Since *time.Time
}

// GameEventAggregate is the per-identity rollup of game events
type GameEventAggregate struct {
	Identity    string  `gorm:"column:identity"`
	TotalProfit float64 `gorm:"column:total_profit"`
	TotalVolume float64 `gorm:"column:total_volume"`
	Rounds      int64   `gorm:"column:rounds"`
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// IsSignatureProcessed checks if a transaction signature has already been credited
	IsSignatureProcessed(ctx context.Context, signature string) (bool, error)
	// FilterUnprocessedSignatures returns the signatures not yet in the ledger, preserving input order
	FilterUnprocessedSignatures(ctx context.Context, signatures []string) ([]string, error)
	// RecordDeposit inserts the ledger entry and credits the balance in one transaction.
	// It returns domain.ErrConflict without crediting when the signature is already present.
	RecordDeposit(ctx context.Context, input RecordDepositInput) error
	// GetLedgerEntry retrieves a ledger entry by signature, nil when absent
	GetLedgerEntry(ctx context.Context, signature string) (*schema.LedgerEntry, error)

	// AddPoints increments the balance of an identity, provisioning it at zero first
	AddPoints(ctx context.Context, identity string, delta int64) error
	// GetBalance returns the points of an identity, zero when never credited
	GetBalance(ctx context.Context, identity string) (int64, error)
	// GetBalances returns the points of several identities; missing identities are omitted
	GetBalances(ctx context.Context, identities []string) (map[string]int64, error)

	// AppendGameEvent logs an admitted event and credits its points in one transaction
	AppendGameEvent(ctx context.Context, input AppendGameEventInput) (*schema.GameEvent, error)
	// AggregateGameEvents sums profit, volume and rounds per identity, ordered by identity
	AggregateGameEvents(ctx context.Context, filter GameEventFilter) ([]GameEventAggregate, error)
	// DeleteGameEventsBefore evicts up to limit events older than cutoff, oldest first
	DeleteGameEventsBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error)

	// SaveSeasonResults replaces the frozen standings of a season
	SaveSeasonResults(ctx context.Context, season string, results []schema.SeasonResult) error
	// GetSeasonResults returns the frozen standings of a season ordered by rank
	GetSeasonResults(ctx context.Context, season string, limit int) ([]schema.SeasonResult, error)

	// GetCursor retrieves a named cursor value, empty when unset
	GetCursor(ctx context.Context, name string) (string, error)
	// SetCursor stores a named cursor value
	SetCursor(ctx context.Context, name string, value string) error

	// Ping checks the database connection
	Ping(ctx context.Context) error
}
