package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/solspace/solspace-backend/internal/domain"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new store instance backed by gorm.
// Despite the name it runs on any dialect OpenDB supports.
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize computes a batch size for bulk inserts that stays under
// PostgreSQL's 65535 bind parameter limit, keeping a fixed headroom for
// ON CONFLICT parameters and gorm bookkeeping.
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}

// IsSignatureProcessed checks if a transaction signature has already been credited
func (s *pgStore) IsSignatureProcessed(ctx context.Context, signature string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.LedgerEntry{}).
		Where("signature = ?", signature).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check signature: %w", err)
	}

	return count > 0, nil
}

// FilterUnprocessedSignatures returns the signatures not yet in the ledger, preserving input order
func (s *pgStore) FilterUnprocessedSignatures(ctx context.Context, signatures []string) ([]string, error) {
	if len(signatures) == 0 {
		return []string{}, nil
	}

	var processed []string
	err := s.db.WithContext(ctx).
		Model(&schema.LedgerEntry{}).
		Where("signature IN ?", signatures).
		Pluck("signature", &processed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to filter signatures: %w", err)
	}

	seen := make(map[string]struct{}, len(processed))
	for _, sig := range processed {
		seen[sig] = struct{}{}
	}

	unprocessed := make([]string, 0, len(signatures))
	for _, sig := range signatures {
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		unprocessed = append(unprocessed, sig)
	}

	return unprocessed, nil
}

// RecordDeposit inserts the ledger entry and credits the balance in a single transaction
func (s *pgStore) RecordDeposit(ctx context.Context, input RecordDepositInput) error {
	if input.Points < 0 {
		return domain.ErrNegativeDelta
	}

	transfers, err := json.Marshal(input.Transfers)
	if err != nil {
		return fmt.Errorf("failed to marshal transfers: %w", err)
	}

	var blockTime *time.Time
	if input.BlockTime != nil {
		t := input.BlockTime.UTC()
		blockTime = &t
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := schema.LedgerEntry{
			Signature:      input.Signature,
			Identity:       input.Identity,
			Lamports:       int64(input.Lamports), //nolint:gosec,G115 // total lamport supply fits in int64
			PointsCredited: input.Points,
			Transfers:      datatypes.JSON(transfers),
			BlockTime:      blockTime,
			ObservedAt:     input.ObservedAt.UTC(),
		}

		// The signature primary key is the idempotency guard: a concurrent or
		// repeated reconcile of the same signature inserts nothing.
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "signature"}},
			DoNothing: true,
		}).Create(&entry)
		if result.Error != nil {
			return fmt.Errorf("failed to insert ledger entry: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrConflict
		}

		if err := addPoints(tx, input.Identity, input.Points, input.ObservedAt); err != nil {
			return err
		}

		return nil
	})
	if errors.Is(err, domain.ErrConflict) {
		logger.DebugCtx(ctx, "Signature already credited", zap.String("signature", input.Signature))
		return fmt.Errorf("%w: %s", domain.ErrConflict, input.Signature)
	}

	return err
}

// GetLedgerEntry retrieves a ledger entry by signature
func (s *pgStore) GetLedgerEntry(ctx context.Context, signature string) (*schema.LedgerEntry, error) {
	var entry schema.LedgerEntry
	err := s.db.WithContext(ctx).Where("signature = ?", signature).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return &entry, nil
}

// AddPoints increments the balance of an identity
func (s *pgStore) AddPoints(ctx context.Context, identity string, delta int64) error {
	if delta < 0 {
		return domain.ErrNegativeDelta
	}

	return addPoints(s.db.WithContext(ctx), identity, delta, time.Now())
}

// addPoints provisions the balance row at zero and increments it in one statement
func addPoints(tx *gorm.DB, identity string, delta int64, now time.Time) error {
	now = now.UTC()
	balance := schema.Balance{
		Identity:  identity,
		Points:    delta,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "identity"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points":     gorm.Expr("balances.points + ?", delta),
			"updated_at": now,
		}),
	}).Create(&balance).Error
	if err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}

	return nil
}

// GetBalance returns the points of an identity
func (s *pgStore) GetBalance(ctx context.Context, identity string) (int64, error) {
	var balance schema.Balance
	err := s.db.WithContext(ctx).Where("identity = ?", identity).First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance.Points, nil
}

// GetBalances returns the points of several identities
func (s *pgStore) GetBalances(ctx context.Context, identities []string) (map[string]int64, error) {
	if len(identities) == 0 {
		return map[string]int64{}, nil
	}

	var balances []schema.Balance
	err := s.db.WithContext(ctx).
		Where("identity IN ?", identities).
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}

	result := make(map[string]int64, len(balances))
	for _, b := range balances {
		result[b.Identity] = b.Points
	}

	return result, nil
}

// AppendGameEvent logs an admitted event and credits its points in a single transaction
func (s *pgStore) AppendGameEvent(ctx context.Context, input AppendGameEventInput) (*schema.GameEvent, error) {
	if input.Points < 0 {
		return nil, domain.ErrNegativeDelta
	}

	event := schema.GameEvent{
		ID:             input.ID,
		Identity:       input.Identity,
		Profit:         input.Profit,
		Volume:         input.Volume,
		Rounds:         1,
		PointsCredited: input.Points,
		Season:         input.Season,
		OccurredAt:     input.OccurredAt.UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to insert game event: %w", err)
		}

		return addPoints(tx, input.Identity, input.Points, input.OccurredAt)
	})
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// AggregateGameEvents sums profit, volume and rounds per identity
func (s *pgStore) AggregateGameEvents(ctx context.Context, filter GameEventFilter) ([]GameEventAggregate, error) {
	query := s.db.WithContext(ctx).
		Model(&schema.GameEvent{}).
		Select("identity, SUM(profit) AS total_profit, SUM(volume) AS total_volume, SUM(rounds) AS rounds")

	if filter.Season != "" {
		query = query.Where("season = ?", filter.Season)
	}
	if filter.Since != nil {
		query = query.Where("occurred_at >= ?", filter.Since.UTC())
	}

	var aggregates []GameEventAggregate
	err := query.
		Group("identity").
		Order("identity ASC").
		Scan(&aggregates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate game events: %w", err)
	}

	return aggregates, nil
}

// DeleteGameEventsBefore evicts up to limit events older than cutoff, oldest first
func (s *pgStore) DeleteGameEventsBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	if limit <= 0 {
		return 0, nil
	}

	db := s.db.WithContext(ctx)
	oldest := db.Model(&schema.GameEvent{}).
		Select("id").
		Where("occurred_at < ?", cutoff.UTC()).
		Order("occurred_at ASC").
		Limit(limit)

	result := db.Where("id IN (?)", oldest).Delete(&schema.GameEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete game events: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// SaveSeasonResults replaces the frozen standings of a season
func (s *pgStore) SaveSeasonResults(ctx context.Context, season string, results []schema.SeasonResult) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("season = ?", season).Delete(&schema.SeasonResult{}).Error; err != nil {
			return fmt.Errorf("failed to clear season results: %w", err)
		}

		if len(results) == 0 {
			return nil
		}

		rows := make([]schema.SeasonResult, len(results))
		for i, r := range results {
			r.Season = season
			r.FinalizedAt = r.FinalizedAt.UTC()
			rows[i] = r
		}

		// 8 columns per season_results row
		batchSize := calculateSafeBatchSize(len(rows), 8)
		if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert season results: %w", err)
		}

		return nil
	})
}

// GetSeasonResults returns the frozen standings of a season ordered by rank
func (s *pgStore) GetSeasonResults(ctx context.Context, season string, limit int) ([]schema.SeasonResult, error) {
	query := s.db.WithContext(ctx).
		Where("season = ?", season).
		Order("rank ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var results []schema.SeasonResult
	if err := query.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get season results: %w", err)
	}

	return results, nil
}

// GetCursor retrieves a named cursor value
func (s *pgStore) GetCursor(ctx context.Context, name string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", name).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get cursor: %w", err)
	}

	return kv.Value, nil
}

// SetCursor stores a named cursor value
func (s *pgStore) SetCursor(ctx context.Context, name string, value string) error {
	kv := schema.KeyValueStore{
		Key:       name,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set cursor: %w", err)
	}

	return nil
}

// Ping checks the database connection
func (s *pgStore) Ping(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
