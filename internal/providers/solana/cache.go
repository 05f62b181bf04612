package solana

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/domain"
	"github.com/solspace/solspace-backend/internal/logger"
)

// CacheConfig holds configuration for the signature list cache
type CacheConfig struct {
	// TTL is how long a fetched signature list is served without asking the node
	TTL time.Duration

	// StaleWindow is how long a list may still be served when a refresh fails
	StaleWindow time.Duration
}

type cachedSignatures struct {
	infos     []domain.SignatureInfo
	fetchedAt time.Time
}

// cachedClient wraps a Client with a TTL cache on the signature list.
// Transaction details pass straight through.
type cachedClient struct {
	client Client
	config CacheConfig
	clock  adapter.Clock

	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]*cachedSignatures
}

// NewCachedClient creates a Client that caches ListRecentSignatures per address and limit
func NewCachedClient(client Client, config CacheConfig, clock adapter.Clock) Client {
	return &cachedClient{
		client:  client,
		config:  config,
		clock:   clock,
		entries: make(map[string]*cachedSignatures),
	}
}

// ListRecentSignatures returns the signature list, using the cache if valid
func (c *cachedClient) ListRecentSignatures(ctx context.Context, address string, limit int) ([]domain.SignatureInfo, error) {
	key := fmt.Sprintf("%s:%d", address, limit)

	c.mu.RLock()
	cached := c.entries[key]
	c.mu.RUnlock()

	now := c.clock.Now()

	if cached != nil && now.Sub(cached.fetchedAt) < c.config.TTL {
		logger.DebugCtx(ctx, "Using cached signature list", zap.String("address", address), zap.Int("count", len(cached.infos)))
		return cached.infos, nil
	}

	// Concurrent misses for the same key share one RPC call
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.client.ListRecentSignatures(ctx, address, limit)
	})
	if err != nil {
		if cached != nil && now.Sub(cached.fetchedAt) < c.config.StaleWindow {
			logger.WarnCtx(ctx, "Using stale signature list", zap.String("address", address), zap.Error(err))
			return cached.infos, nil
		}
		return nil, fmt.Errorf("failed to list signatures and no valid cache available: %w", err)
	}

	infos := v.([]domain.SignatureInfo)

	c.mu.Lock()
	c.entries[key] = &cachedSignatures{
		infos:     infos,
		fetchedAt: now,
	}
	c.mu.Unlock()

	return infos, nil
}

// GetTransferDetail delegates to the wrapped client
func (c *cachedClient) GetTransferDetail(ctx context.Context, signature string) (*domain.TransferDetail, error) {
	return c.client.GetTransferDetail(ctx, signature)
}
