package solana_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solspace/solspace-backend/internal/domain"
	"github.com/solspace/solspace-backend/internal/mocks"
	"github.com/solspace/solspace-backend/internal/providers/solana"
)

type testCacheMocks struct {
	ctrl   *gomock.Controller
	client *mocks.MockSolanaClient
	clock  *mocks.MockClock
	cached solana.Client
}

func setupCache(t *testing.T) *testCacheMocks {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockSolanaClient(ctrl)
	clock := mocks.NewMockClock(ctrl)

	return &testCacheMocks{
		ctrl:   ctrl,
		client: client,
		clock:  clock,
		cached: solana.NewCachedClient(client, solana.CacheConfig{
			TTL:         3 * time.Second,
			StaleWindow: 30 * time.Second,
		}, clock),
	}
}

var testSignatures = []domain.SignatureInfo{
	{Signature: "sig-1", Slot: 10},
	{Signature: "sig-2", Slot: 9},
}

func TestCachedClient_ServesWithinTTL(t *testing.T) {
	tm := setupCache(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.client.EXPECT().ListRecentSignatures(ctx, testCollection, 25).Return(testSignatures, nil)

	infos, err := tm.cached.ListRecentSignatures(ctx, testCollection, 25)
	require.NoError(t, err)
	assert.Equal(t, testSignatures, infos)

	// second call within TTL does not hit the node
	tm.clock.EXPECT().Now().Return(now.Add(2 * time.Second))

	infos, err = tm.cached.ListRecentSignatures(ctx, testCollection, 25)
	require.NoError(t, err)
	assert.Equal(t, testSignatures, infos)
}

func TestCachedClient_RefreshesAfterTTL(t *testing.T) {
	tm := setupCache(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)

	refreshed := []domain.SignatureInfo{{Signature: "sig-3", Slot: 11}}

	gomock.InOrder(
		tm.clock.EXPECT().Now().Return(now),
		tm.client.EXPECT().ListRecentSignatures(ctx, testCollection, 25).Return(testSignatures, nil),
		tm.clock.EXPECT().Now().Return(now.Add(5*time.Second)),
		tm.client.EXPECT().ListRecentSignatures(ctx, testCollection, 25).Return(refreshed, nil),
	)

	_, err := tm.cached.ListRecentSignatures(ctx, testCollection, 25)
	require.NoError(t, err)

	infos, err := tm.cached.ListRecentSignatures(ctx, testCollection, 25)
	require.NoError(t, err)
	assert.Equal(t, refreshed, infos)
}

func TestCachedClient_StaleFallback(t *testing.T) {
	tm := setupCache(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)
	rpcErr := errors.New("rpc down")

	gomock.InOrder(
		tm.clock.EXPECT().Now().Return(now),
		tm.client.EXPECT().ListRecentSignatures(ctx, testCollection, 25).Return(testSignatures, nil),
		tm.clock.EXPECT().Now().Return(now.Add(10*time.Second)),
		tm.client.EXPECT().ListRecentSignatures(ctx, testCollection, 25).Return(nil, rpcErr),
		tm.clock.EXPECT().Now().Return(now.Add(time.Minute)),
		tm.client.EXPECT().ListRecentSignatures(ctx, testCollection, 25).Return(nil, rpcErr),
	)

	_, err := tm.cached.ListRecentSignatures(ctx, testCollection, 25)
	require.NoError(t, err)

	// inside the stale window the old list is served
	infos, err := tm.cached.ListRecentSignatures(ctx, testCollection, 25)
	require.NoError(t, err)
	assert.Equal(t, testSignatures, infos)

	// past the stale window the failure surfaces
	_, err = tm.cached.ListRecentSignatures(ctx, testCollection, 25)
	require.Error(t, err)
	assert.ErrorIs(t, err, rpcErr)
}

func TestCachedClient_NoCacheOnFirstFailure(t *testing.T) {
	tm := setupCache(t)
	ctx := context.Background()
	rpcErr := errors.New("rpc down")

	tm.clock.EXPECT().Now().Return(time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC))
	tm.client.EXPECT().ListRecentSignatures(ctx, testCollection, 25).Return(nil, rpcErr)

	_, err := tm.cached.ListRecentSignatures(ctx, testCollection, 25)
	assert.ErrorIs(t, err, rpcErr)
}

func TestCachedClient_KeysByLimit(t *testing.T) {
	tm := setupCache(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now).Times(2)
	tm.client.EXPECT().ListRecentSignatures(ctx, testCollection, 25).Return(testSignatures, nil)
	tm.client.EXPECT().ListRecentSignatures(ctx, testCollection, 1).Return(testSignatures[:1], nil)

	infos, err := tm.cached.ListRecentSignatures(ctx, testCollection, 25)
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	infos, err = tm.cached.ListRecentSignatures(ctx, testCollection, 1)
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestCachedClient_DetailPassesThrough(t *testing.T) {
	tm := setupCache(t)
	ctx := context.Background()

	detail := &domain.TransferDetail{Signature: "sig-1", Success: true}
	tm.client.EXPECT().GetTransferDetail(ctx, "sig-1").Return(detail, nil)

	got, err := tm.cached.GetTransferDetail(ctx, "sig-1")
	require.NoError(t, err)
	assert.Same(t, detail, got)
}
