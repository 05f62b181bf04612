package reconciler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solspace/solspace-backend/internal/domain"
	"github.com/solspace/solspace-backend/internal/mocks"
	"github.com/solspace/solspace-backend/internal/providers/solana"
	"github.com/solspace/solspace-backend/internal/reconciler"
	"github.com/solspace/solspace-backend/internal/store"
)

const (
	testCollection = "So11111111111111111111111111111111111111112"
	testIdentity   = "7Np41oeYqPefeNQEHSv1UDhYrehxin3NStELsSKCT4K2"
	testOther      = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
)

var testNow = time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)

type testMocks struct {
	ctrl      *gomock.Controller
	client    *mocks.MockSolanaClient
	store     *mocks.MockStore
	publisher *mocks.MockPublisher
	clock     *mocks.MockClock
	rec       reconciler.Reconciler
}

func testConfig() reconciler.Config {
	return reconciler.Config{
		CollectionAddress: testCollection,
		SignatureLimit:    25,
		MinAmountSOL:      "0.005",
		PointsPerSOL:      1000,
		FetchConcurrency:  2,
	}
}

func setupTest(t *testing.T) *testMocks {
	ctrl := gomock.NewController(t)
	tm := &testMocks{
		ctrl:      ctrl,
		client:    mocks.NewMockSolanaClient(ctrl),
		store:     mocks.NewMockStore(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		clock:     mocks.NewMockClock(ctrl),
	}

	rec, err := reconciler.NewReconciler(testConfig(), tm.client, tm.store, tm.publisher, tm.clock)
	require.NoError(t, err)
	tm.rec = rec

	t.Cleanup(rec.Close)
	return tm
}

func deposit(sig string, source string, lamports ...uint64) *domain.TransferDetail {
	detail := &domain.TransferDetail{Signature: sig, Success: true}
	for _, l := range lamports {
		detail.Transfers = append(detail.Transfers, domain.Transfer{
			Source:      source,
			Destination: testCollection,
			Lamports:    l,
		})
	}
	return detail
}

func TestReconcile_CreditsQualifyingDeposits(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	blockTime := testNow.Add(-time.Minute)
	infos := []domain.SignatureInfo{
		{Signature: "sig-1", Slot: 30},
		{Signature: "sig-2", Slot: 29, Failed: true},
		{Signature: "sig-3", Slot: 28},
		{Signature: "sig-4", Slot: 27},
	}

	first := deposit("sig-1", testIdentity, 10_000_000)
	first.BlockTime = &blockTime

	tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).Return(infos, nil)
	tm.store.EXPECT().FilterUnprocessedSignatures(gomock.Any(), []string{"sig-1", "sig-3", "sig-4"}).
		Return([]string{"sig-1", "sig-3", "sig-4"}, nil)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-1").Return(first, nil)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-3").Return(deposit("sig-3", testOther, 50_000_000), nil)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-4").Return(deposit("sig-4", testIdentity, 3_000_000, 4_500_000), nil)
	tm.clock.EXPECT().Now().Return(testNow).Times(2)

	tm.store.EXPECT().RecordDeposit(gomock.Any(), store.RecordDepositInput{
		Signature:  "sig-1",
		Identity:   testIdentity,
		Lamports:   10_000_000,
		Points:     10,
		Transfers:  first.Transfers,
		BlockTime:  &blockTime,
		ObservedAt: testNow,
	}).Return(nil)
	tm.store.EXPECT().RecordDeposit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, input store.RecordDepositInput) error {
			assert.Equal(t, "sig-4", input.Signature)
			assert.Equal(t, uint64(7_500_000), input.Lamports)
			assert.Equal(t, int64(7), input.Points)
			assert.Len(t, input.Transfers, 2)
			return nil
		})

	tm.publisher.EXPECT().PublishEvent(gomock.Any(), &domain.PointsEvent{
		Type:      domain.PointsEventDepositCredited,
		Identity:  testIdentity,
		Points:    10,
		Reference: "sig-1",
		Timestamp: testNow,
	}).Return(nil)
	tm.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(nil)

	result, err := tm.rec.Reconcile(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, int64(17), result.CreditedPoints)
	require.Len(t, result.Credits, 2)
	assert.Equal(t, "sig-1", result.Credits[0].Signature)
	assert.Equal(t, &blockTime, result.Credits[0].BlockTime)
	assert.Equal(t, "sig-4", result.Credits[1].Signature)
}

func TestReconcile_SkipsBelowThreshold(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).
		Return([]domain.SignatureInfo{{Signature: "sig-1"}}, nil)
	tm.store.EXPECT().FilterUnprocessedSignatures(gomock.Any(), []string{"sig-1"}).Return([]string{"sig-1"}, nil)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-1").Return(deposit("sig-1", testIdentity, 4_999_999), nil)

	result, err := tm.rec.Reconcile(ctx, testIdentity)
	require.NoError(t, err)
	assert.Zero(t, result.CreditedPoints)
	assert.Empty(t, result.Credits)
}

func TestReconcile_ThresholdIsInclusive(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).
		Return([]domain.SignatureInfo{{Signature: "sig-1"}}, nil)
	tm.store.EXPECT().FilterUnprocessedSignatures(gomock.Any(), []string{"sig-1"}).Return([]string{"sig-1"}, nil)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-1").Return(deposit("sig-1", testIdentity, 5_000_000), nil)
	tm.clock.EXPECT().Now().Return(testNow)
	tm.store.EXPECT().RecordDeposit(gomock.Any(), gomock.Any()).Return(nil)
	tm.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(nil)

	result, err := tm.rec.Reconcile(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.CreditedPoints)
}

func TestReconcile_AlreadyCredited(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).
		Return([]domain.SignatureInfo{{Signature: "sig-1"}}, nil)
	tm.store.EXPECT().FilterUnprocessedSignatures(gomock.Any(), []string{"sig-1"}).Return([]string{"sig-1"}, nil)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-1").Return(deposit("sig-1", testIdentity, 1_000_000_000), nil)
	tm.clock.EXPECT().Now().Return(testNow)
	// lost the race to a concurrent credit of the same signature
	tm.store.EXPECT().RecordDeposit(gomock.Any(), gomock.Any()).Return(domain.ErrConflict)

	result, err := tm.rec.Reconcile(ctx, testIdentity)
	require.NoError(t, err)
	assert.Zero(t, result.CreditedPoints)
	assert.Empty(t, result.Credits)
}

func TestReconcile_NothingUnprocessed(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).
		Return([]domain.SignatureInfo{{Signature: "sig-1"}}, nil)
	tm.store.EXPECT().FilterUnprocessedSignatures(gomock.Any(), []string{"sig-1"}).Return([]string{}, nil)

	result, err := tm.rec.Reconcile(ctx, testIdentity)
	require.NoError(t, err)
	assert.Empty(t, result.Credits)
}

func TestReconcile_SkipsUnusableDetails(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	failed := deposit("sig-3", testIdentity, 1_000_000_000)
	failed.Success = false

	tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).
		Return([]domain.SignatureInfo{{Signature: "sig-1"}, {Signature: "sig-2"}, {Signature: "sig-3"}}, nil)
	tm.store.EXPECT().FilterUnprocessedSignatures(gomock.Any(), gomock.Any()).
		Return([]string{"sig-1", "sig-2", "sig-3"}, nil)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-1").Return(nil, errors.New("timeout"))
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-2").Return(nil, nil)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-3").Return(failed, nil)

	result, err := tm.rec.Reconcile(ctx, testIdentity)
	require.NoError(t, err)
	assert.Empty(t, result.Credits)
}

func TestReconcile_SourceUnavailable(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).
		Return(nil, errors.New("connection refused"))

	_, err := tm.rec.Reconcile(ctx, testIdentity)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestReconcile_AllDetailFetchesFail(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).
		Return([]domain.SignatureInfo{{Signature: "sig-1"}, {Signature: "sig-2"}}, nil)
	tm.store.EXPECT().FilterUnprocessedSignatures(gomock.Any(), gomock.Any()).Return([]string{"sig-1", "sig-2"}, nil)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-1").Return(nil, errors.New("connection refused"))
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-2").Return(nil, errors.New("connection refused"))

	result, err := tm.rec.Reconcile(ctx, testIdentity)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	require.NotNil(t, result)
	assert.Zero(t, result.CreditedPoints)
	assert.Empty(t, result.Credits)
}

func TestReconcile_NodeDownBehindStaleCache(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	cacheClock := mocks.NewMockClock(tm.ctrl)
	gomock.InOrder(
		cacheClock.EXPECT().Now().Return(testNow),
		cacheClock.EXPECT().Now().Return(testNow.Add(10*time.Second)),
	)
	cached := solana.NewCachedClient(tm.client, solana.CacheConfig{
		TTL:         5 * time.Second,
		StaleWindow: 30 * time.Second,
	}, cacheClock)

	rec, err := reconciler.NewReconciler(testConfig(), cached, tm.store, tm.publisher, tm.clock)
	require.NoError(t, err)
	t.Cleanup(rec.Close)

	gomock.InOrder(
		tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).
			Return([]domain.SignatureInfo{{Signature: "sig-1"}}, nil),
		tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).
			Return(nil, errors.New("connection refused")),
	)
	gomock.InOrder(
		tm.store.EXPECT().FilterUnprocessedSignatures(gomock.Any(), []string{"sig-1"}).Return([]string{}, nil),
		tm.store.EXPECT().FilterUnprocessedSignatures(gomock.Any(), []string{"sig-1"}).Return([]string{"sig-1"}, nil),
	)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-1").Return(nil, errors.New("connection refused"))

	result, err := rec.Reconcile(ctx, testIdentity)
	require.NoError(t, err)
	assert.Empty(t, result.Credits)

	// the stale list is served but no detail can be fetched
	result, err = rec.Reconcile(ctx, testIdentity)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	require.NotNil(t, result)
	assert.Zero(t, result.CreditedPoints)
}

func TestReconcile_OverlappingCallsCreditOnce(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	release := make(chan struct{})
	tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).
		DoAndReturn(func(context.Context, string, int) ([]domain.SignatureInfo, error) {
			<-release
			return []domain.SignatureInfo{{Signature: "sig-1"}, {Signature: "sig-2"}}, nil
		}).MinTimes(1).MaxTimes(2)
	// both scans see the signatures as new so the ledger key decides
	tm.store.EXPECT().FilterUnprocessedSignatures(gomock.Any(), gomock.Any()).
		Return([]string{"sig-1", "sig-2"}, nil).MinTimes(1).MaxTimes(2)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-1").
		Return(deposit("sig-1", testIdentity, 10_000_000), nil).MinTimes(1).MaxTimes(2)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-2").
		Return(deposit("sig-2", testIdentity, 20_000_000), nil).MinTimes(1).MaxTimes(2)
	tm.clock.EXPECT().Now().Return(testNow).AnyTimes()

	var mu sync.Mutex
	recorded := make(map[string]int)
	tm.store.EXPECT().RecordDeposit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.RecordDepositInput) error {
			mu.Lock()
			defer mu.Unlock()
			recorded[input.Signature]++
			if recorded[input.Signature] > 1 {
				return domain.ErrConflict
			}
			return nil
		}).MinTimes(2).MaxTimes(4)
	tm.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	var wg sync.WaitGroup
	results := make([]*reconciler.Result, 2)
	errs := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = tm.rec.Reconcile(ctx, testIdentity)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
	}

	credited := make(map[string]int64)
	for _, r := range results {
		for _, c := range r.Credits {
			credited[c.Signature] = c.Points
		}
	}
	assert.Equal(t, map[string]int64{"sig-1": 10, "sig-2": 20}, credited)
	assert.Len(t, recorded, 2)
}

func TestReconcile_StoreErrorAborts(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).
		Return([]domain.SignatureInfo{{Signature: "sig-1"}, {Signature: "sig-2"}}, nil)
	tm.store.EXPECT().FilterUnprocessedSignatures(gomock.Any(), gomock.Any()).Return([]string{"sig-1", "sig-2"}, nil)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-1").Return(deposit("sig-1", testIdentity, 10_000_000), nil)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-2").Return(deposit("sig-2", testIdentity, 20_000_000), nil)
	tm.clock.EXPECT().Now().Return(testNow).Times(2)

	gomock.InOrder(
		tm.store.EXPECT().RecordDeposit(gomock.Any(), gomock.Any()).Return(nil),
		tm.store.EXPECT().RecordDeposit(gomock.Any(), gomock.Any()).Return(errors.New("disk full")),
	)
	tm.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(nil)

	result, err := tm.rec.Reconcile(ctx, testIdentity)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sig-2")

	// the committed credit is still reported
	require.NotNil(t, result)
	assert.Equal(t, int64(10), result.CreditedPoints)
}

func TestReconcile_PublishFailureKeepsCredit(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.client.EXPECT().ListRecentSignatures(gomock.Any(), testCollection, 25).
		Return([]domain.SignatureInfo{{Signature: "sig-1"}}, nil)
	tm.store.EXPECT().FilterUnprocessedSignatures(gomock.Any(), gomock.Any()).Return([]string{"sig-1"}, nil)
	tm.client.EXPECT().GetTransferDetail(gomock.Any(), "sig-1").Return(deposit("sig-1", testIdentity, 2_500_000_000), nil)
	tm.clock.EXPECT().Now().Return(testNow)
	tm.store.EXPECT().RecordDeposit(gomock.Any(), gomock.Any()).Return(nil)
	tm.publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(errors.New("nats: timeout"))

	result, err := tm.rec.Reconcile(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), result.CreditedPoints)
}

func TestReconcile_InvalidIdentity(t *testing.T) {
	tm := setupTest(t)

	_, err := tm.rec.Reconcile(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestNewReconciler_InvalidConfig(t *testing.T) {
	ctrl := gomock.NewController(t)

	tests := []struct {
		name   string
		mutate func(cfg *reconciler.Config)
	}{
		{
			name:   "invalid collection address",
			mutate: func(cfg *reconciler.Config) { cfg.CollectionAddress = "not-an-address" },
		},
		{
			name:   "zero points per SOL",
			mutate: func(cfg *reconciler.Config) { cfg.PointsPerSOL = 0 },
		},
		{
			name:   "unparseable minimum",
			mutate: func(cfg *reconciler.Config) { cfg.MinAmountSOL = "five" },
		},
		{
			name:   "negative minimum",
			mutate: func(cfg *reconciler.Config) { cfg.MinAmountSOL = "-0.1" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			_, err := reconciler.NewReconciler(cfg,
				mocks.NewMockSolanaClient(ctrl),
				mocks.NewMockStore(ctrl),
				mocks.NewMockPublisher(ctrl),
				mocks.NewMockClock(ctrl),
			)
			assert.Error(t, err)
		})
	}
}
