package jetstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/domain"
	"github.com/solspace/solspace-backend/internal/logger"
	"github.com/solspace/solspace-backend/internal/mocks"
	"github.com/solspace/solspace-backend/internal/providers/jetstream"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var testConfig = jetstream.Config{
	URL:            "nats://localhost:4222",
	StreamName:     "POINTS_EVENTS",
	SubjectPrefix:  "points",
	MaxReconnects:  3,
	ReconnectWait:  time.Second,
	ConnectionName: "solspace-test",
}

type testPublisherMocks struct {
	natsJS *mocks.MockNatsJetStream
	conn   *mocks.MockNatsConn
	js     *mocks.MockJetStream
}

func setupPublisherMocks(t *testing.T) *testPublisherMocks {
	ctrl := gomock.NewController(t)
	return &testPublisherMocks{
		natsJS: mocks.NewMockNatsJetStream(ctrl),
		conn:   mocks.NewMockNatsConn(ctrl),
		js:     mocks.NewMockJetStream(ctrl),
	}
}

func expectConnect(tm *testPublisherMocks) {
	tm.natsJS.EXPECT().
		Connect(testConfig.URL, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(tm.conn, tm.js, nil)
}

func TestNewPublisher_EnsuresStream(t *testing.T) {
	tm := setupPublisherMocks(t)
	ctx := context.Background()

	expectConnect(tm)
	tm.js.EXPECT().
		CreateOrUpdateStream(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, cfg natsjs.StreamConfig) (natsjs.Stream, error) {
			assert.Equal(t, "POINTS_EVENTS", cfg.Name)
			assert.Equal(t, []string{"points.>"}, cfg.Subjects)
			return nil, nil
		})
	tm.conn.EXPECT().ConnectedUrl().Return(testConfig.URL)

	pub, err := jetstream.NewPublisher(ctx, testConfig, tm.natsJS, adapter.NewJSON())
	require.NoError(t, err)
	require.NotNil(t, pub)

	tm.conn.EXPECT().Close()
	pub.Close()
}

func TestNewPublisher_ConnectError(t *testing.T) {
	tm := setupPublisherMocks(t)

	tm.natsJS.EXPECT().
		Connect(testConfig.URL, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil, errors.New("no servers available"))

	_, err := jetstream.NewPublisher(context.Background(), testConfig, tm.natsJS, adapter.NewJSON())
	assert.Error(t, err)
}

func TestNewPublisher_StreamError(t *testing.T) {
	tm := setupPublisherMocks(t)
	ctx := context.Background()

	expectConnect(tm)
	tm.js.EXPECT().CreateOrUpdateStream(ctx, gomock.Any()).Return(nil, errors.New("insufficient resources"))
	tm.conn.EXPECT().Close()

	_, err := jetstream.NewPublisher(ctx, testConfig, tm.natsJS, adapter.NewJSON())
	assert.Error(t, err)
}

func TestPublishEvent(t *testing.T) {
	tm := setupPublisherMocks(t)
	ctx := context.Background()

	expectConnect(tm)
	tm.js.EXPECT().CreateOrUpdateStream(ctx, gomock.Any()).Return(nil, nil)
	tm.conn.EXPECT().ConnectedUrl().Return(testConfig.URL)

	pub, err := jetstream.NewPublisher(ctx, testConfig, tm.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	event := &domain.PointsEvent{
		Type:      domain.PointsEventDepositCredited,
		Identity:  "7Np41oeYqPefeNQEHSv1UDhYrehxin3NStELsSKCT4K2",
		Points:    1500,
		Reference: "sig-1",
		Timestamp: time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC),
	}

	tm.js.EXPECT().
		Publish(ctx, "points.deposit_credited", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
			var decoded domain.PointsEvent
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, *event, decoded)
			return &natsjs.PubAck{Stream: "POINTS_EVENTS", Sequence: 1}, nil
		})

	require.NoError(t, pub.PublishEvent(ctx, event))

	tm.js.EXPECT().
		Publish(ctx, "points.game_event_admitted", gomock.Any(), gomock.Any()).
		Return(nil, errors.New("timeout"))

	err = pub.PublishEvent(ctx, &domain.PointsEvent{Type: domain.PointsEventGameEventAdmitted, Reference: "01J"})
	assert.Error(t, err)
}
