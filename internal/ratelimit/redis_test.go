package ratelimit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solspace/solspace-backend/internal/mocks"
	"github.com/solspace/solspace-backend/internal/ratelimit"
)

func TestRedisLimiter_Decisions(t *testing.T) {
	tests := []struct {
		name     string
		result   int64
		expected ratelimit.Decision
	}{
		{"admitted", 0, ratelimit.Admitted},
		{"too fast", 1, ratelimit.TooFast},
		{"rate limited", 2, ratelimit.RateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockRedisClient(ctrl)
			l := ratelimit.NewRedisLimiter(testPolicy, client, "solspace", nil)
			ctx := context.Background()

			client.EXPECT().
				RunScript(ctx, gomock.Any(), []string{"solspace:rate:alice"},
					testNow.UnixMilli(), int64(800), int64(60000), 3).
				Return(redis.NewCmdResult(tt.result, nil))

			d, err := l.Admit(ctx, "alice", testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestRedisLimiter_UnexpectedResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockRedisClient(ctrl)
	l := ratelimit.NewRedisLimiter(testPolicy, client, "solspace", nil)

	client.EXPECT().RunScript(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(redis.NewCmdResult(int64(7), nil))

	_, err := l.Admit(context.Background(), "alice", testNow)
	assert.Error(t, err)
}

func TestRedisLimiter_ErrorWithoutFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockRedisClient(ctrl)
	l := ratelimit.NewRedisLimiter(testPolicy, client, "solspace", nil)

	redisErr := errors.New("connection refused")
	client.EXPECT().RunScript(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(redis.NewCmdResult(nil, redisErr))

	_, err := l.Admit(context.Background(), "alice", testNow)
	assert.ErrorIs(t, err, redisErr)
}

func TestRedisLimiter_ErrorWithFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockRedisClient(ctrl)
	fallback := mocks.NewMockLimiter(ctrl)
	l := ratelimit.NewRedisLimiter(testPolicy, client, "solspace", fallback)
	ctx := context.Background()

	client.EXPECT().RunScript(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(redis.NewCmdResult(nil, errors.New("connection refused")))
	fallback.EXPECT().Admit(ctx, "alice", testNow).Return(ratelimit.TooFast, nil)

	d, err := l.Admit(ctx, "alice", testNow)
	require.NoError(t, err)
	assert.Equal(t, ratelimit.TooFast, d)
}
