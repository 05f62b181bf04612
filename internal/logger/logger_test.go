package logger_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solspace/solspace-backend/internal/logger"
)

func TestInitialize_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")

	err := logger.Initialize(logger.Config{
		File: logger.FileConfig{Path: path},
	})
	require.NoError(t, err)

	logger.Info("points credited", zap.String("identity", "W1"))
	logger.Flush(time.Second)

	data, err := os.ReadFile(path) //nolint:gosec,G304
	require.NoError(t, err)
	assert.Contains(t, string(data), "points credited")
	assert.Contains(t, string(data), `"identity":"W1"`)
}

func TestInitialize_DebugLevel(t *testing.T) {
	require.NoError(t, logger.Initialize(logger.Config{Debug: true}))
	assert.True(t, logger.Default().Core().Enabled(zap.DebugLevel))

	require.NoError(t, logger.Initialize(logger.Config{Debug: false}))
	assert.False(t, logger.Default().Core().Enabled(zap.DebugLevel))
}
