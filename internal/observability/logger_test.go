// File: internal/observability/logger_test.go
package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/deskpilot/internal/config"
)

func TestGetLoggerBeforeInitializeIsNop(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
	// Must not panic even though Initialize was never called.
	logger.Info("no-op")
}

func TestInitializeOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := config.NewDefaultConfig().Logger
	cfg.Level = "debug"
	cfg.LogFile = ""

	writer := zapcore.AddSync(zaptest.NewTestingWriter(t))
	Initialize(cfg, writer)
	first := GetLogger()
	require.NotNil(t, first)

	// A second Initialize is a no-op; the logger instance is unchanged.
	Initialize(cfg, writer)
	assert.Same(t, first, GetLogger())
}

func TestInitializeBadLevelFallsBack(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	cfg := config.NewDefaultConfig().Logger
	cfg.Level = "not-a-level"

	Initialize(cfg, zapcore.AddSync(zaptest.NewTestingWriter(t)))
	logger := GetLogger()
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel), "fallback level should be info")
}
