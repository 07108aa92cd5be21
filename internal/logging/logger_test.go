package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/prathibha999-pd/realvalueAI/internal/config"
)

func TestNewDevelopmentLoggerEnablesDebug(t *testing.T) {
	logger := New(config.LoggingConfig{Development: true})
	require.NotNil(t, logger)
	require.NotNil(t, logger.Check(zapcore.DebugLevel, "debug reaches the dev console core"))
}

func TestNewProductionLoggerDropsDebug(t *testing.T) {
	logger := New(config.LoggingConfig{Development: false})
	require.NotNil(t, logger)
	require.Nil(t, logger.Check(zapcore.DebugLevel, "debug is filtered in production"))
}

func TestNewWithFileCore(t *testing.T) {
	file := filepath.Join(t.TempDir(), "harvester.log")
	logger := New(config.LoggingConfig{
		Development: true,
		File:        file,
		MaxSizeMB:   1,
		MaxBackups:  1,
		MaxAgeDays:  1,
	})
	require.NotNil(t, logger)
	logger.Info("file core smoke")
	_ = logger.Sync() // stderr sync may fail on some platforms
}

func TestNewEmptyFileSkipsFileCore(t *testing.T) {
	logger := New(config.LoggingConfig{})
	require.NotNil(t, logger)
}
