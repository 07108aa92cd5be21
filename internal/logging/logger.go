// Package logging provides zap logger helpers.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/prathibha999-pd/realvalueAI/internal/config"
)

// New builds the process-wide zap logger. The console core logs everything in
// development (debug and up) and is mutex-locked, so interleaved lines from
// concurrent workers never split mid-entry. When a log file is configured, an
// info-level JSON core backed by lumberjack rotation is tee'd in, mirroring
// the console/file split the scrape logs have always had.
func New(cfg config.LoggingConfig) *zap.Logger {
	consoleLevel := zapcore.InfoLevel
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(encCfg)
	if cfg.Development {
		consoleLevel = zapcore.DebugLevel
		devCfg := zap.NewDevelopmentEncoderConfig()
		devCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(devCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), consoleLevel),
	}

	if cfg.File != "" {
		fileSink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileSink, zapcore.InfoLevel))
	}

	return zap.New(zapcore.NewTee(cores...))
}
