package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide structured logger
var Logger = zap.NewNop()

// InitLogger builds a production logger at the given level
func InitLogger(logLevel string) {
	config := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	config.Level.SetLevel(level)
	if logger, err := config.Build(); err == nil {
		Logger = logger
		zap.ReplaceGlobals(logger)
	}
}
