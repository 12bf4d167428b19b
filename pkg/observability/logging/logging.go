// Package logging provides the process-wide structured logger. All other
// packages log through the printf-style helpers here rather than holding
// their own logger instances.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}

// SetLevel changes the minimum level at runtime. Accepts "debug", "info",
// "warn", "error"; unknown values are ignored.
func SetLevel(name string) {
	if parsed, err := zapcore.ParseLevel(name); err == nil {
		level.SetLevel(parsed)
	}
}

// Sync flushes buffered log entries. Call before process exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

func Debugf(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Errorf(format, args...)
}
