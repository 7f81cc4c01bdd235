package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level      = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	loggerMu   sync.RWMutex
	baseLogger *zap.Logger
)

func init() {
	baseLogger = newLogger()
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Set replaces the process logger. Tests use it with zap.NewNop or an observer core.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	baseLogger = l
	loggerMu.Unlock()
}

// SetLevel changes the minimum level of the default logger.
func SetLevel(lvl string) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn", "warning":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

// L returns the active logger.
func L() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return baseLogger
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}

func Debugf(format string, v ...any) {
	L().Sugar().Debugf(format, v...)
}

func Infof(format string, v ...any) {
	L().Sugar().Infof(format, v...)
}

func Warnf(format string, v ...any) {
	L().Sugar().Warnf(format, v...)
}

func Errorf(format string, v ...any) {
	L().Sugar().Errorf(format, v...)
}
