// Package logger provides the shared application logger. The package-level
// helpers lazily initialize a development logger so library code can log
// before main has called Init.
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.Mutex
	sugar *zap.SugaredLogger
)

// Init builds the process logger. Mode "prod"/"production" selects the JSON
// production encoder, anything else the console development encoder.
func Init(mode string) error {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	mu.Lock()
	sugar = z.Sugar()
	mu.Unlock()
	return nil
}

func get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if sugar == nil {
		z, _ := zap.NewDevelopmentConfig().Build(zap.AddCallerSkip(1))
		sugar = z.Sugar()
	}
	return sugar
}

// Sync flushes buffered log entries. Safe to call on exit.
func Sync() {
	_ = get().Sync()
}

func Infof(format string, v ...interface{}) {
	get().Infof(format, v...)
}

func Warnf(format string, v ...interface{}) {
	get().Warnf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	get().Errorf(format, v...)
}

// Infow logs a message with structured key/value pairs.
func Infow(msg string, keysAndValues ...interface{}) {
	get().Infow(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	get().Errorw(msg, keysAndValues...)
}
