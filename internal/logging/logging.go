// Package logging provides the process-wide named-logger registry.
// Components acquire a logger scoped to their kind and instance name,
// e.g. logging.Get("collector.gmail").
package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.Mutex
	root  *zap.Logger
	named = map[string]*zap.Logger{}
)

// Init builds the root logger at the given level. It is idempotent;
// only the first call has any effect. Get initializes lazily when Init
// was never called, reading the level from NEWS_DIGEST_LOG_LEVEL.
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()
	initLocked(level)
}

func initLocked(level string) {
	if root != nil {
		return
	}

	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.Sampling = nil

	root = zap.Must(cfg.Build())
}

// Get returns the logger registered under name, creating it on first
// access.
func Get(name string) *zap.Logger {
	mu.Lock()
	defer mu.Unlock()

	if root == nil {
		initLocked(os.Getenv("NEWS_DIGEST_LOG_LEVEL"))
	}

	if l, ok := named[name]; ok {
		return l
	}
	l := root.Named(name)
	named[name] = l
	return l
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
