package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// GetLogger returns the process-wide zap logger, building it on first use
func GetLogger() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		logger, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		instance = logger
	})
	return instance
}

// SetLogger replaces the process-wide logger (primarily for testing)
func SetLogger(l *zap.Logger) {
	once.Do(func() {})
	instance = l
}
