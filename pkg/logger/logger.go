package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// Get returns the shared zap.Logger instance, created lazily on first use.
func Get() *zap.Logger {
	once.Do(func() {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			panic("failed logger setup: " + err.Error())
		}
	})

	return logger
}
