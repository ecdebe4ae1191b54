package logging

import (
	"fmt"
	"sync"
)

var (
	instance *Logger
	mu       sync.RWMutex
)

// InitLogger builds the global logger from config. Calling it again
// replaces (and closes) the previous instance.
func InitLogger(config *Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		instance.Close()
	}
	instance = logger
	return nil
}

// GetGlobalLogger returns the global logger, or a discarding logger if
// InitLogger has not been called.
func GetGlobalLogger() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return NewDiscard()
	}
	return instance
}
