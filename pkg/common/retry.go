package common

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig holds configuration for retry operations.
type RetryConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxRetries      uint64
}

// DefaultRetryConfig a single retry with a short backoff. Model inference itself is never retried
// (too expensive and we want reproducible output), so the only consumers are cheap filesystem operations.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		MaxRetries:      1,
	}
}

// WithRetry executes an operation with retry logic using exponential backoff.
func WithRetry(operation func() error, config *RetryConfig) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = config.InitialInterval
	b.MaxInterval = config.MaxInterval
	return backoff.Retry(operation, backoff.WithMaxRetries(b, config.MaxRetries))
}
