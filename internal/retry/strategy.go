package retry

import (
	"context"
	"log/slog"
	"time"
)

// Strategy decides how a remote call is repeated when it fails
type Strategy interface {
	// Execute runs the call, repeating it according to the strategy
	Execute(ctx context.Context, name string, call Call) error

	// Name returns the strategy name for logging
	Name() string
}

// Call is a single attempt of a remote operation
type Call func(ctx context.Context) error

// Config holds retry settings for remote calls
type Config struct {
	Enabled      bool
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// NewStrategy picks the strategy matching the configuration
func NewStrategy(config Config) Strategy {
	if !config.Enabled {
		slog.Debug("Retry disabled, remote calls run once")
		return NewNoRetryStrategy()
	}

	slog.Debug("Retry enabled for remote calls",
		"max_retries", config.MaxRetries,
		"initial_delay", config.InitialDelay,
		"max_delay", config.MaxDelay,
	)

	return NewExponentialBackoffStrategy(config.MaxRetries, config.InitialDelay, config.MaxDelay)
}
