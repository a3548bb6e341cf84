package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"
)

// ExponentialBackoffStrategy repeats recoverable failures with a doubling delay
type ExponentialBackoffStrategy struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewExponentialBackoffStrategy creates a new ExponentialBackoffStrategy
func NewExponentialBackoffStrategy(maxRetries int, initialDelay, maxDelay time.Duration) *ExponentialBackoffStrategy {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if maxDelay < initialDelay {
		maxDelay = initialDelay
	}
	return &ExponentialBackoffStrategy{
		maxRetries:   maxRetries,
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
	}
}

// Execute runs the call until it succeeds, fails permanently or attempts run out
func (s *ExponentialBackoffStrategy) Execute(ctx context.Context, name string, call Call) error {
	var lastErr error
	delay := s.initialDelay

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err := call(ctx)
		if err == nil {
			if attempt > 0 {
				slog.Info("Remote call succeeded after retry",
					"call", name,
					"attempt", attempt+1,
				)
			}
			return nil
		}

		lastErr = err

		// The caller gave up, a retry would fail the same way
		if ctx.Err() != nil {
			return err
		}

		if !IsRecoverable(err) {
			slog.Debug("Non-recoverable error, not retrying",
				"call", name,
				"attempt", attempt+1,
				"error", err,
			)
			return err
		}

		if attempt >= s.maxRetries {
			break
		}

		slog.Warn("Remote call failed, retrying",
			"call", name,
			"attempt", attempt+1,
			"max_attempts", s.maxRetries+1,
			"retry_in", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: cancelled during retry: %w", name, ctx.Err())
		case <-timer.C:
		}

		delay *= 2
		if delay > s.maxDelay {
			delay = s.maxDelay
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, s.maxRetries+1, lastErr)
}

// Name returns the strategy name
func (s *ExponentialBackoffStrategy) Name() string {
	return "ExponentialBackoff"
}

// permanentError marks an error that must never be retried
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that no strategy retries it
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsRecoverable reports whether err looks like a transient transport failure
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}

	var perm *permanentError
	if errors.As(err, &perm) {
		return false
	}

	// A per-attempt deadline expired
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())

	recoverablePatterns := []string{
		"connection reset by peer",
		"connection refused",
		"timeout",
		"temporary failure",
		"network is unreachable",
		"broken pipe",
		"unexpected eof",
		"tls handshake timeout",
		"no such host",
		"dial tcp",
		"too many requests",
		"503 service unavailable",
		"502 bad gateway",
	}

	for _, pattern := range recoverablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
