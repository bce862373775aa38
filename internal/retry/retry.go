package retry

import (
	"context"
	"net/http"
	"time"
)

// Policy is a bounded retry loop shared by the external-capability clients.
// Each subsequent attempt waits longer than the previous one: the delay is
// linear in the attempt number (BaseDelay, 2*BaseDelay, ...).
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the wait after the first failed attempt.
	BaseDelay time.Duration
	// Retryable classifies an error; a nil predicate retries everything.
	Retryable func(error) bool
	// Sleep is swappable for tests. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Do runs op until it succeeds, exhausts MaxAttempts, or hits a terminal
// error. It returns the last error observed.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt < attempts {
			sleep(p.BaseDelay * time.Duration(attempt))
		}
	}
	return lastErr
}

// RetryableStatus reports whether an HTTP status is worth another attempt:
// rate limiting and server-side faults are, everything else is terminal.
func RetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
