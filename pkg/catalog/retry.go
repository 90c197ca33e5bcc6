package catalog

import (
	"context"
	"time"
)

// Connection retry settings for the network backends. Databases started
// alongside jeweler (compose, CI services) often need a moment to accept
// connections.
const (
	pingAttempts = 3
	pingDelay    = 250 * time.Millisecond
)

// ping calls fn up to attempts times, doubling delay after each failure.
// It returns the last error, or ctx.Err() when cancelled while waiting.
func ping(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
