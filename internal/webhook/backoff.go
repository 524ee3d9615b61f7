package webhook

import "time"

const (
	// DefaultMaxAttempts is the retry ceiling applied to new deliveries
	DefaultMaxAttempts = 3

	// baseRetryDelay is the wait before the second attempt; each further
	// attempt doubles it
	baseRetryDelay = 5 * time.Minute
)

// RetryDelay returns the backoff delay scheduled after attemptsMade failed
// attempts: 5 * 2^(attemptsMade-1) minutes. 5m after the first failure,
// then 10m, then 20m.
func RetryDelay(attemptsMade int) time.Duration {
	if attemptsMade < 1 {
		attemptsMade = 1
	}
	return baseRetryDelay * (1 << (attemptsMade - 1))
}
