package retry

import "time"

// Classifier decides whether an error is worth retrying.
type Classifier interface {
	IsTransient(err error) bool
}

// Strategy controls how many retries are made and how long to wait before each.
type Strategy interface {
	// NextDelay returns the wait before retry number attempt (0-based).
	NextDelay(attempt int) time.Duration

	// MaxAttempts is the number of retries after the first attempt.
	// Negative means unlimited.
	MaxAttempts() int
}
