package retry

import (
	"context"
	"time"

	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

// Executor runs an operation, retrying transient failures.
// Safe for concurrent use; WithOnRetry returns a copy.
type Executor struct {
	classifier Classifier
	strategy   Strategy
	logger     pgannotate.Logger
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates an Executor. A nil logger disables retry logging.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier Classifier, strategy Strategy, logger pgannotate.Logger) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy, logger: logger}
}

// NewDefaultExecutor uses the PostgreSQL classifier and the default retry limits.
func NewDefaultExecutor(logger pgannotate.Logger) *Executor {
	return NewExecutor(
		NewPostgreSQLErrorClassifier(),
		NewExponentialBackoff(pgannotate.DefaultRetryMaxAttempts,
			WithInitialDelay(pgannotate.DefaultRetryInitialDelay),
			WithMaxDelay(pgannotate.DefaultRetryMaxDelay),
		),
		logger,
	)
}

// WithOnRetry returns a copy of e that calls callback before each wait.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation until it succeeds, fails with a fatal error, the
// retries are exhausted or ctx is done. It returns the last error seen.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	err := operation(ctx)
	maxAttempts := e.strategy.MaxAttempts()

	for attempt := 0; err != nil && e.classifier.IsTransient(err); attempt++ {
		if maxAttempts >= 0 && attempt >= maxAttempts {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(attempt)
		if e.logger != nil {
			e.logger.Verbose("Transient error, retrying in %v (%d): %v", delay.Round(time.Millisecond), attempt+1, err)
		}
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		err = operation(ctx)
	}

	return err
}
