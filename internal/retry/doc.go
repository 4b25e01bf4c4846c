// Package retry re-runs an operation while it fails with transient errors,
// waiting an exponentially growing, jittered delay between attempts.
//
// Connectors use it to ride out a database that is still starting up or a
// network path that drops the first few packets:
//
//	executor := retry.NewExecutor(
//	    retry.NewPostgreSQLErrorClassifier(),
//	    retry.NewExponentialBackoff(3),
//	    logger,
//	)
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
//
// Which errors are worth another attempt is decided by a Classifier; how long
// to wait and how often to try is decided by a Strategy.
package retry
