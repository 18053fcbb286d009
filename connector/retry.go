package connector

import (
	"context"
	"time"

	"github.com/Konsultn-Engineering/sqlcmd/database"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// newBackOff builds an exponential policy that allows rc.MaxRetries retries
// after the first attempt.
func newBackOff(rc RetryConfig) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if rc.BaseDelay > 0 {
		b.InitialInterval = rc.BaseDelay
	}
	if rc.MaxDelay > 0 {
		b.MaxInterval = rc.MaxDelay
	}
	if rc.Backoff >= 1 {
		b.Multiplier = rc.Backoff
	}
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithMaxRetries(b, uint64(rc.MaxRetries))
}

func connectWithRetry(
	ctx context.Context,
	rc RetryConfig,
	logger *zap.Logger,
	connect func(context.Context) (database.Connection, error),
) (database.Connection, error) {
	attempt := 0
	op := func() (database.Connection, error) {
		attempt++
		return connect(ctx)
	}
	notify := func(err error, next time.Duration) {
		logger.Warn("connect attempt failed",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", next),
			zap.Error(err),
		)
	}
	return backoff.RetryNotifyWithData(op, backoff.WithContext(newBackOff(rc), ctx), notify)
}
