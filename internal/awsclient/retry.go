package awsclient

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lakedeploy/lakedeploy/internal/constants"
	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"
)

// RetryPolicy retries throttled AWS calls with exponential backoff.
// Non-throttling errors are returned to the caller untouched so that
// not-found classification still works.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy returns the standard bounded backoff policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: constants.DefaultRetryAttempts,
		BaseDelay:   constants.DefaultRetryBaseDelay,
	}
}

// Do invokes fn, retrying while it fails with a throttling error. The delay
// doubles with each attempt. Exhausting every attempt converts the error
// into a deployment failure wrapping the last cause.
func (p RetryPolicy) Do(ctx context.Context, logger *slog.Logger, op string, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsThrottle(err) {
			return err
		}

		lastErr = err
		if attempt == p.MaxAttempts-1 {
			break
		}

		delay := p.BaseDelay << attempt
		logger.Warn("throttled by AWS, retrying",
			"op", op,
			"attempt", attempt+1,
			"max_attempts", p.MaxAttempts,
			"delay", delay,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return apperrors.ErrDeployment(
		fmt.Sprintf("%s failed after %d attempts due to throttling", op, p.MaxAttempts),
		lastErr,
	)
}
