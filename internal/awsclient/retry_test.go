package awsclient

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRetryPolicy_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := testPolicy().Do(context.Background(), discardLogger(), "create bucket", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_RecoversFromThrottle(t *testing.T) {
	calls := 0
	err := testPolicy().Do(context.Background(), discardLogger(), "create bucket", func(context.Context) error {
		calls++
		if calls < 3 {
			return apiError("ThrottlingException", "slow down")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_NonThrottleReturnedUntouched(t *testing.T) {
	notFound := apiError("EntityNotFoundException", "missing")
	calls := 0
	err := testPolicy().Do(context.Background(), discardLogger(), "get database", func(context.Context) error {
		calls++
		return notFound
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, notFound, err)
	assert.True(t, IsNotFound(err))
}

func TestRetryPolicy_ExhaustionWrapsCause(t *testing.T) {
	throttle := apiError("Throttling", "rate exceeded")
	calls := 0
	err := testPolicy().Do(context.Background(), discardLogger(), "put object", func(context.Context) error {
		calls++
		return throttle
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, apperrors.ErrCodeDeployment, apperrors.GetCode(err))
	assert.True(t, errors.Is(err, throttle))
	assert.Contains(t, err.Error(), "put object failed after 3 attempts")
}

func TestRetryPolicy_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Minute}
	done := make(chan error, 1)
	go func() {
		done <- policy.Do(ctx, discardLogger(), "create stream", func(context.Context) error {
			return apiError("ThrottlingException", "slow down")
		})
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("retry did not observe context cancellation")
	}
}
