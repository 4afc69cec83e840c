package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntilReadyFirstAttempt(t *testing.T) {
	result := Until(context.Background(), time.Millisecond, 5, func(ctx context.Context) (bool, error) {
		return true, nil
	})

	assert.True(t, result.Ready())
	assert.Equal(t, 1, result.Attempts)
	assert.NoError(t, result.Err)
}

func TestUntilReadyAfterRetries(t *testing.T) {
	calls := 0
	result := Until(context.Background(), time.Millisecond, 10, func(ctx context.Context) (bool, error) {
		calls++
		return calls >= 3, nil
	})

	assert.True(t, result.Ready())
	assert.Equal(t, 3, result.Attempts)
}

func TestUntilTimesOut(t *testing.T) {
	result := Until(context.Background(), time.Millisecond, 4, func(ctx context.Context) (bool, error) {
		return false, nil
	})

	assert.Equal(t, StatusTimedOut, result.Status)
	assert.Equal(t, 4, result.Attempts)
	assert.False(t, result.Ready())
}

func TestUntilPredicateError(t *testing.T) {
	wantErr := errors.New("boom")
	result := Until(context.Background(), time.Millisecond, 4, func(ctx context.Context) (bool, error) {
		return false, wantErr
	})

	assert.Equal(t, StatusFailed, result.Status)
	assert.ErrorIs(t, result.Err, wantErr)
	assert.Equal(t, 1, result.Attempts)
}

func TestUntilContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Until(ctx, time.Minute, 3, func(ctx context.Context) (bool, error) {
		return false, nil
	})

	require.Equal(t, StatusFailed, result.Status)
	assert.ErrorIs(t, result.Err, context.Canceled)
}

func TestUntilClampsAttempts(t *testing.T) {
	calls := 0
	result := Until(context.Background(), time.Millisecond, 0, func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})

	assert.Equal(t, StatusTimedOut, result.Status)
	assert.Equal(t, 1, calls)
}
