// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig(maxAttempts int) RetryConfig {
	return NewRetryConfig(maxAttempts, time.Millisecond, 5*time.Millisecond)
}

func TestNewRetryConfig(t *testing.T) {
	config := NewRetryConfig(5, 100*time.Millisecond, 5*time.Second)

	assert.Equal(t, 5, config.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, config.BaseDelay)
	assert.Equal(t, 5*time.Second, config.MaxDelay)
	assert.Nil(t, config.ShouldRetry)
}

func TestRetryWithExponentialBackoff(t *testing.T) {
	permanent := errors.New("permanent")
	temporary := errors.New("temporary")

	tests := []struct {
		name          string
		maxAttempts   int
		failures      int
		failWith      error
		shouldRetry   func(error) bool
		expectedCalls int
		expectErr     error
	}{
		{
			name:          "succeeds first time",
			maxAttempts:   3,
			expectedCalls: 1,
		},
		{
			name:          "succeeds after retries",
			maxAttempts:   3,
			failures:      2,
			failWith:      temporary,
			expectedCalls: 3,
		},
		{
			name:          "exhausts attempts",
			maxAttempts:   3,
			failures:      10,
			failWith:      temporary,
			expectedCalls: 3,
			expectErr:     temporary,
		},
		{
			name:          "stops on non retryable error",
			maxAttempts:   5,
			failures:      10,
			failWith:      permanent,
			shouldRetry:   func(err error) bool { return !errors.Is(err, permanent) },
			expectedCalls: 1,
			expectErr:     permanent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := fastRetryConfig(tc.maxAttempts)
			config.ShouldRetry = tc.shouldRetry

			calls := 0
			err := RetryWithExponentialBackoff(context.Background(), config, func() error {
				calls++
				if calls <= tc.failures {
					return tc.failWith
				}
				return nil
			})

			assert.Equal(t, tc.expectedCalls, calls)
			if tc.expectErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectErr)
		})
	}
}

func TestRetryWithExponentialBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := RetryWithExponentialBackoff(ctx, NewRetryConfig(5, time.Second, time.Second), func() error {
		calls++
		cancel()
		return errors.New("fails")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryWithExponentialBackoff_DelayCapped(t *testing.T) {
	config := NewRetryConfig(4, 10*time.Millisecond, 15*time.Millisecond)

	start := time.Now()
	_ = RetryWithExponentialBackoff(context.Background(), config, func() error {
		return errors.New("fails")
	})
	elapsed := time.Since(start)

	// delays: 10ms, 15ms (capped), 15ms (capped)
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}
