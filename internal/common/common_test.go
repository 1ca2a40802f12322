package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err      error
		name     string
		fallback string
		want     string
	}{
		{
			name:     "user error",
			err:      NewUserError("Transfer failed.", errors.New("boom")),
			fallback: "fallback",
			want:     "Transfer failed.",
		},
		{
			name:     "wrapped validation error",
			err:      errors.Join(NewValidationError("Please fill in all fields.")),
			fallback: "fallback",
			want:     "Please fill in all fields.",
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			fallback: "Network error.",
			want:     "Network error.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, tt.fallback))
		})
	}
}

func TestUserError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := NewUserError("shown", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "shown: cause", err.Error())
	assert.Equal(t, "shown", NewUserError("shown", nil).Error())
}

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(&buf, "debug", "json"))
	LogDebug("hello", Fields{"k": "v"})
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	assert.ErrorIs(t, SetupLogger(&buf, "loud", "json"), ErrInvalidConfig)
	assert.ErrorIs(t, SetupLogger(&buf, "info", "xml"), ErrInvalidConfig)
}

func TestWithRetry(t *testing.T) {
	opts := RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on non-retryable error", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RetryableError{Err: errors.New("fatal"), Retryable: false}
		}, opts)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		err := WithRetry(context.Background(), func() error {
			return errors.New("always")
		}, opts)
		assert.ErrorIs(t, err, ErrMaxRetries)
	})
}
