package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{
			name:      "succeeds first time",
			errs:      []error{nil},
			wantCalls: 1,
		},
		{
			name:      "retries rate limit then succeeds",
			errs:      []error{ErrPlaidRateLimit, fmt.Errorf("wrapped: %w", ErrRateLimit), nil},
			wantCalls: 3,
		},
		{
			name:      "stops on permanent error",
			errs:      []error{ErrInvalidAccount},
			wantCalls: 1,
			wantErr:   ErrInvalidAccount,
		},
		{
			name:      "explicitly non-retryable",
			errs:      []error{&RetryableError{Err: errors.New("bad request"), Retryable: false}},
			wantCalls: 1,
		},
		{
			name:      "gives up after max attempts",
			errs:      []error{context.DeadlineExceeded, context.DeadlineExceeded, context.DeadlineExceeded},
			wantCalls: 3,
			wantErr:   ErrMaxRetries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				err := tt.errs[calls]
				calls++
				return err
			}, fastRetry(3))

			assert.Equal(t, tt.wantCalls, calls)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errs[len(tt.errs)-1] == nil:
				assert.NoError(t, err)
			default:
				assert.Error(t, err)
			}
		})
	}
}

func TestWithRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithRetry(ctx, func() error {
		called = true
		return nil
	}, fastRetry(3))

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(fmt.Errorf("sync: %w", ErrPlaidRateLimit)))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("503"), Retryable: true}))
	assert.False(t, IsRetryable(ErrPlaidConnection))
	assert.False(t, IsRetryable(errors.New("boom")))
}

func TestUserError(t *testing.T) {
	err := NewUserError("rule 7 does not exist", ErrNotFound)
	assert.Equal(t, "rule 7 does not exist: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	var userErr *UserError
	require.ErrorAs(t, fmt.Errorf("delete: %w", err), &userErr)
	assert.Equal(t, "rule 7 does not exist", userErr.UserMessage)

	assert.Equal(t, "just a message", NewUserError("just a message", nil).Error())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"DEBUG", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	assert.NoError(t, SetupLogger(slog.LevelWarn, "json"))
	assert.NoError(t, SetupLogger(slog.LevelInfo, ""))
	assert.ErrorIs(t, SetupLogger(slog.LevelInfo, "xml"), ErrInvalidConfig)
}

func TestParseFailurePolicy(t *testing.T) {
	p, err := ParseFailurePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyDegrade, p)

	p, err = ParseFailurePolicy(" Propagate ")
	require.NoError(t, err)
	assert.Equal(t, PolicyPropagate, p)

	_, err = ParseFailurePolicy("panic")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestCompileFold(t *testing.T) {
	re, err := CompileFold(`^amzn\s+mktp`)
	require.NoError(t, err)
	assert.True(t, re.MatchString("AMZN Mktp US"))

	_, err = CompileFold("(")
	assert.Error(t, err)
}
