package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/visawatch/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
	}
}

func TestWithRetry(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		wantErr   error
		operation func(calls *int) error
		name      string
		attempts  int
		wantCalls int
	}{
		{
			name:      "succeeds first time",
			attempts:  3,
			operation: func(_ *int) error { return nil },
			wantCalls: 1,
		},
		{
			name:     "succeeds after failures",
			attempts: 3,
			operation: func(calls *int) error {
				if *calls < 3 {
					return boom
				}
				return nil
			},
			wantCalls: 3,
		},
		{
			name:      "exhausts attempts",
			attempts:  2,
			operation: func(_ *int) error { return boom },
			wantCalls: 2,
			wantErr:   ErrMaxRetries,
		},
		{
			name:      "permanent error stops immediately",
			attempts:  5,
			operation: func(_ *int) error { return Permanent(boom) },
			wantCalls: 1,
			wantErr:   boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				return tt.operation(&calls)
			}, fastRetry(tt.attempts))

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error { return errors.New("fail") }, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Second,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not load table", ErrEmptyTable)
	assert.Equal(t, "could not load table: table has no records", err.Error())
	assert.ErrorIs(t, err, ErrEmptyTable)

	bare := NewUserError("plain", nil)
	assert.Equal(t, "plain", bare.Error())
}

func TestMissingColumnError(t *testing.T) {
	err := MissingColumnError("Visa Expiry")
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), `"Visa Expiry"`)
}

func TestParseLevel(t *testing.T) {
	_, err := ParseLevel("debug")
	assert.NoError(t, err)
	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
