package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestPolicyDoAttemptCount(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		wantCalls  int
	}{
		{"no retries", 0, 1},
		{"two retries", 2, 3},
		{"five retries", 5, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			p := Policy{MaxRetries: tt.maxRetries, Logger: logrus.New()}
			err := p.Do(context.Background(), "op", func() error {
				calls++
				return errors.New("boom")
			})
			assert.Error(t, err)
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestPolicyDoStopsOnSuccess(t *testing.T) {
	calls := 0
	p := Policy{MaxRetries: 3, Logger: logrus.New()}
	err := p.Do(context.Background(), "op", func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPolicyDoHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	p := Policy{MaxRetries: 2, Logger: logrus.New()}
	err := p.Do(ctx, "op", func() error {
		calls++
		return errors.New("boom")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestIsAccessDenied(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"status 403", fmt.Errorf("API request failed with status 403: forbidden"), true},
		{"status 401", fmt.Errorf("API request failed with status 401: unauthorized"), true},
		{"403 access denied text", errors.New("error code 403: Access denied by gateway"), true},
		{"plain 403 without text", errors.New("saw 403 somewhere"), false},
		{"rate limit", fmt.Errorf("API request failed with status 429: rate limited"), false},
		{"network", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAccessDenied(tt.err))
		})
	}
}
