// internal/common/camunda/client_test.go
package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return &Client{
		config: &ClientConfig{
			RetryConfig: &RetryConfig{
				MaxRetries: 3,
				BaseDelay:  1 * time.Millisecond,
				MaxDelay:   5 * time.Millisecond,
			},
		},
	}
}

func TestExecuteWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	c := testClient()

	calls := 0
	result, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection refused")
		}
		return "ok", nil
	}, "test-op")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_DoesNotRetryPermanentErrors(t *testing.T) {
	c := testClient()

	calls := 0
	_, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("INVALID_ARGUMENT: variables must be a JSON object")
	}, "test-op")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	c := testClient()

	calls := 0
	_, err := c.ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("deadline exceeded")
	}, "test-op")

	require.Error(t, err)
	assert.Equal(t, 4, calls)
}

func TestExecuteWithRetry_StopsWhenContextCancelled(t *testing.T) {
	c := testClient()
	c.config.RetryConfig.BaseDelay = 1 * time.Second

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
			calls++
			return nil, errors.New("unavailable")
		}, "test-op")
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("retry loop did not stop after cancellation")
	}
}

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		err       string
		retryable bool
	}{
		{"connection refused", true},
		{"rpc error: code = Unavailable desc = transport closing", true},
		{"context deadline exceeded", true},
		{"write: broken pipe", true},
		{"NOT_FOUND: no such process definition", false},
		{"INVALID_ARGUMENT: bad variables", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.retryable, isRetryableZeebeError(errors.New(tt.err)), tt.err)
	}
}
