package resilience

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExecutePassesThroughResult(t *testing.T) {
	p := NewPolicy(Config{Name: "test"}, zap.NewNop())

	got, err := Execute(p, func() (string, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestExecutePassesThroughCallError(t *testing.T) {
	p := NewPolicy(Config{Name: "test"}, zap.NewNop())
	callErr := errors.New("boom")

	_, err := Execute(p, func() (string, error) {
		return "", callErr
	})

	require.Error(t, err)
	assert.Equal(t, callErr, err)
	assert.False(t, errors.Is(err, ErrUnavailable), "ordinary failures must stay distinguishable from open-state rejections")
}

func TestExecuteTripsAfterThreshold(t *testing.T) {
	p := NewPolicy(Config{Name: "test", FailureThreshold: 2}, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := Execute(p, func() (int, error) {
			return 0, errors.New("boom")
		})
		require.Error(t, err)
	}

	calls := 0
	_, err := Execute(p, func() (int, error) {
		calls++
		return 1, nil
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, 0, calls, "open breaker must not attempt the call")
}

func TestExecuteWithFallback(t *testing.T) {
	p := NewPolicy(Config{Name: "test", FailureThreshold: 1}, zap.NewNop())

	// ordinary failure goes to the caller, not the fallback
	fallbackCalls := 0
	_, err := ExecuteWithFallback(p,
		func() (string, error) { return "", errors.New("boom") },
		func(cause error) (string, error) {
			fallbackCalls++
			return "fallback", nil
		})
	require.Error(t, err)
	assert.Equal(t, 0, fallbackCalls)

	// breaker is now open, next call is rejected and routed to the fallback
	got, err := ExecuteWithFallback(p,
		func() (string, error) { return "live", nil },
		func(cause error) (string, error) {
			fallbackCalls++
			assert.True(t, errors.Is(cause, ErrUnavailable))
			return "fallback", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
	assert.Equal(t, 1, fallbackCalls)
}
