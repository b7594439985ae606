// Package resilience wraps outbound calls in a circuit breaker. Business code
// sees two outcomes only: the call's own result, or ErrUnavailable when the
// policy refuses to attempt the call at all.
package resilience

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when the breaker is open and the call was never
// attempted. Callers branch to their fallback on this error.
var ErrUnavailable = errors.New("target unavailable")

type Config struct {
	// Name identifies the protected target in logs and state transitions.
	Name string
	// FailureThreshold is the number of consecutive failures that trips the
	// breaker. Defaults to 5.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	// Defaults to 30s.
	OpenTimeout time.Duration
	// MaxHalfOpenRequests bounds probe traffic while half-open. Defaults to 1.
	MaxHalfOpenRequests uint32
}

type Policy struct {
	cb *gobreaker.CircuitBreaker
}

func NewPolicy(cfg Config, logger *zap.Logger) *Policy {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.MaxHalfOpenRequests == 0 {
		cfg.MaxHalfOpenRequests = 1
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxHalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("target", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Policy{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs call through the policy. Failures returned by call count
// toward the trip threshold and pass through unchanged; when the breaker
// rejects the call outright the error wraps ErrUnavailable.
func Execute[T any](p *Policy, call func() (T, error)) (T, error) {
	v, err := p.cb.Execute(func() (any, error) {
		return call()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w", p.cb.Name(), ErrUnavailable)
		}
		return zero, err
	}
	return v.(T), nil
}

// ExecuteWithFallback runs call through the policy and invokes fallback only
// when the policy reports the target unavailable. Ordinary call failures are
// returned to the caller untouched.
func ExecuteWithFallback[T any](p *Policy, call func() (T, error), fallback func(cause error) (T, error)) (T, error) {
	v, err := Execute(p, call)
	if err != nil && errors.Is(err, ErrUnavailable) {
		return fallback(err)
	}
	return v, err
}
