package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the circuit breaker guarding upstream calls.
type BreakerConfig struct {
	// Name identifies the breaker in logs and metrics.
	Name string

	// FailureThreshold is the number of consecutive failures before opening.
	FailureThreshold uint32

	// Timeout is the duration in open state before transitioning to half-open.
	Timeout time.Duration

	// MaxRequests is the number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic reset period for counts while closed.
	// Zero keeps counts until the state changes.
	Interval time.Duration
}

// DefaultBreakerConfig returns production defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "freetogame",
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// fetchResult is what the breaker-guarded call yields for any response
// the upstream actually sent, successful or not.
type fetchResult struct {
	status int
	body   []byte
}

func newBreaker(cfg BreakerConfig, logger zerolog.Logger) *gobreaker.CircuitBreaker[fetchResult] {
	threshold := cfg.FailureThreshold
	catalogBreakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker[fetchResult](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			catalogBreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Catalog circuit breaker state changed")
		},
		// A caller giving up says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
}

// isBreakerRejection reports whether err came from the breaker itself
// rather than from the upstream.
func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
