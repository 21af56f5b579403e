// Package breaker stops calling a market.Source that keeps failing in
// transport, and probes it again after a cool-down.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"marketwatch/internal/market"
)

// Settings tune the breaker. Zero values take the defaults.
type Settings struct {
	// Failures is the number of consecutive failed calls that opens the breaker.
	Failures uint32
	// Cooldown is how long the breaker stays open before a probe call.
	Cooldown time.Duration
	Logger   *slog.Logger
}

const (
	DefaultFailures = 5
	DefaultCooldown = 30 * time.Second
)

// Source wraps a market.Source with a circuit breaker. Transport failures and
// rate-limit answers count against the upstream; not-found does not. While
// open, calls fail fast with an error wrapping market.ErrTransport.
type Source struct {
	next market.Source
	cb   *gobreaker.CircuitBreaker
}

var _ market.Source = (*Source)(nil)

func Wrap(next market.Source, s Settings) *Source {
	if s.Failures == 0 {
		s.Failures = DefaultFailures
	}
	if s.Cooldown <= 0 {
		s.Cooldown = DefaultCooldown
	}
	failures := s.Failures
	log := s.Logger

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "alphavantage",
		MaxRequests: 1,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !(errors.Is(err, market.ErrTransport) || errors.Is(err, market.ErrRateLimited))
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.Warn("upstream breaker state changed", "name", name, "from", from.String(), "to", to.String())
			}
		},
	})
	return &Source{next: next, cb: cb}
}

// State reports the breaker state as "closed", "half-open" or "open".
func (s *Source) State() string { return s.cb.State().String() }

func (s *Source) GetQuote(ctx context.Context, symbol string) (market.Quote, error) {
	return execute(s, func() (market.Quote, error) { return s.next.GetQuote(ctx, symbol) })
}

func (s *Source) GetExchangeRate(ctx context.Context, from, to string) (market.CurrencyPair, error) {
	return execute(s, func() (market.CurrencyPair, error) { return s.next.GetExchangeRate(ctx, from, to) })
}

func (s *Source) GetCommoditySeries(ctx context.Context, function, interval string) (market.Series, error) {
	return execute(s, func() (market.Series, error) { return s.next.GetCommoditySeries(ctx, function, interval) })
}

func execute[T any](s *Source, call func() (T, error)) (T, error) {
	var zero T
	v, err := s.cb.Execute(func() (interface{}, error) {
		return call()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%w: %w", market.ErrTransport, err)
	}
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
