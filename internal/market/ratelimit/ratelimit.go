// Package ratelimit gates calls to a market.Source so the upstream quota is
// spent deliberately instead of being answered with rate-limit notices.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"marketwatch/internal/market"
)

// Source wraps a market.Source and waits on a limiter before every call.
// A call whose context ends while waiting returns the context error without
// reaching the wrapped source.
type Source struct {
	next    market.Source
	limiter *rate.Limiter
}

var _ market.Source = (*Source)(nil)

// Wrap gates next with limiter. A nil limiter lets every call through.
func Wrap(next market.Source, limiter *rate.Limiter) *Source {
	return &Source{next: next, limiter: limiter}
}

// MinInterval allows at most one call per interval. Values <= 0 disable the
// gate.
func MinInterval(next market.Source, interval time.Duration) *Source {
	if interval <= 0 {
		return Wrap(next, nil)
	}
	return Wrap(next, rate.NewLimiter(rate.Every(interval), 1))
}

func (s *Source) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

func (s *Source) GetQuote(ctx context.Context, symbol string) (market.Quote, error) {
	if err := s.wait(ctx); err != nil {
		return market.Quote{}, err
	}
	return s.next.GetQuote(ctx, symbol)
}

func (s *Source) GetExchangeRate(ctx context.Context, from, to string) (market.CurrencyPair, error) {
	if err := s.wait(ctx); err != nil {
		return market.CurrencyPair{}, err
	}
	return s.next.GetExchangeRate(ctx, from, to)
}

func (s *Source) GetCommoditySeries(ctx context.Context, function, interval string) (market.Series, error) {
	if err := s.wait(ctx); err != nil {
		return market.Series{}, err
	}
	return s.next.GetCommoditySeries(ctx, function, interval)
}
