// Package retry repeats market.Source calls that failed in transport.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"marketwatch/internal/market"
)

// DefaultInitialInterval is the wait before the first retry.
const DefaultInitialInterval = 500 * time.Millisecond

// Source retries calls to the wrapped source that fail with
// market.ErrTransport, up to maxRetries extra attempts with exponential
// backoff. Not-found and rate-limited answers are returned at once, as is any
// error once ctx is done.
type Source struct {
	next       market.Source
	maxRetries uint64
	initial    time.Duration
}

var _ market.Source = (*Source)(nil)

// Wrap returns next with retries. maxRetries <= 0 disables them; initial <= 0
// uses DefaultInitialInterval.
func Wrap(next market.Source, maxRetries int, initial time.Duration) *Source {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if initial <= 0 {
		initial = DefaultInitialInterval
	}
	return &Source{next: next, maxRetries: uint64(maxRetries), initial: initial}
}

func (s *Source) GetQuote(ctx context.Context, symbol string) (market.Quote, error) {
	return do(ctx, s, func() (market.Quote, error) { return s.next.GetQuote(ctx, symbol) })
}

func (s *Source) GetExchangeRate(ctx context.Context, from, to string) (market.CurrencyPair, error) {
	return do(ctx, s, func() (market.CurrencyPair, error) { return s.next.GetExchangeRate(ctx, from, to) })
}

func (s *Source) GetCommoditySeries(ctx context.Context, function, interval string) (market.Series, error) {
	return do(ctx, s, func() (market.Series, error) { return s.next.GetCommoditySeries(ctx, function, interval) })
}

func (s *Source) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initial
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, s.maxRetries), ctx)
}

func do[T any](ctx context.Context, s *Source, call func() (T, error)) (T, error) {
	return backoff.RetryWithData(func() (T, error) {
		v, err := call()
		if err != nil && (!errors.Is(err, market.ErrTransport) || ctx.Err() != nil) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, s.backOff(ctx))
}
