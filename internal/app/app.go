// Package app assembles the upstream source chain and the watchlist from
// configuration. Both cmd/server and cmd/fetch build through it.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"marketwatch/internal/aggregate"
	"marketwatch/internal/config"
	"marketwatch/internal/market"
	"marketwatch/internal/market/alphavantage"
	"marketwatch/internal/market/breaker"
	"marketwatch/internal/market/ratelimit"
	"marketwatch/internal/market/retry"
	"marketwatch/internal/metrics"
	"marketwatch/internal/watchlist"
)

// NewSource builds the Alpha Vantage source, gated by the rate limiter,
// guarded by the breaker and retried on transport failures, in that order
// from the inside out.
func NewSource(cfg config.AlphaVantage, httpClient alphavantage.HTTPClient, log *slog.Logger) (market.Source, error) {
	client, err := alphavantage.NewClient(cfg.APIKey,
		alphavantage.WithBaseURL(cfg.BaseURL),
		alphavantage.WithHTTPClient(httpClient),
		alphavantage.WithHeader(http.Header{"Accept": []string{"application/json"}}),
	)
	if err != nil {
		return nil, err
	}

	var src market.Source = alphavantage.NewAdapter(client)
	src = ratelimit.TokenBucket(src, cfg.MaxRequestsPerMinute, cfg.Burst)
	if cfg.BreakerFailures > 0 {
		src = breaker.Wrap(src, breaker.Settings{
			Failures: uint32(cfg.BreakerFailures),
			Cooldown: time.Duration(cfg.BreakerCooldownSec) * time.Second,
			Logger:   log,
		})
	}
	src = retry.Wrap(src, cfg.MaxRetries, 0)
	return src, nil
}

// NewWatchlist builds a watchlist over src. The pair policy must already be
// valid, which config.Load guarantees.
func NewWatchlist(cfg config.Watchlist, src market.Source, log *slog.Logger, m *metrics.Metrics) (*watchlist.Watchlist, error) {
	policy, err := aggregate.ParsePolicy(cfg.PairPolicy)
	if err != nil {
		return nil, err
	}
	return watchlist.New(src,
		watchlist.WithMaxStocks(cfg.MaxStocks),
		watchlist.WithMaxPairs(cfg.MaxPairs),
		watchlist.WithPairPolicy(policy),
		watchlist.WithRefreshConcurrency(cfg.RefreshConcurrency),
		watchlist.WithLogger(log),
		watchlist.WithMetrics(m),
	), nil
}
