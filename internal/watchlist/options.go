package watchlist

import (
	"log/slog"
	"time"

	"marketwatch/internal/aggregate"
	"marketwatch/internal/metrics"
)

// Default bounds of the stock and currency-pair collections.
const (
	DefaultMaxStocks          = 5
	DefaultMaxPairs           = 5
	DefaultRefreshConcurrency = 2
)

// Option configures a Watchlist.
type Option func(*Watchlist)

// WithMaxStocks bounds the stock collection. Values <= 0 are ignored.
func WithMaxStocks(n int) Option {
	return func(w *Watchlist) {
		if n > 0 {
			w.maxStocks = n
		}
	}
}

// WithMaxPairs bounds the currency-pair collection. Values <= 0 are ignored.
func WithMaxPairs(n int) Option {
	return func(w *Watchlist) {
		if n > 0 {
			w.maxPairs = n
		}
	}
}

// WithPairPolicy sets how a fetched pair merges with existing entries for the
// same ordered pair. The default is aggregate.AppendAlways.
func WithPairPolicy(p aggregate.Policy) Option {
	return func(w *Watchlist) { w.pairPolicy = p }
}

// WithRefreshConcurrency bounds the concurrent upstream calls of RefreshStocks.
func WithRefreshConcurrency(n int) Option {
	return func(w *Watchlist) {
		if n > 0 {
			w.refreshConcurrency = n
		}
	}
}

// WithClock overrides the time source used for commodity windows.
func WithClock(now func() time.Time) Option {
	return func(w *Watchlist) {
		if now != nil {
			w.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(w *Watchlist) {
		if log != nil {
			w.log = log
		}
	}
}

// WithMetrics records fetch and collection metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Watchlist) { w.metrics = m }
}
