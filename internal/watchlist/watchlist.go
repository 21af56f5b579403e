// Package watchlist keeps the bounded stock, currency-pair and commodity
// collections a presentation layer reads, and refreshes them from a
// market.Source.
//
// Each collection has its own lock and its own busy counter. Network calls
// run outside any lock; the merge into a collection is atomic. Fetches on
// different collections never affect each other's busy state, and overlapping
// fetches on the same collection keep it busy until the last one resolves.
//
// A fetch whose caller has gone away still commits its result when the
// upstream call succeeds; cancellation is only observed through ctx by the
// Source.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"marketwatch/internal/aggregate"
	"marketwatch/internal/logging"
	"marketwatch/internal/market"
	"marketwatch/internal/metrics"
	"marketwatch/internal/timewindow"
)

var (
	ErrInvalidSymbol    = errors.New("watchlist: symbol is required")
	ErrInvalidCurrency  = errors.New("watchlist: both currency codes are required")
	ErrInvalidCommodity = errors.New("watchlist: commodity name is required")
	ErrWatchlistFull    = errors.New("watchlist: collection is full")
)

// Chart is the current commodity series.
type Chart struct {
	Commodity string                  `json:"commodity"`
	Interval  string                  `json:"interval"`
	Unit      string                  `json:"unit"`
	Points    []market.CommodityPoint `json:"points"`
}

// Status reports which collections have a fetch in flight.
type Status struct {
	Stocks      bool `json:"stocks"`
	Forex       bool `json:"forex"`
	Commodities bool `json:"commodities"`
}

// Watchlist owns the three collections. Construct one with New and share the
// pointer; the zero value is not usable.
type Watchlist struct {
	source market.Source

	maxStocks          int
	maxPairs           int
	pairPolicy         aggregate.Policy
	refreshConcurrency int
	now                func() time.Time
	log                *slog.Logger
	metrics            *metrics.Metrics
	events             *broker

	stocksMu sync.Mutex
	stocks   []market.Quote

	pairsMu sync.Mutex
	pairs   []market.CurrencyPair

	chartMu sync.Mutex
	chart   Chart

	busyStocks      atomic.Int32
	busyForex       atomic.Int32
	busyCommodities atomic.Int32
}

// New returns a Watchlist reading from source.
func New(source market.Source, opts ...Option) *Watchlist {
	w := &Watchlist{
		source:             source,
		maxStocks:          DefaultMaxStocks,
		maxPairs:           DefaultMaxPairs,
		pairPolicy:         aggregate.AppendAlways,
		refreshConcurrency: DefaultRefreshConcurrency,
		now:                time.Now,
		log:                logging.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.events = newBroker(w.metrics)
	return w
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func symbolKey(q market.Quote) string { return q.Symbol }

func pairKey(p market.CurrencyPair) string { return p.Key() }

// Stocks returns a copy of the stock collection in insertion order.
func (w *Watchlist) Stocks() []market.Quote {
	w.stocksMu.Lock()
	defer w.stocksMu.Unlock()
	return append([]market.Quote(nil), w.stocks...)
}

// CurrencyPairs returns a copy of the currency-pair collection.
func (w *Watchlist) CurrencyPairs() []market.CurrencyPair {
	w.pairsMu.Lock()
	defer w.pairsMu.Unlock()
	return append([]market.CurrencyPair(nil), w.pairs...)
}

// Commodities returns a copy of the current commodity points, ascending by date.
func (w *Watchlist) Commodities() []market.CommodityPoint {
	w.chartMu.Lock()
	defer w.chartMu.Unlock()
	return append([]market.CommodityPoint(nil), w.chart.Points...)
}

// Chart returns a copy of the current commodity series with its metadata.
func (w *Watchlist) Chart() Chart {
	w.chartMu.Lock()
	defer w.chartMu.Unlock()
	c := w.chart
	c.Points = append([]market.CommodityPoint(nil), w.chart.Points...)
	return c
}

// Status returns the busy flag of every collection.
func (w *Watchlist) Status() Status {
	return Status{
		Stocks:      w.busyStocks.Load() > 0,
		Forex:       w.busyForex.Load() > 0,
		Commodities: w.busyCommodities.Load() > 0,
	}
}

// Busy reports whether kind has a fetch in flight.
func (w *Watchlist) Busy(kind Kind) bool {
	if c := w.busy(kind); c != nil {
		return c.Load() > 0
	}
	return false
}

// Subscribe returns a channel of events with the given buffer and a function
// that unsubscribes and closes it. Events that do not fit the buffer are
// dropped for that subscriber.
func (w *Watchlist) Subscribe(buffer int) (<-chan Event, func()) {
	return w.events.subscribe(buffer)
}

// Close closes every subscription.
func (w *Watchlist) Close() { w.events.close() }

// FetchStock fetches symbol and merges it into the stock collection,
// replacing any entry with the same symbol. A new symbol is refused with
// ErrWatchlistFull when the collection is at capacity. On error the
// collection is left unchanged. The stored quote is keyed by the normalized
// requested symbol, whatever symbol the provider echoes.
func (w *Watchlist) FetchStock(ctx context.Context, symbol string) (market.Quote, error) {
	return w.fetchStock(ctx, symbol, false)
}

// fetchStock fetches symbol and commits the quote. With onlyWatched set the
// quote replaces an existing entry and is dropped if the symbol was removed
// meanwhile.
func (w *Watchlist) fetchStock(ctx context.Context, symbol string, onlyWatched bool) (market.Quote, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return market.Quote{}, w.fail(KindStocks, OpFetch, symbol, ErrInvalidSymbol)
	}
	if !onlyWatched {
		if err := w.stockRoom(symbol); err != nil {
			return market.Quote{}, w.fail(KindStocks, OpFetch, symbol, err)
		}
	}

	release := w.acquire(KindStocks)
	defer release()

	start := time.Now()
	q, err := w.source.GetQuote(ctx, symbol)
	w.metrics.ObserveFetch(string(KindStocks), outcome(err), time.Since(start))
	if err != nil {
		return market.Quote{}, w.fail(KindStocks, OpFetch, symbol, fmt.Errorf("fetch stock %s: %w", symbol, err))
	}
	q.Symbol = symbol

	w.stocksMu.Lock()
	grows := aggregate.Grows(w.stocks, symbol, aggregate.ReplaceByKey, symbolKey)
	if grows && onlyWatched {
		w.stocksMu.Unlock()
		w.log.Debug("refreshed stock no longer watched", "symbol", symbol)
		return q, nil
	}
	if grows && len(w.stocks) >= w.maxStocks {
		w.stocksMu.Unlock()
		return market.Quote{}, w.fail(KindStocks, OpFetch, symbol, fmt.Errorf("stock %s: %w", symbol, ErrWatchlistFull))
	}
	w.stocks = aggregate.Merge(w.stocks, q, aggregate.ReplaceByKey, symbolKey)
	n := len(w.stocks)
	w.stocksMu.Unlock()

	w.committed(KindStocks, OpFetch, symbol, n)
	return q, nil
}

// RemoveStock removes every entry for symbol. Removing an absent symbol is a
// no-op.
func (w *Watchlist) RemoveStock(symbol string) {
	symbol = NormalizeSymbol(symbol)
	w.stocksMu.Lock()
	w.stocks = aggregate.RemoveAll(w.stocks, symbol, symbolKey)
	n := len(w.stocks)
	w.stocksMu.Unlock()

	w.committed(KindStocks, OpRemove, symbol, n)
}

// RefreshStocks refetches every watched symbol with bounded concurrency. All
// symbols are attempted; the failures are joined into the returned error. A
// symbol removed while its refresh is in flight stays removed.
func (w *Watchlist) RefreshStocks(ctx context.Context) error {
	stocks := w.Stocks()

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	g.SetLimit(w.refreshConcurrency)
	for _, q := range stocks {
		g.Go(func() error {
			if _, err := w.fetchStock(ctx, q.Symbol, true); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	w.events.publish(Event{Kind: KindStocks, Op: OpRefresh, Size: len(w.Stocks()), Err: err, At: w.now()})
	return err
}

// FetchCurrencyPair fetches the rate from one currency to another and merges
// it under the configured pair policy. With the default AppendAlways policy
// repeated fetches of the same pair accumulate.
func (w *Watchlist) FetchCurrencyPair(ctx context.Context, from, to string) (market.CurrencyPair, error) {
	from, to = NormalizeSymbol(from), NormalizeSymbol(to)
	key := market.CurrencyPair{FromCurrency: from, ToCurrency: to}.Key()
	if from == "" || to == "" {
		return market.CurrencyPair{}, w.fail(KindForex, OpFetch, key, ErrInvalidCurrency)
	}
	if err := w.pairRoom(key); err != nil {
		return market.CurrencyPair{}, w.fail(KindForex, OpFetch, key, err)
	}

	release := w.acquire(KindForex)
	defer release()

	start := time.Now()
	pair, err := w.source.GetExchangeRate(ctx, from, to)
	w.metrics.ObserveFetch(string(KindForex), outcome(err), time.Since(start))
	if err != nil {
		return market.CurrencyPair{}, w.fail(KindForex, OpFetch, key, fmt.Errorf("fetch pair %s: %w", key, err))
	}
	if pair.FromCurrency == "" {
		pair.FromCurrency = from
	}
	if pair.ToCurrency == "" {
		pair.ToCurrency = to
	}

	w.pairsMu.Lock()
	if aggregate.Grows(w.pairs, pair.Key(), w.pairPolicy, pairKey) && len(w.pairs) >= w.maxPairs {
		w.pairsMu.Unlock()
		return market.CurrencyPair{}, w.fail(KindForex, OpFetch, key, fmt.Errorf("pair %s: %w", pair.Key(), ErrWatchlistFull))
	}
	w.pairs = aggregate.Merge(w.pairs, pair, w.pairPolicy, pairKey)
	n := len(w.pairs)
	w.pairsMu.Unlock()

	w.committed(KindForex, OpFetch, pair.Key(), n)
	return pair, nil
}

// RemoveCurrencyPair removes every entry for the exact ordered pair.
func (w *Watchlist) RemoveCurrencyPair(from, to string) {
	key := market.CurrencyPair{FromCurrency: NormalizeSymbol(from), ToCurrency: NormalizeSymbol(to)}.Key()
	w.pairsMu.Lock()
	w.pairs = aggregate.RemoveAll(w.pairs, key, pairKey)
	n := len(w.pairs)
	w.pairsMu.Unlock()

	w.committed(KindForex, OpRemove, key, n)
}

// FetchCommodity fetches a commodity series and replaces the commodity
// collection with its points inside the lookback window of the interval the
// provider reports (the requested one when the provider reports none).
// Points whose value does not parse are left out. An empty upstream series
// clears the collection and is not an error.
func (w *Watchlist) FetchCommodity(ctx context.Context, name, interval string) ([]market.CommodityPoint, error) {
	name = NormalizeSymbol(name)
	interval = strings.ToLower(strings.TrimSpace(interval))
	if name == "" {
		return nil, w.fail(KindCommodities, OpFetch, name, ErrInvalidCommodity)
	}

	release := w.acquire(KindCommodities)
	defer release()

	start := time.Now()
	series, err := w.source.GetCommoditySeries(ctx, name, interval)
	w.metrics.ObserveFetch(string(KindCommodities), outcome(err), time.Since(start))
	if err != nil {
		return nil, w.fail(KindCommodities, OpFetch, name, fmt.Errorf("fetch commodity %s: %w", name, err))
	}

	served := strings.TrimSpace(series.Interval)
	if served == "" {
		served = interval
	}
	chart := Chart{Commodity: name, Interval: served, Unit: series.Unit, Points: []market.CommodityPoint{}}

	if len(series.Points) > 0 {
		window := timewindow.Filter(series.Points, served, w.now())
		points, rejected := market.ParsePoints(window)
		if len(rejected) > 0 {
			w.metrics.RejectPoints(len(rejected))
			w.log.Warn("commodity points rejected", "commodity", name, "count", len(rejected), "first", rejected[0])
		}
		chart.Points = points
	}

	w.chartMu.Lock()
	w.chart = chart
	n := len(chart.Points)
	w.chartMu.Unlock()

	w.committed(KindCommodities, OpFetch, name, n)
	return append([]market.CommodityPoint(nil), chart.Points...), nil
}

func (w *Watchlist) stockRoom(symbol string) error {
	w.stocksMu.Lock()
	defer w.stocksMu.Unlock()
	if aggregate.Grows(w.stocks, symbol, aggregate.ReplaceByKey, symbolKey) && len(w.stocks) >= w.maxStocks {
		return fmt.Errorf("stock %s: %w", symbol, ErrWatchlistFull)
	}
	return nil
}

func (w *Watchlist) pairRoom(key string) error {
	w.pairsMu.Lock()
	defer w.pairsMu.Unlock()
	if aggregate.Grows(w.pairs, key, w.pairPolicy, pairKey) && len(w.pairs) >= w.maxPairs {
		return fmt.Errorf("pair %s: %w", key, ErrWatchlistFull)
	}
	return nil
}

func (w *Watchlist) busy(kind Kind) *atomic.Int32 {
	switch kind {
	case KindStocks:
		return &w.busyStocks
	case KindForex:
		return &w.busyForex
	case KindCommodities:
		return &w.busyCommodities
	}
	return nil
}

// acquire marks kind busy until the returned function runs.
func (w *Watchlist) acquire(kind Kind) func() {
	c := w.busy(kind)
	c.Add(1)
	w.metrics.AddInFlight(string(kind), 1)
	return func() {
		c.Add(-1)
		w.metrics.AddInFlight(string(kind), -1)
	}
}

func (w *Watchlist) committed(kind Kind, op Op, key string, size int) {
	w.metrics.SetSize(string(kind), size)
	w.log.Debug("watchlist updated", "kind", kind, "op", op, "key", key, "size", size)
	w.events.publish(Event{Kind: kind, Op: op, Key: key, Size: size, At: w.now()})
}

func (w *Watchlist) fail(kind Kind, op Op, key string, err error) error {
	w.log.Warn("watchlist operation failed", "kind", kind, "op", op, "key", key, "error", err)
	w.events.publish(Event{Kind: kind, Op: op, Key: key, Size: w.size(kind), Err: err, At: w.now()})
	return err
}

func (w *Watchlist) size(kind Kind) int {
	switch kind {
	case KindStocks:
		w.stocksMu.Lock()
		defer w.stocksMu.Unlock()
		return len(w.stocks)
	case KindForex:
		w.pairsMu.Lock()
		defer w.pairsMu.Unlock()
		return len(w.pairs)
	default:
		w.chartMu.Lock()
		defer w.chartMu.Unlock()
		return len(w.chart.Points)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, market.ErrRateLimited):
		return metrics.OutcomeRateLimited
	case errors.Is(err, market.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, market.ErrTransport):
		return metrics.OutcomeTransport
	default:
		return metrics.OutcomeError
	}
}
