// Package market defines the normalized records exchanged between upstream
// clients and the watchlist, and the Source interface they implement.
package market

import (
	"context"
	"errors"
)

// Sentinels substituted when upstream omits a field.
const (
	NotAvailable      = "N/A"
	ZeroChangePercent = "0.00%"
)

var (
	// ErrNotFound means the upstream answered but carried no payload for the
	// request, typically an unknown symbol or currency code.
	ErrNotFound = errors.New("market: no data for request")
	// ErrRateLimited means the upstream refused the call because of quota.
	ErrRateLimited = errors.New("market: rate limited")
	// ErrTransport covers network, status and decode failures.
	ErrTransport = errors.New("market: transport failure")
)

// Quote is a single instrument snapshot. Price is kept as received.
type Quote struct {
	Symbol        string `json:"symbol"`
	Price         string `json:"price"`
	ChangePercent string `json:"change_percent"`
}

// CurrencyPair is an exchange rate between two currency codes.
type CurrencyPair struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	ExchangeRate string `json:"exchange_rate"`
}

// Key identifies the pair by its ordered codes.
func (p CurrencyPair) Key() string { return p.FromCurrency + "/" + p.ToCurrency }

// RawPoint is an undecoded date/value pair from a commodity series.
type RawPoint struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// Series is a commodity series as reported by the provider. Interval is the
// provider's echo and may differ from the requested one.
type Series struct {
	Name     string     `json:"name"`
	Interval string     `json:"interval"`
	Unit     string     `json:"unit"`
	Points   []RawPoint `json:"data"`
}

// CommodityPoint is a parsed point of a commodity series.
type CommodityPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Source fetches market data from an upstream provider.
//
//go:generate mockgen -package=watchlist_test -destination=../watchlist/mock_source_test.go -source=market.go Source
type Source interface {
	GetQuote(ctx context.Context, symbol string) (Quote, error)
	GetExchangeRate(ctx context.Context, from, to string) (CurrencyPair, error)
	GetCommoditySeries(ctx context.Context, function, interval string) (Series, error)
}
