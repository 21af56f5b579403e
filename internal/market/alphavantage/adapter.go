package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"marketwatch/internal/market"
)

// Adapter exposes a Client as a market.Source, applying the sentinel rules
// and translating provider notices into market errors.
type Adapter struct {
	client *Client
}

// NewAdapter wraps client.
func NewAdapter(client *Client) *Adapter {
	return &Adapter{client: client}
}

var _ market.Source = (*Adapter)(nil)

// GetQuote implements market.Source.
func (a *Adapter) GetQuote(ctx context.Context, symbol string) (market.Quote, error) {
	res, err := a.client.GetGlobalQuote(ctx, symbol)
	if err != nil {
		return market.Quote{}, classify(err)
	}
	if err := noticeErr(res.Notice); err != nil {
		return market.Quote{}, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if res.Quote == nil || res.Quote.Empty() {
		return market.Quote{}, fmt.Errorf("quote %s: %w", symbol, market.ErrNotFound)
	}
	q := res.Quote
	return market.Quote{
		Symbol:        strings.ToUpper(q.Symbol.Or(symbol)),
		Price:         q.Price.Or(market.NotAvailable),
		ChangePercent: q.ChangePercent.Or(market.ZeroChangePercent),
	}, nil
}

// GetExchangeRate implements market.Source.
func (a *Adapter) GetExchangeRate(ctx context.Context, from, to string) (market.CurrencyPair, error) {
	res, err := a.client.GetCurrencyExchangeRate(ctx, from, to)
	if err != nil {
		return market.CurrencyPair{}, classify(err)
	}
	if err := noticeErr(res.Notice); err != nil {
		return market.CurrencyPair{}, fmt.Errorf("exchange rate %s/%s: %w", from, to, err)
	}
	if res.Rate == nil {
		return market.CurrencyPair{}, fmt.Errorf("exchange rate %s/%s: %w", from, to, market.ErrNotFound)
	}
	r := res.Rate
	return market.CurrencyPair{
		FromCurrency: strings.ToUpper(r.FromCode.Or(from)),
		ToCurrency:   strings.ToUpper(r.ToCode.Or(to)),
		ExchangeRate: r.Rate.Or(market.NotAvailable),
	}, nil
}

// GetCommoditySeries implements market.Source.
func (a *Adapter) GetCommoditySeries(ctx context.Context, function, interval string) (market.Series, error) {
	res, err := a.client.GetCommodity(ctx, function, interval)
	if err != nil {
		return market.Series{}, classify(err)
	}
	if err := noticeErr(res.Notice); err != nil {
		return market.Series{}, fmt.Errorf("commodity %s: %w", function, err)
	}
	points := make([]market.RawPoint, 0, len(res.Data))
	for _, p := range res.Data {
		points = append(points, market.RawPoint{Date: p.Date, Value: p.Value})
	}
	return market.Series{
		Name:     res.Name,
		Interval: res.Interval,
		Unit:     res.Unit,
		Points:   points,
	}, nil
}

func noticeErr(n Notice) error {
	switch {
	case n.RateLimited():
		return market.ErrRateLimited
	case n.ErrorMessage != "":
		return fmt.Errorf("%w: %s", market.ErrNotFound, n.ErrorMessage)
	}
	return nil
}

// classify maps client errors onto the market taxonomy.
func classify(err error) error {
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", market.ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %w", market.ErrTransport, err)
}
