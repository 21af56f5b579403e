package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"

	"marketwatch/internal/optional"
)

// Function names understood by the query endpoint.
const (
	FunctionGlobalQuote  = "GLOBAL_QUOTE"
	FunctionExchangeRate = "CURRENCY_EXCHANGE_RATE"
)

// StatusError is returned when the endpoint answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	switch e.Code {
	case http.StatusBadRequest:
		return fmt.Sprintf("bad request: %s", e.Body)
	case http.StatusForbidden:
		return "unauthorized"
	case http.StatusTooManyRequests:
		return "rate limited"
	default:
		return fmt.Sprintf("unexpected status code: %d", e.Code)
	}
}

// Notice carries the top-level advisory keys the API uses instead of HTTP
// statuses. Note and Information signal quota exhaustion.
type Notice struct {
	Note         string `json:"Note,omitempty"`
	Information  string `json:"Information,omitempty"`
	ErrorMessage string `json:"Error Message,omitempty"`
}

// RateLimited reports whether the payload is a quota notice.
func (n Notice) RateLimited() bool { return n.Note != "" || n.Information != "" }

// GlobalQuote is the nested quote object of a GLOBAL_QUOTE response.
type GlobalQuote struct {
	Symbol           optional.Value[string] `json:"01. symbol"`
	Open             optional.Value[string] `json:"02. open"`
	High             optional.Value[string] `json:"03. high"`
	Low              optional.Value[string] `json:"04. low"`
	Price            optional.Value[string] `json:"05. price"`
	Volume           optional.Value[string] `json:"06. volume"`
	LatestTradingDay optional.Value[string] `json:"07. latest trading day"`
	PreviousClose    optional.Value[string] `json:"08. previous close"`
	Change           optional.Value[string] `json:"09. change"`
	ChangePercent    optional.Value[string] `json:"10. change percent"`
}

// Empty reports whether no field of the quote was present.
func (q GlobalQuote) Empty() bool {
	return !q.Symbol.Present() && !q.Price.Present() && !q.ChangePercent.Present()
}

// QuoteResponse is a GLOBAL_QUOTE response.
type QuoteResponse struct {
	Notice
	Quote *GlobalQuote `json:"Global Quote"`
}

// ExchangeRate is the nested object of a CURRENCY_EXCHANGE_RATE response.
type ExchangeRate struct {
	FromCode      optional.Value[string] `json:"1. From_Currency Code"`
	FromName      optional.Value[string] `json:"2. From_Currency Name"`
	ToCode        optional.Value[string] `json:"3. To_Currency Code"`
	ToName        optional.Value[string] `json:"4. To_Currency Name"`
	Rate          optional.Value[string] `json:"5. Exchange Rate"`
	LastRefreshed optional.Value[string] `json:"6. Last Refreshed"`
	TimeZone      optional.Value[string] `json:"7. Time Zone"`
	BidPrice      optional.Value[string] `json:"8. Bid Price"`
	AskPrice      optional.Value[string] `json:"9. Ask Price"`
}

// ExchangeResponse is a CURRENCY_EXCHANGE_RATE response.
type ExchangeResponse struct {
	Notice
	Rate *ExchangeRate `json:"Realtime Currency Exchange Rate"`
}

// CommodityPoint is a raw entry of a commodity series.
type CommodityPoint struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// CommodityResponse is the response of a commodity function (WHEAT, COPPER, ...).
type CommodityResponse struct {
	Notice
	Name     string           `json:"name"`
	Interval string           `json:"interval"`
	Unit     string           `json:"unit"`
	Data     []CommodityPoint `json:"data"`
}

// GetGlobalQuote retrieves the latest quote for symbol.
func (c *Client) GetGlobalQuote(ctx context.Context, symbol string, opts ...ClientOption) (*QuoteResponse, error) {
	params := url.Values{}
	params.Set("function", FunctionGlobalQuote)
	params.Set("symbol", symbol)

	var out QuoteResponse
	if err := c.with(opts).get(ctx, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCurrencyExchangeRate retrieves the realtime rate from one currency to another.
func (c *Client) GetCurrencyExchangeRate(ctx context.Context, from, to string, opts ...ClientOption) (*ExchangeResponse, error) {
	params := url.Values{}
	params.Set("function", FunctionExchangeRate)
	params.Set("from_currency", from)
	params.Set("to_currency", to)

	var out ExchangeResponse
	if err := c.with(opts).get(ctx, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCommodity retrieves a commodity series. The interval in the response is
// the one the provider actually served.
func (c *Client) GetCommodity(ctx context.Context, function, interval string, opts ...ClientOption) (*CommodityResponse, error) {
	params := url.Values{}
	params.Set("function", function)
	if interval != "" {
		params.Set("interval", interval)
	}

	var out CommodityResponse
	if err := c.with(opts).get(ctx, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	query := maps.Clone(c.query)
	if query == nil {
		query = url.Values{}
	}
	for k, v := range params {
		query[k] = v
	}

	url := fmt.Sprintf("%s/query?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return &StatusError{Code: res.StatusCode, Body: string(b)}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
