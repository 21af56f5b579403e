package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"marketwatch/internal/app"
	"marketwatch/internal/config"
	"marketwatch/internal/httpx"
	"marketwatch/internal/logging"
	"marketwatch/internal/market"
	"marketwatch/internal/watchlist"
)

type result struct {
	Stocks []market.Quote        `json:"stocks"`
	Pairs  []market.CurrencyPair `json:"pairs"`
	Chart  *watchlist.Chart      `json:"chart,omitempty"`
	Errors []string              `json:"errors,omitempty"`
}

func main() {
	var (
		stocksCSV  string
		forexCSV   string
		commodity  string
		interval   string
		timeout    int
		configPath string
	)
	flag.StringVar(&stocksCSV, "stocks", "", "comma-separated ticker symbols, e.g. AAPL,MSFT")
	flag.StringVar(&forexCSV, "forex", "", "comma-separated FROM:TO pairs, e.g. USD:EUR,GBP:JPY")
	flag.StringVar(&commodity, "commodity", "", "commodity function name, e.g. WHEAT")
	flag.StringVar(&interval, "interval", "monthly", "commodity interval: daily, weekly, monthly, quarterly or annual")
	flag.IntVar(&timeout, "timeout", 0, "request timeout seconds (overrides config)")
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("config: %v", err)
	}
	if timeout > 0 {
		cfg.Server.RequestTimeoutSec = timeout
	}
	cfg.Log.Output = "stderr"
	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		fatal("logging: %v", err)
	}
	defer closer.Close()

	src, err := app.NewSource(cfg.AlphaVantage, httpx.New(cfg.Server.RequestTimeout(), ""), log)
	if err != nil {
		fatal("alphavantage: %v", err)
	}
	wl, err := app.NewWatchlist(cfg.Watchlist, src, log, nil)
	if err != nil {
		fatal("watchlist: %v", err)
	}
	defer wl.Close()

	ctx := context.Background()
	var out result
	record := func(err error) {
		if err != nil {
			out.Errors = append(out.Errors, err.Error())
		}
	}

	for _, s := range splitCSV(stocksCSV) {
		_, err := wl.FetchStock(ctx, s)
		record(err)
	}
	for _, p := range splitCSV(forexCSV) {
		from, to, ok := strings.Cut(p, ":")
		if !ok {
			record(fmt.Errorf("pair %q: want FROM:TO", p))
			continue
		}
		_, err := wl.FetchCurrencyPair(ctx, from, to)
		record(err)
	}
	if commodity != "" {
		_, err := wl.FetchCommodity(ctx, commodity, interval)
		record(err)
		chart := wl.Chart()
		out.Chart = &chart
	}
	out.Stocks = wl.Stocks()
	out.Pairs = wl.CurrencyPairs()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		fatal("encode: %v", err)
	}
	if len(out.Errors) > 0 {
		os.Exit(2)
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
