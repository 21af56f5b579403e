package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"marketwatch/internal/api"
	"marketwatch/internal/app"
	"marketwatch/internal/config"
	"marketwatch/internal/content"
	"marketwatch/internal/httpx"
	"marketwatch/internal/logging"
	"marketwatch/internal/metrics"
	"marketwatch/internal/news"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()

	if cfg.AlphaVantage.APIKey == "" {
		log.Warn("ALPHAVANTAGE_API_KEY not set; requests are sent without an api key")
	}

	httpClient := httpx.New(cfg.Server.RequestTimeout(), "")
	m := metrics.New("marketwatch")

	src, err := app.NewSource(cfg.AlphaVantage, httpClient, log)
	if err != nil {
		return fmt.Errorf("alphavantage: %w", err)
	}
	wl, err := app.NewWatchlist(cfg.Watchlist, src, log, m)
	if err != nil {
		return fmt.Errorf("watchlist: %w", err)
	}
	defer wl.Close()

	feed := news.NewFeed(news.NewClient(
		news.WithBaseURL(cfg.News.BaseURL),
		news.WithHTTPClient(httpClient),
		news.WithAPIKey(cfg.News.APIKey),
		news.WithLanguage(cfg.News.Language),
	), log)

	gin.SetMode(gin.ReleaseMode)
	srv := &api.Server{
		Watchlist: wl,
		News:      feed,
		Topics:    content.Load(cfg.Content.Path, log),
		Metrics:   m,
		Log:       log,
		Timeout:   cfg.Server.RequestTimeout(),
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		loadCtx, cancel := context.WithTimeout(ctx, cfg.Server.RequestTimeout())
		defer cancel()
		if err := feed.Load(loadCtx); err == nil {
			log.Info("news feed loaded", "articles", len(feed.State().Articles))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	// Event streams end when the watchlist closes.
	wl.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
