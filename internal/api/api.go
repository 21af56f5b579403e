// Package api exposes the watchlist, the news feed and the topic catalog over
// HTTP with gin.
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketwatch/internal/content"
	"marketwatch/internal/market"
	"marketwatch/internal/metrics"
	"marketwatch/internal/news"
	"marketwatch/internal/watchlist"
)

// maxBody caps request body size.
const maxBody = 1 << 20

// Server holds the dependencies of the handlers.
type Server struct {
	Watchlist *watchlist.Watchlist
	News      *news.Feed
	Topics    *content.Catalog
	Metrics   *metrics.Metrics
	Log       *slog.Logger
	// Timeout bounds the upstream work of one request. Zero means no bound
	// beyond the request context.
	Timeout time.Duration
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), limitBody)

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	if s.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/status", s.status)
	api.GET("/events", s.events)

	api.GET("/stocks", s.listStocks)
	api.POST("/stocks", s.fetchStock)
	api.POST("/stocks/refresh", s.refreshStocks)
	api.DELETE("/stocks/:symbol", s.removeStock)

	api.GET("/forex", s.listPairs)
	api.POST("/forex", s.fetchPair)
	api.DELETE("/forex/:from/:to", s.removePair)

	api.GET("/commodities", s.chart)
	api.POST("/commodities", s.fetchCommodity)

	api.GET("/news", s.listNews)
	api.GET("/topics", s.topics)
	api.GET("/topics/:id", s.topic)
	return r
}

func (s *Server) logger() *slog.Logger {
	if s.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Log
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger().Debug("http request",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func limitBody(c *gin.Context) {
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)
	}
	c.Next()
}

func (s *Server) upstreamContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), s.Timeout)
}

// statusOf maps domain errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, watchlist.ErrInvalidSymbol),
		errors.Is(err, watchlist.ErrInvalidCurrency),
		errors.Is(err, watchlist.ErrInvalidCommodity):
		return http.StatusBadRequest
	case errors.Is(err, watchlist.ErrWatchlistFull):
		return http.StatusConflict
	case errors.Is(err, market.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, market.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, market.ErrTransport):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": err.Error()})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"busy":        s.Watchlist.Status(),
		"stocks":      len(s.Watchlist.Stocks()),
		"pairs":       len(s.Watchlist.CurrencyPairs()),
		"commodities": len(s.Watchlist.Commodities()),
	})
}

// events streams watchlist events as server-sent events until the client
// goes away or the watchlist is closed.
func (s *Server) events(c *gin.Context) {
	ch, cancel := s.Watchlist.Subscribe(16)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Kind), ev)
			return true
		}
	})
}
