package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type stockRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

type pairRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type commodityRequest struct {
	Name     string `json:"name" binding:"required"`
	Interval string `json:"interval"`
}

func (s *Server) listStocks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stocks": s.Watchlist.Stocks()})
}

func (s *Server) fetchStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, cancel := s.upstreamContext(c)
	defer cancel()

	q, err := s.Watchlist.FetchStock(ctx, req.Symbol)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": q, "stocks": s.Watchlist.Stocks()})
}

func (s *Server) refreshStocks(c *gin.Context) {
	ctx, cancel := s.upstreamContext(c)
	defer cancel()

	body := gin.H{}
	if err := s.Watchlist.RefreshStocks(ctx); err != nil {
		body["error"] = err.Error()
	}
	body["stocks"] = s.Watchlist.Stocks()
	c.JSON(http.StatusOK, body)
}

func (s *Server) removeStock(c *gin.Context) {
	s.Watchlist.RemoveStock(c.Param("symbol"))
	c.JSON(http.StatusOK, gin.H{"stocks": s.Watchlist.Stocks()})
}

func (s *Server) listPairs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pairs": s.Watchlist.CurrencyPairs()})
}

func (s *Server) fetchPair(c *gin.Context) {
	var req pairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, cancel := s.upstreamContext(c)
	defer cancel()

	p, err := s.Watchlist.FetchCurrencyPair(ctx, req.From, req.To)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pair": p, "pairs": s.Watchlist.CurrencyPairs()})
}

func (s *Server) removePair(c *gin.Context) {
	s.Watchlist.RemoveCurrencyPair(c.Param("from"), c.Param("to"))
	c.JSON(http.StatusOK, gin.H{"pairs": s.Watchlist.CurrencyPairs()})
}

func (s *Server) chart(c *gin.Context) {
	c.JSON(http.StatusOK, s.Watchlist.Chart())
}

func (s *Server) fetchCommodity(c *gin.Context) {
	var req commodityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Interval == "" {
		req.Interval = "monthly"
	}
	ctx, cancel := s.upstreamContext(c)
	defer cancel()

	if _, err := s.Watchlist.FetchCommodity(ctx, req.Name, req.Interval); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Watchlist.Chart())
}
