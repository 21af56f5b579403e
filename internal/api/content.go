package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketwatch/internal/news"
)

// article is a news item with its derived labels.
type article struct {
	news.Article
	Category  string `json:"category"`
	Sentiment string `json:"sentiment"`
	Age       string `json:"age"`
}

// listNews answers with the feed state. q filters this response only;
// refresh=1 reloads from upstream first.
func (s *Server) listNews(c *gin.Context) {
	if s.News == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "news feed disabled"})
		return
	}
	if c.Query("refresh") == "1" {
		ctx, cancel := s.upstreamContext(c)
		defer cancel()
		// The failure is reported through the state's error field.
		_ = s.News.Load(ctx)
	}
	q := c.Query("q")

	state := s.News.State()
	now := time.Now()
	articles := make([]article, 0, len(state.Articles))
	for _, a := range state.Articles {
		if !news.Matches(a, q) {
			continue
		}
		articles = append(articles, article{
			Article:   a,
			Category:  news.MainCategory(a),
			Sentiment: news.Sentiment(a),
			Age:       news.Age(a, now),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"loading":  state.Loading,
		"query":    q,
		"error":    state.Error,
		"articles": articles,
	})
}

// topics lists the catalog, narrowed by q when given.
func (s *Server) topics(c *gin.Context) {
	if s.Topics == nil {
		c.JSON(http.StatusOK, gin.H{"topics": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": s.Topics.Search(c.Query("q"))})
}

func (s *Server) topic(c *gin.Context) {
	if s.Topics != nil {
		if t, ok := s.Topics.Find(c.Param("id")); ok {
			c.JSON(http.StatusOK, t)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "topic not found"})
}
