package news

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Fetcher returns the latest articles.
type Fetcher interface {
	Latest(ctx context.Context) (Response, error)
}

// State is what a reader of the feed sees.
type State struct {
	Loading  bool      `json:"loading"`
	Query    string    `json:"query"`
	Articles []Article `json:"articles"`
	Error    string    `json:"error,omitempty"`
}

// Feed keeps the last loaded articles and the active search query.
type Feed struct {
	fetcher Fetcher
	log     *slog.Logger

	mu      sync.Mutex
	all     []Article
	query   string
	loading int
	err     string
}

// NewFeed returns an empty feed. A nil logger discards.
func NewFeed(fetcher Fetcher, log *slog.Logger) *Feed {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Feed{fetcher: fetcher, log: log}
}

// Load replaces the articles with the latest ones. On failure the previous
// articles stay and the error message is kept in State.
func (f *Feed) Load(ctx context.Context) error {
	f.mu.Lock()
	f.loading++
	f.mu.Unlock()

	res, err := f.fetcher.Latest(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading--
	if err != nil {
		f.err = err.Error()
		f.log.Warn("news load failed", "error", err)
		return err
	}
	f.err = ""
	f.all = res.Data
	if res.HasWarning {
		f.log.Info("news endpoint returned a warning", "articles", len(res.Data))
	}
	return nil
}

// Search sets the active query and returns the matching articles. An empty
// query matches everything.
func (f *Feed) Search(query string) []Article {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = query
	return f.filtered()
}

// State returns the articles matching the active query with the load status.
func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		Loading:  f.loading > 0,
		Query:    f.query,
		Articles: f.filtered(),
		Error:    f.err,
	}
}

func (f *Feed) filtered() []Article {
	out := make([]Article, 0, len(f.all))
	for _, a := range f.all {
		if Matches(a, f.query) {
			out = append(out, a)
		}
	}
	return out
}

// Matches reports whether query occurs, ignoring case, in the title, body,
// tags or categories of a.
func Matches(a Article, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range []string{a.Title, a.Body, a.Tags, a.Categories} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
