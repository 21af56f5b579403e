// Package content serves the read-only catalog of educational topics.
package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

//go:embed topics.json
var embedded []byte

type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Topic struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	ImageURL string    `json:"imageUrl"`
	Sections []Section `json:"sections"`
	VideoURL string    `json:"videoUrl,omitempty"`
}

// Catalog is an immutable list of topics.
type Catalog struct {
	topics []Topic
	byID   map[string]int
}

// Load reads the catalog from path, or the embedded one when path is empty.
// A missing or malformed file yields an empty catalog and a logged warning.
func Load(path string, log *slog.Logger) *Catalog {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	data := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Warn("topic catalog unavailable", "path", path, "error", err)
			return newCatalog(nil)
		}
		data = b
	}
	topics, err := Parse(data)
	if err != nil {
		log.Warn("topic catalog malformed", "path", path, "error", err)
		return newCatalog(nil)
	}
	log.Debug("topic catalog loaded", "topics", len(topics))
	return newCatalog(topics)
}

// Parse decodes a JSON array of topics.
func Parse(data []byte) ([]Topic, error) {
	var topics []Topic
	if err := json.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("decoding topics: %w", err)
	}
	return topics, nil
}

func newCatalog(topics []Topic) *Catalog {
	c := &Catalog{topics: topics, byID: make(map[string]int, len(topics))}
	for i, t := range topics {
		if _, dup := c.byID[t.ID]; !dup {
			c.byID[t.ID] = i
		}
	}
	return c
}

// Topics returns every topic in file order.
func (c *Catalog) Topics() []Topic {
	return append([]Topic{}, c.topics...)
}

// Find returns the first topic with id.
func (c *Catalog) Find(id string) (Topic, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Topic{}, false
	}
	return c.topics[i], true
}

// Search returns the topics whose title, subtitle or any section title or
// content contains query, ignoring case. An empty query returns every topic.
func (c *Catalog) Search(query string) []Topic {
	if query == "" {
		return c.Topics()
	}
	q := strings.ToLower(query)
	found := []Topic{}
	for _, t := range c.topics {
		if t.matches(q) {
			found = append(found, t)
		}
	}
	return found
}

func (t Topic) matches(q string) bool {
	if contains(t.Title, q) || contains(t.Subtitle, q) {
		return true
	}
	for _, s := range t.Sections {
		if contains(s.Title, q) || contains(s.Content, q) {
			return true
		}
	}
	return false
}

func contains(field, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(field), lowerQuery)
}
