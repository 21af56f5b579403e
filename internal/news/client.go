// Package news loads the latest crypto headlines from a CryptoCompare-style
// news endpoint and offers search and simple classification over them.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const baseURL = "https://min-api.cryptocompare.com"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=news_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// SourceInfo describes the publisher of an article.
type SourceInfo struct {
	Name     string `json:"name"`
	ImageURL string `json:"img,omitempty"`
	Language string `json:"lang"`
}

// Article is one news item. Tags and Categories are pipe-delimited.
type Article struct {
	ID          string     `json:"id"`
	GUID        string     `json:"guid"`
	PublishedOn int64      `json:"published_on"`
	ImageURL    string     `json:"imageurl,omitempty"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Body        string     `json:"body"`
	Tags        string     `json:"tags"`
	Categories  string     `json:"categories"`
	Source      SourceInfo `json:"source_info"`
	Language    string     `json:"lang"`
}

// Response is the body of the latest-news endpoint.
type Response struct {
	Data       []Article `json:"Data"`
	HasWarning bool      `json:"HasWarning"`
}

// Client is a client for the news endpoint.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	apiKey     string
	language   string
}

// ClientOption is a configuration option for the client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAPIKey sets the api_key parameter. The free tier works without one.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithLanguage sets the article language, EN by default.
func WithLanguage(lang string) ClientOption {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// NewClient creates a news client.
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		language:   "EN",
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// Latest fetches the newest articles.
func (c *Client) Latest(ctx context.Context) (Response, error) {
	query := url.Values{}
	query.Set("lang", c.language)
	query.Set("sortOrder", "latest")
	query.Set("api_key", c.apiKey)

	url := fmt.Sprintf("%s/data/v2/news/?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return Response{}, fmt.Errorf("unexpected status code %d: %s", res.StatusCode, b)
	}

	var out Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("decoding response: %w", err)
	}
	return out, nil
}
