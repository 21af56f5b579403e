// Package httpx builds the outbound HTTP client shared by the upstream
// market-data and news clients.
package httpx

import (
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent identifies this service to upstream providers.
const DefaultUserAgent = "marketwatch/1.0"

// Client is a small wrapper around http.Client with sane defaults. It
// satisfies the HTTPClient interfaces of the upstream client packages.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Headers   map[string]string
}

// New returns a client with a tuned transport. timeout bounds a whole
// request; an empty userAgent uses DefaultUserAgent.
func New(timeout time.Duration, userAgent string) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{HTTP: &http.Client{Timeout: timeout, Transport: transport}, UserAgent: userAgent}
}

// Do sends req after filling in the user agent and default headers the
// request does not already carry.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return c.HTTP.Do(req)
}
