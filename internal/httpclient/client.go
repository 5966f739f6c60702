// Shared HTTP client for the site adapters: browser-like headers, per-host
// pacing, and a timeout, so one polite client is reused everywhere.

package httpclient

import (
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:133.0) Gecko/20100101 Firefox/133.0",
}

// Client wraps http.Client with the headers and pacing the job boards
// tolerate.
type Client struct {
	inner    *http.Client
	mu       sync.Mutex
	lastReq  map[string]time.Time
	minDelay time.Duration
}

// New returns a Client with a request timeout and a minimum delay between
// requests to the same host.
func New(timeout, minDelay time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		inner:    &http.Client{Timeout: timeout},
		lastReq:  make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Do executes the request with rotated user agent and per-host pacing.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)

	if err := c.pace(req); err != nil {
		return nil, err
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Connection", "keep-alive")
}

func (c *Client) pace(req *http.Request) error {
	if c.minDelay == 0 {
		return nil
	}

	host := req.URL.Host
	c.mu.Lock()
	last, ok := c.lastReq[host]
	c.lastReq[host] = time.Now()
	c.mu.Unlock()

	if !ok {
		return nil
	}

	if elapsed := time.Since(last); elapsed < c.minDelay {
		select {
		case <-time.After(c.minDelay - elapsed):
		case <-req.Context().Done():
			return req.Context().Err()
		}
	}
	return nil
}
