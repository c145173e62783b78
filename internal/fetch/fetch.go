package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Error is a typed fetch failure: transport error, timeout, or a non-2xx
// status. StatusCode is 0 when the request never completed.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Header set mimicking a regular browser; some portals serve bots a
// different (or empty) page.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

type Client struct {
	hc      *http.Client
	limiter *HostLimiter
}

func NewClient(timeout, delay time.Duration) *Client {
	return &Client{
		hc:      &http.Client{Timeout: timeout},
		limiter: NewHostLimiter(delay),
	}
}

// Get performs a single best-effort GET and returns the response body.
// No retries; the caller decides what a failed fetch means for the run.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	if err := c.limiter.WaitURL(ctx, url); err != nil {
		return "", &Error{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &Error{URL: url, Err: err}
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return "", &Error{URL: url, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &Error{URL: url, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &Error{URL: url, Err: err}
	}
	return string(body), nil
}
