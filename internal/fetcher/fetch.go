package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher downloads watch pages with browser-like headers. YouTube serves a
// reduced page (no player response, therefore no manifest URL) to clients it
// does not recognise as browsers, so the header set matters.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New creates a Fetcher with the given User-Agent and per-request timeout.
func New(userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// FetchPage performs a single GET against url and returns the body text.
// Any network error, timeout, or non-2xx status is returned as an error;
// there is no retry — the next scheduled run is the retry mechanism.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("NewRequest: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ReadAll: %w", err)
	}
	return string(body), nil
}

// Client exposes the underlying http.Client for components that fetch
// non-HTML resources (e.g. HLS manifests) with the same timeout policy.
func (f *Fetcher) Client() *http.Client {
	return f.client
}
