// Package fetch provides the outbound HTTP clients: page content, and the
// answer-engine search provider.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"
)

// PlaceholderContent is returned whenever page content cannot be retrieved.
// Callers must treat it as valid input, never as an error.
const PlaceholderContent = "No page content could be retrieved."

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	pageFetchTimeout = 30 * time.Second
	maxPageBytes     = 512 << 10
)

// PageFetcher returns the textual content of a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) string
}

// HTTPPageFetcher fetches page content with a generic browser user-agent.
// Non-2xx responses and network failures yield PlaceholderContent.
type HTTPPageFetcher struct {
	client *http.Client
}

func NewHTTPPageFetcher() *HTTPPageFetcher {
	return &HTTPPageFetcher{client: &http.Client{Timeout: pageFetchTimeout}}
}

func (f *HTTPPageFetcher) Fetch(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PlaceholderContent
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return PlaceholderContent
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return PlaceholderContent
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil || len(body) == 0 {
		return PlaceholderContent
	}
	return string(body)
}
