package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aivis/internal/apperr"
)

const searchTimeout = 30 * time.Second

// SearchAnswer is one answer-engine response to a query.
type SearchAnswer struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// Searcher queries an answer-engine style search provider.
type Searcher interface {
	Search(ctx context.Context, query string) (SearchAnswer, error)
}

// SearchClient calls a configurable answer-engine endpoint. Unlike the page
// fetcher, upstream failures propagate verbatim with the status embedded.
type SearchClient struct {
	http     *http.Client
	endpoint string
	apiKey   string
}

func NewSearchClient(endpoint, apiKey string) (*SearchClient, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, apperr.New(apperr.Config, "search provider endpoint is not configured")
	}
	return &SearchClient{
		http:     &http.Client{Timeout: searchTimeout},
		endpoint: endpoint,
		apiKey:   apiKey,
	}, nil
}

func (c *SearchClient) Search(ctx context.Context, query string) (SearchAnswer, error) {
	b, _ := json.Marshal(map[string]string{"query": query})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return SearchAnswer{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return SearchAnswer{}, apperr.Wrap(apperr.Upstream, "search request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return SearchAnswer{}, apperr.NewUpstream(resp.StatusCode,
			fmt.Sprintf("search provider returned %s: %s", resp.Status, string(body)))
	}
	var out struct {
		Answer  string   `json:"answer"`
		Sources []string `json:"sources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SearchAnswer{}, apperr.Wrap(apperr.Malformed, "search provider response is not valid JSON", err)
	}
	return SearchAnswer{Query: query, Answer: out.Answer, Sources: out.Sources}, nil
}
