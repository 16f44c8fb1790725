package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPPageFetcherReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != browserUserAgent {
			t.Errorf("user-agent = %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte("<html>hello</html>"))
	}))
	defer srv.Close()

	got := NewHTTPPageFetcher().Fetch(context.Background(), srv.URL)
	if got != "<html>hello</html>" {
		t.Fatalf("content = %q", got)
	}
}

func TestHTTPPageFetcherPlaceholderOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if got := NewHTTPPageFetcher().Fetch(context.Background(), srv.URL); got != PlaceholderContent {
		t.Fatalf("content = %q, want placeholder", got)
	}
}

func TestHTTPPageFetcherPlaceholderOnNetworkFailure(t *testing.T) {
	if got := NewHTTPPageFetcher().Fetch(context.Background(), "http://127.0.0.1:1"); got != PlaceholderContent {
		t.Fatalf("content = %q, want placeholder", got)
	}
}

func TestCachedPageFetcherServesSecondHitFromCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("cached body"))
	}))
	defer srv.Close()

	f, err := NewCachedPageFetcher(NewHTTPPageFetcher(), 8)
	if err != nil {
		t.Fatalf("new cached fetcher: %v", err)
	}
	if got := f.Fetch(context.Background(), srv.URL); got != "cached body" {
		t.Fatalf("first fetch = %q", got)
	}
	if got := f.Fetch(context.Background(), srv.URL); got != "cached body" {
		t.Fatalf("second fetch = %q", got)
	}
	if hits != 1 {
		t.Fatalf("origin hits = %d, want 1", hits)
	}
}

func TestCachedPageFetcherDoesNotCachePlaceholder(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	f, err := NewCachedPageFetcher(NewHTTPPageFetcher(), 8)
	if err != nil {
		t.Fatalf("new cached fetcher: %v", err)
	}
	if got := f.Fetch(context.Background(), srv.URL); got != PlaceholderContent {
		t.Fatalf("first fetch = %q, want placeholder", got)
	}
	if got := f.Fetch(context.Background(), srv.URL); got != "recovered" {
		t.Fatalf("second fetch = %q, want recovered", got)
	}
}
