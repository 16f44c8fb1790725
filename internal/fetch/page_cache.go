package fetch

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedPageFetcher fronts a PageFetcher with an LRU keyed by URL. Placeholder
// results are not cached, so a transient fetch failure does not stick.
type CachedPageFetcher struct {
	next  PageFetcher
	cache *lru.Cache[string, string]
}

func NewCachedPageFetcher(next PageFetcher, size int) (*CachedPageFetcher, error) {
	if size <= 0 {
		size = 512
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &CachedPageFetcher{next: next, cache: cache}, nil
}

func (f *CachedPageFetcher) Fetch(ctx context.Context, url string) string {
	if content, ok := f.cache.Get(url); ok {
		return content
	}
	content := f.next.Fetch(ctx, url)
	if content != PlaceholderContent {
		f.cache.Add(url, content)
	}
	return content
}
