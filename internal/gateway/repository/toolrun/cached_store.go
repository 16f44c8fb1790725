package toolrun

import (
	"context"
	"encoding/json"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore fronts Get with an LRU. Writes invalidate the cached entry so
// the websocket watch loop observes status transitions.
type CachedStore struct {
	next  Store
	cache *lru.Cache[string, ToolRun]
}

func NewCachedStore(next Store, size int) (*CachedStore, error) {
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, ToolRun](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{next: next, cache: cache}, nil
}

func (s *CachedStore) Create(ctx context.Context, run ToolRun) error {
	if err := s.next.Create(ctx, run); err != nil {
		return err
	}
	s.cache.Add(run.ID, run)
	return nil
}

func (s *CachedStore) Finish(ctx context.Context, id, status string, output json.RawMessage, errMsg string) error {
	// Invalidate first so a concurrent Get never re-caches the stale row.
	s.cache.Remove(id)
	return s.next.Finish(ctx, id, status, output, errMsg)
}

func (s *CachedStore) Get(ctx context.Context, id string) (ToolRun, bool, error) {
	if run, ok := s.cache.Get(id); ok && run.Status != StatusRunning {
		return run, true, nil
	}
	run, ok, err := s.next.Get(ctx, id)
	if err == nil && ok && run.Status != StatusRunning {
		s.cache.Add(id, run)
	}
	return run, ok, err
}

func (s *CachedStore) ListByProject(ctx context.Context, projectID string, limit int) ([]ToolRun, error) {
	return s.next.ListByProject(ctx, projectID, limit)
}
