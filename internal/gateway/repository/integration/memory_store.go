package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]Integration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Integration)}
}

func (s *MemoryStore) Upsert(_ context.Context, in Integration) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("integration id is required")
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.byID[in.ID]; ok {
		in.CreatedAt = cur.CreatedAt
	}
	s.byID[in.ID] = in
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Integration, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.byID[strings.TrimSpace(id)]
	return in, ok, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]Integration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Integration
	for _, in := range s.byID {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
