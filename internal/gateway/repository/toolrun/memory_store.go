package toolrun

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps runs in-process. Used when no database is configured and
// in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]ToolRun
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]ToolRun)}
}

func (s *MemoryStore) Create(_ context.Context, run ToolRun) error {
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("run id is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.Status == "" {
		run.Status = StatusRunning
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[run.ID] = run
	return nil
}

func (s *MemoryStore) Finish(_ context.Context, id, status string, output json.RawMessage, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("run %s not found", id)
	}
	now := time.Now().UTC()
	run.Status = status
	run.Output = output
	run.ErrorMessage = errMsg
	run.CompletedAt = &now
	s.byID[id] = run
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (ToolRun, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.byID[strings.TrimSpace(id)]
	return run, ok, nil
}

func (s *MemoryStore) ListByProject(_ context.Context, projectID string, limit int) ([]ToolRun, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ToolRun, 0, 16)
	for _, run := range s.byID {
		if run.ProjectID == projectID {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
