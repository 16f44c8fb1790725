package runlog

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"aivis/internal/gateway/repository/toolrun"
)

type failingStore struct{}

func (failingStore) Create(context.Context, toolrun.ToolRun) error { return errors.New("db down") }
func (failingStore) Finish(context.Context, string, string, json.RawMessage, string) error {
	return errors.New("db down")
}
func (failingStore) Get(context.Context, string) (toolrun.ToolRun, bool, error) {
	return toolrun.ToolRun{}, false, errors.New("db down")
}
func (failingStore) ListByProject(context.Context, string, int) ([]toolrun.ToolRun, error) {
	return nil, errors.New("db down")
}

func TestStartReturnsEmptyOnStoreFailure(t *testing.T) {
	l := New(failingStore{}, nil)
	runID := l.Start(context.Background(), "p1", "quick-audit", map[string]string{"url": "https://example.com"})
	if runID != "" {
		t.Fatalf("run id = %q, want empty on store failure", runID)
	}
	// Finish and Fail must be harmless no-ops for an empty run id.
	l.Finish(context.Background(), runID, map[string]int{"score": 1})
	l.Fail(context.Background(), runID, "boom")
}

func TestRunLifecycle(t *testing.T) {
	store := toolrun.NewMemoryStore()
	l := New(store, nil)
	ctx := context.Background()

	runID := l.Start(ctx, "p1", "visibility-audit", map[string]string{"url": "https://example.com"})
	if runID == "" {
		t.Fatal("expected a run id")
	}
	if !strings.HasPrefix(runID, "visibility-audit-") {
		t.Fatalf("run id = %q, want tool-name prefix", runID)
	}

	run, ok, err := store.Get(ctx, runID)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if run.Status != toolrun.StatusRunning {
		t.Fatalf("status = %q, want running", run.Status)
	}

	l.Finish(ctx, runID, map[string]int{"overallScore": 80})
	run, ok, err = store.Get(ctx, runID)
	if err != nil || !ok {
		t.Fatalf("get after finish: ok=%v err=%v", ok, err)
	}
	if run.Status != toolrun.StatusCompleted {
		t.Fatalf("status = %q, want completed", run.Status)
	}
	if run.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}
	if !strings.Contains(string(run.Output), "overallScore") {
		t.Fatalf("output = %s", run.Output)
	}
}

func TestFailRecordsMessage(t *testing.T) {
	store := toolrun.NewMemoryStore()
	l := New(store, nil)
	ctx := context.Background()

	runID := l.Start(ctx, "p1", "optimizer", nil)
	l.Fail(ctx, runID, "model unavailable")

	run, ok, err := store.Get(ctx, runID)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if run.Status != toolrun.StatusError {
		t.Fatalf("status = %q, want error", run.Status)
	}
	if run.ErrorMessage != "model unavailable" {
		t.Fatalf("error message = %q", run.ErrorMessage)
	}
}
