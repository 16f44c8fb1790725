package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aivis/internal/gateway/repository/toolrun"
)

func seedRun(t *testing.T, store toolrun.Store, id, projectID, status string) {
	t.Helper()
	err := store.Create(context.Background(), toolrun.ToolRun{
		ID:        id,
		ProjectID: projectID,
		ToolName:  "quick-audit",
		Status:    status,
	})
	if err != nil {
		t.Fatalf("seed run: %v", err)
	}
}

func TestRunsListByProject(t *testing.T) {
	store := toolrun.NewMemoryStore()
	seedRun(t, store, "r1", "p1", toolrun.StatusCompleted)
	seedRun(t, store, "r2", "p2", toolrun.StatusCompleted)
	h := NewRunsHandler(store)

	rec := httptest.NewRecorder()
	h.HandleList(rec, httptest.NewRequest(http.MethodGet, "/v1/runs?project_id=p1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Runs []toolrun.ToolRun `json:"runs"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data.Runs) != 1 || data.Runs[0].ID != "r1" {
		t.Fatalf("runs = %+v", data.Runs)
	}
}

func TestRunsListRequiresProjectID(t *testing.T) {
	h := NewRunsHandler(toolrun.NewMemoryStore())
	rec := httptest.NewRecorder()
	h.HandleList(rec, httptest.NewRequest(http.MethodGet, "/v1/runs", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRunsGetByID(t *testing.T) {
	store := toolrun.NewMemoryStore()
	seedRun(t, store, "r1", "p1", toolrun.StatusRunning)
	h := NewRunsHandler(store)

	// PathValue routing requires going through a mux.
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/runs/{id}", h.HandleGet)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/r1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	var run toolrun.ToolRun
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &run); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if run.ID != "r1" || run.Status != toolrun.StatusRunning {
		t.Fatalf("run = %+v", run)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs/missing", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing run: status = %d, want 400", rec.Code)
	}
}
