package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aivis/internal/fetch"
	"aivis/internal/gateway/repository/toolrun"
	"aivis/internal/runlog"
)

// scriptedLLM returns canned model output for handler tests.
type scriptedLLM struct {
	text    string
	textErr error
	json    json.RawMessage
	jsonErr error
}

func (s *scriptedLLM) Name() string { return "scripted" }
func (s *scriptedLLM) Close() error { return nil }

func (s *scriptedLLM) GenerateText(context.Context, string, any) (string, error) {
	return s.text, s.textErr
}

func (s *scriptedLLM) GenerateJSON(context.Context, string, any) (json.RawMessage, error) {
	return s.json, s.jsonErr
}

// staticPages serves fixed page content without touching the network.
type staticPages string

func (p staticPages) Fetch(context.Context, string) string { return string(p) }

var _ fetch.PageFetcher = staticPages("")

// scriptedSearcher answers every query with a fixed template.
type scriptedSearcher struct {
	answers map[string]fetch.SearchAnswer
	err     error
}

func (s *scriptedSearcher) Search(_ context.Context, query string) (fetch.SearchAnswer, error) {
	if s.err != nil {
		return fetch.SearchAnswer{}, s.err
	}
	ans, ok := s.answers[query]
	if !ok {
		return fetch.SearchAnswer{Query: query, Answer: "no answer"}, nil
	}
	ans.Query = query
	return ans, nil
}

func newTestRunlog() (*runlog.Logger, *toolrun.MemoryStore) {
	store := toolrun.NewMemoryStore()
	return runlog.New(store, nil), store
}

func postJSON(t *testing.T, h http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}

// latestRun returns the single run recorded for the project.
func latestRun(t *testing.T, store *toolrun.MemoryStore, projectID string) toolrun.ToolRun {
	t.Helper()
	runs, err := store.ListByProject(context.Background(), projectID, 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) == 0 {
		t.Fatalf("no runs recorded for %s", projectID)
	}
	return runs[0]
}
