package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aivis/internal/apperr"
)

func TestSearchClientPostsQueryWithBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		var body struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Query != "best crm for startups" {
			t.Errorf("body query = %q err = %v", body.Query, err)
		}
		_, _ = w.Write([]byte(`{"answer": "Acme CRM leads the field", "sources": ["https://example.com/review"]}`))
	}))
	defer srv.Close()

	c, err := NewSearchClient(srv.URL, "sk-test")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ans, err := c.Search(context.Background(), "best crm for startups")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if ans.Answer != "Acme CRM leads the field" {
		t.Fatalf("answer = %q", ans.Answer)
	}
	if len(ans.Sources) != 1 {
		t.Fatalf("sources = %v", ans.Sources)
	}
	if ans.Query != "best crm for startups" {
		t.Fatalf("query echoed back = %q", ans.Query)
	}
}

func TestSearchClientUpstreamStatusPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewSearchClient(srv.URL, "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.Search(context.Background(), "anything")
	if !apperr.IsKind(err, apperr.Upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if got := apperr.As(err).UpstreamStatus; got != http.StatusTooManyRequests {
		t.Fatalf("upstream status = %d, want 429", got)
	}
}

func TestNewSearchClientRequiresEndpoint(t *testing.T) {
	if _, err := NewSearchClient("", "key"); !apperr.IsKind(err, apperr.Config) {
		t.Fatalf("expected config error, got %v", err)
	}
}
