package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aivis/internal/gateway/repository/integration"
	"aivis/internal/secret"
)

func newTestBox(t *testing.T) *secret.Box {
	t.Helper()
	box, err := secret.NewBox("test-sealing-key")
	if err != nil {
		t.Fatalf("new box: %v", err)
	}
	return box
}

func TestIntegrationConnectSealsCredentials(t *testing.T) {
	store := integration.NewMemoryStore()
	box := newTestBox(t)
	h := NewIntegrationsHandler(store, box)

	req := httptest.NewRequest(http.MethodPost, "/v1/integrations",
		bytes.NewReader([]byte(`{"cmsType": "wordpress", "siteUrl": "https://blog.example.com",
			"credentials": {"apiKey": "wp_live_abc123"}}`)))
	rec := asUser(t, "u1", h.HandleConnect, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "wp_live_abc123") {
		t.Fatal("response leaks plaintext credentials")
	}

	stored, ok, err := store.Get(context.Background(), "wordpress-u1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if stored.Status != "connected" {
		t.Fatalf("status = %q", stored.Status)
	}
	if strings.Contains(stored.Sealed, "wp_live_abc123") {
		t.Fatal("store holds plaintext credentials")
	}
	plaintext, err := box.Open(stored.Sealed)
	if err != nil {
		t.Fatalf("open sealed credentials: %v", err)
	}
	var creds map[string]string
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		t.Fatalf("decode credentials: %v", err)
	}
	if creds["apiKey"] != "wp_live_abc123" {
		t.Fatalf("credentials = %v", creds)
	}
}

func TestIntegrationConnectUpsertsByPlatform(t *testing.T) {
	store := integration.NewMemoryStore()
	h := NewIntegrationsHandler(store, newTestBox(t))

	for _, site := range []string{"https://old.example.com", "https://new.example.com"} {
		body, _ := json.Marshal(map[string]any{
			"cmsType":     "shopify",
			"siteUrl":     site,
			"credentials": map[string]string{"token": "tok"},
		})
		req := httptest.NewRequest(http.MethodPost, "/v1/integrations", bytes.NewReader(body))
		if rec := asUser(t, "u1", h.HandleConnect, req); rec.Code != http.StatusOK {
			t.Fatalf("connect %s: status = %d", site, rec.Code)
		}
	}

	list, err := store.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("integrations = %d, want 1 after upsert", len(list))
	}
	if list[0].SiteURL != "https://new.example.com" {
		t.Fatalf("site url = %q", list[0].SiteURL)
	}
}

func TestIntegrationConnectValidates(t *testing.T) {
	h := NewIntegrationsHandler(integration.NewMemoryStore(), newTestBox(t))

	req := httptest.NewRequest(http.MethodPost, "/v1/integrations",
		bytes.NewReader([]byte(`{"credentials": {"k": "v"}}`)))
	if rec := asUser(t, "u1", h.HandleConnect, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing cmsType: status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/integrations",
		bytes.NewReader([]byte(`{"cmsType": "wordpress"}`)))
	if rec := asUser(t, "u1", h.HandleConnect, req); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing credentials: status = %d", rec.Code)
	}
}

func TestIntegrationConnectWithoutSealingKey(t *testing.T) {
	h := NewIntegrationsHandler(integration.NewMemoryStore(), nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/integrations",
		bytes.NewReader([]byte(`{"cmsType": "wordpress", "credentials": {"k": "v"}}`)))
	rec := asUser(t, "u1", h.HandleConnect, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != "config_error" {
		t.Fatalf("envelope: %s", rec.Body.String())
	}
}
