package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aivis/internal/auth"
)

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	h := RequireAuth(auth.StaticVerifier{"tok": "u1"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tools/quick-audit", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success {
		t.Fatal("success must be false")
	}
	if body.Error.Message == "" {
		t.Fatal("expected an error message")
	}
}

func TestRequireAuthRejectsUnknownToken(t *testing.T) {
	h := RequireAuth(auth.StaticVerifier{"tok": "u1"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/tools/quick-audit", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthInjectsUser(t *testing.T) {
	var gotUser string
	h := RequireAuth(auth.StaticVerifier{"tok": "u1"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFrom(r.Context())
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/tools/quick-audit", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotUser != "u1" {
		t.Fatalf("user = %q, want u1", gotUser)
	}
}
