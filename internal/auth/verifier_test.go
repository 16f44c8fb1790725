package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"aivis/internal/apperr"
)

func TestHTTPVerifierResolvesSubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub": "user-42"}`))
	}))
	defer srv.Close()

	v, err := NewHTTPVerifier(srv.URL)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	userID, err := v.Verify(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "user-42" {
		t.Fatalf("user id = %q", userID)
	}

	if _, err := v.Verify(context.Background(), "bad-token"); !apperr.IsKind(err, apperr.Auth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestHTTPVerifierPrefersIDOverSub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "primary", "sub": "secondary"}`))
	}))
	defer srv.Close()

	v, err := NewHTTPVerifier(srv.URL)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	userID, err := v.Verify(context.Background(), "tok")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "primary" {
		t.Fatalf("user id = %q, want primary", userID)
	}
}

func TestHTTPVerifierRejectsEmptyToken(t *testing.T) {
	v, err := NewHTTPVerifier("http://identity.invalid/userinfo")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	if _, err := v.Verify(context.Background(), ""); !apperr.IsKind(err, apperr.Auth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestNewHTTPVerifierRequiresEndpoint(t *testing.T) {
	if _, err := NewHTTPVerifier("  "); !apperr.IsKind(err, apperr.Config) {
		t.Fatalf("expected config error, got %v", err)
	}
}
