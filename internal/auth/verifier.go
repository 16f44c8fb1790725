// Package auth validates bearer tokens against the identity provider.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"aivis/internal/apperr"
)

const verifyTimeout = 30 * time.Second

// Verifier resolves a bearer token to a user id. Any failure maps to a 401.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// HTTPVerifier calls the identity provider's userinfo endpoint with the token.
type HTTPVerifier struct {
	http     *http.Client
	endpoint string
}

func NewHTTPVerifier(endpoint string) (*HTTPVerifier, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, apperr.New(apperr.Config, "auth userinfo endpoint is not configured")
	}
	return &HTTPVerifier{
		http:     &http.Client{Timeout: verifyTimeout},
		endpoint: endpoint,
	}, nil
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", apperr.New(apperr.Auth, "missing bearer token")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.http.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.Auth, "token verification failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.New(apperr.Auth, "invalid bearer token")
	}
	var body struct {
		ID  string `json:"id"`
		Sub string `json:"sub"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperr.Wrap(apperr.Auth, "userinfo response is not valid JSON", err)
	}
	userID := body.ID
	if userID == "" {
		userID = body.Sub
	}
	if userID == "" {
		return "", apperr.New(apperr.Auth, "userinfo response has no subject")
	}
	return userID, nil
}

// StaticVerifier maps fixed tokens to user ids. Used in tests and local runs.
type StaticVerifier map[string]string

func (v StaticVerifier) Verify(_ context.Context, token string) (string, error) {
	if userID, ok := v[token]; ok {
		return userID, nil
	}
	return "", apperr.New(apperr.Auth, "invalid bearer token")
}
