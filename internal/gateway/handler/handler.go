// Package handler implements the HTTP endpoints for every tool.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"aivis/internal/apperr"
	"aivis/internal/gateway/middleware"
)

// decodeJSON reads the request body into v, mapping malformed bodies to a
// validation error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid json body", err)
	}
	return nil
}

// projectRef picks the explicit project reference or falls back to the
// authenticated user id.
func projectRef(r *http.Request, projectID string) string {
	if s := strings.TrimSpace(projectID); s != "" {
		return s
	}
	return middleware.UserFrom(r.Context())
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}
