package middleware

import (
	"context"
	"net/http"
	"strings"

	"aivis/internal/apperr"
	"aivis/internal/auth"
	"aivis/internal/gateway/httpx"
)

type ctxKeyUser struct{}

// UserFrom returns the authenticated user id stored by RequireAuth.
func UserFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyUser{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequireAuth verifies the Authorization bearer token and injects the user id
// into the request context. Failures are always 401.
func RequireAuth(verifier auth.Verifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httpx.WriteError(w, apperr.New(apperr.Auth, "missing bearer token"))
			return
		}
		userID, err := verifier.Verify(r.Context(), token)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUser{}, userID)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
