package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/radiorasclat/api/internal/auth"
)

type contextKey string

const claimsKey contextKey = "claims"

// Verifier checks an access token and returns its claims.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth returns middleware that requires a valid Bearer access token on every
// request. The response messages are part of the public API contract and
// stay in German like the clients expect.
func Auth(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized,
					"Es konnte kein Authentifizierungs-Token gefunden werden.")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				writeAuthError(w, http.StatusForbidden,
					"Dieser Token ist ungültig: "+err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified claims of the current request, or
// nil outside the auth middleware.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(claimsKey).(*auth.Claims); ok {
		return c
	}
	return nil
}

// WithTestClaims injects claims into the context for handler-level unit
// tests that bypass the auth middleware.
func WithTestClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
