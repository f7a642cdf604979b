package http

import (
	"context"
	"net/http"
	"strings"

	"renthub-backend/internal/logger"
	"renthub-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "claims"

// Middleware holds the pieces route guards depend on.
type Middleware struct {
	tokens security.TokenManager
	apiKey security.APIKeyVerifier
}

func NewMiddleware(tokens security.TokenManager, apiKey security.APIKeyVerifier) *Middleware {
	return &Middleware{tokens: tokens, apiKey: apiKey}
}

// Authenticate requires a valid bearer access token and stores the
// claims in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing bearer token")
			return
		}
		claims, err := m.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", err.Error())
			return
		}
		if claims.Type != security.TokenTypeAccess {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", security.ErrWrongTokenType.Error())
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole guards a route behind a role carried in the access token.
// Must run after Authenticate.
func (m *Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing bearer token")
				return
			}
			if !claims.HasRole(role) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAPIKey guards service-to-service routes, such as the payment
// gateway webhook, behind the X-Api-Key header.
func (m *Middleware) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.apiKey.Verify(r.Header.Get("X-Api-Key")) {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LogRequests logs method and path for every request.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func claimsFromContext(ctx context.Context) *security.UserClaims {
	claims, _ := ctx.Value(claimsKey).(*security.UserClaims)
	return claims
}

// userIDFromContext returns the authenticated user's ID, or 0 when the
// request skipped Authenticate.
func userIDFromContext(ctx context.Context) int32 {
	if claims := claimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}
