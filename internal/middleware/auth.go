package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmynk/freelancepay/internal/auth"
	"github.com/mmynk/freelancepay/internal/httpjson"
	"github.com/mmynk/freelancepay/internal/revocation"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// claimsKey is the context key for the authenticated session's claims.
	claimsKey contextKey = "claims"

	// SessionCookie carries the token for browser clients.
	SessionCookie = "session"
)

// GetClaims extracts the session claims from the context.
// Returns nil if not found.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// GetUserID extracts the user ID from the context.
// Returns 0 if not found.
func GetUserID(ctx context.Context) int64 {
	if c := GetClaims(ctx); c != nil {
		return c.UserID
	}
	return 0
}

// WithClaims returns a context carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// TokenFromRequest returns the Bearer token, or else the session cookie.
func TokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", auth.ErrInvalidToken
		}
		return parts[1], nil
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", auth.ErrMissingToken
}

// RequireAuth returns a middleware that validates the session token and
// rejects revoked ones. The claims are added to the request context.
// Only a missing, invalid or revoked token answers 401; when the revocation
// store cannot be reached the answer is 503 and the session stays valid.
func RequireAuth(jwtManager *auth.JWTManager, revoked revocation.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(r, jwtManager, revoked)
			switch {
			case err == nil:
			case isRejection(err):
				httpjson.Error(w, http.StatusUnauthorized, "Not authenticated")
				return
			default:
				slog.Error("Failed to authenticate request", "path", r.URL.Path, "error", err)
				httpjson.Error(w, http.StatusServiceUnavailable, "Service unavailable")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func isRejection(err error) bool {
	return errors.Is(err, auth.ErrMissingToken) || errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrRevokedToken)
}

func authenticate(r *http.Request, jwtManager *auth.JWTManager, revoked revocation.Store) (*auth.Claims, error) {
	token, err := TokenFromRequest(r)
	if err != nil {
		return nil, err
	}
	claims, err := jwtManager.Validate(token)
	if err != nil {
		return nil, err
	}
	isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if isRevoked {
		return nil, auth.ErrRevokedToken
	}
	return claims, nil
}
