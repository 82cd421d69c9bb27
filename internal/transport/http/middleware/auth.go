package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"staffhub/internal/domain/auth"
	"staffhub/internal/transport/http/api"
)

type ctxKey int

const ctxKeyIdentity ctxKey = iota

// TokenVerifier is the token-service surface the middleware needs.
type TokenVerifier interface {
	VerifyAccess(token string) (auth.AccessClaims, error)
}

// AccountSource resolves a verified token to a live account. Tokens for
// deleted accounts fail authentication even before expiry.
type AccountSource interface {
	AccountByID(ctx context.Context, id string) (auth.Account, error)
}

// Authenticate enforces a valid Bearer access token on everything it wraps.
// The resolved identity is placed in the request context.
func Authenticate(tokens TokenVerifier, accounts AccountSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := GetRequestID(r.Context())

			raw := bearerToken(r)
			if raw == "" {
				api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
				return
			}

			claims, err := tokens.VerifyAccess(raw)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					api.Fail(w, http.StatusUnauthorized, "token expired", reqID)
					return
				}
				api.Fail(w, http.StatusUnauthorized, "invalid token", reqID)
				return
			}

			account, err := accounts.AccountByID(r.Context(), claims.AccountID)
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, "invalid token", reqID)
				return
			}

			identity := auth.Identity{
				AccountID:  account.ID,
				EmployeeID: account.EmployeeID,
				Email:      account.Email,
				Role:       account.Role,
			}
			ctx := context.WithValue(r.Context(), ctxKeyIdentity, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(ctxKeyIdentity).(auth.Identity)
	return identity, ok
}

// WithIdentity is a test hook for handler tests that bypass Authenticate.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, identity)
}
