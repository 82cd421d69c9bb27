package middleware

import (
	"net/http"

	"staffhub/internal/transport/http/api"
)

// RequireElevated admits admin and hr identities only. It assumes
// Authenticate already ran; an absent identity is treated as unauthorized.
func RequireElevated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "authentication required", GetRequestID(r.Context()))
			return
		}
		if !identity.Role.Elevated() {
			api.Fail(w, http.StatusForbidden, "insufficient permissions", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin admits the admin role only.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "authentication required", GetRequestID(r.Context()))
			return
		}
		if !identity.Role.Admin() {
			api.Fail(w, http.StatusForbidden, "insufficient permissions", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
