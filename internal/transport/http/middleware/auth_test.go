package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staffhub/internal/domain/auth"
)

type fakeAccounts struct {
	accounts map[string]auth.Account
}

func (f fakeAccounts) AccountByID(_ context.Context, id string) (auth.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return auth.Account{}, auth.ErrTokenInvalid
	}
	return account, nil
}

func okHandler(t *testing.T, wantIdentity bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantIdentity {
			if _, ok := GetIdentity(r.Context()); !ok {
				t.Error("identity missing from context")
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func failMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Success {
		t.Fatal("success = true on a failure response")
	}
	return body.Message
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	tokens := auth.NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	handler := Authenticate(tokens, fakeAccounts{})(okHandler(t, false))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := failMessage(t, rec); msg != "authentication required" {
		t.Fatalf("message = %q", msg)
	}
}

func TestAuthenticateDistinguishesExpiredToken(t *testing.T) {
	tokens := auth.NewTokenService("access-secret", "refresh-secret", -time.Minute, time.Hour)
	token, err := tokens.IssueAccess(auth.Identity{AccountID: "acc-1", Role: auth.RoleEmployee})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	handler := Authenticate(tokens, fakeAccounts{})(okHandler(t, false))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := failMessage(t, rec); msg != "token expired" {
		t.Fatalf("message = %q, want token expired", msg)
	}
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	tokens := auth.NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	handler := Authenticate(tokens, fakeAccounts{})(okHandler(t, false))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := failMessage(t, rec); msg != "invalid token" {
		t.Fatalf("message = %q, want invalid token", msg)
	}
}

func TestAuthenticateRejectsTokenForMissingAccount(t *testing.T) {
	tokens := auth.NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	token, err := tokens.IssueAccess(auth.Identity{AccountID: "acc-gone", Role: auth.RoleEmployee})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	handler := Authenticate(tokens, fakeAccounts{})(okHandler(t, false))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateAdmitsValidToken(t *testing.T) {
	tokens := auth.NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	token, err := tokens.IssueAccess(auth.Identity{AccountID: "acc-1", Role: auth.RoleEmployee})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	accounts := fakeAccounts{accounts: map[string]auth.Account{
		"acc-1": {ID: "acc-1", EmployeeID: "EMP-001", Email: "a@example.com", Role: auth.RoleEmployee},
	}}

	handler := Authenticate(tokens, accounts)(okHandler(t, true))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestRequireElevated(t *testing.T) {
	cases := []struct {
		role auth.Role
		want int
	}{
		{auth.RoleAdmin, http.StatusNoContent},
		{auth.RoleHR, http.StatusNoContent},
		{auth.RoleEmployee, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.role.String(), func(t *testing.T) {
			handler := RequireElevated(okHandler(t, false))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithIdentity(req.Context(), auth.Identity{AccountID: "acc-1", Role: tc.role}))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("role %s: status = %d, want %d", tc.role, rec.Code, tc.want)
			}
		})
	}
}

func TestRequireAdminBlocksHR(t *testing.T) {
	handler := RequireAdmin(okHandler(t, false))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), auth.Identity{AccountID: "acc-1", Role: auth.RoleHR}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRBACWithoutIdentityIsUnauthorized(t *testing.T) {
	handler := RequireElevated(okHandler(t, false))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
