package auth

import (
	"errors"
	"testing"
	"time"
)

func testTokens() *TokenService {
	return NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := testTokens()
	identity := Identity{AccountID: "a1", EmployeeID: "EMP1", Email: "a@b.com", Role: RoleHR}

	token, err := svc.IssueAccess(identity)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	claims, err := svc.VerifyAccess(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.AccountID != "a1" || claims.EmployeeID != "EMP1" || claims.Email != "a@b.com" || claims.Role != "hr" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenClassesAreNotInterchangeable(t *testing.T) {
	svc := testTokens()

	refresh, err := svc.IssueRefresh("a1")
	if err != nil {
		t.Fatalf("issue refresh failed: %v", err)
	}
	if _, err := svc.VerifyAccess(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for refresh-as-access, got %v", err)
	}

	access, err := svc.IssueAccess(Identity{AccountID: "a1", Role: RoleEmployee})
	if err != nil {
		t.Fatalf("issue access failed: %v", err)
	}
	if _, err := svc.VerifyRefresh(access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for access-as-refresh, got %v", err)
	}
}

func TestExpiredTokenIsDistinguished(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", -time.Minute, -time.Minute)
	token, err := svc.IssueAccess(Identity{AccountID: "a1", Role: RoleEmployee})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := svc.VerifyAccess(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestGarbageTokenIsInvalid(t *testing.T) {
	if _, err := testTokens().VerifyAccess("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestHashTokenIsStableAndOpaque(t *testing.T) {
	first := HashToken("refresh-token")
	second := HashToken("refresh-token")
	if first != second {
		t.Fatal("expected deterministic hash")
	}
	if first == "refresh-token" || len(first) != 64 {
		t.Fatalf("unexpected hash: %q", first)
	}
}
